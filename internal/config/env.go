package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level overrides read from the environment.
type Env struct {
	ConfigPath string  `env:"DAYPACE_CONFIG_PATH"`
	LogPath    string  `env:"DAYPACE_LOG"`
	Salary     float64 `env:"DAYPACE_SALARY"`
	Language   string  `env:"DAYPACE_LANG"`
	Pattern    string  `env:"DAYPACE_PATTERN"`
}

// ParseEnv loads Env from environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// SettingsPath resolves the settings file, honouring DAYPACE_CONFIG_PATH.
func (e Env) SettingsPath() (string, error) {
	return Path(e.ConfigPath)
}

// Apply layers the environment over settings using the same validation as
// the settings file: unset or invalid values leave settings untouched.
func (e Env) Apply(settings Settings) Settings {
	applyYamlSettings(&settings, yamlSettings{
		DefaultSalary:   e.Salary,
		DefaultLanguage: e.Language,
		DefaultPattern:  e.Pattern,
	})
	return settings
}
