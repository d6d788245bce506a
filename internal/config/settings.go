package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lachiem1/daypace/internal/breath"
	"github.com/lachiem1/daypace/internal/locale"
	"gopkg.in/yaml.v3"
)

const (
	appName          = "daypace"
	settingsFileName = "settings.yaml"
)

// Settings are the startup defaults for the two views.
type Settings struct {
	DefaultSalary   float64
	DefaultLanguage locale.Language
	DefaultPattern  breath.Pattern
}

type yamlSettings struct {
	DefaultSalary   float64 `yaml:"default_salary"`
	DefaultLanguage string  `yaml:"default_language"`
	DefaultPattern  string  `yaml:"default_pattern"`
}

// Default returns the built-in settings.
func Default() Settings {
	pattern, _ := breath.PresetByName("box")
	return Settings{
		DefaultSalary:   120000,
		DefaultLanguage: locale.DefaultLanguage,
		DefaultPattern:  pattern,
	}
}

// Load reads settings from the YAML file at path. A missing file yields the
// defaults.
func Load(path string) (Settings, error) {
	settings := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(raw, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes settings to YAML at path, creating the directory when needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	serialized, err := yaml.Marshal(yamlSettings{
		DefaultSalary:   settings.DefaultSalary,
		DefaultLanguage: string(settings.DefaultLanguage),
		DefaultPattern:  settings.DefaultPattern.Name,
	})
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Path resolves the settings file location. A non-blank override wins over
// the user config directory.
func Path(override string) (string, error) {
	if p := strings.TrimSpace(override); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.DefaultSalary > 0 {
		settings.DefaultSalary = fileData.DefaultSalary
	}
	if lang, ok := locale.ParseLanguage(fileData.DefaultLanguage); ok {
		settings.DefaultLanguage = lang
	}
	if pattern, ok := breath.PresetByName(fileData.DefaultPattern); ok {
		settings.DefaultPattern = pattern
	}
}
