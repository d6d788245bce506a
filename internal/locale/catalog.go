package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog/*.yaml
var embeddedCatalogFS embed.FS

// requiredKeys must be present in every catalog.
var requiredKeys = []string{
	"day.title", "day.passed", "day.left", "day.phase", "day.burn", "day.salary",
	"day.hint", "day.editing",
	"phase.night", "phase.morning", "phase.afternoon", "phase.evening",
	"unit.hours", "unit.minutes",
	"breath.title", "breath.inhale", "breath.hold", "breath.exhale",
	"breath.cycles", "breath.pattern", "breath.hint",
	"menu.day", "menu.breath",
}

// Catalog is the string table for one language.
type Catalog struct {
	Locale   string            `yaml:"locale"`
	Currency string            `yaml:"currency"`
	Weekdays []string          `yaml:"weekdays"`
	Months   []string          `yaml:"months"`
	Messages map[string]string `yaml:"messages"`
}

var catalogs = mustLoadEmbedded()

// LoadFromFS reads every catalog/*.yaml file in fsys, keyed by locale.
func LoadFromFS(fsys fs.FS) (map[Language]*Catalog, error) {
	paths, err := fs.Glob(fsys, "catalog/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	out := make(map[Language]*Catalog, len(paths))
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var c Catalog
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		lang, err := validateCatalog(p, &c)
		if err != nil {
			return nil, err
		}
		if _, exists := out[lang]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q already defined", p, lang)
		}
		out[lang] = &c
	}

	for _, lang := range Languages() {
		if _, ok := out[lang]; !ok {
			return nil, fmt.Errorf("locale %s is not defined in catalogs", lang)
		}
	}
	return out, nil
}

func validateCatalog(p string, c *Catalog) (Language, error) {
	name := strings.TrimSuffix(path.Base(p), path.Ext(p))
	lang, ok := ParseLanguage(c.Locale)
	if !ok {
		return "", fmt.Errorf("catalog %s: unsupported locale %q", p, c.Locale)
	}
	if string(lang) != name {
		return "", fmt.Errorf("catalog %s: locale %q must match file name %q", p, c.Locale, name)
	}
	if strings.TrimSpace(c.Currency) == "" {
		return "", fmt.Errorf("catalog %s: currency is required", p)
	}
	if len(c.Weekdays) != 7 {
		return "", fmt.Errorf("catalog %s: want 7 weekdays, got %d", p, len(c.Weekdays))
	}
	if len(c.Months) != 12 {
		return "", fmt.Errorf("catalog %s: want 12 months, got %d", p, len(c.Months))
	}
	for _, key := range requiredKeys {
		if strings.TrimSpace(c.Messages[key]) == "" {
			return "", fmt.Errorf("catalog %s: missing message %q", p, key)
		}
	}
	return lang, nil
}

func mustLoadEmbedded() map[Language]*Catalog {
	loaded, err := LoadFromFS(embeddedCatalogFS)
	if err != nil {
		panic(fmt.Sprintf("load embedded locale catalogs: %v", err))
	}
	return loaded
}
