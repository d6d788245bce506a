package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lachiem1/daypace/internal/locale"
)

const languageKey = "dashboard.lang"

// PreferencesRepo stores the display language.
type PreferencesRepo struct {
	config *AppConfigRepo
}

func NewPreferencesRepo(db *sql.DB) *PreferencesRepo {
	return &PreferencesRepo{config: NewAppConfigRepo(db)}
}

// LoadLanguage returns the stored language. ok is false when nothing usable
// is stored.
func (r *PreferencesRepo) LoadLanguage(ctx context.Context) (locale.Language, bool, error) {
	raw, found, err := r.config.Get(ctx, languageKey)
	if err != nil {
		return "", false, err
	}
	if !found {
		return "", false, nil
	}
	lang, ok := locale.ParseLanguage(raw)
	if !ok {
		return "", false, nil
	}
	return lang, true, nil
}

func (r *PreferencesRepo) SaveLanguage(ctx context.Context, lang locale.Language) error {
	if _, ok := locale.ParseLanguage(string(lang)); !ok {
		return fmt.Errorf("unsupported language %q", lang)
	}
	return r.config.UpsertMany(ctx, map[string]string{languageKey: string(lang)})
}
