// Package locale keeps language-dependent text and number formatting away
// from the day and breath calculations.
package locale

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Language is one of the supported display languages.
type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

// DefaultLanguage is used until a preference has been stored.
const DefaultLanguage = LanguageRU

// Languages returns the supported languages in toggle order.
func Languages() []Language {
	return []Language{LanguageRU, LanguageEN}
}

// ParseLanguage accepts "ru"/"en" in any case, and full tags such as "en-US".
func ParseLanguage(raw string) (Language, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexAny(value, "-_"); i > 0 {
		value = value[:i]
	}
	switch Language(value) {
	case LanguageRU:
		return LanguageRU, true
	case LanguageEN:
		return LanguageEN, true
	default:
		return "", false
	}
}

// Next returns the other language.
func (l Language) Next() Language {
	if l == LanguageEN {
		return LanguageRU
	}
	return LanguageEN
}

// Tag maps the language to the regional tag used for number formatting.
func (l Language) Tag() language.Tag {
	if l == LanguageEN {
		return language.AmericanEnglish
	}
	return language.Russian
}

// Formatter formats numbers and dates for display.
type Formatter interface {
	FormatNumber(n float64, decimals int) string
	FormatDateShort(t time.Time) string
}

// Locale is the Formatter and string table for one language.
type Locale struct {
	lang    Language
	printer *message.Printer
	catalog *Catalog
}

// For returns the locale for lang, falling back to DefaultLanguage.
func For(lang Language) *Locale {
	c, ok := catalogs[lang]
	if !ok {
		lang = DefaultLanguage
		c = catalogs[lang]
	}
	return &Locale{
		lang:    lang,
		printer: message.NewPrinter(lang.Tag()),
		catalog: c,
	}
}

func (l *Locale) Language() Language { return l.lang }

// T returns the message for key, or the key itself when missing.
func (l *Locale) T(key string) string {
	if v, ok := l.catalog.Messages[key]; ok {
		return v
	}
	return key
}

// Currency returns the currency symbol shown next to money values.
func (l *Locale) Currency() string {
	return l.catalog.Currency
}

// FormatNumber renders n with the given number of decimals. Whole numbers get
// the locale's digit grouping; fractional output keeps a '.' point and no
// grouping in every language.
func (l *Locale) FormatNumber(n float64, decimals int) string {
	if decimals <= 0 {
		return l.printer.Sprintf("%d", int64(math.Round(n)))
	}
	return strconv.FormatFloat(n, 'f', decimals, 64)
}

// FormatDateShort renders weekday, day and month, e.g. "Thu, Oct 15" or
// "чт, 15 окт.".
func (l *Locale) FormatDateShort(t time.Time) string {
	weekday := l.catalog.Weekdays[int(t.Weekday())]
	month := l.catalog.Months[int(t.Month())-1]
	if l.lang == LanguageEN {
		return fmt.Sprintf("%s, %s %d", weekday, month, t.Day())
	}
	return fmt.Sprintf("%s, %d %s", weekday, t.Day(), month)
}

// FormatDuration renders a remaining time as "3 h 12 min", dropping the
// hours when there are none.
func (l *Locale) FormatDuration(hours, minutes int) string {
	if hours > 0 {
		return fmt.Sprintf("%d %s %d %s", hours, l.T("unit.hours"), minutes, l.T("unit.minutes"))
	}
	return fmt.Sprintf("%d %s", minutes, l.T("unit.minutes"))
}

// FormatBurn applies the burn counter bands: grouped integers from 1000,
// then one, two or three fixed decimals as the value shrinks.
func FormatBurn(f Formatter, n float64) string {
	switch {
	case n >= 1000:
		return f.FormatNumber(n, 0)
	case n >= 1:
		return f.FormatNumber(n, 1)
	case n >= 0.01:
		return f.FormatNumber(n, 2)
	default:
		return f.FormatNumber(n, 3)
	}
}
