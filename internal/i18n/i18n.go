// Package i18n provides locale-aware string lookup with placeholder
// substitution for user-facing text such as notification email subjects.
package i18n

import "strings"

// DefaultLocale is used when no supported locale is requested.
const DefaultLocale = "en"

// translations maps a locale to a table of source strings and their
// translated forms. Source strings double as the fallback, so an
// untranslated string passes through with only its placeholders substituted.
var translations = map[string]map[string]string{
	"en": {},
	"fr": {
		"Welcome on :title":                       "Bienvenue sur :title",
		"How to reset your password on :title":    "Réinitialiser votre mot de passe sur :title",
		"Goodbye from :title":                     "Au revoir de :title",
	},
}

// Translator resolves strings for a fixed locale.
type Translator struct {
	locale string
}

// New creates a Translator for the given locale, falling back to the default
// locale when the requested one is not supported.
func New(locale string) *Translator {
	if _, ok := translations[locale]; !ok {
		locale = DefaultLocale
	}
	return &Translator{locale: locale}
}

// Translate resolves the given source string in the translator's locale and
// substitutes :name placeholders with the provided values.
func (t *Translator) Translate(s string, subs map[string]string) string {
	if translated, ok := translations[t.locale][s]; ok {
		s = translated
	}
	for placeholder, value := range subs {
		s = strings.ReplaceAll(s, placeholder, value)
	}
	return s
}
