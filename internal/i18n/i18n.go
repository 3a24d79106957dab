// Package i18n is the localization provider: the current UI language and a
// lookup from message key to localized string.
package i18n

import "github.com/yungbote/mathtutor-backend/internal/domain"

// Keys looked up by the services. The full tables also carry the
// front-end strings.
const (
	KeyChatError       = "chatError"
	KeySolveFailed     = "solveFailed"
	KeyInvalidResponse = "solveInvalidResponse"
	KeyUnknownError    = "unknownError"
	KeyShareLinkImage  = "shareLinkDisabledTooltip"
)

type Localizer struct {
	lang domain.Language
}

func New(lang domain.Language) Localizer {
	if _, ok := tables[lang]; !ok {
		lang = domain.DefaultLanguage
	}
	return Localizer{lang: lang}
}

func (l Localizer) Language() domain.Language {
	if l.lang == "" {
		return domain.DefaultLanguage
	}
	return l.lang
}

// T returns the string for key, falling back to English and then to the key
// itself.
func (l Localizer) T(key string) string {
	if s, ok := tables[l.Language()][key]; ok {
		return s
	}
	if s, ok := tables[domain.DefaultLanguage][key]; ok {
		return s
	}
	return key
}

// Table returns a copy of the full table for lang.
func Table(lang domain.Language) map[string]string {
	src, ok := tables[lang]
	if !ok {
		src = tables[domain.DefaultLanguage]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
