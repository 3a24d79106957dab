package domain

import "strings"

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"

	DefaultLanguage = LanguageEnglish
)

func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case LanguageEnglish:
		return LanguageEnglish, true
	case LanguageArabic:
		return LanguageArabic, true
	}
	return "", false
}

// Name is the English name of the language, used inside model prompts.
func (l Language) Name() string {
	if l == LanguageArabic {
		return "Arabic"
	}
	return "English"
}

type Font string

const (
	FontInter       Font = "inter"
	FontLora        Font = "lora"
	FontInconsolata Font = "inconsolata"

	DefaultFont = FontInter
)

type FontOption struct {
	ID   Font   `json:"id"`
	Name string `json:"name"`
}

var FontOptions = []FontOption{
	{ID: FontInter, Name: "Inter (Sans)"},
	{ID: FontLora, Name: "Lora (Serif)"},
	{ID: FontInconsolata, Name: "Inconsolata (Mono)"},
}

func ParseFont(raw string) (Font, bool) {
	f := Font(strings.ToLower(strings.TrimSpace(raw)))
	for _, opt := range FontOptions {
		if opt.ID == f {
			return f, true
		}
	}
	return "", false
}

type Settings struct {
	Language Language `json:"language"`
	Font     Font     `json:"font"`
}

func DefaultSettings() Settings {
	return Settings{Language: DefaultLanguage, Font: DefaultFont}
}
