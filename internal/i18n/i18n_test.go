package i18n

import (
	"testing"

	"github.com/yungbote/mathtutor-backend/internal/domain"
)

func TestLookupAndFallback(t *testing.T) {
	en := New(domain.LanguageEnglish)
	if got := en.T(KeyChatError); got != "Sorry, I encountered an error. Please try again." {
		t.Fatalf("unexpected english chat error: %q", got)
	}
	ar := New(domain.LanguageArabic)
	if got := ar.T(KeyChatError); got == en.T(KeyChatError) || got == "" {
		t.Fatalf("expected arabic chat error, got %q", got)
	}
	if got := ar.T("missingKey"); got != "missingKey" {
		t.Fatalf("unknown key should echo, got %q", got)
	}
	if New("fr").Language() != domain.LanguageEnglish {
		t.Fatalf("unsupported language should fall back to english")
	}
}

func TestTablesHaveSameKeys(t *testing.T) {
	en := Table(domain.LanguageEnglish)
	ar := Table(domain.LanguageArabic)
	for k := range en {
		if _, ok := ar[k]; !ok {
			t.Errorf("arabic table missing %q", k)
		}
	}
	for k := range ar {
		if _, ok := en[k]; !ok {
			t.Errorf("english table missing %q", k)
		}
	}
	en["title"] = "mutated"
	if Table(domain.LanguageEnglish)["title"] == "mutated" {
		t.Fatalf("Table must return a copy")
	}
}
