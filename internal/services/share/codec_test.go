package share

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
)

func solvedSolution() domain.Solution {
	return domain.Solution{
		Status:                  domain.StatusSolved,
		Title:                   "Linear equation",
		Classification:          "Algebra",
		Difficulty:              domain.DifficultyEasy,
		DifficultyRating:        2,
		DifficultyJustification: "Two steps.",
		KeyConcepts:             []string{"inverse operations", "$ax+b=c$"},
		Reasoning:               "Isolate $x$ & check <answer>.",
		Solution:                []string{"Subtract 5.", "Divide by 2.", "$$x = 5$$"},
		CommonPitfalls:          "Forgetting to divide both sides.",
	}
}

func TestRoundTrip(t *testing.T) {
	unsolved := domain.Solution{
		Status:                  domain.StatusUnsolved,
		Title:                   "مفارقة",
		Classification:          "Logic",
		Difficulty:              domain.DifficultyAdvanced,
		DifficultyRating:        10,
		DifficultyJustification: "open problem",
		KeyConcepts:             []string{"infinity"},
		Reasoning:               "none",
		Explanation:             "لا يوجد حل.",
	}
	cases := []struct {
		name    string
		problem domain.Problem
		sol     domain.Solution
		lang    domain.Language
	}{
		{"english solved", domain.NewTextProblem("Solve for x: 2x+5=15"), solvedSolution(), domain.LanguageEnglish},
		{"arabic unsolved", domain.NewTextProblem("حل لـ س: 3س - 7 = 5"), unsolved, domain.LanguageArabic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := Encode(tc.problem, tc.sol, tc.lang)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(token, domain.LanguageEnglish)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			want := Payload{Problem: tc.problem, Solution: tc.sol, Language: tc.lang}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}

			again, err := Encode(got.Problem, got.Solution, got.Language)
			if err != nil || again != token {
				t.Fatalf("re-encode: err=%v equal=%v", err, again == token)
			}
		})
	}
}

func TestEncodeRefusesImageProblems(t *testing.T) {
	_, err := Encode(domain.NewImageProblem("image/png", "aGVsbG8=", ""), solvedSolution(), domain.LanguageEnglish)
	if !apperr.IsUnsupported(err) {
		t.Fatalf("expected UnsupportedError, got=%v", err)
	}
}

func TestEncodeMatchesBrowserEncoding(t *testing.T) {
	token, err := Encode(domain.NewTextProblem("1+1"), solvedSolution(), domain.LanguageEnglish)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.ContainsAny(token, "+/=") {
		t.Fatalf("token is not escaped: %s", token)
	}
	unescaped, _ := url.QueryUnescape(token)
	raw, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		t.Fatalf("token is not base64: %v", err)
	}
	if !strings.HasPrefix(string(raw), `{"problem":"1+1","solution":{`) {
		t.Fatalf("unexpected payload: %s", raw)
	}
	if !strings.Contains(string(raw), "<answer>") {
		t.Fatalf("expected unescaped html characters: %s", raw)
	}
}

const validSolutionJSON = `{"status":"solved","title":"t","classification":"Arithmetic",` +
	`"difficulty":"Easy","difficultyRating":1,"difficultyJustification":"one step",` +
	`"keyConcepts":[],"reasoning":"add","solution":["2"]}`

func encodeRaw(s string) string {
	return url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(s)))
}

func TestDecodeErrors(t *testing.T) {
	cases := map[string]string{
		"empty":            "",
		"bad escaping":     "%zz",
		"bad base64":       "!!!notbase64",
		"bad json":         encodeRaw("{not json"),
		"missing problem":  encodeRaw(`{"solution":{"title":"t"}}`),
		"empty problem":    encodeRaw(`{"problem":"","solution":{"title":"t"}}`),
		"missing solution": encodeRaw(`{"problem":"1+1"}`),
		"null solution":    encodeRaw(`{"problem":"1+1","solution":null}`),
		"image problem": encodeRaw(`{"problem":{"image":{"mimeType":"image/png","data":"aGVsbG8="}},` +
			`"solution":` + validSolutionJSON + `}`),
		"bogus status": encodeRaw(`{"problem":"1+1","solution":` +
			strings.Replace(validSolutionJSON, `"solved"`, `"bogus"`, 1) + `}`),
		"rating out of range": encodeRaw(`{"problem":"1+1","solution":` +
			strings.Replace(validSolutionJSON, `"difficultyRating":1`, `"difficultyRating":0`, 1) + `}`),
		"solved without steps": encodeRaw(`{"problem":"1+1","solution":` +
			strings.Replace(validSolutionJSON, `,"solution":["2"]`, ``, 1) + `}`),
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode(token, domain.LanguageEnglish); !apperr.IsDecode(err) {
				t.Fatalf("expected DecodeError, got=%v", err)
			}
		})
	}
}

func TestDecodeLanguageFallback(t *testing.T) {
	for _, lang := range []string{`"fr"`, `""`, `null`} {
		token := encodeRaw(`{"problem":"1+1","solution":` + validSolutionJSON + `,"language":` + lang + `}`)
		got, err := Decode(token, domain.LanguageArabic)
		if err != nil {
			t.Fatalf("Decode(%s): %v", lang, err)
		}
		if got.Language != domain.LanguageArabic {
			t.Fatalf("language %s: got=%s want=ar", lang, got.Language)
		}
	}
}

func TestBuildURLAndConsumeLocation(t *testing.T) {
	link := BuildURL("https://math.example.com/app?x=1#old", "abc%2B")
	if link != "https://math.example.com/app?x=1#data=abc%2B" {
		t.Fatalf("unexpected url: %s", link)
	}

	token, cleaned, found := ConsumeLocation(link)
	if !found || token != "abc%2B" || cleaned != "https://math.example.com/app?x=1" {
		t.Fatalf("ConsumeLocation: token=%q cleaned=%q found=%v", token, cleaned, found)
	}

	_, again, found := ConsumeLocation(cleaned)
	if found || again != cleaned {
		t.Fatalf("second consume should find nothing: cleaned=%q found=%v", again, found)
	}

	_, other, found := ConsumeLocation("https://x/#section")
	if found || other != "https://x/#section" {
		t.Fatalf("non-share fragment must be left alone: %q", other)
	}
}

func TestRenderCard(t *testing.T) {
	r, err := NewCardRenderer("")
	if err != nil {
		t.Fatalf("NewCardRenderer: %v", err)
	}

	var thumb bytes.Buffer
	if err := png.Encode(&thumb, image.NewRGBA(image.Rect(0, 0, 900, 300))); err != nil {
		t.Fatalf("encode thumb: %v", err)
	}
	problems := []domain.Problem{
		domain.NewTextProblem("Solve for x: 2x+5=15"),
		domain.NewImageProblem("image/png", base64.StdEncoding.EncodeToString(thumb.Bytes()), ""),
	}
	for _, p := range problems {
		out, err := r.Render(p, solvedSolution())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("output is not a png: %v", err)
		}
		if img.Bounds().Dx() != cardWidth || img.Bounds().Dy() < 300 {
			t.Fatalf("unexpected card size: %v", img.Bounds())
		}
	}

	if got := CardFileName(solvedSolution()); got != "Linear_equation.png" {
		t.Fatalf("unexpected file name: %s", got)
	}
}

func TestNewCardRendererMissingFont(t *testing.T) {
	if _, err := NewCardRenderer("/nonexistent/font.ttf"); err == nil {
		t.Fatalf("expected error for missing font")
	}
}
