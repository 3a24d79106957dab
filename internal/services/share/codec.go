// Package share turns a solved text problem into a URL fragment token and
// back, and renders solutions as PNG cards.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/yungbote/mathtutor-backend/internal/domain"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
)

// FragmentPrefix marks a share token in a location's fragment.
const FragmentPrefix = "#data="

type Payload struct {
	Problem  domain.Problem  `json:"problem"`
	Solution domain.Solution `json:"solution"`
	Language domain.Language `json:"language"`
}

// Encode produces QueryEscape(base64(json)). Only text problems can be
// shared; image problems fail with UnsupportedError.
func Encode(problem domain.Problem, solution domain.Solution, lang domain.Language) (string, error) {
	if !problem.IsText() {
		return "", &apperr.UnsupportedError{Op: "share link", Reason: "only text problems can be shared by link"}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Payload{Problem: problem, Solution: solution, Language: lang}); err != nil {
		return "", err
	}
	raw := bytes.TrimRight(buf.Bytes(), "\n")
	return url.QueryEscape(base64.StdEncoding.EncodeToString(raw)), nil
}

type wirePayload struct {
	Problem  json.RawMessage `json:"problem"`
	Solution json.RawMessage `json:"solution"`
	Language string          `json:"language"`
}

func isEmptyJSON(raw json.RawMessage) bool {
	t := strings.TrimSpace(string(raw))
	return t == "" || t == "null" || t == `""` || t == "{}"
}

// Decode reverses Encode. A missing or unsupported language falls back to
// current. Payloads Encode could not have produced, such as image problems
// or malformed solutions, fail with DecodeError.
func Decode(token string, current domain.Language) (Payload, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Payload{}, &apperr.DecodeError{Reason: "empty token"}
	}
	unescaped, err := url.PathUnescape(token)
	if err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad escaping", Err: err}
	}
	raw, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad base64", Err: err}
	}

	var wire wirePayload
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad json", Err: err}
	}
	if isEmptyJSON(wire.Problem) {
		return Payload{}, &apperr.DecodeError{Reason: "missing problem"}
	}
	if isEmptyJSON(wire.Solution) {
		return Payload{}, &apperr.DecodeError{Reason: "missing solution"}
	}

	var out Payload
	if err := json.Unmarshal(wire.Problem, &out.Problem); err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad problem", Err: err}
	}
	if err := json.Unmarshal(wire.Solution, &out.Solution); err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad solution", Err: err}
	}
	if !out.Problem.IsText() {
		return Payload{}, &apperr.DecodeError{Reason: "only text problems can be shared"}
	}
	if err := out.Problem.Validate(); err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad problem", Err: err}
	}
	if err := out.Solution.Validate(); err != nil {
		return Payload{}, &apperr.DecodeError{Reason: "bad solution", Err: err}
	}
	if lang, ok := domain.ParseLanguage(wire.Language); ok {
		out.Language = lang
	} else {
		out.Language = current
	}
	return out, nil
}

// BuildURL appends the share fragment to base, replacing any fragment base
// already carries.
func BuildURL(base, token string) string {
	if i := strings.IndexByte(base, '#'); i >= 0 {
		base = base[:i]
	}
	return base + FragmentPrefix + token
}

// ConsumeLocation extracts a share token from location's fragment. cleaned
// is location without the fragment, whether or not a token was found.
func ConsumeLocation(location string) (token, cleaned string, found bool) {
	i := strings.IndexByte(location, '#')
	if i < 0 {
		return "", location, false
	}
	cleaned = location[:i]
	fragment := location[i:]
	if !strings.HasPrefix(fragment, FragmentPrefix) {
		return "", location, false
	}
	return fragment[len(FragmentPrefix):], cleaned, true
}
