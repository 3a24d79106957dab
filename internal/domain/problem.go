package domain

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
)

type ProblemKind string

const (
	ProblemText  ProblemKind = "text"
	ProblemImage ProblemKind = "image"
)

// DefaultImagePrompt accompanies an uploaded image when the user gave no
// instruction of their own.
const DefaultImagePrompt = "Solve the math problem in this image."

var supportedImageMIMETypes = map[string]struct{}{
	"image/png":  {},
	"image/jpeg": {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
	"image/heif": {},
}

func IsSupportedImageMIME(mimeType string) bool {
	_, ok := supportedImageMIMETypes[strings.ToLower(strings.TrimSpace(mimeType))]
	return ok
}

// ImagePayload is an image transported as base64 text plus its MIME type.
type ImagePayload struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Problem is either raw text or an image paired with an instruction prompt.
// On the wire a text problem is a bare JSON string and an image problem is
// {"image": {...}, "prompt": "..."}.
type Problem struct {
	Kind   ProblemKind
	Text   string
	Image  *ImagePayload
	Prompt string
}

func NewTextProblem(text string) Problem {
	return Problem{Kind: ProblemText, Text: text}
}

func NewImageProblem(mimeType, data, prompt string) Problem {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultImagePrompt
	}
	return Problem{
		Kind:   ProblemImage,
		Image:  &ImagePayload{MIMEType: strings.ToLower(strings.TrimSpace(mimeType)), Data: data},
		Prompt: prompt,
	}
}

func (p Problem) IsText() bool { return p.Kind == ProblemText }

func (p Problem) IsZero() bool {
	return p.Kind == "" && p.Text == "" && p.Image == nil && p.Prompt == ""
}

// Summary is a short human readable label for logs and share cards.
func (p Problem) Summary() string {
	if p.IsText() {
		return p.Text
	}
	return p.Prompt
}

// ImageBytes decodes the base64 image payload.
func (p Problem) ImageBytes() ([]byte, error) {
	if p.Kind != ProblemImage || p.Image == nil {
		return nil, fmt.Errorf("problem has no image: %w", apperrors.ErrInvalidArgument)
	}
	raw, err := base64.StdEncoding.DecodeString(p.Image.Data)
	if err != nil {
		return nil, fmt.Errorf("image data is not base64: %w", apperrors.ErrInvalidArgument)
	}
	return raw, nil
}

func (p Problem) Validate() error {
	switch p.Kind {
	case ProblemText:
		if strings.TrimSpace(p.Text) == "" {
			return fmt.Errorf("problem text is empty: %w", apperrors.ErrInvalidArgument)
		}
		return nil
	case ProblemImage:
		if p.Image == nil || p.Image.Data == "" {
			return fmt.Errorf("image data is empty: %w", apperrors.ErrInvalidArgument)
		}
		if !IsSupportedImageMIME(p.Image.MIMEType) {
			return fmt.Errorf("image type %q not accepted: %w", p.Image.MIMEType, apperrors.ErrInvalidArgument)
		}
		if _, err := p.ImageBytes(); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown problem kind %q: %w", p.Kind, apperrors.ErrInvalidArgument)
	}
}

type imageProblemJSON struct {
	Image  *ImagePayload `json:"image"`
	Prompt string        `json:"prompt"`
}

func (p Problem) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case ProblemText:
		return json.Marshal(p.Text)
	case ProblemImage:
		return json.Marshal(imageProblemJSON{Image: p.Image, Prompt: p.Prompt})
	default:
		return []byte("null"), nil
	}
}

func (p *Problem) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Problem{}
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*p = NewTextProblem(text)
		return nil
	}
	var raw imageProblemJSON
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	if raw.Image == nil {
		return fmt.Errorf("image problem without image payload")
	}
	*p = Problem{Kind: ProblemImage, Image: raw.Image, Prompt: raw.Prompt}
	return nil
}
