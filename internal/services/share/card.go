package share

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/mathtutor-backend/internal/domain"
)

const (
	cardWidth    = 1200
	cardPadding  = 64.0
	lineSpacing  = 1.45
	maxThumbSide = 480
)

var (
	cardBackground = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	cardAccent     = color.RGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff}
	cardMuted      = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	cardText       = color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
)

// CardRenderer draws solutions as PNG cards. Font faces are not safe for
// concurrent use, so renders are serialized.
type CardRenderer struct {
	mu        sync.Mutex
	titleFace font.Face
	headFace  font.Face
	bodyFace  font.Face
}

// NewCardRenderer uses the TTF at fontPath for body text, or the Go fonts
// when fontPath is empty.
func NewCardRenderer(fontPath string) (*CardRenderer, error) {
	regular := goregular.TTF
	if strings.TrimSpace(fontPath) != "" {
		b, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
		regular = b
	}
	body, err := parseFace(regular, 26)
	if err != nil {
		return nil, err
	}
	title, err := parseFace(gobold.TTF, 44)
	if err != nil {
		return nil, err
	}
	head, err := parseFace(gobold.TTF, 28)
	if err != nil {
		return nil, err
	}
	return &CardRenderer{titleFace: title, headFace: head, bodyFace: body}, nil
}

func parseFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

type cardBlock struct {
	face  font.Face
	color color.Color
	text  string
	gap   float64
}

// Render draws problem and solution onto a PNG card.
func (r *CardRenderer) Render(problem domain.Problem, solution domain.Solution) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blocks := r.blocks(problem, solution)
	thumb := problemThumbnail(problem)

	textWidth := cardWidth - 2*cardPadding
	measure := gg.NewContext(1, 1)
	height := cardPadding
	wrapped := make([][]string, len(blocks))
	for i, b := range blocks {
		measure.SetFontFace(b.face)
		wrapped[i] = measure.WordWrap(b.text, textWidth)
		height += b.gap + float64(len(wrapped[i]))*measure.FontHeight()*lineSpacing
	}
	if thumb != nil {
		height += float64(thumb.Bounds().Dy()) + 24
	}
	height += cardPadding

	dc := gg.NewContext(cardWidth, int(height))
	dc.SetColor(cardBackground)
	dc.Clear()
	dc.SetColor(cardAccent)
	dc.DrawRectangle(0, 0, cardWidth, 8)
	dc.Fill()

	y := cardPadding
	for i, b := range blocks {
		y += b.gap
		dc.SetFontFace(b.face)
		dc.SetColor(b.color)
		lh := dc.FontHeight() * lineSpacing
		for _, line := range wrapped[i] {
			dc.DrawStringAnchored(line, cardPadding, y, 0, 1)
			y += lh
		}
		// The problem image goes right after the problem text.
		if i == 1 && thumb != nil {
			y += 12
			dc.DrawImage(thumb, int(cardPadding), int(y))
			y += float64(thumb.Bounds().Dy()) + 12
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *CardRenderer) blocks(problem domain.Problem, s domain.Solution) []cardBlock {
	out := []cardBlock{
		{face: r.titleFace, color: cardText, text: plain(s.Title)},
		{face: r.bodyFace, color: cardMuted, text: plain(problem.Summary()), gap: 8},
		{face: r.bodyFace, color: cardAccent, gap: 16, text: fmt.Sprintf("%s  |  %s %d/10",
			plain(s.Classification), s.Difficulty, s.DifficultyRating)},
	}
	if len(s.KeyConcepts) > 0 {
		out = append(out,
			cardBlock{face: r.headFace, color: cardText, text: "Key concepts", gap: 28},
			cardBlock{face: r.bodyFace, color: cardText, text: plain(strings.Join(s.KeyConcepts, ", ")), gap: 4},
		)
	}
	if s.IsSolved() {
		out = append(out, cardBlock{face: r.headFace, color: cardText, text: "Solution", gap: 28})
		for i, step := range s.Solution {
			out = append(out, cardBlock{face: r.bodyFace, color: cardText, gap: 6,
				text: fmt.Sprintf("%d. %s", i+1, plain(step))})
		}
	} else if s.Explanation != "" {
		out = append(out,
			cardBlock{face: r.headFace, color: cardText, text: "Explanation", gap: 28},
			cardBlock{face: r.bodyFace, color: cardText, text: plain(s.Explanation), gap: 4},
		)
	}
	return out
}

// problemThumbnail scales an image problem to fit the card, or returns nil.
func problemThumbnail(problem domain.Problem) image.Image {
	if problem.IsText() {
		return nil
	}
	raw, err := problem.ImageBytes()
	if err != nil {
		return nil
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	scale := 1.0
	if w > maxThumbSide || h > maxThumbSide {
		scale = float64(maxThumbSide) / float64(max(w, h))
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

var latexReplacer = strings.NewReplacer("$$", "", "$", "", "\\(", "", "\\)", "", "\\[", "", "\\]", "")

// plain strips math delimiters and newlines for single-run text drawing.
func plain(s string) string {
	s = latexReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// CardFileName mirrors the download name used by the web client.
func CardFileName(s domain.Solution) string {
	title := strings.TrimSpace(s.Title)
	if title == "" {
		title = "solution"
	}
	return strings.ReplaceAll(title, " ", "_") + ".png"
}
