// Package gateway is the only boundary to the generative model. It builds
// the solve, initial-data and chat requests and validates what comes back.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mathtutor-backend/internal/clients/gemini"
	"github.com/yungbote/mathtutor-backend/internal/domain"
	apperr "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
	"github.com/yungbote/mathtutor-backend/internal/pkg/logger"
)

type Gateway interface {
	Solve(ctx context.Context, problem domain.Problem, lang domain.Language) (*domain.Solution, error)
	// GenerateInitialData never fails; on any error it returns Fallback(lang)
	// with live set to false.
	GenerateInitialData(ctx context.Context, lang domain.Language) (examples []domain.ExampleProblem, fact string, live bool)
	CreateChatSession(ctx context.Context, lang domain.Language) (gemini.ChatSession, error)
}

type gateway struct {
	client gemini.Client
	log    *logger.Logger
}

func NewGateway(client gemini.Client, log *logger.Logger) Gateway {
	return &gateway{
		client: client,
		log:    log.With("service", "AIGateway"),
	}
}

func (g *gateway) Solve(ctx context.Context, problem domain.Problem, lang domain.Language) (*domain.Solution, error) {
	if err := problem.Validate(); err != nil {
		return nil, err
	}

	var parts []gemini.Part
	if problem.IsText() {
		parts = []gemini.Part{gemini.TextPart(problem.Text)}
	} else {
		data, err := problem.ImageBytes()
		if err != nil {
			return nil, err
		}
		parts = []gemini.Part{
			gemini.InlinePart(problem.Image.MIMEType, data),
			gemini.TextPart(problem.Prompt),
		}
	}

	raw, err := g.client.GenerateJSON(ctx, localized(solverInstruction, lang), parts, solutionSchema())
	if err != nil {
		g.log.Warn("solve request failed", "kind", problem.Kind, "error", err)
		return nil, &apperr.GatewayError{Op: "solve", Err: err}
	}

	sol, err := parseSolution(raw)
	if err != nil {
		g.log.Warn("solve response rejected", "error", err)
		return nil, err
	}
	if want, _ := domain.DifficultyForRating(sol.DifficultyRating); want != sol.Difficulty {
		g.log.Info("difficulty normalized from rating",
			"rating", sol.DifficultyRating, "got", sol.Difficulty, "want", want)
		sol.Difficulty = want
	}
	return sol, nil
}

// rawSolution uses pointers so absent fields can be told apart from zero
// values.
type rawSolution struct {
	Status                  *string      `json:"status"`
	Title                   *string      `json:"title"`
	Classification          *string      `json:"classification"`
	Difficulty              *string      `json:"difficulty"`
	DifficultyRating        *json.Number `json:"difficultyRating"`
	DifficultyJustification *string      `json:"difficultyJustification"`
	KeyConcepts             []string     `json:"keyConcepts"`
	Reasoning               *string      `json:"reasoning"`
	Solution                []string     `json:"solution"`
	AlternativeMethods      *string      `json:"alternativeMethods"`
	CommonPitfalls          *string      `json:"commonPitfalls"`
	Explanation             *string      `json:"explanation"`
}

func invalid(reason string, err error) error {
	return &apperr.InvalidResponseError{Op: "solve", Reason: reason, Err: err}
}

func required(name string, v *string) error {
	if v == nil || strings.TrimSpace(*v) == "" {
		return invalid("missing "+name, nil)
	}
	return nil
}

func parseSolution(raw string) (*domain.Solution, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, invalid("empty body", nil)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var r rawSolution
	if err := dec.Decode(&r); err != nil {
		return nil, invalid("malformed json", err)
	}

	for _, f := range []struct {
		name string
		v    *string
	}{
		{"status", r.Status},
		{"title", r.Title},
		{"classification", r.Classification},
		{"difficulty", r.Difficulty},
		{"difficultyJustification", r.DifficultyJustification},
		{"reasoning", r.Reasoning},
	} {
		if err := required(f.name, f.v); err != nil {
			return nil, err
		}
	}
	if r.DifficultyRating == nil {
		return nil, invalid("missing difficultyRating", nil)
	}
	if r.KeyConcepts == nil {
		return nil, invalid("missing keyConcepts", nil)
	}

	status := domain.SolutionStatus(*r.Status)
	if !status.Valid() {
		return nil, invalid(fmt.Sprintf("unknown status %q", *r.Status), nil)
	}
	difficulty := domain.Difficulty(*r.Difficulty)
	if !difficulty.Valid() {
		return nil, invalid(fmt.Sprintf("unknown difficulty %q", *r.Difficulty), nil)
	}
	rating, err := r.DifficultyRating.Int64()
	if err != nil || rating < domain.MinDifficultyRating || rating > domain.MaxDifficultyRating {
		return nil, invalid(fmt.Sprintf("difficultyRating %s out of range", r.DifficultyRating.String()), nil)
	}

	sol := &domain.Solution{
		Status:                  status,
		Title:                   *r.Title,
		Classification:          *r.Classification,
		Difficulty:              difficulty,
		DifficultyRating:        int(rating),
		DifficultyJustification: *r.DifficultyJustification,
		KeyConcepts:             r.KeyConcepts,
		Reasoning:               *r.Reasoning,
	}

	switch status {
	case domain.StatusSolved:
		if len(r.Solution) == 0 {
			return nil, invalid("solved response without solution steps", nil)
		}
		sol.Solution = r.Solution
		if r.AlternativeMethods != nil {
			sol.AlternativeMethods = *r.AlternativeMethods
		}
		if r.CommonPitfalls != nil {
			sol.CommonPitfalls = *r.CommonPitfalls
		}
	case domain.StatusUnsolved:
		if r.Explanation == nil || strings.TrimSpace(*r.Explanation) == "" {
			return nil, invalid("unsolved response without explanation", nil)
		}
		sol.Explanation = *r.Explanation
	}
	if err := sol.Validate(); err != nil {
		return nil, invalid("inconsistent solution", err)
	}
	return sol, nil
}

func (g *gateway) GenerateInitialData(ctx context.Context, lang domain.Language) ([]domain.ExampleProblem, string, bool) {
	var (
		examples []domain.ExampleProblem
		fact     string
	)

	eg, egctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		raw, err := g.client.GenerateJSON(egctx, "", []gemini.Part{gemini.TextPart(examplesPrompt(lang))}, examplesSchema())
		if err != nil {
			return fmt.Errorf("examples: %w", err)
		}
		var out struct {
			Problems []domain.ExampleProblem `json:"problems"`
		}
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("examples: %w", err)
		}
		kept := out.Problems[:0]
		for _, p := range out.Problems {
			if strings.TrimSpace(p.Problem) != "" {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			return fmt.Errorf("examples: empty payload")
		}
		examples = kept
		return nil
	})
	eg.Go(func() error {
		raw, err := g.client.GenerateJSON(egctx, "", []gemini.Part{gemini.TextPart(factPrompt(lang))}, factSchema())
		if err != nil {
			return fmt.Errorf("fact: %w", err)
		}
		var out struct {
			Fact string `json:"fact"`
		}
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return fmt.Errorf("fact: %w", err)
		}
		if strings.TrimSpace(out.Fact) == "" {
			return fmt.Errorf("fact: empty payload")
		}
		fact = out.Fact
		return nil
	})

	if err := eg.Wait(); err != nil {
		g.log.Warn("initial data unavailable; using fallback", "lang", lang, "error", err)
		examples, fact := Fallback(lang)
		return examples, fact, false
	}
	return examples, fact, true
}

func (g *gateway) CreateChatSession(ctx context.Context, lang domain.Language) (gemini.ChatSession, error) {
	s, err := g.client.StartChat(ctx, localized(tutorInstruction, lang))
	if err != nil {
		return nil, &apperr.GatewayError{Op: "create chat", Err: err}
	}
	return s, nil
}
