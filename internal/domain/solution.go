package domain

import (
	"fmt"
	"strings"

	apperrors "github.com/yungbote/mathtutor-backend/internal/pkg/errors"
)

type SolutionStatus string

const (
	StatusSolved   SolutionStatus = "solved"
	StatusUnsolved SolutionStatus = "unsolved"
)

func (s SolutionStatus) Valid() bool {
	return s == StatusSolved || s == StatusUnsolved
}

type Difficulty string

const (
	DifficultyEasy     Difficulty = "Easy"
	DifficultyMedium   Difficulty = "Medium"
	DifficultyHard     Difficulty = "Hard"
	DifficultyAdvanced Difficulty = "Advanced"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyAdvanced:
		return true
	}
	return false
}

const (
	MinDifficultyRating = 1
	MaxDifficultyRating = 10
)

// DifficultyForRating maps 1-2 Easy, 3-5 Medium, 6-8 Hard, 9-10 Advanced.
func DifficultyForRating(rating int) (Difficulty, bool) {
	switch {
	case rating < MinDifficultyRating || rating > MaxDifficultyRating:
		return "", false
	case rating <= 2:
		return DifficultyEasy, true
	case rating <= 5:
		return DifficultyMedium, true
	case rating <= 8:
		return DifficultyHard, true
	default:
		return DifficultyAdvanced, true
	}
}

// Solution is the structured analysis of a Problem. Solution steps are set
// only when Status is solved, Explanation only when it is unsolved.
type Solution struct {
	Status                  SolutionStatus `json:"status"`
	Title                   string         `json:"title"`
	Classification          string         `json:"classification"`
	Difficulty              Difficulty     `json:"difficulty"`
	DifficultyRating        int            `json:"difficultyRating"`
	DifficultyJustification string         `json:"difficultyJustification"`
	KeyConcepts             []string       `json:"keyConcepts"`
	Reasoning               string         `json:"reasoning"`

	Solution           []string `json:"solution,omitempty"`
	AlternativeMethods string   `json:"alternativeMethods,omitempty"`
	CommonPitfalls     string   `json:"commonPitfalls,omitempty"`

	Explanation string `json:"explanation,omitempty"`
}

func (s Solution) IsSolved() bool { return s.Status == StatusSolved }

// Validate checks the enums, the rating range, the required text fields and
// the payload of the status branch. It does not require Difficulty to agree
// with DifficultyRating.
func (s Solution) Validate() error {
	if !s.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", s.Status, apperrors.ErrInvalidArgument)
	}
	if !s.Difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q: %w", s.Difficulty, apperrors.ErrInvalidArgument)
	}
	if s.DifficultyRating < MinDifficultyRating || s.DifficultyRating > MaxDifficultyRating {
		return fmt.Errorf("difficultyRating %d out of range: %w", s.DifficultyRating, apperrors.ErrInvalidArgument)
	}
	for _, f := range []struct{ name, v string }{
		{"title", s.Title},
		{"classification", s.Classification},
		{"difficultyJustification", s.DifficultyJustification},
		{"reasoning", s.Reasoning},
	} {
		if strings.TrimSpace(f.v) == "" {
			return fmt.Errorf("missing %s: %w", f.name, apperrors.ErrInvalidArgument)
		}
	}
	switch s.Status {
	case StatusSolved:
		if len(s.Solution) == 0 {
			return fmt.Errorf("solved without solution steps: %w", apperrors.ErrInvalidArgument)
		}
	case StatusUnsolved:
		if strings.TrimSpace(s.Explanation) == "" {
			return fmt.Errorf("unsolved without explanation: %w", apperrors.ErrInvalidArgument)
		}
	}
	return nil
}
