package gateway

import (
	"google.golang.org/genai"

	"github.com/yungbote/mathtutor-backend/internal/domain"
)

func boolPtr(v bool) *bool { return &v }

func stringSchema(desc string) *genai.Schema {
	return &genai.Schema{Type: genai.TypeString, Description: desc}
}

func solutionSchema() *genai.Schema {
	minRating := float64(domain.MinDifficultyRating)
	maxRating := float64(domain.MaxDifficultyRating)
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"status": {
				Type: genai.TypeString,
				Enum: []string{string(domain.StatusSolved), string(domain.StatusUnsolved)},
			},
			"title":          stringSchema("A concise title for the problem."),
			"classification": stringSchema("The branch of mathematics."),
			"difficulty": {
				Type: genai.TypeString,
				Enum: []string{
					string(domain.DifficultyEasy),
					string(domain.DifficultyMedium),
					string(domain.DifficultyHard),
					string(domain.DifficultyAdvanced),
				},
			},
			"difficultyRating": {
				Type:    genai.TypeInteger,
				Minimum: &minRating,
				Maximum: &maxRating,
			},
			"difficultyJustification": stringSchema("Why the rating was assigned."),
			"keyConcepts": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"reasoning": stringSchema("High-level overview of the approach."),
			"solution": {
				Type:     genai.TypeArray,
				Items:    &genai.Schema{Type: genai.TypeString},
				Nullable: boolPtr(true),
			},
			"alternativeMethods": {Type: genai.TypeString, Nullable: boolPtr(true)},
			"commonPitfalls":     {Type: genai.TypeString, Nullable: boolPtr(true)},
			"explanation":        {Type: genai.TypeString, Nullable: boolPtr(true)},
		},
		Required: []string{
			"status", "title", "classification", "difficulty", "difficultyRating",
			"difficultyJustification", "keyConcepts", "reasoning",
		},
	}
}

func examplesSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"problems": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":      {Type: genai.TypeString},
						"problem": {Type: genai.TypeString},
					},
					Required: []string{"id", "problem"},
				},
			},
		},
		Required: []string{"problems"},
	}
}

func factSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"fact": {Type: genai.TypeString},
		},
		Required: []string{"fact"},
	}
}
