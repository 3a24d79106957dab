package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/mathtutor-backend/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// solutionMarkdown lays a solution out as markdown for the terminal.
func solutionMarkdown(p *domain.Problem, s domain.Solution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	if p != nil {
		fmt.Fprintf(&b, "> %s\n\n", p.Summary())
	}
	fmt.Fprintf(&b, "**%s** · %s (%d/10)\n\n", s.Classification, s.Difficulty, s.DifficultyRating)
	if s.DifficultyJustification != "" {
		fmt.Fprintf(&b, "_%s_\n\n", s.DifficultyJustification)
	}
	if len(s.KeyConcepts) > 0 {
		b.WriteString("## Key Concepts\n\n")
		for _, c := range s.KeyConcepts {
			fmt.Fprintf(&b, "- %s\n", c)
		}
		b.WriteString("\n")
	}
	if s.Reasoning != "" {
		fmt.Fprintf(&b, "## Reasoning\n\n%s\n\n", s.Reasoning)
	}
	if s.IsSolved() {
		b.WriteString("## Solution\n\n")
		for i, step := range s.Solution {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
		b.WriteString("\n")
		if s.AlternativeMethods != "" {
			fmt.Fprintf(&b, "## Alternative Methods\n\n%s\n\n", s.AlternativeMethods)
		}
		if s.CommonPitfalls != "" {
			fmt.Fprintf(&b, "## Common Pitfalls\n\n%s\n\n", s.CommonPitfalls)
		}
	} else if s.Explanation != "" {
		fmt.Fprintf(&b, "## Why it cannot be solved\n\n%s\n\n", s.Explanation)
	}
	return b.String()
}

func renderMarkdown(w io.Writer, md string) error {
	if noColor {
		_, err := io.WriteString(w, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		_, werr := io.WriteString(w, md)
		return werr
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func styled(s lipgloss.Style, text string) string {
	if noColor {
		return text
	}
	return s.Render(text)
}
