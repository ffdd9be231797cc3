// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-coach/internal/coordinator"
	"github.com/jonathan/interview-coach/internal/jobs"
	"github.com/jonathan/interview-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobInfo outputs a human-readable summary of the parsed role profile.
func (p *Printer) PrintJobInfo(info *jobs.JobInfo) {
	if info == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Role:     %s\n", info.Title))
	sb.WriteString(fmt.Sprintf("Industry: %s\n", info.Industry))
	if info.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", info.ExperienceLevel))
	}

	if len(info.Competencies) > 0 {
		sb.WriteString("\nTarget competencies:\n")
		for _, competency := range info.Competencies {
			sb.WriteString(fmt.Sprintf("  • %s\n", competency))
		}
	}

	if len(info.Technologies) > 0 {
		sb.WriteString("\nTechnologies:\n")
		count := min(len(info.Technologies), maxItemsToShow)
		sb.WriteString(fmt.Sprintf("  %s\n", strings.Join(info.Technologies[:count], ", ")))
		if len(info.Technologies) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(info.Technologies)-maxItemsToShow))
		}
	}

	p.printBox("PARSED ROLE PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs the result of one answer evaluation, complete
// or partial.
func (p *Printer) PrintEvaluation(evaluation *coordinator.Evaluation) {
	if evaluation == nil {
		return
	}

	if evaluation.Partial() {
		p.printPartial(evaluation)
		return
	}

	feedback := evaluation.Feedback
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Combined score:  %.1f / 100\n", feedback.CombinedScore))
	sb.WriteString(fmt.Sprintf("Content:         %.1f    Delivery: %.1f\n",
		feedback.Content.OverallScore, feedback.Delivery.OverallScore))
	sb.WriteString(fmt.Sprintf("STAR structure:  %.1f\n", feedback.Content.STARCompliance))
	sb.WriteString(fmt.Sprintf("Pace:            %.0f wpm, fillers %.1f/100 words\n",
		feedback.Delivery.PaceWPM, feedback.Delivery.FillerWordRate))
	sb.WriteString(fmt.Sprintf("Tone:            %s\n", feedback.Delivery.Tone))

	if len(feedback.Content.CompetencyScores) > 0 {
		sb.WriteString("\nCompetencies:\n")
		for _, score := range feedback.Content.CompetencyScores {
			sb.WriteString(fmt.Sprintf("  • %-22s %.1f\n", score.Competency, score.Score))
		}
	}

	if len(feedback.CrossInsights) > 0 {
		sb.WriteString("\nInsights:\n")
		count := min(len(feedback.CrossInsights), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", feedback.CrossInsights[i]))
		}
	}

	p.printBox("ANSWER FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// printPartial renders a single-dimension result with the failed branch.
func (p *Printer) printPartial(evaluation *coordinator.Evaluation) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("The %s analysis failed (%s).\n",
		evaluation.Failure.Branch, evaluation.Failure.Code))
	sb.WriteString("Showing the surviving report only.\n\n")

	if evaluation.Content != nil {
		sb.WriteString(fmt.Sprintf("Content score:   %.1f\n", evaluation.Content.OverallScore))
		sb.WriteString(fmt.Sprintf("STAR structure:  %.1f\n", evaluation.Content.STARCompliance))
		for _, strength := range firstN(evaluation.Content.Strengths, 3) {
			sb.WriteString(fmt.Sprintf("  + %s\n", strength))
		}
		for _, gap := range firstN(evaluation.Content.Gaps, 3) {
			sb.WriteString(fmt.Sprintf("  - %s\n", gap))
		}
	}
	if evaluation.Delivery != nil {
		sb.WriteString(fmt.Sprintf("Delivery score:  %.1f\n", evaluation.Delivery.OverallScore))
		sb.WriteString(fmt.Sprintf("Pace:            %.0f wpm\n", evaluation.Delivery.PaceWPM))
		sb.WriteString(fmt.Sprintf("Tone:            %s\n", evaluation.Delivery.Tone))
	}

	p.printBox("PARTIAL FEEDBACK", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestion outputs a generated practice question.
func (p *Printer) PrintQuestion(index int, question string, competency types.CompetencyTag, hint string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Q%d (%s):\n", index, competency))
	sb.WriteString(question + "\n")
	if hint != "" {
		sb.WriteString("\nHint: " + hint)
	}
	p.printBox("PRACTICE QUESTION", sb.String())
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
