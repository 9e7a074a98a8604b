// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/blind-hire/internal/ranking"
	"github.com/jonathan/blind-hire/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// skillList renders up to maxItemsToShow names, noting how many were left out.
func skillList(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	shown := names[:min(len(names), maxItemsToShow)]
	out := strings.Join(shown, ", ")
	if extra := len(names) - len(shown); extra > 0 {
		out += fmt.Sprintf(" (+%d more)", extra)
	}
	return out
}

// PrintScore outputs the match percentage of a candidate against a job with the
// matched and missing required skills.
func (p *Printer) PrintScore(job *types.JobPosting, candidateID string, score int, b ranking.Breakdown) {
	if job == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:        %s (%s)\n", job.Title, job.ExperienceLevel))
	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", candidateID))
	sb.WriteString(fmt.Sprintf("Match:      %d%%\n", score))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Matched:    %s\n", skillList(b.Matched)))
	sb.WriteString(fmt.Sprintf("Missing:    %s", skillList(b.Missing)))

	p.printBox("MATCH SCORE", sb.String())
}

// PrintAnonymizedView outputs the screening view of a candidate.
func (p *Printer) PrintAnonymizedView(view types.AnonymizedCandidateView) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidate:  %s\n", view.CandidateID))
	sb.WriteString(fmt.Sprintf("Education:  %s\n", view.EducationLevel))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", view.ExperienceSummary))

	if len(view.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		for _, s := range view.Skills {
			sb.WriteString(fmt.Sprintf("  • %-30s %3d\n", s.Name, s.Value))
		}
	}

	p.printBox("ANONYMIZED CANDIDATE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSeedSummary outputs the counts of a validated fixture document.
func (p *Printer) PrintSeedSummary(path string, jobs, candidates, actions int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File:       %s\n", path))
	sb.WriteString(fmt.Sprintf("Jobs:       %d\n", jobs))
	sb.WriteString(fmt.Sprintf("Candidates: %d\n", candidates))
	sb.WriteString(fmt.Sprintf("Actions:    %d", actions))

	p.printBox("SEED FILE VALID", sb.String())
}

// PrintViolations outputs schema violations, one per line.
func (p *Printer) PrintViolations(title string, violations []string) {
	if len(violations) == 0 {
		return
	}

	var sb strings.Builder
	for i, v := range violations {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, v))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}
