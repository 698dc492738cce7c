// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/jd-fit-evaluator/internal/pipeline"
	"github.com/jonathan/jd-fit-evaluator/internal/types"
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

// PrintJobProfile outputs a human-readable summary of the loaded job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder

	if profile.Name != "" {
		sb.WriteString(fmt.Sprintf("Profile:  %s\n", profile.Name))
	}
	sb.WriteString(fmt.Sprintf("Titles:   %s\n", strings.Join(profile.Titles, ", ")))
	if profile.Level != "" {
		sb.WriteString(fmt.Sprintf("Level:    %s\n", profile.Level))
	}
	if len(profile.Industries) > 0 {
		sb.WriteString(fmt.Sprintf("Industry: %s\n", strings.Join(profile.Industries, ", ")))
	}
	sb.WriteString("\n")

	if len(profile.MustHaveSkills) > 0 {
		sb.WriteString("Must-have skills:\n")
		count := min(len(profile.MustHaveSkills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.MustHaveSkills[i]))
		}
		if len(profile.MustHaveSkills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.MustHaveSkills)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(profile.NiceToHaveSkills) > 0 {
		sb.WriteString("Nice-to-haves:\n")
		count := min(len(profile.NiceToHaveSkills), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.NiceToHaveSkills[i]))
		}
		if len(profile.NiceToHaveSkills) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.NiceToHaveSkills)-3))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Tenure floors: avg %dmo, last %dmo",
		profile.MinAvgTenureOrDefault(), profile.MinLastTenureOrDefault()))

	p.printBox("JOB PROFILE", sb.String())
}

// PrintTopResults outputs the highest-scoring candidates with their
// strongest sub-scores.
func (p *Printer) PrintTopResults(results []types.ScoreResult) {
	if len(results) == 0 {
		return
	}

	sorted := make([]types.ScoreResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FitScore > sorted[j].FitScore })

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total candidates scored: %d\n\n", len(sorted)))

	count := min(len(sorted), maxItemsToShow)
	for i := 0; i < count; i++ {
		res := sorted[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, res.CandidateID))
		sb.WriteString(fmt.Sprintf("    Fit: %.1f", res.FitScore))
		if res.Degraded {
			sb.WriteString(" (degraded)")
		}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("    title %.2f  skills %.2f  tenure %.2f  industry %.2f\n",
			res.SubScores.Title, res.SubScores.Skills, res.SubScores.Tenure, res.SubScores.Industry))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(sorted) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(sorted)-maxItemsToShow))
	}

	p.printBox("TOP CANDIDATES", sb.String())
}

// PrintRunStats outputs a completed run's summary counters.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRunStats(stats pipeline.RunStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", stats.RunID))
	sb.WriteString(fmt.Sprintf("Scored:    %d\n", stats.Scored))
	sb.WriteString(fmt.Sprintf("Degraded:  %d\n", stats.Degraded))
	sb.WriteString(fmt.Sprintf("Failed:    %d\n", len(stats.Failed)))
	sb.WriteString(fmt.Sprintf("Elapsed:   %s (%.1f/s)", stats.Elapsed.Round(10*time.Millisecond), stats.PerSecond))
	if stats.Interrupted {
		sb.WriteString("\n⚠ run interrupted; results are partial")
	}

	if len(stats.Failed) > 0 {
		sb.WriteString("\n\nFailures:\n")
		count := min(len(stats.Failed), 3)
		for i := 0; i < count; i++ {
			f := stats.Failed[i]
			msg := f.Message
			if len(msg) > 40 {
				msg = msg[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s: %s\n", f.CandidateID, msg))
		}
		if len(stats.Failed) > 3 {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(stats.Failed)-3))
		}
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
