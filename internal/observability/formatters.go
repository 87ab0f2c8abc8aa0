// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/hikinghacker/resume-improvement-api/internal/extractor"
	"github.com/hikinghacker/resume-improvement-api/internal/records"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxAchievementsToShow is the number of achievements displayed per job
	maxAchievementsToShow = 5
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

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintDataset outputs a human-readable summary of the improved dataset.
func (p *Printer) PrintDataset(dataset *records.ResumeDataset, outcome extractor.Outcome) {
	if dataset == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extraction: %s\n", outcome))
	sb.WriteString(fmt.Sprintf("Jobs: %d  Achievements: %d\n", len(dataset.BulletPoints), dataset.AchievementCount()))

	for _, job := range dataset.BulletPoints {
		sb.WriteString("\n")
		header := job.Position
		if job.Company != "" {
			header += " @ " + job.Company
		}
		if job.TimePeriod != "" {
			header += " (" + job.TimePeriod + ")"
		}
		sb.WriteString(header + "\n")

		count := min(len(job.Achievements), maxAchievementsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", job.Achievements[i]))
		}
		if len(job.Achievements) > maxAchievementsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(job.Achievements)-maxAchievementsToShow))
		}
	}

	p.printBox("IMPROVED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFlattened outputs the legacy flattened projection.
func (p *Printer) PrintFlattened(lines []string) {
	if len(lines) == 0 {
		return
	}
	p.printBox("FLATTENED OUTPUT", strings.Join(lines, "\n"))
}
