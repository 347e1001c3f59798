// Package observability provides formatted output utilities for CLI reports.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for CLI reports
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

// PrintSlots outputs the available slots found for a panel.
func (p *Printer) PrintSlots(slots []types.Slot) {
	var sb strings.Builder

	if len(slots) == 0 {
		sb.WriteString("No open slots in the search window.")
		p.printBox("AVAILABLE SLOTS", sb.String())
		return
	}

	count := min(len(slots), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := slots[i]
		sb.WriteString(fmt.Sprintf("  %s  %s-%s\n",
			s.Start.Format("Mon Jan 02"),
			s.Start.Format("15:04"),
			s.End.Format("15:04")))
	}
	if len(slots) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(slots)-maxItemsToShow))
	}

	p.printBox("AVAILABLE SLOTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLoad outputs per-interviewer booking counts, busiest first.
func (p *Printer) PrintLoad(load map[uuid.UUID]int, from, to time.Time) {
	if len(load) == 0 {
		return
	}

	type entry struct {
		id    uuid.UUID
		count int
	}
	entries := make([]entry, 0, len(load))
	for id, count := range load {
		entries = append(entries, entry{id, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].id.String() < entries[j].id.String()
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Window: %s to %s\n\n",
		from.Format("2006-01-02"), to.Format("2006-01-02")))
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("  %s  %d\n", e.id, e.count))
	}

	p.printBox("PANEL LOAD", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPanelSuggestion outputs a least-loaded panel pick.
func (p *Printer) PrintPanelSuggestion(panel []uuid.UUID) {
	if len(panel) == 0 {
		return
	}

	var sb strings.Builder
	for i, id := range panel {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, id))
	}

	p.printBox("SUGGESTED PANEL", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSweepResult outputs the outcome of an overdue-scorecard sweep.
func (p *Printer) PrintSweepResult(marked int64, took time.Duration) {
	content := fmt.Sprintf("Marked overdue: %d\nTook:           %s", marked, took.Round(time.Millisecond))
	p.printBox("SCORECARD SWEEP", content)
}
