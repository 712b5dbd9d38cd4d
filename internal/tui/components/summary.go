package components

import (
	"fmt"
	"strings"
	"time"
)

// SummaryData aggregates counts for rendering summaries.
type SummaryData struct {
	Total     int
	Applied   int
	Planned   int
	Skipped   int
	Failed    int
	Cancelled bool
	Duration  time.Duration
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	if s.data.Cancelled {
		return "Dialog cancelled; no defaults were changed"
	}
	if s.data.Total == 0 {
		return ""
	}

	parts := []string{fmt.Sprintf("%d applied", s.data.Applied)}
	if s.data.Planned > 0 {
		parts = append(parts, fmt.Sprintf("%d planned", s.data.Planned))
	}
	parts = append(parts,
		fmt.Sprintf("%d skipped", s.data.Skipped),
		fmt.Sprintf("%d failed", s.data.Failed),
	)

	lines := []string{fmt.Sprintf("Items: %s (of %d)", strings.Join(parts, ", "), s.data.Total)}
	if s.data.Duration > 0 {
		lines = append(lines, fmt.Sprintf("Took %s", s.data.Duration.Truncate(10*time.Millisecond)))
	}
	if s.data.Failed > 0 {
		lines = append(lines, "Some defaults could not be set; see the log for details")
	}

	return strings.Join(lines, "\n")
}
