// Package tui renders the end-of-run report for terminal output.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/defaultapps/internal/model"
	"github.com/alexisbeaulieu97/defaultapps/internal/tui/components"
)

// Report is the data shown after a run.
type Report struct {
	Title     string
	Results   []model.ApplyResult
	Total     int
	Cancelled bool
	DryRun    bool
	Duration  time.Duration
	// Unicode selects glyph icons; ASCII fallbacks are used otherwise.
	Unicode bool
}

// View renders the report.
func (r Report) View() string {
	var sections []string

	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "Default Applications"
	}
	if r.DryRun {
		title += " (dry run)"
	}
	sections = append(sections, titleStyle.Render(title))

	total := r.Total
	if total < len(r.Results) {
		total = len(r.Results)
	}

	if !r.Cancelled && total > 0 {
		handled := 0
		for _, res := range r.Results {
			if res.Status != model.StatusFailed {
				handled++
			}
		}
		sections = append(sections, sectionStyle.Render("Progress"), components.NewProgress(total).View(handled))
	}

	list := components.NewResultList(r.Results)
	if entries := list.Entries(); len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Items"), r.renderEntries(entries))
	}

	counts := model.Counts(r.Results)
	summary := components.NewSummary(components.SummaryData{
		Total:     total,
		Applied:   counts[model.StatusApplied],
		Planned:   counts[model.StatusPlanned],
		Skipped:   counts[model.StatusSkipped],
		Failed:    counts[model.StatusFailed],
		Cancelled: r.Cancelled,
		Duration:  r.Duration,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (r Report) renderEntries(entries []components.ResultEntry) string {
	var lines []string
	for _, entry := range entries {
		res := entry.Result
		line := fmt.Sprintf(" %s %s", StatusIcon(res.Status, r.Unicode), entry.Token)
		if res.Application != "" {
			line = fmt.Sprintf("%s: %s", line, res.Application)
		}
		if msg := strings.TrimSpace(res.Message); msg != "" {
			line = fmt.Sprintf("%s %s", line, mutedStyle.Render("("+msg+")"))
		}
		if res.Error != nil && res.Status == model.StatusFailed {
			line = fmt.Sprintf("%s\n     %s", line, failureStyle.Render(res.Error.Error()))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// StatusIcon returns the styled glyph representing an apply status.
func StatusIcon(status model.ApplyStatus, unicode bool) string {
	icon := status.Icon()
	if !unicode {
		icon = status.IconFallback()
	}

	switch status {
	case model.StatusApplied:
		return successStyle.Render(icon)
	case model.StatusPlanned:
		return plannedStyle.Render(icon)
	case model.StatusFailed:
		return failureStyle.Render(icon)
	default:
		return skippedStyle.Render(icon)
	}
}
