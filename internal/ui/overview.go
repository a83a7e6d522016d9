package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/state"
)

const (
	breakdownRows  = 5
	violationRows  = 5
	twoColumnWidth = 96
)

// updateOverview re-renders the overview into its viewport.
func (m *Model) updateOverview() {
	if m.width == 0 {
		return
	}
	m.overview.SetContent(m.renderOverviewBody())
}

func (m Model) renderOverviewBody() string {
	panels := []string{
		m.renderPanel("Summary", state.WidgetDashboard, m.summaryLines),
		m.renderPanel("Database", state.WidgetStats, m.statsLines),
		m.renderPanel("Keyword KPI", state.WidgetKPI, m.kpiLines),
		m.renderPanel("Violations", state.WidgetViolations, m.violationLines),
	}

	if m.width < twoColumnWidth {
		return lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
	left := lipgloss.JoinVertical(lipgloss.Left, panels[0], panels[2])
	right := lipgloss.JoinVertical(lipgloss.Left, panels[1], panels[3])
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m Model) panelWidth() int {
	if m.width < twoColumnWidth {
		return maxInt(m.width-2, 20)
	}
	return maxInt(m.width/2-2, 20)
}

// renderPanel draws one widget. A widget that failed keeps showing its last
// data with the error underneath.
func (m Model) renderPanel(title string, w state.Widget, lines func(Styles) []string) string {
	styles := m.theme.Styles()
	width := m.panelWidth()

	body := lines(styles)
	err := m.snapshot.Err(w)
	switch {
	case body == nil && err != nil:
		body = []string{styles.DangerText.Render(truncate(api.Describe(err), width-4))}
	case body == nil:
		body = []string{m.spinner.View() + " " + styles.FaintText.Render("Loading...")}
	case err != nil:
		body = append(body, styles.WarningText.Render(truncate("stale: "+api.Describe(err), width-4)))
	}

	content := styles.AccentText.Bold(true).Render(title) + "\n" + strings.Join(body, "\n")
	return styles.Panel.Width(width).Render(content)
}

func (m Model) summaryLines(styles Styles) []string {
	d := m.snapshot.Dashboard
	if d == nil {
		return nil
	}
	return []string{
		metric(styles, "Files", formatCount(d.TotalFiles)),
		metric(styles, "Records", formatCount(d.TotalRecords)),
		metric(styles, "Keywords found", formatCount(d.KeywordsFound)),
		metric(styles, "Recent activity", formatCount(len(d.RecentActivity))),
	}
}

func (m Model) statsLines(styles Styles) []string {
	s := m.snapshot.Stats
	if s == nil {
		return nil
	}
	lines := []string{
		metric(styles, "Transcripts", formatCount(s.TotalTranscripts)),
		metric(styles, "Files", formatCount(s.TotalFiles)),
		metric(styles, "Divisions", formatCount(s.DivisionsCount)),
	}
	if s.DateRange.Earliest != "" || s.DateRange.Latest != "" {
		lines = append(lines, metric(styles, "Date range", s.DateRange.Earliest+" → "+s.DateRange.Latest))
	}
	for _, c := range topCounts(s.ByDivision, breakdownRows) {
		lines = append(lines, breakdown(styles, c))
	}
	return lines
}

func (m Model) kpiLines(styles Styles) []string {
	k := m.snapshot.KPI
	if k == nil {
		return nil
	}
	lines := []string{
		metric(styles, "Files analysed", formatCount(k.TotalFiles)),
		metric(styles, "Keywords found", formatCount(k.TotalKeywordsFound)),
	}
	if top := topCounts(k.BreakdownByKeyword, breakdownRows); len(top) > 0 {
		lines = append(lines, styles.MutedText.Render("By keyword"))
		for _, c := range top {
			lines = append(lines, breakdown(styles, c))
		}
	}
	if top := topCounts(k.BreakdownByLocoPilot, breakdownRows); len(top) > 0 {
		lines = append(lines, styles.MutedText.Render("By loco pilot"))
		for _, c := range top {
			lines = append(lines, breakdown(styles, c))
		}
	}
	return lines
}

func (m Model) violationLines(styles Styles) []string {
	v := m.snapshot.Violations
	if v == nil {
		return nil
	}
	total := styles.SuccessText.Render(formatCount(v.Summary.TotalViolations))
	if v.Summary.TotalViolations > 0 {
		total = styles.DangerText.Render(formatCount(v.Summary.TotalViolations))
	}
	lines := []string{styles.MutedText.Render(padRight("Total", 18)) + total}
	for _, c := range topCounts(v.Summary.ByKeyword, breakdownRows) {
		lines = append(lines, breakdown(styles, c))
	}
	width := m.panelWidth() - 4
	for i, d := range v.Detailed {
		if i == violationRows {
			lines = append(lines, styles.FaintText.Render(fmt.Sprintf("… %d more", len(v.Detailed)-violationRows)))
			break
		}
		line := fmt.Sprintf("%s:%d %s", d.FileName, d.LineNumber, d.Keyword)
		lines = append(lines, styles.FaintText.Render(truncate(line, width)))
	}
	return lines
}

func metric(styles Styles, label, value string) string {
	return styles.MutedText.Render(padRight(label, 18)) + styles.Text.Bold(true).Render(value)
}

func breakdown(styles Styles, c count) string {
	return "  " + styles.Text.Render(padRight(truncate(c.label, 24), 26)) + styles.InfoText.Render(formatCount(c.n))
}
