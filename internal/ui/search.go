package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
)

const searchPageSize = 50

// searchState holds the transcript search view.
type searchState struct {
	input    textinput.Model
	results  viewport.Model
	pending  string // query awaiting a response
	query    string // query the results belong to
	division string
	resp     *service.TranscriptSearchResponse
	err      error
	theme    Theme
}

type searchResultMsg struct {
	query    string
	division string
	resp     *service.TranscriptSearchResponse
	err      error
}

func newSearchState() searchState {
	in := textinput.New()
	in.Placeholder = "keyword"
	in.Prompt = "/ "
	in.CharLimit = 256
	return searchState{input: in, results: viewport.New(0, 0)}
}

func (s *searchState) applyTheme(t Theme) {
	s.theme = t
	s.input.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true)
	s.input.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
	s.input.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
	s.renderResults()
}

func (s *searchState) resize(width, height int) {
	s.input.Width = maxInt(width-4, 10)
	s.results.Width = width
	s.results.Height = maxInt(height-2, 1)
	s.renderResults()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ViewOverview
		m.search.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		return m.runSearch()
	}

	switch msg.Type {
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.search.results, cmd = m.search.results.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.search.input, cmd = m.search.input.Update(msg)
	return m, cmd
}

func (m Model) runSearch() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.search.input.Value())
	if query == "" || m.transcripts == nil {
		return m, nil
	}
	division, err := session.EffectiveDivisionFilter(m.sess.User, m.snapshot.Division)
	if err != nil {
		m.search.err = err
		m.search.renderResults()
		return m, nil
	}
	m.search.pending = query
	m.search.err = nil
	m.search.renderResults()
	return m, searchCmd(m.ctx, m.transcripts, query, division)
}

func searchCmd(ctx context.Context, searcher TranscriptSearcher, query, division string) tea.Cmd {
	return func() tea.Msg {
		limit := searchPageSize
		resp, err := searcher.Search(ctx, service.TranscriptSearch{
			Keyword:  query,
			Division: division,
			Limit:    &limit,
		})
		return searchResultMsg{query: query, division: division, resp: resp, err: err}
	}
}

func (m *Model) handleSearchResult(msg searchResultMsg) {
	if msg.query != m.search.pending {
		// Superseded by a newer search.
		return
	}
	m.search.pending = ""
	m.search.query = msg.query
	m.search.division = msg.division
	m.search.resp = msg.resp
	m.search.err = msg.err
	m.search.renderResults()
	m.search.results.GotoTop()
}

func (s *searchState) renderResults() {
	styles := s.theme.Styles()
	var b strings.Builder

	switch {
	case s.err != nil:
		b.WriteString(styles.DangerText.Render(api.Describe(s.err)))
	case s.pending != "":
		b.WriteString(styles.InfoText.Render(fmt.Sprintf("Searching for %q...", s.pending)))
	case s.resp == nil:
		b.WriteString(styles.FaintText.Render("Type a keyword and press enter."))
	case len(s.resp.Results) == 0:
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("No transcripts match %q.", s.query)))
	default:
		for i, r := range s.resp.Results {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(styles.AccentText.Bold(true).Render(r.FileName))
			b.WriteString("  ")
			meta := strings.TrimSpace(r.Division + "  " + r.Timestamp)
			b.WriteString(styles.MutedText.Render(meta))
			b.WriteString("\n")
			text := lipgloss.NewStyle().Width(maxInt(s.results.Width-2, 20)).Render(highlight(r.MatchedText, s.query, styles))
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	s.results.SetContent(b.String())
}

// highlight marks case-insensitive occurrences of query in text.
func highlight(text, query string, styles Styles) string {
	text = strings.TrimSpace(text)
	if query == "" {
		return styles.Text.Render(text)
	}
	lower := strings.ToLower(text)
	needle := strings.ToLower(query)
	var b strings.Builder
	for {
		idx := strings.Index(lower, needle)
		if idx < 0 || len(lower) != len(text) {
			b.WriteString(styles.Text.Render(text))
			break
		}
		b.WriteString(styles.Text.Render(text[:idx]))
		b.WriteString(styles.WarningText.Bold(true).Render(text[idx : idx+len(needle)]))
		text = text[idx+len(needle):]
		lower = lower[idx+len(needle):]
	}
	return b.String()
}

func (m Model) renderSearch() string {
	styles := m.theme.Styles()
	status := ""
	if resp := m.search.resp; resp != nil && m.search.err == nil && m.search.pending == "" {
		scope := m.search.division
		if scope == "" {
			scope = session.AllDivisions
		}
		status = fmt.Sprintf("%s results · page %d of %d · %s",
			formatCount(resp.Total), resp.Page, maxInt(resp.TotalPages, 1), scope)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.search.input.View(),
		styles.FaintText.Render(status),
		m.search.results.View(),
	)
}
