package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/session"
	"github.com/railscope/railscope/internal/state"
)

// renderHeader renders the status bar: who is signed in, the division
// filter and how fresh the data is.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("railscope", styles.Logo)}

	user := m.sess.User
	switch {
	case user == nil && m.sess.Phase == session.Anonymous:
		parts = append(parts, bg.Render("signed out", styles.MutedText))
	case user == nil:
		parts = append(parts, bg.Render("restoring session", styles.WarningText))
	default:
		parts = append(parts, bg.Render(user.Username, styles.Text.Bold(true)))
		parts = append(parts, styles.BadgeStyle(roleBadge(user.Role)).Render(user.Role.String()))
		if m.sess.Loading {
			parts = append(parts, styles.BadgeStyle(badgeRestoring).Render("verifying"))
		}
		parts = append(parts, bg.Render("division", styles.FaintText)+bg.Space()+
			bg.Render(m.divisionLabel(), styles.AccentText))
		parts = append(parts, m.freshness(styles, bg))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")))
}

// divisionLabel shows the filter the refresher actually applies.
func (m Model) divisionLabel() string {
	division, err := session.EffectiveDivisionFilter(m.sess.User, m.snapshot.Division)
	switch {
	case err != nil:
		return "none assigned"
	case division == "":
		return session.AllDivisions
	default:
		return division
	}
}

func (m Model) freshness(styles Styles, bg BgStyle) string {
	snap := m.snapshot
	if snap.IsOffline() {
		label := "OFFLINE"
		if err := firstError(snap); err != nil {
			label = classifyConnectionError(err)
		}
		return styles.BadgeStyle(badgeOffline).Render(label) + bg.Space() +
			bg.Render("retrying", styles.WarningText)
	}
	if snap.LastUpdated.IsZero() {
		return bg.Render("waiting for data", styles.FaintText)
	}
	return bg.Render("updated", styles.FaintText) + bg.Space() +
		bg.Render(snap.LastUpdated.Format("15:04:05"), styles.MutedText)
}

func firstError(snap state.Snapshot) error {
	for _, w := range state.Widgets {
		if err := snap.Err(w); err != nil {
			return err
		}
	}
	return nil
}

func roleBadge(role session.Role) string {
	switch role {
	case session.SuperAdmin:
		return badgeSuperAdmin
	case session.Admin:
		return badgeAdmin
	default:
		return badgeDivisionUser
	}
}

// classifyConnectionError condenses a refresh failure into a short label.
func classifyConnectionError(err error) string {
	switch api.Classify(err) {
	case api.KindNone:
		return ""
	case api.KindRejection:
		if api.IsUnauthorized(err) {
			return "SESSION EXPIRED"
		}
		rejection, _ := api.AsError(err)
		return "HTTP " + strconv.Itoa(rejection.Status)
	case api.KindDecode:
		return "BAD RESPONSE"
	}

	msg := err.Error()
	var transport *api.TransportError
	if errors.As(err, &transport) && transport.Err != nil {
		msg = transport.Err.Error()
	}
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// renderFooter renders the key hints for the active view, or a transient
// notice.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var hints []string
	switch m.activeView() {
	case ViewLogin:
		hints = []string{"tab", "Next field", "enter", "Sign in", "ctrl+c", "Quit"}
	case ViewSearch:
		hints = []string{"enter", "Search", "↑/↓", "Scroll", "esc", "Back"}
	case ViewOverview:
		for _, b := range m.keys.ShortHelp() {
			hints = append(hints, b.Help().Key, b.Help().Desc)
		}
		if m.sess.User != nil && session.CanAccessAllDivisions(m.sess.User.Role) {
			hints = append(hints, m.keys.CycleDivision.Help().Key, "Division")
		}
	default:
		hints = []string{"ctrl+c", "Quit"}
	}

	parts := make([]string, 0, len(hints)/2+1)
	for i := 0; i+1 < len(hints); i += 2 {
		parts = append(parts, bg.Render(hints[i], styles.WarningText)+bg.Space()+bg.Render(hints[i+1], styles.MutedText))
	}
	if m.notice != "" {
		parts = append(parts, bg.Render(m.notice, styles.InfoText))
	}
	return styles.Footer.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderSplash is shown while a session restore has nothing to display yet.
func (m Model) renderSplash() string {
	styles := m.theme.Styles()
	msg := m.spinner.View() + " " + styles.MutedText.Render("Restoring session...")
	return lipgloss.Place(m.width, maxInt(m.height-2, 1), lipgloss.Center, lipgloss.Center, msg)
}
