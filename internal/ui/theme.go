package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette. Badge colours are keyed by session phase and
// role.
type Theme struct {
	Name string

	Background  string
	Surface     string // header, footer
	Border      string
	BorderFocus string

	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Info    string

	BadgeColors map[string]string
}

const (
	badgeRestoring    = "restoring"
	badgeVerified     = "verified"
	badgeOffline      = "offline"
	badgeSuperAdmin   = "super_admin"
	badgeAdmin        = "admin"
	badgeDivisionUser = "division_user"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	InfoText    lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Logo   lipgloss.Style
	Panel  lipgloss.Style

	badgeColors map[string]string
	background  string
	muted       string
}

func (t Theme) Styles() Styles {
	fg := func(color string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bar := lipgloss.NewStyle().Background(lipgloss.Color(t.Surface)).Padding(0, 1)

	return Styles{
		Text:        fg(t.Text),
		MutedText:   fg(t.Muted),
		FaintText:   fg(t.Faint),
		AccentText:  fg(t.Accent),
		SuccessText: fg(t.Success).Bold(true),
		WarningText: fg(t.Warning),
		DangerText:  fg(t.Danger).Bold(true),
		InfoText:    fg(t.Info),

		Header: bar.Foreground(lipgloss.Color(t.Text)).Bold(true),
		Footer: bar.Foreground(lipgloss.Color(t.Muted)),
		Logo:   fg(t.Warning).Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),

		badgeColors: t.BadgeColors,
		background:  t.Background,
		muted:       t.Muted,
	}
}

// BadgeStyle returns an inverted style for a phase or role badge.
func (s Styles) BadgeStyle(badge string) lipgloss.Style {
	color := s.badgeColors[badge]
	if color == "" {
		color = s.muted
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.background)).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}

// WithBackground paints every text style onto bgColor so text drawn inside
// the header and footer bars does not punch holes through them.
func (s Styles) WithBackground(bgColor string) Styles {
	bg := lipgloss.Color(bgColor)
	for _, style := range []*lipgloss.Style{
		&s.Text, &s.MutedText, &s.FaintText, &s.AccentText,
		&s.SuccessText, &s.WarningText, &s.DangerText, &s.InfoText,
		&s.Header, &s.Footer, &s.Logo,
	} {
		*style = style.Background(bg)
	}
	return s
}

var themeOrder = []string{"Slate", "Signal", "Mocha"}

var themes = map[string]func() Theme{
	"Slate":  slateTheme,
	"Signal": signalTheme,
	"Mocha":  mochaTheme,
}

// GetTheme returns the named theme. Unknown names get Slate.
func GetTheme(name string) Theme {
	if build, ok := themes[name]; ok {
		return build()
	}
	return slateTheme()
}

// NextTheme returns the theme after current in the cycle.
func NextTheme(current string) string {
	for i, name := range themeOrder {
		if name == current {
			return themeOrder[(i+1)%len(themeOrder)]
		}
	}
	return themeOrder[0]
}

// ThemeNames lists the themes in cycle order.
func ThemeNames() []string {
	return append([]string(nil), themeOrder...)
}

func badges(restoring, verified, offline, superAdmin, admin, divisionUser string) map[string]string {
	return map[string]string{
		badgeRestoring:    restoring,
		badgeVerified:     verified,
		badgeOffline:      offline,
		badgeSuperAdmin:   superAdmin,
		badgeAdmin:        admin,
		badgeDivisionUser: divisionUser,
	}
}

// Tailwind slate and sky.
func slateTheme() Theme {
	return Theme{
		Name:        "Slate",
		Background:  "#020617",
		Surface:     "#0f172a",
		Border:      "#334155",
		BorderFocus: "#38bdf8",
		Text:        "#f1f5f9",
		Muted:       "#94a3b8",
		Faint:       "#64748b",
		Accent:      "#38bdf8",
		Success:     "#22c55e",
		Warning:     "#f59e0b",
		Danger:      "#ef4444",
		Info:        "#06b6d4",
		BadgeColors: badges("#f59e0b", "#16a34a", "#dc2626", "#a855f7", "#0ea5e9", "#64748b"),
	}
}

// Colour-light signal aspects on a ballast grey ground.
func signalTheme() Theme {
	return Theme{
		Name:        "Signal",
		Background:  "#111111",
		Surface:     "#1c1c1c",
		Border:      "#3a3a3a",
		BorderFocus: "#ffb000",
		Text:        "#e8e6e3",
		Muted:       "#a8a29e",
		Faint:       "#6b6661",
		Accent:      "#ffb000",
		Success:     "#2ecc40",
		Warning:     "#ffb000",
		Danger:      "#ff3b30",
		Info:        "#7fdbff",
		BadgeColors: badges("#ffb000", "#2ecc40", "#ff3b30", "#b10dc9", "#7fdbff", "#a8a29e"),
	}
}

// Catppuccin Mocha.
func mochaTheme() Theme {
	return Theme{
		Name:        "Mocha",
		Background:  "#11111b",
		Surface:     "#1e1e2e",
		Border:      "#45475a",
		BorderFocus: "#89b4fa",
		Text:        "#cdd6f4",
		Muted:       "#a6adc8",
		Faint:       "#6c7086",
		Accent:      "#89b4fa",
		Success:     "#a6e3a1",
		Warning:     "#f9e2af",
		Danger:      "#f38ba8",
		Info:        "#94e2d5",
		BadgeColors: badges("#f9e2af", "#a6e3a1", "#f38ba8", "#cba6f7", "#89dceb", "#9399b2"),
	}
}
