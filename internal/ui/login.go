package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldUsername = iota
	fieldPassword
	fieldDivision
	fieldCount
)

// loginForm holds the sign-in inputs. Division is optional.
type loginForm struct {
	inputs     [fieldCount]textinput.Model
	focused    int
	submitting bool
	err        string
}

func newLoginForm() loginForm {
	var f loginForm
	placeholders := [fieldCount]string{"username", "password", "division (optional)"}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = 128
		in.Width = 32
		in.Prompt = ""
		f.inputs[i] = in
	}
	f.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	f.inputs[fieldPassword].EchoCharacter = '•'
	f.focus(fieldUsername)
	return f
}

func (f *loginForm) focus(i int) tea.Cmd {
	f.focused = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focused {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

// reset clears credentials after a completed sign-in. The division is kept.
func (f *loginForm) reset() {
	f.inputs[fieldUsername].SetValue("")
	f.inputs[fieldPassword].SetValue("")
	f.submitting = false
	f.err = ""
	f.focus(fieldUsername)
}

func (f *loginForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return cmd
}

func (f *loginForm) applyTheme(t Theme) {
	for i := range f.inputs {
		f.inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text))
		f.inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint))
		f.inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent))
	}
}

func (f loginForm) credentials() (username, password, division string) {
	return strings.TrimSpace(f.inputs[fieldUsername].Value()),
		f.inputs[fieldPassword].Value(),
		strings.TrimSpace(f.inputs[fieldDivision].Value())
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NextField):
		return m, m.login.focus(m.login.focused + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.login.focus(m.login.focused - 1)
	case key.Matches(msg, m.keys.Confirm):
		return m.submitLogin()
	}
	return m, m.login.update(msg)
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	username, password, division := m.login.credentials()
	if username == "" || password == "" {
		m.login.err = "Username and password are required"
		return m, nil
	}
	if m.session == nil {
		return m, nil
	}
	m.login.submitting = true
	m.login.err = ""
	return m, loginCmd(m.ctx, m.session, username, password, division)
}

func (m Model) handleLoginDone(msg loginDoneMsg) Model {
	m.login.submitting = false
	if !msg.result.Success {
		m.login.err = msg.result.Error
		m.login.inputs[fieldPassword].SetValue("")
		m.login.focus(fieldPassword)
		return m
	}
	m.login.inputs[fieldPassword].SetValue("")
	return m
}

func (m Model) renderLogin() string {
	styles := m.theme.Styles()
	labels := [fieldCount]string{"Username", "Password", "Division"}

	var b strings.Builder
	b.WriteString(styles.Logo.Render("railscope"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Sign in to the transcript analysis service"))
	b.WriteString("\n\n")

	for i, in := range m.login.inputs {
		label := styles.MutedText.Render(padRight(labels[i], 10))
		if i == m.login.focused {
			label = styles.AccentText.Bold(true).Render(padRight(labels[i], 10))
		}
		b.WriteString(label)
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.login.submitting:
		b.WriteString(m.spinner.View() + " " + styles.InfoText.Render("Signing in..."))
	case m.login.err != "":
		b.WriteString(styles.DangerText.Render(m.login.err))
	default:
		b.WriteString(styles.FaintText.Render("tab next field · enter sign in · ctrl+c quit"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 3).
		Render(b.String())

	return lipgloss.Place(m.width, maxInt(m.height-2, 1), lipgloss.Center, lipgloss.Center, box)
}
