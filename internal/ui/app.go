package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/railscope/railscope/internal/logging"
	"github.com/railscope/railscope/internal/prefs"
	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
	"github.com/railscope/railscope/internal/state"
)

// SessionManager is the part of *session.Manager the UI drives.
type SessionManager interface {
	State() session.State
	Subscribe() (<-chan session.State, func())
	Login(ctx context.Context, username, password, division string) session.LoginResult
	Logout(ctx context.Context)
}

// TranscriptSearcher runs transcript searches.
type TranscriptSearcher interface {
	Search(ctx context.Context, p service.TranscriptSearch) (*service.TranscriptSearchResponse, error)
}

// Refresher accepts requests for an immediate dashboard refresh.
type Refresher interface {
	Trigger()
}

var (
	_ SessionManager     = (*session.Manager)(nil)
	_ TranscriptSearcher = (*service.Transcripts)(nil)
)

// View is the screen currently shown.
type View int

const (
	ViewSplash View = iota // session restore in progress, nothing to show yet
	ViewLogin
	ViewOverview
	ViewSearch
)

// Options configures the UI.
type Options struct {
	Context     context.Context
	Session     SessionManager
	Transcripts TranscriptSearcher
	Store       *state.Store
	Refresher   Refresher
	PollTick    time.Duration
	ThemeName   string
	PrefsPath   string
	Logger      *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx         context.Context
	session     SessionManager
	updates     <-chan session.State
	transcripts TranscriptSearcher
	store       *state.Store
	refresher   Refresher
	prefsPath   string
	pollTick    time.Duration
	logger      *slog.Logger

	keys    keyMap
	theme   Theme
	width   int
	height  int
	ready   bool
	mode    View // overview or search once signed in
	spinner spinner.Model

	sess      session.State
	snapshot  state.Snapshot
	divisions []string // known divisions, from the last stats widget

	overview viewport.Model
	login    loginForm
	search   searchState

	showHelp bool
	notice   string
}

// New creates a model. updates may be nil when the caller does not stream
// session changes.
func New(opts Options, updates <-chan session.State) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		session:     opts.Session,
		updates:     updates,
		transcripts: opts.Transcripts,
		store:       opts.Store,
		refresher:   opts.Refresher,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		logger:      logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		mode:        ViewOverview,
		spinner:     sp,
		login:       newLoginForm(),
		search:      newSearchState(),
	}
	if opts.Session != nil {
		m.sess = opts.Session.State()
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model. A session already verified before the program
// started gets its first refresh now, since no transition will announce it.
func (m Model) Init() tea.Cmd {
	if m.sess.Phase == session.Authenticated && m.refresher != nil {
		m.refresher.Trigger()
	}
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
		textinput.Blink,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.updates != nil {
		cmds = append(cmds, waitForSession(m.updates))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		if m.snapshot.Stats != nil {
			m.divisions = sortedKeys(m.snapshot.Stats.ByDivision)
		}
		m.updateOverview()
		return m, nil

	case sessionMsg:
		m = m.applySession(session.State(msg))
		return m, waitForSession(m.updates)

	case loginDoneMsg:
		return m.handleLoginDone(msg), nil

	case logoutDoneMsg:
		m.notice = "Signed out"
		return m, nil

	case searchResultMsg:
		m.handleSearchResult(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m.forwardToInputs(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.activeView() {
	case ViewLogin:
		body = m.renderLogin()
	case ViewSearch:
		body = m.renderSearch()
	case ViewOverview:
		body = m.overview.View()
	default:
		body = m.renderSplash()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

// activeView derives the screen from the session. The login form shows only
// once restore has settled on anonymous; a provisional user gets the
// overview straight away.
func (m Model) activeView() View {
	if m.sess.User == nil {
		if m.sess.Phase == session.Anonymous {
			return ViewLogin
		}
		return ViewSplash
	}
	return m.mode
}

func (m Model) applySession(next session.State) Model {
	prev := m.sess
	m.sess = next

	switch {
	case next.Phase == session.Authenticated && prev.Phase != session.Authenticated:
		m.login.reset()
		m.notice = ""
		if m.refresher != nil {
			m.refresher.Trigger()
		}
	case next.Phase == session.Anonymous && prev.User != nil:
		m.mode = ViewOverview
		m.search = newSearchState()
		m.search.applyTheme(m.theme)
		m.resize()
		if m.store != nil {
			m.store.Reset()
		}
		m.snapshot = state.Snapshot{}
		m.divisions = nil
		m.updateOverview()
	}
	if m.activeView() == ViewLogin {
		m.login.focus(m.login.focused)
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.activeView() {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewOverview:
		return m.handleOverviewKey(msg)
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleOverviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.updateOverview()
		name := m.theme.Name
		if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
			m.logger.Warn("save theme failed", "error", err)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refresher != nil {
			m.refresher.Trigger()
		}
		m.notice = "Refreshing..."
		return m, nil

	case key.Matches(msg, m.keys.CycleDivision):
		m.cycleDivision()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = ViewSearch
		m.search.input.SetValue("")
		return m, m.search.input.Focus()

	case key.Matches(msg, m.keys.Logout):
		m.notice = "Signing out..."
		return m, logoutCmd(m.ctx, m.session)
	}

	var cmd tea.Cmd
	m.overview, cmd = m.overview.Update(msg)
	return m, cmd
}

// cycleDivision steps a super admin through All Divisions and every
// division the stats widget reports.
func (m *Model) cycleDivision() {
	if m.sess.User == nil || !session.CanAccessAllDivisions(m.sess.User.Role) || m.store == nil {
		return
	}
	options := append([]string{session.AllDivisions}, m.divisions...)
	current := m.snapshot.Division
	if current == "" {
		current = session.AllDivisions
	}
	next := options[0]
	for i, option := range options {
		if option == current {
			next = options[(i+1)%len(options)]
			break
		}
	}

	m.store.SetDivision(next)
	m.snapshot = m.store.Snapshot()
	m.updateOverview()
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Division = next }); err != nil {
		m.logger.Warn("save division failed", "error", err)
	}
	if m.refresher != nil {
		m.refresher.Trigger()
	}
}

// forwardToInputs passes non-key messages (cursor blink) to the focused
// text input.
func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.activeView() {
	case ViewLogin:
		cmd = m.login.update(msg)
	case ViewSearch:
		m.search.input, cmd = m.search.input.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.login.applyTheme(m.theme)
	m.search.applyTheme(m.theme)
}

// resize lays out the scrollable areas below the header and above the
// footer.
func (m *Model) resize() {
	bodyHeight := maxInt(m.height-2, 1)
	m.overview.Width = m.width
	m.overview.Height = bodyHeight
	m.search.resize(m.width, bodyHeight)
	m.updateOverview()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type sessionMsg session.State

type loginDoneMsg struct {
	result session.LoginResult
}

type logoutDoneMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForSession blocks until the manager publishes a new state.
func waitForSession(updates <-chan session.State) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return sessionMsg(st)
	}
}

func loginCmd(ctx context.Context, sm SessionManager, username, password, division string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{result: sm.Login(ctx, username, password, division)}
	}
}

func logoutCmd(ctx context.Context, sm SessionManager) tea.Cmd {
	return func() tea.Msg {
		sm.Logout(ctx)
		return logoutDoneMsg{}
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	var updates <-chan session.State
	if opts.Session != nil {
		ch, unsubscribe := opts.Session.Subscribe()
		defer unsubscribe()
		updates = ch
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := New(opts, updates)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
