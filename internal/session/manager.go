package session

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/railscope/railscope/internal/service"
)

// Phase is where the session sits in its lifecycle.
type Phase int

const (
	Uninitialized Phase = iota
	Restoring
	Authenticated
	Anonymous
)

func (p Phase) String() string {
	switch p {
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	case Anonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// State is a read-only projection of the session. User is nil when nobody is
// signed in. While Restoring, User may hold the unverified snapshot.
type State struct {
	Phase        Phase
	User         *User
	Loading      bool
	FromSnapshot bool
}

// Authenticated reports whether a user is present, provisional or verified.
func (s State) Authenticated() bool {
	return s.User != nil
}

func (s State) clone() State {
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}

// LoginResult reports a login attempt. Error is set only on failure.
type LoginResult struct {
	Success bool
	Error   string
}

// CookieClearer drops credentials held by the transport.
type CookieClearer interface {
	ClearCookies() error
}

// Options configure a Manager.
type Options struct {
	Auth    service.Authenticator
	Storage Storage
	Cookies CookieClearer
	Logger  *slog.Logger
}

// Manager owns the session. Bootstrap, Login and Logout are the only writers.
type Manager struct {
	auth    service.Authenticator
	storage Storage
	cookies CookieClearer
	logger  *slog.Logger

	mu          sync.Mutex
	state       State
	generation  uint64
	subscribers map[chan State]struct{}
}

// NewManager returns a manager in the Uninitialized phase.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		auth:        opts.Auth,
		storage:     opts.Storage,
		cookies:     opts.Cookies,
		logger:      logger,
		subscribers: make(map[chan State]struct{}),
	}
}

// State returns a copy of the current session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe returns a channel that receives the latest state after every
// transition, and a function that stops delivery. Slow readers only see the
// most recent state.
func (m *Manager) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, ch)
			m.mu.Unlock()
		})
	}
}

// Bootstrap restores the snapshot for display and verifies it with /me in
// the background. The returned task can discard the verification.
func (m *Manager) Bootstrap(ctx context.Context) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	m.generation++
	generation := m.generation
	snapshot := m.loadSnapshot()
	m.setLocked(State{
		Phase:        Restoring,
		User:         snapshot,
		Loading:      true,
		FromSnapshot: snapshot != nil,
	})
	m.mu.Unlock()

	go func() {
		defer close(task.done)
		defer cancel()
		info, err := m.auth.CurrentUser(ctx)
		m.resolve(ctx, generation, info, err)
	}()
	return task
}

func (m *Manager) resolve(ctx context.Context, generation uint64, info *service.UserInfo, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ctx.Err() != nil {
		m.logger.Debug("session verification discarded", "reason", "cancelled")
		return
	}
	if generation != m.generation {
		m.logger.Debug("session verification discarded", "reason", "superseded")
		return
	}
	if err == nil && (info == nil || info.Username == "") {
		err = service.ErrNoUserRecord
	}
	if err != nil {
		m.logger.Info("session verification failed", "error", err)
		m.removeSnapshot()
		m.setLocked(State{Phase: Anonymous})
		return
	}
	user := FromUserInfo(*info)
	m.saveSnapshot(user)
	m.setLocked(State{Phase: Authenticated, User: &user})
	m.logger.Info("session verified", "username", user.Username, "role", user.Role.String())
}

// Login authenticates and then fetches /me. State changes only when both
// calls succeed. Failures are reported in the result, never returned.
func (m *Manager) Login(ctx context.Context, username, password, division string) LoginResult {
	req := service.LoginRequest{
		Username: username,
		Password: password,
		Division: strings.TrimSpace(division),
	}
	if _, err := m.auth.Login(ctx, req); err != nil {
		m.logger.Info("login rejected", "username", username, "error", err)
		return failure(err)
	}
	info, err := m.auth.CurrentUser(ctx)
	if err == nil && (info == nil || info.Username == "") {
		err = service.ErrNoUserRecord
	}
	if err != nil {
		m.logger.Info("login profile fetch failed", "username", username, "error", err)
		return failure(err)
	}
	if err := ctx.Err(); err != nil {
		return failure(err)
	}

	user := FromUserInfo(*info)
	m.mu.Lock()
	m.generation++
	m.saveSnapshot(user)
	m.setLocked(State{Phase: Authenticated, User: &user})
	m.mu.Unlock()

	m.logger.Info("login succeeded", "username", user.Username, "role", user.Role.String())
	return LoginResult{Success: true}
}

func failure(err error) LoginResult {
	message := "Login failed"
	if err != nil && strings.TrimSpace(err.Error()) != "" {
		message = err.Error()
	}
	return LoginResult{Success: false, Error: message}
}

// Logout tells the backend, then clears local state whatever it answered.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.auth.Logout(ctx); err != nil {
		m.logger.Warn("logout request failed", "error", err)
	}

	m.mu.Lock()
	m.generation++
	m.removeSnapshot()
	if m.cookies != nil {
		if err := m.cookies.ClearCookies(); err != nil {
			m.logger.Warn("clear cookies failed", "error", err)
		}
	}
	m.setLocked(State{Phase: Anonymous})
	m.mu.Unlock()
	m.logger.Info("logged out")
}

func (m *Manager) setLocked(state State) {
	m.state = state
	for ch := range m.subscribers {
		select {
		case <-ch:
		default:
		}
		ch <- state.clone()
	}
}

func (m *Manager) loadSnapshot() *User {
	if m.storage == nil {
		return nil
	}
	raw, ok, err := m.storage.Get(SnapshotKey)
	if err != nil {
		m.logger.Warn("read session snapshot failed", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	user, err := decodeSnapshot(raw)
	if err != nil {
		m.logger.Warn("discarding unreadable session snapshot", "error", err)
		m.removeSnapshot()
		return nil
	}
	return user
}

func (m *Manager) saveSnapshot(user User) {
	if m.storage == nil {
		return
	}
	raw, err := encodeSnapshot(user)
	if err == nil {
		err = m.storage.Set(SnapshotKey, raw)
	}
	if err != nil {
		m.logger.Warn("persist session snapshot failed", "error", err)
	}
}

func (m *Manager) removeSnapshot() {
	if m.storage == nil {
		return
	}
	if err := m.storage.Remove(SnapshotKey); err != nil {
		m.logger.Warn("remove session snapshot failed", "error", err)
	}
}
