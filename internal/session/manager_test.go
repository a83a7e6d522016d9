package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/localstore"
	"github.com/railscope/railscope/internal/service"
)

// fakeAuth scripts the backend. meGate, when set, blocks CurrentUser until it
// is closed or the context ends.
type fakeAuth struct {
	mu        sync.Mutex
	calls     []string
	loginReq  service.LoginRequest
	loginErr  error
	logoutErr error
	me        *service.UserInfo
	meErr     error
	meGate    chan struct{}
}

func (f *fakeAuth) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeAuth) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAuth) Login(_ context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	f.record("login")
	f.mu.Lock()
	f.loginReq = req
	f.mu.Unlock()
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &service.LoginResponse{Success: true, Username: req.Username}, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeAuth) CurrentUser(ctx context.Context) (*service.UserInfo, error) {
	f.record("me")
	if f.meGate != nil {
		select {
		case <-f.meGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.meErr != nil {
		return nil, f.meErr
	}
	info := *f.me
	return &info, nil
}

type fakeCookies struct{ cleared int }

func (c *fakeCookies) ClearCookies() error {
	c.cleared++
	return nil
}

func strPtr(s string) *string { return &s }

func seedSnapshot(t *testing.T, store Storage, user User) {
	t.Helper()
	raw, err := encodeSnapshot(user)
	require.NoError(t, err)
	require.NoError(t, store.Set(SnapshotKey, raw))
}

func hasSnapshot(store Storage) bool {
	_, ok, _ := store.Get(SnapshotKey)
	return ok
}

func TestBootstrap_FailedVerificationClearsSnapshot(t *testing.T) {
	store := localstore.NewMemory()
	seedSnapshot(t, store, User{ID: 1, Username: "ops", Division: "Ajmer"})
	auth := &fakeAuth{meErr: &api.Error{Status: 401, Detail: "Not authenticated"}, meGate: make(chan struct{})}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())

	provisional := m.State()
	assert.Equal(t, Restoring, provisional.Phase)
	assert.True(t, provisional.Loading)
	assert.True(t, provisional.FromSnapshot)
	require.NotNil(t, provisional.User)
	assert.Equal(t, "ops", provisional.User.Username)

	close(auth.meGate)
	task.Wait()

	final := m.State()
	assert.Equal(t, Anonymous, final.Phase)
	assert.Nil(t, final.User)
	assert.False(t, final.Loading)
	assert.False(t, hasSnapshot(store))
}

func TestBootstrap_TransportFailureAlsoAnonymous(t *testing.T) {
	store := localstore.NewMemory()
	seedSnapshot(t, store, User{ID: 1, Username: "ops"})
	auth := &fakeAuth{meErr: &api.TransportError{Method: "GET", Path: "/me", Err: errors.New("refused")}}
	m := NewManager(Options{Auth: auth, Storage: store})

	m.Bootstrap(context.Background()).Wait()

	assert.Equal(t, Anonymous, m.State().Phase)
	assert.False(t, hasSnapshot(store))
}

func TestBootstrap_SuperAdminWithNullDivision(t *testing.T) {
	store := localstore.NewMemory()
	auth := &fakeAuth{me: &service.UserInfo{ID: 9, Username: "root", IsSuperAdmin: true, Division: nil}}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())
	assert.False(t, m.State().FromSnapshot)
	task.Wait()

	state := m.State()
	assert.Equal(t, Authenticated, state.Phase)
	assert.False(t, state.Loading)
	require.NotNil(t, state.User)
	assert.Equal(t, SuperAdmin, state.User.Role)
	assert.Equal(t, "Super Admin", state.User.Role.String())
	assert.Equal(t, "", state.User.Division)

	raw, ok, err := store.Get(SnapshotKey)
	require.NoError(t, err)
	require.True(t, ok)
	restored, err := decodeSnapshot(raw)
	require.NoError(t, err)
	assert.Equal(t, *state.User, *restored)
}

func TestBootstrap_UnparseableSnapshotIsAbsent(t *testing.T) {
	store := localstore.NewMemory()
	require.NoError(t, store.Set(SnapshotKey, "{not json"))
	auth := &fakeAuth{me: &service.UserInfo{ID: 2, Username: "ops"}, meGate: make(chan struct{})}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())
	state := m.State()
	assert.Nil(t, state.User)
	assert.False(t, state.FromSnapshot)
	assert.Equal(t, Restoring, state.Phase)
	assert.False(t, hasSnapshot(store))

	close(auth.meGate)
	task.Wait()
	assert.Equal(t, Authenticated, m.State().Phase)
}

func TestBootstrap_SnapshotRoleIsRecomputed(t *testing.T) {
	store := localstore.NewMemory()
	require.NoError(t, store.Set(SnapshotKey, `{"id":1,"username":"ops","role":"Super Admin","division":"Ajmer","is_admin":false,"is_super_admin":false}`))
	auth := &fakeAuth{meGate: make(chan struct{}), meErr: errors.New("offline")}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())
	defer task.Wait()
	defer close(auth.meGate)

	state := m.State()
	require.NotNil(t, state.User)
	assert.Equal(t, DivisionUser, state.User.Role)
}

func TestBootstrap_CancelDiscardsResolution(t *testing.T) {
	store := localstore.NewMemory()
	seedSnapshot(t, store, User{ID: 1, Username: "ops"})
	auth := &fakeAuth{meErr: errors.New("expired"), meGate: make(chan struct{})}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())
	task.Cancel()
	task.Wait()

	state := m.State()
	assert.Equal(t, Restoring, state.Phase, "discarded verification must not change state")
	assert.True(t, state.Loading)
	assert.True(t, hasSnapshot(store), "discarded verification must not clear the snapshot")
}

// staleFirstAuth fails the first /me call once its gate opens and answers
// every later one immediately.
type staleFirstAuth struct {
	fakeAuth
	gate  chan struct{}
	first sync.Once
}

func (a *staleFirstAuth) CurrentUser(ctx context.Context) (*service.UserInfo, error) {
	isFirst := false
	a.first.Do(func() { isFirst = true })
	if isFirst {
		a.record("me")
		<-a.gate
		return nil, &api.Error{Status: 401, Detail: "Not authenticated"}
	}
	return a.fakeAuth.CurrentUser(ctx)
}

func TestBootstrap_LoginSupersedesPendingVerification(t *testing.T) {
	store := localstore.NewMemory()
	auth := &staleFirstAuth{
		fakeAuth: fakeAuth{me: &service.UserInfo{ID: 3, Username: "ops", Division: strPtr("Ajmer")}},
		gate:     make(chan struct{}),
	}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())
	require.Eventually(t, func() bool { return len(auth.Calls()) == 1 }, time.Second, 5*time.Millisecond)

	result := m.Login(context.Background(), "ops", "pw", "")
	require.True(t, result.Success)

	close(auth.gate)
	task.Wait()

	state := m.State()
	assert.Equal(t, Authenticated, state.Phase, "stale verification failure must not undo the login")
	require.NotNil(t, state.User)
	assert.Equal(t, "ops", state.User.Username)
	assert.True(t, hasSnapshot(store))
}

func TestBootstrap_LogoutSupersedesPendingVerification(t *testing.T) {
	store := localstore.NewMemory()
	seedSnapshot(t, store, User{ID: 1, Username: "ops"})
	gate := make(chan struct{})
	auth := &fakeAuth{meGate: gate, me: &service.UserInfo{ID: 1, Username: "ops"}}
	m := NewManager(Options{Auth: auth, Storage: store})

	task := m.Bootstrap(context.Background())
	m.Logout(context.Background())
	close(gate)
	task.Wait()

	state := m.State()
	assert.Equal(t, Anonymous, state.Phase, "late verification must not resurrect a logged out session")
	assert.False(t, hasSnapshot(store))
}

func TestLogin_TwoSequentialCallsThenAuthenticated(t *testing.T) {
	store := localstore.NewMemory()
	auth := &fakeAuth{me: &service.UserInfo{ID: 4, Username: "ajm", IsAdmin: true, Division: strPtr("Ajmer")}}
	m := NewManager(Options{Auth: auth, Storage: store})

	states, stop := m.Subscribe()
	defer stop()

	result := m.Login(context.Background(), "ajm", "pw", "Ajmer")
	require.True(t, result.Success)
	assert.Empty(t, result.Error)

	assert.Equal(t, []string{"login", "me"}, auth.Calls())
	assert.Equal(t, "Ajmer", auth.loginReq.Division)

	state := m.State()
	assert.Equal(t, Authenticated, state.Phase)
	require.NotNil(t, state.User)
	assert.Equal(t, Admin, state.User.Role)
	assert.Equal(t, "Ajmer", state.User.Division)
	assert.True(t, hasSnapshot(store))

	select {
	case published := <-states:
		assert.Equal(t, Authenticated, published.Phase)
	default:
		t.Fatal("expected a published state")
	}
}

func TestLogin_BlankDivisionIsOmitted(t *testing.T) {
	auth := &fakeAuth{me: &service.UserInfo{ID: 1, Username: "root", IsSuperAdmin: true}}
	m := NewManager(Options{Auth: auth, Storage: localstore.NewMemory()})

	require.True(t, m.Login(context.Background(), "root", "pw", "  ").Success)
	assert.Equal(t, "", auth.loginReq.Division)
}

func TestLogin_InvalidCredentialsMutateNothing(t *testing.T) {
	store := localstore.NewMemory()
	auth := &fakeAuth{loginErr: &api.Error{Status: 401, Detail: "Invalid username or password"}}
	m := NewManager(Options{Auth: auth, Storage: store})

	before := m.State()
	result := m.Login(context.Background(), "ops", "wrong", "")

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid username or password", result.Error)
	assert.Equal(t, before, m.State())
	assert.False(t, hasSnapshot(store))
	assert.Equal(t, []string{"login"}, auth.Calls())
}

func TestLogin_ProfileFailureMutatesNothing(t *testing.T) {
	store := localstore.NewMemory()
	auth := &fakeAuth{meErr: &api.Error{Status: 500, Detail: "HTTP 500"}}
	m := NewManager(Options{Auth: auth, Storage: store})

	result := m.Login(context.Background(), "ops", "pw", "")
	assert.False(t, result.Success)
	assert.Equal(t, "HTTP 500", result.Error)
	assert.Equal(t, Uninitialized, m.State().Phase)
	assert.False(t, hasSnapshot(store))
}

func TestLogin_EmptyErrorMessageFallsBack(t *testing.T) {
	auth := &fakeAuth{loginErr: &api.Error{Status: 400}}
	m := NewManager(Options{Auth: auth})

	result := m.Login(context.Background(), "ops", "pw", "")
	assert.Equal(t, "Login failed", result.Error)
}

func TestLogout_ClearsEvenWhenBackendFails(t *testing.T) {
	store := localstore.NewMemory()
	cookies := &fakeCookies{}
	auth := &fakeAuth{
		me:        &service.UserInfo{ID: 4, Username: "ops"},
		logoutErr: &api.TransportError{Method: "POST", Path: "/logout", Err: errors.New("network down")},
	}
	m := NewManager(Options{Auth: auth, Storage: store, Cookies: cookies})

	require.True(t, m.Login(context.Background(), "ops", "pw", "").Success)
	require.True(t, hasSnapshot(store))

	m.Logout(context.Background())

	state := m.State()
	assert.Equal(t, Anonymous, state.Phase)
	assert.Nil(t, state.User)
	assert.False(t, hasSnapshot(store))
	assert.Equal(t, 1, cookies.cleared)
}

func TestState_ReturnsCopies(t *testing.T) {
	auth := &fakeAuth{me: &service.UserInfo{ID: 4, Username: "ops"}}
	m := NewManager(Options{Auth: auth})
	require.True(t, m.Login(context.Background(), "ops", "pw", "").Success)

	state := m.State()
	state.User.Username = "mallory"
	assert.Equal(t, "ops", m.State().User.Username)
}

func TestSubscribe_KeepsLatestAndStops(t *testing.T) {
	auth := &fakeAuth{me: &service.UserInfo{ID: 4, Username: "ops"}}
	m := NewManager(Options{Auth: auth})

	states, stop := m.Subscribe()
	require.True(t, m.Login(context.Background(), "ops", "pw", "").Success)
	m.Logout(context.Background())

	latest := <-states
	assert.Equal(t, Anonymous, latest.Phase)

	stop()
	stop()
	require.True(t, m.Login(context.Background(), "ops", "pw", "").Success)
	select {
	case <-states:
		t.Fatal("unsubscribed channel received a state")
	default:
	}
}

// emptyMeBackend answers every request with 200 and no body for /login, and
// with meReply for /me.
func emptyMeBackend(t *testing.T, meReply func(http.ResponseWriter)) service.Authenticator {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/me" {
			meReply(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)
	client, err := api.NewClient(api.Options{Origin: srv.URL})
	require.NoError(t, err)
	return service.NewAuth(client)
}

func TestEmptyUserRecordIsNotAUser(t *testing.T) {
	replies := map[string]func(http.ResponseWriter){
		"null body": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("null"))
		},
		"no content": func(w http.ResponseWriter) {
			w.WriteHeader(http.StatusNoContent)
		},
		"blank record": func(w http.ResponseWriter) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":0,"username":""}`))
		},
	}
	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			auth := emptyMeBackend(t, reply)

			store := localstore.NewMemory()
			seedSnapshot(t, store, User{ID: 1, Username: "ops"})
			m := NewManager(Options{Auth: auth, Storage: store})
			m.Bootstrap(context.Background()).Wait()

			st := m.State()
			assert.Equal(t, Anonymous, st.Phase)
			assert.Nil(t, st.User)
			assert.False(t, hasSnapshot(store))

			result := m.Login(context.Background(), "ops", "pw", "")
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
			assert.Equal(t, Anonymous, m.State().Phase)
			assert.False(t, hasSnapshot(store))
		})
	}
}
