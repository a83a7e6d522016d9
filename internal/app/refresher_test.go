package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/railscope/railscope/internal/api"
	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
	"github.com/railscope/railscope/internal/state"
)

type fixedSession struct {
	state session.State
}

func (f fixedSession) State() session.State { return f.state }

func signedIn(user session.User) fixedSession {
	return fixedSession{state: session.State{Phase: session.Authenticated, User: &user}}
}

type backend struct {
	mu       sync.Mutex
	queries  map[string]string
	failing  map[string]bool
	requests int
}

func newBackend(t *testing.T, failing ...string) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{queries: map[string]string{}, failing: map[string]bool{}}
	for _, path := range failing {
		b.failing[path] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests++
		b.queries[r.URL.Path] = r.URL.RawQuery
		fail := b.failing[r.URL.Path]
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"boom"}`))
			return
		}
		switch r.URL.Path {
		case "/api/dashboard-data":
			_, _ = w.Write([]byte(`{"total_files":7}`))
		case "/api/database-stats":
			_, _ = w.Write([]byte(`{"total_transcripts":11}`))
		case "/api/transcript-kpi":
			_, _ = w.Write([]byte(`{"total_keywords_found":3}`))
		case "/api/violation-analysis":
			_, _ = w.Write([]byte(`{"violation_summary":{},"detailed_violations":[]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return b, srv
}

func newTestRefresher(t *testing.T, srv *httptest.Server, sess SessionReader, store *state.Store) *Refresher {
	t.Helper()
	client, err := api.NewClient(api.Options{Origin: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewRefresher(RefresherOptions{
		Services: service.New(client),
		Session:  sess,
		Store:    store,
		Interval: time.Hour,
	})
}

func TestRefreshCommitsEveryWidget(t *testing.T) {
	b, srv := newBackend(t)
	store := &state.Store{}
	r := newTestRefresher(t, srv, signedIn(session.User{Username: "ravi", Role: session.DivisionUser, Division: "Ajmer"}), store)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	snap := store.Snapshot()
	if snap.Dashboard == nil || snap.Dashboard.TotalFiles != 7 {
		t.Fatalf("dashboard = %+v", snap.Dashboard)
	}
	if snap.Stats == nil || snap.Stats.TotalTranscripts != 11 {
		t.Fatalf("stats = %+v", snap.Stats)
	}
	if snap.KPI == nil || snap.KPI.TotalKeywordsFound != 3 {
		t.Fatalf("kpi = %+v", snap.KPI)
	}
	if snap.Violations == nil {
		t.Fatal("violations not committed")
	}
	if len(snap.Errors) != 0 {
		t.Fatalf("errors = %v", snap.Errors)
	}
	if snap.LastUpdated.IsZero() {
		t.Fatal("LastUpdated not set")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if got := b.queries["/api/dashboard-data"]; got != "division=Ajmer" {
		t.Fatalf("dashboard query = %q, want division=Ajmer", got)
	}
	if got := b.queries["/api/transcript-kpi"]; got != "division=Ajmer" {
		t.Fatalf("kpi query = %q, want division=Ajmer", got)
	}
}

func TestRefreshSuperAdminAllDivisionsSendsNoFilter(t *testing.T) {
	b, srv := newBackend(t)
	store := &state.Store{}
	store.SetDivision(session.AllDivisions)
	r := newTestRefresher(t, srv, signedIn(session.User{Username: "root", Role: session.SuperAdmin, IsSuperAdmin: true}), store)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if got := b.queries["/api/violation-analysis"]; got != "" {
		t.Fatalf("violation query = %q, want empty", got)
	}
}

func TestRefreshFailedWidgetDoesNotBlockOthers(t *testing.T) {
	_, srv := newBackend(t, "/api/database-stats")
	store := &state.Store{}
	r := newTestRefresher(t, srv, signedIn(session.User{Username: "ravi", Division: "Ajmer"}), store)

	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	snap := store.Snapshot()
	if snap.Err(state.WidgetStats) == nil {
		t.Fatal("expected stats error")
	}
	if apiErr, ok := api.AsError(snap.Err(state.WidgetStats)); !ok || apiErr.Detail != "boom" {
		t.Fatalf("stats error = %v", snap.Err(state.WidgetStats))
	}
	if snap.Dashboard == nil || snap.KPI == nil || snap.Violations == nil {
		t.Fatalf("other widgets missing: %+v", snap)
	}
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0", snap.ConsecutiveFailures)
	}
}

func TestRefreshSkipsWithoutVerifiedSession(t *testing.T) {
	b, srv := newBackend(t)
	provisional := session.User{Username: "ravi", Division: "Ajmer"}
	cases := []fixedSession{
		{state: session.State{Phase: session.Anonymous}},
		{state: session.State{Phase: session.Restoring, User: &provisional, Loading: true, FromSnapshot: true}},
	}
	for _, sess := range cases {
		r := newTestRefresher(t, srv, sess, &state.Store{})
		if err := r.Refresh(context.Background()); err != errNotSignedIn {
			t.Fatalf("phase %v: err = %v, want errNotSignedIn", sess.state.Phase, err)
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.requests != 0 {
		t.Fatalf("requests = %d, want 0", b.requests)
	}
}

func TestRefreshDivisionUserWithoutDivision(t *testing.T) {
	_, srv := newBackend(t)
	r := newTestRefresher(t, srv, signedIn(session.User{Username: "ravi"}), &state.Store{})
	if err := r.Refresh(context.Background()); err != session.ErrNoDivision {
		t.Fatalf("err = %v, want ErrNoDivision", err)
	}
}

func TestRefreshCancelledAppliesNothing(t *testing.T) {
	_, srv := newBackend(t)
	store := &state.Store{}
	r := newTestRefresher(t, srv, signedIn(session.User{Username: "ravi", Division: "Ajmer"}), store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Refresh(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
	snap := store.Snapshot()
	if snap.Dashboard != nil || len(snap.Errors) != 0 || !snap.LastUpdated.IsZero() {
		t.Fatalf("cancelled refresh committed: %+v", snap)
	}
}

func TestTriggerCoalesces(t *testing.T) {
	_, srv := newBackend(t)
	r := newTestRefresher(t, srv, fixedSession{}, &state.Store{})
	r.Trigger()
	r.Trigger()
	if len(r.trigger) != 1 {
		t.Fatalf("pending triggers = %d, want 1", len(r.trigger))
	}
}

func TestStartRefreshesOnTrigger(t *testing.T) {
	b, srv := newBackend(t)
	store := &state.Store{}
	r := newTestRefresher(t, srv, signedIn(session.User{Username: "ravi", Division: "Ajmer"}), store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)

	waitFor := func(n int) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			b.mu.Lock()
			got := b.requests
			b.mu.Unlock()
			if got >= n {
				return
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatalf("timed out waiting for %d requests", n)
	}
	waitFor(4)
	r.Trigger()
	waitFor(8)
}

func TestCalculateBackoff(t *testing.T) {
	base := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"no failures", 0, 30 * time.Second},
		{"1 failure", 1, 60 * time.Second},
		{"2 failures", 2, 120 * time.Second},
		{"3 failures", 3, 240 * time.Second},
		{"4 failures hits max", 4, maxBackoff},
		{"many failures stays at max", 100, maxBackoff},
		{"negative treated as zero", -1, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}
