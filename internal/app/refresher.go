package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/railscope/railscope/internal/logging"
	"github.com/railscope/railscope/internal/service"
	"github.com/railscope/railscope/internal/session"
	"github.com/railscope/railscope/internal/state"
)

const (
	defaultRefreshInterval = 30 * time.Second
	maxBackoff             = 5 * time.Minute
)

// errNotSignedIn is returned by Refresh while no verified session exists.
var errNotSignedIn = errors.New("refresh skipped: not signed in")

// SessionReader is the read-only view of the session the refresher needs.
type SessionReader interface {
	State() session.State
}

// RefresherOptions configure a Refresher.
type RefresherOptions struct {
	Services *service.Set
	Session  SessionReader
	Store    *state.Store
	Interval time.Duration
	Logger   *slog.Logger
}

// Refresher reloads the dashboard widgets on a fixed cadence.
type Refresher struct {
	dashboard   *service.Dashboard
	transcripts *service.Transcripts
	session     SessionReader
	store       *state.Store
	interval    time.Duration
	logger      *slog.Logger
	trigger     chan struct{}
}

// NewRefresher builds a refresher. It does nothing until Start or Refresh.
func NewRefresher(opts RefresherOptions) *Refresher {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Refresher{
		dashboard:   opts.Services.Dashboard,
		transcripts: opts.Services.Transcripts,
		session:     opts.Session,
		store:       opts.Store,
		interval:    interval,
		logger:      logger,
		trigger:     make(chan struct{}, 1),
	}
}

// Start launches a background goroutine that refreshes the store until ctx
// ends. It returns immediately.
func (r *Refresher) Start(ctx context.Context) {
	go func() {
		for {
			if err := r.Refresh(ctx); err != nil && !errors.Is(err, errNotSignedIn) && ctx.Err() == nil {
				r.logger.Warn("dashboard refresh failed", "error", err)
			}
			wait := calculateBackoff(r.store.Snapshot().ConsecutiveFailures, r.interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-r.trigger:
				timer.Stop()
			case <-timer.C:
			}
		}
	}()
}

// Trigger asks the running loop to refresh now. Extra triggers coalesce.
func (r *Refresher) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Refresh fetches every widget concurrently and commits the results in one
// step. Nothing is committed when ctx ends first.
func (r *Refresher) Refresh(ctx context.Context) error {
	st := r.session.State()
	if st.Phase != session.Authenticated || st.User == nil {
		return errNotSignedIn
	}
	requested := r.store.Snapshot().Division
	division, err := session.EffectiveDivisionFilter(st.User, requested)
	if err != nil {
		return err
	}

	batch := state.Batch{Division: requested, Errors: map[state.Widget]error{}}
	var mu sync.Mutex
	record := func(w state.Widget, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		batch.Errors[w] = err
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(len(state.Widgets))
	g.Go(func() error {
		resp, err := r.dashboard.Data(ctx, service.DashboardFilter{Division: division})
		record(state.WidgetDashboard, err)
		mu.Lock()
		batch.Dashboard = resp
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		resp, err := r.dashboard.Stats(ctx)
		record(state.WidgetStats, err)
		mu.Lock()
		batch.Stats = resp
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		resp, err := r.transcripts.KPI(ctx, service.KPIFilter{Division: division})
		record(state.WidgetKPI, err)
		mu.Lock()
		batch.KPI = resp
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		resp, err := r.transcripts.Violations(ctx, service.ViolationFilter{Division: division})
		record(state.WidgetViolations, err)
		mu.Lock()
		batch.Violations = resp
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.Commit(batch)
	r.logger.Debug("dashboard refreshed", "division", division, "failed_widgets", len(batch.Errors))
	return nil
}

// calculateBackoff doubles the interval for each consecutive total failure,
// capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
