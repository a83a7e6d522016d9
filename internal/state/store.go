package state

import (
	"sync"
	"time"

	"github.com/railscope/railscope/internal/service"
)

// Widget names one independently fetched dashboard panel.
type Widget string

const (
	WidgetDashboard  Widget = "dashboard"
	WidgetStats      Widget = "stats"
	WidgetKPI        Widget = "kpi"
	WidgetViolations Widget = "violations"
)

// Widgets lists every panel in display order.
var Widgets = []Widget{WidgetDashboard, WidgetStats, WidgetKPI, WidgetViolations}

// Batch is the outcome of one refresh. A nil value with a nil error means
// the widget was not fetched.
type Batch struct {
	Division   string
	Dashboard  *service.DashboardDataResponse
	Stats      *service.DatabaseStatsResponse
	KPI        *service.TranscriptKPIResponse
	Violations *service.ViolationAnalysisResponse
	Errors     map[Widget]error
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Division            string // requested filter; "" is every permitted division
	Dashboard           *service.DashboardDataResponse
	Stats               *service.DatabaseStatsResponse
	KPI                 *service.TranscriptKPIResponse
	Violations          *service.ViolationAnalysisResponse
	Errors              map[Widget]error
	LastUpdated         time.Time
	ConsecutiveFailures int // refreshes in a row where every widget failed
}

// IsOffline returns true when the backend has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Err returns the last error recorded for w.
func (s Snapshot) Err(w Widget) error {
	return s.Errors[w]
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Commit applies a refresh. A widget that failed keeps its previous data and
// records the error; a widget that succeeded clears its error.
func (s *Store) Commit(b Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Division != s.snapshot.Division {
		// Fetched for a filter that is no longer selected.
		return
	}

	errs := make(map[Widget]error, len(s.snapshot.Errors))
	for w, err := range s.snapshot.Errors {
		errs[w] = err
	}
	failed := 0
	apply := func(w Widget, ok bool) {
		if err := b.Errors[w]; err != nil {
			errs[w] = err
			failed++
			return
		}
		if ok {
			delete(errs, w)
		}
	}

	apply(WidgetDashboard, b.Dashboard != nil)
	if b.Dashboard != nil {
		s.snapshot.Dashboard = b.Dashboard
	}
	apply(WidgetStats, b.Stats != nil)
	if b.Stats != nil {
		s.snapshot.Stats = b.Stats
	}
	apply(WidgetKPI, b.KPI != nil)
	if b.KPI != nil {
		s.snapshot.KPI = b.KPI
	}
	apply(WidgetViolations, b.Violations != nil)
	if b.Violations != nil {
		s.snapshot.Violations = b.Violations
	}

	if len(errs) == 0 {
		errs = nil
	}
	s.snapshot.Errors = errs
	s.snapshot.LastUpdated = time.Now()
	if failed == len(Widgets) {
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.ConsecutiveFailures = 0
	}
}

// SetDivision changes the requested filter and drops data fetched for the
// previous one.
func (s *Store) SetDivision(division string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if division == s.snapshot.Division {
		return
	}
	s.snapshot = Snapshot{Division: division}
}

// Reset forgets all data, keeping nothing from the previous session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{}
}

// Snapshot returns a copy of the current snapshot. Response values are
// shared and must be treated as read-only.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.Errors != nil {
		snap.Errors = make(map[Widget]error, len(s.snapshot.Errors))
		for w, err := range s.snapshot.Errors {
			snap.Errors[w] = err
		}
	}
	return snap
}
