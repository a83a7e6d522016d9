package state

import (
	"errors"
	"testing"
	"time"

	"github.com/railscope/railscope/internal/service"
)

func TestStore_CommitAndSnapshotCopy(t *testing.T) {
	var s Store

	before := time.Now()
	s.Commit(Batch{
		Dashboard: &service.DashboardDataResponse{TotalFiles: 3},
		Stats:     &service.DatabaseStatsResponse{TotalTranscripts: 10},
		Errors:    map[Widget]error{WidgetKPI: errors.New("kpi down")},
	})

	snap := s.Snapshot()
	if snap.Dashboard == nil || snap.Dashboard.TotalFiles != 3 {
		t.Fatalf("dashboard = %#v, want total_files=3", snap.Dashboard)
	}
	if snap.Stats == nil || snap.Stats.TotalTranscripts != 10 {
		t.Fatalf("stats = %#v, want total_transcripts=10", snap.Stats)
	}
	if snap.Err(WidgetKPI) == nil {
		t.Fatalf("kpi error not recorded")
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.ConsecutiveFailures != 0 {
		t.Fatalf("ConsecutiveFailures = %d, want 0 after partial success", snap.ConsecutiveFailures)
	}

	// Returned error map should be independent of the stored one.
	delete(snap.Errors, WidgetKPI)
	if s.Snapshot().Err(WidgetKPI) == nil {
		t.Fatalf("Snapshot should clone errors")
	}
}

func TestStore_FailedWidgetKeepsPreviousData(t *testing.T) {
	var s Store
	s.Commit(Batch{Stats: &service.DatabaseStatsResponse{TotalFiles: 5}})

	s.Commit(Batch{Errors: map[Widget]error{WidgetStats: errors.New("boom")}})

	snap := s.Snapshot()
	if snap.Stats == nil || snap.Stats.TotalFiles != 5 {
		t.Fatalf("stats changed on error: %#v", snap.Stats)
	}
	if snap.Err(WidgetStats) == nil {
		t.Fatalf("stats error not recorded")
	}

	s.Commit(Batch{Stats: &service.DatabaseStatsResponse{TotalFiles: 6}})
	snap = s.Snapshot()
	if snap.Err(WidgetStats) != nil {
		t.Fatalf("stats error should clear on success, got %v", snap.Err(WidgetStats))
	}
	if snap.Errors != nil {
		t.Fatalf("Errors = %#v, want nil", snap.Errors)
	}
}

func TestStore_OfflineAfterRepeatedTotalFailure(t *testing.T) {
	var s Store
	all := map[Widget]error{}
	for _, w := range Widgets {
		all[w] = errors.New("unreachable")
	}

	s.Commit(Batch{Errors: all})
	if s.Snapshot().IsOffline() {
		t.Fatalf("offline after a single failure")
	}
	s.Commit(Batch{Errors: all})
	if !s.Snapshot().IsOffline() {
		t.Fatalf("expected offline after two total failures")
	}
	s.Commit(Batch{Dashboard: &service.DashboardDataResponse{}})
	if s.Snapshot().IsOffline() {
		t.Fatalf("expected recovery after a success")
	}
}

func TestStore_DivisionChangeDropsData(t *testing.T) {
	var s Store
	s.Commit(Batch{Dashboard: &service.DashboardDataResponse{TotalFiles: 1}})

	s.SetDivision("Ajmer")
	snap := s.Snapshot()
	if snap.Dashboard != nil || snap.Division != "Ajmer" {
		t.Fatalf("snapshot = %#v, want empty Ajmer snapshot", snap)
	}

	// A batch fetched for the old filter is ignored.
	s.Commit(Batch{Division: "", Dashboard: &service.DashboardDataResponse{TotalFiles: 2}})
	if s.Snapshot().Dashboard != nil {
		t.Fatalf("stale batch applied")
	}

	s.Commit(Batch{Division: "Ajmer", Dashboard: &service.DashboardDataResponse{TotalFiles: 3}})
	if got := s.Snapshot().Dashboard; got == nil || got.TotalFiles != 3 {
		t.Fatalf("dashboard = %#v, want total_files=3", got)
	}
}

func TestStore_Reset(t *testing.T) {
	var s Store
	s.SetDivision("Ajmer")
	s.Commit(Batch{Division: "Ajmer", KPI: &service.TranscriptKPIResponse{TotalFiles: 1}})
	s.Reset()
	snap := s.Snapshot()
	if snap.KPI != nil || snap.Division != "" || !snap.LastUpdated.IsZero() {
		t.Fatalf("Reset left data behind: %#v", snap)
	}
}
