package service

import (
	"context"

	"github.com/railscope/railscope/internal/api"
)

// FileCountsFilter filters GET /admin/file-counts-summary.
type FileCountsFilter struct {
	Division  string
	StartDate string
	EndDate   string
}

func (p FileCountsFilter) Params() api.Params {
	return api.Params{
		"division":   p.Division,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
	}
}

// Admin exposes ingestion and sync operations. Most calls require an admin
// session; the backend enforces that.
type Admin struct {
	api api.Requester
}

func (s *Admin) FileCounts(ctx context.Context, p FileCountsFilter) (*FileCountsResponse, error) {
	var resp FileCountsResponse
	if err := s.api.Get(ctx, "/admin/file-counts-summary", p.Params(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Admin) RealTimeCounts(ctx context.Context) (*RealTimeFileCountsResponse, error) {
	var resp RealTimeFileCountsResponse
	if err := s.api.Get(ctx, "/admin/real-time-file-counts", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SyncS3 copies objects into the database. An empty division syncs all.
func (s *Admin) SyncS3(ctx context.Context, division string) (*SyncResponse, error) {
	var resp SyncResponse
	if err := s.api.Post(ctx, "/sync-s3-to-database", SyncRequest{Division: division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Admin) StartAutoSync(ctx context.Context) (*SuccessResponse, error) {
	return s.command(ctx, "/auto-sync/start")
}

func (s *Admin) StopAutoSync(ctx context.Context) (*SuccessResponse, error) {
	return s.command(ctx, "/auto-sync/stop")
}

func (s *Admin) AutoSyncStatus(ctx context.Context) (*AutoSyncStatusResponse, error) {
	var resp AutoSyncStatusResponse
	if err := s.api.Get(ctx, "/auto-sync/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// InitializeDatabase creates backend tables. Safe to repeat.
func (s *Admin) InitializeDatabase(ctx context.Context) (*SuccessResponse, error) {
	return s.command(ctx, "/initialize-database")
}

func (s *Admin) IngestionStatus(ctx context.Context) (*IngestionStatusResponse, error) {
	var resp IngestionStatusResponse
	if err := s.api.Get(ctx, "/ingestion/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Admin) command(ctx context.Context, path string) (*SuccessResponse, error) {
	var resp SuccessResponse
	if err := s.api.Post(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
