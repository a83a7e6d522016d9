package service

import (
	"context"

	"github.com/railscope/railscope/internal/api"
)

// DashboardFilter filters GET /dashboard-data.
type DashboardFilter struct {
	Division  string
	StartDate string
	EndDate   string
	LocoPilot string
}

func (p DashboardFilter) Params() api.Params {
	return api.Params{
		"division":   p.Division,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"loco_pilot": p.LocoPilot,
	}
}

// Dashboard serves the aggregate analytics widgets.
type Dashboard struct {
	api api.Requester
}

func (s *Dashboard) Data(ctx context.Context, p DashboardFilter) (*DashboardDataResponse, error) {
	var resp DashboardDataResponse
	if err := s.api.Get(ctx, "/dashboard-data", p.Params(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Dashboard) Stats(ctx context.Context) (*DatabaseStatsResponse, error) {
	var resp DatabaseStatsResponse
	if err := s.api.Get(ctx, "/database-stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
