package service

import (
	"context"

	"github.com/railscope/railscope/internal/api"
)

// TranscriptSearch filters GET /transcripts/search. Empty strings and nil
// pointers are not sent.
type TranscriptSearch struct {
	Keyword   string
	Division  string
	LocoPilot string
	DateFrom  string
	DateTo    string
	Page      *int
	Limit     *int
}

func (p TranscriptSearch) Params() api.Params {
	return api.Params{
		"keyword":    p.Keyword,
		"division":   p.Division,
		"loco_pilot": p.LocoPilot,
		"date_from":  p.DateFrom,
		"date_to":    p.DateTo,
		"page":       p.Page,
		"limit":      p.Limit,
	}
}

// KPIFilter filters GET /transcript-kpi.
type KPIFilter struct {
	Division  string
	StartDate string
	EndDate   string
	LocoPilot string
	Section   string
}

func (p KPIFilter) Params() api.Params {
	return api.Params{
		"division":   p.Division,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
		"loco_pilot": p.LocoPilot,
		"section":    p.Section,
	}
}

// ViolationFilter filters GET /violation-analysis.
type ViolationFilter struct {
	Division  string
	Keyword   string
	StartDate string
	EndDate   string
}

func (p ViolationFilter) Params() api.Params {
	return api.Params{
		"division":   p.Division,
		"keyword":    p.Keyword,
		"start_date": p.StartDate,
		"end_date":   p.EndDate,
	}
}

// Transcripts is keyword search and analytics over transcribed audio.
type Transcripts struct {
	api api.Requester
}

func (s *Transcripts) Search(ctx context.Context, p TranscriptSearch) (*TranscriptSearchResponse, error) {
	var resp TranscriptSearchResponse
	if err := s.api.Get(ctx, "/transcripts/search", p.Params(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Transcripts) KPI(ctx context.Context, p KPIFilter) (*TranscriptKPIResponse, error) {
	var resp TranscriptKPIResponse
	if err := s.api.Get(ctx, "/transcript-kpi", p.Params(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Transcripts) Violations(ctx context.Context, p ViolationFilter) (*ViolationAnalysisResponse, error) {
	var resp ViolationAnalysisResponse
	if err := s.api.Get(ctx, "/violation-analysis", p.Params(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
