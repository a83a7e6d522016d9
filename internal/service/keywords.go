package service

import (
	"context"

	"github.com/railscope/railscope/internal/api"
)

// Keywords manages the tracked keyword list used by transcript analysis.
type Keywords struct {
	api api.Requester
}

func (s *Keywords) List(ctx context.Context, division string) (*KeywordsResponse, error) {
	var resp KeywordsResponse
	if err := s.api.Get(ctx, "/keywords", api.Params{"division": division}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Keywords) Add(ctx context.Context, req AddKeywordRequest) (*AddKeywordResponse, error) {
	var resp AddKeywordResponse
	if err := s.api.Post(ctx, "/keywords/add", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Keywords) Update(ctx context.Context, req UpdateKeywordRequest) (*SuccessResponse, error) {
	var resp SuccessResponse
	if err := s.api.Post(ctx, "/keywords/update", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
