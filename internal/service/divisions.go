package service

import (
	"context"
	"fmt"

	"github.com/railscope/railscope/internal/api"
)

// Divisions manages the organisational partitions that scope data access.
type Divisions struct {
	api api.Requester
}

func (s *Divisions) List(ctx context.Context) (*DivisionListResponse, error) {
	var resp DivisionListResponse
	if err := s.api.Get(ctx, "/list-divisions", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Divisions) Create(ctx context.Context, req CreateDivisionRequest) (*CreateDivisionResponse, error) {
	var resp CreateDivisionResponse
	if err := s.api.Post(ctx, "/create-division", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Divisions) Delete(ctx context.Context, divisionID int64) (*SuccessResponse, error) {
	var resp SuccessResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/delete-division/%d", divisionID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
