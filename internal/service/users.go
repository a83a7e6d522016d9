package service

import (
	"context"
	"fmt"

	"github.com/railscope/railscope/internal/api"
)

// Users is super-admin account management.
type Users struct {
	api api.Requester
}

// List returns the basic user listing.
func (s *Users) List(ctx context.Context) (*UsersListResponse, error) {
	var resp UsersListResponse
	if err := s.api.Get(ctx, "/list-users", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Detailed returns the listing with creation and login timestamps.
func (s *Users) Detailed(ctx context.Context) (*UsersListResponse, error) {
	var resp UsersListResponse
	if err := s.api.Get(ctx, "/users", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Users) Create(ctx context.Context, req CreateUserRequest) (*CreateUserResponse, error) {
	var resp CreateUserResponse
	if err := s.api.Post(ctx, "/create-user", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Users) Delete(ctx context.Context, userID int64) (*SuccessResponse, error) {
	var resp SuccessResponse
	if err := s.api.Delete(ctx, fmt.Sprintf("/delete-user/%d", userID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
