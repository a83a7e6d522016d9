package service

import (
	"context"
	"errors"

	"github.com/railscope/railscope/internal/api"
)

// Authenticator is the slice of Auth the session manager depends on.
type Authenticator interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*UserInfo, error)
}

var _ Authenticator = (*Auth)(nil)

// Auth covers session creation, teardown and identity.
type Auth struct {
	api api.Requester
}

// NewAuth returns an Auth service over r.
func NewAuth(r api.Requester) *Auth {
	return &Auth{api: r}
}

// Login authenticates and lets the backend set the session cookie.
func (s *Auth) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := s.api.Post(ctx, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout invalidates the backend session.
func (s *Auth) Logout(ctx context.Context) error {
	var resp SuccessResponse
	return s.api.Post(ctx, "/logout", nil, &resp)
}

// ErrNoUserRecord means /me succeeded without describing a user: a null
// body, 204, or a record with no username.
var ErrNoUserRecord = errors.New("no user record")

// CurrentUser returns the record for the session cookie in use.
func (s *Auth) CurrentUser(ctx context.Context) (*UserInfo, error) {
	var info *UserInfo
	if err := s.api.Get(ctx, "/me", nil, &info); err != nil {
		return nil, err
	}
	if info == nil || info.Username == "" {
		return nil, &api.DecodeError{Path: "/me", Err: ErrNoUserRecord}
	}
	return info, nil
}
