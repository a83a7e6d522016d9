package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/railscope/railscope/internal/service"
)

// User is the signed-in identity as the rest of the program sees it.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Division     string `json:"division"`
	IsAdmin      bool   `json:"is_admin"`
	IsSuperAdmin bool   `json:"is_super_admin"`
	LastLoggedIn string `json:"last_loggedin,omitempty"`
}

// FromUserInfo maps a /me record. A null division becomes "".
func FromUserInfo(info service.UserInfo) User {
	user := User{
		ID:           info.ID,
		Username:     info.Username,
		Role:         DeriveRole(info.IsAdmin, info.IsSuperAdmin),
		IsAdmin:      info.IsAdmin,
		IsSuperAdmin: info.IsSuperAdmin,
	}
	if info.Division != nil {
		user.Division = *info.Division
	}
	if info.LastLoggedIn != nil {
		user.LastLoggedIn = *info.LastLoggedIn
	}
	return user
}

// SnapshotKey is the local storage key holding the last verified user.
const SnapshotKey = "auth_user"

// Storage is the local key/value store the snapshot lives in.
type Storage interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

var errEmptySnapshot = errors.New("empty snapshot")

func decodeSnapshot(raw string) (*User, error) {
	var user *User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	if user == nil || user.Username == "" {
		return nil, errEmptySnapshot
	}
	// The role is always recomputed from the flags.
	user.Role = DeriveRole(user.IsAdmin, user.IsSuperAdmin)
	return user, nil
}

func encodeSnapshot(user User) (string, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(raw), nil
}
