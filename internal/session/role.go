package session

import (
	"errors"
	"fmt"
)

// Role is the access level derived from the backend's admin flags.
type Role int

const (
	DivisionUser Role = iota
	Admin
	SuperAdmin
)

// AllDivisions is the selector value meaning "no division filter".
const AllDivisions = "All Divisions"

var (
	// ErrNoDivision is returned when a division-scoped user has no division
	// on record. Querying without a filter would widen their access.
	ErrNoDivision = errors.New("user has no division assigned")
	// ErrAnonymous is returned when a division filter is requested without a
	// signed-in user.
	ErrAnonymous = errors.New("not signed in")
)

// DeriveRole maps the two flags to exactly one role. Super admin wins.
func DeriveRole(isAdmin, isSuperAdmin bool) Role {
	switch {
	case isSuperAdmin:
		return SuperAdmin
	case isAdmin:
		return Admin
	default:
		return DivisionUser
	}
}

func (r Role) String() string {
	switch r {
	case SuperAdmin:
		return "Super Admin"
	case Admin:
		return "Admin"
	case DivisionUser:
		return "Division User"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// MarshalText encodes the display name.
func (r Role) MarshalText() ([]byte, error) {
	switch r {
	case DivisionUser, Admin, SuperAdmin:
		return []byte(r.String()), nil
	default:
		return nil, fmt.Errorf("unknown role %d", int(r))
	}
}

// UnmarshalText accepts the display names produced by MarshalText.
func (r *Role) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Super Admin":
		*r = SuperAdmin
	case "Admin":
		*r = Admin
	case "Division User":
		*r = DivisionUser
	default:
		return fmt.Errorf("unknown role %q", string(text))
	}
	return nil
}

// CanAccessAllDivisions reports whether role may query across divisions.
func CanAccessAllDivisions(role Role) bool {
	switch role {
	case SuperAdmin:
		return true
	case Admin, DivisionUser:
		return false
	default:
		return false
	}
}

// EffectiveDivisionFilter returns the division to send on a scoped query.
// Super admins get what they asked for, with "" meaning unrestricted. Everyone
// else is pinned to their own division regardless of the request.
func EffectiveDivisionFilter(user *User, requested string) (string, error) {
	if user == nil {
		return "", ErrAnonymous
	}
	if CanAccessAllDivisions(user.Role) {
		if requested == AllDivisions {
			return "", nil
		}
		return requested, nil
	}
	if user.Division == "" {
		return "", ErrNoDivision
	}
	return user.Division, nil
}
