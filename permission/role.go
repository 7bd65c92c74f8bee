package permission

import (
	"errors"
	"fmt"
)

// Role is a privilege level. The zero value is Unknown and never satisfies
// any check.
type Role uint8

const (
	Unknown Role = iota
	User
	Admin
	SuperAdmin
)

// ErrUnknownRole is returned when a role name does not match the enumeration.
var ErrUnknownRole = errors.New("unknown role")

var roleNames = [...]string{
	Unknown:    "",
	User:       "user",
	Admin:      "admin",
	SuperAdmin: "super_admin",
}

// ParseRole maps a wire name to a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	for i := User; i <= SuperAdmin; i++ {
		if roleNames[i] == s {
			return i, nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// String returns the wire name of the role.
func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return ""
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r >= User && r <= SuperAdmin
}

// AtLeast reports whether r has at least the privilege of min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && min.Valid() && r >= min
}

// CanManage reports whether an account with role r may act on an account
// with role target. super_admin manages anyone, admin manages only plain
// users, user manages no one.
func (r Role) CanManage(target Role) bool {
	if !r.Valid() || !target.Valid() {
		return false
	}
	switch r {
	case SuperAdmin:
		return true
	case Admin:
		return target == User
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
