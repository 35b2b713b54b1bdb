package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role is the access tier of a user. It is stored as text in the
// users table and embedded in session tokens; parsing is strict, a
// string outside the three known values is an error rather than a
// silent downgrade to Guest.
type Role int

const (
	RoleGuest Role = iota
	RoleUser
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	case RoleGuest:
		return "guest"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "user":
		return RoleUser, nil
	case "guest":
		return RoleGuest, nil
	default:
		return RoleGuest, fmt.Errorf("unknown role %q", s)
	}
}

// Value / Scan implement the sql interfaces so gorm round-trips the
// role through its canonical text form.
func (r Role) Value() (driver.Value, error) {
	return r.String(), nil
}

func (r *Role) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		role, err := ParseRole(v)
		if err != nil {
			return err
		}
		*r = role
		return nil
	case []byte:
		role, err := ParseRole(string(v))
		if err != nil {
			return err
		}
		*r = role
		return nil
	default:
		return fmt.Errorf("cannot scan role from %T", value)
	}
}

func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}
