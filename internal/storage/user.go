package storage

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Role string

const (
	RoleOperator   Role = "operator"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

func Roles() []Role {
	return []Role{RoleOperator, RoleSupervisor, RoleAdmin}
}

func (r Role) Known() bool {
	for _, known := range Roles() {
		if r == known {
			return true
		}
	}
	return false
}

// Account is the credential side of a principal.
type Account struct {
	UID          string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// User is the profile that carries authorization. Role is free text in the
// table; the application only knows the three Roles.
type User struct {
	UID    string `json:"uid"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}
