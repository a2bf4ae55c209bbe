package model

import (
	"time"

	"commerce-role-sync/internal/domain"
)

// User mirrors the host account record this service mutates. Roles is the
// full set held by the account; role sync only ever adds or removes single
// entries, never replaces the set.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	Roles        []string
	RegisteredAt time.Time
}

func NewUser(id int64, email, displayName string) (*User, error) {
	if id <= 0 || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &User{
		ID:           id,
		Email:        email,
		DisplayName:  displayName,
		Roles:        []string{DefaultRole},
		RegisteredAt: time.Now(),
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID <= 0 }

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
