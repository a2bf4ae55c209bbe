package repository

import (
	"context"

	"commerce-role-sync/internal/domain/model"
)

// -----------------------------
// Users and roles
// -----------------------------

type UserRepository interface {
	FindByID(ctx context.Context, tx Tx, id int64) (*model.User, error)
	// AddRole and RemoveRole are idempotent: repeating either with the same
	// arguments leaves the role set unchanged.
	AddRole(ctx context.Context, tx Tx, userID int64, role string) error
	RemoveRole(ctx context.Context, tx Tx, userID int64, role string) error
	Save(ctx context.Context, tx Tx, u *model.User) error
}

// RoleCatalog lists the roles defined on the host site.
type RoleCatalog interface {
	Exists(ctx context.Context, slug string) (bool, error)
	// List returns slug -> display name for every defined role.
	List(ctx context.Context) (map[string]string, error)
}
