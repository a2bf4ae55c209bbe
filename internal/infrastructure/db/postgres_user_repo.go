package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
)

// Ensure interface compliance:
var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.User, error) {
	q := pick(r.pool, tx)
	const sql = `
SELECT id, email, display_name, registered_at
  FROM users
 WHERE id = $1;
`
	var u model.User
	if err := q.QueryRow(ctx, sql, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.RegisteredAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID user: %w", err)
	}

	const rolesSQL = `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role;`
	rows, err := q.Query(ctx, rolesSQL, id)
	if err != nil {
		return nil, fmt.Errorf("load roles for user %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		u.Roles = append(u.Roles, role)
	}
	return &u, rows.Err()
}

// AddRole is idempotent: re-adding a held role is a no-op at the SQL level.
func (r *PostgresUserRepo) AddRole(ctx context.Context, tx repository.Tx, userID int64, role string) error {
	q := pick(r.pool, tx)
	const sql = `
INSERT INTO user_roles (user_id, role, granted_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id, role) DO NOTHING;
`
	if _, err := q.Exec(ctx, sql, userID, role); err != nil {
		return fmt.Errorf("AddRole: %w", err)
	}
	return nil
}

// RemoveRole is idempotent: removing an absent role is a no-op.
func (r *PostgresUserRepo) RemoveRole(ctx context.Context, tx repository.Tx, userID int64, role string) error {
	q := pick(r.pool, tx)
	const sql = `DELETE FROM user_roles WHERE user_id = $1 AND role = $2;`
	if _, err := q.Exec(ctx, sql, userID, role); err != nil {
		return fmt.Errorf("RemoveRole: %w", err)
	}
	return nil
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	q := pick(r.pool, tx)
	const sql = `
INSERT INTO users (id, email, display_name, registered_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE
  SET email        = EXCLUDED.email,
      display_name = EXCLUDED.display_name;
`
	if _, err := q.Exec(ctx, sql, u.ID, u.Email, u.DisplayName, u.RegisteredAt); err != nil {
		return fmt.Errorf("Save user: %w", err)
	}
	for _, role := range u.Roles {
		if err := r.AddRole(ctx, tx, u.ID, role); err != nil {
			return err
		}
	}
	return nil
}
