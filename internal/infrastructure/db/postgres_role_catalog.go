package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"commerce-role-sync/internal/domain/ports/repository"
)

// Ensure interface compliance:
var _ repository.RoleCatalog = (*PostgresRoleCatalog)(nil)

// PostgresRoleCatalog reads the site's defined roles.
type PostgresRoleCatalog struct {
	pool *pgxpool.Pool
}

func NewPostgresRoleCatalog(pool *pgxpool.Pool) *PostgresRoleCatalog {
	return &PostgresRoleCatalog{pool: pool}
}

func (r *PostgresRoleCatalog) Exists(ctx context.Context, slug string) (bool, error) {
	const sql = `SELECT EXISTS (SELECT 1 FROM roles WHERE slug = $1);`
	var exists bool
	if err := r.pool.QueryRow(ctx, sql, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("Exists role: %w", err)
	}
	return exists, nil
}

func (r *PostgresRoleCatalog) List(ctx context.Context) (map[string]string, error) {
	const sql = `SELECT slug, display_name FROM roles ORDER BY slug;`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("List roles: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var slug, name string
		if err := rows.Scan(&slug, &name); err != nil {
			return nil, err
		}
		out[slug] = name
	}
	return out, rows.Err()
}
