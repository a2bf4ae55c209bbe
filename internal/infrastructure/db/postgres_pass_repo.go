package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
)

// Ensure interface compliance:
var _ repository.AccessPassRepository = (*PostgresPassRepo)(nil)

type PostgresPassRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPassRepo(pool *pgxpool.Pool) *PostgresPassRepo {
	return &PostgresPassRepo{pool: pool}
}

const passColumns = `id, user_id, product_id, payment_id, status, created_at, COALESCE(expires_at, 'epoch'::timestamptz)`

func scanPass(row pgx.Row) (*model.AccessPass, error) {
	var p model.AccessPass
	if err := row.Scan(&p.ID, &p.UserID, &p.ProductID, &p.PaymentID, &p.Status, &p.CreatedAt, &p.ExpiresAt); err != nil {
		return nil, err
	}
	// epoch sentinel means the pass never expires
	if p.ExpiresAt.Unix() == 0 {
		p.ExpiresAt = time.Time{}
	}
	return &p, nil
}

func (r *PostgresPassRepo) FindByID(ctx context.Context, id int64) (*model.AccessPass, error) {
	sql := `SELECT ` + passColumns + ` FROM access_passes WHERE id = $1;`
	p, err := scanPass(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID pass: %w", err)
	}
	return p, nil
}

func (r *PostgresPassRepo) UserHasActivePass(ctx context.Context, userID, productID int64) (bool, error) {
	const sql = `
SELECT EXISTS (
  SELECT 1 FROM access_passes
   WHERE user_id = $1 AND product_id = $2 AND status = 'active'
);`
	var has bool
	if err := r.pool.QueryRow(ctx, sql, userID, productID).Scan(&has); err != nil {
		return false, fmt.Errorf("UserHasActivePass: %w", err)
	}
	return has, nil
}

func (r *PostgresPassRepo) FindActiveByUserAndProduct(ctx context.Context, userID, productID int64) ([]*model.AccessPass, error) {
	sql := `
SELECT ` + passColumns + `
  FROM access_passes
 WHERE user_id = $1 AND product_id = $2 AND status = 'active'
 ORDER BY id;
`
	rows, err := r.pool.Query(ctx, sql, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("FindActiveByUserAndProduct: %w", err)
	}
	defer rows.Close()

	var out []*model.AccessPass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPassRepo) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*model.AccessPass, error) {
	sql := `
SELECT ` + passColumns + `
  FROM access_passes
 WHERE status = 'active' AND expires_at IS NOT NULL AND expires_at < $1
 ORDER BY expires_at
 LIMIT $2;
`
	rows, err := r.pool.Query(ctx, sql, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("FindOverdue passes: %w", err)
	}
	defer rows.Close()

	var out []*model.AccessPass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresPassRepo) MarkExpired(ctx context.Context, id int64) error {
	const sql = `UPDATE access_passes SET status = 'expired' WHERE id = $1 AND status = 'active';`
	if _, err := r.pool.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("MarkExpired pass: %w", err)
	}
	return nil
}

func (r *PostgresPassRepo) Save(ctx context.Context, p *model.AccessPass) error {
	const sql = `
INSERT INTO access_passes (id, user_id, product_id, payment_id, status, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6, NULLIF($7, 'epoch'::timestamptz))
ON CONFLICT (id) DO UPDATE
  SET status     = EXCLUDED.status,
      expires_at = EXCLUDED.expires_at;
`
	expires := p.ExpiresAt
	if expires.IsZero() {
		expires = time.Unix(0, 0).UTC()
	}
	if _, err := r.pool.Exec(ctx, sql, p.ID, p.UserID, p.ProductID, p.PaymentID, p.Status, p.CreatedAt, expires); err != nil {
		return fmt.Errorf("Save pass: %w", err)
	}
	return nil
}
