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
var _ repository.SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)

type PostgresSubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionRepo(pool *pgxpool.Pool) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{pool: pool}
}

const subscriptionColumns = `id, user_id, product_id, payment_id, status, created_at, expires_at`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var s model.Subscription
	if err := row.Scan(&s.ID, &s.UserID, &s.ProductID, &s.PaymentID, &s.Status, &s.CreatedAt, &s.ExpiresAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSubscriptionRepo) FindByID(ctx context.Context, id int64) (*model.Subscription, error) {
	sql := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1;`
	s, err := scanSubscription(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID subscription: %w", err)
	}
	return s, nil
}

func (r *PostgresSubscriptionRepo) FindActiveByUser(ctx context.Context, userID int64) ([]*model.Subscription, error) {
	sql := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = $1 AND status = 'active' ORDER BY id;`
	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("FindActiveByUser: %w", err)
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresSubscriptionRepo) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*model.Subscription, error) {
	sql := `
SELECT ` + subscriptionColumns + `
  FROM subscriptions
 WHERE status = 'active' AND expires_at < $1
 ORDER BY expires_at
 LIMIT $2;
`
	rows, err := r.pool.Query(ctx, sql, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("FindOverdue subscriptions: %w", err)
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresSubscriptionRepo) MarkExpired(ctx context.Context, id int64) error {
	const sql = `UPDATE subscriptions SET status = 'expired' WHERE id = $1 AND status = 'active';`
	if _, err := r.pool.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("MarkExpired subscription: %w", err)
	}
	return nil
}

func (r *PostgresSubscriptionRepo) Save(ctx context.Context, s *model.Subscription) error {
	const sql = `
INSERT INTO subscriptions (id, user_id, product_id, payment_id, status, created_at, expires_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE
  SET status     = EXCLUDED.status,
      expires_at = EXCLUDED.expires_at;
`
	if _, err := r.pool.Exec(ctx, sql, s.ID, s.UserID, s.ProductID, s.PaymentID, s.Status, s.CreatedAt, s.ExpiresAt); err != nil {
		return fmt.Errorf("Save subscription: %w", err)
	}
	return nil
}
