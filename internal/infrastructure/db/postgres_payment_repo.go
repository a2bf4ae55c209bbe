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
var _ repository.PaymentRepository = (*PostgresPaymentRepo)(nil)

type PostgresPaymentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPaymentRepo(pool *pgxpool.Pool) *PostgresPaymentRepo {
	return &PostgresPaymentRepo{pool: pool}
}

func (r *PostgresPaymentRepo) FindByID(ctx context.Context, id int64) (*model.Payment, error) {
	const sql = `
SELECT id, user_id, status, total_cents, created_at
  FROM payments
 WHERE id = $1;
`
	var p model.Payment
	if err := r.pool.QueryRow(ctx, sql, id).Scan(&p.ID, &p.UserID, &p.Status, &p.TotalCents, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID payment: %w", err)
	}

	const itemsSQL = `
SELECT product_id, price_id, amount_cents
  FROM payment_items
 WHERE payment_id = $1
 ORDER BY product_id;
`
	rows, err := r.pool.Query(ctx, itemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("load cart items for payment %d: %w", id, err)
	}
	defer rows.Close()
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ProductID, &it.PriceID, &it.AmountCents); err != nil {
			return nil, err
		}
		p.CartItems = append(p.CartItems, it)
	}
	return &p, rows.Err()
}

func (r *PostgresPaymentRepo) Save(ctx context.Context, p *model.Payment) error {
	const sql = `
INSERT INTO payments (id, user_id, status, total_cents, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE
  SET status = EXCLUDED.status;
`
	if _, err := r.pool.Exec(ctx, sql, p.ID, p.UserID, p.Status, p.TotalCents, p.CreatedAt); err != nil {
		return fmt.Errorf("Save payment: %w", err)
	}
	const itemSQL = `
INSERT INTO payment_items (payment_id, product_id, price_id, amount_cents)
VALUES ($1,$2,$3,$4)
ON CONFLICT (payment_id, product_id, price_id) DO UPDATE
  SET amount_cents = EXCLUDED.amount_cents;
`
	for _, it := range p.CartItems {
		if _, err := r.pool.Exec(ctx, itemSQL, p.ID, it.ProductID, it.PriceID, it.AmountCents); err != nil {
			return fmt.Errorf("Save payment item: %w", err)
		}
	}
	return nil
}
