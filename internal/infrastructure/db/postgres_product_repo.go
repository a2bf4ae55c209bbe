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
var _ repository.ProductCatalog = (*PostgresProductRepo)(nil)

type PostgresProductRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresProductRepo(pool *pgxpool.Pool) *PostgresProductRepo {
	return &PostgresProductRepo{pool: pool}
}

func (r *PostgresProductRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	const sql = `
SELECT id, title, product_type, published
  FROM products
 WHERE id = $1;
`
	var p model.Product
	if err := r.pool.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Title, &p.Type, &p.Published); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("FindByID product: %w", err)
	}
	prices, err := r.loadPrices(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Prices = prices
	return &p, nil
}

// ListQualifying returns published products that are recurring-priced or
// all-access, ordered by title. Backs the admin multi-select.
func (r *PostgresProductRepo) ListQualifying(ctx context.Context) ([]*model.Product, error) {
	const sql = `
SELECT p.id, p.title, p.product_type, p.published
  FROM products p
 WHERE p.published
   AND (p.product_type = 'all_access'
        OR EXISTS (SELECT 1 FROM product_prices pp
                    WHERE pp.product_id = p.id AND pp.recurring))
 ORDER BY p.title;
`
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("ListQualifying: %w", err)
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Type, &p.Published); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range out {
		prices, err := r.loadPrices(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Prices = prices
	}
	return out, nil
}

func (r *PostgresProductRepo) loadPrices(ctx context.Context, productID int64) ([]model.PriceOption, error) {
	const sql = `
SELECT id, name, amount_cents, recurring, COALESCE(period, '')
  FROM product_prices
 WHERE product_id = $1
 ORDER BY id;
`
	rows, err := r.pool.Query(ctx, sql, productID)
	if err != nil {
		return nil, fmt.Errorf("load prices for product %d: %w", productID, err)
	}
	defer rows.Close()

	var out []model.PriceOption
	for rows.Next() {
		var po model.PriceOption
		if err := rows.Scan(&po.ID, &po.Name, &po.AmountCents, &po.Recurring, &po.Period); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, rows.Err()
}
