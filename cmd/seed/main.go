package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"commerce-role-sync/internal/config"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/infrastructure/db"

	"github.com/jackc/pgx/v4/pgxpool"
)

// Seeds the schema and a small demo dataset: a couple of roles, products with
// recurring prices, one user with an active qualifying subscription.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	if err := createSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	if err := seedRoles(ctx, pool); err != nil {
		log.Fatalf("seed roles: %v", err)
	}

	productRepo := db.NewPostgresProductRepo(pool)
	if existing, err := productRepo.ListQualifying(ctx); err != nil {
		log.Fatalf("list products: %v", err)
	} else if len(existing) > 0 {
		fmt.Printf("%d qualifying products already present. No changes.\n", len(existing))
		return
	}

	if err := seedDemoData(ctx, pool); err != nil {
		log.Fatalf("seed demo data: %v", err)
	}
	fmt.Println("Seeding complete.")
}

func createSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS rolesync_options (
			key        text PRIMARY KEY,
			value      jsonb NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS roles (
			slug         text PRIMARY KEY,
			display_name text NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id            bigint PRIMARY KEY,
			email         text NOT NULL,
			display_name  text NOT NULL DEFAULT '',
			registered_at timestamptz NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id    bigint NOT NULL REFERENCES users(id),
			role       text NOT NULL,
			granted_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, role)
		);`,
		`CREATE TABLE IF NOT EXISTS products (
			id           bigint PRIMARY KEY,
			title        text NOT NULL,
			product_type text NOT NULL DEFAULT 'standard',
			published    boolean NOT NULL DEFAULT true
		);`,
		`CREATE TABLE IF NOT EXISTS product_prices (
			id           serial PRIMARY KEY,
			product_id   bigint NOT NULL REFERENCES products(id),
			name         text NOT NULL DEFAULT '',
			amount_cents bigint NOT NULL,
			recurring    boolean NOT NULL DEFAULT false,
			period       text
		);`,
		`CREATE TABLE IF NOT EXISTS payments (
			id          bigint PRIMARY KEY,
			user_id     bigint NOT NULL,
			status      text NOT NULL,
			total_cents bigint NOT NULL DEFAULT 0,
			created_at  timestamptz NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS payment_items (
			payment_id   bigint NOT NULL REFERENCES payments(id),
			product_id   bigint NOT NULL,
			price_id     int NOT NULL DEFAULT 0,
			amount_cents bigint NOT NULL DEFAULT 0,
			PRIMARY KEY (payment_id, product_id, price_id)
		);`,
		`CREATE TABLE IF NOT EXISTS subscriptions (
			id         bigint PRIMARY KEY,
			user_id    bigint NOT NULL,
			product_id bigint NOT NULL,
			payment_id bigint NOT NULL DEFAULT 0,
			status     text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			expires_at timestamptz NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS access_passes (
			id         bigint PRIMARY KEY,
			user_id    bigint NOT NULL,
			product_id bigint NOT NULL,
			payment_id bigint NOT NULL DEFAULT 0,
			status     text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			expires_at timestamptz
		);`,
		`CREATE INDEX IF NOT EXISTS idx_subscriptions_user_status ON subscriptions (user_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_access_passes_user_status ON access_passes (user_id, product_id, status);`,
	}
	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func seedRoles(ctx context.Context, pool *pgxpool.Pool) error {
	roles := map[string]string{
		"administrator": "Administrator",
		"editor":        "Editor",
		"author":        "Author",
		"contributor":   "Contributor",
		"subscriber":    "Subscriber",
		"club_member":   "Club Member",
	}
	for slug, name := range roles {
		const sql = `
INSERT INTO roles (slug, display_name) VALUES ($1, $2)
ON CONFLICT (slug) DO NOTHING;`
		if _, err := pool.Exec(ctx, sql, slug, name); err != nil {
			return err
		}
	}
	return nil
}

func seedDemoData(ctx context.Context, pool *pgxpool.Pool) error {
	userRepo := db.NewPostgresUserRepo(pool)
	subRepo := db.NewPostgresSubscriptionRepo(pool)
	payRepo := db.NewPostgresPaymentRepo(pool)
	passRepo := db.NewPostgresPassRepo(pool)

	now := time.Now()

	products := []struct {
		id        int64
		title     string
		ptype     model.ProductType
		recurring bool
	}{
		{42, "Club Membership (Monthly)", model.ProductTypeStandard, true},
		{43, "All Access Pass", model.ProductTypeAllAccess, false},
		{99, "Single Download", model.ProductTypeStandard, false},
	}
	for _, p := range products {
		const sql = `
INSERT INTO products (id, title, product_type, published) VALUES ($1, $2, $3, true)
ON CONFLICT (id) DO NOTHING;`
		if _, err := pool.Exec(ctx, sql, p.id, p.title, p.ptype); err != nil {
			return err
		}
		const priceSQL = `
INSERT INTO product_prices (product_id, name, amount_cents, recurring, period)
VALUES ($1, $2, $3, $4, $5);`
		period := interface{}(nil)
		if p.recurring {
			period = "month"
		}
		if _, err := pool.Exec(ctx, priceSQL, p.id, "Default", int64(999), p.recurring, period); err != nil {
			return err
		}
		fmt.Printf("seeded product: %s (id=%d)\n", p.title, p.id)
	}

	u, err := model.NewUser(7, "member@example.com", "Demo Member")
	if err != nil {
		return err
	}
	if err := userRepo.Save(ctx, nil, u); err != nil {
		return err
	}

	pay := &model.Payment{
		ID:         1001,
		UserID:     u.ID,
		Status:     model.PaymentStatusComplete,
		TotalCents: 999,
		CreatedAt:  now,
		CartItems:  []model.CartItem{{ProductID: 42, PriceID: 1, AmountCents: 999}},
	}
	if err := payRepo.Save(ctx, pay); err != nil {
		return err
	}

	sub := &model.Subscription{
		ID:        100,
		UserID:    u.ID,
		ProductID: 42,
		PaymentID: pay.ID,
		Status:    model.EntitlementStatusActive,
		CreatedAt: now,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
	}
	if err := subRepo.Save(ctx, sub); err != nil {
		return err
	}

	pass := &model.AccessPass{
		ID:        200,
		UserID:    u.ID,
		ProductID: 43,
		PaymentID: pay.ID,
		Status:    model.EntitlementStatusExpired,
		CreatedAt: now.Add(-90 * 24 * time.Hour),
		ExpiresAt: now.Add(-24 * time.Hour),
	}
	if err := passRepo.Save(ctx, pass); err != nil {
		return err
	}

	fmt.Printf("seeded user %d with subscription %d (product 42)\n", u.ID, sub.ID)
	return nil
}
