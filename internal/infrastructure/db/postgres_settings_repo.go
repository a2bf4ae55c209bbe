package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
)

// Ensure interface compliance:
var _ repository.SettingsRepository = (*PostgresSettingsRepo)(nil)

const settingsKey = "rolesync_settings"

// PostgresSettingsRepo persists the settings record as one JSON row in an
// options-style key/value table.
type PostgresSettingsRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSettingsRepo(pool *pgxpool.Pool) *PostgresSettingsRepo {
	return &PostgresSettingsRepo{pool: pool}
}

func (r *PostgresSettingsRepo) Load(ctx context.Context) (*model.Settings, error) {
	const sql = `SELECT value FROM rolesync_options WHERE key = $1;`
	var raw []byte
	if err := r.pool.QueryRow(ctx, sql, settingsKey).Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("Load settings: %w", err)
	}
	var st model.Settings
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &st, nil
}

func (r *PostgresSettingsRepo) Save(ctx context.Context, st *model.Settings) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	const sql = `
INSERT INTO rolesync_options (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
  SET value      = EXCLUDED.value,
      updated_at = now();
`
	if _, err := r.pool.Exec(ctx, sql, settingsKey, raw); err != nil {
		return fmt.Errorf("Save settings: %w", err)
	}
	return nil
}
