package repository

import (
	"context"

	"commerce-role-sync/internal/domain/model"
)

// SettingsRepository is the port for the single role-sync settings record.
// Load returns domain.ErrNotFound when nothing has been saved yet; callers
// merge over defaults.
type SettingsRepository interface {
	Load(ctx context.Context) (*model.Settings, error)
	Save(ctx context.Context, s *model.Settings) error
}
