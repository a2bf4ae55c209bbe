// File: internal/usecase/role_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
	"commerce-role-sync/internal/infra/metrics"
)

// RoleUseCase applies role transitions on user accounts. Both operations are
// idempotent and guarded: a role outside the allow-list or a missing user is
// a silent no-op, never an error.
type RoleUseCase struct {
	users repository.UserRepository
	tm    repository.TransactionManager
	log   *zerolog.Logger
}

func NewRoleUseCase(users repository.UserRepository, tm repository.TransactionManager, logger *zerolog.Logger) *RoleUseCase {
	l := logger.With().Str("component", "RoleUC").Logger()
	return &RoleUseCase{users: users, tm: tm, log: &l}
}

// Grant idempotently ensures the user holds role without removing any other
// role the account has.
func (uc *RoleUseCase) Grant(ctx context.Context, userID int64, role string) error {
	if !model.IsRoleAllowed(role) {
		uc.log.Debug().Int64("user_id", userID).Str("role", role).Msg("grant skipped: role not allowed")
		return nil
	}
	u, err := uc.users.FindByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Debug().Int64("user_id", userID).Msg("grant skipped: user not found")
			return nil
		}
		return fmt.Errorf("find user %d: %w", userID, err)
	}
	if u.HasRole(role) {
		return nil
	}
	if err := uc.users.AddRole(ctx, nil, userID, role); err != nil {
		return fmt.Errorf("add role %q to user %d: %w", role, userID, err)
	}
	metrics.IncRoleGrants(role)
	uc.log.Info().Int64("user_id", userID).Str("role", role).Msg("role granted")
	return nil
}

// Revoke idempotently removes role from the user. When downgradeRole is a
// different allow-listed role, it is assigned in the same transaction so the
// account never ends up between roles.
func (uc *RoleUseCase) Revoke(ctx context.Context, userID int64, role, downgradeRole string) error {
	if !model.IsRoleAllowed(role) {
		uc.log.Debug().Int64("user_id", userID).Str("role", role).Msg("revoke skipped: role not allowed")
		return nil
	}
	u, err := uc.users.FindByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Debug().Int64("user_id", userID).Msg("revoke skipped: user not found")
			return nil
		}
		return fmt.Errorf("find user %d: %w", userID, err)
	}

	assignDowngrade := downgradeRole != "" && downgradeRole != role && model.IsRoleAllowed(downgradeRole)

	if !u.HasRole(role) && (!assignDowngrade || u.HasRole(downgradeRole)) {
		return nil
	}

	err = uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := uc.users.RemoveRole(ctx, tx, userID, role); err != nil {
			return err
		}
		if assignDowngrade {
			return uc.users.AddRole(ctx, tx, userID, downgradeRole)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke role %q from user %d: %w", role, userID, err)
	}
	metrics.IncRoleRevokes(role)
	uc.log.Info().Int64("user_id", userID).Str("role", role).Str("downgrade_role", downgradeRole).Msg("role revoked")
	return nil
}
