// File: internal/usecase/sync_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain"
	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
	"commerce-role-sync/internal/infra/logging"
	"commerce-role-sync/internal/infra/metrics"
)

const (
	eventPurchaseCompleted   = "purchase_completed"
	eventSubscriptionExpired = "subscription_expired"
	eventPassExpired         = "access_pass_expired"
	eventPaymentRefunded     = "payment_refunded"
)

const userLockTTL = 10 * time.Second

// UserLocker serializes role mutations for a single user across racing
// events. A nil locker disables locking.
type UserLocker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (token string, err error)
	Unlock(ctx context.Context, key, token string) error
}

// RoleSyncUseCase wires the three commerce events (plus the optional refund
// event) to role transitions. Every precondition miss is a silent early
// return: the service observes the commerce system, it never gates it.
type RoleSyncUseCase struct {
	settings      *SettingsUseCase
	eligibility   *EligibilityUseCase
	roles         *RoleUseCase
	payments      repository.PaymentRepository
	subs          repository.SubscriptionRepository
	passes        repository.AccessPassRepository
	locker        UserLocker
	handleRefunds bool
	log           *zerolog.Logger
}

func NewRoleSyncUseCase(
	settings *SettingsUseCase,
	eligibility *EligibilityUseCase,
	roles *RoleUseCase,
	payments repository.PaymentRepository,
	subs repository.SubscriptionRepository,
	passes repository.AccessPassRepository,
	locker UserLocker,
	handleRefunds bool,
	logger *zerolog.Logger,
) *RoleSyncUseCase {
	l := logger.With().Str("component", "RoleSyncUC").Logger()
	return &RoleSyncUseCase{
		settings:      settings,
		eligibility:   eligibility,
		roles:         roles,
		payments:      payments,
		subs:          subs,
		passes:        passes,
		locker:        locker,
		handleRefunds: handleRefunds,
		log:           &l,
	}
}

// HandlePurchaseCompleted grants the configured role when a completed payment
// contains a qualifying product.
func (uc *RoleSyncUseCase) HandlePurchaseCompleted(ctx context.Context, paymentID int64) error {
	defer logging.TraceDuration(uc.log, "RoleSyncUC.HandlePurchaseCompleted")()

	st, err := uc.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !st.HasQualifyingProducts() {
		uc.skip(eventPurchaseCompleted, "no_qualifying_products")
		return nil
	}

	pay, err := uc.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.skip(eventPurchaseCompleted, "payment_not_found")
			return nil
		}
		return fmt.Errorf("find payment %d: %w", paymentID, err)
	}
	if pay.UserID <= 0 {
		uc.skip(eventPurchaseCompleted, "no_user")
		return nil
	}

	qualifying := false
	for _, item := range pay.CartItems {
		if st.Qualifies(item.ProductID) {
			qualifying = true
			break
		}
	}
	if !qualifying {
		uc.skip(eventPurchaseCompleted, "no_qualifying_item")
		return nil
	}

	if !model.IsRoleAllowed(st.GrantRole) {
		uc.skip(eventPurchaseCompleted, "role_not_allowed")
		return nil
	}

	unlock, err := uc.lockUser(ctx, pay.UserID)
	if err != nil {
		uc.skip(eventPurchaseCompleted, "lock_held")
		return nil
	}
	defer unlock()

	return uc.roles.Grant(ctx, pay.UserID, st.GrantRole)
}

// HandleSubscriptionExpired revokes the configured role when the expiring
// subscription was the user's last qualifying entitlement.
func (uc *RoleSyncUseCase) HandleSubscriptionExpired(ctx context.Context, subscriptionID int64) error {
	defer logging.TraceDuration(uc.log, "RoleSyncUC.HandleSubscriptionExpired")()

	st, err := uc.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !st.HasQualifyingProducts() {
		uc.skip(eventSubscriptionExpired, "no_qualifying_products")
		return nil
	}

	sub, err := uc.subs.FindByID(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.skip(eventSubscriptionExpired, "subscription_not_found")
			return nil
		}
		return fmt.Errorf("find subscription %d: %w", subscriptionID, err)
	}
	if sub.UserID <= 0 {
		uc.skip(eventSubscriptionExpired, "no_user")
		return nil
	}

	unlock, err := uc.lockUser(ctx, sub.UserID)
	if err != nil {
		uc.skip(eventSubscriptionExpired, "lock_held")
		return nil
	}
	defer unlock()

	// The expiring subscription must not count towards its own continued
	// qualification.
	other, err := uc.eligibility.HasOtherQualifyingAccess(ctx, st, sub.UserID, subscriptionID, 0)
	if err != nil {
		return err
	}
	if other {
		uc.skip(eventSubscriptionExpired, "still_qualifies")
		return nil
	}

	return uc.roles.Revoke(ctx, sub.UserID, st.GrantRole, st.DowngradeRole)
}

// HandlePassExpired revokes the configured role when the expiring access pass
// was the user's last qualifying entitlement. Only passes whose product is
// itself configured as qualifying are considered at all.
func (uc *RoleSyncUseCase) HandlePassExpired(ctx context.Context, passID int64) error {
	defer logging.TraceDuration(uc.log, "RoleSyncUC.HandlePassExpired")()

	st, err := uc.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !st.HasQualifyingProducts() {
		uc.skip(eventPassExpired, "no_qualifying_products")
		return nil
	}

	pass, err := uc.passes.FindByID(ctx, passID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.skip(eventPassExpired, "pass_not_found")
			return nil
		}
		return fmt.Errorf("find pass %d: %w", passID, err)
	}
	if !st.Qualifies(pass.ProductID) {
		uc.skip(eventPassExpired, "product_not_qualifying")
		return nil
	}
	if pass.UserID <= 0 {
		uc.skip(eventPassExpired, "no_user")
		return nil
	}

	unlock, err := uc.lockUser(ctx, pass.UserID)
	if err != nil {
		uc.skip(eventPassExpired, "lock_held")
		return nil
	}
	defer unlock()

	other, err := uc.eligibility.HasOtherQualifyingAccess(ctx, st, pass.UserID, 0, passID)
	if err != nil {
		return err
	}
	if other {
		uc.skip(eventPassExpired, "still_qualifies")
		return nil
	}

	return uc.roles.Revoke(ctx, pass.UserID, st.GrantRole, st.DowngradeRole)
}

// HandlePaymentRefunded re-evaluates a user's qualification after a refund of
// a qualifying purchase. Disabled unless events.handle_refunds is set.
func (uc *RoleSyncUseCase) HandlePaymentRefunded(ctx context.Context, paymentID int64) error {
	defer logging.TraceDuration(uc.log, "RoleSyncUC.HandlePaymentRefunded")()

	if !uc.handleRefunds {
		uc.skip(eventPaymentRefunded, "disabled")
		return nil
	}

	st, err := uc.settings.Get(ctx)
	if err != nil {
		return err
	}
	if !st.HasQualifyingProducts() {
		uc.skip(eventPaymentRefunded, "no_qualifying_products")
		return nil
	}

	pay, err := uc.payments.FindByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.skip(eventPaymentRefunded, "payment_not_found")
			return nil
		}
		return fmt.Errorf("find payment %d: %w", paymentID, err)
	}
	if pay.UserID <= 0 {
		uc.skip(eventPaymentRefunded, "no_user")
		return nil
	}

	qualifying := false
	for _, item := range pay.CartItems {
		if st.Qualifies(item.ProductID) {
			qualifying = true
			break
		}
	}
	if !qualifying {
		uc.skip(eventPaymentRefunded, "no_qualifying_item")
		return nil
	}

	unlock, err := uc.lockUser(ctx, pay.UserID)
	if err != nil {
		uc.skip(eventPaymentRefunded, "lock_held")
		return nil
	}
	defer unlock()

	other, err := uc.eligibility.HasOtherQualifyingAccess(ctx, st, pay.UserID, 0, 0)
	if err != nil {
		return err
	}
	if other {
		uc.skip(eventPaymentRefunded, "still_qualifies")
		return nil
	}

	return uc.roles.Revoke(ctx, pay.UserID, st.GrantRole, st.DowngradeRole)
}

func (uc *RoleSyncUseCase) lockUser(ctx context.Context, userID int64) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}
	key := fmt.Sprintf("rolesync:user:%d", userID)
	token, err := uc.locker.TryLock(ctx, key, userLockTTL)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := uc.locker.Unlock(ctx, key, token); err != nil {
			uc.log.Warn().Err(err).Str("key", key).Msg("unlock failed")
		}
	}, nil
}

func (uc *RoleSyncUseCase) skip(event, reason string) {
	metrics.IncEventSkipped(event, reason)
	uc.log.Debug().Str("event", event).Str("reason", reason).Msg("event ignored")
}
