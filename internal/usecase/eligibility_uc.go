// File: internal/usecase/eligibility_uc.go
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/domain/ports/repository"
)

// EligibilityUseCase answers the one non-trivial question in this service:
// does a user still hold any active qualifying entitlement, subscriptions and
// access passes combined, other than the one that just triggered the check?
//
// The exclusion parameters exist because the evaluator always runs during the
// expiry of one specific entitlement. Counting that entitlement towards its
// own continued qualification would make the downgrade unreachable.
type EligibilityUseCase struct {
	subs          repository.SubscriptionRepository
	passes        repository.AccessPassRepository
	passesEnabled bool
	log           *zerolog.Logger
}

// NewEligibilityUseCase constructs the evaluator. passesEnabled is resolved
// once at startup; when the pass store is not configured the evaluator never
// touches the pass repository.
func NewEligibilityUseCase(subs repository.SubscriptionRepository, passes repository.AccessPassRepository, passesEnabled bool, logger *zerolog.Logger) *EligibilityUseCase {
	l := logger.With().Str("component", "EligibilityUC").Logger()
	return &EligibilityUseCase{subs: subs, passes: passes, passesEnabled: passesEnabled, log: &l}
}

// HasOtherQualifyingAccess reports whether userID holds any active qualifying
// entitlement besides the excluded ones. A zero exclusion id excludes nothing.
func (uc *EligibilityUseCase) HasOtherQualifyingAccess(ctx context.Context, st *model.Settings, userID, excludeSubID, excludePassID int64) (bool, error) {
	if st == nil || !st.HasQualifyingProducts() {
		return false, nil
	}

	active, err := uc.subs.FindActiveByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("find active subscriptions for user %d: %w", userID, err)
	}
	for _, sub := range active {
		if sub.ID == excludeSubID {
			continue
		}
		if st.Qualifies(sub.ProductID) {
			return true, nil
		}
	}

	if !uc.passesEnabled {
		return false, nil
	}

	for _, productID := range st.QualifyingProducts {
		has, err := uc.passes.UserHasActivePass(ctx, userID, productID)
		if err != nil {
			return false, fmt.Errorf("check pass for user %d product %d: %w", userID, productID, err)
		}
		if !has {
			continue
		}
		list, err := uc.passes.FindActiveByUserAndProduct(ctx, userID, productID)
		if err != nil {
			return false, fmt.Errorf("list passes for user %d product %d: %w", userID, productID, err)
		}
		for _, pass := range list {
			if pass.ID == excludePassID {
				continue
			}
			if pass.IsActive() {
				return true, nil
			}
		}
	}

	return false, nil
}
