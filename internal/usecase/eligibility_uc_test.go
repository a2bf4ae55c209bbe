package usecase_test

import (
	"context"
	"testing"
	"time"

	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/usecase"
)

func activeSub(id, userID, productID int64) *model.Subscription {
	return &model.Subscription{
		ID: id, UserID: userID, ProductID: productID,
		Status:    model.EntitlementStatusActive,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}
}

func activePass(id, userID, productID int64) *model.AccessPass {
	return &model.AccessPass{
		ID: id, UserID: userID, ProductID: productID,
		Status:    model.EntitlementStatusActive,
		CreatedAt: time.Now(),
	}
}

func TestEligibilityUseCase_HasOtherQualifyingAccess(t *testing.T) {
	ctx := context.Background()
	settings := &model.Settings{QualifyingProducts: []int64{42, 43}, GrantRole: "club_member"}

	t.Run("should return false when no products are configured", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(newMockSubscriptionRepo(activeSub(100, 7, 42)), newMockPassRepo(), true, newTestLogger())

		has, err := uc.HasOtherQualifyingAccess(ctx, model.DefaultSettings(), 7, 0, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if has {
			t.Error("empty configuration can never qualify")
		}
	})

	t.Run("should exclude exactly the expiring subscription", func(t *testing.T) {
		// The user's only qualifying entitlement is the one being excluded.
		uc := usecase.NewEligibilityUseCase(newMockSubscriptionRepo(activeSub(100, 7, 42)), newMockPassRepo(), true, newTestLogger())

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 100, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if has {
			t.Error("the excluded subscription must not count towards its own qualification")
		}
	})

	t.Run("should find a second qualifying subscription", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(
			newMockSubscriptionRepo(activeSub(100, 7, 42), activeSub(101, 7, 42)),
			newMockPassRepo(), true, newTestLogger(),
		)

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 100, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if !has {
			t.Error("subscription 101 still qualifies the user")
		}
	})

	t.Run("should ignore active subscriptions to non-qualifying products", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(
			newMockSubscriptionRepo(activeSub(100, 7, 42), activeSub(102, 7, 99)),
			newMockPassRepo(), true, newTestLogger(),
		)

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 100, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if has {
			t.Error("product 99 is not configured as qualifying")
		}
	})

	t.Run("should fall back to access passes when no subscription matches", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(
			newMockSubscriptionRepo(),
			newMockPassRepo(activePass(200, 7, 43)),
			true, newTestLogger(),
		)

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 0, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if !has {
			t.Error("active pass for qualifying product 43 should count")
		}
	})

	t.Run("should exclude exactly the expiring pass", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(
			newMockSubscriptionRepo(),
			newMockPassRepo(activePass(200, 7, 43)),
			true, newTestLogger(),
		)

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 0, 200)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if has {
			t.Error("the excluded pass must not count towards its own qualification")
		}
	})

	t.Run("should skip pass lookups when the pass store is disabled", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(
			newMockSubscriptionRepo(),
			newMockPassRepo(activePass(200, 7, 43)),
			false, newTestLogger(),
		)

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 0, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if has {
			t.Error("disabled pass store must not contribute qualification")
		}
	})

	t.Run("should ignore entitlements of other users", func(t *testing.T) {
		uc := usecase.NewEligibilityUseCase(
			newMockSubscriptionRepo(activeSub(300, 8, 42)),
			newMockPassRepo(activePass(400, 9, 43)),
			true, newTestLogger(),
		)

		has, err := uc.HasOtherQualifyingAccess(ctx, settings, 7, 0, 0)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if has {
			t.Error("another user's entitlements must not qualify user 7")
		}
	})
}
