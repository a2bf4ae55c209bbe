package usecase_test

import (
	"context"
	"testing"

	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/usecase"
)

func qualifyingProduct(id int64, title string) *model.Product {
	return &model.Product{
		ID: id, Title: title, Type: model.ProductTypeStandard, Published: true,
		Prices: []model.PriceOption{{ID: 1, AmountCents: 999, Recurring: true, Period: "month"}},
	}
}

func oneOffProduct(id int64, title string) *model.Product {
	return &model.Product{
		ID: id, Title: title, Type: model.ProductTypeStandard, Published: true,
		Prices: []model.PriceOption{{ID: 1, AmountCents: 500}},
	}
}

func TestSettingsUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("should return defaults when nothing is saved", func(t *testing.T) {
		uc := usecase.NewSettingsUseCase(newMockSettingsRepo(), newMockProductCatalog(), newMockRoleCatalog(), newTestLogger())

		st, err := uc.Get(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if st.GrantRole != model.DefaultRole || st.DowngradeRole != model.DefaultRole {
			t.Errorf("expected default roles, got grant=%q downgrade=%q", st.GrantRole, st.DowngradeRole)
		}
		if len(st.QualifyingProducts) != 0 {
			t.Errorf("expected no qualifying products, got %v", st.QualifyingProducts)
		}
	})

	t.Run("should merge missing fields over defaults", func(t *testing.T) {
		repo := newMockSettingsRepo()
		repo.stored = &model.Settings{QualifyingProducts: []int64{42}}
		uc := usecase.NewSettingsUseCase(repo, newMockProductCatalog(), newMockRoleCatalog(), newTestLogger())

		st, err := uc.Get(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if st.GrantRole != model.DefaultRole {
			t.Errorf("empty grant role should fall back to default, got %q", st.GrantRole)
		}
		if !st.Qualifies(42) {
			t.Error("stored qualifying products should survive the merge")
		}
	})
}

func TestSettingsUseCase_SanitizeAndSave(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep only existing qualifying products, deduplicated", func(t *testing.T) {
		products := newMockProductCatalog(
			qualifyingProduct(42, "Club Membership"),
			oneOffProduct(99, "Single Download"),
		)
		uc := usecase.NewSettingsUseCase(newMockSettingsRepo(), products, newMockRoleCatalog(), newTestLogger())

		st, err := uc.SanitizeAndSave(ctx, usecase.SettingsInput{
			QualifyingProducts: []int64{42, 42, 99, 1234, -5, 0},
			GrantRole:          "club_member",
			DowngradeRole:      "subscriber",
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if len(st.QualifyingProducts) != 1 || st.QualifyingProducts[0] != 42 {
			t.Errorf("expected qualifying products [42], got %v", st.QualifyingProducts)
		}
		if st.GrantRole != "club_member" {
			t.Errorf("expected grant role club_member, got %q", st.GrantRole)
		}
	})

	t.Run("should reject administrator as grant role and keep the default", func(t *testing.T) {
		uc := usecase.NewSettingsUseCase(newMockSettingsRepo(), newMockProductCatalog(), newMockRoleCatalog(), newTestLogger())

		st, err := uc.SanitizeAndSave(ctx, usecase.SettingsInput{GrantRole: "administrator"})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if st.GrantRole != model.DefaultRole {
			t.Errorf("expected default role %q, got %q", model.DefaultRole, st.GrantRole)
		}
	})

	t.Run("should reject a role that does not exist on the site", func(t *testing.T) {
		uc := usecase.NewSettingsUseCase(newMockSettingsRepo(), newMockProductCatalog(), newMockRoleCatalog(), newTestLogger())

		st, err := uc.SanitizeAndSave(ctx, usecase.SettingsInput{DowngradeRole: "vip_gold"})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if st.DowngradeRole != model.DefaultRole {
			t.Errorf("unknown role should fall back to default, got %q", st.DowngradeRole)
		}
	})

	t.Run("should persist the sanitized record", func(t *testing.T) {
		repo := newMockSettingsRepo()
		products := newMockProductCatalog(qualifyingProduct(42, "Club Membership"))
		uc := usecase.NewSettingsUseCase(repo, products, newMockRoleCatalog(), newTestLogger())

		if _, err := uc.SanitizeAndSave(ctx, usecase.SettingsInput{
			QualifyingProducts: []int64{42},
			GrantRole:          "club_member",
		}); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		stored, err := repo.Load(ctx)
		if err != nil {
			t.Fatalf("expected stored settings, got: %v", err)
		}
		if !stored.Qualifies(42) || stored.GrantRole != "club_member" {
			t.Errorf("stored record does not match sanitized input: %+v", stored)
		}
	})
}

func TestSettingsUseCase_AssignableRoles(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewSettingsUseCase(newMockSettingsRepo(), newMockProductCatalog(), newMockRoleCatalog(), newTestLogger())

	roles, err := uc.AssignableRoles(ctx)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, ok := roles["administrator"]; ok {
		t.Error("administrator must not be listed as assignable")
	}
	if _, ok := roles["editor"]; ok {
		t.Error("editor must not be listed as assignable")
	}
	if _, ok := roles["club_member"]; !ok {
		t.Error("club_member should be assignable")
	}
}
