package usecase_test

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"commerce-role-sync/internal/domain/model"
	"commerce-role-sync/internal/usecase"
)

func memberUser(id int64, roles ...string) *model.User {
	return &model.User{ID: id, Email: "member@example.com", Roles: roles}
}

func sortedRoles(repo *mockUserRepo, userID int64) []string {
	rs := repo.roles(userID)
	sort.Strings(rs)
	return rs
}

func TestRoleUseCase_Grant(t *testing.T) {
	ctx := context.Background()

	t.Run("should add the role without touching others", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "subscriber"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Grant(ctx, 7, "club_member"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := []string{"club_member", "subscriber"}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, want) {
			t.Errorf("expected roles %v, got %v", want, got)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "subscriber"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Grant(ctx, 7, "club_member"); err != nil {
			t.Fatalf("first grant: %v", err)
		}
		once := sortedRoles(users, 7)
		if err := uc.Grant(ctx, 7, "club_member"); err != nil {
			t.Fatalf("second grant: %v", err)
		}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, once) {
			t.Errorf("second grant changed the role set: %v vs %v", got, once)
		}
	})

	t.Run("should refuse excluded roles", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "subscriber"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Grant(ctx, 7, "administrator"); err != nil {
			t.Fatalf("expected silent no-op, got: %v", err)
		}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, []string{"subscriber"}) {
			t.Errorf("role set must be unchanged, got %v", got)
		}
	})

	t.Run("should be a no-op for a missing user", func(t *testing.T) {
		users := newMockUserRepo()
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Grant(ctx, 123, "club_member"); err != nil {
			t.Fatalf("expected silent no-op, got: %v", err)
		}
	})
}

func TestRoleUseCase_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("should remove only the named role", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "subscriber", "club_member"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Revoke(ctx, 7, "club_member", ""); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, []string{"subscriber"}) {
			t.Errorf("expected roles [subscriber], got %v", got)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "subscriber", "club_member"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Revoke(ctx, 7, "club_member", ""); err != nil {
			t.Fatalf("first revoke: %v", err)
		}
		once := sortedRoles(users, 7)
		if err := uc.Revoke(ctx, 7, "club_member", ""); err != nil {
			t.Fatalf("second revoke: %v", err)
		}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, once) {
			t.Errorf("second revoke changed the role set: %v vs %v", got, once)
		}
	})

	t.Run("should assign the downgrade role when it differs", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "club_member"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Revoke(ctx, 7, "club_member", "subscriber"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, []string{"subscriber"}) {
			t.Errorf("expected downgrade to [subscriber], got %v", got)
		}
	})

	t.Run("should never assign an excluded downgrade role", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "club_member"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Revoke(ctx, 7, "club_member", "administrator"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := sortedRoles(users, 7); len(got) != 0 {
			t.Errorf("expected empty role set, got %v", got)
		}
	})

	t.Run("should refuse to revoke excluded roles", func(t *testing.T) {
		users := newMockUserRepo(memberUser(7, "editor"))
		uc := usecase.NewRoleUseCase(users, newMockTxManager(), newTestLogger())

		if err := uc.Revoke(ctx, 7, "editor", ""); err != nil {
			t.Fatalf("expected silent no-op, got: %v", err)
		}
		if got := sortedRoles(users, 7); !reflect.DeepEqual(got, []string{"editor"}) {
			t.Errorf("editor role must be untouched, got %v", got)
		}
	})
}
