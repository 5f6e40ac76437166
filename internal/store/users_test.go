package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazmer/lekarna/internal/db"
	"github.com/erazmer/lekarna/internal/model"
)

func TestUserLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, err := CreateUser(ctx, database, "jana@pharmavita.test", "hash", "Jana", "Kovac", model.RolePharmacist)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Email != "jana@pharmavita.test" || u.Role != model.RolePharmacist {
		t.Errorf("unexpected user %v", u)
	}

	if err := UpdateUser(ctx, database, u.ID, "Jana", "Novak", model.RoleAdmin); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	updated, _ := GetUser(ctx, database, u.ID)
	if updated.LastName != "Novak" || updated.Role != model.RoleAdmin {
		t.Errorf("update not applied: %v", updated)
	}

	if err := DeleteUser(ctx, database, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	deleted, _ := GetUser(ctx, database, u.ID)
	if deleted.DeletedAt == nil {
		t.Error("expected soft-delete timestamp")
	}

	users, _ := ListUsers(ctx, database)
	if len(users) != 0 {
		t.Errorf("deleted user still listed: %v", users)
	}

	// Operations on missing or deleted accounts report not found.
	if err := UpdateUser(ctx, database, u.ID, "x", "y", model.RolePharmacist); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := DeleteUser(ctx, database, 999); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUserByEmailPrefersActive(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	old, _ := CreateUser(ctx, database, "dup@pharmavita.test", "hash1", "", "", model.RolePharmacist)
	if err := DeleteUser(ctx, database, old.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// Email is reusable after soft deletion.
	fresh, err := CreateUser(ctx, database, "dup@pharmavita.test", "hash2", "", "", model.RolePharmacist)
	if err != nil {
		t.Fatalf("CreateUser after soft delete: %v", err)
	}

	got, err := GetUserByEmail(ctx, database, "dup@pharmavita.test")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got == nil || got.ID != fresh.ID || got.DeletedAt != nil {
		t.Errorf("expected active account, got %v", got)
	}

	missing, err := GetUserByEmail(ctx, database, "nobody@pharmavita.test")
	if err != nil {
		t.Fatalf("GetUserByEmail(missing): %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown email, got %v", missing)
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	u, _ := CreateUser(ctx, database, "pw@pharmavita.test", "old", "", "", model.RolePharmacist)
	if err := UpdateUserPassword(ctx, database, u.ID, "new"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	cur, _ := GetUser(ctx, database, u.ID)
	if cur.PasswordHash != "new" {
		t.Errorf("password hash not updated")
	}
}
