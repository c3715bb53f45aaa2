package service

import (
	"context"
	"errors"
	"testing"

	"github.com/yusimeilanyy/intern-project/model"
)

func TestMemoryUserStoreCreateAndFind(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	user := &model.User{Username: "budi", Email: "budi@kominfo.go.id", IsActive: true}
	if err := store.Create(ctx, user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("Expected an id to be assigned")
	}

	byUsername, err := store.FindByCredential(ctx, "budi")
	if err != nil {
		t.Fatalf("FindByCredential by username failed: %v", err)
	}
	byEmail, err := store.FindByCredential(ctx, "budi@kominfo.go.id")
	if err != nil {
		t.Fatalf("FindByCredential by email failed: %v", err)
	}
	if byUsername.ID != byEmail.ID {
		t.Error("Expected username and email lookups to find the same user")
	}

	if _, err := store.FindByCredential(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryUserStoreRejectsDuplicates(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	store.Create(ctx, &model.User{Username: "budi", Email: "budi@x.id"})

	if err := store.Create(ctx, &model.User{Username: "budi", Email: "other@x.id"}); err == nil {
		t.Error("Expected duplicate username to be rejected")
	}
	if err := store.Create(ctx, &model.User{Username: "other", Email: "budi@x.id"}); err == nil {
		t.Error("Expected duplicate email to be rejected")
	}
}

func TestMemoryUserStoreContacts(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	store.Create(ctx, &model.User{Username: "m1", Email: "m1@x.id", FullName: "Manager Satu", Role: model.RoleManager, TeamID: 1, IsActive: true})
	store.Create(ctx, &model.User{Username: "m2", Email: "m2@x.id", Role: model.RoleManager, TeamID: 2, IsActive: true})
	store.Create(ctx, &model.User{Username: "m3", Email: "m3@x.id", Role: model.RoleManager, TeamID: 1, IsActive: false})
	store.Create(ctx, &model.User{Username: "a1", Email: "a1@x.id", Role: model.RoleAdmin, IsActive: true})
	store.Create(ctx, &model.User{Username: "a2", Email: "", Role: model.RoleAdmin, IsActive: true})

	managers, err := store.ManagersForTeam(ctx, 1)
	if err != nil {
		t.Fatalf("ManagersForTeam failed: %v", err)
	}
	// The inactive manager is excluded.
	if len(managers) != 1 || managers[0].Email != "m1@x.id" {
		t.Errorf("Expected only the active team 1 manager, got %v", managers)
	}

	admins, err := store.Admins(ctx)
	if err != nil {
		t.Fatalf("Admins failed: %v", err)
	}
	// The admin without an email address is excluded.
	if len(admins) != 1 || admins[0].Email != "a1@x.id" {
		t.Errorf("Expected 1 admin contact, got %v", admins)
	}
}

func TestMemoryUserStorePICFor(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	contact, err := store.PICFor(ctx, &model.Document{PICName: "Budi", PICEmail: "budi@x.id"})
	if err != nil {
		t.Fatalf("PICFor failed: %v", err)
	}
	if contact == nil || contact.Email != "budi@x.id" {
		t.Errorf("Expected PIC contact from document fields, got %v", contact)
	}

	contact, err = store.PICFor(ctx, &model.Document{PICName: "Tanpa Email"})
	if err != nil {
		t.Fatalf("PICFor failed: %v", err)
	}
	if contact != nil {
		t.Error("Expected nil contact for document without PIC email")
	}
}

func TestMemoryUserStoreDeleteAndTouch(t *testing.T) {
	store := NewMemoryUserStore()
	ctx := context.Background()

	user := &model.User{Username: "budi", Email: "budi@x.id"}
	store.Create(ctx, user)

	if err := store.TouchLastLogin(ctx, user.ID); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}
	touched, _ := store.FindByID(ctx, user.ID)
	if touched.LastLoginAt == nil {
		t.Error("Expected last login timestamp to be set")
	}

	if err := store.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound on double delete, got %v", err)
	}
}
