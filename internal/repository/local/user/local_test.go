package user

import (
	"context"
	"testing"

	domain "family-chores-go/internal/domain/user"
	"family-chores-go/internal/store/memory"
)

func TestUpsertProfileMergesFields(t *testing.T) {
	svc := domain.NewService(NewLocal(memory.New()))
	ctx := context.Background()

	if err := svc.UpsertProfile(ctx, "u1", "ana@example.com", "", ""); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := svc.UpsertProfile(ctx, "u1", "", "Ana", ""); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	profile, ok, err := svc.GetProfile(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("expected profile, got ok=%v err=%v", ok, err)
	}
	if profile.Email == nil || *profile.Email != "ana@example.com" {
		t.Fatalf("expected email kept, got %v", profile.Email)
	}
	if profile.Name == nil || *profile.Name != "Ana" {
		t.Fatalf("expected name set, got %v", profile.Name)
	}
}

func TestUpsertProfileRequiresUser(t *testing.T) {
	svc := domain.NewService(NewLocal(memory.New()))
	if err := svc.UpsertProfile(context.Background(), " ", "", "", ""); err != domain.ErrUserIDRequired {
		t.Fatalf("expected ErrUserIDRequired, got %v", err)
	}
}

func TestGetProfileAbsent(t *testing.T) {
	svc := domain.NewService(NewLocal(memory.New()))
	_, ok, err := svc.GetProfile(context.Background(), "nobody")
	if err != nil || ok {
		t.Fatalf("expected absent profile, got ok=%v err=%v", ok, err)
	}
}
