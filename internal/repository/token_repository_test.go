package repository

import (
	"context"
	"testing"
	"time"

	"github.com/univote/campus-election-api/internal/testutil"
)

func TestRefreshTokenLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	uid := testutil.SeedUser(t, db, "v@campus.edu", "V", "2021/CS/001", "x", "user")
	exp := time.Now().UTC().Add(time.Hour)

	if err := repo.StoreRefresh(ctx, uid, "hash-a", exp); err != nil {
		t.Fatalf("store: %v", err)
	}

	got, err := repo.ValidateRefresh(ctx, "hash-a")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != uid {
		t.Fatalf("user = %d, want %d", got, uid)
	}

	if err := repo.RevokeByHash(ctx, "hash-a"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := repo.ValidateRefresh(ctx, "hash-a"); err == nil {
		t.Fatal("revoked token still validates")
	}
}

func TestValidateRefreshExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	uid := testutil.SeedUser(t, db, "v@campus.edu", "V", "2021/CS/002", "x", "user")
	if err := repo.StoreRefresh(ctx, uid, "hash-b", time.Now().UTC().Add(-time.Minute)); err != nil {
		t.Fatalf("store: %v", err)
	}
	if _, err := repo.ValidateRefresh(ctx, "hash-b"); err == nil {
		t.Fatal("expired token still validates")
	}
}

func TestRevokeAllForUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewTokenRepo(db)
	ctx := context.Background()

	uid := testutil.SeedUser(t, db, "v@campus.edu", "V", "2021/CS/003", "x", "user")
	other := testutil.SeedUser(t, db, "w@campus.edu", "W", "2021/CS/004", "x", "user")
	exp := time.Now().UTC().Add(time.Hour)

	_ = repo.StoreRefresh(ctx, uid, "hash-1", exp)
	_ = repo.StoreRefresh(ctx, uid, "hash-2", exp)
	_ = repo.StoreRefresh(ctx, other, "hash-3", exp)

	if err := repo.RevokeAllForUser(ctx, uid); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if _, err := repo.ValidateRefresh(ctx, "hash-1"); err == nil {
		t.Error("hash-1 still valid")
	}
	if _, err := repo.ValidateRefresh(ctx, "hash-2"); err == nil {
		t.Error("hash-2 still valid")
	}
	// Another user's session is untouched.
	if _, err := repo.ValidateRefresh(ctx, "hash-3"); err != nil {
		t.Errorf("hash-3: %v", err)
	}
}
