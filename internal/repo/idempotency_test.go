package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

func TestCreateIdempotency_DuplicateKeyRejected(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "bulk-tags", "k1", 200, time.Hour); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u1", "bulk-tags", "k1", 200, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second insert err = %v; want ErrDuplicate", err)
	}

	// Different scope or user is a separate tuple.
	if _, err := CreateIdempotency(ctx, db, "u1", "other-scope", "k1", 200, time.Hour); err != nil {
		t.Fatalf("other scope: %v", err)
	}
	if _, err := CreateIdempotency(ctx, db, "u2", "bulk-tags", "k1", 200, time.Hour); err != nil {
		t.Fatalf("other user: %v", err)
	}
}

func TestGetIdempotency_ExpiryAndBlankScope(t *testing.T) {
	db := newRepoDB(t, &domain.Idempotency{})
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "u1", "bulk-tags", "k1", 200, time.Minute)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := GetIdempotency(ctx, db, "u1", "bulk-tags", "k1", now)
	if err != nil || got.ID != rec.ID {
		t.Fatalf("fresh lookup = %+v, %v", got, err)
	}

	if _, err := GetIdempotency(ctx, db, "u1", "bulk-tags", "k1", now.Add(2*time.Minute)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired lookup err = %v; want ErrNotFound", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "  ", "k1", now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank scope err = %v; want ErrNotFound", err)
	}
}
