package repo

import (
	"context"
	"testing"
	"time"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

func TestContactsStats_EmptyUser(t *testing.T) {
	db := newRepoDB(t, &domain.Contact{})

	count, maxUpdated, err := ContactsStats(context.Background(), db, "u1")
	if err != nil {
		t.Fatalf("ContactsStats: %v", err)
	}
	if count != 0 || maxUpdated != nil {
		t.Fatalf("empty user stats = %d, %v", count, maxUpdated)
	}
}

func TestContactsStats_CountAndLatestUpdate(t *testing.T) {
	db := newRepoDB(t, &domain.Contact{})
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		c := &domain.Contact{OwnerUserID: "u1", Name: name}
		if err := CreateContact(ctx, db, c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	other := &domain.Contact{OwnerUserID: "u2", Name: "foreign"}
	if err := CreateContact(ctx, db, other); err != nil {
		t.Fatalf("seed foreign: %v", err)
	}

	count, maxUpdated, err := ContactsStats(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ContactsStats: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d; want 3", count)
	}
	if maxUpdated == nil || maxUpdated.After(time.Now().Add(time.Minute)) {
		t.Fatalf("maxUpdated = %v", maxUpdated)
	}
}
