package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

func TestCreateTemplate_And_List(t *testing.T) {
	db := newRepoDB(t, &domain.WhatsAppTemplate{})
	ctx := context.Background()

	a := &domain.WhatsAppTemplate{UserID: "u1", Name: "Intro", Body: "Hi {{name}}"}
	b := &domain.WhatsAppTemplate{UserID: "u1", Name: "Follow-up", Body: "Hello {{name}} from {{my_name}}"}
	foreign := &domain.WhatsAppTemplate{UserID: "u2", Name: "Other", Body: "x"}
	for _, tpl := range []*domain.WhatsAppTemplate{a, b, foreign} {
		if err := CreateTemplate(ctx, db, tpl); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	got, err := ListTemplates(ctx, db, "u1")
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d; want 2", len(got))
	}
}

func TestSetActiveTemplate_SingletonInvariant(t *testing.T) {
	db := newRepoDB(t, &domain.WhatsAppTemplate{})
	ctx := context.Background()

	a := &domain.WhatsAppTemplate{UserID: "u1", Name: "A", Body: "a", IsActive: true}
	b := &domain.WhatsAppTemplate{UserID: "u1", Name: "B", Body: "b"}
	other := &domain.WhatsAppTemplate{UserID: "u2", Name: "C", Body: "c", IsActive: true}
	for _, tpl := range []*domain.WhatsAppTemplate{a, b, other} {
		if err := CreateTemplate(ctx, db, tpl); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	if err := SetActiveTemplate(ctx, db, b.ID, "u1"); err != nil {
		t.Fatalf("SetActiveTemplate: %v", err)
	}

	active, err := GetActiveTemplate(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetActiveTemplate: %v", err)
	}
	if active.ID != b.ID {
		t.Fatalf("active = %s; want %s", active.ID, b.ID)
	}

	var count int64
	if err := db.Model(&domain.WhatsAppTemplate{}).
		Where("user_id = ? AND is_active = ?", "u1", true).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("active rows for u1 = %d; want exactly 1", count)
	}

	// Another user's active flag is untouched.
	if _, err := GetActiveTemplate(ctx, db, "u2"); err != nil {
		t.Fatalf("u2 active template lost: %v", err)
	}
}

func TestSetActiveTemplate_ForeignOwnerIsNotFound(t *testing.T) {
	db := newRepoDB(t, &domain.WhatsAppTemplate{})
	ctx := context.Background()

	a := &domain.WhatsAppTemplate{UserID: "u1", Name: "A", Body: "a"}
	if err := CreateTemplate(ctx, db, a); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := SetActiveTemplate(ctx, db, a.ID, "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestUpdateTemplate_And_Delete(t *testing.T) {
	db := newRepoDB(t, &domain.WhatsAppTemplate{})
	ctx := context.Background()

	a := &domain.WhatsAppTemplate{UserID: "u1", Name: "A", Body: "a"}
	if err := CreateTemplate(ctx, db, a); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := UpdateTemplate(ctx, db, a.ID, "u1", "Renamed", "new body {{company}}"); err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	got, err := GetTemplate(ctx, db, a.ID, "u1")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if got.Name != "Renamed" || got.Body != "new body {{company}}" {
		t.Fatalf("mismatch: %+v", got)
	}

	if err := DeleteTemplate(ctx, db, a.ID, "u1"); err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
	if _, err := GetTemplate(ctx, db, a.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted template err = %v; want ErrNotFound", err)
	}
}
