// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// WhatsAppTemplate model.
//
// The active-template invariant (at most one IsActive row per user) is
// enforced by SetActiveTemplate, which clears and sets inside a single
// transaction so a crash can never leave two active rows.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// CreateTemplate inserts t owned by its UserID. The ID is a randomly
// generated UUID and CreatedAt is set to UTC unless already set.
func CreateTemplate(ctx context.Context, db *gorm.DB, t *domain.WhatsAppTemplate) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(t).Error
}

// ListTemplates returns all templates belonging to userID, most recent first.
func ListTemplates(ctx context.Context, db *gorm.DB, userID string) ([]domain.WhatsAppTemplate, error) {
	var out []domain.WhatsAppTemplate
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// GetTemplate fetches a single template by its ID and owner, or ErrNotFound.
func GetTemplate(ctx context.Context, db *gorm.DB, id, userID string) (*domain.WhatsAppTemplate, error) {
	var t domain.WhatsAppTemplate
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetActiveTemplate fetches the user's active template, or ErrNotFound when
// none is active.
func GetActiveTemplate(ctx context.Context, db *gorm.DB, userID string) (*domain.WhatsAppTemplate, error) {
	var t domain.WhatsAppTemplate
	err := db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTemplate updates the name and body of a template, enforcing
// ownership. Returns ErrNotFound when no row matches.
func UpdateTemplate(ctx context.Context, db *gorm.DB, id, userID, name, body string) error {
	res := db.WithContext(ctx).
		Model(&domain.WhatsAppTemplate{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"name": name, "body": body})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteTemplate soft-deletes a template, enforcing ownership. Returns
// ErrNotFound when no row matches.
func DeleteTemplate(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.WhatsAppTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetActiveTemplate marks one template active and clears the flag on every
// other template of the same user, in one transaction. Returns ErrNotFound
// when id does not exist or is not owned by userID.
func SetActiveTemplate(ctx context.Context, db *gorm.DB, id, userID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.WhatsAppTemplate{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Model(&domain.WhatsAppTemplate{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return nil
	})
}

// IsNotFound reports whether err is the missing-record sentinel, wrapped or
// not.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
