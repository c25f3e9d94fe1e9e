// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Contact
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a contact is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Ownership is enforced at this layer: every lookup and mutation is scoped to
// the owning user's id, so a valid contact id belonging to another user
// behaves exactly like a missing record.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateContact inserts c owned by its OwnerUserID. The contact ID is a
// randomly generated UUID and CreatedAt is set to UTC unless already set.
func CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(c).Error
}

// ListContacts returns all contacts belonging to ownerID, ordered by creation
// time descending (most recent first). It returns an empty slice if the user
// has no contacts.
func ListContacts(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Contact, error) {
	var out []domain.Contact
	err := db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountContacts returns the total number of contacts owned by ownerID.
func CountContacts(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("owner_user_id = ?", ownerID).
		Count(&total).Error
	return total, err
}

// GetContact fetches a single contact by its ID and owner. If the record does
// not exist (or belongs to another user), it returns ErrNotFound.
func GetContact(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Contact, error) {
	var c domain.Contact
	err := db.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContactTags replaces the tag list of a contact, enforcing ownership.
// Returns ErrNotFound when no row matches.
func UpdateContactTags(ctx context.Context, db *gorm.DB, id, ownerID string, tags domain.TagList) error {
	res := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		Update("tags", tags)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateContactNotes replaces the free-form notes of a contact, enforcing
// ownership. Returns ErrNotFound when no row matches.
func UpdateContactNotes(ctx context.Context, db *gorm.DB, id, ownerID, notes string) error {
	res := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateMeetingNotes replaces the stored meeting minutes of a contact,
// enforcing ownership. Returns ErrNotFound when no row matches.
func UpdateMeetingNotes(ctx context.Context, db *gorm.DB, id, ownerID, minutes string) error {
	res := db.WithContext(ctx).
		Model(&domain.Contact{}).
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		Update("meeting_notes", minutes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteContact soft-deletes a contact, enforcing ownership. Returns
// ErrNotFound when no row matches.
func DeleteContact(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_user_id = ?", id, ownerID).
		Delete(&domain.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
