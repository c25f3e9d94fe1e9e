// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// BusinessCard model.
//
// Public lookups resolve a slug against default cards first and fall back to
// personal cards, matching the viewer's resolution order. Owner lookups are
// keyed by (user_id, card_type), which carries a unique index.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// CreateCard inserts a new card. The card ID is a randomly generated UUID and
// CreatedAt is set to UTC unless already set.
func CreateCard(ctx context.Context, db *gorm.DB, c *domain.BusinessCard) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(c).Error
}

// GetCardByUser fetches the user's card of the given type, or ErrNotFound.
func GetCardByUser(ctx context.Context, db *gorm.DB, userID string, cardType domain.CardType) (*domain.BusinessCard, error) {
	var c domain.BusinessCard
	err := db.WithContext(ctx).
		Where("user_id = ? AND card_type = ?", userID, cardType).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetDefaultCardBySlug fetches the card marked default for the given slug, or
// ErrNotFound.
func GetDefaultCardBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.BusinessCard, error) {
	var c domain.BusinessCard
	err := db.WithContext(ctx).
		Where("slug = ? AND is_default = ?", slug, true).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetPersonalCardBySlug fetches the personal card for the given slug, or
// ErrNotFound. Used as the fallback when no default card carries the slug.
func GetPersonalCardBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.BusinessCard, error) {
	var c domain.BusinessCard
	err := db.WithContext(ctx).
		Where("slug = ? AND card_type = ?", slug, domain.CardTypePersonal).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCard persists the full state of an existing card, including fields
// cleared to NULL. The card must carry its primary key.
func SaveCard(ctx context.Context, db *gorm.DB, c *domain.BusinessCard) error {
	return db.WithContext(ctx).Save(c).Error
}

// UpdateCardSummary writes the generated profile summary of a card, enforcing
// ownership. Returns ErrNotFound when no row matches.
func UpdateCardSummary(ctx context.Context, db *gorm.DB, id, userID, summary string) error {
	res := db.WithContext(ctx).
		Model(&domain.BusinessCard{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("ai_summary", summary)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
