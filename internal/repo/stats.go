// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// ContactsStats returns aggregate metadata for a user's contacts: the total
// number of rows and the maximum UpdatedAt timestamp among those rows.
//
// When the user has no contacts, the returned count is 0 and maxUpdatedAt is
// nil. The pair feeds the weak ETag of the contact list endpoint, so any
// insert, tag edit or notes write changes the tag value.
func ContactsStats(ctx context.Context, db *gorm.DB, ownerID string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Contact{}).Where("owner_user_id = ?", ownerID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
