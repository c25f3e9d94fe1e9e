// Package domain defines the persistence model of the card service.
//
// Three aggregates exist: BusinessCard (the editable card plus its public
// projection), Contact (a CRM entry collected through a card share), and
// WhatsAppTemplate (per-user outreach message bodies). All tables use char(36)
// UUID primary keys assigned by the repo layer and GORM soft deletes.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CardType discriminates a user's cards. Only one card per (user, type).
type CardType string

const (
	CardTypePersonal CardType = "personal"
	CardTypeWork     CardType = "work"
)

// TagList stores a contact's tags as a JSON array in a TEXT column. SQLite has
// no native array type; JSON keeps the stored form readable and portable.
type TagList []string

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, fmt.Errorf("marshal tag list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tag list type %T", src)
	}
	if len(raw) == 0 {
		*t = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("unmarshal tag list: %w", err)
	}
	*t = out
	return nil
}

// Contact is one CRM entry owned by the user whose card was shared. It is
// created either by the public share form on a card page or by the
// first-contact seeding flow after a signup-from-scan.
type Contact struct {
	ID           string  `gorm:"type:char(36);primaryKey" json:"id"`
	OwnerUserID  string  `gorm:"size:64;not null;index:idx_owner_contacts" json:"owner_user_id"`
	ViewerUserID *string `gorm:"size:64" json:"viewer_user_id,omitempty"`

	Name        string  `gorm:"size:255;not null" json:"name"`
	Company     *string `gorm:"size:255" json:"company,omitempty"`
	Designation *string `gorm:"size:255" json:"designation,omitempty"`
	Email       *string `gorm:"size:255" json:"email,omitempty"`
	Mobile      *string `gorm:"size:32" json:"mobile,omitempty"`
	Whatsapp    *string `gorm:"size:32" json:"whatsapp,omitempty"`
	LinkedinURL *string `gorm:"size:512" json:"linkedin_url,omitempty"`
	AvatarURL   *string `gorm:"size:512" json:"avatar_url,omitempty"`

	Tags         TagList `gorm:"type:text" json:"tags"`
	Notes        *string `gorm:"type:text" json:"notes,omitempty"`
	MeetingNotes *string `gorm:"type:text" json:"meeting_notes,omitempty"`

	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides GORM's default.
func (Contact) TableName() string { return "contacts" }

// BusinessCard is the editable card. Optional profile fields are pointers so
// an empty edit round-trips as NULL rather than "".
type BusinessCard struct {
	ID       string   `gorm:"type:char(36);primaryKey" json:"id"`
	UserID   string   `gorm:"size:64;not null;uniqueIndex:ux_user_card_type" json:"user_id"`
	CardType CardType `gorm:"size:16;not null;default:personal;uniqueIndex:ux_user_card_type" json:"card_type"`

	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
	Slug      string `gorm:"size:255;index" json:"slug"`

	Name        string `gorm:"size:255" json:"name"`
	JobTitle    string `gorm:"size:255" json:"job_title"`
	CompanyName string `gorm:"size:255" json:"company_name"`

	Mobile    *string `gorm:"size:32" json:"mobile,omitempty"`
	Email     *string `gorm:"size:255" json:"email,omitempty"`
	Website   *string `gorm:"size:512" json:"website,omitempty"`
	Whatsapp  *string `gorm:"size:32" json:"whatsapp,omitempty"`
	Linkedin  *string `gorm:"size:512" json:"linkedin,omitempty"`
	About     *string `gorm:"type:text" json:"about,omitempty"`
	PhotoURL  *string `gorm:"size:512" json:"photo_url,omitempty"`
	LogoURL   *string `gorm:"size:512" json:"logo_url,omitempty"`
	AISummary *string `gorm:"type:text" json:"ai_summary,omitempty"`

	// LayoutStyle selects one of the fixed card layouts (1..5).
	LayoutStyle int `gorm:"not null;default:1" json:"layout_style"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides GORM's default.
func (BusinessCard) TableName() string { return "business_cards" }

// WhatsAppTemplate is a per-user outreach message body. Placeholders
// {{name}}, {{company}} and {{my_name}} are substituted at render time.
// At most one template per user has IsActive set.
type WhatsAppTemplate struct {
	ID       string `gorm:"type:char(36);primaryKey" json:"id"`
	UserID   string `gorm:"size:64;not null;index:idx_user_templates" json:"user_id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Body     string `gorm:"type:text;not null" json:"body"`
	IsActive bool   `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides GORM's default.
func (WhatsAppTemplate) TableName() string { return "whatsapp_templates" }

// Idempotency records a processed mutation key so retries of the same request
// can be answered without re-running the mutation. Uniqueness spans
// (user, scope, key); records expire after a configured TTL.
type Idempotency struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:ux_idem_user_scope_key" json:"user_id"`
	Scope     string    `gorm:"size:64;not null;uniqueIndex:ux_idem_user_scope_key" json:"scope"`
	Key       string    `gorm:"size:128;not null;uniqueIndex:ux_idem_user_scope_key" json:"key"`
	Status    int       `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// TableName overrides GORM's default.
func (Idempotency) TableName() string { return "idempotency_keys" }
