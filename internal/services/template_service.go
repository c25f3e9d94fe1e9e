// Package services – TemplateService
//
// This file implements the TemplateService, which manages per-user WhatsApp
// outreach templates and renders the active one against a contact. The
// at-most-one-active invariant is delegated to the repository's transactional
// clear-then-set; this layer validates inputs and substitutes placeholders.
package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// TemplateRepo defines the repository contract required by TemplateService.
type TemplateRepo interface {
	CreateTemplate(ctx context.Context, db *gorm.DB, t *domain.WhatsAppTemplate) error
	ListTemplates(ctx context.Context, db *gorm.DB, userID string) ([]domain.WhatsAppTemplate, error)
	GetTemplate(ctx context.Context, db *gorm.DB, id, userID string) (*domain.WhatsAppTemplate, error)
	GetActiveTemplate(ctx context.Context, db *gorm.DB, userID string) (*domain.WhatsAppTemplate, error)
	UpdateTemplate(ctx context.Context, db *gorm.DB, id, userID, name, body string) error
	DeleteTemplate(ctx context.Context, db *gorm.DB, id, userID string) error
	SetActiveTemplate(ctx context.Context, db *gorm.DB, id, userID string) error
}

// TemplateService provides WhatsApp template CRUD and rendering.
type TemplateService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the template repository used by this service.
	Repo TemplateRepo
}

// Rendered is the outcome of substituting a template against a contact.
type Rendered struct {
	// Message is the template body with placeholders substituted.
	Message string
	// WaLink is a click-to-chat URL, empty when the contact has no WhatsApp
	// number.
	WaLink string
}

// Create validates and stores a new template. The first template a user
// creates becomes active automatically.
func (s *TemplateService) Create(ctx context.Context, userID, name, body string) (*domain.WhatsAppTemplate, error) {
	name = strings.TrimSpace(name)
	body = strings.TrimSpace(body)
	if name == "" || body == "" {
		return nil, ErrEmptyTemplate
	}

	existing, err := s.Repo.ListTemplates(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	t := &domain.WhatsAppTemplate{
		UserID:   userID,
		Name:     name,
		Body:     body,
		IsActive: len(existing) == 0,
	}
	if err := s.Repo.CreateTemplate(ctx, s.DB, t); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns the user's templates, most recent first.
func (s *TemplateService) List(ctx context.Context, userID string) ([]domain.WhatsAppTemplate, error) {
	return s.Repo.ListTemplates(ctx, s.DB, userID)
}

// Update validates and rewrites the name and body of an owned template.
func (s *TemplateService) Update(ctx context.Context, userID, id, name, body string) error {
	name = strings.TrimSpace(name)
	body = strings.TrimSpace(body)
	if name == "" || body == "" {
		return ErrEmptyTemplate
	}
	err := s.Repo.UpdateTemplate(ctx, s.DB, id, userID, name, body)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// Delete removes an owned template.
func (s *TemplateService) Delete(ctx context.Context, userID, id string) error {
	err := s.Repo.DeleteTemplate(ctx, s.DB, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// SetActive marks one owned template active and deactivates the rest.
func (s *TemplateService) SetActive(ctx context.Context, userID, id string) error {
	err := s.Repo.SetActiveTemplate(ctx, s.DB, id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTemplateNotFound
	}
	return err
}

// RenderActive substitutes the user's active template against a contact.
// Placeholders: {{name}} and {{company}} come from the contact, {{my_name}}
// is the sender's display name.
func (s *TemplateService) RenderActive(ctx context.Context, userID string, contact *domain.Contact, myName string) (*Rendered, error) {
	t, err := s.Repo.GetActiveTemplate(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveTemplate
		}
		return nil, err
	}
	return renderTemplate(t.Body, contact, myName), nil
}

// Render substitutes a specific owned template against a contact.
func (s *TemplateService) Render(ctx context.Context, userID, id string, contact *domain.Contact, myName string) (*Rendered, error) {
	t, err := s.Repo.GetTemplate(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return renderTemplate(t.Body, contact, myName), nil
}

func renderTemplate(body string, contact *domain.Contact, myName string) *Rendered {
	company := ""
	if contact.Company != nil {
		company = *contact.Company
	}
	msg := strings.NewReplacer(
		"{{name}}", contact.Name,
		"{{company}}", company,
		"{{my_name}}", myName,
	).Replace(body)

	out := &Rendered{Message: msg}
	if contact.Whatsapp != nil {
		if digits := waDigits(*contact.Whatsapp); digits != "" {
			out.WaLink = "https://wa.me/" + digits + "?text=" + url.QueryEscape(msg)
		}
	}
	return out
}

// waDigits strips everything but digits for the wa.me path segment.
func waDigits(number string) string {
	var b strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
