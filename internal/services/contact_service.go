// Package services – ContactService
//
// This file implements the ContactService, which manages the CRM contact
// list: intake from the public share form, first-contact seeding after a
// signup-from-scan, filtered listing, tag edits (single and bulk), notes and
// meeting minutes, soft deletion, and CSV export.
//
// Bulk tag application follows additive-only semantics: each targeted
// contact's tag list becomes the set union of its existing tags and the tags
// being added. Per-contact failures are tallied and never abort the batch;
// callers re-fetch the list afterwards for the authoritative state.
package services

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/crm"
	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/tags"
)

// ContactRepo defines the repository contract required by ContactService.
type ContactRepo interface {
	CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error
	ListContacts(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Contact, error)
	GetContact(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Contact, error)
	UpdateContactTags(ctx context.Context, db *gorm.DB, id, ownerID string, tags domain.TagList) error
	UpdateContactNotes(ctx context.Context, db *gorm.DB, id, ownerID, notes string) error
	UpdateMeetingNotes(ctx context.Context, db *gorm.DB, id, ownerID, minutes string) error
	DeleteContact(ctx context.Context, db *gorm.DB, id, ownerID string) error
}

// ContactService provides CRM operations over a user's contacts.
type ContactService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the contact repository used by this service.
	Repo ContactRepo

	// DefaultRegion is the ISO region used to parse national phone numbers
	// into E.164 (e.g. "IN", "US").
	DefaultRegion string
}

// ShareInput is the payload of the public share form on a card page.
type ShareInput struct {
	Name         string
	Company      string
	Designation  string
	Email        string
	Mobile       string
	Whatsapp     string
	LinkedinURL  string
	Notes        string
	ViewerUserID string
}

// Share records a visitor's details as a contact of the card owner. Name is
// required; phone fields are normalized to E.164 when parseable, otherwise
// the raw value is kept.
func (s *ContactService) Share(ctx context.Context, ownerID string, in ShareInput) (*domain.Contact, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	c := &domain.Contact{
		OwnerUserID:  ownerID,
		ViewerUserID: optional(in.ViewerUserID),
		Name:         name,
		Company:      optional(in.Company),
		Designation:  optional(in.Designation),
		Email:        optional(in.Email),
		Mobile:       optional(s.normalizePhone(in.Mobile)),
		Whatsapp:     optional(s.normalizePhone(in.Whatsapp)),
		LinkedinURL:  optional(in.LinkedinURL),
		Notes:        optional(in.Notes),
		Tags:         domain.TagList{},
	}
	if err := s.Repo.CreateContact(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// SeedFromCard creates the first CRM contact for a freshly signed-up user
// from the card they scanned before registering. The card owner's public
// fields become the contact.
func (s *ContactService) SeedFromCard(ctx context.Context, ownerID string, card *domain.BusinessCard) (*domain.Contact, error) {
	name := strings.TrimSpace(card.Name)
	if name == "" {
		return nil, ErrMissingName
	}

	c := &domain.Contact{
		OwnerUserID: ownerID,
		Name:        name,
		Company:     optional(card.CompanyName),
		Designation: optional(card.JobTitle),
		Email:       copyPtr(card.Email),
		Mobile:      copyPtr(card.Mobile),
		Whatsapp:    copyPtr(card.Whatsapp),
		LinkedinURL: copyPtr(card.Linkedin),
		AvatarURL:   copyPtr(card.PhotoURL),
		Tags:        domain.TagList{"New"},
	}
	if err := s.Repo.CreateContact(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns a page of the owner's contacts after applying f. The filter is
// evaluated in memory over the full list so the returned total reflects the
// filtered count, keeping page numbers stable for a given filter.
func (s *ContactService) List(ctx context.Context, ownerID string, f crm.Filter, page, pageSize int) ([]domain.Contact, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	all, err := s.Repo.ListContacts(ctx, s.DB, ownerID)
	if err != nil {
		return nil, 0, err
	}
	matched := f.Apply(all)
	total := int64(len(matched))

	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.Contact{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

// Get returns one owned contact.
func (s *ContactService) Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	c, err := s.Repo.GetContact(ctx, s.DB, contactID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	return c, err
}

// UpdateTags replaces a contact's tag list with the normalized result of a
// single-contact edit.
func (s *ContactService) UpdateTags(ctx context.Context, ownerID, contactID string, edit tags.Edit) (*domain.Contact, error) {
	if _, err := s.Repo.GetContact(ctx, s.DB, contactID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}

	next := tags.Normalize(edit)
	if err := s.Repo.UpdateContactTags(ctx, s.DB, contactID, ownerID, next); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return s.Repo.GetContact(ctx, s.DB, contactID, ownerID)
}

// ApplyTags adds the edit's tag set to every targeted contact. Each contact's
// result is the set union of its existing tags and the tags to add; existing
// event tags are left in place. Per-contact failures (missing ids, rows owned
// by someone else, write errors) increment failCount and never abort the
// batch.
func (s *ContactService) ApplyTags(ctx context.Context, ownerID string, contactIDs []string, edit tags.Edit) (successCount, failCount int, err error) {
	if len(contactIDs) == 0 {
		return 0, 0, ErrNoContacts
	}
	toAdd := edit.TagsToAdd()

	for _, id := range contactIDs {
		c, getErr := s.Repo.GetContact(ctx, s.DB, id, ownerID)
		if getErr != nil {
			failCount++
			continue
		}
		merged := tags.Merge(c.Tags, toAdd)
		if updErr := s.Repo.UpdateContactTags(ctx, s.DB, id, ownerID, merged); updErr != nil {
			failCount++
			continue
		}
		successCount++
	}
	return successCount, failCount, nil
}

// SaveNotes replaces a contact's free-form notes.
func (s *ContactService) SaveNotes(ctx context.Context, ownerID, contactID, notes string) error {
	err := s.Repo.UpdateContactNotes(ctx, s.DB, contactID, ownerID, notes)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrContactNotFound
	}
	return err
}

// SaveMeetingNotes replaces a contact's stored meeting minutes.
func (s *ContactService) SaveMeetingNotes(ctx context.Context, ownerID, contactID, minutes string) error {
	err := s.Repo.UpdateMeetingNotes(ctx, s.DB, contactID, ownerID, minutes)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrContactNotFound
	}
	return err
}

// Delete soft-deletes a contact.
func (s *ContactService) Delete(ctx context.Context, ownerID, contactID string) error {
	err := s.Repo.DeleteContact(ctx, s.DB, contactID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrContactNotFound
	}
	return err
}

// csvHeader is the column order of the contact export.
var csvHeader = []string{
	"id", "name", "company", "designation", "phone", "whatsapp",
	"email", "linkedin", "tags", "createdAt", "notes",
}

// ExportCSV writes the owner's full contact list to w as CSV, tags joined
// with commas inside one cell and timestamps in RFC 3339.
func (s *ContactService) ExportCSV(ctx context.Context, ownerID string, w io.Writer) error {
	contacts, err := s.Repo.ListContacts(ctx, s.DB, ownerID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range contacts {
		row := []string{
			c.ID,
			c.Name,
			deref(c.Company),
			deref(c.Designation),
			deref(c.Mobile),
			deref(c.Whatsapp),
			deref(c.Email),
			deref(c.LinkedinURL),
			strings.Join(c.Tags, ","),
			c.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
			deref(c.Notes),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// normalizePhone converts raw to E.164 when it parses as a valid number in
// the configured region; otherwise the trimmed raw value is returned so no
// user input is silently dropped.
func (s *ContactService) normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	region := s.DefaultRegion
	if region == "" {
		region = "IN"
	}
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsPossibleNumber(num) || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// optional converts a form string to a nullable column value.
func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// copyPtr deep-copies a nullable field so aggregates never share backing
// strings.
func copyPtr(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := *p
	return &v
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
