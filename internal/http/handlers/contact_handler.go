// CRM contact HTTP handlers.
//
// This file exposes the authenticated contact endpoints:
//   - GET    /contacts               (list, filtered and paginated, ETag support)
//   - GET    /contacts/export        (CSV download)
//   - POST   /contacts/seed-first    (first contact from the scanned card)
//   - PUT    /contacts/{id}/tags     (single-contact tag edit)
//   - POST   /contacts/bulk/tags     (additive bulk tag apply, idempotent)
//   - PUT    /contacts/{id}/notes    (free-form notes)
//   - DELETE /contacts/{id}          (soft delete)
package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/crm"
	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/http/middleware"
	"github.com/cardlink/go-cardlink-backend/internal/repo"
	"github.com/cardlink/go-cardlink-backend/internal/services"
	"github.com/cardlink/go-cardlink-backend/internal/tags"
)

// bulkTagTTL bounds how long a completed bulk apply suppresses replays.
const bulkTagTTL = 24 * time.Hour

// ContactService defines the CRM operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ContactService interface {
	// Share records a visitor's details as a contact of the card owner.
	Share(ctx context.Context, ownerID string, in services.ShareInput) (*domain.Contact, error)
	// SeedFromCard creates the first contact from a scanned card.
	SeedFromCard(ctx context.Context, ownerID string, card *domain.BusinessCard) (*domain.Contact, error)
	// List returns a filtered page of contacts and the filtered total.
	List(ctx context.Context, ownerID string, f crm.Filter, page, pageSize int) ([]domain.Contact, int64, error)
	// Get returns one owned contact.
	Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	// UpdateTags replaces a contact's tags from a single-contact edit.
	UpdateTags(ctx context.Context, ownerID, contactID string, edit tags.Edit) (*domain.Contact, error)
	// ApplyTags adds a tag set to many contacts, tallying failures.
	ApplyTags(ctx context.Context, ownerID string, contactIDs []string, edit tags.Edit) (successCount, failCount int, err error)
	// SaveNotes replaces a contact's notes.
	SaveNotes(ctx context.Context, ownerID, contactID, notes string) error
	// Delete soft-deletes a contact.
	Delete(ctx context.Context, ownerID, contactID string) error
	// ExportCSV streams the full contact list as CSV.
	ExportCSV(ctx context.Context, ownerID string, w io.Writer) error
}

//
// DTOs
//

// TagEditRequest is the JSON payload of a tag edit (single or bulk).
type TagEditRequest struct {
	CategoryTags []string `json:"category_tags"`
	CustomTag    string   `json:"custom_tag"`
	EventEnabled bool     `json:"event_enabled"`
	EventName    string   `json:"event_name"`
}

func (r TagEditRequest) edit() tags.Edit {
	return tags.Edit{
		CategoryTags: r.CategoryTags,
		CustomTag:    r.CustomTag,
		EventEnabled: r.EventEnabled,
		EventName:    r.EventName,
	}
}

// BulkTagRequest targets a set of contacts with one tag edit.
type BulkTagRequest struct {
	ContactIDs []string `json:"contact_ids" binding:"required"`
	TagEditRequest
}

// BulkTagResponse reports the per-batch outcome.
type BulkTagResponse struct {
	SuccessCount int  `json:"success_count"`
	FailCount    int  `json:"fail_count"`
	Replayed     bool `json:"replayed,omitempty"`
}

// NotesRequest is the JSON payload for saving contact notes.
type NotesRequest struct {
	Notes string `json:"notes"`
}

// SeedFirstRequest names the card the new user signed up from.
type SeedFirstRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// ListContactsResponse wraps a page of contacts and pagination information.
type ListContactsResponse struct {
	Contacts   []domain.Contact `json:"contacts"`
	Pagination Pagination       `json:"pagination"`
}

// contactFilter builds the list filter from query params q, tag, and date.
func contactFilter(c *gin.Context) crm.Filter {
	return crm.Filter{
		Query: c.Query("q"),
		Tag:   c.Query("tag"),
		Date:  crm.DateRange(c.DefaultQuery("date", "all")),
	}
}

//
// Handlers
//

// ListContacts godoc
// @ID          listContacts
// @Summary     List contacts (filtered, paginated)
// @Description Returns a page of the user's contacts. Supports q/tag/date filters and weak ETag via If-None-Match.
// @Tags        Contacts
// @Produce     json
// @Param       q         query string false "Substring match on name, email, or phone"
// @Param       tag       query string false "Exact tag filter; All matches everything"
// @Param       date      query string false "all, today, 7days, 30days, or 90days"
// @Param       page      query int    false "Page number" minimum(1) default(1)
// @Param       page_size query int    false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200 {object} handlers.ListContactsResponse
// @Header      200 {string} ETag "Weak ETag for current result"
// @Success     304 {string} string "Not Modified"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /contacts [get]
func (h *Handlers) ListContacts(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := h.contactDB(); db != nil {
		count, maxTS, err := repo.ContactsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"contacts:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.contactSvc.List(ctx, uid, contactFilter(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListContactsResponse{
		Contacts: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// ExportContacts godoc
// @ID          exportContacts
// @Summary     Export all contacts as CSV
// @Tags        Contacts
// @Produce     text/csv
// @Success     200 {string} string "CSV payload"
// @Failure     500 {object} handlers.ErrorResponse "Export failed"
// @Router      /contacts/export [get]
func (h *Handlers) ExportContacts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.contactSvc.ExportCSV(c.Request.Context(), userID(c), &buf); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeExportFailed, err.Error())
		return
	}
	c.Header("Content-Disposition", `attachment; filename="contacts.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// SeedFirstContact godoc
// @ID          seedFirstContact
// @Summary     Seed the first contact from a scanned card
// @Description Creates the new user's first CRM contact from the public card they scanned before signing up.
// @Tags        Contacts
// @Accept      json
// @Produce     json
// @Param       body body handlers.SeedFirstRequest true "Scanned card slug"
// @Success     201 {object} domain.Contact
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Card not found"
// @Router      /contacts/seed-first [post]
func (h *Handlers) SeedFirstContact(c *gin.Context) {
	var req SeedFirstRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "slug required")
		return
	}

	card, err := h.cardSvc.PublicBySlug(c.Request.Context(), req.Slug)
	if err != nil {
		publicCardError(c, err)
		return
	}

	contact, err := h.contactSvc.SeedFromCard(c.Request.Context(), userID(c), card)
	if err != nil {
		if err == services.ErrMissingName {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "scanned card has no name")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, contact)
}

// UpdateContactTags godoc
// @ID          updateContactTags
// @Summary     Replace a contact's tags
// @Description Applies a single-contact tag edit; at most one event tag survives.
// @Tags        Contacts
// @Accept      json
// @Produce     json
// @Param       id   path string                  true "Contact ID"
// @Param       body body handlers.TagEditRequest true "Tag edit"
// @Success     200 {object} domain.Contact
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Contact not found"
// @Router      /contacts/{id}/tags [put]
func (h *Handlers) UpdateContactTags(c *gin.Context) {
	var req TagEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	contact, err := h.contactSvc.UpdateTags(c.Request.Context(), userID(c), c.Param("id"), req.edit())
	if err != nil {
		contactError(c, err)
		return
	}
	ok(c, http.StatusOK, contact)
}

// BulkApplyTags godoc
// @ID          bulkApplyTags
// @Summary     Add tags to many contacts
// @Description Adds the edit's tag set to each targeted contact; existing tags, event tags included, are preserved. Supports Idempotency-Key.
// @Tags        Contacts
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string                  false "Safe-retry key"
// @Param       body            body   handlers.BulkTagRequest true  "Targets and tag edit"
// @Success     200 {object} handlers.BulkTagResponse
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Router      /contacts/bulk/tags [post]
func (h *Handlers) BulkApplyTags(c *gin.Context) {
	if middleware.IsReplay(c) {
		ok(c, http.StatusOK, BulkTagResponse{Replayed: true})
		return
	}

	var req BulkTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	uid := userID(c)
	success, failed, err := h.contactSvc.ApplyTags(c.Request.Context(), uid, req.ContactIDs, req.edit())
	if err != nil {
		if err == services.ErrNoContacts {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "contact_ids must not be empty")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}

	// Record the completion so retries with the same key replay instead of
	// re-applying. Best effort: a write failure only weakens dedup.
	if key, hasKey := middleware.GetIdempotencyKey(c); hasKey {
		if db := h.contactDB(); db != nil {
			scope := c.FullPath()
			if _, err := repo.CreateIdempotency(c.Request.Context(), db, uid, scope, key, http.StatusOK, bulkTagTTL); err != nil && err != repo.ErrDuplicate {
				middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not persisted")
			}
		}
	}

	ok(c, http.StatusOK, BulkTagResponse{SuccessCount: success, FailCount: failed})
}

// SaveContactNotes godoc
// @ID          saveContactNotes
// @Summary     Save a contact's notes
// @Tags        Contacts
// @Accept      json
// @Success     204 {string} string "No Content"
// @Failure     404 {object} handlers.ErrorResponse "Contact not found"
// @Router      /contacts/{id}/notes [put]
func (h *Handlers) SaveContactNotes(c *gin.Context) {
	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.contactSvc.SaveNotes(c.Request.Context(), userID(c), c.Param("id"), req.Notes); err != nil {
		contactError(c, err)
		return
	}
	noContent(c)
}

// DeleteContact godoc
// @ID          deleteContact
// @Summary     Delete a contact
// @Tags        Contacts
// @Success     204 {string} string "No Content"
// @Failure     404 {object} handlers.ErrorResponse "Contact not found"
// @Router      /contacts/{id} [delete]
func (h *Handlers) DeleteContact(c *gin.Context) {
	if err := h.contactSvc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		contactError(c, err)
		return
	}
	noContent(c)
}

// contactDB exposes the GORM handle for conditional-response and idempotency
// queries when the concrete service is in use.
func (h *Handlers) contactDB() *gorm.DB {
	if svc, ok := h.contactSvc.(*services.ContactService); ok {
		return svc.DB
	}
	return nil
}

// contactError translates contact lookup failures to HTTP responses.
func contactError(c *gin.Context, err error) {
	if err == services.ErrContactNotFound {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")
		return
	}
	fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
}
