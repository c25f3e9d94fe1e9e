// Card editor HTTP handlers.
//
// This file exposes the authenticated card endpoints:
//   - GET  /my-card          (load, creating an empty card on first access)
//   - PUT  /my-card          (save editor state)
//   - POST /my-card/assets   (upload photo or logo)
//   - GET  /my-card/vcard    (download own card as .vcf)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/http/middleware"
	"github.com/cardlink/go-cardlink-backend/internal/services"
	"github.com/cardlink/go-cardlink-backend/internal/storage"
	"github.com/cardlink/go-cardlink-backend/internal/utils"
	"github.com/cardlink/go-cardlink-backend/internal/vcard"
)

//
// Service contracts (context-aware)
//

// CardService defines card lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CardService interface {
	// LoadOrCreate returns the user's personal card, creating it on first use.
	LoadOrCreate(ctx context.Context, userID, email string) (*domain.BusinessCard, error)
	// Save validates and persists the editor state, regenerating the slug.
	Save(ctx context.Context, userID string, in services.CardInput) (*domain.BusinessCard, error)
	// SetAssetURL stores an uploaded asset URL on the card.
	SetAssetURL(ctx context.Context, userID, kind, url string) (*domain.BusinessCard, error)
	// PublicBySlug resolves a shared card URL.
	PublicBySlug(ctx context.Context, slug string) (*domain.BusinessCard, error)
}

// SummaryService defines the AI text generation operations.
type SummaryService interface {
	// ProfessionalSummary generates and persists a short profile summary.
	ProfessionalSummary(ctx context.Context, userID string, in services.SummaryInput) (string, error)
	// MeetingMinutes generates minutes from a transcript and stores them on
	// the contact.
	MeetingMinutes(ctx context.Context, ownerID, contactID, transcript string) (string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for cards, contacts, templates, and
// generated text. It depends on abstract service interfaces to keep transport
// concerns separate from business logic.
type Handlers struct {
	cardSvc     CardService
	contactSvc  ContactService
	templateSvc TemplateService
	summarySvc  SummaryService
	uploader    storage.Uploader
}

// New constructs a Handlers instance bound to the given services. uploader
// may be nil when asset uploads are disabled.
func New(cardSvc CardService, contactSvc ContactService, templateSvc TemplateService, summarySvc SummaryService, uploader storage.Uploader) *Handlers {
	return &Handlers{
		cardSvc:     cardSvc,
		contactSvc:  contactSvc,
		templateSvc: templateSvc,
		summarySvc:  summarySvc,
		uploader:    uploader,
	}
}

// userID extracts the request identity via the shared middleware resolver
// (auth context key, then X-User-ID header, then the development default).
// Idempotency lookups resolve the same way, so replay detection and the
// completion record always agree on the user.
func userID(c *gin.Context) string {
	return middleware.UserID(c)
}

//
// DTOs
//

// CardRequest is the JSON payload of the card editor save.
type CardRequest struct {
	Name        string `json:"name" binding:"required" example:"Jane Doe"`
	JobTitle    string `json:"job_title" binding:"required" example:"CTO"`
	CompanyName string `json:"company_name" binding:"required" example:"ACME Corp"`
	Mobile      string `json:"mobile" example:"+919876543210"`
	Email       string `json:"email" example:"jane@acme.test"`
	Website     string `json:"website" example:"https://acme.test"`
	Whatsapp    string `json:"whatsapp" example:"+919876543210"`
	Linkedin    string `json:"linkedin" example:"https://linkedin.com/in/jane"`
	About       string `json:"about"`
	PhotoURL    string `json:"photo_url"`
	LogoURL     string `json:"logo_url"`
	LayoutStyle int    `json:"layout_style" example:"1"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params.
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// cardVCard builds the .vcf payload for a card.
func cardVCard(card *domain.BusinessCard) (filename, body string) {
	vc := vcard.Contact{
		Name:         card.Name,
		Organization: card.CompanyName,
	}
	if card.Email != nil {
		vc.Email = *card.Email
	}
	if card.Mobile != nil {
		vc.Mobile = *card.Mobile
	}
	if card.Whatsapp != nil {
		vc.Whatsapp = *card.Whatsapp
	}
	if card.Linkedin != nil {
		vc.Linkedin = *card.Linkedin
	}
	return vcard.Filename(card.Name), vcard.Generate(vc)
}

func serveVCard(c *gin.Context, card *domain.BusinessCard) {
	filename, body := cardVCard(card)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(body))
}

//
// Handlers
//

// GetMyCard godoc
// @ID          getMyCard
// @Summary     Load the current user's card
// @Description Returns the personal card, creating an empty one on first access.
// @Tags        Cards
// @Produce     json
// @Success     200 {object} domain.BusinessCard
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /my-card [get]
func (h *Handlers) GetMyCard(c *gin.Context) {
	email := strings.TrimSpace(c.GetHeader("X-User-Email"))
	card, err := h.cardSvc.LoadOrCreate(c.Request.Context(), userID(c), email)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, card)
}

// SaveMyCard godoc
// @ID          saveMyCard
// @Summary     Save the card editor state
// @Description Persists the full editor state and regenerates the public slug.
// @Tags        Cards
// @Accept      json
// @Produce     json
// @Param       body body handlers.CardRequest true "Card payload"
// @Success     200 {object} domain.BusinessCard
// @Failure     400 {object} handlers.ErrorResponse "Missing required fields"
// @Failure     500 {object} handlers.ErrorResponse "Internal error"
// @Router      /my-card [put]
func (h *Handlers) SaveMyCard(c *gin.Context) {
	var req CardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	card, err := h.cardSvc.Save(c.Request.Context(), userID(c), services.CardInput{
		Name:        req.Name,
		JobTitle:    req.JobTitle,
		CompanyName: req.CompanyName,
		Mobile:      req.Mobile,
		Email:       req.Email,
		Website:     req.Website,
		Whatsapp:    req.Whatsapp,
		Linkedin:    req.Linkedin,
		About:       req.About,
		PhotoURL:    req.PhotoURL,
		LogoURL:     req.LogoURL,
		LayoutStyle: req.LayoutStyle,
	})
	if err != nil {
		if err == services.ErrMissingRequiredFields {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, card)
}

// UploadAsset godoc
// @ID          uploadCardAsset
// @Summary     Upload a card asset
// @Description Accepts a multipart "file" and stores it as the photo or logo (query param "kind").
// @Tags        Cards
// @Accept      multipart/form-data
// @Produce     json
// @Param       kind query    string false "Asset kind: photo (default) or logo"
// @Param       file formData file   true  "Image file"
// @Success     200 {object} domain.BusinessCard
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Card not found"
// @Failure     500 {object} handlers.ErrorResponse "Upload failed"
// @Router      /my-card/assets [post]
func (h *Handlers) UploadAsset(c *gin.Context) {
	if h.uploader == nil {
		fail(c, http.StatusNotImplemented, ErrCodeUploadFailed, "asset storage not configured")
		return
	}

	kind := c.DefaultQuery("kind", "photo")
	if kind != "photo" && kind != "logo" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "kind must be photo or logo")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart file field required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable upload")
		return
	}
	defer f.Close()

	uid := userID(c)
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := storage.AssetKey(uid, kind, contentType)

	url, err := h.uploader.Upload(c.Request.Context(), key, contentType, f)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, err.Error())
		return
	}

	card, err := h.cardSvc.SetAssetURL(c.Request.Context(), uid, kind, url)
	if err != nil {
		if err == services.ErrCardNotFound {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "card not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, card)
}

// MyCardVCard godoc
// @ID          myCardVCard
// @Summary     Download own card as vCard
// @Tags        Cards
// @Produce     text/vcard
// @Success     200 {string} string "vCard 3.0 payload"
// @Failure     404 {object} handlers.ErrorResponse "Card not found"
// @Router      /my-card/vcard [get]
func (h *Handlers) MyCardVCard(c *gin.Context) {
	card, err := h.cardSvc.LoadOrCreate(c.Request.Context(), userID(c), "")
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	if strings.TrimSpace(card.Name) == "" {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "card has no details yet")
		return
	}
	serveVCard(c, card)
}
