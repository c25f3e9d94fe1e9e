// Public card HTTP handlers.
//
// This file exposes the unauthenticated endpoints behind a shared card URL:
//   - GET  /card/:slug        (view a published card)
//   - POST /card/:slug/share  (leave your details with the card owner)
//   - GET  /card/:slug/vcard  (download the card as .vcf)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardlink/go-cardlink-backend/internal/services"
)

// ShareRequest is the JSON payload of the public share form.
type ShareRequest struct {
	Name        string `json:"name" binding:"required" example:"Bob Visitor"`
	Company     string `json:"company" example:"Visitor Inc"`
	Designation string `json:"designation" example:"Sales Lead"`
	Email       string `json:"email" example:"bob@visitor.test"`
	Mobile      string `json:"mobile" example:"98765 43210"`
	Whatsapp    string `json:"whatsapp" example:"98765 43210"`
	Linkedin    string `json:"linkedin"`
	Notes       string `json:"notes"`
	// ViewerUserID links the contact back to a logged-in visitor.
	ViewerUserID string `json:"viewer_user_id"`
}

// GetPublicCard godoc
// @ID          getPublicCard
// @Summary     View a published card
// @Description Resolves a slug to the owner's default card, falling back to the personal card.
// @Tags        Public
// @Produce     json
// @Param       slug path string true "Card slug"
// @Success     200 {object} domain.BusinessCard
// @Failure     400 {object} handlers.ErrorResponse "Invalid slug"
// @Failure     404 {object} handlers.ErrorResponse "Card not found"
// @Router      /card/{slug} [get]
func (h *Handlers) GetPublicCard(c *gin.Context) {
	card, err := h.cardSvc.PublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		publicCardError(c, err)
		return
	}
	ok(c, http.StatusOK, card)
}

// ShareContact godoc
// @ID          shareContact
// @Summary     Share your details with a card owner
// @Description Records the visitor's details as a CRM contact of the card owner.
// @Tags        Public
// @Accept      json
// @Produce     json
// @Param       slug path string                true "Card slug"
// @Param       body body handlers.ShareRequest true "Visitor details"
// @Success     201 {object} domain.Contact
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Failure     404 {object} handlers.ErrorResponse "Card not found"
// @Router      /card/{slug}/share [post]
func (h *Handlers) ShareContact(c *gin.Context) {
	card, err := h.cardSvc.PublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		publicCardError(c, err)
		return
	}

	var req ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	contact, err := h.contactSvc.Share(c.Request.Context(), card.UserID, services.ShareInput{
		Name:         req.Name,
		Company:      req.Company,
		Designation:  req.Designation,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Whatsapp:     req.Whatsapp,
		LinkedinURL:  req.Linkedin,
		Notes:        req.Notes,
		ViewerUserID: req.ViewerUserID,
	})
	if err != nil {
		if err == services.ErrMissingName {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name is required")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, contact)
}

// PublicVCard godoc
// @ID          publicVCard
// @Summary     Download a published card as vCard
// @Tags        Public
// @Produce     text/vcard
// @Param       slug path string true "Card slug"
// @Success     200 {string} string "vCard 3.0 payload"
// @Failure     404 {object} handlers.ErrorResponse "Card not found"
// @Router      /card/{slug}/vcard [get]
func (h *Handlers) PublicVCard(c *gin.Context) {
	card, err := h.cardSvc.PublicBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		publicCardError(c, err)
		return
	}
	serveVCard(c, card)
}

// publicCardError translates slug resolution failures to HTTP responses.
func publicCardError(c *gin.Context, err error) {
	switch err {
	case services.ErrInvalidSlug:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid card slug")
	case services.ErrCardNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "card not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
