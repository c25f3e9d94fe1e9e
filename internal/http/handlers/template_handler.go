// WhatsApp template HTTP handlers.
//
// This file exposes the authenticated template endpoints:
//   - POST   /templates                (create; first one becomes active)
//   - GET    /templates                (list)
//   - PUT    /templates/{id}           (update)
//   - DELETE /templates/{id}           (delete)
//   - POST   /templates/{id}/activate  (make active, deactivating the rest)
//   - POST   /templates/render         (render the active template for a contact)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/services"
)

// TemplateService defines the template operations consumed by HTTP handlers.
type TemplateService interface {
	// Create stores a template; the user's first becomes active.
	Create(ctx context.Context, userID, name, body string) (*domain.WhatsAppTemplate, error)
	// List returns the user's templates.
	List(ctx context.Context, userID string) ([]domain.WhatsAppTemplate, error)
	// Update rewrites an owned template.
	Update(ctx context.Context, userID, id, name, body string) error
	// Delete removes an owned template.
	Delete(ctx context.Context, userID, id string) error
	// SetActive marks one template active and deactivates the rest.
	SetActive(ctx context.Context, userID, id string) error
	// RenderActive substitutes the active template against a contact.
	RenderActive(ctx context.Context, userID string, contact *domain.Contact, myName string) (*services.Rendered, error)
	// Render substitutes a specific template against a contact.
	Render(ctx context.Context, userID, id string, contact *domain.Contact, myName string) (*services.Rendered, error)
}

//
// DTOs
//

// TemplateRequest is the JSON payload for creating or updating a template.
type TemplateRequest struct {
	Name string `json:"name" binding:"required" example:"Intro"`
	Body string `json:"body" binding:"required" example:"Hi {{name}}, this is {{my_name}} from {{company}}."`
}

// RenderRequest names the contact to render against, optionally a specific
// template, and the sender's display name for {{my_name}}.
type RenderRequest struct {
	ContactID  string `json:"contact_id" binding:"required"`
	TemplateID string `json:"template_id"`
	MyName     string `json:"my_name"`
}

// RenderResponse carries the substituted message and click-to-chat link.
type RenderResponse struct {
	Message string `json:"message"`
	WaLink  string `json:"wa_link,omitempty"`
}

//
// Handlers
//

// CreateTemplate godoc
// @ID          createTemplate
// @Summary     Create a WhatsApp template
// @Tags        Templates
// @Accept      json
// @Produce     json
// @Param       body body handlers.TemplateRequest true "Template"
// @Success     201 {object} domain.WhatsAppTemplate
// @Failure     400 {object} handlers.ErrorResponse "Bad request"
// @Router      /templates [post]
func (h *Handlers) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and body required")
		return
	}
	t, err := h.templateSvc.Create(c.Request.Context(), userID(c), req.Name, req.Body)
	if err != nil {
		templateError(c, err)
		return
	}
	ok(c, http.StatusCreated, t)
}

// ListTemplates godoc
// @ID          listTemplates
// @Summary     List WhatsApp templates
// @Tags        Templates
// @Produce     json
// @Success     200 {array} domain.WhatsAppTemplate
// @Router      /templates [get]
func (h *Handlers) ListTemplates(c *gin.Context) {
	items, err := h.templateSvc.List(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if items == nil {
		items = []domain.WhatsAppTemplate{}
	}
	ok(c, http.StatusOK, items)
}

// UpdateTemplate godoc
// @ID          updateTemplate
// @Summary     Update a WhatsApp template
// @Tags        Templates
// @Accept      json
// @Success     204 {string} string "No Content"
// @Failure     404 {object} handlers.ErrorResponse "Template not found"
// @Router      /templates/{id} [put]
func (h *Handlers) UpdateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name and body required")
		return
	}
	if err := h.templateSvc.Update(c.Request.Context(), userID(c), c.Param("id"), req.Name, req.Body); err != nil {
		templateError(c, err)
		return
	}
	noContent(c)
}

// DeleteTemplate godoc
// @ID          deleteTemplate
// @Summary     Delete a WhatsApp template
// @Tags        Templates
// @Success     204 {string} string "No Content"
// @Failure     404 {object} handlers.ErrorResponse "Template not found"
// @Router      /templates/{id} [delete]
func (h *Handlers) DeleteTemplate(c *gin.Context) {
	if err := h.templateSvc.Delete(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		templateError(c, err)
		return
	}
	noContent(c)
}

// ActivateTemplate godoc
// @ID          activateTemplate
// @Summary     Make a template the active one
// @Tags        Templates
// @Success     204 {string} string "No Content"
// @Failure     404 {object} handlers.ErrorResponse "Template not found"
// @Router      /templates/{id}/activate [post]
func (h *Handlers) ActivateTemplate(c *gin.Context) {
	if err := h.templateSvc.SetActive(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		templateError(c, err)
		return
	}
	noContent(c)
}

// RenderTemplate godoc
// @ID          renderTemplate
// @Summary     Render a template for a contact
// @Description Substitutes placeholders against the named contact and builds a wa.me link. Uses the active template unless template_id is given.
// @Tags        Templates
// @Accept      json
// @Produce     json
// @Param       body body handlers.RenderRequest true "Render target"
// @Success     200 {object} handlers.RenderResponse
// @Failure     404 {object} handlers.ErrorResponse "Contact or template not found"
// @Router      /templates/render [post]
func (h *Handlers) RenderTemplate(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "contact_id required")
		return
	}

	uid := userID(c)
	contact, err := h.contactSvc.Get(c.Request.Context(), uid, req.ContactID)
	if err != nil {
		contactError(c, err)
		return
	}

	var rendered *services.Rendered
	if req.TemplateID != "" {
		rendered, err = h.templateSvc.Render(c.Request.Context(), uid, req.TemplateID, contact, req.MyName)
	} else {
		rendered, err = h.templateSvc.RenderActive(c.Request.Context(), uid, contact, req.MyName)
	}
	if err != nil {
		templateError(c, err)
		return
	}
	ok(c, http.StatusOK, RenderResponse{Message: rendered.Message, WaLink: rendered.WaLink})
}

// templateError translates template failures to HTTP responses.
func templateError(c *gin.Context, err error) {
	switch err {
	case services.ErrEmptyTemplate:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case services.ErrTemplateNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "template not found")
	case services.ErrNoActiveTemplate:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "no active template")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
