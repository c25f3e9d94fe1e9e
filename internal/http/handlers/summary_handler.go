// AI generation HTTP handlers.
//
// This file exposes the authenticated generation endpoints:
//   - POST /my-card/summary        (professional summary from profile fields)
//   - POST /contacts/{id}/minutes  (minutes of meeting from a transcript)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardlink/go-cardlink-backend/internal/ai"
	"github.com/cardlink/go-cardlink-backend/internal/services"
)

// SummaryRequest carries the profile fields a summary is generated from.
type SummaryRequest struct {
	About       string `json:"about"`
	LinkedinURL string `json:"linkedin_url"`
	WebsiteURL  string `json:"website_url"`
}

// SummaryResponse wraps generated text.
type SummaryResponse struct {
	Text string `json:"text"`
}

// MinutesRequest carries the raw meeting transcript.
type MinutesRequest struct {
	Transcript string `json:"transcript" binding:"required"`
}

// GenerateSummary godoc
// @ID          generateSummary
// @Summary     Generate a professional summary
// @Description Generates a 2-3 line summary from profile fields and stores it on the card.
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Param       body body handlers.SummaryRequest true "Profile fields"
// @Success     200 {object} handlers.SummaryResponse
// @Failure     502 {object} handlers.ErrorResponse "Upstream generation failed"
// @Router      /my-card/summary [post]
func (h *Handlers) GenerateSummary(c *gin.Context) {
	var req SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	text, err := h.summarySvc.ProfessionalSummary(c.Request.Context(), userID(c), services.SummaryInput{
		About:       req.About,
		LinkedinURL: req.LinkedinURL,
		WebsiteURL:  req.WebsiteURL,
	})
	if err != nil {
		generateError(c, err)
		return
	}
	ok(c, http.StatusOK, SummaryResponse{Text: text})
}

// GenerateMinutes godoc
// @ID          generateMinutes
// @Summary     Generate minutes of meeting
// @Description Turns a transcript into structured minutes and stores them on the contact.
// @Tags        Generation
// @Accept      json
// @Produce     json
// @Param       id   path string                  true "Contact ID"
// @Param       body body handlers.MinutesRequest true "Transcript"
// @Success     200 {object} handlers.SummaryResponse
// @Failure     400 {object} handlers.ErrorResponse "Empty transcript"
// @Failure     404 {object} handlers.ErrorResponse "Contact not found"
// @Failure     502 {object} handlers.ErrorResponse "Upstream generation failed"
// @Router      /contacts/{id}/minutes [post]
func (h *Handlers) GenerateMinutes(c *gin.Context) {
	var req MinutesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "transcript required")
		return
	}

	text, err := h.summarySvc.MeetingMinutes(c.Request.Context(), userID(c), c.Param("id"), req.Transcript)
	if err != nil {
		generateError(c, err)
		return
	}
	ok(c, http.StatusOK, SummaryResponse{Text: text})
}

// generateError translates generation failures to HTTP responses. Completion
// endpoint failures surface as 502 with the upstream status in the message.
func generateError(c *gin.Context, err error) {
	switch err.(type) {
	case *ai.StatusError:
		fail(c, http.StatusBadGateway, ErrCodeGenerateFailed, err.Error())
		return
	}
	switch err {
	case services.ErrEmptyTranscript:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case services.ErrContactNotFound:
		fail(c, http.StatusNotFound, ErrCodeNotFound, "contact not found")
	case ai.ErrEmptyCompletion:
		fail(c, http.StatusBadGateway, ErrCodeGenerateFailed, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeGenerateFailed, err.Error())
	}
}
