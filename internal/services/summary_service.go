// Package services – SummaryService
//
// This file implements the SummaryService, which turns profile fields into a
// short professional summary and meeting transcripts into minutes, via the
// completion endpoint. Generated text is persisted alongside the aggregate it
// describes: summaries on the card, minutes on the contact. A summary is
// still returned when its persistence fails, so the user never loses a paid
// generation to a transient write error.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/ai"
	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

const (
	summaryMaxTokens = 150
	minutesMaxTokens = 500
)

// SummaryCardRepo is the card persistence surface SummaryService needs.
type SummaryCardRepo interface {
	GetCardByUser(ctx context.Context, db *gorm.DB, userID string, cardType domain.CardType) (*domain.BusinessCard, error)
	UpdateCardSummary(ctx context.Context, db *gorm.DB, id, userID, summary string) error
}

// SummaryContactRepo is the contact persistence surface SummaryService needs.
type SummaryContactRepo interface {
	GetContact(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Contact, error)
	UpdateMeetingNotes(ctx context.Context, db *gorm.DB, id, ownerID, minutes string) error
}

// SummaryService generates and persists AI-written text.
type SummaryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Cards persists generated summaries.
	Cards SummaryCardRepo
	// Contacts persists generated meeting minutes.
	Contacts SummaryContactRepo
	// AI produces completions.
	AI ai.Generator
}

// SummaryInput carries the profile fields a summary is generated from.
type SummaryInput struct {
	About       string
	LinkedinURL string
	WebsiteURL  string
}

// ProfessionalSummary generates a 2-3 line summary from the user's profile
// fields and stores it on their personal card. Persistence failures are
// logged, not surfaced: the summary is returned regardless.
func (s *SummaryService) ProfessionalSummary(ctx context.Context, userID string, in SummaryInput) (string, error) {
	var contextParts []string
	if v := strings.TrimSpace(in.About); v != "" {
		contextParts = append(contextParts, "About: "+v)
	}
	if v := strings.TrimSpace(in.LinkedinURL); v != "" {
		contextParts = append(contextParts, "LinkedIn: "+v)
	}
	if v := strings.TrimSpace(in.WebsiteURL); v != "" {
		contextParts = append(contextParts, "Website: "+v)
	}

	prompt := fmt.Sprintf(`Based on the following professional information, create a concise 2-3 line professional summary that highlights key expertise, achievements, and value proposition:

%s

Generate a compelling professional summary that sounds natural and emphasizes the person's unique strengths.`, strings.Join(contextParts, "\n"))

	summary, err := s.AI.Generate(ctx, prompt, summaryMaxTokens)
	if err != nil {
		return "", err
	}

	card, err := s.Cards.GetCardByUser(ctx, s.DB, userID, domain.CardTypePersonal)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("summary generated but card lookup failed")
		return summary, nil
	}
	if err := s.Cards.UpdateCardSummary(ctx, s.DB, card.ID, userID, summary); err != nil {
		log.Warn().Err(err).Str("card_id", card.ID).Msg("summary generated but not persisted")
	}
	return summary, nil
}

// MeetingMinutes generates minutes of meeting from a transcript and stores
// them on the contact. The contact must exist and belong to ownerID; the
// transcript must be non-blank.
func (s *SummaryService) MeetingMinutes(ctx context.Context, ownerID, contactID, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", ErrEmptyTranscript
	}

	contact, err := s.Contacts.GetContact(ctx, s.DB, contactID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrContactNotFound
		}
		return "", err
	}

	var contextParts []string
	if contact.Name != "" {
		contextParts = append(contextParts, "Contact: "+contact.Name)
	}
	if contact.Company != nil && *contact.Company != "" {
		contextParts = append(contextParts, "Company: "+*contact.Company)
	}
	contextParts = append(contextParts, "Meeting Transcript:\n"+transcript)

	prompt := fmt.Sprintf(`You are a professional meeting assistant. From the meeting transcript below, create concise Minutes of Meeting (MoM).

%s

Generate a professional MoM with:
- Brief context (participants, date/time if mentioned)
- Key discussion points (3-5 bullet points)
- Decisions taken (if any)
- Action items with responsible person (if any)

Use clear bullet points. Limit to 8-12 lines total. Be specific and actionable.

Generate the Minutes of Meeting now:`, strings.Join(contextParts, "\n"))

	minutes, err := s.AI.Generate(ctx, prompt, minutesMaxTokens)
	if err != nil {
		return "", err
	}

	if err := s.Contacts.UpdateMeetingNotes(ctx, s.DB, contactID, ownerID, minutes); err != nil {
		log.Warn().Err(err).Str("contact_id", contactID).Msg("minutes generated but not persisted")
	}
	return minutes, nil
}
