// Package services – CardService
//
// This file implements the CardService, which owns the business-card
// lifecycle: lazy creation on first fetch, validated upserts from the editor,
// and the public slug lookup used by the shared card page. Public lookups are
// cached in-process with a short TTL; every save invalidates the affected
// slug entries so a freshly edited card is visible immediately.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/slug"
)

// CardRepo defines the repository contract required by CardService.
type CardRepo interface {
	CreateCard(ctx context.Context, db *gorm.DB, c *domain.BusinessCard) error
	GetCardByUser(ctx context.Context, db *gorm.DB, userID string, cardType domain.CardType) (*domain.BusinessCard, error)
	GetDefaultCardBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.BusinessCard, error)
	GetPersonalCardBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.BusinessCard, error)
	SaveCard(ctx context.Context, db *gorm.DB, c *domain.BusinessCard) error
}

// CardService provides card editor and public viewer operations.
type CardService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the card repository used by this service.
	Repo CardRepo

	// Cache holds public slug lookups. Nil disables caching.
	Cache *gocache.Cache
	// CacheTTL bounds how stale a cached public card may be.
	CacheTTL time.Duration
}

// CardInput is the editable field set accepted from the card editor.
type CardInput struct {
	Name        string
	JobTitle    string
	CompanyName string
	Mobile      string
	Email       string
	Website     string
	Whatsapp    string
	Linkedin    string
	About       string
	PhotoURL    string
	LogoURL     string
	LayoutStyle int
}

// LoadOrCreate returns the user's personal card, creating an empty one with
// the account email prefilled on first access.
func (s *CardService) LoadOrCreate(ctx context.Context, userID, email string) (*domain.BusinessCard, error) {
	card, err := s.Repo.GetCardByUser(ctx, s.DB, userID, domain.CardTypePersonal)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	card = &domain.BusinessCard{
		UserID:      userID,
		CardType:    domain.CardTypePersonal,
		Email:       optional(email),
		LayoutStyle: 1,
	}
	if err := s.Repo.CreateCard(ctx, s.DB, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Save validates and persists the editor state onto the user's personal
// card, regenerating the slug from the (possibly new) display name. The
// required-field check runs before any store access.
func (s *CardService) Save(ctx context.Context, userID string, in CardInput) (*domain.BusinessCard, error) {
	name := strings.TrimSpace(in.Name)
	jobTitle := strings.TrimSpace(in.JobTitle)
	company := strings.TrimSpace(in.CompanyName)
	if name == "" || jobTitle == "" || company == "" {
		return nil, ErrMissingRequiredFields
	}

	card, err := s.LoadOrCreate(ctx, userID, in.Email)
	if err != nil {
		return nil, err
	}
	oldSlug := card.Slug

	card.Name = name
	card.JobTitle = jobTitle
	card.CompanyName = company
	card.Mobile = optional(in.Mobile)
	card.Email = optional(in.Email)
	card.Website = optional(in.Website)
	card.Whatsapp = optional(in.Whatsapp)
	card.Linkedin = optional(in.Linkedin)
	card.About = optional(in.About)
	card.PhotoURL = optional(in.PhotoURL)
	card.LogoURL = optional(in.LogoURL)
	if in.LayoutStyle >= 1 && in.LayoutStyle <= 5 {
		card.LayoutStyle = in.LayoutStyle
	}
	card.Slug = slug.Generate(name, userID)

	if err := s.Repo.SaveCard(ctx, s.DB, card); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if oldSlug != "" {
			s.Cache.Delete(cacheKey(oldSlug))
		}
		s.Cache.Delete(cacheKey(card.Slug))
	}
	return card, nil
}

// SetAssetURL stores an uploaded asset URL ("photo" or "logo") on the user's
// personal card without touching the rest of the editor state.
func (s *CardService) SetAssetURL(ctx context.Context, userID, kind, url string) (*domain.BusinessCard, error) {
	card, err := s.Repo.GetCardByUser(ctx, s.DB, userID, domain.CardTypePersonal)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	switch kind {
	case "logo":
		card.LogoURL = optional(url)
	default:
		card.PhotoURL = optional(url)
	}
	if err := s.Repo.SaveCard(ctx, s.DB, card); err != nil {
		return nil, err
	}
	if s.Cache != nil && card.Slug != "" {
		s.Cache.Delete(cacheKey(card.Slug))
	}
	return card, nil
}

// PublicBySlug resolves a shared card URL. Cards marked default win; when no
// default card carries the slug the personal card is served. Results are
// cached for CacheTTL.
func (s *CardService) PublicBySlug(ctx context.Context, rawSlug string) (*domain.BusinessCard, error) {
	if !slug.IsValid(rawSlug) {
		return nil, ErrInvalidSlug
	}

	if s.Cache != nil {
		if hit, ok := s.Cache.Get(cacheKey(rawSlug)); ok {
			if card, ok := hit.(*domain.BusinessCard); ok {
				return card, nil
			}
		}
	}

	card, err := s.Repo.GetDefaultCardBySlug(ctx, s.DB, rawSlug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		card, err = s.Repo.GetPersonalCardBySlug(ctx, s.DB, rawSlug)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if s.Cache != nil {
		ttl := s.CacheTTL
		if ttl <= 0 {
			ttl = gocache.DefaultExpiration
		}
		s.Cache.Set(cacheKey(rawSlug), card, ttl)
	}
	return card, nil
}

func cacheKey(slug string) string { return "card:" + slug }
