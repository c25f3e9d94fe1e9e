// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, auth, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/ai"
	"github.com/cardlink/go-cardlink-backend/internal/config"
	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/http/handlers"
	"github.com/cardlink/go-cardlink-backend/internal/http/middleware"
	"github.com/cardlink/go-cardlink-backend/internal/repo"
	"github.com/cardlink/go-cardlink-backend/internal/services"
	"github.com/cardlink/go-cardlink-backend/internal/storage"
)

// cardRepoShim adapts the repository free functions to the services.CardRepo
// interface. This keeps services decoupled from the concrete repo package
// while reusing existing functions.
type cardRepoShim struct{}

func (cardRepoShim) CreateCard(ctx context.Context, db *gorm.DB, c *domain.BusinessCard) error {
	return repo.CreateCard(ctx, db, c)
}

func (cardRepoShim) GetCardByUser(ctx context.Context, db *gorm.DB, userID string, cardType domain.CardType) (*domain.BusinessCard, error) {
	return repo.GetCardByUser(ctx, db, userID, cardType)
}

func (cardRepoShim) GetDefaultCardBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.BusinessCard, error) {
	return repo.GetDefaultCardBySlug(ctx, db, slug)
}

func (cardRepoShim) GetPersonalCardBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.BusinessCard, error) {
	return repo.GetPersonalCardBySlug(ctx, db, slug)
}

func (cardRepoShim) SaveCard(ctx context.Context, db *gorm.DB, c *domain.BusinessCard) error {
	return repo.SaveCard(ctx, db, c)
}

func (cardRepoShim) UpdateCardSummary(ctx context.Context, db *gorm.DB, id, userID, summary string) error {
	return repo.UpdateCardSummary(ctx, db, id, userID, summary)
}

// contactRepoShim adapts the repository free functions to the
// services.ContactRepo interface.
type contactRepoShim struct{}

func (contactRepoShim) CreateContact(ctx context.Context, db *gorm.DB, c *domain.Contact) error {
	return repo.CreateContact(ctx, db, c)
}

func (contactRepoShim) ListContacts(ctx context.Context, db *gorm.DB, ownerID string) ([]domain.Contact, error) {
	return repo.ListContacts(ctx, db, ownerID)
}

func (contactRepoShim) GetContact(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Contact, error) {
	return repo.GetContact(ctx, db, id, ownerID)
}

func (contactRepoShim) UpdateContactTags(ctx context.Context, db *gorm.DB, id, ownerID string, tags domain.TagList) error {
	return repo.UpdateContactTags(ctx, db, id, ownerID, tags)
}

func (contactRepoShim) UpdateContactNotes(ctx context.Context, db *gorm.DB, id, ownerID, notes string) error {
	return repo.UpdateContactNotes(ctx, db, id, ownerID, notes)
}

func (contactRepoShim) UpdateMeetingNotes(ctx context.Context, db *gorm.DB, id, ownerID, minutes string) error {
	return repo.UpdateMeetingNotes(ctx, db, id, ownerID, minutes)
}

func (contactRepoShim) DeleteContact(ctx context.Context, db *gorm.DB, id, ownerID string) error {
	return repo.DeleteContact(ctx, db, id, ownerID)
}

// templateRepoShim adapts the repository free functions to the
// services.TemplateRepo interface.
type templateRepoShim struct{}

func (templateRepoShim) CreateTemplate(ctx context.Context, db *gorm.DB, t *domain.WhatsAppTemplate) error {
	return repo.CreateTemplate(ctx, db, t)
}

func (templateRepoShim) ListTemplates(ctx context.Context, db *gorm.DB, userID string) ([]domain.WhatsAppTemplate, error) {
	return repo.ListTemplates(ctx, db, userID)
}

func (templateRepoShim) GetTemplate(ctx context.Context, db *gorm.DB, id, userID string) (*domain.WhatsAppTemplate, error) {
	return repo.GetTemplate(ctx, db, id, userID)
}

func (templateRepoShim) GetActiveTemplate(ctx context.Context, db *gorm.DB, userID string) (*domain.WhatsAppTemplate, error) {
	return repo.GetActiveTemplate(ctx, db, userID)
}

func (templateRepoShim) UpdateTemplate(ctx context.Context, db *gorm.DB, id, userID, name, body string) error {
	return repo.UpdateTemplate(ctx, db, id, userID, name, body)
}

func (templateRepoShim) DeleteTemplate(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeleteTemplate(ctx, db, id, userID)
}

func (templateRepoShim) SetActiveTemplate(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.SetActiveTemplate(ctx, db, id, userID)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: observability, idempotency and rate limiting, CORS and security
// headers, the public card routes, and the versioned authenticated API.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with contact-detail scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression (vCard and CSV payloads compress well)
//  7. Metrics
//  8. Auth: resolve identity before anything keyed by user
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay)
//  11. CORS and security headers
//
// uploader may be nil when asset storage is not configured.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, uploader storage.Uploader) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-User-Email"},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Identity. Must precede the idempotency lookup and the rate limiter:
	// both key on the user, and the replay check has to see the same identity
	// the handler later records under.
	r.Use(middleware.Auth(cfg.Auth.JWTSecret))

	// 9) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 10) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 11) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		"X-User-ID", "X-User-Email", "If-None-Match",
		middleware.HeaderIdempotencyKey,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "ETag", "Content-Length", "Content-Disposition"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "ETag", "Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db
	cardSvc := &services.CardService{
		DB:       db,
		Repo:     cardRepoShim{},
		Cache:    gocache.New(cfg.CardCacheTTL, 5*time.Minute),
		CacheTTL: cfg.CardCacheTTL,
	}
	contactSvc := &services.ContactService{
		DB:            db,
		Repo:          contactRepoShim{},
		DefaultRegion: cfg.PhoneRegion,
	}
	templateSvc := &services.TemplateService{DB: db, Repo: templateRepoShim{}}
	summarySvc := &services.SummaryService{
		DB:       db,
		Cards:    cardRepoShim{},
		Contacts: contactRepoShim{},
		AI:       ai.NewClient(&http.Client{Timeout: cfg.AI.Timeout}, cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model),
	}
	h := handlers.New(cardSvc, contactSvc, templateSvc, summarySvc, uploader)

	// Public card routes (no auth)
	r.GET("/card/:slug", h.GetPublicCard)
	r.POST("/card/:slug/share", h.ShareContact)
	r.GET("/card/:slug/vcard", h.PublicVCard)

	// Versioned API (identity established by the global auth middleware)
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Card editor
		api.GET("/my-card", h.GetMyCard)
		api.PUT("/my-card", h.SaveMyCard)
		api.POST("/my-card/assets", h.UploadAsset)
		api.GET("/my-card/vcard", h.MyCardVCard)
		api.POST("/my-card/summary", h.GenerateSummary)

		// CRM contacts
		api.GET("/contacts", h.ListContacts)
		api.GET("/contacts/export", h.ExportContacts)
		api.POST("/contacts/seed-first", h.SeedFirstContact)
		api.POST("/contacts/bulk/tags", h.BulkApplyTags)
		api.PUT("/contacts/:id/tags", h.UpdateContactTags)
		api.PUT("/contacts/:id/notes", h.SaveContactNotes)
		api.POST("/contacts/:id/minutes", h.GenerateMinutes)
		api.DELETE("/contacts/:id", h.DeleteContact)

		// WhatsApp templates
		api.POST("/templates", h.CreateTemplate)
		api.GET("/templates", h.ListTemplates)
		api.POST("/templates/render", h.RenderTemplate)
		api.PUT("/templates/:id", h.UpdateTemplate)
		api.DELETE("/templates/:id", h.DeleteTemplate)
		api.POST("/templates/:id/activate", h.ActivateTemplate)
	}
}

// limitBody caps the request body size for all endpoints using
// http.MaxBytesReader; oversized bodies error on read downstream.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
