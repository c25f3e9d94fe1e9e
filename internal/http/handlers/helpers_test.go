package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/cardlink/go-cardlink-backend/internal/crm"
	"github.com/cardlink/go-cardlink-backend/internal/domain"
	"github.com/cardlink/go-cardlink-backend/internal/services"
	"github.com/cardlink/go-cardlink-backend/internal/tags"
)

func init() { gin.SetMode(gin.TestMode) }

//
// Function-field fakes for the service contracts.
//

type fakeCardSvc struct {
	loadOrCreate func(ctx context.Context, userID, email string) (*domain.BusinessCard, error)
	save         func(ctx context.Context, userID string, in services.CardInput) (*domain.BusinessCard, error)
	setAssetURL  func(ctx context.Context, userID, kind, url string) (*domain.BusinessCard, error)
	publicBySlug func(ctx context.Context, slug string) (*domain.BusinessCard, error)
}

func (f *fakeCardSvc) LoadOrCreate(ctx context.Context, userID, email string) (*domain.BusinessCard, error) {
	return f.loadOrCreate(ctx, userID, email)
}

func (f *fakeCardSvc) Save(ctx context.Context, userID string, in services.CardInput) (*domain.BusinessCard, error) {
	return f.save(ctx, userID, in)
}

func (f *fakeCardSvc) SetAssetURL(ctx context.Context, userID, kind, url string) (*domain.BusinessCard, error) {
	return f.setAssetURL(ctx, userID, kind, url)
}

func (f *fakeCardSvc) PublicBySlug(ctx context.Context, slug string) (*domain.BusinessCard, error) {
	return f.publicBySlug(ctx, slug)
}

type fakeContactSvc struct {
	share        func(ctx context.Context, ownerID string, in services.ShareInput) (*domain.Contact, error)
	seedFromCard func(ctx context.Context, ownerID string, card *domain.BusinessCard) (*domain.Contact, error)
	list         func(ctx context.Context, ownerID string, f crm.Filter, page, pageSize int) ([]domain.Contact, int64, error)
	get          func(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	updateTags   func(ctx context.Context, ownerID, contactID string, edit tags.Edit) (*domain.Contact, error)
	applyTags    func(ctx context.Context, ownerID string, contactIDs []string, edit tags.Edit) (int, int, error)
	saveNotes    func(ctx context.Context, ownerID, contactID, notes string) error
	del          func(ctx context.Context, ownerID, contactID string) error
	exportCSV    func(ctx context.Context, ownerID string, w io.Writer) error
}

func (f *fakeContactSvc) Share(ctx context.Context, ownerID string, in services.ShareInput) (*domain.Contact, error) {
	return f.share(ctx, ownerID, in)
}

func (f *fakeContactSvc) SeedFromCard(ctx context.Context, ownerID string, card *domain.BusinessCard) (*domain.Contact, error) {
	return f.seedFromCard(ctx, ownerID, card)
}

func (f *fakeContactSvc) List(ctx context.Context, ownerID string, fl crm.Filter, page, pageSize int) ([]domain.Contact, int64, error) {
	return f.list(ctx, ownerID, fl, page, pageSize)
}

func (f *fakeContactSvc) Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	return f.get(ctx, ownerID, contactID)
}

func (f *fakeContactSvc) UpdateTags(ctx context.Context, ownerID, contactID string, edit tags.Edit) (*domain.Contact, error) {
	return f.updateTags(ctx, ownerID, contactID, edit)
}

func (f *fakeContactSvc) ApplyTags(ctx context.Context, ownerID string, contactIDs []string, edit tags.Edit) (int, int, error) {
	return f.applyTags(ctx, ownerID, contactIDs, edit)
}

func (f *fakeContactSvc) SaveNotes(ctx context.Context, ownerID, contactID, notes string) error {
	return f.saveNotes(ctx, ownerID, contactID, notes)
}

func (f *fakeContactSvc) Delete(ctx context.Context, ownerID, contactID string) error {
	return f.del(ctx, ownerID, contactID)
}

func (f *fakeContactSvc) ExportCSV(ctx context.Context, ownerID string, w io.Writer) error {
	return f.exportCSV(ctx, ownerID, w)
}

type fakeTemplateSvc struct {
	create       func(ctx context.Context, userID, name, body string) (*domain.WhatsAppTemplate, error)
	list         func(ctx context.Context, userID string) ([]domain.WhatsAppTemplate, error)
	update       func(ctx context.Context, userID, id, name, body string) error
	del          func(ctx context.Context, userID, id string) error
	setActive    func(ctx context.Context, userID, id string) error
	renderActive func(ctx context.Context, userID string, contact *domain.Contact, myName string) (*services.Rendered, error)
	render       func(ctx context.Context, userID, id string, contact *domain.Contact, myName string) (*services.Rendered, error)
}

func (f *fakeTemplateSvc) Create(ctx context.Context, userID, name, body string) (*domain.WhatsAppTemplate, error) {
	return f.create(ctx, userID, name, body)
}

func (f *fakeTemplateSvc) List(ctx context.Context, userID string) ([]domain.WhatsAppTemplate, error) {
	return f.list(ctx, userID)
}

func (f *fakeTemplateSvc) Update(ctx context.Context, userID, id, name, body string) error {
	return f.update(ctx, userID, id, name, body)
}

func (f *fakeTemplateSvc) Delete(ctx context.Context, userID, id string) error {
	return f.del(ctx, userID, id)
}

func (f *fakeTemplateSvc) SetActive(ctx context.Context, userID, id string) error {
	return f.setActive(ctx, userID, id)
}

func (f *fakeTemplateSvc) RenderActive(ctx context.Context, userID string, contact *domain.Contact, myName string) (*services.Rendered, error) {
	return f.renderActive(ctx, userID, contact, myName)
}

func (f *fakeTemplateSvc) Render(ctx context.Context, userID, id string, contact *domain.Contact, myName string) (*services.Rendered, error) {
	return f.render(ctx, userID, id, contact, myName)
}

type fakeSummarySvc struct {
	summary func(ctx context.Context, userID string, in services.SummaryInput) (string, error)
	minutes func(ctx context.Context, ownerID, contactID, transcript string) (string, error)
}

func (f *fakeSummarySvc) ProfessionalSummary(ctx context.Context, userID string, in services.SummaryInput) (string, error) {
	return f.summary(ctx, userID, in)
}

func (f *fakeSummarySvc) MeetingMinutes(ctx context.Context, ownerID, contactID, transcript string) (string, error) {
	return f.minutes(ctx, ownerID, contactID, transcript)
}

type fakeUploader struct {
	upload func(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	return f.upload(ctx, key, contentType, body)
}

//
// Request helpers
//

// perform issues a JSON request against an engine with X-User-ID set.
func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, w.Body.String())
	}
	return e
}

func str(s string) *string { return &s }
