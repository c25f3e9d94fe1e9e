package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// fakeGenerator records prompts and returns a canned completion.
type fakeGenerator struct {
	prompts   []string
	maxTokens []int
	reply     string
	err       error
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.maxTokens = append(f.maxTokens, maxTokens)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSummaryCards struct {
	card       *domain.BusinessCard
	saved      string
	lookupErr  error
	persistErr error
}

func (f *fakeSummaryCards) GetCardByUser(_ context.Context, _ *gorm.DB, userID string, _ domain.CardType) (*domain.BusinessCard, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.card, nil
}

func (f *fakeSummaryCards) UpdateCardSummary(_ context.Context, _ *gorm.DB, id, userID, summary string) error {
	if f.persistErr != nil {
		return f.persistErr
	}
	f.saved = summary
	return nil
}

type fakeSummaryContacts struct {
	contact *domain.Contact
	saved   string
	getErr  error
}

func (f *fakeSummaryContacts) GetContact(_ context.Context, _ *gorm.DB, id, ownerID string) (*domain.Contact, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.contact, nil
}

func (f *fakeSummaryContacts) UpdateMeetingNotes(_ context.Context, _ *gorm.DB, id, ownerID, minutes string) error {
	f.saved = minutes
	return nil
}

func TestProfessionalSummary_PromptAndPersistence(t *testing.T) {
	gen := &fakeGenerator{reply: "Seasoned CTO building developer tools."}
	cards := &fakeSummaryCards{card: &domain.BusinessCard{ID: "card1", UserID: "u1"}}
	svc := &SummaryService{Cards: cards, AI: gen}

	out, err := svc.ProfessionalSummary(context.Background(), "u1", SummaryInput{
		About:       "15 years in infra",
		LinkedinURL: "https://linkedin.com/in/jane",
		WebsiteURL:  "https://jane.dev",
	})
	if err != nil {
		t.Fatalf("ProfessionalSummary: %v", err)
	}
	if out != gen.reply {
		t.Fatalf("summary = %q", out)
	}
	if cards.saved != gen.reply {
		t.Fatalf("persisted = %q", cards.saved)
	}

	if len(gen.prompts) != 1 || gen.maxTokens[0] != summaryMaxTokens {
		t.Fatalf("generator calls = %v tokens=%v", gen.prompts, gen.maxTokens)
	}
	p := gen.prompts[0]
	for _, want := range []string{
		"About: 15 years in infra",
		"LinkedIn: https://linkedin.com/in/jane",
		"Website: https://jane.dev",
		"2-3 line professional summary",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestProfessionalSummary_ReturnedEvenWhenPersistFails(t *testing.T) {
	gen := &fakeGenerator{reply: "Summary text."}
	cards := &fakeSummaryCards{
		card:       &domain.BusinessCard{ID: "card1", UserID: "u1"},
		persistErr: errors.New("disk full"),
	}
	svc := &SummaryService{Cards: cards, AI: gen}

	out, err := svc.ProfessionalSummary(context.Background(), "u1", SummaryInput{About: "x"})
	if err != nil {
		t.Fatalf("persist failure must not surface: %v", err)
	}
	if out != "Summary text." {
		t.Fatalf("summary = %q", out)
	}
}

func TestProfessionalSummary_GeneratorErrorSurfaces(t *testing.T) {
	boom := errors.New("[Code: 429] rate limited")
	svc := &SummaryService{Cards: &fakeSummaryCards{}, AI: &fakeGenerator{err: boom}}

	if _, err := svc.ProfessionalSummary(context.Background(), "u1", SummaryInput{About: "x"}); !errors.Is(err, boom) {
		t.Fatalf("err = %v; want generator error", err)
	}
}

func TestMeetingMinutes_RequiresTranscriptAndOwnership(t *testing.T) {
	svc := &SummaryService{
		Contacts: &fakeSummaryContacts{getErr: gorm.ErrRecordNotFound},
		AI:       &fakeGenerator{reply: "MoM"},
	}

	if _, err := svc.MeetingMinutes(context.Background(), "u1", "c1", "  "); err != ErrEmptyTranscript {
		t.Fatalf("blank transcript err = %v; want ErrEmptyTranscript", err)
	}
	if _, err := svc.MeetingMinutes(context.Background(), "u1", "c1", "we met"); err != ErrContactNotFound {
		t.Fatalf("missing contact err = %v; want ErrContactNotFound", err)
	}
}

func TestMeetingMinutes_PromptContextAndPersistence(t *testing.T) {
	company := "ACME"
	contacts := &fakeSummaryContacts{contact: &domain.Contact{ID: "c1", Name: "Jane", Company: &company}}
	gen := &fakeGenerator{reply: "- discussed pilot\n- next call Friday"}
	svc := &SummaryService{Contacts: contacts, AI: gen}

	out, err := svc.MeetingMinutes(context.Background(), "u1", "c1", "long transcript here")
	if err != nil {
		t.Fatalf("MeetingMinutes: %v", err)
	}
	if out != gen.reply || contacts.saved != gen.reply {
		t.Fatalf("out = %q saved = %q", out, contacts.saved)
	}
	if gen.maxTokens[0] != minutesMaxTokens {
		t.Fatalf("max tokens = %d", gen.maxTokens[0])
	}
	p := gen.prompts[0]
	for _, want := range []string{
		"Contact: Jane",
		"Company: ACME",
		"Meeting Transcript:\nlong transcript here",
		"Minutes of Meeting",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}
