// Package crm evaluates the contact-list filters of the CRM screen.
//
// A Filter combines three independent predicates with AND semantics: a
// case-insensitive substring search over the identity fields, an exact tag
// membership check, and a creation-date window. Evaluation is pure and runs
// in memory over the owner's contact list; the list endpoint applies it after
// fetching and before pagination so page numbers stay stable for a given
// filter.
package crm

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

// DateRange names a creation-date window relative to Filter.Now.
type DateRange string

const (
	DateAll    DateRange = "all"
	DateToday  DateRange = "today"
	DateLast7  DateRange = "7days"
	DateLast30 DateRange = "30days"
	DateLast90 DateRange = "90days"
)

// Filter is one evaluation of the CRM list filters. The zero value matches
// every contact.
type Filter struct {
	// Query is matched case-insensitively as a substring of name, email,
	// mobile and whatsapp. Empty matches all.
	Query string
	// Tag must be an exact member of the contact's tag list, including
	// "Event: "-prefixed literals. "All" or empty matches all.
	Tag string
	// Date selects the creation window. Empty behaves like DateAll.
	Date DateRange
	// Now anchors the date window. Zero means time.Now at evaluation.
	Now time.Time
}

// cutoff returns the inclusive lower bound on CreatedAt, or false when the
// filter has no date constraint.
func (f Filter) cutoff() (time.Time, bool) {
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	switch f.Date {
	case DateToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case DateLast7:
		return now.Add(-7 * 24 * time.Hour), true
	case DateLast30:
		return now.Add(-30 * 24 * time.Hour), true
	case DateLast90:
		return now.Add(-90 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}

// compiled holds the per-evaluation state shared across contacts: the search
// pattern and the date cutoff are computed once, not per row.
type compiled struct {
	f       Filter
	pattern *search.Pattern
	cutoff  time.Time
	hasCut  bool
}

func (f Filter) compile() compiled {
	ev := compiled{f: f}
	if f.Query != "" {
		ev.pattern = search.New(language.Und, search.IgnoreCase).CompileString(f.Query)
	}
	ev.cutoff, ev.hasCut = f.cutoff()
	return ev
}

func (ev compiled) matches(c domain.Contact) bool {
	if ev.pattern != nil {
		fields := []string{c.Name, deref(c.Email), deref(c.Mobile), deref(c.Whatsapp)}
		found := false
		for _, field := range fields {
			if field == "" {
				continue
			}
			if start, _ := ev.pattern.IndexString(field); start >= 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if ev.f.Tag != "" && ev.f.Tag != "All" {
		found := false
		for _, t := range c.Tags {
			if t == ev.f.Tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if ev.hasCut && c.CreatedAt.Before(ev.cutoff) {
		return false
	}
	return true
}

// Matches reports whether c passes every active predicate. For whole-list
// evaluation use Apply, which compiles the query once.
func (f Filter) Matches(c domain.Contact) bool {
	return f.compile().matches(c)
}

// Apply returns the contacts passing the filter, preserving input order.
func (f Filter) Apply(contacts []domain.Contact) []domain.Contact {
	ev := f.compile()
	out := make([]domain.Contact, 0, len(contacts))
	for _, c := range contacts {
		if ev.matches(c) {
			out = append(out, c)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
