package crm

import (
	"testing"
	"time"

	"github.com/cardlink/go-cardlink-backend/internal/domain"
)

func ptr(s string) *string { return &s }

func contact(name string, opts ...func(*domain.Contact)) domain.Contact {
	c := domain.Contact{Name: name, CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestMatches_SearchAcrossFields(t *testing.T) {
	c := contact("Jane Doe", func(c *domain.Contact) {
		c.Email = ptr("jane@acme.test")
		c.Mobile = ptr("+14155550100")
		c.Whatsapp = ptr("+4915112345678")
	})

	for _, q := range []string{"jane", "JANE", "acme", "4155", "491511", "doe"} {
		if !(Filter{Query: q}).Matches(c) {
			t.Errorf("query %q should match", q)
		}
	}
	if (Filter{Query: "zilch"}).Matches(c) {
		t.Error("query zilch should not match")
	}
	if !(Filter{}).Matches(c) {
		t.Error("empty query must match everything")
	}
}

func TestMatches_SearchSkipsNilFields(t *testing.T) {
	c := contact("Solo")
	if (Filter{Query: "acme"}).Matches(c) {
		t.Error("nil fields must not match")
	}
	if !(Filter{Query: "solo"}).Matches(c) {
		t.Error("name must still match")
	}
}

func TestMatches_TagExactMembership(t *testing.T) {
	c := contact("Jane", func(c *domain.Contact) {
		c.Tags = domain.TagList{"Hot", "Event: Web Summit"}
	})

	if !(Filter{Tag: "All"}).Matches(c) {
		t.Error(`tag "All" must match everything`)
	}
	if !(Filter{Tag: "Hot"}).Matches(c) {
		t.Error("exact member should match")
	}
	if !(Filter{Tag: "Event: Web Summit"}).Matches(c) {
		t.Error("event literal should match")
	}
	if (Filter{Tag: "hot"}).Matches(c) {
		t.Error("tag match is case-sensitive")
	}
	if (Filter{Tag: "Web Summit"}).Matches(c) {
		t.Error("partial tag must not match")
	}
}

func TestMatches_DateWindows(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	mk := func(created time.Time) domain.Contact {
		c := contact("X")
		c.CreatedAt = created
		return c
	}

	today := mk(time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC))
	yesterday := mk(time.Date(2026, 8, 27, 23, 0, 0, 0, time.UTC))
	sixDays := mk(now.Add(-6 * 24 * time.Hour))
	tenDays := mk(now.Add(-10 * 24 * time.Hour))
	oldOne := mk(now.Add(-120 * 24 * time.Hour))

	cases := []struct {
		date DateRange
		c    domain.Contact
		want bool
	}{
		{DateToday, today, true},
		{DateToday, yesterday, false},
		{DateLast7, sixDays, true},
		{DateLast7, tenDays, false},
		{DateLast30, tenDays, true},
		{DateLast90, oldOne, false},
		{DateAll, oldOne, true},
		{"", oldOne, true},
	}
	for _, tc := range cases {
		got := (Filter{Date: tc.date, Now: now}).Matches(tc.c)
		if got != tc.want {
			t.Errorf("date=%q created=%s: got %v want %v", tc.date, tc.c.CreatedAt, got, tc.want)
		}
	}
}

func TestMatches_ANDComposition(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	c := contact("Jane Doe", func(c *domain.Contact) {
		c.Tags = domain.TagList{"Hot"}
		c.CreatedAt = now.Add(-2 * 24 * time.Hour)
	})

	if !(Filter{Query: "jane", Tag: "Hot", Date: DateLast7, Now: now}).Matches(c) {
		t.Error("all predicates pass; should match")
	}
	if (Filter{Query: "jane", Tag: "Cold", Date: DateLast7, Now: now}).Matches(c) {
		t.Error("one failing predicate must reject")
	}
}

func TestApply_PreservesOrder(t *testing.T) {
	in := []domain.Contact{contact("Bob"), contact("Alice"), contact("Bobby")}
	got := (Filter{Query: "bob"}).Apply(in)
	if len(got) != 2 || got[0].Name != "Bob" || got[1].Name != "Bobby" {
		t.Fatalf("Apply = %v", got)
	}
}

// Apply compiles the query once and reuses it for every contact; its verdicts
// must stay identical to per-contact Matches.
func TestApply_AgreesWithMatches(t *testing.T) {
	now := time.Date(2026, 8, 28, 15, 0, 0, 0, time.UTC)
	in := []domain.Contact{
		contact("Jane Doe", func(c *domain.Contact) {
			c.Email = ptr("jane@acme.test")
			c.Tags = domain.TagList{"Hot"}
			c.CreatedAt = now.Add(-2 * 24 * time.Hour)
		}),
		contact("Bob"),
		contact("Janet", func(c *domain.Contact) {
			c.Tags = domain.TagList{"Hot"}
			c.CreatedAt = now.Add(-40 * 24 * time.Hour)
		}),
		contact("JANE ALSO", func(c *domain.Contact) {
			c.Tags = domain.TagList{"Hot"}
			c.CreatedAt = now.Add(-24 * time.Hour)
		}),
	}
	f := Filter{Query: "jan", Tag: "Hot", Date: DateLast30, Now: now}

	got := f.Apply(in)
	var want []domain.Contact
	for _, c := range in {
		if f.Matches(c) {
			want = append(want, c)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("Apply kept %d, Matches kept %d", len(got), len(want))
	}
	for i := range got {
		if got[i].Name != want[i].Name {
			t.Fatalf("divergence at %d: %q vs %q", i, got[i].Name, want[i].Name)
		}
	}
	if len(got) != 2 || got[0].Name != "Jane Doe" || got[1].Name != "JANE ALSO" {
		t.Fatalf("Apply = %v", got)
	}
}
