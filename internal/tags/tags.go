// Package tags implements tag-set normalization for CRM contacts.
//
// A contact's tags are persisted as a flat string slice, but three kinds of
// values share that slice: fixed category tags (Temperature, Relationship,
// Source, Status), at most one event tag serialized with the "Event: "
// prefix, and arbitrary free-text custom tags. This package parses stored
// strings into a tagged union so that the rest of the code never
// string-matches prefixes, and provides the two edit operations the CRM
// screen performs:
//
//   - Normalize: a single-contact edit. The user's category selection fully
//     replaces the previous set, so the result is built from the edit alone.
//     All event entries are stripped before the (optional) fresh event tag is
//     appended, keeping the at-most-one-event invariant.
//   - Merge: a bulk edit. Bulk apply is additive-only: the result is the set
//     union of the existing tags and the tags being added, preserving
//     first-seen order. It deliberately does NOT strip pre-existing event
//     tags, so two event tags may coexist after a bulk apply.
//
// Both operations are pure and deduplicate by exact (case-sensitive) string
// equality, so re-applying the same edit never grows the tag list.
package tags

import "strings"

// EventPrefix marks the serialized form of an event tag. A contact may hold
// at most one entry with this prefix after a single-contact edit.
const EventPrefix = "Event: "

// Kind discriminates the parsed form of a stored tag string.
type Kind int

const (
	// KindCategory is a value from one of the four fixed category lists.
	KindCategory Kind = iota
	// KindEvent is an "Event: "-prefixed entry; Value holds the event name
	// without the prefix.
	KindEvent
	// KindCustom is any other free-text tag.
	KindCustom
)

// Tag is the in-memory form of one stored tag string.
type Tag struct {
	Kind  Kind
	Value string
}

// Category lists shown by the CRM tag editor. The storage layer only ever
// sees the plain string values.
var Categories = map[string][]string{
	"Temperature":  {"Hot", "Warm", "Cold"},
	"Relationship": {"Client", "Partner", "Vendor", "Investor"},
	"Source":       {"Event", "Referral", "Website", "Cold Outreach"},
	"Status":       {"New", "Contacted", "Follow-up", "Closed"},
}

// categorySet is the flattened membership index over Categories.
var categorySet = func() map[string]struct{} {
	s := make(map[string]struct{})
	for _, vals := range Categories {
		for _, v := range vals {
			s[v] = struct{}{}
		}
	}
	return s
}()

// IsCategory reports whether v is a member of one of the fixed category lists.
func IsCategory(v string) bool {
	_, ok := categorySet[v]
	return ok
}

// Parse converts a stored tag string into its tagged-union form.
func Parse(raw string) Tag {
	if strings.HasPrefix(raw, EventPrefix) {
		return Tag{Kind: KindEvent, Value: strings.TrimPrefix(raw, EventPrefix)}
	}
	if IsCategory(raw) {
		return Tag{Kind: KindCategory, Value: raw}
	}
	return Tag{Kind: KindCustom, Value: raw}
}

// String serializes a Tag back to its storage form.
func (t Tag) String() string {
	if t.Kind == KindEvent {
		return EventPrefix + t.Value
	}
	return t.Value
}

// Event builds the event tag for name. The name is trimmed; an empty result
// means "no event tag".
func Event(name string) (Tag, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, false
	}
	return Tag{Kind: KindEvent, Value: name}, true
}

// Edit captures the inputs of a tag edit as collected by the CRM screen,
// shared by the single-contact and bulk paths.
type Edit struct {
	// CategoryTags are the values toggled on in the four category lists.
	CategoryTags []string
	// CustomTag is the free-text slot; ignored when blank after trimming.
	CustomTag string
	// EventEnabled gates the event tag. The event is only added when enabled
	// AND EventName is non-blank after trimming.
	EventEnabled bool
	// EventName is the raw event name; serialized as "Event: {trimmed}".
	EventName string
}

// Normalize computes the next tag set for a single-contact edit. The edit
// replaces the contact's previous tags entirely:
//
//  1. start from the selected category tags,
//  2. append the trimmed custom tag when non-empty,
//  3. strip every event entry, wherever it came from,
//  4. append the fresh event tag when enabled and named.
//
// The result is deduplicated by exact string match. Order follows input
// order; it has no semantic meaning but keeps display stable.
func Normalize(e Edit) []string {
	working := make([]string, 0, len(e.CategoryTags)+2)
	working = append(working, e.CategoryTags...)
	if custom := strings.TrimSpace(e.CustomTag); custom != "" {
		working = append(working, custom)
	}

	out := make([]string, 0, len(working)+1)
	seen := make(map[string]struct{}, len(working)+1)
	for _, raw := range working {
		if Parse(raw).Kind == KindEvent {
			continue
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}

	if e.EventEnabled {
		if ev, ok := Event(e.EventName); ok {
			if _, dup := seen[ev.String()]; !dup {
				out = append(out, ev.String())
			}
		}
	}
	return out
}

// TagsToAdd computes the additive tag set a bulk edit applies to every
// targeted contact: category selections, the optional custom tag, and the
// optional event tag. Unlike Normalize it strips nothing; existing event tags
// on targeted contacts are left alone by design.
func (e Edit) TagsToAdd() []string {
	out := make([]string, 0, len(e.CategoryTags)+2)
	seen := make(map[string]struct{}, len(e.CategoryTags)+2)
	add := func(v string) {
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, c := range e.CategoryTags {
		add(c)
	}
	if custom := strings.TrimSpace(e.CustomTag); custom != "" {
		add(custom)
	}
	if e.EventEnabled {
		if ev, ok := Event(e.EventName); ok {
			add(ev.String())
		}
	}
	return out
}

// Merge returns the set union of existing and add, deduplicated by exact
// string equality, existing entries first in first-seen order. Merge is
// idempotent: Merge(Merge(e, a), a) == Merge(e, a).
func Merge(existing, add []string) []string {
	out := make([]string, 0, len(existing)+len(add))
	seen := make(map[string]struct{}, len(existing)+len(add))
	for _, v := range existing {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	for _, v := range add {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// EventTags returns the event entries present in a stored tag set. Used by
// tests and the CRM screen to surface the bulk-apply asymmetry rather than
// hide it.
func EventTags(stored []string) []string {
	var out []string
	for _, raw := range stored {
		if Parse(raw).Kind == KindEvent {
			out = append(out, raw)
		}
	}
	return out
}
