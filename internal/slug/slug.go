// Package slug derives the public URL slug of a business card.
//
// The slug is the lowercased display name with every run of characters
// outside [a-z0-9] collapsed to a single hyphen, leading and trailing hyphens
// trimmed, always followed by a hyphen and the first eight characters of the
// owner's user id. The owner suffix keeps slugs unique across users with the
// same name while staying short enough to share verbally.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	valid    = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Generate builds the slug for a card display name and its owner's user id.
// It is total: any input yields a usable slug.
func Generate(name, userID string) string {
	base := strings.ToLower(name)
	base = nonAlnum.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	suffix := userID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	// The hyphen is emitted unconditionally, so an empty or all-symbol name
	// yields "-{suffix}". IsValid accepts the leading hyphen.
	return base + "-" + suffix
}

// IsValid reports whether s is a well-formed slug. Used to reject path
// parameters before they reach the store.
func IsValid(s string) bool {
	return valid.MatchString(s)
}
