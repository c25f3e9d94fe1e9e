// Package vcard renders vCard 3.0 payloads for card and contact downloads.
//
// The output format is a fixed compatibility contract consumed by phone
// address books: lines are joined with CRLF, the FN and structured N lines are
// always present, and each optional field emits its line only when non-empty.
package vcard

import "strings"

// Contact holds the fields a downloaded vCard carries. Only Name is required.
type Contact struct {
	Name         string
	Organization string
	Email        string
	Mobile       string
	Whatsapp     string
	Linkedin     string
}

// Generate renders c as a vCard 3.0 string with CRLF line endings.
func Generate(c Contact) string {
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + c.Name,
		"N:" + c.Name + ";;;;",
	}
	if c.Organization != "" {
		lines = append(lines, "ORG:"+c.Organization)
	}
	if c.Email != "" {
		lines = append(lines, "EMAIL;TYPE=INTERNET:"+c.Email)
	}
	if c.Mobile != "" {
		lines = append(lines, "TEL;TYPE=CELL:"+c.Mobile)
	}
	if c.Whatsapp != "" {
		lines = append(lines, "TEL;TYPE=WHATSAPP:"+c.Whatsapp)
	}
	if c.Linkedin != "" {
		lines = append(lines, "URL:"+c.Linkedin)
	}
	lines = append(lines, "END:VCARD")
	return strings.Join(lines, "\r\n")
}

// Filename returns the download filename for a contact, spaces replaced with
// underscores.
func Filename(name string) string {
	return strings.Join(strings.Fields(name), "_") + ".vcf"
}
