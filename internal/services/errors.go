// Package services defines the business logic for business cards, contacts,
// WhatsApp templates, and generated summaries. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

var (
	// ErrCardNotFound indicates that the requested business card does not
	// exist or is not accessible to the current user.
	ErrCardNotFound = errors.New("business card not found")

	// ErrContactNotFound indicates that the requested contact does not exist
	// or is not accessible to the current user.
	ErrContactNotFound = errors.New("contact not found")

	// ErrTemplateNotFound indicates that the requested WhatsApp template does
	// not exist or is not accessible to the current user.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrNoActiveTemplate is returned when a render is requested and the user
	// has no active template.
	ErrNoActiveTemplate = errors.New("no active template")

	// ErrMissingRequiredFields is returned when a card save is missing one of
	// name, job title, or company name.
	ErrMissingRequiredFields = errors.New("name, job title and company name are required")

	// ErrMissingName is returned when a contact share omits the name.
	ErrMissingName = errors.New("name is required")

	// ErrInvalidSlug is returned when a public lookup carries a slug that is
	// not well-formed.
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrEmptyTranscript is returned when meeting minutes are requested
	// without a transcript.
	ErrEmptyTranscript = errors.New("transcript is required")

	// ErrEmptyTemplate is returned when a template is created or updated with
	// a blank name or body.
	ErrEmptyTemplate = errors.New("template name and body are required")

	// ErrNoContacts is returned by bulk operations invoked with an empty
	// contact id list.
	ErrNoContacts = errors.New("no contacts selected")
)
