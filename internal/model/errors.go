package model

import "github.com/rotisserie/eris"

// Sentinel error kinds. Services wrap these with eris so callers can branch
// on kind via errors.Is while the message keeps the original cause.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = eris.New("not found")

	// ErrValidation means the caller supplied malformed or unusable input.
	ErrValidation = eris.New("validation failed")

	// ErrExtraction means a model call, response parse, or empty response
	// prevented structured extraction.
	ErrExtraction = eris.New("extraction failed")

	// ErrEnrichment means the enrichment pipeline could not proceed,
	// currently only when geocoding fails for a site without coordinates.
	ErrEnrichment = eris.New("enrichment failed")
)
