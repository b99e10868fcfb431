// Package model holds the entities and extraction value types shared across
// the intake, underwriting, and enrichment services.
package model

// Field is a single extracted value together with the literal document
// snippet it came from and the model's confidence in it.
//
// Invariant: Confidence is always within [0,1]. Value is nil iff the field
// was not found or unparseable, in which case Confidence is 0 and
// SourceSnippet is nil.
type Field[T any] struct {
	Value         *T      `json:"value"`
	SourceSnippet *string `json:"sourceSnippet"`
	Confidence    float64 `json:"confidence"`
}

// ExtractionResult is the fixed 14-field output of an offering-memorandum
// extraction. A fresh result is produced per call; results are never merged
// and never persisted by the extraction layer.
type ExtractionResult struct {
	Name                 Field[string]  `json:"name"`
	AddressLine1         Field[string]  `json:"addressLine1"`
	City                 Field[string]  `json:"city"`
	State                Field[string]  `json:"state"`
	Zip                  Field[string]  `json:"zip"`
	SizeAcres            Field[float64] `json:"sizeAcres"`
	AskPriceTotal        Field[float64] `json:"askPriceTotal"`
	BrokerName           Field[string]  `json:"brokerName"`
	BrokerCompany        Field[string]  `json:"brokerCompany"`
	BrokerEmail          Field[string]  `json:"brokerEmail"`
	ListingURL           Field[string]  `json:"listingUrl"`
	MudName              Field[string]  `json:"mudName"`
	DetentionNotes       Field[string]  `json:"detentionNotes"`
	DeedRestrictionsText Field[string]  `json:"deedRestrictionsText"`
}

// DealSummary is the structured output of the deal-summary generation.
// Fields collapse to empty defaults rather than failing when the model
// returns an unexpected shape.
type DealSummary struct {
	Pros     []string `json:"pros"`
	Cons     []string `json:"cons"`
	Overview string   `json:"overview"`
}
