package model

import "time"

// SiteStatus tracks where a site sits in the intake funnel.
type SiteStatus string

const (
	SiteStatusNew          SiteStatus = "NEW"
	SiteStatusReviewing    SiteStatus = "REVIEWING"
	SiteStatusUnderwriting SiteStatus = "UNDERWRITING"
	SiteStatusOffer        SiteStatus = "OFFER"
	SiteStatusArchived     SiteStatus = "ARCHIVED"
)

// Site is a persisted land listing under evaluation. SizeSqFt and
// AskPricePerSqFt are derived from SizeAcres and AskPriceTotal and must be
// recomputed together whenever either raw input changes.
type Site struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	AddressLine1    string     `json:"addressLine1"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Zip             string     `json:"zip"`
	Latitude        *float64   `json:"latitude"`
	Longitude       *float64   `json:"longitude"`
	County          *string    `json:"county,omitempty"`
	AHJ             *string    `json:"ahj,omitempty"`
	SizeAcres       float64    `json:"sizeAcres"`
	SizeSqFt        float64    `json:"sizeSf"`
	AskPriceTotal   float64    `json:"askPriceTotal"`
	AskPricePerSqFt float64    `json:"askPricePerSf"`
	BrokerName      *string    `json:"brokerName,omitempty"`
	BrokerCompany   *string    `json:"brokerCompany,omitempty"`
	BrokerEmail     *string    `json:"brokerEmail,omitempty"`
	ListingURL      *string    `json:"listingUrl,omitempty"`
	Status          SiteStatus `json:"status"`
	NotesInternal   *string    `json:"notesInternal,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Constraints  *SiteConstraints `json:"constraints,omitempty"`
	Utilities    *SiteUtilities   `json:"utilities,omitempty"`
	Demographics []Demographics   `json:"demographics,omitempty"`
	ProgramFlags *ProgramFlags    `json:"programFlags,omitempty"`
}

// SiteSummary is the trimmed projection returned by site listings.
type SiteSummary struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	City            string     `json:"city"`
	State           string     `json:"state"`
	Status          SiteStatus `json:"status"`
	SizeAcres       float64    `json:"sizeAcres"`
	AskPriceTotal   float64    `json:"askPriceTotal"`
	AskPricePerSqFt float64    `json:"askPricePerSf"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// SiteConstraints holds development constraints for a site. Flood-zone
// fields are entered manually by a reviewer and are never auto-populated
// by enrichment.
type SiteConstraints struct {
	SiteID                     string     `json:"-"`
	DetentionRequired          *bool      `json:"detentionRequired,omitempty"`
	DetentionNotes             *string    `json:"detentionNotes,omitempty"`
	CanBreakGroundAfter        *time.Time `json:"canBreakGroundAfter,omitempty"`
	ZoningType                 *string    `json:"zoningType,omitempty"`
	DeedRestrictionsText       *string    `json:"deedRestrictionsText,omitempty"`
	FloodZoneCode              *string    `json:"floodZoneCode,omitempty"`
	FloodSource                *string    `json:"floodSource,omitempty"`
	SchoolDistrictName         *string    `json:"schoolDistrictName,omitempty"`
	SchoolDistrictRatingSource *string    `json:"schoolDistrictRatingSource,omitempty"`
	SchoolDistrictRatingValue  *string    `json:"schoolDistrictRatingValue,omitempty"`
}

// SiteUtilities holds utility-provider data for a site.
type SiteUtilities struct {
	SiteID               string     `json:"-"`
	WaterProvider        *string    `json:"waterProvider,omitempty"`
	SewerProvider        *string    `json:"sewerProvider,omitempty"`
	MudName              *string    `json:"mudName,omitempty"`
	TaxRateTotal         *float64   `json:"taxRateTotal,omitempty"`
	TaxRateSourceURL     *string    `json:"taxRateSourceUrl,omitempty"`
	TaxRateLastCheckedAt *time.Time `json:"taxRateLastCheckedAt,omitempty"`
}
