package model

import "time"

// Demographics is a census snapshot for a site at a given radius. Rows are
// unique per (site, radius) and upserted in place. Fallback marks synthetic
// data substituted when the census providers were unavailable.
type Demographics struct {
	ID                    string    `json:"id"`
	SiteID                string    `json:"siteId"`
	RadiusMiles           int       `json:"radiusMiles"`
	MedianHouseholdIncome *int      `json:"medianHouseholdIncome"`
	Population            *int      `json:"population"`
	Source                string    `json:"source"`
	AsOfYear              int       `json:"asOfYear"`
	Fallback              bool      `json:"fallback"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ProgramFlags holds federal program eligibility for a site. One row per
// site, upserted in place. Fallback marks synthetic flags substituted when
// the HUD services were unavailable.
type ProgramFlags struct {
	ID                string    `json:"id"`
	SiteID            string    `json:"siteId"`
	InLihtcQct        bool      `json:"inLihtcQct"`
	InLihtcDda        bool      `json:"inLihtcDda"`
	InOpportunityZone bool      `json:"inOpportunityZone"`
	Source            string    `json:"source"`
	Fallback          bool      `json:"fallback"`
	LastCheckedAt     time.Time `json:"programFlagsLastCheckedAt"`
}
