package model

import "time"

// RentComp is a rental comparable attached to a site.
type RentComp struct {
	ID             string    `json:"id"`
	SiteID         string    `json:"siteId"`
	CompName       string    `json:"compName"`
	CompType       *string   `json:"compType,omitempty"`
	AverageRentPsf *float64  `json:"averageRentPsf,omitempty"`
	RentRangeLow   *float64  `json:"rentRangeLow,omitempty"`
	RentRangeHigh  *float64  `json:"rentRangeHigh,omitempty"`
	DistanceMiles  *float64  `json:"distanceMiles,omitempty"`
	Notes          *string   `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
