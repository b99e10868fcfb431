package model

import "time"

// ScenarioType enumerates the unit-economics templates applied to a site.
type ScenarioType string

const (
	ScenarioMFGardenMarket ScenarioType = "MF_GARDEN_MARKET"
	ScenarioMFGardenLIHTC  ScenarioType = "MF_GARDEN_LIHTC"
	ScenarioBTRDuplex      ScenarioType = "BTR_DUPLEX"
	ScenarioBTRRowTownhome ScenarioType = "BTR_ROW_TOWNHOME"
)

// Scenario is a per-site unit-count projection. DensityUnitsPerAcre and
// LandPricePerDoor are derived from AssumedNetAcres, AssumedUnits, and the
// site's ask price, and are always recomputed as a pair.
type Scenario struct {
	ID                  string       `json:"id"`
	SiteID              string       `json:"siteId"`
	ScenarioType        ScenarioType `json:"scenarioType"`
	AssumedNetAcres     float64      `json:"assumedNetAcres"`
	AssumedUnits        int          `json:"assumedUnits"`
	DensityUnitsPerAcre float64      `json:"densityUnitsPerAcre"`
	LandPricePerDoor    float64      `json:"landPricePerDoor"`
	Status              string       `json:"status"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}
