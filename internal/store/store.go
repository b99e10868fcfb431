// Package store provides persistence behind a single interface with
// Postgres and SQLite implementations.
package store

import (
	"context"

	"github.com/vflor92/REanalyzer/internal/model"
)

// SiteFilter narrows and orders site listings.
type SiteFilter struct {
	Status    string
	State     string
	City      string
	SortBy    string // createdAt, updatedAt, name, askPriceTotal, sizeAcres
	SortOrder string // asc or desc
	Page      int
	Limit     int
}

// SitePage is one page of site summaries plus paging metadata.
type SitePage struct {
	Data       []model.SiteSummary `json:"data"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"totalPages"`
}

// Store is the persistence contract shared by both backends.
type Store interface {
	// Sites. GetSite loads constraints, utilities, demographics, and
	// program flags alongside the site row.
	CreateSite(ctx context.Context, site *model.Site) error
	GetSite(ctx context.Context, id string) (*model.Site, error)
	ListSites(ctx context.Context, filter SiteFilter) (*SitePage, error)
	UpdateSite(ctx context.Context, site *model.Site) error
	DeleteSite(ctx context.Context, id string) error
	UpdateSiteCoordinates(ctx context.Context, id string, lat, lon float64) error

	// Enrichment results.
	UpsertDemographics(ctx context.Context, d *model.Demographics) error
	UpsertProgramFlags(ctx context.Context, f *model.ProgramFlags) error

	// Scenarios.
	CreateScenario(ctx context.Context, sc *model.Scenario) error
	GetScenario(ctx context.Context, id string) (*model.Scenario, error)
	FindScenarioByType(ctx context.Context, siteID string, scenarioType model.ScenarioType) (*model.Scenario, error)
	ListScenarios(ctx context.Context, siteID string) ([]model.Scenario, error)
	UpdateScenarioMetrics(ctx context.Context, sc *model.Scenario) error

	// Rent comps.
	CreateRentComp(ctx context.Context, rc *model.RentComp) error
	GetRentComp(ctx context.Context, id string) (*model.RentComp, error)
	ListRentComps(ctx context.Context, siteID string) ([]model.RentComp, error)
	UpdateRentComp(ctx context.Context, rc *model.RentComp) error
	DeleteRentComp(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}
