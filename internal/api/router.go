// Package api exposes the HTTP surface: intake, sites, enrichment,
// scenarios, and rent comps.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vflor92/REanalyzer/internal/intake"
	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/rentcomps"
	"github.com/vflor92/REanalyzer/internal/scenarios"
	"github.com/vflor92/REanalyzer/internal/sites"
	"github.com/vflor92/REanalyzer/internal/store"
)

// siteOperations is the slice of the sites service the handlers use.
type siteOperations interface {
	Create(ctx context.Context, in sites.CreateSiteInput) (*model.Site, error)
	Get(ctx context.Context, id string) (*model.Site, error)
	List(ctx context.Context, filter store.SiteFilter) (*store.SitePage, error)
	Update(ctx context.Context, id string, in sites.UpdateSiteInput) (*model.Site, error)
	Delete(ctx context.Context, id string) error
	Summarize(ctx context.Context, id string) (*model.DealSummary, error)
}

type scenarioOperations interface {
	CreateDefaults(ctx context.Context, siteID string) ([]model.Scenario, error)
	Update(ctx context.Context, id string, in scenarios.UpdateScenarioInput) (*model.Scenario, error)
	ListBySite(ctx context.Context, siteID string) ([]model.Scenario, error)
}

type rentCompOperations interface {
	Create(ctx context.Context, in rentcomps.CreateRentCompInput) (*model.RentComp, error)
	ListBySite(ctx context.Context, siteID string) ([]model.RentComp, error)
	Update(ctx context.Context, id string, in rentcomps.UpdateRentCompInput) (*model.RentComp, error)
	Delete(ctx context.Context, id string) error
	Summarize(ctx context.Context, id string) (*model.RentComp, error)
}

type intakeOperations interface {
	ParseOM(ctx context.Context, req intake.ParseRequest) (*model.ExtractionResult, error)
}

type enrichOperations interface {
	Enrich(ctx context.Context, siteID string) (*model.Site, error)
}

// Server holds the wired services behind the HTTP handlers.
type Server struct {
	sites     siteOperations
	scenarios scenarioOperations
	rentComps rentCompOperations
	intake    intakeOperations
	enricher  enrichOperations
}

func NewServer(
	siteSvc siteOperations,
	scenarioSvc scenarioOperations,
	rentCompSvc rentCompOperations,
	intakeSvc intakeOperations,
	enricher enrichOperations,
) *Server {
	return &Server{
		sites:     siteSvc,
		scenarios: scenarioSvc,
		rentComps: rentCompSvc,
		intake:    intakeSvc,
		enricher:  enricher,
	}
}

// Router builds the chi router with the full route table.
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)

	r.Post("/intake/parse-om", s.handleParseOM)

	r.Route("/sites", func(r chi.Router) {
		r.Post("/", s.handleCreateSite)
		r.Get("/", s.handleListSites)
		r.Route("/{siteID}", func(r chi.Router) {
			r.Get("/", s.handleGetSite)
			r.Patch("/", s.handleUpdateSite)
			r.Delete("/", s.handleDeleteSite)
			r.Post("/enrich", s.handleEnrichSite)
			r.Post("/summary", s.handleSiteSummary)
			r.Post("/scenarios/create-defaults", s.handleCreateDefaultScenarios)
			r.Get("/scenarios", s.handleListScenarios)
			r.Get("/rent-comps", s.handleListRentComps)
			r.Post("/rent-comps", s.handleCreateRentComp)
		})
	})

	r.Patch("/scenarios/{scenarioID}", s.handleUpdateScenario)

	r.Route("/rent-comps", func(r chi.Router) {
		r.Patch("/{compID}", s.handleUpdateRentComp)
		r.Delete("/{compID}", s.handleDeleteRentComp)
		r.Post("/{compID}/summarize", s.handleSummarizeRentComp)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
