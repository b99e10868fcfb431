// Package scenarios manages per-site unit-economics projections.
package scenarios

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/store"
)

// netAcresRatio is the share of gross acreage assumed developable after
// detention, easements, and internal circulation.
const netAcresRatio = 0.75

// template is a default scenario seed: product type plus assumed density.
type template struct {
	scenarioType model.ScenarioType
	unitsPerAcre float64
}

var defaultTemplates = []template{
	{model.ScenarioMFGardenMarket, 25},
	{model.ScenarioMFGardenLIHTC, 25},
	{model.ScenarioBTRDuplex, 11},
	{model.ScenarioBTRRowTownhome, 15},
}

// Service implements scenario operations on top of the store.
type Service struct {
	store store.Store
}

func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// UpdateScenarioInput is a partial update of a scenario's assumptions.
type UpdateScenarioInput struct {
	AssumedNetAcres *float64 `json:"assumedNetAcres"`
	AssumedUnits    *int     `json:"assumedUnits"`
	Status          *string  `json:"status"`
}

// CreateDefaults seeds the four standard scenarios for a site. Types that
// already exist are skipped, so the call is safe to repeat.
func (s *Service) CreateDefaults(ctx context.Context, siteID string) ([]model.Scenario, error) {
	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	netAcres := site.SizeAcres * netAcresRatio
	now := time.Now().UTC()
	created := make([]model.Scenario, 0, len(defaultTemplates))

	for _, tpl := range defaultTemplates {
		existing, err := s.store.FindScenarioByType(ctx, siteID, tpl.scenarioType)
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return nil, eris.Wrap(err, "scenarios: check existing")
		}
		if existing != nil {
			continue
		}

		units := int(math.Round(netAcres * tpl.unitsPerAcre))
		density, pricePerDoor := scenarioMetrics(netAcres, units, site.AskPriceTotal)

		sc := model.Scenario{
			ID:                  uuid.NewString(),
			SiteID:              siteID,
			ScenarioType:        tpl.scenarioType,
			AssumedNetAcres:     netAcres,
			AssumedUnits:        units,
			DensityUnitsPerAcre: density,
			LandPricePerDoor:    pricePerDoor,
			Status:              "TODO",
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := s.store.CreateScenario(ctx, &sc); err != nil {
			return nil, eris.Wrap(err, "scenarios: create default")
		}
		created = append(created, sc)
	}

	zap.L().Info("scenarios: defaults created",
		zap.String("site_id", siteID),
		zap.Int("created", len(created)),
	)
	return created, nil
}

// Update applies new assumptions and recomputes both derived metrics from
// the stored site's current ask price.
func (s *Service) Update(ctx context.Context, id string, in UpdateScenarioInput) (*model.Scenario, error) {
	sc, err := s.store.GetScenario(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.AssumedNetAcres != nil {
		if *in.AssumedNetAcres < 0 {
			return nil, eris.Wrap(model.ErrValidation, "assumedNetAcres must not be negative")
		}
		sc.AssumedNetAcres = *in.AssumedNetAcres
	}
	if in.AssumedUnits != nil {
		if *in.AssumedUnits < 0 {
			return nil, eris.Wrap(model.ErrValidation, "assumedUnits must not be negative")
		}
		sc.AssumedUnits = *in.AssumedUnits
	}
	if in.Status != nil {
		sc.Status = *in.Status
	}

	site, err := s.store.GetSite(ctx, sc.SiteID)
	if err != nil {
		return nil, err
	}
	sc.DensityUnitsPerAcre, sc.LandPricePerDoor = scenarioMetrics(sc.AssumedNetAcres, sc.AssumedUnits, site.AskPriceTotal)
	sc.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateScenarioMetrics(ctx, sc); err != nil {
		return nil, eris.Wrap(err, "scenarios: update")
	}
	return sc, nil
}

// ListBySite returns every scenario attached to a site.
func (s *Service) ListBySite(ctx context.Context, siteID string) ([]model.Scenario, error) {
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	return s.store.ListScenarios(ctx, siteID)
}

// scenarioMetrics derives density and land price per door. Zero inputs
// yield zero outputs instead of dividing by zero.
func scenarioMetrics(netAcres float64, units int, askPriceTotal float64) (density, pricePerDoor float64) {
	if netAcres > 0 {
		density = float64(units) / netAcres
	}
	if units > 0 {
		pricePerDoor = askPriceTotal / float64(units)
	}
	return density, pricePerDoor
}
