// Package enrichment coordinates geocoding, demographics, and program-flag
// lookups for a site and persists the results.
package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/store"
	"github.com/vflor92/REanalyzer/pkg/census"
	"github.com/vflor92/REanalyzer/pkg/geocode"
	"github.com/vflor92/REanalyzer/pkg/hud"
)

// demographicsRadiusMiles is the ring enrichment writes automatically.
const demographicsRadiusMiles = 1

// Orchestrator runs the enrichment pipeline for one site at a time.
type Orchestrator struct {
	store    store.Store
	geocoder geocode.Client
	census   census.Client
	hud      hud.Client
}

func NewOrchestrator(st store.Store, geocoder geocode.Client, censusClient census.Client, hudClient hud.Client) *Orchestrator {
	return &Orchestrator{
		store:    st,
		geocoder: geocoder,
		census:   censusClient,
		hud:      hudClient,
	}
}

// Enrich geocodes the site if needed, then gathers demographics and program
// flags concurrently. Geocoding failure is fatal since every downstream
// lookup needs coordinates; provider failures degrade to labeled fallback
// data instead. Returns the freshly re-read site.
func (o *Orchestrator) Enrich(ctx context.Context, siteID string) (*model.Site, error) {
	site, err := o.store.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	lat, lon, err := o.resolveCoordinates(ctx, site)
	if err != nil {
		return nil, err
	}

	var demo *census.Data
	var flags *hud.Flags

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := o.census.Demographics(gctx, lat, lon, demographicsRadiusMiles)
		if err != nil {
			zap.L().Warn("enrichment: demographics lookup failed, using fallback",
				zap.String("site_id", siteID),
				zap.Error(err),
			)
			d = census.FallbackData(demographicsRadiusMiles)
		}
		demo = d
		return nil
	})
	g.Go(func() error {
		f, err := o.hud.ProgramFlags(gctx, lat, lon)
		if err != nil {
			zap.L().Warn("enrichment: program flag lookup failed, using fallback",
				zap.String("site_id", siteID),
				zap.Error(err),
			)
			f = hud.FallbackFlags()
		}
		flags = f
		return nil
	})
	_ = g.Wait()

	now := time.Now().UTC()
	if err := o.store.UpsertDemographics(ctx, &model.Demographics{
		ID:                    uuid.NewString(),
		SiteID:                siteID,
		RadiusMiles:           demographicsRadiusMiles,
		MedianHouseholdIncome: demo.MedianHouseholdIncome,
		Population:            demo.Population,
		Source:                demo.Source,
		AsOfYear:              demo.AsOfYear,
		Fallback:              demo.Fallback,
		UpdatedAt:             now,
	}); err != nil {
		return nil, eris.Wrap(err, "enrichment: persist demographics")
	}

	if err := o.store.UpsertProgramFlags(ctx, &model.ProgramFlags{
		ID:                uuid.NewString(),
		SiteID:            siteID,
		InLihtcQct:        flags.InLihtcQct,
		InLihtcDda:        flags.InLihtcDda,
		InOpportunityZone: flags.InOpportunityZone,
		Source:            flags.Source,
		Fallback:          flags.Fallback,
		LastCheckedAt:     now,
	}); err != nil {
		return nil, eris.Wrap(err, "enrichment: persist program flags")
	}

	zap.L().Info("enrichment: complete",
		zap.String("site_id", siteID),
		zap.Bool("demographics_fallback", demo.Fallback),
		zap.Bool("program_flags_fallback", flags.Fallback),
	)

	return o.store.GetSite(ctx, siteID)
}

// resolveCoordinates returns the site's stored coordinates, geocoding and
// persisting them first when absent.
func (o *Orchestrator) resolveCoordinates(ctx context.Context, site *model.Site) (lat, lon float64, err error) {
	if site.Latitude != nil && site.Longitude != nil {
		return *site.Latitude, *site.Longitude, nil
	}

	address := fmt.Sprintf("%s, %s, %s %s", site.AddressLine1, site.City, site.State, site.Zip)
	res, err := o.geocoder.Geocode(ctx, address)
	if err != nil {
		return 0, 0, eris.Wrapf(model.ErrEnrichment, "geocode site %s: %v", site.ID, err)
	}
	if res == nil {
		return 0, 0, eris.Wrapf(model.ErrEnrichment, "geocode site %s: address could not be placed", site.ID)
	}

	// Persist immediately so a later provider failure does not lose the fix.
	if err := o.store.UpdateSiteCoordinates(ctx, site.ID, res.Latitude, res.Longitude); err != nil {
		return 0, 0, eris.Wrap(err, "enrichment: persist coordinates")
	}

	zap.L().Info("enrichment: site geocoded",
		zap.String("site_id", site.ID),
		zap.String("source", res.Source),
		zap.Bool("fallback", res.Fallback),
	)
	return res.Latitude, res.Longitude, nil
}
