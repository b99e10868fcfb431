package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vflor92/REanalyzer/internal/model"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func ptr[T any](v T) *T { return &v }

func makeSite() *model.Site {
	now := time.Now().UTC()
	return &model.Site{
		ID:              uuid.NewString(),
		Name:            "Katy Ranch 40",
		AddressLine1:    "1200 FM 1463",
		City:            "Katy",
		State:           "TX",
		Zip:             "77494",
		SizeAcres:       40.2,
		SizeSqFt:        1751112,
		AskPriceTotal:   3500000,
		AskPricePerSqFt: 1.9987,
		Status:          model.SiteStatusNew,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestSQLiteSiteRoundTrip(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	site := makeSite()
	site.BrokerEmail = ptr("jane@landco.com")

	require.NoError(t, st.CreateSite(ctx, site))

	got, err := st.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, site.Name, got.Name)
	assert.Equal(t, site.SizeSqFt, got.SizeSqFt)
	require.NotNil(t, got.BrokerEmail)
	assert.Equal(t, "jane@landco.com", *got.BrokerEmail)
	assert.Nil(t, got.Latitude)
	assert.Nil(t, got.Constraints)
	assert.Nil(t, got.ProgramFlags)
}

func TestSQLiteGetSite_NotFound(t *testing.T) {
	st := newSQLiteStore(t)

	_, err := st.GetSite(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSQLiteUpdateSiteCoordinates(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	site := makeSite()
	require.NoError(t, st.CreateSite(ctx, site))

	require.NoError(t, st.UpdateSiteCoordinates(ctx, site.ID, 29.78, -95.82))

	got, err := st.GetSite(ctx, site.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Latitude)
	assert.Equal(t, 29.78, *got.Latitude)
	assert.Equal(t, -95.82, *got.Longitude)
}

func TestSQLiteUpsertDemographics_ReplacesPerRadius(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	site := makeSite()
	require.NoError(t, st.CreateSite(ctx, site))

	first := &model.Demographics{
		ID: uuid.NewString(), SiteID: site.ID, RadiusMiles: 1,
		MedianHouseholdIncome: ptr(90000), Source: "ACS 2022 5-Year Estimates",
		AsOfYear: 2022, UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.UpsertDemographics(ctx, first))

	second := &model.Demographics{
		ID: uuid.NewString(), SiteID: site.ID, RadiusMiles: 1,
		MedianHouseholdIncome: ptr(95000), Source: "ACS 2022 5-Year Estimates",
		AsOfYear: 2022, Fallback: false, UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.UpsertDemographics(ctx, second))

	got, err := st.GetSite(ctx, site.ID)
	require.NoError(t, err)
	require.Len(t, got.Demographics, 1)
	assert.Equal(t, 95000, *got.Demographics[0].MedianHouseholdIncome)
}

func TestSQLiteUpsertProgramFlags_OneRowPerSite(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	site := makeSite()
	require.NoError(t, st.CreateSite(ctx, site))

	require.NoError(t, st.UpsertProgramFlags(ctx, &model.ProgramFlags{
		ID: uuid.NewString(), SiteID: site.ID, InLihtcQct: true,
		Source: "HUD/IRS Official Data (ArcGIS)", LastCheckedAt: time.Now().UTC(),
	}))
	require.NoError(t, st.UpsertProgramFlags(ctx, &model.ProgramFlags{
		ID: uuid.NewString(), SiteID: site.ID, InLihtcQct: false, InOpportunityZone: true,
		Source: "HUD/IRS Official Data (ArcGIS)", LastCheckedAt: time.Now().UTC(),
	}))

	got, err := st.GetSite(ctx, site.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ProgramFlags)
	assert.False(t, got.ProgramFlags.InLihtcQct)
	assert.True(t, got.ProgramFlags.InOpportunityZone)
}

func TestSQLiteScenarioUniquePerType(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	site := makeSite()
	require.NoError(t, st.CreateSite(ctx, site))

	now := time.Now().UTC()
	sc := &model.Scenario{
		ID: uuid.NewString(), SiteID: site.ID,
		ScenarioType: model.ScenarioMFGardenMarket,
		Status:       "TODO", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.CreateScenario(ctx, sc))

	dup := &model.Scenario{
		ID: uuid.NewString(), SiteID: site.ID,
		ScenarioType: model.ScenarioMFGardenMarket,
		Status:       "TODO", CreatedAt: now, UpdatedAt: now,
	}
	assert.Error(t, st.CreateScenario(ctx, dup))

	found, err := st.FindScenarioByType(ctx, site.ID, model.ScenarioMFGardenMarket)
	require.NoError(t, err)
	assert.Equal(t, sc.ID, found.ID)

	_, err = st.FindScenarioByType(ctx, site.ID, model.ScenarioBTRDuplex)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSQLiteDeleteSiteCascades(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()
	site := makeSite()
	require.NoError(t, st.CreateSite(ctx, site))

	now := time.Now().UTC()
	require.NoError(t, st.CreateRentComp(ctx, &model.RentComp{
		ID: uuid.NewString(), SiteID: site.ID, CompName: "Oak Grove",
		CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, st.DeleteSite(ctx, site.ID))

	comps, err := st.ListRentComps(ctx, site.ID)
	require.NoError(t, err)
	assert.Empty(t, comps)
}

func TestSQLiteListSites_SortAndFilter(t *testing.T) {
	st := newSQLiteStore(t)
	ctx := context.Background()

	for i, price := range []float64{300000, 100000, 200000} {
		site := makeSite()
		site.ID = uuid.NewString()
		site.Name = string(rune('A' + i))
		site.AskPriceTotal = price
		require.NoError(t, st.CreateSite(ctx, site))
	}

	page, err := st.ListSites(ctx, SiteFilter{
		SortBy: "askPriceTotal", SortOrder: "asc", Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Data, 3)
	assert.Equal(t, 100000.0, page.Data[0].AskPriceTotal)
	assert.Equal(t, 300000.0, page.Data[2].AskPriceTotal)

	// Unknown sort keys fall back to created_at rather than erroring.
	_, err = st.ListSites(ctx, SiteFilter{SortBy: "evil; DROP TABLE sites", Page: 1, Limit: 10})
	require.NoError(t, err)
}
