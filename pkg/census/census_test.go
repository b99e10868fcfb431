package census

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, geocoderHandler, dataHandler http.HandlerFunc) Client {
	t.Helper()
	geoSrv := httptest.NewServer(geocoderHandler)
	dataSrv := httptest.NewServer(dataHandler)
	t.Cleanup(geoSrv.Close)
	t.Cleanup(dataSrv.Close)
	return NewClient("", WithGeocoderURL(geoSrv.URL), WithDataURL(dataSrv.URL))
}

func TestDemographics(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"geographies":{"Census Tracts":[{"STATE":"48","COUNTY":"157","TRACT":"673001"}]}}}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.RawQuery, "B19013_001E")
			w.Write([]byte(`[["B19013_001E","B01003_001E","state","county","tract"],["98452","6732","48","157","673001"]]`))
		},
	)

	data, err := c.Demographics(context.Background(), 29.78, -95.82, 1)

	require.NoError(t, err)
	require.NotNil(t, data.MedianHouseholdIncome)
	assert.Equal(t, 98452, *data.MedianHouseholdIncome)
	require.NotNil(t, data.Population)
	assert.Equal(t, 6732, *data.Population)
	assert.Equal(t, 2022, data.AsOfYear)
	assert.False(t, data.Fallback)
}

func TestDemographics_SuppressedEstimateIsNil(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"geographies":{"Census Tracts":[{"STATE":"48","COUNTY":"157","TRACT":"673001"}]}}}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[["B19013_001E","B01003_001E","state","county","tract"],["-666666666","6732","48","157","673001"]]`))
		},
	)

	data, err := c.Demographics(context.Background(), 29.78, -95.82, 1)

	require.NoError(t, err)
	assert.Nil(t, data.MedianHouseholdIncome)
	require.NotNil(t, data.Population)
}

func TestDemographics_NoTractErrors(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":{"geographies":{"Census Tracts":[]}}}`))
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("data API should not be called without a tract")
		},
	)

	_, err := c.Demographics(context.Background(), 0, 0, 1)
	assert.Error(t, err)
}

func TestDemographics_GeocoderDownErrors(t *testing.T) {
	c := newTestClient(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		},
		func(w http.ResponseWriter, r *http.Request) {},
	)

	_, err := c.Demographics(context.Background(), 29.78, -95.82, 1)
	assert.Error(t, err)
}

func TestFallbackData(t *testing.T) {
	d := FallbackData(1)
	require.NotNil(t, d.MedianHouseholdIncome)
	require.NotNil(t, d.Population)
	assert.True(t, d.Fallback)
	// Baseline 75000 with +-10% jitter.
	assert.GreaterOrEqual(t, *d.MedianHouseholdIncome, 67500)
	assert.LessOrEqual(t, *d.MedianHouseholdIncome, 82500)

	wide := FallbackData(3)
	// The 3-mile ring scales by 1.5.
	assert.GreaterOrEqual(t, *wide.Population, 67500)
	assert.LessOrEqual(t, *wide.Population, 82500)
}
