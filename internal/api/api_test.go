package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vflor92/REanalyzer/internal/intake"
	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/rentcomps"
	"github.com/vflor92/REanalyzer/internal/scenarios"
	"github.com/vflor92/REanalyzer/internal/sites"
	"github.com/vflor92/REanalyzer/internal/store"
)

type mockSites struct{ mock.Mock }

func (m *mockSites) Create(ctx context.Context, in sites.CreateSiteInput) (*model.Site, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Site), args.Error(1)
}

func (m *mockSites) Get(ctx context.Context, id string) (*model.Site, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Site), args.Error(1)
}

func (m *mockSites) List(ctx context.Context, filter store.SiteFilter) (*store.SitePage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.SitePage), args.Error(1)
}

func (m *mockSites) Update(ctx context.Context, id string, in sites.UpdateSiteInput) (*model.Site, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Site), args.Error(1)
}

func (m *mockSites) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSites) Summarize(ctx context.Context, id string) (*model.DealSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DealSummary), args.Error(1)
}

type mockScenarios struct{ mock.Mock }

func (m *mockScenarios) CreateDefaults(ctx context.Context, siteID string) ([]model.Scenario, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Scenario), args.Error(1)
}

func (m *mockScenarios) Update(ctx context.Context, id string, in scenarios.UpdateScenarioInput) (*model.Scenario, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Scenario), args.Error(1)
}

func (m *mockScenarios) ListBySite(ctx context.Context, siteID string) ([]model.Scenario, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Scenario), args.Error(1)
}

type mockRentComps struct{ mock.Mock }

func (m *mockRentComps) Create(ctx context.Context, in rentcomps.CreateRentCompInput) (*model.RentComp, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RentComp), args.Error(1)
}

func (m *mockRentComps) ListBySite(ctx context.Context, siteID string) ([]model.RentComp, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RentComp), args.Error(1)
}

func (m *mockRentComps) Update(ctx context.Context, id string, in rentcomps.UpdateRentCompInput) (*model.RentComp, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RentComp), args.Error(1)
}

func (m *mockRentComps) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRentComps) Summarize(ctx context.Context, id string) (*model.RentComp, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RentComp), args.Error(1)
}

type mockIntake struct{ mock.Mock }

func (m *mockIntake) ParseOM(ctx context.Context, req intake.ParseRequest) (*model.ExtractionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExtractionResult), args.Error(1)
}

type mockEnricher struct{ mock.Mock }

func (m *mockEnricher) Enrich(ctx context.Context, siteID string) (*model.Site, error) {
	args := m.Called(ctx, siteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Site), args.Error(1)
}

type testServer struct {
	sites     *mockSites
	scenarios *mockScenarios
	rentComps *mockRentComps
	intake    *mockIntake
	enricher  *mockEnricher
	handler   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		sites:     new(mockSites),
		scenarios: new(mockScenarios),
		rentComps: new(mockRentComps),
		intake:    new(mockIntake),
		enricher:  new(mockEnricher),
	}
	srv := NewServer(ts.sites, ts.scenarios, ts.rentComps, ts.intake, ts.enricher)
	ts.handler = srv.Router([]string{"*"})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetSite(t *testing.T) {
	ts := newTestServer(t)
	ts.sites.On("Get", mock.Anything, "abc").Return(&model.Site{ID: "abc", Name: "Katy Ranch 40"}, nil)

	w := ts.do(t, http.MethodGet, "/sites/abc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Site
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Katy Ranch 40", got.Name)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", model.ErrNotFound, http.StatusNotFound},
		{"validation", model.ErrValidation, http.StatusBadRequest},
		{"extraction", model.ErrExtraction, http.StatusBadGateway},
		{"enrichment", model.ErrEnrichment, http.StatusBadGateway},
		{"unexpected", errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.sites.On("Get", mock.Anything, "abc").Return(nil, tt.err)

			w := ts.do(t, http.MethodGet, "/sites/abc", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusInternalServerError {
				// Internal causes must not leak into the response body.
				assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
			}
		})
	}
}

func TestCreateSite(t *testing.T) {
	ts := newTestServer(t)
	ts.sites.On("Create", mock.Anything, mock.MatchedBy(func(in sites.CreateSiteInput) bool {
		return in.Name == "Katy Ranch 40" && in.SizeAcres == 40.2
	})).Return(&model.Site{ID: "new-id", Name: "Katy Ranch 40"}, nil)

	w := ts.do(t, http.MethodPost, "/sites", map[string]any{
		"name": "Katy Ranch 40", "sizeAcres": 40.2,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	ts.sites.AssertExpectations(t)
}

func TestCreateSite_BadJSON(t *testing.T) {
	ts := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/sites", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListSites_QueryParams(t *testing.T) {
	ts := newTestServer(t)
	ts.sites.On("List", mock.Anything, store.SiteFilter{
		Status: "NEW", State: "TX", SortBy: "askPriceTotal", SortOrder: "asc", Page: 2, Limit: 10,
	}).Return(&store.SitePage{Data: []model.SiteSummary{}, Page: 2, Limit: 10}, nil)

	w := ts.do(t, http.MethodGet, "/sites?status=NEW&state=TX&sortBy=askPriceTotal&sortOrder=asc&page=2&limit=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	ts.sites.AssertExpectations(t)
}

func TestEnrichSite(t *testing.T) {
	ts := newTestServer(t)
	ts.enricher.On("Enrich", mock.Anything, "abc").Return(&model.Site{ID: "abc"}, nil)

	w := ts.do(t, http.MethodPost, "/sites/abc/enrich", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateDefaultScenarios(t *testing.T) {
	ts := newTestServer(t)
	ts.scenarios.On("CreateDefaults", mock.Anything, "abc").
		Return([]model.Scenario{{ScenarioType: model.ScenarioMFGardenMarket}}, nil)

	w := ts.do(t, http.MethodPost, "/sites/abc/scenarios/create-defaults", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUpdateScenario(t *testing.T) {
	ts := newTestServer(t)
	units := 100
	ts.scenarios.On("Update", mock.Anything, "sc-1", mock.MatchedBy(func(in scenarios.UpdateScenarioInput) bool {
		return in.AssumedUnits != nil && *in.AssumedUnits == units
	})).Return(&model.Scenario{ID: "sc-1", AssumedUnits: units}, nil)

	w := ts.do(t, http.MethodPatch, "/scenarios/sc-1", map[string]any{"assumedUnits": units})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseOM_JSONBody(t *testing.T) {
	ts := newTestServer(t)
	ts.intake.On("ParseOM", mock.Anything, mock.MatchedBy(func(req intake.ParseRequest) bool {
		return req.RawText == "pasted listing text" && len(req.PDF) == 0
	})).Return(&model.ExtractionResult{}, nil)

	w := ts.do(t, http.MethodPost, "/intake/parse-om", map[string]any{"rawText": "pasted listing text"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseOM_BadBase64Rejected(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/intake/parse-om", map[string]any{"pdfBase64": "%%not-base64%%"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	ts.intake.AssertNotCalled(t, "ParseOM", mock.Anything, mock.Anything)
}

func TestCreateRentComp_SiteIDFromPath(t *testing.T) {
	ts := newTestServer(t)
	ts.rentComps.On("Create", mock.Anything, mock.MatchedBy(func(in rentcomps.CreateRentCompInput) bool {
		return in.SiteID == "abc" && in.CompName == "Oak Grove"
	})).Return(&model.RentComp{ID: "rc-1", SiteID: "abc", CompName: "Oak Grove"}, nil)

	w := ts.do(t, http.MethodPost, "/sites/abc/rent-comps", map[string]any{"compName": "Oak Grove"})

	assert.Equal(t, http.StatusCreated, w.Code)
	ts.rentComps.AssertExpectations(t)
}

func TestSummarizeRentComp(t *testing.T) {
	ts := newTestServer(t)
	notes := "Oak Grove rents at $1.45/SF."
	ts.rentComps.On("Summarize", mock.Anything, "rc-1").
		Return(&model.RentComp{ID: "rc-1", Notes: &notes}, nil)

	w := ts.do(t, http.MethodPost, "/rent-comps/rc-1/summarize", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.RentComp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)
}

func TestDeleteSite(t *testing.T) {
	ts := newTestServer(t)
	ts.sites.On("Delete", mock.Anything, "abc").Return(nil)

	w := ts.do(t, http.MethodDelete, "/sites/abc", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
