package rentcomps

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vflor92/REanalyzer/internal/extract"
	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/store"
)

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) GenerateCompSummary(ctx context.Context, facts extract.CompFacts) (string, error) {
	args := m.Called(ctx, facts)
	return args.String(0), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockSummarizer, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	summarizer := new(mockSummarizer)
	return NewService(st, summarizer), summarizer, st
}

func seedSite(t *testing.T, st store.Store) *model.Site {
	t.Helper()
	now := time.Now().UTC()
	site := &model.Site{
		ID:        uuid.NewString(),
		Name:      "Test Site",
		Status:    model.SiteStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.CreateSite(context.Background(), site))
	return site
}

func ptr[T any](v T) *T { return &v }

func TestCreate(t *testing.T) {
	svc, _, st := newTestService(t)
	site := seedSite(t, st)

	rc, err := svc.Create(context.Background(), CreateRentCompInput{
		SiteID:         site.ID,
		CompName:       "Oak Grove",
		CompType:       ptr("MF Garden"),
		AverageRentPsf: ptr(1.45),
	})

	require.NoError(t, err)
	assert.Equal(t, "Oak Grove", rc.CompName)
	assert.NotEmpty(t, rc.ID)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, st := newTestService(t)
	site := seedSite(t, st)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateRentCompInput{SiteID: site.ID, CompName: "  "})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.Create(ctx, CreateRentCompInput{SiteID: "missing", CompName: "Oak Grove"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, _, st := newTestService(t)
	site := seedSite(t, st)
	ctx := context.Background()

	rc, err := svc.Create(ctx, CreateRentCompInput{
		SiteID: site.ID, CompName: "Oak Grove", AverageRentPsf: ptr(1.45),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, rc.ID, UpdateRentCompInput{
		DistanceMiles: ptr(1.2),
	})
	require.NoError(t, err)
	assert.Equal(t, "Oak Grove", updated.CompName)
	require.NotNil(t, updated.AverageRentPsf)
	assert.Equal(t, 1.45, *updated.AverageRentPsf)
	require.NotNil(t, updated.DistanceMiles)
	assert.Equal(t, 1.2, *updated.DistanceMiles)
}

func TestSummarize_PersistsNotes(t *testing.T) {
	svc, summarizer, st := newTestService(t)
	site := seedSite(t, st)
	ctx := context.Background()

	rc, err := svc.Create(ctx, CreateRentCompInput{
		SiteID:         site.ID,
		CompName:       "Oak Grove",
		CompType:       ptr("MF Garden"),
		AverageRentPsf: ptr(1.45),
		RentRangeLow:   ptr(1100.0),
		DistanceMiles:  ptr(1.2),
	})
	require.NoError(t, err)

	summarizer.On("GenerateCompSummary", mock.Anything, mock.MatchedBy(func(facts extract.CompFacts) bool {
		return facts.Name == "Oak Grove" &&
			facts.RentPerSF == "$1.45" &&
			facts.RentRange == "$1100 - ?" &&
			strings.Contains(facts.Distance, "miles")
	})).Return("Oak Grove rents at $1.45/SF about 1.2 miles from the site.", nil)

	got, err := svc.Summarize(ctx, rc.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Contains(t, *got.Notes, "Oak Grove")

	// The summary survives a reload.
	reloaded, err := st.GetRentComp(ctx, rc.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Notes)
	assert.Equal(t, *got.Notes, *reloaded.Notes)
	summarizer.AssertExpectations(t)
}

func TestSummarize_ExtractionFailurePropagates(t *testing.T) {
	svc, summarizer, st := newTestService(t)
	site := seedSite(t, st)
	ctx := context.Background()

	rc, err := svc.Create(ctx, CreateRentCompInput{SiteID: site.ID, CompName: "Oak Grove"})
	require.NoError(t, err)

	summarizer.On("GenerateCompSummary", mock.Anything, mock.Anything).
		Return("", model.ErrExtraction)

	_, err = svc.Summarize(ctx, rc.ID)
	assert.ErrorIs(t, err, model.ErrExtraction)

	// A failed summary never clobbers existing notes.
	reloaded, err := st.GetRentComp(ctx, rc.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Notes)
}

func TestDelete(t *testing.T) {
	svc, _, st := newTestService(t)
	site := seedSite(t, st)
	ctx := context.Background()

	rc, err := svc.Create(ctx, CreateRentCompInput{SiteID: site.ID, CompName: "Oak Grove"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, rc.ID))
	assert.ErrorIs(t, svc.Delete(ctx, rc.ID), model.ErrNotFound)

	list, err := svc.ListBySite(ctx, site.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
