package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vflor92/REanalyzer/internal/model"
)

func TestGenerateCompSummary(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("Oak Grove is a garden-style community 1.2 miles away renting at $1.45/SF."), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	got, err := e.GenerateCompSummary(context.Background(), CompFacts{
		Name:      "Oak Grove",
		Type:      "MF Garden",
		RentPerSF: "$1.45",
		RentRange: "$1100 - $1650",
		Distance:  "1.2 miles",
		Notes:     "?",
	})

	require.NoError(t, err)
	assert.Contains(t, got, "Oak Grove")
}

func TestGenerateCompSummary_FailsExplicitly(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	_, err := e.GenerateCompSummary(context.Background(), CompFacts{Name: "Oak Grove"})

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExtraction)
}

func TestGenerateDealSummary(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`{"pros":["Strong demographics","Below-market land basis"],"cons":["Detention likely required"],"overview":"Solid garden-style candidate."}`), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	got, err := e.GenerateDealSummary(context.Background(), "Name: Katy Ranch 40\nSize: 40.2 acres")

	require.NoError(t, err)
	assert.Len(t, got.Pros, 2)
	assert.Len(t, got.Cons, 1)
	assert.Equal(t, "Solid garden-style candidate.", got.Overview)
}

func TestGenerateDealSummary_MalformedListsCollapse(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`{"pros":"not an array","cons":[1,2,"only this survives"],"overview":"Overview text."}`), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	got, err := e.GenerateDealSummary(context.Background(), "snapshot")

	require.NoError(t, err)
	assert.Empty(t, got.Pros)
	assert.Equal(t, []string{"only this survives"}, got.Cons)
	assert.Equal(t, "Overview text.", got.Overview)
}

func TestGenerateDealSummary_NonStringOverviewCollapses(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse(
		`{"pros":["a"],"cons":["b"],"overview":42}`), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	got, err := e.GenerateDealSummary(context.Background(), "snapshot")

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got.Pros)
	assert.Equal(t, []string{"b"}, got.Cons)
	assert.Empty(t, got.Overview)
}

func TestGenerateDealSummary_BadJSONFails(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("not json at all"), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	_, err := e.GenerateDealSummary(context.Background(), "snapshot")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExtraction)
}
