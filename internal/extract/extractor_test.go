package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/pkg/anthropic"
)

func TestExtractSiteData_ParsesFencedJSON(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("```json\n"+
		`{"name":{"value":"Katy Ranch 40","sourceSnippet":"KATY RANCH 40","confidence":1.0},`+
		`"sizeAcres":{"value":40.2,"sourceSnippet":"40.2 acres","confidence":0.95}}`+
		"\n```"), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	result, err := e.ExtractSiteData(context.Background(), "KATY RANCH 40 ... 40.2 acres ...")

	require.NoError(t, err)
	require.NotNil(t, result.Name.Value)
	assert.Equal(t, "Katy Ranch 40", *result.Name.Value)
	require.NotNil(t, result.SizeAcres.Value)
	assert.Equal(t, 40.2, *result.SizeAcres.Value)
	assert.Nil(t, result.AskPriceTotal.Value)
	ai.AssertExpectations(t)
}

func TestExtractSiteData_RequestShape(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.MaxTokens == 2048 &&
			req.Temperature != nil && *req.Temperature == 0.1 &&
			len(req.Messages) == 1 && req.Messages[0].Role == "user"
	})).Return(textResponse(`{}`), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	_, err := e.ExtractSiteData(context.Background(), "some offering memorandum text")

	require.NoError(t, err)
	ai.AssertExpectations(t)
}

func TestExtractSiteData_TruncatesLongDocuments(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return strings.Contains(req.Messages[0].Content, truncationMarker)
	})).Return(textResponse(`{}`), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	long := strings.Repeat("a", maxDocumentChars+500)
	_, err := e.ExtractSiteData(context.Background(), long)

	require.NoError(t, err)
	ai.AssertExpectations(t)
}

func TestExtractSiteData_TruncatesOnRuneBoundary(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return utf8.ValidString(req.Messages[0].Content) &&
			strings.Contains(req.Messages[0].Content, truncationMarker)
	})).Return(textResponse(`{}`), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	// Place a two-byte rune across the truncation boundary.
	long := strings.Repeat("a", maxDocumentChars-1) + strings.Repeat("é", 300)
	_, err := e.ExtractSiteData(context.Background(), long)

	require.NoError(t, err)
	ai.AssertExpectations(t)
}

func TestExtractSiteData_APIErrorWrapsExtraction(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("api overloaded"))

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	_, err := e.ExtractSiteData(context.Background(), "some text")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExtraction)
	assert.Contains(t, err.Error(), "api overloaded")
}

func TestExtractSiteData_MalformedJSONWrapsExtraction(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(textResponse("I cannot find a property here."), nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	_, err := e.ExtractSiteData(context.Background(), "unrelated text")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExtraction)
}

func TestExtractSiteData_EmptyResponse(t *testing.T) {
	ai := new(mockAnthropicClient)
	ai.On("CreateMessage", mock.Anything, mock.Anything).Return(&anthropic.MessageResponse{}, nil)

	e := NewExtractor(ai, "claude-haiku-4-5-20251001")
	_, err := e.ExtractSiteData(context.Background(), "some text")

	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrExtraction)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around object", `Here is the JSON: {"a":1} as requested.`, `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.in))
		})
	}
}
