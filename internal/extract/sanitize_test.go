package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		wantNil   bool
		wantValue string
		wantConf  float64
	}{
		{"missing field", nil, true, "", 0},
		{"not an object", "just a string", true, "", 0},
		{"null value", map[string]any{"value": nil, "confidence": 0.9}, true, "", 0},
		{"empty string", map[string]any{"value": "", "confidence": 0.9}, true, "", 0},
		{"whitespace only", map[string]any{"value": "   ", "confidence": 0.9}, true, "", 0},
		{"trims value", map[string]any{"value": "  Katy Ranch  ", "confidence": 0.8}, false, "Katy Ranch", 0.8},
		{"clamps high confidence", map[string]any{"value": "Katy Ranch", "confidence": 1.7}, false, "Katy Ranch", 1.0},
		{"clamps negative confidence", map[string]any{"value": "Katy Ranch", "confidence": -0.5}, false, "Katy Ranch", 0},
		{"non-numeric confidence", map[string]any{"value": "Katy Ranch", "confidence": "high"}, false, "Katy Ranch", 0},
		{"unquoted zip coerced", map[string]any{"value": 77494.0, "confidence": 0.9}, false, "77494", 0.9},
		{"object value rejected", map[string]any{"value": map[string]any{}, "confidence": 0.9}, true, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeText(tt.raw)
			if tt.wantNil {
				assert.Nil(t, got.Value)
				assert.Zero(t, got.Confidence)
				return
			}
			require.NotNil(t, got.Value)
			assert.Equal(t, tt.wantValue, *got.Value)
			assert.Equal(t, tt.wantConf, got.Confidence)
		})
	}
}

func TestSanitizeNumber(t *testing.T) {
	t.Run("valid float", func(t *testing.T) {
		got := sanitizeNumber(map[string]any{"value": 12.5, "sourceSnippet": "12.5 acres", "confidence": 0.9})
		require.NotNil(t, got.Value)
		assert.Equal(t, 12.5, *got.Value)
		require.NotNil(t, got.SourceSnippet)
		assert.Equal(t, "12.5 acres", *got.SourceSnippet)
		assert.Equal(t, 0.9, got.Confidence)
	})

	t.Run("numeric string accepted", func(t *testing.T) {
		got := sanitizeNumber(map[string]any{"value": "2500000", "confidence": 0.8})
		require.NotNil(t, got.Value)
		assert.Equal(t, 2500000.0, *got.Value)
	})

	t.Run("non-numeric string rejected", func(t *testing.T) {
		got := sanitizeNumber(map[string]any{"value": "approximately twelve", "confidence": 0.8})
		assert.Nil(t, got.Value)
		assert.Zero(t, got.Confidence)
	})

	t.Run("null value rejected", func(t *testing.T) {
		got := sanitizeNumber(map[string]any{"value": nil, "confidence": 0.8})
		assert.Nil(t, got.Value)
		assert.Zero(t, got.Confidence)
	})
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, clampConfidence(nil))
	assert.Equal(t, 0.0, clampConfidence("high"))
	assert.Equal(t, 0.0, clampConfidence(-1.0))
	assert.Equal(t, 1.0, clampConfidence(2.0))
	assert.Equal(t, 0.85, clampConfidence(0.85))
}

func TestSanitizeSnippet(t *testing.T) {
	assert.Nil(t, sanitizeSnippet(nil))
	assert.Nil(t, sanitizeSnippet(""))
	assert.Nil(t, sanitizeSnippet(42))

	got := sanitizeSnippet("Asking Price: $2,500,000")
	require.NotNil(t, got)
	assert.Equal(t, "Asking Price: $2,500,000", *got)
}
