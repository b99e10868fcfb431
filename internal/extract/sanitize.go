// Package extract turns raw offering-memorandum text into sanitized
// structured site data via the extraction model, and generates rent-comp
// and deal summaries under the same call/parse discipline.
package extract

import (
	"math"
	"strconv"
	"strings"

	"github.com/vflor92/REanalyzer/internal/model"
)

// Kind is the expected primitive kind of an extracted field.
type Kind int

const (
	Text Kind = iota
	Number
)

// sanitizeText normalizes one raw field of text kind into a well-formed
// Field. Absent or malformed input yields the null/zero-confidence default.
func sanitizeText(raw any) model.Field[string] {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Field[string]{}
	}

	s, ok := textValue(obj["value"])
	if !ok || s == "" {
		return model.Field[string]{}
	}

	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return model.Field[string]{}
	}

	return model.Field[string]{
		Value:         &trimmed,
		SourceSnippet: sanitizeSnippet(obj["sourceSnippet"]),
		Confidence:    clampConfidence(obj["confidence"]),
	}
}

// sanitizeNumber normalizes one raw field of numeric kind. A value that does
// not convert to a finite number is treated as absent, with confidence
// forced to 0 regardless of what the model reported.
func sanitizeNumber(raw any) model.Field[float64] {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Field[float64]{}
	}

	n, ok := toFiniteFloat(obj["value"])
	if !ok {
		return model.Field[float64]{}
	}

	return model.Field[float64]{
		Value:         &n,
		SourceSnippet: sanitizeSnippet(obj["sourceSnippet"]),
		Confidence:    clampConfidence(obj["confidence"]),
	}
}

// textValue renders a scalar value as text. The model sometimes drops
// quoting on zip codes and similar numeric-looking fields.
func textValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// clampConfidence coerces a reported confidence into [0,1].
// Non-numeric confidence reads as 0.
func clampConfidence(v any) float64 {
	c, ok := toFiniteFloat(v)
	if !ok {
		return 0
	}
	return math.Max(0, math.Min(1, c))
}

// sanitizeSnippet passes a non-empty snippet through verbatim, else nil.
func sanitizeSnippet(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// toFiniteFloat converts decoded JSON values to a finite float64.
// Numeric strings are accepted; NaN and infinities are not.
func toFiniteFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
