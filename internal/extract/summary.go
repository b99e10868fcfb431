package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/pkg/anthropic"
)

// CompFacts is the grounded fact sheet for a rent-comp summary. Unknown
// facts should be passed as "?" placeholders so the prompt can omit them.
type CompFacts struct {
	Name      string
	Type      string
	RentPerSF string
	RentRange string
	Distance  string
	Notes     string
}

// GenerateCompSummary produces a 1-2 sentence plain-text summary of a
// rental comparable. The model only sees the supplied facts.
func (e *Extractor) GenerateCompSummary(ctx context.Context, facts CompFacts) (string, error) {
	prompt := fmt.Sprintf(compSummaryPrompt,
		facts.Name, facts.Type, facts.RentPerSF, facts.RentRange, facts.Distance, facts.Notes)

	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: summaryMaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrapf(model.ErrExtraction, "comp summary: %v", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", eris.Wrap(model.ErrExtraction, "comp summary: empty model response")
	}
	return text, nil
}

// GenerateDealSummary produces a pros/cons/overview assessment from a site
// snapshot. Malformed pros/cons/overview shapes collapse to empty defaults
// rather than failing the call.
func (e *Extractor) GenerateDealSummary(ctx context.Context, snapshot string) (*model.DealSummary, error) {
	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: summaryMaxTokens,
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(dealSummaryPrompt, snapshot)},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(model.ErrExtraction, "deal summary: %v", err)
	}

	text := extractText(resp)
	if text == "" {
		return nil, eris.Wrap(model.ErrExtraction, "deal summary: empty model response")
	}

	var raw struct {
		Pros     any `json:"pros"`
		Cons     any `json:"cons"`
		Overview any `json:"overview"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrapf(model.ErrExtraction, "deal summary: decode model output: %v", err)
	}

	overview, _ := raw.Overview.(string)
	return &model.DealSummary{
		Pros:     toStringSlice(raw.Pros),
		Cons:     toStringSlice(raw.Cons),
		Overview: overview,
	}, nil
}

// toStringSlice keeps only the string elements of a decoded JSON array.
// Anything else collapses to an empty slice.
func toStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
