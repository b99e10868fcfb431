package extract

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/pkg/anthropic"
)

const (
	// maxDocumentChars bounds the document text sent to the model.
	maxDocumentChars = 100000
	truncationMarker = "\n\n[Document truncated...]"

	extractTemperature = 0.1
	extractMaxTokens   = 2048
	summaryMaxTokens   = 1024
)

// Extractor runs document extraction and summary generation against the
// configured Anthropic model.
type Extractor struct {
	ai    anthropic.Client
	model string
}

// NewExtractor creates an Extractor using the given client and model name.
func NewExtractor(ai anthropic.Client, modelName string) *Extractor {
	return &Extractor{ai: ai, model: modelName}
}

// ExtractSiteData parses offering-memorandum text into a sanitized
// ExtractionResult. Every field comes back well-formed even when the model
// omits or mangles it; hard failures wrap ErrExtraction.
func (e *Extractor) ExtractSiteData(ctx context.Context, documentText string) (*model.ExtractionResult, error) {
	if len(documentText) > maxDocumentChars {
		zap.L().Warn("extract: document truncated",
			zap.Int("original_chars", len(documentText)),
			zap.Int("max_chars", maxDocumentChars),
		)
		cut := maxDocumentChars
		for cut > 0 && !utf8.RuneStart(documentText[cut]) {
			cut--
		}
		documentText = documentText[:cut] + truncationMarker
	}

	temp := extractTemperature
	resp, err := e.ai.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   extractMaxTokens,
		Temperature: &temp,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildParsePrompt(documentText)},
		},
	})
	if err != nil {
		return nil, eris.Wrapf(model.ErrExtraction, "parse document: %v", err)
	}

	text := extractText(resp)
	if text == "" {
		return nil, eris.Wrap(model.ErrExtraction, "parse document: empty model response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(text)), &raw); err != nil {
		return nil, eris.Wrapf(model.ErrExtraction, "parse document: decode model output: %v", err)
	}

	result := validateAndSanitize(raw)

	zap.L().Info("extract: document parsed",
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)
	return result, nil
}

// extractText joins the text blocks of a model response.
func extractText(resp *anthropic.MessageResponse) string {
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

// cleanJSON strips markdown code fences and any prose surrounding the
// outermost JSON object.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start != -1 && end != -1 && end > start {
		s = s[start : end+1]
	}
	return s
}
