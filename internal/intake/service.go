// Package intake accepts uploaded offering memorandums (PDF, pasted text,
// or a bare listing URL) and routes usable text into extraction.
package intake

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vflor92/REanalyzer/internal/model"
)

// minDocumentChars is the smallest trimmed document we will send to the
// extraction model. Shorter inputs are almost always upload mistakes.
const minDocumentChars = 50

type siteExtractor interface {
	ExtractSiteData(ctx context.Context, documentText string) (*model.ExtractionResult, error)
}

// ParseRequest carries one intake submission. Exactly one source is used,
// in priority order: PDF, then RawText, then ListingURL.
type ParseRequest struct {
	PDF        []byte
	RawText    string
	ListingURL string
}

// Service orchestrates document intake ahead of site creation.
type Service struct {
	extractor siteExtractor
}

func NewService(extractor siteExtractor) *Service {
	return &Service{extractor: extractor}
}

// ParseOM resolves the request to document text and runs extraction.
// URL-only submissions are rejected: fetching arbitrary listing pages is a
// separate concern and the caller should paste the text instead.
func (s *Service) ParseOM(ctx context.Context, req ParseRequest) (*model.ExtractionResult, error) {
	var text string
	switch {
	case len(req.PDF) > 0:
		extracted, err := extractPDFText(req.PDF)
		if err != nil {
			return nil, eris.Wrapf(model.ErrValidation, "unreadable pdf: %v", err)
		}
		text = extracted
		zap.L().Info("intake: pdf received",
			zap.Int("pdf_bytes", len(req.PDF)),
			zap.Int("text_chars", len(text)),
		)
	case strings.TrimSpace(req.RawText) != "":
		text = req.RawText
	case strings.TrimSpace(req.ListingURL) != "":
		return nil, eris.Wrap(model.ErrValidation, "listing url intake is not supported, paste the listing text")
	default:
		return nil, eris.Wrap(model.ErrValidation, "no document provided")
	}

	if len(strings.TrimSpace(text)) < minDocumentChars {
		return nil, eris.Wrapf(model.ErrValidation, "document too short, need at least %d characters", minDocumentChars)
	}

	return s.extractor.ExtractSiteData(ctx, text)
}
