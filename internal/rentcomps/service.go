// Package rentcomps manages rental comparables and their AI summaries.
package rentcomps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/vflor92/REanalyzer/internal/extract"
	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/store"
)

type compSummarizer interface {
	GenerateCompSummary(ctx context.Context, facts extract.CompFacts) (string, error)
}

// Service implements rent-comp operations on top of the store.
type Service struct {
	store      store.Store
	summarizer compSummarizer
}

func NewService(st store.Store, summarizer compSummarizer) *Service {
	return &Service{store: st, summarizer: summarizer}
}

// CreateRentCompInput carries a new comparable.
type CreateRentCompInput struct {
	SiteID         string   `json:"siteId"`
	CompName       string   `json:"compName"`
	CompType       *string  `json:"compType"`
	AverageRentPsf *float64 `json:"averageRentPsf"`
	RentRangeLow   *float64 `json:"rentRangeLow"`
	RentRangeHigh  *float64 `json:"rentRangeHigh"`
	DistanceMiles  *float64 `json:"distanceMiles"`
	Notes          *string  `json:"notes"`
}

// UpdateRentCompInput is a partial update. Nil pointers leave fields alone.
type UpdateRentCompInput struct {
	CompName       *string  `json:"compName"`
	CompType       *string  `json:"compType"`
	AverageRentPsf *float64 `json:"averageRentPsf"`
	RentRangeLow   *float64 `json:"rentRangeLow"`
	RentRangeHigh  *float64 `json:"rentRangeHigh"`
	DistanceMiles  *float64 `json:"distanceMiles"`
	Notes          *string  `json:"notes"`
}

func (s *Service) Create(ctx context.Context, in CreateRentCompInput) (*model.RentComp, error) {
	if strings.TrimSpace(in.CompName) == "" {
		return nil, eris.Wrap(model.ErrValidation, "compName is required")
	}
	if _, err := s.store.GetSite(ctx, in.SiteID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rc := &model.RentComp{
		ID:             uuid.NewString(),
		SiteID:         in.SiteID,
		CompName:       strings.TrimSpace(in.CompName),
		CompType:       in.CompType,
		AverageRentPsf: in.AverageRentPsf,
		RentRangeLow:   in.RentRangeLow,
		RentRangeHigh:  in.RentRangeHigh,
		DistanceMiles:  in.DistanceMiles,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateRentComp(ctx, rc); err != nil {
		return nil, eris.Wrap(err, "rentcomps: create")
	}
	return rc, nil
}

func (s *Service) ListBySite(ctx context.Context, siteID string) ([]model.RentComp, error) {
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	return s.store.ListRentComps(ctx, siteID)
}

func (s *Service) Update(ctx context.Context, id string, in UpdateRentCompInput) (*model.RentComp, error) {
	rc, err := s.store.GetRentComp(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.CompName != nil {
		if strings.TrimSpace(*in.CompName) == "" {
			return nil, eris.Wrap(model.ErrValidation, "compName must not be empty")
		}
		rc.CompName = strings.TrimSpace(*in.CompName)
	}
	if in.CompType != nil {
		rc.CompType = in.CompType
	}
	if in.AverageRentPsf != nil {
		rc.AverageRentPsf = in.AverageRentPsf
	}
	if in.RentRangeLow != nil {
		rc.RentRangeLow = in.RentRangeLow
	}
	if in.RentRangeHigh != nil {
		rc.RentRangeHigh = in.RentRangeHigh
	}
	if in.DistanceMiles != nil {
		rc.DistanceMiles = in.DistanceMiles
	}
	if in.Notes != nil {
		rc.Notes = in.Notes
	}

	rc.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateRentComp(ctx, rc); err != nil {
		return nil, eris.Wrap(err, "rentcomps: update")
	}
	return rc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRentComp(ctx, id)
}

// Summarize generates a short AI summary from the comp's stored facts and
// persists it into the comp's notes.
func (s *Service) Summarize(ctx context.Context, id string) (*model.RentComp, error) {
	rc, err := s.store.GetRentComp(ctx, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.GenerateCompSummary(ctx, compFacts(rc))
	if err != nil {
		return nil, err
	}

	rc.Notes = &summary
	rc.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateRentComp(ctx, rc); err != nil {
		return nil, eris.Wrap(err, "rentcomps: persist summary")
	}
	return rc, nil
}

// compFacts renders stored fields as prompt facts. Missing values become
// "?" so the prompt can drop them.
func compFacts(rc *model.RentComp) extract.CompFacts {
	facts := extract.CompFacts{
		Name:      rc.CompName,
		Type:      "?",
		RentPerSF: "?",
		RentRange: "? - ?",
		Distance:  "?",
		Notes:     "?",
	}
	if rc.CompType != nil {
		facts.Type = *rc.CompType
	}
	if rc.AverageRentPsf != nil {
		facts.RentPerSF = fmt.Sprintf("$%.2f", *rc.AverageRentPsf)
	}
	low, high := "?", "?"
	if rc.RentRangeLow != nil {
		low = fmt.Sprintf("$%.0f", *rc.RentRangeLow)
	}
	if rc.RentRangeHigh != nil {
		high = fmt.Sprintf("$%.0f", *rc.RentRangeHigh)
	}
	facts.RentRange = fmt.Sprintf("%s - %s", low, high)
	if rc.DistanceMiles != nil {
		facts.Distance = fmt.Sprintf("%.1f miles", *rc.DistanceMiles)
	}
	if rc.Notes != nil && strings.TrimSpace(*rc.Notes) != "" {
		facts.Notes = *rc.Notes
	}
	return facts
}
