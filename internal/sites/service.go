// Package sites implements site CRUD with derived-metric recomputation and
// the AI deal-summary snapshot.
package sites

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/store"
)

type dealSummarizer interface {
	GenerateDealSummary(ctx context.Context, snapshot string) (*model.DealSummary, error)
}

// Service implements site operations on top of the store.
type Service struct {
	store      store.Store
	summarizer dealSummarizer
}

func NewService(st store.Store, summarizer dealSummarizer) *Service {
	return &Service{store: st, summarizer: summarizer}
}

// CreateSiteInput carries the confirmed intake values for a new site.
type CreateSiteInput struct {
	Name                 string  `json:"name"`
	AddressLine1         string  `json:"addressLine1"`
	City                 string  `json:"city"`
	State                string  `json:"state"`
	Zip                  string  `json:"zip"`
	SizeAcres            float64 `json:"sizeAcres"`
	AskPriceTotal        float64 `json:"askPriceTotal"`
	BrokerName           *string `json:"brokerName"`
	BrokerCompany        *string `json:"brokerCompany"`
	BrokerEmail          *string `json:"brokerEmail"`
	ListingURL           *string `json:"listingUrl"`
	NotesInternal        *string `json:"notesInternal"`
	MudName              *string `json:"mudName"`
	DetentionNotes       *string `json:"detentionNotes"`
	DeedRestrictionsText *string `json:"deedRestrictionsText"`
}

// UpdateSiteInput is a partial update. Nil pointers leave fields untouched.
type UpdateSiteInput struct {
	Name          *string  `json:"name"`
	AddressLine1  *string  `json:"addressLine1"`
	City          *string  `json:"city"`
	State         *string  `json:"state"`
	Zip           *string  `json:"zip"`
	SizeAcres     *float64 `json:"sizeAcres"`
	AskPriceTotal *float64 `json:"askPriceTotal"`
	BrokerName    *string  `json:"brokerName"`
	BrokerCompany *string  `json:"brokerCompany"`
	BrokerEmail   *string  `json:"brokerEmail"`
	ListingURL    *string  `json:"listingUrl"`
	Status        *string  `json:"status"`
	NotesInternal *string  `json:"notesInternal"`

	Constraints *model.SiteConstraints `json:"constraints"`
	Utilities   *model.SiteUtilities   `json:"utilities"`
}

var validStatuses = map[model.SiteStatus]bool{
	model.SiteStatusNew:          true,
	model.SiteStatusReviewing:    true,
	model.SiteStatusUnderwriting: true,
	model.SiteStatusOffer:        true,
	model.SiteStatusArchived:     true,
}

// Create persists a new site in NEW status with its derived metrics
// computed from the raw inputs.
func (s *Service) Create(ctx context.Context, in CreateSiteInput) (*model.Site, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, eris.Wrap(model.ErrValidation, "site name is required")
	}
	if in.SizeAcres < 0 {
		return nil, eris.Wrap(model.ErrValidation, "sizeAcres must not be negative")
	}
	if in.AskPriceTotal < 0 {
		return nil, eris.Wrap(model.ErrValidation, "askPriceTotal must not be negative")
	}

	now := time.Now().UTC()
	sizeSqFt, pricePerSqFt := DerivedSiteMetrics(in.SizeAcres, in.AskPriceTotal)

	site := &model.Site{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		AddressLine1:    in.AddressLine1,
		City:            in.City,
		State:           in.State,
		Zip:             in.Zip,
		SizeAcres:       in.SizeAcres,
		SizeSqFt:        sizeSqFt,
		AskPriceTotal:   in.AskPriceTotal,
		AskPricePerSqFt: pricePerSqFt,
		BrokerName:      in.BrokerName,
		BrokerCompany:   in.BrokerCompany,
		BrokerEmail:     in.BrokerEmail,
		ListingURL:      in.ListingURL,
		Status:          model.SiteStatusNew,
		NotesInternal:   in.NotesInternal,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if in.DetentionNotes != nil || in.DeedRestrictionsText != nil {
		site.Constraints = &model.SiteConstraints{
			SiteID:               site.ID,
			DetentionNotes:       in.DetentionNotes,
			DeedRestrictionsText: in.DeedRestrictionsText,
		}
	}
	if in.MudName != nil {
		site.Utilities = &model.SiteUtilities{
			SiteID:  site.ID,
			MudName: in.MudName,
		}
	}

	if err := s.store.CreateSite(ctx, site); err != nil {
		return nil, eris.Wrap(err, "sites: create")
	}

	zap.L().Info("sites: created",
		zap.String("site_id", site.ID),
		zap.String("name", site.Name),
	)
	return site, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Site, error) {
	return s.store.GetSite(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.SiteFilter) (*store.SitePage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.store.ListSites(ctx, filter)
}

// Update applies a partial update. Whenever acreage or ask price changes,
// both derived metrics are recomputed before persisting.
func (s *Service) Update(ctx context.Context, id string, in UpdateSiteInput) (*model.Site, error) {
	site, err := s.store.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, eris.Wrap(model.ErrValidation, "site name must not be empty")
		}
		site.Name = strings.TrimSpace(*in.Name)
	}
	if in.AddressLine1 != nil {
		site.AddressLine1 = *in.AddressLine1
	}
	if in.City != nil {
		site.City = *in.City
	}
	if in.State != nil {
		site.State = *in.State
	}
	if in.Zip != nil {
		site.Zip = *in.Zip
	}
	if in.BrokerName != nil {
		site.BrokerName = in.BrokerName
	}
	if in.BrokerCompany != nil {
		site.BrokerCompany = in.BrokerCompany
	}
	if in.BrokerEmail != nil {
		site.BrokerEmail = in.BrokerEmail
	}
	if in.ListingURL != nil {
		site.ListingURL = in.ListingURL
	}
	if in.NotesInternal != nil {
		site.NotesInternal = in.NotesInternal
	}
	if in.Status != nil {
		status := model.SiteStatus(*in.Status)
		if !validStatuses[status] {
			return nil, eris.Wrapf(model.ErrValidation, "invalid status %q", *in.Status)
		}
		site.Status = status
	}

	recompute := false
	if in.SizeAcres != nil {
		if *in.SizeAcres < 0 {
			return nil, eris.Wrap(model.ErrValidation, "sizeAcres must not be negative")
		}
		site.SizeAcres = *in.SizeAcres
		recompute = true
	}
	if in.AskPriceTotal != nil {
		if *in.AskPriceTotal < 0 {
			return nil, eris.Wrap(model.ErrValidation, "askPriceTotal must not be negative")
		}
		site.AskPriceTotal = *in.AskPriceTotal
		recompute = true
	}
	if recompute {
		site.SizeSqFt, site.AskPricePerSqFt = DerivedSiteMetrics(site.SizeAcres, site.AskPriceTotal)
	}

	if in.Constraints != nil {
		in.Constraints.SiteID = site.ID
		site.Constraints = in.Constraints
	}
	if in.Utilities != nil {
		in.Utilities.SiteID = site.ID
		site.Utilities = in.Utilities
	}

	site.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateSite(ctx, site); err != nil {
		return nil, eris.Wrap(err, "sites: update")
	}
	return site, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteSite(ctx, id)
}

// Summarize builds a grounded snapshot of the site and asks the model for
// a pros/cons/overview assessment.
func (s *Service) Summarize(ctx context.Context, id string) (*model.DealSummary, error) {
	site, err := s.store.GetSite(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarizer.GenerateDealSummary(ctx, buildSnapshot(site))
}

// buildSnapshot renders the site as a compact fact sheet. Only persisted
// data goes in, so the summary model has nothing to hallucinate from.
func buildSnapshot(site *model.Site) string {
	p := message.NewPrinter(language.AmericanEnglish)
	var sb strings.Builder

	fmt.Fprintf(&sb, "Name: %s\n", site.Name)
	fmt.Fprintf(&sb, "Location: %s, %s, %s %s\n", site.AddressLine1, site.City, site.State, site.Zip)
	fmt.Fprintf(&sb, "Status: %s\n", site.Status)
	p.Fprintf(&sb, "Size: %.2f acres (%.0f SF)\n", site.SizeAcres, site.SizeSqFt)
	p.Fprintf(&sb, "Ask price: $%.0f ($%.2f/SF)\n", site.AskPriceTotal, site.AskPricePerSqFt)

	if site.Latitude != nil && site.Longitude != nil {
		fmt.Fprintf(&sb, "Coordinates: %.6f, %.6f\n", *site.Latitude, *site.Longitude)
	}
	if c := site.Constraints; c != nil {
		if c.FloodZoneCode != nil {
			fmt.Fprintf(&sb, "Flood zone: %s\n", *c.FloodZoneCode)
		}
		if c.DetentionNotes != nil {
			fmt.Fprintf(&sb, "Detention: %s\n", *c.DetentionNotes)
		}
		if c.DeedRestrictionsText != nil {
			fmt.Fprintf(&sb, "Deed restrictions: %s\n", *c.DeedRestrictionsText)
		}
		if c.ZoningType != nil {
			fmt.Fprintf(&sb, "Zoning: %s\n", *c.ZoningType)
		}
	}
	if u := site.Utilities; u != nil {
		if u.MudName != nil {
			fmt.Fprintf(&sb, "MUD: %s\n", *u.MudName)
		}
		if u.TaxRateTotal != nil {
			fmt.Fprintf(&sb, "Total tax rate: %.4f\n", *u.TaxRateTotal)
		}
	}
	for _, d := range site.Demographics {
		if d.MedianHouseholdIncome != nil {
			p.Fprintf(&sb, "Median household income (%d mi): $%d\n", d.RadiusMiles, *d.MedianHouseholdIncome)
		}
		if d.Population != nil {
			p.Fprintf(&sb, "Population (%d mi): %d\n", d.RadiusMiles, *d.Population)
		}
		if d.Fallback {
			fmt.Fprintf(&sb, "Demographics (%d mi) are fallback estimates\n", d.RadiusMiles)
		}
	}
	if f := site.ProgramFlags; f != nil {
		fmt.Fprintf(&sb, "LIHTC QCT: %t, LIHTC DDA: %t, Opportunity Zone: %t\n",
			f.InLihtcQct, f.InLihtcDda, f.InOpportunityZone)
		if f.Fallback {
			sb.WriteString("Program flags are fallback estimates\n")
		}
	}
	return sb.String()
}
