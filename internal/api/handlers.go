package api

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/vflor92/REanalyzer/internal/intake"
	"github.com/vflor92/REanalyzer/internal/model"
	"github.com/vflor92/REanalyzer/internal/rentcomps"
	"github.com/vflor92/REanalyzer/internal/scenarios"
	"github.com/vflor92/REanalyzer/internal/sites"
	"github.com/vflor92/REanalyzer/internal/store"
)

// maxUploadBytes bounds decoded PDF payloads at 25 MB.
const maxUploadBytes = 25 << 20

// handleParseOM accepts a JSON body with rawText/pdfBase64/listingUrl and
// returns the extraction result for user review. Nothing is persisted here.
func (s *Server) handleParseOM(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RawText    string `json:"rawText"`
		PDFBase64  string `json:"pdfBase64"`
		ListingURL string `json:"listingUrl"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	req := intake.ParseRequest{
		RawText:    body.RawText,
		ListingURL: body.ListingURL,
	}
	if body.PDFBase64 != "" {
		buf, err := base64.StdEncoding.DecodeString(body.PDFBase64)
		if err != nil {
			writeError(w, r, eris.Wrap(model.ErrValidation, "pdfBase64 is not valid base64"))
			return
		}
		if len(buf) > maxUploadBytes {
			writeError(w, r, eris.Wrap(model.ErrValidation, "pdf exceeds 25 MB limit"))
			return
		}
		req.PDF = buf
	}

	result, err := s.intake.ParseOM(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	var in sites.CreateSiteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	site, err := s.sites.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.SiteFilter{
		Status:    q.Get("status"),
		State:     q.Get("state"),
		City:      q.Get("city"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	page, err := s.sites.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	site, err := s.sites.Get(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleUpdateSite(w http.ResponseWriter, r *http.Request) {
	var in sites.UpdateSiteInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	site, err := s.sites.Update(r.Context(), chi.URLParam(r, "siteID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleDeleteSite(w http.ResponseWriter, r *http.Request) {
	if err := s.sites.Delete(r.Context(), chi.URLParam(r, "siteID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEnrichSite(w http.ResponseWriter, r *http.Request) {
	site, err := s.enricher.Enrich(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (s *Server) handleSiteSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sites.Summarize(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCreateDefaultScenarios(w http.ResponseWriter, r *http.Request) {
	created, err := s.scenarios.CreateDefaults(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	list, err := s.scenarios.ListBySite(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateScenario(w http.ResponseWriter, r *http.Request) {
	var in scenarios.UpdateScenarioInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	sc, err := s.scenarios.Update(r.Context(), chi.URLParam(r, "scenarioID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sc)
}

func (s *Server) handleCreateRentComp(w http.ResponseWriter, r *http.Request) {
	var in rentcomps.CreateRentCompInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.SiteID = chi.URLParam(r, "siteID")
	rc, err := s.rentComps.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

func (s *Server) handleListRentComps(w http.ResponseWriter, r *http.Request) {
	list, err := s.rentComps.ListBySite(r.Context(), chi.URLParam(r, "siteID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateRentComp(w http.ResponseWriter, r *http.Request) {
	var in rentcomps.UpdateRentCompInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := s.rentComps.Update(r.Context(), chi.URLParam(r, "compID"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

func (s *Server) handleDeleteRentComp(w http.ResponseWriter, r *http.Request) {
	if err := s.rentComps.Delete(r.Context(), chi.URLParam(r, "compID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummarizeRentComp(w http.ResponseWriter, r *http.Request) {
	rc, err := s.rentComps.Summarize(r.Context(), chi.URLParam(r, "compID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}
