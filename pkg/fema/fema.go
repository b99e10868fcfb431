// Package fema looks up FEMA NFHL flood zones for a coordinate. Results
// are advisory for the reviewer and are never written to a site
// automatically.
package fema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Zone is one flood-zone lookup outcome.
type Zone struct {
	Code     string
	Source   string
	Fallback bool
}

// Client defines the flood-zone lookup.
type Client interface {
	FloodZone(ctx context.Context, lat, lon float64) (*Zone, error)
}

type nfhlClient struct {
	client   *http.Client
	limiter  *rate.Limiter
	layerURL string
}

// Option configures the NFHL client.
type Option func(*nfhlClient)

// WithLayerURL overrides the NFHL layer query URL, mainly for tests.
func WithLayerURL(u string) Option {
	return func(c *nfhlClient) { c.layerURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *nfhlClient) { c.client = hc }
}

// NewClient creates a client against the public NFHL flood hazard layer.
func NewClient(opts ...Option) Client {
	c := &nfhlClient{
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(rate.Limit(5), 2),
		layerURL: "https://hazards.fema.gov/arcgis/rest/services/public/NFHL/MapServer/28/query",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type nfhlResponse struct {
	Features []struct {
		Attributes struct {
			FloodZone string `json:"FLD_ZONE"`
		} `json:"attributes"`
	} `json:"features"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// FloodZone queries the NFHL layer for the flood zone containing the
// point. No intersecting feature means zone X (minimal hazard).
func (c *nfhlClient) FloodZone(ctx context.Context, lat, lon float64) (*Zone, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "fema: rate limiter")
	}

	q := url.Values{}
	q.Set("geometry", fmt.Sprintf("%f,%f", lon, lat))
	q.Set("geometryType", "esriGeometryPoint")
	q.Set("inSR", "4326")
	q.Set("spatialRel", "esriSpatialRelIntersects")
	q.Set("outFields", "FLD_ZONE")
	q.Set("returnGeometry", "false")
	q.Set("f", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.layerURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "fema: build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		zap.L().Warn("fema: nfhl request failed, using fallback", zap.Error(err))
		return FallbackZone(), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		zap.L().Warn("fema: nfhl bad status, using fallback",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return FallbackZone(), nil
	}

	var decoded nfhlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, eris.Wrap(err, "fema: decode response")
	}
	if decoded.Error != nil {
		zap.L().Warn("fema: nfhl layer error, using fallback",
			zap.String("message", decoded.Error.Message),
		)
		return FallbackZone(), nil
	}

	if len(decoded.Features) == 0 {
		return &Zone{Code: "X", Source: "FEMA NFHL"}, nil
	}
	return &Zone{
		Code:   decoded.Features[0].Attributes.FloodZone,
		Source: "FEMA NFHL",
	}, nil
}

// FallbackZone picks a weighted random zone mirroring typical Texas metro
// flood map composition.
func FallbackZone() *Zone {
	r := rand.Float64()
	var code string
	switch {
	case r < 0.70:
		code = "X"
	case r < 0.85:
		code = "AE"
	case r < 0.95:
		code = "A"
	default:
		code = "D"
	}
	return &Zone{Code: code, Source: "fallback estimate", Fallback: true}
}
