// Package hud checks federal program eligibility (LIHTC QCT/DDA and
// Opportunity Zones) against the HUD and IRS ArcGIS layers.
package hud

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
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// officialSource labels flags that came from the live layers.
const officialSource = "HUD/IRS Official Data (ArcGIS)"

// Flags is one program-eligibility snapshot. Fallback marks synthetic
// flags substituted when every layer query failed.
type Flags struct {
	InLihtcQct        bool
	InLihtcDda        bool
	InOpportunityZone bool
	Source            string
	Fallback          bool
}

// Client defines the program-flag lookup used by enrichment.
type Client interface {
	ProgramFlags(ctx context.Context, lat, lon float64) (*Flags, error)
}

type arcgisClient struct {
	client  *http.Client
	limiter *rate.Limiter
	qctURL  string
	ddaURL  string
	ozURL   string
}

// Option configures the ArcGIS client.
type Option func(*arcgisClient)

// WithLayerURLs overrides all three layer query URLs, mainly for tests.
func WithLayerURLs(qct, dda, oz string) Option {
	return func(c *arcgisClient) {
		c.qctURL = qct
		c.ddaURL = dda
		c.ozURL = oz
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *arcgisClient) { c.client = hc }
}

// NewClient creates a client against the public HUD and IRS layers.
func NewClient(opts ...Option) Client {
	c := &arcgisClient{
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(5), 3),
		qctURL:  "https://services.arcgis.com/VTyQ9soqVukalItT/arcgis/rest/services/QCT/FeatureServer/0/query",
		ddaURL:  "https://services.arcgis.com/VTyQ9soqVukalItT/arcgis/rest/services/DDA/FeatureServer/0/query",
		ozURL:   "https://services.arcgis.com/VTyQ9soqVukalItT/arcgis/rest/services/OpportunityZones/FeatureServer/0/query",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProgramFlags runs the three layer intersect checks concurrently. A single
// failed layer reads as not-in-program; only when every layer fails does
// the caller get an error and should substitute FallbackFlags.
func (c *arcgisClient) ProgramFlags(ctx context.Context, lat, lon float64) (*Flags, error) {
	var qct, dda, oz bool
	var qctErr, ddaErr, ozErr error

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		qct, qctErr = c.intersects(gctx, c.qctURL, lat, lon)
		return nil
	})
	g.Go(func() error {
		dda, ddaErr = c.intersects(gctx, c.ddaURL, lat, lon)
		return nil
	})
	g.Go(func() error {
		oz, ozErr = c.intersects(gctx, c.ozURL, lat, lon)
		return nil
	})
	_ = g.Wait()

	if qctErr != nil && ddaErr != nil && ozErr != nil {
		return nil, eris.Wrapf(qctErr, "hud: all layer checks failed")
	}

	for name, err := range map[string]error{"qct": qctErr, "dda": ddaErr, "oz": ozErr} {
		if err != nil {
			zap.L().Warn("hud: layer check failed, treating as not in program",
				zap.String("layer", name),
				zap.Error(err),
			)
		}
	}

	return &Flags{
		InLihtcQct:        qct,
		InLihtcDda:        dda,
		InOpportunityZone: oz,
		Source:            officialSource,
		Fallback:          false,
	}, nil
}

type arcgisResponse struct {
	Count *int `json:"count"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// intersects asks a feature layer whether any polygon contains the point.
func (c *arcgisClient) intersects(ctx context.Context, layerURL string, lat, lon float64) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, eris.Wrap(err, "hud: rate limiter")
	}

	q := url.Values{}
	q.Set("geometry", fmt.Sprintf("%f,%f", lon, lat))
	q.Set("geometryType", "esriGeometryPoint")
	q.Set("inSR", "4326")
	q.Set("spatialRel", "esriSpatialRelIntersects")
	q.Set("returnCountOnly", "true")
	q.Set("f", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, layerURL+"?"+q.Encode(), nil)
	if err != nil {
		return false, eris.Wrap(err, "hud: build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, eris.Wrap(err, "hud: layer request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, eris.Errorf("hud: layer status %d: %s", resp.StatusCode, string(body))
	}

	var decoded arcgisResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, eris.Wrap(err, "hud: decode layer response")
	}
	if decoded.Error != nil {
		return false, eris.Errorf("hud: layer error: %s", decoded.Error.Message)
	}
	if decoded.Count == nil {
		return false, eris.New("hud: layer response missing count")
	}
	return *decoded.Count > 0, nil
}

// FallbackFlags fabricates random program flags when every layer is down.
// Probabilities roughly match Texas metro land coverage.
func FallbackFlags() *Flags {
	return &Flags{
		InLihtcQct:        rand.Float64() < 0.3,
		InLihtcDda:        rand.Float64() < 0.2,
		InOpportunityZone: rand.Float64() < 0.15,
		Source:            "fallback estimate",
		Fallback:          true,
	}
}
