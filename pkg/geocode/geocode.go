// Package geocode resolves site addresses to coordinates via the Mapbox
// geocoding API with Texas-scoped fallbacks.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Result is one geocoding outcome. Fallback marks coordinates that did not
// come from the live provider.
type Result struct {
	Latitude  float64
	Longitude float64
	PlaceName string
	Source    string
	Fallback  bool
}

// Client defines the geocoding operation used by enrichment.
type Client interface {
	// Geocode resolves an address string. A nil result with nil error
	// means the address could not be placed anywhere usable.
	Geocode(ctx context.Context, address string) (*Result, error)
}

type mapboxClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	token      string
}

// Option configures the Mapbox client.
type Option func(*mapboxClient)

// WithBaseURL overrides the API base URL, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *mapboxClient) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *mapboxClient) { c.httpClient = hc }
}

// NewClient creates a Mapbox geocoder. An empty token is allowed; every
// lookup then goes straight to the fallback chain.
func NewClient(token string, opts ...Option) Client {
	c := &mapboxClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(10), 5),
		baseURL:    "https://api.mapbox.com/geocoding/v5/mapbox.places",
		token:      token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type mapboxResponse struct {
	Features []struct {
		Center    []float64 `json:"center"` // [lon, lat]
		PlaceName string    `json:"place_name"`
	} `json:"features"`
}

func (c *mapboxClient) Geocode(ctx context.Context, address string) (*Result, error) {
	if c.token == "" {
		zap.L().Warn("geocode: no mapbox token, using fallback")
		return fallbackResult(address), nil
	}

	res, err := c.geocodeMapbox(ctx, address)
	if err != nil {
		zap.L().Warn("geocode: mapbox lookup failed, using fallback",
			zap.String("address", address),
			zap.Error(err),
		)
		return fallbackResult(address), nil
	}
	return res, nil
}

func (c *mapboxClient) geocodeMapbox(ctx context.Context, address string) (*Result, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: rate limiter")
	}

	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&limit=1&country=US",
		c.baseURL, url.PathEscape(address), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: mapbox request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, eris.Errorf("geocode: mapbox status %d: %s", resp.StatusCode, string(body))
	}

	var decoded mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, eris.Wrap(err, "geocode: decode response")
	}
	if len(decoded.Features) == 0 || len(decoded.Features[0].Center) < 2 {
		return nil, eris.New("geocode: no features returned")
	}

	f := decoded.Features[0]
	return &Result{
		Latitude:  f.Center[1],
		Longitude: f.Center[0],
		PlaceName: f.PlaceName,
		Source:    "mapbox",
		Fallback:  false,
	}, nil
}
