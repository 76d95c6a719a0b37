// Package districts maps a WGS84 coordinate to administrative and political
// boundary classifications via point-in-polygon queries against public
// geospatial APIs: the SF and Marin ArcGIS supervisor-district layers, the
// Census geographies geocoder, and the FCC area API.
package districts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultSFURL     = "https://services3.arcgis.com/iOy5B2EVhg9OAGCE/arcgis/rest/services/Supervisor_Districts/FeatureServer/0/query"
	defaultMarinURL  = "https://gis.marincounty.org/server/rest/services/Boundaries/Supervisor_Districts/MapServer/0/query"
	defaultCensusURL = "https://geocoding.geo.census.gov/geocoder/geographies/coordinates"
	defaultFCCURL    = "https://geo.fcc.gov/api/census/area"
)

// Supervisorial is a supervisor-district hit for a point. Nil fields mean the
// layer returned no feature containing the point, or omitted the attribute.
type Supervisorial struct {
	District   *string
	Supervisor *string
}

// CensusGeo holds the census geography triple for a point.
type CensusGeo struct {
	PUMA  *string
	Tract *string
	Block *string
}

// Political holds the three political chamber districts for a point.
type Political struct {
	Congressional *string
	StateLower    *string
	StateUpper    *string
}

// Client issues rate-limited boundary lookups. All four services share one
// limiter: they sit behind the same request-interval policy.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	sfURL     string
	marinURL  string
	censusURL string
	fccURL    string

	arcgisTimeout time.Duration
	censusTimeout time.Duration
	fccTimeout    time.Duration
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateInterval sets the minimum interval between lookup requests, shared
// by all four services. Every call, including the first, blocks for the
// interval.
func WithRateInterval(d time.Duration) Option {
	return func(c *Client) {
		l := rate.NewLimiter(rate.Every(d), 1)
		l.Allow()
		c.limiter = l
	}
}

// WithSFEndpoint overrides the SF supervisor-district query URL.
func WithSFEndpoint(u string) Option {
	return func(c *Client) { c.sfURL = u }
}

// WithMarinEndpoint overrides the Marin supervisor-district query URL.
func WithMarinEndpoint(u string) Option {
	return func(c *Client) { c.marinURL = u }
}

// WithCensusEndpoint overrides the Census geographies URL.
func WithCensusEndpoint(u string) Option {
	return func(c *Client) { c.censusURL = u }
}

// WithFCCEndpoint overrides the FCC area API URL.
func WithFCCEndpoint(u string) Option {
	return func(c *Client) { c.fccURL = u }
}

// WithTimeouts sets the per-request timeouts for the ArcGIS, Census, and FCC
// services.
func WithTimeouts(arcgis, census, fcc time.Duration) Option {
	return func(c *Client) {
		c.arcgisTimeout = arcgis
		c.censusTimeout = census
		c.fccTimeout = fcc
	}
}

// NewClient creates a new boundary lookup Client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:    &http.Client{},
		sfURL:         defaultSFURL,
		marinURL:      defaultMarinURL,
		censusURL:     defaultCensusURL,
		fccURL:        defaultFCCURL,
		arcgisTimeout: 15 * time.Second,
		censusTimeout: 20 * time.Second,
		fccTimeout:    15 * time.Second,
	}
	WithRateInterval(500 * time.Millisecond)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get issues a rate-limited GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, timeout time.Duration, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "districts: rate limit")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "districts: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "districts: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("districts: %s returned status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "districts: read body")
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "districts: parse response")
	}
	return nil
}

// attrString reads a JSON attribute as a string, formatting numbers without a
// trailing fraction. Returns nil for missing or null attributes.
func attrString(attrs map[string]any, key string) *string {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprintf("%v", t)
	}
	return &s
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
