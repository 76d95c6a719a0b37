// Package geocode resolves free-text street addresses to WGS84 coordinates
// via the Nominatim search API.
package geocode

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client geocodes addresses.
type Client interface {
	// Geocode resolves a single address. A nil error with Matched=false
	// means the service answered but found no match.
	Geocode(ctx context.Context, addr AddressInput) (*Result, error)
}

// AddressInput represents an address to geocode.
type AddressInput struct {
	Street  string
	City    string
	State   string
	ZipCode string
}

// Result holds the geocoding output for an address.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string // normalized address as returned by the service
	Matched     bool
}

// Option configures the geocoder.
type Option func(*geocoder)

// WithBaseURL overrides the Nominatim search endpoint (self-hosted mirrors).
func WithBaseURL(u string) Option {
	return func(g *geocoder) {
		g.baseURL = u
	}
}

// WithUserAgent sets the User-Agent header. Nominatim rejects anonymous clients.
func WithUserAgent(ua string) Option {
	return func(g *geocoder) {
		g.userAgent = ua
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(g *geocoder) {
		g.httpClient = hc
	}
}

// WithRateInterval sets the minimum interval between requests. Every call,
// including the first, blocks for the interval.
func WithRateInterval(d time.Duration) Option {
	return func(g *geocoder) {
		g.limiter = newIntervalLimiter(d)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(g *geocoder) {
		g.timeout = d
	}
}

type geocoder struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	timeout    time.Duration
	limiter    *rate.Limiter
}

const defaultBaseURL = "https://nominatim.openstreetmap.org/search"

// NewClient creates a new geocoding Client with the given options.
func NewClient(opts ...Option) Client {
	g := &geocoder{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		userAgent:  "district_lookup_v1.0",
		timeout:    10 * time.Second,
		limiter:    newIntervalLimiter(1100 * time.Millisecond), // Nominatim policy: ~1 req/s
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// newIntervalLimiter builds a 1-burst limiter with the initial token already
// spent, so the first Wait blocks for the full interval like every later one.
func newIntervalLimiter(d time.Duration) *rate.Limiter {
	l := rate.NewLimiter(rate.Every(d), 1)
	l.Allow()
	return l
}
