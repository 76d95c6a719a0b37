package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srvURL string) Client {
	return NewClient(
		WithBaseURL(srvURL),
		WithRateInterval(time.Millisecond),
		WithTimeout(2*time.Second),
	)
}

func TestGeocode_Match(t *testing.T) {
	var gotQuery, gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{
			"lat": "37.7793",
			"lon": "-122.4193",
			"display_name": "City Hall, 1 Dr Carlton B Goodlett Place, San Francisco, CA 94102"
		}]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithUserAgent("district_lookup_v1.0"),
		WithRateInterval(time.Millisecond),
	)

	result, err := c.Geocode(context.Background(), AddressInput{
		Street: "1 Dr Carlton B Goodlett Pl", City: "San Francisco", State: "CA", ZipCode: "94102",
	})
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.InDelta(t, 37.7793, result.Latitude, 0.0001)
	assert.InDelta(t, -122.4193, result.Longitude, 0.0001)
	assert.Contains(t, result.DisplayName, "City Hall")
	assert.Equal(t, "1 Dr Carlton B Goodlett Pl, San Francisco, CA 94102", gotQuery)
	assert.Equal(t, "district_lookup_v1.0", gotUA)
}

func TestGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	result, err := testClient(srv.URL).Geocode(context.Background(), AddressInput{
		Street: "000 Nowhere", City: "Faketown", State: "CA", ZipCode: "00000",
	})
	require.NoError(t, err)
	assert.False(t, result.Matched)
}

func TestGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), AddressInput{
		Street: "1 Main St", City: "San Rafael", State: "CA", ZipCode: "94901",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestGeocode_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), AddressInput{
		Street: "1 Main St", City: "Novato", State: "CA", ZipCode: "94945",
	})
	assert.Error(t, err)
}

func TestGeocode_BadCoordinateStrings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[{"lat": "not-a-number", "lon": "-122.4", "display_name": "x"}]`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Geocode(context.Background(), AddressInput{
		Street: "1 Main St", City: "Tiburon", State: "CA", ZipCode: "94920",
	})
	assert.Error(t, err)
}

func TestGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(
		WithBaseURL(srv.URL),
		WithRateInterval(time.Millisecond),
		WithTimeout(20*time.Millisecond),
	)

	_, err := c.Geocode(context.Background(), AddressInput{
		Street: "1 Main St", City: "Sausalito", State: "CA", ZipCode: "94965",
	})
	assert.Error(t, err)
}

func TestFormatQuery(t *testing.T) {
	q := FormatQuery(AddressInput{
		Street: "123 Main St", City: "Mill Valley", State: "CA", ZipCode: "94941",
	})
	assert.Equal(t, "123 Main St, Mill Valley, CA 94941", q)
}
