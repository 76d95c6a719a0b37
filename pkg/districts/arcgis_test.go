package districts

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

func testOpts(extra ...Option) []Option {
	opts := []Option{WithRateInterval(time.Millisecond)}
	return append(opts, extra...)
}

func TestSupervisorDistrict_Match(t *testing.T) {
	var gotParams map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams = map[string]string{
			"geometry":     r.URL.Query().Get("geometry"),
			"geometryType": r.URL.Query().Get("geometryType"),
			"spatialRel":   r.URL.Query().Get("spatialRel"),
			"f":            r.URL.Query().Get("f"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"features": [{
				"attributes": {"DISTRICT": 6, "SUPNAME": "Matt Dorsey"}
			}]
		}`)
	}))
	defer srv.Close()

	c := NewClient(testOpts(WithSFEndpoint(srv.URL))...)

	sup, err := c.SupervisorDistrict(context.Background(), 37.7793, -122.4193)
	require.NoError(t, err)
	require.NotNil(t, sup.District)
	assert.Equal(t, "6", *sup.District)
	require.NotNil(t, sup.Supervisor)
	assert.Equal(t, "Matt Dorsey", *sup.Supervisor)

	// Point-in-polygon query shape: lon,lat within the layer.
	assert.Equal(t, "-122.4193,37.7793", gotParams["geometry"])
	assert.Equal(t, "esriGeometryPoint", gotParams["geometryType"])
	assert.Equal(t, "esriSpatialRelWithin", gotParams["spatialRel"])
	assert.Equal(t, "json", gotParams["f"])
}

func TestSupervisorDistrict_NoFeature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"features": []}`)
	}))
	defer srv.Close()

	c := NewClient(testOpts(WithSFEndpoint(srv.URL))...)

	sup, err := c.SupervisorDistrict(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Nil(t, sup.District)
	assert.Nil(t, sup.Supervisor)
}

func TestSupervisorDistrict_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testOpts(WithSFEndpoint(srv.URL))...)

	_, err := c.SupervisorDistrict(context.Background(), 37.78, -122.42)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestMarinDistrict_Match(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"features": [{
				"attributes": {"DISTRICT": "3", "SUPERVISOR": "Stephanie Moulton-Peters"}
			}]
		}`)
	}))
	defer srv.Close()

	c := NewClient(testOpts(WithMarinEndpoint(srv.URL))...)

	sup, err := c.MarinDistrict(context.Background(), 37.9735, -122.5311)
	require.NoError(t, err)
	require.NotNil(t, sup.District)
	assert.Equal(t, "3", *sup.District)
	require.NotNil(t, sup.Supervisor)
	assert.Equal(t, "Stephanie Moulton-Peters", *sup.Supervisor)
}

func TestQueryArcGIS_MissingSupervisorAttribute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"features": [{"attributes": {"DISTRICT": 2}}]}`)
	}))
	defer srv.Close()

	c := NewClient(testOpts(WithSFEndpoint(srv.URL))...)

	sup, err := c.SupervisorDistrict(context.Background(), 37.78, -122.42)
	require.NoError(t, err)
	require.NotNil(t, sup.District)
	assert.Equal(t, "2", *sup.District)
	assert.Nil(t, sup.Supervisor)
}

func TestQueryArcGIS_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer srv.Close()

	c := NewClient(testOpts(WithMarinEndpoint(srv.URL))...)

	_, err := c.MarinDistrict(context.Background(), 38.0, -122.5)
	assert.Error(t, err)
}
