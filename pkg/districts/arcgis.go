package districts

import (
	"context"
	"net/url"
)

// arcgisQueryResponse is the JSON response from an ArcGIS feature query.
type arcgisQueryResponse struct {
	Features []struct {
		Attributes map[string]any `json:"attributes"`
	} `json:"features"`
}

// SupervisorDistrict looks up the San Francisco supervisorial district
// containing the point.
func (c *Client) SupervisorDistrict(ctx context.Context, lat, lon float64) (*Supervisorial, error) {
	return c.queryArcGIS(ctx, c.sfURL, lat, lon)
}

// MarinDistrict looks up the Marin County supervisor district containing the
// point.
func (c *Client) MarinDistrict(ctx context.Context, lat, lon float64) (*Supervisorial, error) {
	return c.queryArcGIS(ctx, c.marinURL, lat, lon)
}

// queryArcGIS runs a point-in-polygon feature query against an ArcGIS layer
// and extracts the district attributes from the first feature. An empty
// feature list is not an error: the point sits outside every district.
func (c *Client) queryArcGIS(ctx context.Context, endpoint string, lat, lon float64) (*Supervisorial, error) {
	params := url.Values{
		"where":          {"1=1"},
		"geometry":       {formatCoord(lon) + "," + formatCoord(lat)},
		"geometryType":   {"esriGeometryPoint"},
		"spatialRel":     {"esriSpatialRelWithin"},
		"outFields":      {"*"},
		"returnGeometry": {"false"},
		"f":              {"json"},
	}

	var qr arcgisQueryResponse
	if err := c.get(ctx, endpoint, params, c.arcgisTimeout, &qr); err != nil {
		return nil, err
	}

	if len(qr.Features) == 0 {
		return &Supervisorial{}, nil
	}

	attrs := qr.Features[0].Attributes
	return &Supervisorial{
		District:   attrString(attrs, "DISTRICT"),
		Supervisor: supervisorName(attrs),
	}, nil
}

// supervisorName pulls the representative name attribute; the SF and Marin
// layers publish it under different keys.
func supervisorName(attrs map[string]any) *string {
	for _, key := range []string{"SUPNAME", "SUPERVISOR", "SUPE_NAME"} {
		if s := attrString(attrs, key); s != nil {
			return s
		}
	}
	return nil
}
