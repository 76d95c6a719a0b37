package districts

import (
	"context"
	"net/url"
)

const (
	censusBenchmark = "Public_AR_Current"
	censusVintage   = "Current_Current"
)

// censusGeographiesResponse is the JSON response from the Census geographies
// endpoint. Results nest under named geography-level collections.
type censusGeographiesResponse struct {
	Result struct {
		Geographies map[string][]map[string]any `json:"geographies"`
	} `json:"result"`
}

// CensusGeographies looks up the PUMA, tract, and block containing the point.
// A field is nil when its geography collection is absent or empty.
func (c *Client) CensusGeographies(ctx context.Context, lat, lon float64) (*CensusGeo, error) {
	params := url.Values{
		"x":         {formatCoord(lon)},
		"y":         {formatCoord(lat)},
		"benchmark": {censusBenchmark},
		"vintage":   {censusVintage},
		"format":    {"json"},
	}

	var cr censusGeographiesResponse
	if err := c.get(ctx, c.censusURL, params, c.censusTimeout, &cr); err != nil {
		return nil, err
	}

	geo := &CensusGeo{}
	if rows := cr.Result.Geographies["Public Use Microdata Areas"]; len(rows) > 0 {
		geo.PUMA = attrString(rows[0], "PUMA")
	}
	if rows := cr.Result.Geographies["Census Tracts"]; len(rows) > 0 {
		geo.Tract = attrString(rows[0], "TRACT")
	}
	if rows := cr.Result.Geographies["Census Blocks"]; len(rows) > 0 {
		geo.Block = attrString(rows[0], "BLOCK")
	}
	return geo, nil
}
