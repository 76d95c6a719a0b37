package districts

import (
	"context"
	"net/url"
)

// fccAreaResponse is the JSON response from the FCC area API.
type fccAreaResponse struct {
	Results []map[string]any `json:"results"`
}

// PoliticalDistricts looks up the congressional, state assembly, and state
// senate districts for the point. All fields are nil when the API returns no
// result for the point.
func (c *Client) PoliticalDistricts(ctx context.Context, lat, lon float64) (*Political, error) {
	params := url.Values{
		"lat":    {formatCoord(lat)},
		"lon":    {formatCoord(lon)},
		"format": {"json"},
	}

	var fr fccAreaResponse
	if err := c.get(ctx, c.fccURL, params, c.fccTimeout, &fr); err != nil {
		return nil, err
	}

	if len(fr.Results) == 0 {
		return &Political{}, nil
	}

	r := fr.Results[0]
	return &Political{
		Congressional: attrString(r, "congress_district"),
		StateLower:    attrString(r, "state_lower_district"),
		StateUpper:    attrString(r, "state_upper_district"),
	}, nil
}
