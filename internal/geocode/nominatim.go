package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// Client is a best-effort reverse-geocoding lookup. Every failure
// (network, HTTP status, malformed body, missing address fields) falls
// back to raw coordinate text; ReverseOrCoords never returns an error.
type Client struct {
	base string
	http *http.Client
}

func NewClient(base string) *Client {
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

type reverseResponse struct {
	Address struct {
		City string `json:"city"`
		Town string `json:"town"`
	} `json:"address"`
}

// Reverse resolves lat/lon to a place name: city, else town, else "".
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocode: unexpected status %d", res.StatusCode)
	}

	var body reverseResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Address.City != "" {
		return body.Address.City, nil
	}
	return body.Address.Town, nil
}

// ReverseOrCoords is the prefill path used by the submission flow.
func (c *Client) ReverseOrCoords(ctx context.Context, lat, lon float64) string {
	place, err := c.Reverse(ctx, lat, lon)
	if err != nil || place == "" {
		return Coords(lat, lon)
	}
	return place
}

func Coords(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
