// Package geocode turns coordinates into a "City, CC" label using the
// OpenWeather reverse geocoding API.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrDisabled = errors.New("reverse geocoding is not configured")
	ErrNoResult = errors.New("no place found for coordinates")
)

const defaultTimeout = 5 * time.Second

// Client calls the OpenWeather geocoding endpoint
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

type place struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// Reverse returns "<name>, <country>" for the nearest named place
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrDisabled
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/geo/1.0/reverse?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return "", fmt.Errorf("decode geocode response: %w", err)
	}

	if len(places) == 0 || places[0].Name == "" {
		return "", ErrNoResult
	}

	if places[0].Country == "" {
		return places[0].Name, nil
	}
	return places[0].Name + ", " + places[0].Country, nil
}

// ValidCoordinates reports whether lat and lon are on the globe
func ValidCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
