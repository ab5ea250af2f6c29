// Package geocode resolves address and region labels to coordinates using
// a Nominatim-compatible geocoding service, with an optional Redis cache
// in front of it.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Finix99/smartship/shipping"
)

const (
	// DefaultBaseURL is the public OSM Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	searchPath = "/search"

	// Deliveries are Kenyan; bias every lookup accordingly.
	countryCodes = "ke"

	userAgent = "smartship/1.0"
)

// ErrNotFound means the service returned no match for the address.
var ErrNotFound = errors.New("no geocoding result for address")

// Client is an HTTP geocoding client. The http.Client timeout is the
// bounded wait before address resolution is declared failed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geocoding client. An empty baseURL selects the
// public Nominatim instance.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// searchResult is one entry of the Nominatim response array. Coordinates
// come back as strings.
type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves an address to a coordinate. Implements
// shipping.Geocoder.
func (c *Client) Geocode(ctx context.Context, address string) (shipping.Point, error) {
	params := url.Values{}
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", countryCodes)

	reqURL := c.baseURL + searchPath + "?" + params.Encode()

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		return shipping.Point{}, err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return shipping.Point{}, fmt.Errorf("unmarshal result: %w", err)
	}
	if len(results) == 0 {
		return shipping.Point{}, fmt.Errorf("%w: %s", ErrNotFound, address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return shipping.Point{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return shipping.Point{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	point := shipping.Point{Latitude: lat, Longitude: lon}
	if err := point.Validate(); err != nil {
		return shipping.Point{}, err
	}
	return point, nil
}

func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	return body, nil
}
