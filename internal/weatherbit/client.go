package weatherbit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client calls the Weatherbit current-conditions endpoint.
type Client struct {
	apiURL string
	apiKey string
	lat    float64
	lon    float64
	units  string
	lang   string
	client *http.Client
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// NewClient constructs a Weatherbit client.
func NewClient(apiURL, apiKey string, lat, lon float64, units, lang string, opts ...ClientOption) (*Client, error) {
	if apiURL == "" {
		return nil, errors.New("weatherbit: empty api url")
	}
	if apiKey == "" {
		return nil, errors.New("weatherbit: empty api key")
	}
	c := &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		lat:    lat,
		lon:    lon,
		units:  units,
		lang:   lang,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchCurrent performs one current-conditions request. Status 0 means the
// call never completed.
func (c *Client) FetchCurrent(ctx context.Context) (*CurrentResponse, int, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.lon, 'f', -1, 64))
	params.Set("key", c.apiKey)
	if c.units != "" {
		params.Set("units", c.units)
	}
	if c.lang != "" {
		params.Set("lang", c.lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("weatherbit: request current conditions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("weatherbit: unexpected status %s", resp.Status)
	}
	var decoded CurrentResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("weatherbit: decode response: %w", err)
	}
	if err := decoded.Validate(); err != nil {
		return nil, resp.StatusCode, err
	}
	return &decoded, resp.StatusCode, nil
}
