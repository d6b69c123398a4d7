package openweather

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

// Client calls the OpenWeather current-weather and air-pollution endpoints.
type Client struct {
	currentURL   string
	pollutionURL string
	apiKey       string
	lat          float64
	lon          float64
	units        string
	lang         string
	client       *http.Client
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

// NewClient constructs an OpenWeather client.
func NewClient(currentURL, pollutionURL, apiKey string, lat, lon float64, units, lang string, opts ...ClientOption) (*Client, error) {
	if currentURL == "" || pollutionURL == "" {
		return nil, errors.New("openweather: empty endpoint url")
	}
	if apiKey == "" {
		return nil, errors.New("openweather: empty api key")
	}
	c := &Client{
		currentURL:   currentURL,
		pollutionURL: pollutionURL,
		apiKey:       apiKey,
		lat:          lat,
		lon:          lon,
		units:        units,
		lang:         lang,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Coords returns the configured query coordinates.
func (c *Client) Coords() (lat, lon float64) { return c.lat, c.lon }

// FetchCurrent requests the current weather observation.
func (c *Client) FetchCurrent(ctx context.Context) (*CurrentResponse, int, error) {
	params := c.baseParams()
	if c.units != "" {
		params.Set("units", c.units)
	}
	if c.lang != "" {
		params.Set("lang", c.lang)
	}
	var decoded CurrentResponse
	status, err := c.get(ctx, c.currentURL, params, &decoded)
	if err != nil {
		return nil, status, err
	}
	if err := decoded.Validate(); err != nil {
		return nil, status, err
	}
	return &decoded, status, nil
}

// FetchAirPollution requests the air-quality measurements.
func (c *Client) FetchAirPollution(ctx context.Context) (*AirPollutionResponse, int, error) {
	var decoded AirPollutionResponse
	status, err := c.get(ctx, c.pollutionURL, c.baseParams(), &decoded)
	if err != nil {
		return nil, status, err
	}
	if err := decoded.Validate(); err != nil {
		return nil, status, err
	}
	return &decoded, status, nil
}

func (c *Client) baseParams() url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(c.lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(c.lon, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	return params
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("openweather: request %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("openweather: unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("openweather: decode response: %w", err)
	}
	return resp.StatusCode, nil
}
