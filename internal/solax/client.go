package solax

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Client is a minimal SolaxCloud REST client.
type Client struct {
	apiURL  string
	tokenID string
	wifiSN  string
	client  *http.Client
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

// NewClient constructs a SolaxCloud client.
func NewClient(apiURL, tokenID, wifiSN string, opts ...ClientOption) (*Client, error) {
	if apiURL == "" {
		return nil, errors.New("solax: empty api url")
	}
	if tokenID == "" {
		return nil, errors.New("solax: empty token id")
	}
	if wifiSN == "" {
		return nil, errors.New("solax: empty wifi serial")
	}
	c := &Client{
		apiURL:  apiURL,
		tokenID: tokenID,
		wifiSN:  wifiSN,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchRealTime performs one real-time data request. The HTTP status is
// returned alongside the error so the caller can log the attempt either way;
// status 0 means the call never completed.
func (c *Client) FetchRealTime(ctx context.Context) (*RealTimeResponse, int, error) {
	payload, err := json.Marshal(map[string]string{"wifiSn": c.wifiSN})
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("tokenId", c.tokenID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("solax: request real-time data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, fmt.Errorf("solax: unexpected status %s", resp.Status)
	}

	var decoded RealTimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("solax: decode response: %w", err)
	}
	if !decoded.Success || decoded.Result == nil {
		return nil, resp.StatusCode, fmt.Errorf("solax: api error: %s", decoded.Exception)
	}
	if err := decoded.Result.Validate(); err != nil {
		return nil, resp.StatusCode, err
	}
	return &decoded, resp.StatusCode, nil
}
