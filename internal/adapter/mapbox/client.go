// Package mapbox fetches basemap images from the Mapbox Static Images API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultStyle is the map style used for scorecard basemaps.
const DefaultStyle = "mapbox/light-v11"

// Client fetches static basemap images.
type Client struct {
	token      string
	style      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Mapbox Static Images client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		style: DefaultStyle,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/styles/v1",
		logger:  logger,
	}
}

// Basemap returns a PNG of width x height pixels centred on lon, lat.
func (c *Client) Basemap(ctx context.Context, lon, lat, zoom float64, width, height int) ([]byte, error) {
	// Mapbox uses lon,lat order.
	u := fmt.Sprintf("%s/%s/static/%.6f,%.6f,%.2f/%dx%d", c.baseURL, c.style, lon, lat, zoom, width, height)
	params := url.Values{
		"access_token": {c.token},
		"logo":         {"false"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("basemap request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read basemap: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, errorMessage(body))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("mapbox API returned %s, not an image", ct)
	}

	c.logger.Debug("basemap fetched", "lon", lon, "lat", lat, "zoom", zoom, "bytes", len(body))
	return body, nil
}

// errorMessage extracts the message of a Mapbox JSON error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
