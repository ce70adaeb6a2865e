package metar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/metarwatch/metarwatch/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the aviationweather.gov METAR API.
	DefaultBaseURL = "https://aviationweather.gov/api/data/metar"

	// ProviderName identifies this provider.
	ProviderName = "aviationweather"

	// DefaultLookbackHours is how far back the feed query reaches.
	DefaultLookbackHours = "2.5"
)

// ClientConfig holds configuration for the METAR feed client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// LookbackHours is the feed's hours query parameter (defaults to
	// DefaultLookbackHours). Kept as a string; the upstream accepts
	// fractional values.
	LookbackHours string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual feed requests (default: 20s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches METAR observations from the aviationweather.gov feed.
type Client struct {
	baseURL       string
	lookbackHours string
	httpClient    HTTPDoer
}

// NewClient creates a new METAR feed client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	lookback := cfg.LookbackHours
	if lookback == "" {
		lookback = DefaultLookbackHours
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 20 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		lookbackHours: lookback,
		httpClient:    httpClient,
	}
}

// BuildURL returns the feed URL for the given station ids. The URL is also
// recorded on collection runs and alert events for operator diagnostics.
func (c *Client) BuildURL(stationIDs []string) string {
	query := url.Values{}
	query.Set("format", "xml")
	query.Set("hours", c.lookbackHours)
	query.Set("ids", strings.Join(stationIDs, ","))
	return c.baseURL + "?" + query.Encode()
}

// Fetch retrieves and parses observations for the given station ids.
func (c *Client) Fetch(ctx context.Context, stationIDs []string) ([]*Observation, error) {
	feedURL := c.BuildURL(stationIDs)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metar feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from metar feed", resp.StatusCode)
	}

	observations, err := Parse(resp.Body)
	if err != nil {
		return nil, err
	}

	return observations, nil
}
