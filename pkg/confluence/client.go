// Package confluence implements the wiki side of the PDF export pipeline:
// page URL parsing, the authenticated API client, export kick-off, task
// polling, and artifact location.
package confluence

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for wiki API requests.
var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flypdf_api_requests_total",
			Help: "Total wiki API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flypdf_api_request_duration_seconds",
			Help:    "Wiki API request duration in seconds by endpoint",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"endpoint"},
	)
)

// Atlassian rejects add-on requests without this header value.
const noCheckToken = "no-check"

// Client is the authenticated wiki API client. One instance serves a whole
// batch run; it holds no per-page state.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the site root, e.g. "https://example.atlassian.net".
	BaseURL string

	// Username and APIToken authenticate API requests via HTTP basic auth.
	// The presigned artifact download deliberately bypasses both.
	Username string
	APIToken string

	// UserAgent is sent on every request.
	UserAgent string

	// Timeout bounds each individual HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns a config with sensible defaults. BaseURL, Username
// and APIToken still have to be set by the caller.
func DefaultConfig() Config {
	return Config{
		UserAgent: "flypdf/0.1.0",
		Timeout:   30 * time.Second,
	}
}

// New creates a wiki API client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.Username == "" || config.APIToken == "" {
		return nil, fmt.Errorf("username and API token are required")
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultConfig().UserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	logger := log.With().Str("component", "confluence-client").Logger()

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
		logger:     logger,
	}, nil
}

// BaseURL returns the configured site root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// get performs one authenticated GET against rawURL. The caller owns the
// response body.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.config.Username, c.config.APIToken)
	req.Header.Set("X-Atlassian-Token", noCheckToken)
	req.Header.Set("User-Agent", c.config.UserAgent)

	endpoint := req.URL.Path
	c.logger.Debug().Str("endpoint", endpoint).Msg("Executing wiki API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	apiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		apiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return nil, err
	}

	apiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
