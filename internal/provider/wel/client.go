// Package wel provides the HTTP client for the World's Edge Link community
// leaderboard service.
//
// Leaderboard listing uses offset pagination against a server-reported rank
// total. Match history is rate limited: one shared token bucket per process
// caps the aggregate outbound rate regardless of caller concurrency.
package wel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client is the shared HTTP client for all WEL endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	title      string
	platform   string
	pageSize   int
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a WEL HTTP client. matchHistoryRPS bounds the match
// history endpoint only; leaderboard pagination is sequential by
// construction and not limited.
func NewClient(baseURL, title, platform string, pageSize, matchHistoryRPS int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		title:      title,
		platform:   platform,
		pageSize:   pageSize,
		limiter:    rate.NewLimiter(rate.Limit(matchHistoryRPS), 1),
		logger:     logger,
	}
}

// get performs a GET request to a WEL endpoint and returns the raw body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Body:       truncate(body, 200),
		}
	}

	return body, nil
}

// getJSON performs a GET request and decodes the response into v.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v interface{}) error {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
