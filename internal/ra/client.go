package ra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	// BaseURL is the RetroAchievements web API root
	BaseURL = "https://retroachievements.org/API"

	// MediaBaseURL serves badge and profile images
	MediaBaseURL = "https://media.retroachievements.org"
)

// Credentials authenticate one API call. Per-user polling passes each
// user's own username and web API key; the weekly feature lookup uses
// the bot's service account.
type Credentials struct {
	Username string
	APIKey   string
}

// Client is a RetroAchievements API client with rate limiting
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Simple rate limiter
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// NewClient creates a new RetroAchievements API client
func NewClient() *Client {
	return &Client{
		baseURL: BaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// The API allows roughly one request per second sustained
		minInterval: 500 * time.Millisecond,
	}
}

// doRequest performs an HTTP request with rate limiting
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.minInterval {
		time.Sleep(c.minInterval - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	return c.httpClient.Do(req)
}

// get performs a GET request against an API endpoint and decodes the
// JSON response. Authentication goes in the query string (z/y params).
func (c *Client) get(ctx context.Context, endpoint string, creds Credentials, params url.Values, result any) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("z", creds.Username)
	params.Set("y", creds.APIKey)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequest(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// parseTimestamp parses the API's "2006-01-02 15:04:05" timestamps (UTC).
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// BadgeURL returns the full media URL for a badge name.
func BadgeURL(badgeName string) string {
	return fmt.Sprintf("%s/Badge/%s.png", MediaBaseURL, badgeName)
}
