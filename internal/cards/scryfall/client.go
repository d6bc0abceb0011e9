// Package scryfall is a rate-limited client for the Scryfall card database.
package scryfall

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

	"golang.org/x/time/rate"

	"github.com/aethermind/aethermind/internal/cards"
)

const (
	// DefaultBaseURL is the public Scryfall API endpoint.
	DefaultBaseURL = "https://api.scryfall.com"

	rateLimitDelay = 100 * time.Millisecond // 100ms between requests (10 req/sec)
	requestTimeout = 30 * time.Second
	maxRetries     = 3
	initialBackoff = 1 * time.Second
	maxBackoff     = 16 * time.Second

	// MinSearchLength is the shortest query SearchCommanders will send.
	MinSearchLength = 3
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	UserAgent string

	// RateLimit is the minimum delay between requests.
	RateLimit time.Duration

	// Timeout bounds a single HTTP request.
	Timeout time.Duration
}

// DefaultConfig returns the settings Scryfall asks API consumers to respect.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "Aethermind/1.0",
		RateLimit: rateLimitDelay,
		Timeout:   requestTimeout,
	}
}

// Client represents a Scryfall API client with rate limiting.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	backoff     time.Duration
}

// NewClient creates a new Scryfall API client.
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	defaults := DefaultConfig()
	if config.BaseURL == "" {
		config.BaseURL = defaults.BaseURL
	}
	if config.UserAgent == "" {
		config.UserAgent = defaults.UserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Every(config.RateLimit)
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
		userAgent:   config.UserAgent,
		backoff:     initialBackoff,
	}
}

// CardByExactName retrieves the card whose name matches exactly.
// A miss returns an error satisfying errors.Is(err, cards.ErrCardNotFound).
func (c *Client) CardByExactName(ctx context.Context, name string) (*cards.Card, error) {
	endpoint := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	var card cards.Card
	if err := c.doRequest(ctx, endpoint, &card); err != nil {
		return nil, fmt.Errorf("failed to get card %q: %w", name, err)
	}

	return &card, nil
}

// SearchCards performs a full-text search for cards.
func (c *Client) SearchCards(ctx context.Context, query string) (*SearchResult, error) {
	endpoint := fmt.Sprintf("%s/cards/search?q=%s", c.baseURL, url.QueryEscape(query))

	var result SearchResult
	if err := c.doRequest(ctx, endpoint, &result); err != nil {
		// Scryfall answers an empty search with 404.
		if errors.Is(err, cards.ErrCardNotFound) {
			return &SearchResult{Object: "list", Data: []cards.Card{}}, nil
		}
		return nil, fmt.Errorf("failed to search cards with query '%s': %w", query, err)
	}

	return &result, nil
}

// SearchCommanders searches legendary creatures by name fragment.
// Queries shorter than MinSearchLength return no results without a request.
func (c *Client) SearchCommanders(ctx context.Context, query string) ([]cards.Card, error) {
	query = strings.TrimSpace(query)
	if len(query) < MinSearchLength {
		return []cards.Card{}, nil
	}

	result, err := c.SearchCards(ctx, query+" t:legendary t:creature")
	if err != nil {
		return nil, err
	}

	return result.Data, nil
}

// doRequest performs an HTTP request with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, endpoint string, result interface{}) error {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		retry, err := c.attempt(ctx, endpoint, result)
		if err == nil {
			return nil
		}
		if !retry.ok {
			return err
		}
		lastErr = err
		if attempt == maxRetries {
			break
		}

		wait := backoff
		if retry.after > 0 {
			wait = retry.after
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		backoff = min(backoff*2, maxBackoff)
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// retryHint tells doRequest whether a failed attempt may be retried.
type retryHint struct {
	ok    bool
	after time.Duration
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, endpoint string, result interface{}) (retryHint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return retryHint{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return retryHint{}, ctx.Err()
		}
		// Retry on network errors
		return retryHint{ok: true}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return retryHint{}, fmt.Errorf("failed to read response body: %w", err)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return retryHint{}, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		return retryHint{}, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		hint := retryHint{ok: true}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			hint.after = time.Duration(secs) * time.Second
		}
		return hint, fmt.Errorf("rate limited (HTTP 429)")

	case resp.StatusCode == http.StatusNotFound:
		return retryHint{}, &NotFoundError{URL: endpoint}

	default:
		body, _ := io.ReadAll(resp.Body)

		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
			apiErr.Status = resp.StatusCode
			return retryHint{ok: resp.StatusCode >= 500}, &apiErr
		}

		return retryHint{ok: resp.StatusCode >= 500}, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}
}
