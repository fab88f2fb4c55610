// Package client is the typed Go client for the ZakOps deal service. It
// wraps the service's JSON API (deals, quarantine triage, onboarding, search)
// and its SSE chat stream behind context-aware methods.
//
// Deal-shaped responses pass through the lenient decoder in pkg/deal, so a
// backend payload that drifts from this build's shape degrades to a partial
// deal instead of an error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zakopshq/zakops/pkg/cache"
	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/logger"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultSearchTTL = 60 * time.Second

	// maxErrorBody bounds how much of an error response we read back for
	// diagnostics.
	maxErrorBody = 8 * 1024
)

// Config holds configuration for the deal-service client.
type Config struct {
	// BaseURL is the deal-service base URL (e.g. "http://localhost:8090").
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds non-streaming requests. Defaults to 30s.
	Timeout time.Duration

	// SearchTTL is how long search results stay cached. Defaults to 60s.
	SearchTTL time.Duration

	// Logger is the configured slog logger. Defaults to a nop logger.
	Logger *slog.Logger
}

// Client talks to the ZakOps deal service.
type Client struct {
	baseURL string
	apiKey  string

	// httpClient serves request/response calls and carries the timeout.
	// streamClient serves SSE connections and must not: a healthy stream
	// outlives any sane request timeout.
	httpClient   *http.Client
	streamClient *http.Client

	searchCache *cache.Cache[[]deal.SearchResult]
	logger      *slog.Logger
}

// New creates a deal-service client.
func New(c Config) (*Client, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("deal service base URL is required")
	}

	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.SearchTTL == 0 {
		c.SearchTTL = defaultSearchTTL
	}
	if c.Logger == nil {
		c.Logger = logger.Nop()
	}

	return &Client{
		baseURL:      strings.TrimRight(c.BaseURL, "/"),
		apiKey:       c.APIKey,
		httpClient:   &http.Client{Timeout: c.Timeout},
		streamClient: &http.Client{},
		searchCache:  cache.New[[]deal.SearchResult](c.SearchTTL),
		logger:       c.Logger,
	}, nil
}

// Ping checks connectivity to the deal service.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/ping", nil, nil)
}

// newRequest builds a request with auth and content headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	return req, nil
}

// getRaw issues a GET and returns the raw response bytes, so deal-shaped
// payloads can go through the lenient decoder.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return data, nil
}

// postRaw issues a POST with an optional JSON body and returns the raw
// response bytes for lenient decoding.
func (c *Client) postRaw(ctx context.Context, path string, body any) ([]byte, error) {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return data, nil
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// checkStatus converts a non-2xx response into a *StatusError.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Code: resp.StatusCode,
		Body: strings.TrimSpace(string(body)),
	}
}

func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
