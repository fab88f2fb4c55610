package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/zakopshq/zakops/pkg/deal"
)

// Search runs a free-text search over the pipeline. Results are cached
// client-side for the configured TTL, keyed on the normalized query, so
// repeated lookups (e.g. a user re-running the same filter) skip the round
// trip.
func (c *Client) Search(ctx context.Context, query string) ([]deal.SearchResult, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, nil
	}

	if results, ok := c.searchCache.Get(key); ok {
		c.logger.Debug("search cache hit", "query", key)
		return results, nil
	}

	params := url.Values{}
	params.Set("q", query)

	var results []deal.SearchResult
	if err := c.doJSON(ctx, "GET", queryPath("/search", params), nil, &results); err != nil {
		return nil, fmt.Errorf("searching deals: %w", err)
	}

	c.searchCache.Set(key, results)

	return results, nil
}

// InvalidateSearch drops all cached search results. The client's own write
// operations already do this; it is exposed for callers that mutate the
// pipeline out of band.
func (c *Client) InvalidateSearch() {
	c.searchCache.Clear()
}
