package client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/zakopshq/zakops/pkg/deal"
)

// ListQuarantine returns the inbound items held for triage, newest first.
func (c *Client) ListQuarantine(ctx context.Context) ([]deal.QuarantineItem, error) {
	var items []deal.QuarantineItem
	if err := c.doJSON(ctx, "GET", "/quarantine", nil, &items); err != nil {
		return nil, fmt.Errorf("listing quarantine: %w", err)
	}
	return items, nil
}

// ApproveQuarantine promotes a quarantined item into the pipeline and
// returns the deal the service created for it.
func (c *Client) ApproveQuarantine(ctx context.Context, id string) (*deal.Deal, error) {
	data, err := c.postRaw(ctx, "/quarantine/"+url.PathEscape(id)+"/approve", nil)
	if err != nil {
		return nil, fmt.Errorf("approving quarantine item %s: %w", id, err)
	}

	d, err := deal.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding created deal: %w", err)
	}

	c.searchCache.Clear()

	return d, nil
}

// RejectQuarantine discards a quarantined item.
func (c *Client) RejectQuarantine(ctx context.Context, id string) error {
	if _, err := c.postRaw(ctx, "/quarantine/"+url.PathEscape(id)+"/reject", nil); err != nil {
		return fmt.Errorf("rejecting quarantine item %s: %w", id, err)
	}
	return nil
}
