package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/zakopshq/zakops/pkg/deal"
)

// ListDealsOptions filters the deal listing. Zero values mean "no filter".
type ListDealsOptions struct {
	// Stage limits results to a single pipeline stage.
	Stage deal.Stage

	// Query is a free-text filter over name and counterparty.
	Query string
}

// ListDeals returns the pipeline, optionally filtered. Entries the decoder
// cannot identify are dropped; entries with unexpected shapes come back as
// partial deals.
func (c *Client) ListDeals(ctx context.Context, opts ListDealsOptions) ([]deal.Deal, error) {
	params := url.Values{}
	if opts.Stage != "" {
		params.Set("stage", string(opts.Stage))
	}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}

	data, err := c.getRaw(ctx, queryPath("/deals", params))
	if err != nil {
		return nil, fmt.Errorf("listing deals: %w", err)
	}

	deals, err := deal.DecodeList(data)
	if err != nil {
		return nil, fmt.Errorf("decoding deals: %w", err)
	}

	return deals, nil
}

// GetDeal fetches a single deal by id.
func (c *Client) GetDeal(ctx context.Context, id string) (*deal.Deal, error) {
	data, err := c.getRaw(ctx, "/deals/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("getting deal %s: %w", id, err)
	}

	d, err := deal.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding deal %s: %w", id, err)
	}

	return d, nil
}

// transitionRequest is the wire payload for a stage move.
type transitionRequest struct {
	To deal.Stage `json:"to"`
}

// TransitionDeal moves a deal to a new stage. The local transition table is
// consulted first: a move it forbids returns ErrIllegalTransition without a
// round trip. The service remains authoritative — it can still reject moves
// the table allows.
func (c *Client) TransitionDeal(ctx context.Context, id string, to deal.Stage) (*deal.Deal, error) {
	current, err := c.GetDeal(ctx, id)
	if err != nil {
		return nil, err
	}

	// An unknown current stage means this build can't vouch for the move;
	// defer to the service rather than blocking it.
	if current.Stage != deal.StageUnknown && !deal.CanTransition(current.Stage, to) {
		return nil, fmt.Errorf("%s -> %s: %w", current.Stage, to, ErrIllegalTransition)
	}

	data, err := c.postRaw(ctx, "/deals/"+url.PathEscape(id)+"/transition", transitionRequest{To: to})
	if err != nil {
		return nil, fmt.Errorf("transitioning deal %s: %w", id, err)
	}

	updated, err := deal.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding updated deal %s: %w", id, err)
	}

	c.searchCache.Clear()

	return updated, nil
}

// DeleteDeal removes a deal from the pipeline.
func (c *Client) DeleteDeal(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/deals/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("deleting deal %s: %w", id, err)
	}

	c.searchCache.Clear()

	return nil
}
