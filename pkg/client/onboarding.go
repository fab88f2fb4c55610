package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/zakopshq/zakops/pkg/deal"
)

// Onboarding returns the workspace onboarding checklist.
func (c *Client) Onboarding(ctx context.Context) (*deal.OnboardingState, error) {
	var state deal.OnboardingState
	if err := c.doJSON(ctx, "GET", "/onboarding", nil, &state); err != nil {
		return nil, fmt.Errorf("getting onboarding state: %w", err)
	}
	return &state, nil
}

// CompleteOnboardingStep marks a checklist step done and returns the
// updated state.
func (c *Client) CompleteOnboardingStep(ctx context.Context, stepID string) (*deal.OnboardingState, error) {
	data, err := c.postRaw(ctx, "/onboarding/"+url.PathEscape(stepID)+"/complete", nil)
	if err != nil {
		return nil, fmt.Errorf("completing onboarding step %s: %w", stepID, err)
	}

	var state deal.OnboardingState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding onboarding state: %w", err)
	}

	return &state, nil
}
