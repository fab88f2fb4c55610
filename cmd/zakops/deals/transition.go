package dealscmder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/deal"
)

const transitionLongDesc string = `Move a deal to a new pipeline stage.

Only moves allowed by the pipeline's transition table are accepted: deals
advance one stage at a time, any live deal can be marked dead, and dead
deals can be revived to inbound. Closed deals never move.

Examples:
  zakops deals transition d-acme negotiation
  zakops deals transition d-globex dead`

const transitionShortDesc string = "Move a deal to a new stage"

func (c *dealsCommander) newTransitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transition <id> <stage>",
		Short: transitionShortDesc,
		Long:  transitionLongDesc,
		Args:  cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTransition(cmd, args[0], deal.Stage(args[1]))
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				names := make([]string, len(deal.Stages))
				for i, s := range deal.Stages {
					names[i] = string(s)
				}
				return names, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
	}

	c.addBackendFlags(cmd)

	return cmd
}

func (c *dealsCommander) runTransition(cmd *cobra.Command, id string, to deal.Stage) error {
	if deal.ParseStage(string(to)) == deal.StageUnknown {
		return fmt.Errorf("unknown stage %q (expected one of: %s)", to, stageNames())
	}

	d, err := c.client.TransitionDeal(cmd.Context(), id, to)
	if err != nil {
		if errors.Is(err, client.ErrIllegalTransition) {
			return transitionHint(cmd, c, id, to, err)
		}
		return err
	}

	fmt.Printf("\n  %s %s moved to %s\n\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(d.Name),
		cliui.StageStyle(d.Stage).Render(string(d.Stage)),
	)
	return nil
}

// transitionHint decorates an illegal-transition error with the moves that
// would have been allowed.
func transitionHint(cmd *cobra.Command, c *dealsCommander, id string, to deal.Stage, cause error) error {
	d, err := c.client.GetDeal(cmd.Context(), id)
	if err != nil {
		return cause
	}

	allowed := deal.Next(d.Stage)
	if len(allowed) == 0 {
		return fmt.Errorf("cannot move %s out of %s: %s is terminal", id, d.Stage, d.Stage)
	}

	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return fmt.Errorf("cannot move %s from %s to %s (allowed: %s)",
		id, d.Stage, to, strings.Join(names, ", "))
}
