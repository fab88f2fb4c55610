package dealscmder

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
)

const removeLongDesc string = `Remove a deal from the pipeline.

Removal is permanent. Prefer "zakops deals transition <id> dead" to keep a
record of deals that fell through.

Examples:
  zakops deals remove d-acme`

const removeShortDesc string = "Remove a deal"

func (c *dealsCommander) newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: removeShortDesc,
		Long:  removeLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemove(cmd, args[0])
		},
	}

	c.addBackendFlags(cmd)

	return cmd
}

func (c *dealsCommander) runRemove(cmd *cobra.Command, id string) error {
	if err := c.client.DeleteDeal(cmd.Context(), id); err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) && statusErr.NotFound() {
			return fmt.Errorf("no deal with id %q", id)
		}
		return err
	}

	fmt.Printf("\n  %s Removed %s\n\n", cliui.SuccessMark, cliui.HashStyle.Render(id))
	return nil
}
