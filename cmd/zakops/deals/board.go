package dealscmder

import (
	"github.com/spf13/cobra"
)

const boardLongDesc string = `Open the interactive pipeline board.

The board shows one column per pipeline stage with deals as cards. Move
between columns and cards with vim-style keys, advance the selected deal
through the pipeline, or mark it dead.

Keys:
  h/l        previous / next stage column
  j/k        down / up within a column
  enter      advance the selected deal to the next stage
  x          mark the selected deal dead
  u          revive a dead deal to inbound
  r          refresh from the deal service
  q          quit

Examples:
  zakops deals board`

const boardShortDesc string = "Interactive pipeline board"

func (c *dealsCommander) newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: boardShortDesc,
		Long:  boardLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBoardTUI(cmd.Context(), c.client)
		},
	}

	c.addBackendFlags(cmd)

	return cmd
}
