package dealscmder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/utils"
)

const showLongDesc string = `Show a single deal.

Displays the deal's stage, counterparty, value, probability, tags, and
summary.

Examples:
  zakops deals show d-acme`

const showShortDesc string = "Show a single deal"

func (c *dealsCommander) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd, args[0])
		},
	}

	c.addBackendFlags(cmd)

	return cmd
}

func (c *dealsCommander) runShow(cmd *cobra.Command, id string) error {
	d, err := c.client.GetDeal(cmd.Context(), id)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) && statusErr.NotFound() {
			return fmt.Errorf("no deal with id %q", id)
		}
		return err
	}

	printDeal(*d)
	return nil
}

func printDeal(d deal.Deal) {
	fmt.Println()
	fmt.Printf("  %s %s\n", cliui.NameStyle.Render(d.Name), cliui.HashStyle.Render("("+d.ID+")"))
	fmt.Println()

	printField("Stage", cliui.StageStyle(d.Stage).Render(string(d.Stage)))
	printField("Counterparty", d.Counterparty)
	printField("Value", utils.FormatUSD(d.ValueUSD))
	printField("Probability", fmt.Sprintf("%.0f%%", d.Probability*100))
	if len(d.Tags) > 0 {
		printField("Tags", strings.Join(d.Tags, ", "))
	}
	if !d.UpdatedAt.IsZero() {
		printField("Updated", d.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if d.Summary != "" {
		rendered, err := cliui.RenderMarkdown(d.Summary)
		if err != nil {
			rendered = "\n  " + cliui.ValueStyle.Render(d.Summary) + "\n"
		}
		fmt.Print(rendered)
	}
	fmt.Println()
}

func printField(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("  %s %s\n",
		cliui.KeyStyle.Render(fmt.Sprintf("%-13s", key+":")),
		cliui.ValueStyle.Render(value),
	)
}
