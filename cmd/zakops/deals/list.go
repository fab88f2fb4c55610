package dealscmder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/utils"
)

const listLongDesc string = `List deals in the pipeline.

Deals are shown most recently updated first. Filter by stage or by a
name / counterparty substring.

Examples:
  zakops deals list
  zakops deals list --stage diligence
  zakops deals list --query acme`

const listShortDesc string = "List deals"

func (c *dealsCommander) newListCmd() *cobra.Command {
	var stage string
	var query string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runList(cmd, deal.Stage(stage), query, asJSON)
		},
	}

	c.addBackendFlags(cmd)
	cmd.Flags().StringVarP(&stage, "stage", "s", "", "Filter by pipeline stage")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Filter by name or counterparty substring")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print deals as JSON")

	return cmd
}

func (c *dealsCommander) runList(cmd *cobra.Command, stage deal.Stage, query string, asJSON bool) error {
	if stage != "" && deal.ParseStage(string(stage)) == deal.StageUnknown {
		return fmt.Errorf("unknown stage %q (expected one of: %s)", stage, stageNames())
	}

	deals, err := c.client.ListDeals(cmd.Context(), client.ListDealsOptions{
		Stage: stage,
		Query: query,
	})
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(deals, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding deals: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(deals) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No deals found."))
		return nil
	}

	fmt.Println()
	for _, d := range deals {
		printDealLine(d)
	}
	fmt.Println()

	return nil
}

// printDealLine renders one deal as a single console row.
func printDealLine(d deal.Deal) {
	fmt.Printf("  %s  %s  %s  %s\n",
		cliui.HashStyle.Render(utils.Truncate(d.ID, 12)),
		cliui.StageStyle(d.Stage).Render(fmt.Sprintf("%-12s", d.Stage)),
		cliui.NameStyle.Render(fmt.Sprintf("%-32s", utils.Truncate(d.Name, 32))),
		cliui.DimStyle.Render(utils.FormatUSD(d.ValueUSD)),
	)
}

func stageNames() string {
	names := make([]string, len(deal.Stages))
	for i, s := range deal.Stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
