// Package quarantinecmder provides the quarantine command for triaging
// inbound emails held before they become deals.
package quarantinecmder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/config"
	"github.com/zakopshq/zakops/pkg/logger"
	"github.com/zakopshq/zakops/pkg/utils"
)

const quarantineLongDesc string = `Triage inbound emails held in quarantine.

Emails the intake classifier is unsure about are held for review before
they become pipeline deals. Approving an item creates a fresh inbound
deal; rejecting drops it.

  zakops quarantine list           List held items
  zakops quarantine approve <id>   Promote an item to an inbound deal
  zakops quarantine reject <id>    Drop an item

Examples:
  zakops quarantine list
  zakops quarantine approve q-bluth`

const quarantineShortDesc string = "Triage quarantined inbound emails"

type quarantineCommander struct {
	backendURL     string
	apiKey         string
	timeoutSeconds uint

	debug  bool
	logger *slog.Logger
	client *client.Client
}

func NewQuarantineCmd() *cobra.Command {
	cmder := &quarantineCommander{}

	cmd := &cobra.Command{
		Use:   "quarantine",
		Short: quarantineShortDesc,
		Long:  quarantineLongDesc,
	}

	cmd.AddCommand(cmder.newListCmd())
	cmd.AddCommand(cmder.newApproveCmd())
	cmd.AddCommand(cmder.newRejectCmd())

	return cmd
}

func (c *quarantineCommander) addBackendFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.Flags, config.FlagBackendURL, &c.backendURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &c.apiKey)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &c.timeoutSeconds)
}

func (c *quarantineCommander) preRun(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagBackendURL,
		config.FlagAPIKey,
		config.FlagTimeout,
	})

	c.backendURL = v.GetString("backend.url")
	c.apiKey = v.GetString("backend.api_key")
	c.timeoutSeconds = v.GetUint("backend.timeout_seconds")

	c.debug, _ = cmd.Flags().GetBool("debug")
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	c.client, err = client.New(client.Config{
		BaseURL: c.backendURL,
		APIKey:  c.apiKey,
		Timeout: time.Duration(c.timeoutSeconds) * time.Second,
		Logger:  c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating deal service client: %w", err)
	}

	return nil
}

func (c *quarantineCommander) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quarantined items",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, err := c.client.ListQuarantine(cmd.Context())
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("Quarantine is empty."))
				return nil
			}

			fmt.Println()
			for _, item := range items {
				fmt.Printf("  %s  %s  %s\n",
					cliui.HashStyle.Render(utils.Truncate(item.ID, 12)),
					cliui.NameStyle.Render(fmt.Sprintf("%-40s", utils.Truncate(item.Subject, 40))),
					cliui.DimStyle.Render(item.From),
				)
				if item.Reason != "" {
					fmt.Printf("  %s  %s\n",
						fmt.Sprintf("%-12s", ""),
						cliui.DimStyle.Render(fmt.Sprintf("%s (confidence %.0f%%)", item.Reason, item.Confidence*100)),
					)
				}
			}
			fmt.Println()

			return nil
		},
	}

	c.addBackendFlags(cmd)
	return cmd
}

func (c *quarantineCommander) newApproveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Promote a quarantined item to an inbound deal",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := c.client.ApproveQuarantine(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n  %s Approved. New deal %s %s\n\n",
				cliui.SuccessMark,
				cliui.HashStyle.Render(d.ID),
				cliui.NameStyle.Render(d.Name),
			)
			return nil
		},
	}

	c.addBackendFlags(cmd)
	return cmd
}

func (c *quarantineCommander) newRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Drop a quarantined item",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.client.RejectQuarantine(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("\n  %s Rejected %s\n\n", cliui.SuccessMark, cliui.HashStyle.Render(args[0]))
			return nil
		},
	}

	c.addBackendFlags(cmd)
	return cmd
}
