// Package dealscmder provides the deals command for inspecting and moving
// deals through the pipeline.
package dealscmder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/config"
	"github.com/zakopshq/zakops/pkg/logger"
)

const dealsLongDesc string = `Inspect and move deals through the pipeline.

Use subcommands to list deals, show a single deal, transition a deal to a
new stage, remove a deal, or open the interactive pipeline board:
  zakops deals list                    List deals
  zakops deals show <id>               Show a single deal
  zakops deals transition <id> <stage> Move a deal to a new stage
  zakops deals remove <id>             Remove a deal
  zakops deals board                   Interactive pipeline board

Examples:
  zakops deals list --stage diligence
  zakops deals list --query acme
  zakops deals transition d-acme negotiation
  zakops deals board`

const dealsShortDesc string = "Inspect and move deals through the pipeline"

type dealsCommander struct {
	backendURL     string
	apiKey         string
	timeoutSeconds uint

	debug  bool
	logger *slog.Logger
	client *client.Client
}

func NewDealsCmd() *cobra.Command {
	cmder := &dealsCommander{}

	cmd := &cobra.Command{
		Use:   "deals",
		Short: dealsShortDesc,
		Long:  dealsLongDesc,
	}

	cmd.AddCommand(cmder.newListCmd())
	cmd.AddCommand(cmder.newShowCmd())
	cmd.AddCommand(cmder.newTransitionCmd())
	cmd.AddCommand(cmder.newRemoveCmd())
	cmd.AddCommand(cmder.newBoardCmd())

	return cmd
}

// addBackendFlags registers the shared deal-service flags on a subcommand.
func (c *dealsCommander) addBackendFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.Flags, config.FlagBackendURL, &c.backendURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &c.apiKey)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &c.timeoutSeconds)
}

// preRun resolves config through the viper precedence chain and builds the
// deal-service client.
func (c *dealsCommander) preRun(cmd *cobra.Command) error {
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
