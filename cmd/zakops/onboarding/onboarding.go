// Package onboardingcmder provides the onboarding command for the
// workspace setup checklist.
package onboardingcmder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/config"
	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/logger"
)

const onboardingLongDesc string = `Show and complete the workspace onboarding checklist.

  zakops onboarding                 Show the checklist
  zakops onboarding complete <id>   Mark a step done

Examples:
  zakops onboarding
  zakops onboarding complete invite-team`

const onboardingShortDesc string = "Workspace onboarding checklist"

type onboardingCommander struct {
	backendURL     string
	apiKey         string
	timeoutSeconds uint

	debug  bool
	logger *slog.Logger
	client *client.Client
}

func NewOnboardingCmd() *cobra.Command {
	cmder := &onboardingCommander{}

	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: onboardingShortDesc,
		Long:  onboardingLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := cmder.client.Onboarding(cmd.Context())
			if err != nil {
				return err
			}
			printChecklist(state)
			return nil
		},
	}

	cmder.addBackendFlags(cmd)
	cmd.AddCommand(cmder.newCompleteCmd())

	return cmd
}

func (c *onboardingCommander) addBackendFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.Flags, config.FlagBackendURL, &c.backendURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &c.apiKey)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &c.timeoutSeconds)
}

func (c *onboardingCommander) preRun(cmd *cobra.Command) error {
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

func (c *onboardingCommander) newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete <step-id>",
		Short: "Mark an onboarding step done",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.client.CompleteOnboardingStep(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printChecklist(state)
			return nil
		},
	}

	c.addBackendFlags(cmd)
	return cmd
}

func printChecklist(state *deal.OnboardingState) {
	fmt.Println()
	for _, step := range state.Steps {
		mark := cliui.DimStyle.Render("○")
		if step.Done {
			mark = cliui.SuccessMark
		}
		fmt.Printf("  %s %s %s\n",
			mark,
			cliui.NameStyle.Render(step.Title),
			cliui.DimStyle.Render("("+step.ID+")"),
		)
		if step.Description != "" && !step.Done {
			fmt.Printf("    %s\n", cliui.DimStyle.Render(step.Description))
		}
	}

	fmt.Println()
	if state.Complete {
		fmt.Printf("  %s Onboarding complete\n\n", cliui.SuccessMark)
	} else {
		fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Complete steps with: zakops onboarding complete <step-id>"))
	}
}
