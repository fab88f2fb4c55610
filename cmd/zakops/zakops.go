// Package zakopscmder
package zakopscmder

import (
	"github.com/spf13/cobra"

	versioncmder "github.com/zakopshq/zakops/cmd/version"
	chatcmder "github.com/zakopshq/zakops/cmd/zakops/chat"
	configcmder "github.com/zakopshq/zakops/cmd/zakops/config"
	dealscmder "github.com/zakopshq/zakops/cmd/zakops/deals"
	onboardingcmder "github.com/zakopshq/zakops/cmd/zakops/onboarding"
	quarantinecmder "github.com/zakopshq/zakops/cmd/zakops/quarantine"
	searchcmder "github.com/zakopshq/zakops/cmd/zakops/search"
	servecmder "github.com/zakopshq/zakops/cmd/zakops/serve"
)

const zakopsLongDesc string = `ZakOps is a console for your M&A deal pipeline.

Inspect and move deals through the pipeline:
  zakops deals           List deals, show details, transition stages
  zakops deals board     Interactive pipeline board
  zakops quarantine      Triage inbound emails held before becoming deals
  zakops search          Search the pipeline
  zakops chat            Chat with the deal assistant
  zakops serve           Run a local stub deal service for offline work`

const zakopsShortDesc string = "ZakOps - M&A deal pipeline console"

func NewZakopsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zakops",
		Short: zakopsShortDesc,
		Long:  zakopsLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding the .zakops config (default: nearest .zakops)")

	// Add subcommands
	cmd.AddCommand(dealscmder.NewDealsCmd())
	cmd.AddCommand(quarantinecmder.NewQuarantineCmd())
	cmd.AddCommand(onboardingcmder.NewOnboardingCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
