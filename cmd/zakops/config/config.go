// Package configcmder provides the config command for managing persistent
// zakops configuration stored in the .zakops/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent zakops configuration.

Configuration is stored as config.toml in the .zakops/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values, and ZAKOPS_* environment variables sit between the two.

Keys use dotted notation matching the TOML section structure:
  backend.url, backend.api_key, backend.timeout_seconds,
  search.cache_ttl_seconds,
  stub.listen, stub.fixtures

Use subcommands to get, set, or list configuration values:
  zakops config set <key> <value>    Set a configuration value
  zakops config get <key>            Get a configuration value
  zakops config list                 List all configuration values

Examples:
  zakops config set backend.url https://deals.example.com
  zakops config set search.cache_ttl_seconds 120
  zakops config get backend.url
  zakops config list`

const configShortDesc string = "Manage persistent zakops configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
