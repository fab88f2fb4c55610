// Package servecmder provides the serve command for running the local
// deal-service stub.
package servecmder

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/api"
	"github.com/zakopshq/zakops/pkg/config"
	"github.com/zakopshq/zakops/pkg/logger"
)

const serveLongDesc string = `Run the local deal-service stub.

Serves the deal pipeline HTTP API, the SSE chat stream, and the MCP
endpoint on a single listener. With no fixtures file the stub seeds
itself with a small built-in pipeline; pass --fixtures to load deals,
quarantine entries, and onboarding state from a JSON file instead.

Examples:
  zakops serve
  zakops serve --listen :9090
  zakops serve --fixtures ./fixtures.json --watch`

const serveShortDesc string = "Run the local deal-service stub"

type serveCommander struct {
	listenAddr   string
	fixturesPath string
	watch        bool
	debug        bool
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cmder.preRun(cmd); err != nil {
				return err
			}
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagStubListen, &cmder.listenAddr)
	config.AddStringFlag(cmd, config.Flags, config.FlagFixtures, &cmder.fixturesPath)
	cmd.Flags().BoolVar(&cmder.watch, "watch", false, "Reload fixtures when the file changes")

	return cmd
}

func (c *serveCommander) preRun(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagStubListen,
		config.FlagFixtures,
	})

	c.listenAddr = v.GetString("stub.listen")
	c.fixturesPath = v.GetString("stub.fixtures")

	c.debug, _ = cmd.Flags().GetBool("debug")

	return nil
}

func (c *serveCommander) run(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	store := api.NewStore()
	server, err := api.NewServer(api.Config{
		ListenAddr:   c.listenAddr,
		FixturesPath: c.fixturesPath,
		Watch:        c.watch,
	}, store, log)
	if err != nil {
		return fmt.Errorf("creating stub server: %w", err)
	}

	return server.Run(ctx)
}
