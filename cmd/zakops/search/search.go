// Package searchcmder provides the search command for querying the deal
// pipeline.
package searchcmder

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zakopshq/zakops/pkg/client"
	"github.com/zakopshq/zakops/pkg/cliui"
	"github.com/zakopshq/zakops/pkg/config"
	"github.com/zakopshq/zakops/pkg/deal"
	"github.com/zakopshq/zakops/pkg/logger"
)

const searchLongDesc string = `Search the deal pipeline.

Matches are scored across deal names, counterparties, summaries, and tags,
best first. Results are cached client-side; re-running the same query
within the cache TTL does not hit the deal service.

Use --quiet to output only deal ids, one per line. This is useful for
piping into other commands.

Examples:
  zakops search acme
  zakops search "carve-out" --top 3
  zakops deals show $(zakops search acme --quiet --top 1)`

const searchShortDesc string = "Search the deal pipeline"

type searchCommander struct {
	query string
	topK  int
	quiet bool

	backendURL      string
	apiKey          string
	timeoutSeconds  uint
	searchTTLSecond uint

	debug  bool
	logger *slog.Logger
	client *client.Client
}

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.preRun(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagBackendURL, &cmder.backendURL)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeoutSeconds)
	config.AddUintFlag(cmd, config.Flags, config.FlagSearchTTL, &cmder.searchTTLSecond)
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", 5, "Number of results to return")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only deal ids, one per line (for piping)")

	return cmd
}

func (c *searchCommander) preRun(cmd *cobra.Command) error {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{
		config.FlagBackendURL,
		config.FlagAPIKey,
		config.FlagTimeout,
		config.FlagSearchTTL,
	})

	c.backendURL = v.GetString("backend.url")
	c.apiKey = v.GetString("backend.api_key")
	c.timeoutSeconds = v.GetUint("backend.timeout_seconds")
	c.searchTTLSecond = v.GetUint("search.cache_ttl_seconds")

	c.debug, _ = cmd.Flags().GetBool("debug")
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))

	c.client, err = client.New(client.Config{
		BaseURL:   c.backendURL,
		APIKey:    c.apiKey,
		Timeout:   time.Duration(c.timeoutSeconds) * time.Second,
		SearchTTL: time.Duration(c.searchTTLSecond) * time.Second,
		Logger:    c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating deal service client: %w", err)
	}

	return nil
}

func (c *searchCommander) run(cmd *cobra.Command) error {
	results, err := c.client.Search(cmd.Context(), c.query)
	if err != nil {
		return err
	}

	if c.topK > 0 && len(results) > c.topK {
		results = results[:c.topK]
	}

	if len(results) == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, result := range results {
			fmt.Println(result.DealID)
		}
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		cliui.NameStyle.Render("Search results for:"),
		cliui.HashStyle.Render(fmt.Sprintf("%q", c.query)),
	)

	for i, result := range results {
		printResult(i+1, result)
	}

	return nil
}

func printResult(rank int, result deal.SearchResult) {
	fmt.Printf("  %s  %s  %s  %s\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(fmt.Sprintf("#%d", rank)),
		cliui.NameStyle.Render(result.Name),
		cliui.DimStyle.Render(fmt.Sprintf("score: %.2f", result.Score)),
	)
	fmt.Printf("     %s %s\n",
		cliui.StageStyle(result.Stage).Render(string(result.Stage)),
		cliui.HashStyle.Render(result.DealID),
	)

	if result.Snippet != "" {
		snippet := strings.ReplaceAll(result.Snippet, "\n", " ")
		if len(snippet) > 80 {
			snippet = snippet[:77] + "..."
		}
		fmt.Printf("     %s\n", cliui.ValueStyle.Render(snippet))
	}
	fmt.Println()
}
