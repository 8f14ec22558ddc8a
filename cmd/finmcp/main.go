// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/finmcp/finmcp"
	"github.com/finmcp/finmcp/config"
	"github.com/finmcp/finmcp/core"
	"github.com/finmcp/finmcp/httpapi"
	"github.com/finmcp/finmcp/mcp"
)

func main() {
	app := &cli.App{
		Name:     "finmcp",
		Usage:    "Financial API documentation server with provider recommendations",
		Metadata: map[string]any{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the documentation server",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "transport",
						Aliases: []string{"t"},
						Usage:   "Transport to serve (stdio or http)",
						Value:   "stdio",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "HTTP listen address (overrides config)",
					},
				},
			},
			{
				Name:      "recommend",
				Usage:     "Recommend providers for a natural language query",
				ArgsUsage: "<query...>",
				Action:    recommendCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Maximum number of providers to return",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print classification, matches, and Markdown as JSON",
					},
				},
			},
			{
				Name:      "classify",
				Usage:     "Show how a query is classified, without ranking providers",
				ArgsUsage: "<query...>",
				Action:    classifyCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the classification as JSON",
					},
				},
			},
			{
				Name:      "fetch",
				Usage:     "Print a documentation page, fetching it if not cached",
				ArgsUsage: "<provider> [path]",
				Action:    fetchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "refresh",
						Usage: "Bypass the cache and fetch a fresh copy",
					},
				},
			},
			{
				Name:      "warm",
				Usage:     "Prefetch provider documentation into the cache",
				ArgsUsage: "[provider...]",
				Action:    warmCommand,
			},
			{
				Name:   "providers",
				Usage:  "List the provider catalog",
				Action: providersCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print full provider records as JSON",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search cached documentation",
				ArgsUsage: "<query...>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of hits",
						Value: 10,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// setup configures logging and loads configuration before any command runs.
func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	c.App.Metadata["config"] = cfg

	return nil
}

func configFrom(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata["config"].(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

func openService(c *cli.Context) (*finmcp.Service, error) {
	svc, err := finmcp.NewService(configFrom(c))
	if err != nil {
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, nil
}

// queryArg joins the positional arguments into one query string.
func queryArg(c *cli.Context) (string, error) {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return "", fmt.Errorf("query is required")
	}
	return query, nil
}

func serveCommand(c *cli.Context) error {
	cfg := configFrom(c)
	if addr := c.String("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	svc, err := finmcp.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch transport := c.String("transport"); transport {
	case "stdio":
		server, err := mcp.NewServer(svc)
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		if err := server.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil

	case "http":
		refresher, err := svc.Refresher()
		if err != nil {
			return fmt.Errorf("failed to create refresher: %w", err)
		}
		if refresher != nil {
			if err := refresher.Start(); err != nil {
				return fmt.Errorf("failed to start refresher: %w", err)
			}
			defer refresher.Stop()
		}

		server, err := httpapi.NewServer(svc)
		if err != nil {
			return fmt.Errorf("failed to create HTTP server: %w", err)
		}
		return server.Run(ctx, cfg.HTTPAddr)

	default:
		return fmt.Errorf("unknown transport %q: must be stdio or http", transport)
	}
}

func recommendCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if c.Bool("json") {
		classification, matches, markdown := svc.RecommendFull(query, c.Int("top"))
		if matches == nil {
			matches = []core.Match{}
		}
		return printJSON(struct {
			Classification core.Classification `json:"classification"`
			Matches        []core.Match        `json:"matches"`
			Markdown       string              `json:"markdown"`
		}{classification, matches, markdown})
	}

	fmt.Println(svc.Recommend(query, c.Int("top")))
	return nil
}

func classifyCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	classification := svc.Classify(query)
	if c.Bool("json") {
		return printJSON(classification)
	}

	fmt.Printf("Query:       %s\n", classification.OriginalQuery)
	fmt.Printf("Data types:  %s\n", joinOrNone(classification.DataTypes))
	fmt.Printf("Geography:   %s\n", joinOrNone(classification.Geography))
	fmt.Printf("Preferences: %s\n", joinOrNone(classification.Preferences))
	fmt.Printf("Symbols:     %s\n", joinOrNone(classification.Symbols))
	fmt.Printf("Reasoning:   %s\n", classification.Reasoning)
	return nil
}

func fetchCommand(c *cli.Context) error {
	provider := c.Args().Get(0)
	if provider == "" {
		return fmt.Errorf("provider is required")
	}
	path := c.Args().Get(1)

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	doc, err := svc.Doc(context.Background(), provider, path, c.Bool("refresh"))
	if err != nil {
		return fmt.Errorf("failed to fetch documentation: %w", err)
	}

	fmt.Println(doc.Content)
	return nil
}

func warmCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	stats, err := svc.Warm(context.Background(), c.Args().Slice())
	if err != nil {
		return fmt.Errorf("warm failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Fetched: %d\n", stats.Fetched)
	fmt.Fprintf(os.Stderr, "Skipped: %d\n", stats.Skipped)
	fmt.Fprintf(os.Stderr, "Failed:  %d\n", stats.Failed)

	if stats.Failed > 0 {
		return fmt.Errorf("%d provider(s) failed to warm", stats.Failed)
	}
	return nil
}

func providersCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	providers := svc.Providers()
	if c.Bool("json") {
		return printJSON(providers)
	}

	for _, p := range providers {
		fmt.Printf("%-10s  %s\n", p.ID, p.Name)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query, err := queryArg(c)
	if err != nil {
		return err
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	hits, err := svc.Search(query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(hits) == 0 {
		fmt.Println("No matching documentation found.")
		return nil
	}

	for i, hit := range hits {
		fmt.Printf("%d. %s/%s (score %.2f)\n", i+1, hit.Provider, hit.Path, hit.Score)
		if hit.Fragment != "" {
			fmt.Printf("   %s\n", hit.Fragment)
		}
	}
	return nil
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Logs go to stderr so the stdio transport keeps stdout for protocol
	// frames.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
