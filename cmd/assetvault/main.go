// Copyright 2025 Brightpool Labs
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
	"fmt"
	"log"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/brightpool/assetvault"
	"github.com/brightpool/assetvault/ai"
	"github.com/brightpool/assetvault/ai/openai"
	"github.com/brightpool/assetvault/core"
	"github.com/brightpool/assetvault/reindex"
	"github.com/brightpool/assetvault/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "assetvault",
		Usage: "Digital asset library with AI-assisted search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the library data directory",
				Value:   "./assetvault_data",
			},
			&cli.StringFlag{
				Name:    "ai-host",
				Usage:   "OpenAI-compatible API base URL",
				EnvVars: []string{"ASSETVAULT_AI_HOST"},
			},
			&cli.StringFlag{
				Name:    "ai-key",
				Usage:   "API key for the AI provider",
				EnvVars: []string{"ASSETVAULT_AI_KEY"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Model used for tags, summaries, and image analysis",
				EnvVars: []string{"ASSETVAULT_CHAT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Model used for text embeddings",
				EnvVars: []string{"ASSETVAULT_EMBEDDING_MODEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Add files to the library and process them",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
			},
			{
				Name:      "search",
				Usage:     "Search the library by keyword and meaning",
				ArgsUsage: "QUERY",
				Action:    searchCommand,
			},
			{
				Name:   "list",
				Usage:  "List the most recent assets",
				Action: listCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of assets to show",
						Value: 20,
					},
				},
			},
			{
				Name:      "retry",
				Usage:     "Reprocess a failed asset",
				ArgsUsage: "ID",
				Action:    retryCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Recompute embeddings for every asset",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of assets to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N assets",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

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

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// aiOptions builds library options from the AI flags. Without an AI host or
// key the provider stays disabled and assets are cataloged without
// enrichment.
func aiOptions(c *cli.Context) []assetvault.LibraryOption {
	if c.String("ai-host") == "" && c.String("ai-key") == "" {
		return nil
	}

	config := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithAPIKey(c.String("ai-key")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)
	return []assetvault.LibraryOption{assetvault.WithAIConfig(config)}
}

func openLibrary(c *cli.Context) (*assetvault.Library, error) {
	return assetvault.NewLibrary(c.String("data"), aiOptions(c)...)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := context.Background()
	for _, file := range c.Args().Slice() {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		mimeType := mime.TypeByExtension(filepath.Ext(file))
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}

		asset, err := lib.AddAsset(ctx, filepath.Base(file), mimeType, data)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", file, err)
		}
		fmt.Printf("added %s (id %d, %s)\n", asset.Filename, asset.Id, asset.Status)
	}

	// Give queued processing a chance to run before the library closes.
	fmt.Fprintln(os.Stderr, "processing...")
	time.Sleep(2 * time.Second)
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a search query is required")
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	query := strings.Join(c.Args().Slice(), " ")
	resp, err := lib.Search(context.Background(), query)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits for %q\n", resp.Total, resp.Query)
	for i, hit := range resp.Assets {
		fmt.Printf("%d: %s (id %d, score %d, %s", i+1, hit.Asset.Filename,
			hit.Asset.Id, hit.Score, hit.Match)
		if hit.Similarity > 0 {
			fmt.Printf(", similarity %.3f", hit.Similarity)
		}
		fmt.Println(")")
	}
	return nil
}

func listCommand(c *cli.Context) error {
	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	assets, err := lib.RecentAssets(context.Background(), c.Int("limit"))
	if err != nil {
		return err
	}

	for _, asset := range assets {
		fmt.Printf("%d\t%s\t%s\t%s\t%d downloads\n", asset.Id, asset.Filename,
			asset.Status, asset.CreatedAt.Format(time.DateTime), asset.DownloadCount)
	}
	return nil
}

func retryCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one asset id is required")
	}

	id, err := strconv.ParseUint(c.Args().First(), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid asset id %q: %w", c.Args().First(), err)
	}

	lib, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx := context.Background()
	if err := lib.Retry(ctx, core.ID(id)); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "processing...")
	time.Sleep(2 * time.Second)

	asset, err := lib.Asset(ctx, core.ID(id))
	if err != nil {
		return err
	}
	fmt.Printf("%d\t%s\t%s\n", asset.Id, asset.Filename, asset.Status)
	return nil
}

func reindexCommand(c *cli.Context) error {
	if c.String("embedding-model") == "" && c.String("ai-host") == "" {
		return fmt.Errorf("reindex requires an AI provider (--ai-host / --embedding-model)")
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("ai-host")),
		ai.WithAPIKey(c.String("ai-key")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
	)

	repo, err := badger.NewRepository(filepath.Join(c.String("data"), "db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}
	defer provider.Close()

	config := &reindex.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reindexer := reindex.NewReindexer(repo, provider.Embedder(), config, os.Stderr)
	if err := reindexer.Run(context.Background()); err != nil {
		return fmt.Errorf("reindexing failed: %w", err)
	}
	return nil
}
