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
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/exocortex"
	"github.com/poiesic/exocortex/ai"
	"github.com/poiesic/exocortex/api"
	"github.com/poiesic/exocortex/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "exocortex",
		Usage: "Personal knowledge capture with semantic recall",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "exocortex.db",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "OpenAI-compatible service host URL for chat and embeddings",
			},
			&cli.StringFlag{
				Name:  "chat-model",
				Usage: "Model used for enrichment and answer generation",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Model used for text embeddings",
			},
			&cli.StringFlag{
				Name:  "token",
				Usage: "API token for the AI services",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Capture a file (or stdin with \"-\") as a memory",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Source type: audio_transcript, telegram, slack, markdown, code",
						Value:   "markdown",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Ask a question over stored memories",
				ArgsUsage: "<question>",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of memories to retrieve",
						Value: core.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "Minimum cosine similarity in [0.0, 1.0]",
						Value: core.DefaultSimilarityThreshold,
					},
					&cli.StringFlag{
						Name:  "source-type",
						Usage: "Restrict results to one source type",
					},
				},
			},
			{
				Name:   "commitments",
				Usage:  "List commitment records extracted from stored memories",
				Action: commitmentsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status: open, complete, overdue",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8070",
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openSystem assembles the full system from the global flags.
func openSystem(c *cli.Context) (*exocortex.System, error) {
	var opts []ai.ConfigOption
	if host := c.String("host"); host != "" {
		opts = append(opts, ai.WithHost(host))
	}
	if model := c.String("chat-model"); model != "" {
		opts = append(opts, ai.WithChatModel(model))
	}
	if model := c.String("embedding-model"); model != "" {
		opts = append(opts, ai.WithEmbeddingModel(model))
	}
	if token := c.String("token"); token != "" {
		opts = append(opts, ai.WithToken(token))
	}

	return exocortex.Open(exocortex.Config{
		DBPath: c.String("db"),
		AI:     ai.NewConfig(opts...),
	})
}

func ingestCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("a file path is required (use \"-\" for stdin)")
	}

	var text []byte
	var err error
	if path == "-" {
		text, err = io.ReadAll(os.Stdin)
	} else {
		text, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	sourceType, known := core.ParseSourceType(c.String("type"))
	if !known {
		fmt.Fprintf(os.Stderr, "Unknown source type %q, treating as markdown\n", c.String("type"))
	}

	raw := core.NewRawContent(string(text), sourceType)
	if path != "-" {
		raw.SourceFile = path
	}

	memory, exoErr := system.Orchestrator().Ingest(context.Background(), raw)
	if exoErr != nil {
		return exoErr
	}

	fmt.Printf("Stored memory %s\n", memory.Id)
	fmt.Printf("  Summary: %s\n", memory.Summary)
	if len(memory.Intents) > 0 {
		fmt.Printf("  Intents: %s\n", strings.Join(memory.Intents, ", "))
	}
	if len(memory.Commitments) > 0 {
		fmt.Printf("  Commitments: %d\n", len(memory.Commitments))
	}
	if !memory.UpdatedAt.IsZero() {
		fmt.Println("  (updated an existing memory with the same content)")
	}
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	request := core.NewQueryRequest(question)
	request.TopK = c.Int("top-k")
	request.SimilarityThreshold = c.Float64("threshold")
	if st := c.String("source-type"); st != "" {
		request.Filters = map[string]string{"source_type": st}
	}

	response, exoErr := system.Orchestrator().Query(context.Background(), request)
	if exoErr != nil {
		return exoErr
	}

	fmt.Println(response.Answer)
	fmt.Println()
	fmt.Printf("Confidence: %.2f\n", response.Confidence)
	for _, source := range response.Sources {
		label := source.MemoryId
		if source.SourceFile != "" {
			label = source.SourceFile
		}
		fmt.Printf("  [%.2f] %s: %s\n", source.Similarity, label, source.ContentPreview)
	}
	for _, commitment := range response.Commitments {
		fmt.Printf("  commitment: %s -> %s: %s (%s)\n",
			commitment.FromParty, commitment.ToParty, commitment.Description, commitment.Status)
	}
	return nil
}

func commitmentsCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	commitments, err := system.Repository().ListCommitments(context.Background(), c.String("status"))
	if err != nil {
		return err
	}

	if len(commitments) == 0 {
		fmt.Println("No commitments found.")
		return nil
	}
	for _, commitment := range commitments {
		due := commitment.DueDate
		if due == "" {
			due = "no due date"
		}
		fmt.Printf("[%s] %s -> %s: %s (%s)\n",
			commitment.Status, commitment.FromParty, commitment.ToParty,
			commitment.Description, due)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	system, err := openSystem(c)
	if err != nil {
		return err
	}
	defer system.Close()

	server, err := api.NewServer(system.Orchestrator(), system.Repository())
	if err != nil {
		return err
	}
	return server.Run(c.String("addr"))
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
