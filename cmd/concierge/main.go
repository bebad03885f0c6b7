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
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/poiesic/concierge"
	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/respond"
	"github.com/poiesic/concierge/session"
	sessionredis "github.com/poiesic/concierge/session/redis"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "concierge",
		Usage: "Conversational local-business discovery assistant",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ask",
				Usage:     "Answer a single query and exit",
				Action:    askCommand,
				ArgsUsage: "<query>",
				Flags:     assistantFlags(),
			},
			{
				Name:   "repl",
				Usage:  "Interactive conversation loop on stdin",
				Action: replCommand,
				Flags:  assistantFlags(),
			},
			{
				Name:   "embed",
				Usage:  "Embed pending knowledge snippets for a city",
				Action: embedCommand,
				Flags:  assistantFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// assistantFlags are shared by every command that opens the assistant.
func assistantFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "./concierge_db",
		},
		&cli.StringFlag{
			Name:     "city",
			Aliases:  []string{"c"},
			Usage:    "City the assistant serves",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL for both embedding and completion",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL (defaults to --host)",
		},
		&cli.StringFlag{
			Name:  "completion-host",
			Usage: "Completion service host URL (defaults to --host)",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "cheap-model",
			Usage: "Model for simple turns",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "capable-model",
			Usage: "Model for complex turns",
			Value: "qwen2.5:14b",
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the model hosts",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.StringFlag{
			Name:  "redis",
			Usage: "Redis address for shared session state (e.g. localhost:6379); empty uses in-process sessions",
		},
		&cli.StringFlag{
			Name:  "session",
			Usage: "Session identifier to continue; empty starts a new session",
		},
	}
}

func openAssistant(c *cli.Context) (*concierge.Assistant, error) {
	embeddingHost := c.String("embedding-host")
	if embeddingHost == "" {
		embeddingHost = c.String("host")
	}
	completionHost := c.String("completion-host")
	if completionHost == "" {
		completionHost = c.String("host")
	}

	aiConfig := ai.NewConfig(
		ai.WithEmbeddingHost(embeddingHost),
		ai.WithCompletionHost(completionHost),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithCheapModel(c.String("cheap-model")),
		ai.WithCapableModel(c.String("capable-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []concierge.Option{concierge.WithAIConfig(aiConfig)}
	if addr := c.String("redis"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		opts = append(opts, concierge.WithSessionStore(sessionredis.NewStore(client)))
	}

	return concierge.Open(c.String("db"), opts...)
}

func askCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("usage: concierge ask --city <city> <query>")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	sessionID := c.String("session")
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	response, err := assistant.Answer(context.Background(), sessionID, c.String("city"), nil, query)
	if err != nil {
		return err
	}

	printResponse(response)
	return nil
}

func replCommand(c *cli.Context) error {
	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	sessionID := c.String("session")
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}
	city := c.String("city")

	fmt.Printf("concierge for %s (session %s). Blank line to quit.\n", city, sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}

		response, err := assistant.Answer(context.Background(), sessionID, city, nil, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		printResponse(response)
	}
	return scanner.Err()
}

func embedCommand(c *cli.Context) error {
	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	pipeline, err := assistant.NewKnowledgePipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	count, err := pipeline.EmbedCity(context.Background(), c.String("city"))
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Embedded %d snippets for %s\n", count, c.String("city"))
	return nil
}

func printResponse(response *respond.TurnResponse) {
	fmt.Println(response.Text)

	for _, card := range response.Cards {
		fmt.Printf("  [%s] %s (%.1f stars, %d reviews)", card.Name, card.Category, card.Rating, card.ReviewCount)
		if card.Reason.Label != "" {
			fmt.Printf(" %s", card.Reason.Label)
		}
		fmt.Println()
	}

	for _, action := range response.OfferActions {
		fmt.Printf("  offer: %s at %s (%s)\n", action.Title, action.BusinessName, action.Discount)
	}
	for _, event := range response.EventCards {
		fmt.Printf("  event: %s at %s, %s\n", event.Title, event.Venue, event.Starts.Format("Mon Jan 2 15:04"))
	}

	if response.UIMode == respond.UIModeMap && len(response.MapPins) > 0 {
		fmt.Printf("  %d pins on the map\n", len(response.MapPins))
	}
}

func setup(c *cli.Context) error {
	// .env carries local model hosts and keys; missing file is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

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
