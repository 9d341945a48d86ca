// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question handler.
//
// Handles "streamchat ask <question>": a single streamed completion without
// entering the REPL. The exchange is not persisted to the history store;
// only interactive sessions are.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/jeranaias/streamchat/internal/chat"
	"github.com/jeranaias/streamchat/internal/provider"
	"github.com/jeranaias/streamchat/internal/telemetry"
)

// HandleAsk performs a single streamed completion and exits.
func HandleAsk(args Args) error {
	if args.Query == "" {
		return errors.New("usage: streamchat ask \"your question\"")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	client := provider.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Model)
	responder := chat.NewResponseClient(client, os.Stdout, chat.Options{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	})
	session := chat.NewSession(responder, cfg.SystemPrompt)

	// Ctrl+C aborts the stream; partial text stays on screen.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	record, err := session.Submit(ctx, args.Query)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			return nil
		}
		return err
	}
	fmt.Println()

	if dbPath, err := cfg.UsageDBPath(); err == nil {
		if ledger, err := telemetry.Open(dbPath); err == nil {
			if err := ledger.Record(cfg.Model, record); err != nil {
				log.Printf("WARNING: failed to record usage: %v", err)
			}
			ledger.Close()
		}
	}

	if !args.Quiet {
		printResponseStats(record, session.Stats())
	}
	return nil
}
