// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler.
//
// Handles "streamchat chat" (the default command): a REPL that streams
// completions, prints per-turn stats, and persists the conversation to the
// history store on exit.
//
// Interactive Commands (during chat):
//   <text>              Send a message
//   history             Browse stored conversations
//   search <keyword>    Search stored conversations
//   exit, quit, q       Exit and save the conversation
//   Ctrl+C              Cancel the in-flight response
//   Ctrl+D              Exit and save the conversation
package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jeranaias/streamchat/internal/chat"
	"github.com/jeranaias/streamchat/internal/config"
	"github.com/jeranaias/streamchat/internal/history"
	"github.com/jeranaias/streamchat/internal/provider"
	"github.com/jeranaias/streamchat/internal/telemetry"
)

// chatSession bundles everything one interactive run needs.
type chatSession struct {
	cfg     *config.Config
	session *chat.Session
	store   *history.Store
	ledger  *telemetry.Ledger // nil when the ledger could not be opened
	input   *ChatCLI
	quiet   bool
	start   time.Time

	// Cancel function for the in-flight stream, set only while a
	// completion is running.
	cancel context.CancelFunc
}

// newChatSession wires config, provider, history, and telemetry together.
func newChatSession(args Args) (*chatSession, error) {
	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}

	client := provider.NewClient(cfg.Endpoint, cfg.APIKey, cfg.Model)
	responder := chat.NewResponseClient(client, os.Stdout, chat.Options{
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxTokens:   cfg.MaxTokens,
	})

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		return nil, err
	}

	s := &chatSession{
		cfg:     cfg,
		session: chat.NewSession(responder, cfg.SystemPrompt),
		store:   history.NewStore(historyPath),
		input:   NewChatCLI(),
		quiet:   args.Quiet,
		start:   time.Now(),
	}

	// The ledger is best-effort bookkeeping; run without it on failure.
	if dbPath, err := cfg.UsageDBPath(); err == nil {
		if ledger, err := telemetry.Open(dbPath); err == nil {
			s.ledger = ledger
		} else {
			log.Printf("WARNING: usage ledger unavailable: %v", err)
		}
	}

	return s, nil
}

func (s *chatSession) close() {
	s.input.Close()
	if s.ledger != nil {
		s.ledger.Close()
	}
}

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) error {
	s, err := newChatSession(args)
	if err != nil {
		return err
	}
	defer s.close()

	if !s.quiet {
		s.printWelcome()
	}

	// First Ctrl+C cancels the in-flight response; at the prompt, liner
	// surfaces it as ErrPromptAborted instead.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := s.input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C or Ctrl+D at the prompt ends the session.
			fmt.Println()
			break
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if isExitCommand(input) {
			break
		}

		switch {
		case strings.EqualFold(input, "history"):
			browseHistory(s.store, s.input)

		case strings.HasPrefix(strings.ToLower(input), "search "):
			searchHistory(s.store, strings.TrimSpace(input[len("search"):]))

		default:
			if err := s.submit(input); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
				fmt.Fprintln(os.Stderr, infoStyle.Render("The conversation continues; try again."))
			}
		}
	}

	s.finish()
	return nil
}

func isExitCommand(input string) bool {
	return strings.EqualFold(input, "exit") ||
		strings.EqualFold(input, "quit") ||
		strings.EqualFold(input, "q")
}

// submit sends one user message and streams the reply to stdout.
func (s *chatSession) submit(text string) error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	defer func() {
		s.cancel = nil
		cancel()
	}()

	fmt.Println()
	record, err := s.session.Submit(ctx, text)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Already announced by the signal handler; partial text stays.
			return nil
		}
		return err
	}
	fmt.Println()
	fmt.Println()

	if s.ledger != nil {
		if err := s.ledger.Record(s.cfg.Model, record); err != nil {
			log.Printf("WARNING: failed to record usage: %v", err)
		}
	}

	if !s.quiet {
		printResponseStats(record, s.session.Stats())
	}
	return nil
}

// finish persists the conversation and prints the session summary.
func (s *chatSession) finish() {
	if err := s.store.Append(s.session.Conversation()); err != nil {
		// The in-memory conversation is still intact; just report it.
		fmt.Fprintf(os.Stderr, "%s failed to save history: %v\n",
			errorStyle.Render("[Error]"), err)
	}

	if !s.quiet {
		s.printSummary()
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

func (s *chatSession) printWelcome() {
	fmt.Println()
	fmt.Println(welcomeStyle.Render("streamchat"))
	fmt.Println(renderSeparator(30))
	fmt.Printf("%s %s\n", infoStyle.Render("Model:"), commandStyle.Render(s.cfg.Model))
	fmt.Printf("%s %s\n", infoStyle.Render("Endpoint:"), commandStyle.Render(s.cfg.Endpoint))
	fmt.Printf("%s %s\n", infoStyle.Render("History:"), commandStyle.Render(s.store.Path()))
	fmt.Println()
	fmt.Println(infoStyle.Render("Type a message and press Enter. Commands: history, search <kw>, exit"))
	fmt.Println()
}

// printResponseStats shows the per-turn accounting after each response.
func printResponseStats(record chat.ResponseRecord, totals chat.SessionStats) {
	fmt.Fprintf(os.Stderr, "%s %.2fs | %s tokens (%d prompt + %d completion) | %d chars\n",
		infoStyle.Render("[Stats]"),
		record.ElapsedSeconds,
		formatNumber(record.TotalTokens),
		record.PromptTokens,
		record.CompletionTokens,
		record.TotalChars)

	if record.CharRate > 0 {
		fmt.Fprintf(os.Stderr, "%s %.1f chars/s | %.1f tokens/s | %.2fs this session\n",
			infoStyle.Render("[Rate] "),
			record.CharRate,
			record.TokenRate,
			totals.ElapsedSeconds)
	}
	fmt.Fprintln(os.Stderr)
}

// printSummary shows the session totals on exit.
func (s *chatSession) printSummary() {
	stats := s.session.Stats()
	if stats.TotalTokens == 0 && !s.session.Conversation().HasUserContent() {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}

	elapsed := time.Since(s.start).Round(time.Second)

	fmt.Println()
	fmt.Println(summaryHeaderStyle.Render("Session Summary"))
	fmt.Println(renderSeparator(15))
	fmt.Printf("  %s %s (%d prompt + %d completion)\n",
		infoStyle.Render("Tokens:"),
		formatNumber(stats.TotalTokens),
		stats.PromptTokens,
		stats.CompletionTokens)
	fmt.Printf("  %s %.2fs streaming, %s wall clock\n",
		infoStyle.Render("Time:"),
		stats.ElapsedSeconds,
		elapsed)

	if s.ledger != nil {
		if totals, err := s.ledger.Totals(); err == nil && totals.Responses > 0 {
			fmt.Printf("  %s %s tokens over %d responses\n",
				infoStyle.Render("All time:"),
				formatNumber(totals.TotalTokens),
				totals.Responses)
		}
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
