// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// args.go - Argument parsing for the streamchat CLI.
//
// Command: streamchat [command] [flags]
//
// Commands:
//   chat (default)      Interactive chat session
//   ask "question"      Single streamed completion
//   history [search]    Browse or search stored conversations
//   version             Print version
//   help                Print usage
//
// Flags:
//   -m, --model NAME         Override the configured model
//   --config PATH            Use an alternate config file
//   --history-file PATH      Use an alternate history file
//   --system PROMPT          Override the system prompt
//   -q, --quiet              Suppress stats and banners
package cli

import (
	"os"
	"strings"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdChat Command = iota
	CmdAsk
	CmdHistory
	CmdVersion
	CmdHelp
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model       string
	ConfigFile  string
	HistoryFile string
	System      string
	Quiet       bool

	// Command-specific
	Query   string // ask: the question
	Keyword string // history search: the keyword

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `streamchat - streaming LLM chat for the terminal

Usage:
  streamchat                     Start an interactive chat session
  streamchat chat                Same as above
  streamchat ask "question"      Ask a single question and exit
  streamchat history             Browse stored conversations
  streamchat history search KW   Search stored conversations
  streamchat version             Print version
  streamchat help                Print this help

Flags:
  -m, --model NAME       Override the configured model
  --config PATH          Use an alternate config file
  --history-file PATH    Use an alternate history file
  --system PROMPT        Override the system prompt
  -q, --quiet            Suppress stats and banners

Configuration:
  ~/.streamchat/config.toml, overridden by STREAMCHAT_ENDPOINT,
  STREAMCHAT_API_KEY, STREAMCHAT_MODEL, STREAMCHAT_HISTORY_FILE.
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(argv []string) (Command, Args) {
	var args Args
	remaining := parseGlobalFlags(argv, &args)

	if len(remaining) == 0 {
		return CmdChat, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "chat":
		return CmdChat, args

	case "ask":
		args.Query = strings.TrimSpace(strings.Join(remaining, " "))
		return CmdAsk, args

	case "history":
		if len(remaining) > 0 && strings.EqualFold(remaining[0], "search") {
			args.Keyword = strings.Join(remaining[1:], " ")
		}
		return CmdHistory, args

	case "version", "--version", "-v":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Unknown word: treat it as an ask query for convenience.
		args.Query = strings.TrimSpace(cmd + " " + strings.Join(remaining, " "))
		return CmdAsk, args
	}
}

// parseGlobalFlags extracts global flags, returning the remaining arguments.
func parseGlobalFlags(argv []string, args *Args) []string {
	var remaining []string

	i := 0
	for i < len(argv) {
		arg := argv[i]

		takesValue := func() (string, bool) {
			if eq := strings.IndexByte(arg, '='); eq >= 0 {
				return arg[eq+1:], true
			}
			if i+1 < len(argv) {
				i++
				return argv[i], true
			}
			return "", false
		}

		switch {
		case arg == "-q" || arg == "--quiet":
			args.Quiet = true
		case arg == "-m" || arg == "--model" || strings.HasPrefix(arg, "--model="):
			if v, ok := takesValue(); ok {
				args.Model = v
			}
		case arg == "--config" || strings.HasPrefix(arg, "--config="):
			if v, ok := takesValue(); ok {
				args.ConfigFile = v
			}
		case arg == "--history-file" || strings.HasPrefix(arg, "--history-file="):
			if v, ok := takesValue(); ok {
				args.HistoryFile = v
			}
		case arg == "--system" || strings.HasPrefix(arg, "--system="):
			if v, ok := takesValue(); ok {
				args.System = v
			}
		default:
			remaining = append(remaining, arg)
		}
		i++
	}

	return remaining
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	os.Stdout.WriteString(usageText)
}
