// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Standalone history command handler.
//
// Handles "streamchat history [search <keyword>]". Browsing stored
// conversations needs no provider connection, so configuration is loaded
// without requiring endpoint or credentials.
package cli

import (
	"github.com/jeranaias/streamchat/internal/config"
	"github.com/jeranaias/streamchat/internal/history"
)

// HandleHistory browses or searches the stored conversations.
func HandleHistory(args Args) error {
	var cfg *config.Config
	var err error
	if args.ConfigFile != "" {
		cfg, err = config.LoadUncheckedFrom(args.ConfigFile)
	} else {
		cfg, err = config.LoadUnchecked()
	}
	if err != nil {
		return err
	}
	if args.HistoryFile != "" {
		cfg.HistoryFile = args.HistoryFile
	}

	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	store := history.NewStore(path)

	if args.Keyword != "" || (len(args.Raw) > 0 && args.Raw[0] == "search") {
		searchHistory(store, args.Keyword)
		return nil
	}

	input := NewChatCLI()
	defer input.Close()
	browseHistory(store, input)
	return nil
}
