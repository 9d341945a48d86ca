// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the streamchat command-line surface: argument
// parsing, the interactive chat REPL, the one-shot ask command, and the
// history browser.
//
// # Commands
//
//   - chat (default): interactive REPL with input history, streamed
//     responses, per-turn stats, and in-session history browsing
//   - ask: single streamed completion without entering the REPL
//   - history: browse or search stored conversations
//
// Output styling is TTY-aware: colors are dropped for piped output and the
// NO_COLOR convention is respected.
package cli
