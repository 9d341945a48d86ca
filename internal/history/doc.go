// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists completed conversations to a local append-only
// store.
//
// # Storage Format
//
// The store is a single pretty-printed JSON array of entries, UTF-8,
// human-inspectable. The whole array is read and rewritten on every append;
// there is no incremental append format. Rewrites go through an atomic
// temp-file-and-rename so the file is always a syntactically valid array,
// even across a crash. A missing or corrupt file reads as an empty store,
// never as an error.
//
// Single-process use is assumed. The read-modify-write append takes no file
// lock; concurrent writers would lose entries.
package history
