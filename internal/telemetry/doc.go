// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry records per-response usage into a local SQLite ledger.
//
// The ledger is strictly best-effort bookkeeping: a failure to open or write
// it is logged and swallowed, never surfaced into the chat loop. Totals
// aggregated across past runs back the usage summary.
package telemetry
