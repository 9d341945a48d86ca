// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the streaming-response accumulation and
// usage-accounting pipeline.
//
// # Key Types
//
//   - Accumulator: assembles streamed fragments into a ResponseRecord while
//     forwarding deltas to a display sink
//   - ResponseRecord: one completed response with token and throughput stats
//   - ResponseClient: orchestrates the stream plus the usage fallback chain
//   - Session: ordered conversation state and running totals for one run
//
// # Usage Accounting
//
// Token counts resolve through an ordered chain of three tiers:
//
//  1. Usage block on the final stream fragment (authoritative).
//  2. Non-streaming usage probe: the conversation plus the just-produced
//     assistant reply is resubmitted with max_tokens 0, purely to read back
//     the provider's prompt accounting. Completion tokens are still the
//     character heuristic.
//  3. Pure estimation: len/4 over the serialized conversation and the
//     response content.
//
// Tiers 2 and 3 are best-effort and never fail a completed response; only a
// failure of the primary stream itself is surfaced to the caller.
package chat
