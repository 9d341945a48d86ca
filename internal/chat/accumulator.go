// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"io"
	"strings"
	"time"

	"github.com/jeranaias/streamchat/internal/provider"
)

// =============================================================================
// RESPONSE RECORD
// =============================================================================

// ResponseRecord is one completed response with its accounting.
//
// Invariants: TotalTokens == PromptTokens + CompletionTokens whenever both
// are known; TokenRate is non-zero only when ElapsedSeconds > 0 and
// CompletionTokens is known.
type ResponseRecord struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	TotalChars       int
	ElapsedSeconds   float64
	CharRate         float64
	TokenRate        float64
}

// =============================================================================
// STREAM ACCUMULATOR
// =============================================================================

// Accumulator consumes streamed fragments, forwards content deltas to a
// display sink as they arrive, and assembles the final ResponseRecord.
//
// The clock starts at construction: create the accumulator immediately
// before opening the stream so elapsed time covers the full request.
type Accumulator struct {
	sink    io.Writer
	content strings.Builder
	chars   int
	usage   *provider.Usage
	start   time.Time
	now     func() time.Time
}

// NewAccumulator creates an accumulator writing deltas to sink.
// A nil sink discards display output.
func NewAccumulator(sink io.Writer) *Accumulator {
	return &Accumulator{
		sink:  sink,
		start: time.Now(),
		now:   time.Now,
	}
}

// Add consumes one streamed fragment. Non-empty content is appended to the
// buffer and flushed to the sink immediately; a usage block, when present,
// is adopted verbatim. Matches provider.StreamHandler.
func (a *Accumulator) Add(chunk provider.StreamChunk) {
	if content := chunk.GetContent(); content != "" {
		a.content.WriteString(content)
		a.chars += len(content)
		if a.sink != nil {
			// Display is best-effort; a sink failure must not abort the pull.
			io.WriteString(a.sink, content)
		}
	}
	if chunk.HasUsage() {
		a.usage = chunk.Usage
	}
}

// Finalize computes the completed record after the stream is exhausted.
// Rates are guarded against zero elapsed time. When no usage block was ever
// observed, TotalTokens stays 0 - the caller's signal to run the fallback
// chain.
func (a *Accumulator) Finalize() ResponseRecord {
	elapsed := a.now().Sub(a.start).Seconds()

	record := ResponseRecord{
		Content:        a.content.String(),
		TotalChars:     a.chars,
		ElapsedSeconds: elapsed,
	}
	if elapsed > 0 {
		record.CharRate = float64(a.chars) / elapsed
	}
	if a.usage != nil {
		record.PromptTokens = a.usage.PromptTokens
		record.CompletionTokens = a.usage.CompletionTokens
		record.TotalTokens = a.usage.TotalTokens
		if elapsed > 0 {
			record.TokenRate = float64(a.usage.CompletionTokens) / elapsed
		}
	}
	return record
}
