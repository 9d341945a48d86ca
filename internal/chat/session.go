// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/jeranaias/streamchat/internal/model"
)

// SessionStats holds running totals across every completed response of one
// run. Monotonically non-decreasing; reset only at process start.
type SessionStats struct {
	ElapsedSeconds   float64
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Session owns the ordered message sequence for one interactive run.
//
// Single-threaded by design: one conversation, one outstanding completion at
// a time. The stats are exclusively owned and mutated here, never shared as
// process-wide state.
type Session struct {
	conv   *model.Conversation
	client *ResponseClient
	stats  SessionStats
}

// NewSession creates a session seeded with the system prompt.
func NewSession(client *ResponseClient, systemPrompt string) *Session {
	return &Session{
		conv:   model.NewConversation(systemPrompt),
		client: client,
	}
}

// Submit appends the user's text, runs a completion, appends the assistant
// reply, and folds the record into the running totals.
//
// On failure the user message stays in the conversation; a retry is a fresh
// submission, not a replay.
func (s *Session) Submit(ctx context.Context, text string) (ResponseRecord, error) {
	s.conv.Append(model.NewUserMessage(text))

	record, err := s.client.Complete(ctx, s.conv)
	if err != nil {
		return ResponseRecord{}, err
	}

	s.conv.Append(model.NewAssistantMessage(record.Content))
	s.stats.ElapsedSeconds += record.ElapsedSeconds
	s.stats.PromptTokens += record.PromptTokens
	s.stats.CompletionTokens += record.CompletionTokens
	s.stats.TotalTokens += record.TotalTokens
	return record, nil
}

// Stats returns the running totals. Read-only; safe to call at any time.
func (s *Session) Stats() SessionStats {
	return s.stats
}

// Conversation exposes the session's message sequence for persistence and
// display.
func (s *Session) Conversation() *model.Conversation {
	return s.conv
}
