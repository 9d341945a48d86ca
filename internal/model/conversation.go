// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an ordered sequence of messages, seeded with exactly one
// system message at position zero.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation seeded with the given system prompt.
func NewConversation(systemPrompt string) *Conversation {
	return &Conversation{
		messages: []Message{NewSystemMessage(systemPrompt)},
	}
}

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the message sequence in order.
// Callers get a snapshot; the conversation's own slice is never exposed.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of messages including the seed system message.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// HasUserContent reports whether anything beyond the seed system message has
// been added. The history store uses this to skip persisting empty runs.
func (c *Conversation) HasUserContent() bool {
	return len(c.messages) > 1
}
