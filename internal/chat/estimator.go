// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"encoding/json"

	"github.com/jeranaias/streamchat/internal/model"
)

// charsPerToken is the character-to-token heuristic divisor. Roughly four
// characters of English text per token; the exact value is a behavioral
// contract, not a tunable.
const charsPerToken = 4

// EstimateTokens estimates the token count of a piece of text.
// Never fails; returns 0 for empty input.
func EstimateTokens(text string) int {
	return len(text) / charsPerToken
}

// SerializeConversation returns the flat textual form of a conversation used
// for prompt-size estimation.
func SerializeConversation(messages []model.Message) string {
	data, err := json.Marshal(messages)
	if err != nil {
		return ""
	}
	return string(data)
}

// EstimateUsage estimates prompt and completion token counts when no
// authoritative accounting is available anywhere. Both values are
// best-effort and non-negative.
func EstimateUsage(messages []model.Message, responseContent string) (promptTokens, completionTokens int) {
	promptTokens = EstimateTokens(SerializeConversation(messages))
	completionTokens = EstimateTokens(responseContent)
	return promptTokens, completionTokens
}
