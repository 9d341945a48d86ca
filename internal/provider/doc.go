// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider implements the client for an OpenAI-compatible
// chat-completions endpoint.
//
// # Key Types
//
//   - Client: HTTP client for the completions API
//   - ChatRequest: request structure for chat completions
//   - ChatResponse: non-streaming response with optional usage block
//   - StreamChunk: one streamed fragment, carrying a content delta and/or
//     the terminal usage counts
//   - SSEReader: Server-Sent Events parser for streaming responses
//
// # Usage
//
// Create a client and stream a completion:
//
//	client := provider.NewClient(endpoint, apiKey, model)
//	err := client.Stream(ctx, req, func(chunk provider.StreamChunk) {
//	    fmt.Print(chunk.GetContent())
//	})
//
// The streaming convention is provider-specific: the final chunk may carry a
// usage block. Callers that need authoritative token accounting when it is
// absent issue a second non-streaming Complete call.
package provider
