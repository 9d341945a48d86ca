// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/jeranaias/streamchat/internal/config"
	"github.com/jeranaias/streamchat/internal/model"
	"github.com/jeranaias/streamchat/internal/provider"
)

// Default sampling parameters for completion requests, shared with the
// configuration layer.
const (
	DefaultTemperature = config.DefaultTemperature
	DefaultTopP        = config.DefaultTopP
	DefaultMaxTokens   = config.DefaultMaxTokens
)

// Options controls sampling for completion requests.
// Zero-valued fields take the package defaults.
type Options struct {
	Temperature float64
	TopP        float64
	MaxTokens   int
}

func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = DefaultTemperature
	}
	if o.TopP == 0 {
		o.TopP = DefaultTopP
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	return o
}

// completer is the provider surface ResponseClient depends on.
// *provider.Client satisfies it; tests substitute scripted fakes.
type completer interface {
	Complete(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error)
	Stream(ctx context.Context, req provider.ChatRequest, handler provider.StreamHandler) error
}

// =============================================================================
// RESPONSE CLIENT
// =============================================================================

// ResponseClient turns a conversation into a completed ResponseRecord.
//
// The primary call streams; fragments flow through an Accumulator to the
// display sink. When the stream never reported usage, the client walks the
// fallback chain described in the package documentation.
type ResponseClient struct {
	provider completer
	sink     io.Writer
	opts     Options
}

// NewResponseClient creates a client streaming display output to sink.
func NewResponseClient(p *provider.Client, sink io.Writer, opts Options) *ResponseClient {
	return &ResponseClient{
		provider: p,
		sink:     sink,
		opts:     opts.withDefaults(),
	}
}

// Complete performs one streamed completion over the conversation.
//
// A stream failure is fatal for the call and propagates; there is no silent
// downgrade to a non-streaming response. Partial text already flushed to the
// sink is not rolled back.
func (c *ResponseClient) Complete(ctx context.Context, conv *model.Conversation) (ResponseRecord, error) {
	acc := NewAccumulator(c.sink)

	req := provider.ChatRequest{
		Messages:    conv.Messages(),
		Temperature: c.opts.Temperature,
		TopP:        c.opts.TopP,
		MaxTokens:   c.opts.MaxTokens,
	}
	if err := c.provider.Stream(ctx, req, acc.Add); err != nil {
		return ResponseRecord{}, fmt.Errorf("streaming completion failed: %w", err)
	}

	record := acc.Finalize()
	if record.TotalTokens == 0 {
		c.resolveUsage(ctx, conv, &record)
	}
	return record, nil
}

// resolveUsage fills in token counts when the stream omitted them: probe
// first, pure estimation when the probe yields nothing. Never fails.
func (c *ResponseClient) resolveUsage(ctx context.Context, conv *model.Conversation, record *ResponseRecord) {
	if usage, ok := c.probeUsage(ctx, conv, record.Content); ok {
		// Probe prompt accounting is authoritative; the provider counted the
		// assistant reply as prompt context, so completion stays estimated.
		record.PromptTokens = usage.PromptTokens
		record.CompletionTokens = EstimateTokens(record.Content)
	} else {
		record.PromptTokens, record.CompletionTokens = EstimateUsage(conv.Messages(), record.Content)
	}

	record.TotalTokens = record.PromptTokens + record.CompletionTokens
	if record.ElapsedSeconds > 0 {
		record.TokenRate = float64(record.CompletionTokens) / record.ElapsedSeconds
	}
}

// probeUsage issues the non-streaming usage probe: the conversation with the
// just-produced assistant reply appended and max_tokens 0, sent purely to
// read back prompt accounting. Best-effort; failure degrades to estimation.
func (c *ResponseClient) probeUsage(ctx context.Context, conv *model.Conversation, content string) (*provider.Usage, bool) {
	messages := append(conv.Messages(), model.NewAssistantMessage(content))

	resp, err := c.provider.Complete(ctx, provider.ChatRequest{
		Messages:  messages,
		MaxTokens: 0,
	})
	if err != nil {
		log.Printf("WARNING: usage probe failed, falling back to estimation: %v", err)
		return nil, false
	}
	if resp.Usage == nil || resp.Usage.PromptTokens == 0 {
		return nil, false
	}
	return resp.Usage, true
}
