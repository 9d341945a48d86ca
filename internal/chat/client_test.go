// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/streamchat/internal/model"
	"github.com/jeranaias/streamchat/internal/provider"
)

// fakeProvider scripts the provider boundary: a fixed fragment sequence for
// Stream and a fixed response for the usage probe.
type fakeProvider struct {
	chunks    []provider.StreamChunk
	streamErr error

	probeResp  *provider.ChatResponse
	probeErr   error
	probeCalls int
	probeReq   provider.ChatRequest
}

func (f *fakeProvider) Stream(ctx context.Context, req provider.ChatRequest, handler provider.StreamHandler) error {
	if f.streamErr != nil {
		return f.streamErr
	}
	for _, chunk := range f.chunks {
		handler(chunk)
	}
	return nil
}

func (f *fakeProvider) Complete(ctx context.Context, req provider.ChatRequest) (*provider.ChatResponse, error) {
	f.probeCalls++
	f.probeReq = req
	return f.probeResp, f.probeErr
}

func newTestClient(p completer) *ResponseClient {
	return &ResponseClient{
		provider: p,
		sink:     io.Discard,
		opts:     Options{}.withDefaults(),
	}
}

func testConversation() *model.Conversation {
	conv := model.NewConversation("You are a helpful assistant.")
	conv.Append(model.NewUserMessage("What should I see in Paris?"))
	return conv
}

func TestCompleteStreamUsageSkipsProbe(t *testing.T) {
	fake := &fakeProvider{
		chunks: []provider.StreamChunk{
			deltaChunk(t, "Visit "),
			deltaChunk(t, "the Louvre."),
			usageChunk(t, 25, 4, 29),
		},
	}

	record, err := newTestClient(fake).Complete(context.Background(), testConversation())
	require.NoError(t, err)

	assert.Equal(t, "Visit the Louvre.", record.Content)
	assert.Equal(t, 25, record.PromptTokens)
	assert.Equal(t, 4, record.CompletionTokens)
	assert.Equal(t, 29, record.TotalTokens)
	assert.Equal(t, 0, fake.probeCalls, "authoritative stream usage must not trigger the probe")
}

func TestCompleteProbeFallback(t *testing.T) {
	fake := &fakeProvider{
		chunks: []provider.StreamChunk{deltaChunk(t, "Visit the Louvre and Notre-Dame.")},
		probeResp: &provider.ChatResponse{
			Usage: &provider.Usage{PromptTokens: 50, TotalTokens: 50},
		},
	}

	conv := testConversation()
	record, err := newTestClient(fake).Complete(context.Background(), conv)
	require.NoError(t, err)
	require.Equal(t, 1, fake.probeCalls)

	// Probe prompt count is authoritative; completion stays the heuristic.
	assert.Equal(t, 50, record.PromptTokens)
	assert.Equal(t, EstimateTokens(record.Content), record.CompletionTokens)
	assert.Equal(t, record.PromptTokens+record.CompletionTokens, record.TotalTokens)

	// The probe request carries the assistant reply and asks for no output.
	require.NotEmpty(t, fake.probeReq.Messages)
	last := fake.probeReq.Messages[len(fake.probeReq.Messages)-1]
	assert.Equal(t, model.RoleAssistant, last.Role)
	assert.Equal(t, record.Content, last.Content)
	assert.Equal(t, 0, fake.probeReq.MaxTokens)
	assert.Len(t, fake.probeReq.Messages, conv.Len()+1)
}

func TestCompleteProbeFailureDegradesToEstimation(t *testing.T) {
	fake := &fakeProvider{
		chunks:   []provider.StreamChunk{deltaChunk(t, "Visit the Louvre.")},
		probeErr: errors.New("probe endpoint down"),
	}

	conv := testConversation()
	record, err := newTestClient(fake).Complete(context.Background(), conv)
	require.NoError(t, err, "probe failure must never fail the completed response")

	wantPrompt, wantCompletion := EstimateUsage(conv.Messages(), record.Content)
	assert.Equal(t, wantPrompt, record.PromptTokens)
	assert.Equal(t, wantCompletion, record.CompletionTokens)
	assert.Equal(t, wantPrompt+wantCompletion, record.TotalTokens)
}

func TestCompleteProbeWithoutUsageDegradesToEstimation(t *testing.T) {
	fake := &fakeProvider{
		chunks:    []provider.StreamChunk{deltaChunk(t, "Visit the Louvre.")},
		probeResp: &provider.ChatResponse{},
	}

	conv := testConversation()
	record, err := newTestClient(fake).Complete(context.Background(), conv)
	require.NoError(t, err)

	wantPrompt, wantCompletion := EstimateUsage(conv.Messages(), record.Content)
	assert.Equal(t, wantPrompt, record.PromptTokens)
	assert.Equal(t, wantCompletion, record.CompletionTokens)
}

func TestCompleteStreamFailureIsFatal(t *testing.T) {
	fake := &fakeProvider{streamErr: errors.New("connection reset")}

	_, err := newTestClient(fake).Complete(context.Background(), testConversation())
	require.Error(t, err)
	assert.Equal(t, 0, fake.probeCalls, "no fallback on a failed primary stream")
}

func TestCompleteSendsSamplingDefaults(t *testing.T) {
	var streamed provider.ChatRequest
	fake := &fakeProvider{
		chunks: []provider.StreamChunk{usageChunk(t, 1, 1, 2)},
	}
	client := newTestClient(&captureProvider{fakeProvider: fake, streamed: &streamed})

	_, err := client.Complete(context.Background(), testConversation())
	require.NoError(t, err)

	assert.Equal(t, DefaultTemperature, streamed.Temperature)
	assert.Equal(t, DefaultTopP, streamed.TopP)
	assert.Equal(t, DefaultMaxTokens, streamed.MaxTokens)
}

// captureProvider records the streaming request before delegating.
type captureProvider struct {
	*fakeProvider
	streamed *provider.ChatRequest
}

func (c *captureProvider) Stream(ctx context.Context, req provider.ChatRequest, handler provider.StreamHandler) error {
	*c.streamed = req
	return c.fakeProvider.Stream(ctx, req, handler)
}
