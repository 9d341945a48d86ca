// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jeranaias/streamchat/internal/model"
)

func testMessages() []model.Message {
	return []model.Message{
		model.NewSystemMessage("You are a helpful assistant."),
		model.NewUserMessage("hello"),
	}
}

func TestCompleteParsesUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"model": "test-model",
			"choices": [{
				"message": {"role": "assistant", "content": "hi there"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")

	resp, err := client.Complete(context.Background(), ChatRequest{Messages: testMessages()})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.GetContent() != "hi there" {
		t.Errorf("content = %q", resp.GetContent())
	}
	if resp.Usage == nil {
		t.Fatal("expected usage block")
	}
	if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 3 || resp.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestCompleteMissingUsageIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"id": "cmpl-2",
			"choices": [{"message": {"role": "assistant", "content": "x"}, "finish_reason": "stop"}]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")
	resp, err := client.Complete(context.Background(), ChatRequest{Messages: testMessages()})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Usage != nil {
		t.Errorf("expected nil usage when provider omits it, got %+v", resp.Usage)
	}
}

// TestCompleteSerializesZeroMaxTokens verifies that max_tokens is always
// present in the request body. The usage probe depends on an explicit
// max_tokens of 0; omitempty would silently drop it.
func TestCompleteSerializesZeroMaxTokens(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"id":"p","choices":[],"usage":{"prompt_tokens":9,"completion_tokens":0,"total_tokens":9}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")
	_, err := client.Complete(context.Background(), ChatRequest{Messages: testMessages(), MaxTokens: 0})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	v, ok := received["max_tokens"]
	if !ok {
		t.Fatal("max_tokens missing from request body")
	}
	if n, ok := v.(float64); !ok || n != 0 {
		t.Errorf("max_tokens = %v, want 0", v)
	}
	if s, ok := received["stream"].(bool); !ok || s {
		t.Errorf("stream = %v, want false", received["stream"])
	}
}

func TestCompleteErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusUnauthorized, `{"error":{"code":"bad_key","message":"invalid key"}}`, ErrAuthFailed},
		{http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, ErrRateLimited},
		{http.StatusNotFound, `{"error":{"message":"no such model"}}`, ErrModelNotFound},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(tt.body))
		}))

		client := NewClient(server.URL, "test-key", "test-model")
		_, err := client.Complete(context.Background(), ChatRequest{Messages: testMessages()})
		if !errors.Is(err, tt.want) {
			t.Errorf("status %d: error = %v, want %v", tt.status, err, tt.want)
		}
		server.Close()
	}
}

func TestCompleteUnparseableError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")
	_, err := client.Complete(context.Background(), ChatRequest{Messages: testMessages()})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("", "", "model")
	if _, err := client.Complete(context.Background(), ChatRequest{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
	if err := client.Stream(context.Background(), ChatRequest{}, func(StreamChunk) {}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}
}
