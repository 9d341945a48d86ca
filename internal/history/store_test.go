// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/streamchat/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.json"))
}

func parisConversation() *model.Conversation {
	conv := model.NewConversation("You are a helpful assistant.")
	conv.Append(model.NewUserMessage("Paris?"))
	conv.Append(model.NewAssistantMessage("Visit the Louvre."))
	return conv
}

func TestAppendRoundTrip(t *testing.T) {
	store := newTestStore(t)
	conv := parisConversation()

	require.NoError(t, store.Append(conv))

	entries := store.List()
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.NotEmpty(t, entry.Timestamp)
	assert.False(t, entry.Time().IsZero(), "timestamp must parse back")

	// Serialization keeps every message in order, system included.
	messages := conv.Messages()
	require.Len(t, entry.Messages, len(messages))
	for i, msg := range messages {
		assert.Equal(t, msg.Role.String(), entry.Messages[i].Role)
		assert.Equal(t, msg.Content, entry.Messages[i].Content)
	}
}

func TestAppendSeedOnlyIsNoOp(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(parisConversation()))
	require.NoError(t, store.Append(parisConversation()))
	require.Len(t, store.List(), 2)

	seedOnly := model.NewConversation("You are a helpful assistant.")
	require.NoError(t, store.Append(seedOnly))

	assert.Len(t, store.List(), 2, "seed-only conversation must not be persisted")
}

func TestListMissingFileIsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "never-created.json"))
	assert.Empty(t, store.List())
}

func TestListCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json"), 0600))

	store := NewStore(path)
	assert.Empty(t, store.List(), "corrupt store reads as empty, never an error")

	// The next append rewrites the file into a valid array.
	require.NoError(t, store.Append(parisConversation()))
	require.Len(t, store.List(), 1)
}

func TestStoreFileIsValidJSONArray(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(parisConversation()))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw), "file must always be a JSON array")
}

func TestGet(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Append(parisConversation()))

	entry, err := store.Get(0)
	require.NoError(t, err)
	assert.Len(t, entry.Messages, 3)

	_, err = store.Get(1)
	assert.ErrorIs(t, err, ErrEntryNotFound)
	_, err = store.Get(-1)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSearch(t *testing.T) {
	store := newTestStore(t)

	first := model.NewConversation("system")
	first.Append(model.NewUserMessage("Tell me about the Louvre"))
	first.Append(model.NewAssistantMessage("The Louvre is in Paris."))
	require.NoError(t, store.Append(first))

	second := model.NewConversation("system")
	second.Append(model.NewUserMessage("Weather in Tokyo?"))
	second.Append(model.NewAssistantMessage("Mild and rainy."))
	require.NoError(t, store.Append(second))

	// Case-insensitive, one match per entry no matter how many messages hit.
	matches := store.Search("LOUVRE")
	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Index)
	assert.NotEmpty(t, matches[0].Timestamp)

	// Empty keyword matches every entry with at least one message.
	assert.Len(t, store.Search(""), 2)

	assert.Empty(t, store.Search("zzz_no_match"))
}

func TestSearchPreservesAppendOrder(t *testing.T) {
	store := newTestStore(t)
	for _, topic := range []string{"alpha shared", "beta only", "gamma shared"} {
		conv := model.NewConversation("system")
		conv.Append(model.NewUserMessage(topic))
		require.NoError(t, store.Append(conv))
	}

	matches := store.Search("shared")
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Index)
	assert.Equal(t, 2, matches[1].Index)
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 0, PageCount(0, 5))
	assert.Equal(t, 1, PageCount(5, 5))
	assert.Equal(t, 2, PageCount(6, 5))
	assert.Equal(t, 0, PageCount(10, 0))

	entries := make([]Entry, 7)
	assert.Len(t, Page(entries, 0, 5), 5)
	assert.Len(t, Page(entries, 1, 5), 2)
	assert.Empty(t, Page(entries, 2, 5))
	assert.Empty(t, Page(entries, -1, 5))
}
