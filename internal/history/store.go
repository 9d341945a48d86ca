// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/streamchat/internal/model"
	"github.com/jeranaias/streamchat/internal/util"
)

// ErrEntryNotFound indicates a history entry index is out of range.
var ErrEntryNotFound = errors.New("history entry not found")

// filePerm keeps stored conversations readable by the owner only.
const filePerm = 0600

// =============================================================================
// ENTRY TYPES
// =============================================================================

// Turn is one (role, content) pair inside a persisted entry. Every message
// of the conversation is serialized, system messages included; display-time
// filtering is a presentation concern.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Entry is one persisted past conversation. Never mutated after creation.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Messages  []Turn `json:"messages"`
}

// Time parses the entry's timestamp. Returns the zero time for entries whose
// timestamp was hand-edited into something unparseable.
func (e *Entry) Time() time.Time {
	ts, err := time.Parse(time.RFC3339, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Match is one search hit: the entry's position in append order plus its
// timestamp for display.
type Match struct {
	Index     int
	Timestamp string
}

// =============================================================================
// STORE
// =============================================================================

// Store is the durable append-only log of past conversations.
// It exclusively owns the file at path; no concurrent writer is assumed.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore creates a store backed by the JSON array file at path.
// The file need not exist yet.
func NewStore(path string) *Store {
	return &Store{
		path: path,
		now:  time.Now,
	}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// List returns all entries in append order, oldest first.
// A missing or corrupt file yields an empty sequence, never an error.
func (s *Store) List() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt store reads as empty; the next append rewrites it whole.
		return nil
	}
	return entries
}

// Get returns the entry at the given position in append order.
// Out-of-range indexes return ErrEntryNotFound.
func (s *Store) Get(index int) (Entry, error) {
	entries := s.List()
	if index < 0 || index >= len(entries) {
		return Entry{}, fmt.Errorf("%w: index %d of %d", ErrEntryNotFound, index, len(entries))
	}
	return entries[index], nil
}

// Append persists a completed conversation as a new entry.
//
// A conversation holding only the seed system message is a no-op: nothing
// user-contributed exists to save. Otherwise every message is serialized in
// order, wrapped with the current timestamp, and the whole store is
// rewritten atomically.
func (s *Store) Append(conv *model.Conversation) error {
	if !conv.HasUserContent() {
		return nil
	}

	messages := conv.Messages()
	turns := make([]Turn, len(messages))
	for i, msg := range messages {
		turns[i] = Turn{Role: msg.Role.String(), Content: msg.Content}
	}

	entries := append(s.List(), Entry{
		ID:        uuid.NewString(),
		Timestamp: s.now().Format(time.RFC3339),
		Messages:  turns,
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}
	if err := util.AtomicWriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Search returns entries whose message content contains the keyword,
// case-insensitive, in append order. An entry matches at most once no
// matter how many of its messages match. The empty keyword matches every
// entry that has at least one message.
func (s *Store) Search(keyword string) []Match {
	needle := strings.ToLower(keyword)

	var matches []Match
	for i, entry := range s.List() {
		for _, turn := range entry.Messages {
			if strings.Contains(strings.ToLower(turn.Content), needle) {
				matches = append(matches, Match{Index: i, Timestamp: entry.Timestamp})
				break
			}
		}
	}
	return matches
}

// =============================================================================
// PAGINATION
// =============================================================================

// PageCount returns the number of pages needed to show total entries at
// pageSize per page. Zero for a non-positive page size.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Page slices one page (zero-based) out of the entries. Out-of-range pages
// return an empty slice. Pure presentation helper over List.
func Page(entries []Entry, page, pageSize int) []Entry {
	if pageSize <= 0 || page < 0 {
		return nil
	}
	start := page * pageSize
	if start >= len(entries) {
		return nil
	}
	end := start + pageSize
	if end > len(entries) {
		end = len(entries)
	}
	return entries[start:end]
}
