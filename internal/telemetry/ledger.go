// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/streamchat/internal/chat"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp         TEXT NOT NULL,
	model             TEXT NOT NULL,
	prompt_tokens     INTEGER NOT NULL,
	completion_tokens INTEGER NOT NULL,
	total_tokens      INTEGER NOT NULL,
	total_chars       INTEGER NOT NULL,
	elapsed_seconds   REAL NOT NULL,
	char_rate         REAL NOT NULL,
	token_rate        REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_responses_timestamp ON responses(timestamp);
`

// Totals is the aggregate usage across every recorded response.
type Totals struct {
	Responses        int
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	ElapsedSeconds   float64
}

// Ledger is the append-only usage database.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Ledger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// SQLite supports one writer at a time; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure ledger: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends one completed response to the ledger.
func (l *Ledger) Record(model string, record chat.ResponseRecord) error {
	_, err := l.db.Exec(
		`INSERT INTO responses
			(timestamp, model, prompt_tokens, completion_tokens, total_tokens,
			 total_chars, elapsed_seconds, char_rate, token_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Format(time.RFC3339),
		model,
		record.PromptTokens,
		record.CompletionTokens,
		record.TotalTokens,
		record.TotalChars,
		record.ElapsedSeconds,
		record.CharRate,
		record.TokenRate,
	)
	if err != nil {
		return fmt.Errorf("failed to record usage: %w", err)
	}
	return nil
}

// Totals aggregates usage across every recorded response.
func (l *Ledger) Totals() (Totals, error) {
	var t Totals
	err := l.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(prompt_tokens), 0),
		        COALESCE(SUM(completion_tokens), 0),
		        COALESCE(SUM(total_tokens), 0),
		        COALESCE(SUM(elapsed_seconds), 0)
		 FROM responses`,
	).Scan(&t.Responses, &t.PromptTokens, &t.CompletionTokens, &t.TotalTokens, &t.ElapsedSeconds)
	if err != nil {
		return Totals{}, fmt.Errorf("failed to aggregate usage: %w", err)
	}
	return t, nil
}
