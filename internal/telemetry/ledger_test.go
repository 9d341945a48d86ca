// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"path/filepath"
	"testing"

	"github.com/jeranaias/streamchat/internal/chat"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	ledger, err := Open(filepath.Join(t.TempDir(), "usage.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ledger.Close() })
	return ledger
}

func TestLedgerRecordAndTotals(t *testing.T) {
	ledger := openTestLedger(t)

	records := []chat.ResponseRecord{
		{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15, TotalChars: 20, ElapsedSeconds: 1.5},
		{PromptTokens: 30, CompletionTokens: 10, TotalTokens: 40, TotalChars: 42, ElapsedSeconds: 2.5},
	}
	for _, r := range records {
		if err := ledger.Record("test-model", r); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	totals, err := ledger.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Responses != 2 {
		t.Errorf("responses = %d", totals.Responses)
	}
	if totals.PromptTokens != 40 || totals.CompletionTokens != 15 || totals.TotalTokens != 55 {
		t.Errorf("token totals = %d/%d/%d", totals.PromptTokens, totals.CompletionTokens, totals.TotalTokens)
	}
	if totals.ElapsedSeconds != 4.0 {
		t.Errorf("elapsed = %v", totals.ElapsedSeconds)
	}
}

func TestLedgerEmptyTotals(t *testing.T) {
	ledger := openTestLedger(t)

	totals, err := ledger.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals != (Totals{}) {
		t.Errorf("empty ledger totals = %+v", totals)
	}
}

func TestLedgerReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")

	ledger, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := ledger.Record("m", chat.ResponseRecord{TotalTokens: 7}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	ledger.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	totals, err := reopened.Totals()
	if err != nil {
		t.Fatalf("Totals failed: %v", err)
	}
	if totals.Responses != 1 || totals.TotalTokens != 7 {
		t.Errorf("totals after reopen = %+v", totals)
	}
}
