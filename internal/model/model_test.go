// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("tool"), "tool"},
	}

	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestConversationSeed(t *testing.T) {
	conv := NewConversation("You are a helpful assistant.")

	if conv.Len() != 1 {
		t.Fatalf("expected 1 seed message, got %d", conv.Len())
	}
	if conv.HasUserContent() {
		t.Error("seed-only conversation must not report user content")
	}

	msgs := conv.Messages()
	if msgs[0].Role != RoleSystem {
		t.Errorf("seed role = %q, want system", msgs[0].Role)
	}
	if msgs[0].Content != "You are a helpful assistant." {
		t.Errorf("seed content = %q", msgs[0].Content)
	}
}

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation("sys")
	conv.Append(NewUserMessage("Paris?"))
	conv.Append(NewAssistantMessage("Visit the Louvre."))

	msgs := conv.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}

	wantRoles := []Role{RoleSystem, RoleUser, RoleAssistant}
	for i, r := range wantRoles {
		if msgs[i].Role != r {
			t.Errorf("message %d role = %q, want %q", i, msgs[i].Role, r)
		}
	}
	if !conv.HasUserContent() {
		t.Error("conversation with user message must report user content")
	}
}

func TestConversationMessagesSnapshot(t *testing.T) {
	conv := NewConversation("sys")
	snap := conv.Messages()
	conv.Append(NewUserMessage("hi"))

	if len(snap) != 1 {
		t.Errorf("snapshot grew after append: len=%d", len(snap))
	}
}
