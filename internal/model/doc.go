// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Role: sender of a message (system, user, assistant)
//   - Message: a single immutable (role, content) pair
//   - Conversation: ordered message sequence seeded with a system message
//
// A Conversation is owned by exactly one chat session for the lifetime of a
// run; nothing outside the session mutates it.
package model
