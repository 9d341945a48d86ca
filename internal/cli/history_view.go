// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_view.go - Paged browsing and search over stored conversations.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jeranaias/streamchat/internal/history"
	"github.com/jeranaias/streamchat/internal/model"
	"github.com/jeranaias/streamchat/internal/util"
)

// historyPageSize is how many stored conversations one page lists.
const historyPageSize = 5

// previewWidth caps the first-message preview in listing rows.
const previewWidth = 60

// browseHistory pages through stored conversations interactively.
// Controls: n(ext), p(revious), an entry number to view it, q to leave.
func browseHistory(store *history.Store, input *ChatCLI) {
	entries := store.List()
	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("[No stored conversations]"))
		return
	}

	pages := history.PageCount(len(entries), historyPageSize)
	page := 0

	for {
		printHistoryPage(entries, page, pages)

		cmd, err := input.ReadCommand(infoStyle.Render("history> "))
		if err != nil {
			return
		}
		cmd = strings.TrimSpace(strings.ToLower(cmd))

		switch cmd {
		case "q", "quit", "exit":
			return
		case "n", "next":
			if page < pages-1 {
				page++
			}
		case "p", "prev", "previous":
			if page > 0 {
				page--
			}
		case "":
			// Re-print the current page.
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil {
				fmt.Println(infoStyle.Render("Controls: n = next page, p = previous, <number> = view, q = back"))
				continue
			}
			entry, getErr := store.Get(n - 1)
			if getErr != nil {
				fmt.Fprintf(os.Stderr, "%s no conversation %d\n", errorStyle.Render("[Error]"), n)
				continue
			}
			showEntry(n, entry)
		}
	}
}

// printHistoryPage lists one page of entries, numbered across the whole
// store so numbers stay stable between pages.
func printHistoryPage(entries []history.Entry, page, pages int) {
	fmt.Println()
	fmt.Printf("%s %s\n",
		summaryHeaderStyle.Render("Stored Conversations"),
		infoStyle.Render(fmt.Sprintf("(page %d/%d, %d total)", page+1, pages, len(entries))))
	fmt.Println(renderSeparator(40))

	for i, entry := range history.Page(entries, page, historyPageSize) {
		index := page*historyPageSize + i + 1
		fmt.Printf("  %s %s  %s\n",
			commandStyle.Render(fmt.Sprintf("%3d.", index)),
			formatTimestamp(entry.Timestamp),
			infoStyle.Render(entryPreview(entry)))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("n = next, p = previous, <number> = view, q = back"))
}

// showEntry prints one stored conversation in full. System messages are
// kept in storage but skipped in display; assistant replies get markdown
// rendering on a TTY.
func showEntry(index int, entry history.Entry) {
	fmt.Println()
	fmt.Printf("%s %s\n",
		summaryHeaderStyle.Render(fmt.Sprintf("Conversation %d", index)),
		infoStyle.Render(formatTimestamp(entry.Timestamp)))
	fmt.Println(renderSeparator(40))

	for _, turn := range entry.Messages {
		role := model.Role(turn.Role)
		switch role {
		case model.RoleSystem:
			continue
		case model.RoleUser:
			fmt.Printf("\n%s %s\n", roleUserStyle.Render(role.DisplayName()+":"), turn.Content)
		case model.RoleAssistant:
			fmt.Printf("\n%s\n", roleAssistantStyle.Render(role.DisplayName()+":"))
			displayStored(turn.Content)
		default:
			fmt.Printf("\n%s %s\n", infoStyle.Render(turn.Role+":"), turn.Content)
		}
	}
	fmt.Println()
}

// searchHistory prints all stored conversations matching the keyword.
func searchHistory(store *history.Store, keyword string) {
	matches := store.Search(keyword)
	if len(matches) == 0 {
		fmt.Println(infoStyle.Render("[No matches]"))
		return
	}

	fmt.Println()
	fmt.Printf("%s %s\n",
		summaryHeaderStyle.Render("Search Results"),
		infoStyle.Render(fmt.Sprintf("(%d matching)", len(matches))))
	fmt.Println(renderSeparator(40))

	for _, m := range matches {
		fmt.Printf("  %s %s\n",
			commandStyle.Render(fmt.Sprintf("%3d.", m.Index+1)),
			formatTimestamp(m.Timestamp))
	}

	fmt.Println()
	fmt.Println(infoStyle.Render("Type `history` and the number to view a conversation"))
}

// entryPreview returns the first user message flattened onto one row.
func entryPreview(entry history.Entry) string {
	for _, turn := range entry.Messages {
		if turn.Role == model.RoleUser.String() {
			return util.Truncate(util.Flatten(turn.Content), previewWidth)
		}
	}
	if len(entry.Messages) > 0 {
		return util.Truncate(util.Flatten(entry.Messages[0].Content), previewWidth)
	}
	return ""
}

// formatTimestamp renders a stored RFC 3339 timestamp for display, passing
// unparseable values through untouched.
func formatTimestamp(ts string) string {
	parsed, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return parsed.Format("2006-01-02 15:04:05")
}
