// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for the streamchat CLI.
//
// Colors are automatically disabled for non-TTY output and when NO_COLOR is
// set; see terminal.go.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

var (
	// promptStyle colors the REPL prompt
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Cyan
			Bold(true)

	// welcomeStyle colors the startup banner
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")). // Purple
			Bold(true)

	// infoStyle is for secondary information and stats lines
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	// commandStyle highlights values and acknowledged commands
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	// warningStyle is for degraded-but-continuing conditions
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	// errorStyle is for failures reported to the user
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// summaryHeaderStyle heads the session summary and history views
	summaryHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")). // Cyan
				Bold(true)

	// roleUserStyle and roleAssistantStyle label speakers in history views
	roleUserStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Cyan

	roleAssistantStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")) // Purple
)

// renderSeparator renders a horizontal divider of the given width.
func renderSeparator(width int) string {
	if width <= 0 {
		width = 20
	}
	return infoStyle.Render(strings.Repeat("─", width))
}
