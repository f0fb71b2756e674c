package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// colorEnabled mirrors the teacher's own color-profile-aware styling
// (internal/ui's lipgloss styles): skip ANSI codes entirely for
// NO_COLOR/dumb terminals or non-TTY output (--json, pipes, redirects).
func colorEnabled() bool {
	if jsonOutput {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
)

func styleSuccess(s string) string {
	if !colorEnabled() {
		return s
	}
	return successStyle.Render(s)
}

func styleError(s string) string {
	if !colorEnabled() {
		return s
	}
	return errorStyle.Render(s)
}

func styleMuted(s string) string {
	if !colorEnabled() {
		return s
	}
	return mutedStyle.Render(s)
}
