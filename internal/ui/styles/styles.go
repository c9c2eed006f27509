// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Main/primary text
	TextMutedColor   = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Status
	StatusErrorColor = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Scrollbar colors
	ScrollTrackColor = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#3A3A3A"}
	ScrollThumbColor = lipgloss.AdaptiveColor{Light: "#A0A0A0", Dark: "#7A7A7A"}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	// Scrollbar styles
	ScrollTrackStyle = lipgloss.NewStyle().Foreground(ScrollTrackColor)
	ScrollThumbStyle = lipgloss.NewStyle().Foreground(ScrollThumbColor)

	// Jump-to-row prompt
	PromptStyle = lipgloss.NewStyle().Foreground(TextPrimaryColor)

	// Error line shown in the status bar
	ErrorStyle = lipgloss.NewStyle().Foreground(StatusErrorColor)
)
