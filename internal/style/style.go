// Package style defines lipgloss styles for the command's listings.
package style

import "github.com/charmbracelet/lipgloss"

// Listing styles. lipgloss styles are value types and safe for concurrent
// use. Colours degrade to plain text when stdout is not a terminal.
var (
	// Title is used for listing headers.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	// Name is used for device names.
	Name = lipgloss.NewStyle().
		Foreground(lipgloss.Color("255"))

	// Default marks the backend's default device.
	Default = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	// Muted is used for de-emphasized text (e.g., sample formats).
	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	// Bullet is used for list item markers.
	Bullet = lipgloss.NewStyle().
		Foreground(lipgloss.Color("205"))

	// Warning is used when a listing comes back empty.
	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))
)
