package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for scan output
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - live devices, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
)

// Shared styles for scan output
var (
	// TitleStyle is for the scan banner ("Scanning for devices...")
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	// HeaderStyle is for table column headers
	HeaderStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	// CellStyle is for table cells
	CellStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// MutedStyle is for secondary table cells (vendor, uptime)
	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// CountStyle is for the device counter in the live view
	CountStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// ErrorStyle is for error lines
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// HintStyle is for key hints below the live view
	HintStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// Status markers
const (
	SuccessMarker = "✓"
	FailureMarker = "✗"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// TableBorderStyle returns the border style for the results table
func TableBorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Padding(0, 1)
}
