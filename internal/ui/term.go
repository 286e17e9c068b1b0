package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Scheduled visits: bold cyan
	colorAssigned = color.New(color.FgCyan, color.Bold)

	// Visits a reflow moved: yellow
	colorShifted = color.New(color.FgYellow)

	// Route names and windows: bold
	colorHeader = color.New(color.Bold)

	// Scheduled minutes and usage: green
	colorStats = color.New(color.FgGreen)

	// Full routes and cells missing from an import: red
	colorWarn = color.New(color.FgRed)

	// Group ids, durations and free slots: faint
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
	lipgloss.SetColorProfile(termenv.Ascii)
}

func formatAssigned(s string) string {
	return colorAssigned.Sprint(s)
}

func formatShifted(s string) string {
	return colorShifted.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
