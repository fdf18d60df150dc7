// Package tui holds the small amount of human-facing styling the
// driver does: the -v command echo, warnings, and the build summary
// line. The parseable progress stream (internal/progress) is never
// styled; these styles only ever touch stderr text meant for a person.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Semantic color palette - use these consistently across all commands.
const (
	ColorPrimary   = "255" // White - main text, emphasis
	ColorSecondary = "245" // Light gray - supporting text
	ColorMuted     = "240" // Dark gray - hints, less important info
	ColorSuccess   = "42"  // Green - operations succeeded
	ColorError     = "203" // Red - errors, failures
	ColorWarning   = "214" // Orange - cautions, attention needed
	ColorAccent    = "45"  // Cyan - highlights (use sparingly)
)

// Common styles used across all commands.
var (
	PrimaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimary))
	SecondaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondary))
	MutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorMuted))

	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	AccentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	BoldStyle = lipgloss.NewStyle().Bold(true)
)

// StatusIcon returns the appropriate icon for a status.
func StatusIcon(success bool) string {
	if success {
		return SuccessStyle.Render("✓")
	}
	return ErrorStyle.Render("✗")
}

// Bullet returns a muted bullet point.
func Bullet() string {
	return MutedStyle.Render("·")
}

// IsInteractive reports whether stderr is a terminal. Command echo and
// the build summary drop their styling when output is redirected, so
// logs stay grep-clean.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// ExitError renders a terminal error message for the process's final
// stderr line.
func ExitError(msg string) string {
	if !IsInteractive() {
		return "error: " + msg
	}
	return ErrorStyle.Render("✗") + " " + msg
}
