// Package tui provides terminal user interface components for forge.
//
// This package provides a centralized style system using Lip Gloss for consistent
// output styling. All colors use AdaptiveColor for light/dark terminal support.
//
// # Semantic Colors
//
// Five semantic colors are exported for use across components:
//   - ColorPrimary (Blue): Active states, links, primary actions
//   - ColorSuccess (Green): Success states, completed roles
//   - ColorWarning (Yellow): Warning states, attention required
//   - ColorError (Red): Error states, failed roles
//   - ColorMuted (Gray): Dim/inactive states, secondary text
//
// # Icons
//
// Status displays pair an icon with the text so they stay readable without
// color. See SeverityIcon and RoleStatusIcon.
//
// # NO_COLOR Support
//
// Call CheckNoColor() at the start of commands to respect the NO_COLOR environment
// variable. Colors are also disabled when TERM=dumb.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mrz1836/forge/internal/domain"
)

//nolint:gochecknoglobals // Intentional package-level constants for TUI styling API
var (
	// ColorPrimary is blue, used for active states, links, and primary actions.
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#0087AF", Dark: "#00D7FF"}

	// ColorSuccess is green, used for success states and completed roles.
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#00FF87"}

	// ColorWarning is yellow, used for warning states and attention-required items.
	ColorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD700"}

	// ColorError is red, used for error states and failed roles.
	ColorError = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}

	// ColorMuted is gray, used for dim/inactive states and secondary text.
	ColorMuted = lipgloss.AdaptiveColor{Light: "#585858", Dark: "#6C6C6C"}

	// StyleBold applies bold formatting to text.
	StyleBold = lipgloss.NewStyle().Bold(true)

	// StyleDim applies dim/faint formatting to text.
	StyleDim = lipgloss.NewStyle().Faint(true)
)

// DefaultBoxWidth is the default width for menus and wrapped output.
const DefaultBoxWidth = 100

// TableStyles holds lipgloss styles for table rendering.
type TableStyles struct {
	Header lipgloss.Style
	Cell   lipgloss.Style
	Dim    lipgloss.Style
}

// NewTableStyles creates styles for table rendering.
func NewTableStyles() *TableStyles {
	return &TableStyles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}),
		Cell: lipgloss.NewStyle(),
		Dim: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),
	}
}

// OutputStyles holds common output styles.
type OutputStyles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Dim     lipgloss.Style
}

// NewOutputStyles creates common output styles using AdaptiveColor for light/dark terminal support.
func NewOutputStyles() *OutputStyles {
	return &OutputStyles{
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),
		Info: lipgloss.NewStyle().
			Foreground(ColorPrimary),
		Dim: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}

// CheckNoColor respects the NO_COLOR environment variable.
// Call this at the start of commands that output styled text.
func CheckNoColor() {
	if !HasColorSupport() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// HasColorSupport returns true if the terminal supports colors.
// Returns false if NO_COLOR is set (any value including empty string) or TERM=dumb.
// This follows the NO_COLOR standard: https://no-color.org/
func HasColorSupport() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return false
	}

	if os.Getenv("TERM") == "dumb" {
		return false
	}

	return true
}

// SeverityColor returns the semantic color for an issue severity.
func SeverityColor(s domain.Severity) lipgloss.AdaptiveColor {
	switch s {
	case domain.SeverityCritical, domain.SeverityHigh:
		return ColorError
	case domain.SeverityMedium:
		return ColorWarning
	default:
		return ColorMuted
	}
}

// SeverityIcon returns the icon for an issue severity.
func SeverityIcon(s domain.Severity) string {
	switch s {
	case domain.SeverityCritical:
		return "✗"
	case domain.SeverityHigh:
		return "▲"
	case domain.SeverityMedium:
		return "⚠"
	case domain.SeverityLow:
		return "○"
	default:
		return "?"
	}
}

// FormatSeverity renders a severity as icon + colored text.
func FormatSeverity(s domain.Severity) string {
	return lipgloss.NewStyle().Foreground(SeverityColor(s)).Render(SeverityIcon(s) + " " + s.String())
}

// RoleStatusIcon returns the icon for a role progress state
// ("started", "succeeded", "failed").
func RoleStatusIcon(status string) string {
	switch status {
	case "started":
		return "●"
	case "succeeded":
		return "✓"
	case "failed":
		return "✗"
	default:
		return "○"
	}
}
