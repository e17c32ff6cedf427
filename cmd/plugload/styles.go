// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by all CLI output, tuned for dark terminals.
const (
	// ColorPrimary is purple, for titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, for subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green, for resolved names and checkmarks.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red, for unresolved names and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber, for diagnostics.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue, for prefixes and paths.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PrefixStyle is for namespace prefixes.
	PrefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHighlight)

	// PathStyle is for filesystem paths.
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// indentStyle indents directory lists under their prefix.
	indentStyle = lipgloss.NewStyle().PaddingLeft(2)
)
