package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the console.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
)

// palette styles the ticker and weather bars. The console keeps its own
// colors regardless of theme.
type palette struct {
	Bar     lipgloss.Style
	Clock   lipgloss.Style
	Badge   lipgloss.Style
	Weather lipgloss.Style
}

var defaultPalette = palette{
	Bar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("19")),
	Clock: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("19")).
		Background(lipgloss.Color("255")).
		Padding(0, 1),
	Badge: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("226")).
		Background(lipgloss.Color("160")).
		Padding(0, 1),
	Weather: lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("24")),
}

// mourningPalette is greyscale for national mourning days.
var mourningPalette = palette{
	Bar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("235")),
	Clock: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("235")).
		Background(lipgloss.Color("250")).
		Padding(0, 1),
	Badge: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("238")).
		Padding(0, 1),
	Weather: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Background(lipgloss.Color("237")),
}

// festivePalette is red and gold for Tết.
var festivePalette = palette{
	Bar: lipgloss.NewStyle().
		Foreground(lipgloss.Color("226")).
		Background(lipgloss.Color("124")),
	Clock: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("124")).
		Background(lipgloss.Color("220")).
		Padding(0, 1),
	Badge: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("124")).
		Background(lipgloss.Color("226")).
		Padding(0, 1),
	Weather: lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("88")),
}

func paletteFor(mourning, festive bool) palette {
	switch {
	case mourning:
		return mourningPalette
	case festive:
		return festivePalette
	default:
		return defaultPalette
	}
}

// TabActive style for the selected console tab.
var TabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// TabInactive style for the other tabs.
var TabInactive = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// SelectedItem style for the row under the cursor.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for other rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// Checkmark marks a selected candidate.
var Checkmark = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// Summary style for candidate summaries under their headline.
var Summary = lipgloss.NewStyle().
	Foreground(colorSecondary).
	PaddingLeft(6)

// Citation style for the "sources consulted" list.
var Citation = lipgloss.NewStyle().
	Foreground(colorMuted).
	PaddingLeft(2)

// Label style for field labels.
var Label = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// Suggestion style for the spelling hint.
var Suggestion = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Italic(true)

// StatusBar style for the key hint line.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// Notice style for confirmations.
var Notice = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// Muted style for secondary text.
var Muted = lipgloss.NewStyle().
	Foreground(colorMuted)
