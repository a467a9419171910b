package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ErrorStyle renders error text in the status bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// CardStyle is the container for an unselected todo card.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// SelectedCardStyle highlights the card that receives key input.
var SelectedCardStyle = CardStyle.
	BorderForeground(ColorBlue)

// CompletedTitleStyle renders the title of a completed todo.
var CompletedTitleStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Strikethrough(true)

// TitleStyle renders the title of an open todo.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// DueDateStyle renders the due date line.
var DueDateStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// OverdueBadgeStyle renders the overdue badge.
var OverdueBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFFFFF")).
	Background(ColorRed).
	Padding(0, 1)

// CheckboxStyle renders the completion checkbox.
var CheckboxStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// ButtonStyle renders an inactive card control.
var ButtonStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// FocusedButtonStyle renders the card control that has focus.
var FocusedButtonStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue).
	Underline(true)

// DisabledStyle renders controls while a write is in flight.
var DisabledStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)
