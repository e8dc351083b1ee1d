package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Color palette
var (
	Amber      = lipgloss.Color("#E5A00D")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Blue       = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Bold(true)

	HeaderActiveStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)

	HeaderFocusedStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Bold(true)

	RuleStyle = lipgloss.NewStyle().
			Foreground(SlateLight)
)

// Row styles
var (
	CellStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)

	ToggleStyle = lipgloss.NewStyle().
			Foreground(Amber)

	TriggerStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Detail panel styles
var (
	DetailTitleStyle = lipgloss.NewStyle().
				Foreground(White).
				Bold(true)

	DetailLabelStyle = lipgloss.NewStyle().
				Foreground(Amber)

	DetailValueStyle = lipgloss.NewStyle().
				Foreground(LightGray)
)

// Action menu styles
var (
	MenuStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber).
			Padding(0, 1)

	MenuItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	MenuItemSelectedStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)
)

// Footer and search styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	FilterStyle = lipgloss.NewStyle().
			Foreground(Amber)

	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(Amber).
				Bold(true)
)

// Status line styles for the browser app
var (
	StatusStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(Red)
)

// Truncate shortens s to the given display width with an ellipsis.
// Escape sequences in s do not count toward the width.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// Pad truncates or right-pads s to exactly width display cells.
func Pad(s string, width int) string {
	s = Truncate(s, width)
	if n := width - ansi.StringWidth(s); n > 0 {
		s += strings.Repeat(" ", n)
	}
	return s
}

// Rule returns a horizontal line of the given width.
func Rule(width int) string {
	if width <= 0 {
		return ""
	}
	return RuleStyle.Render(strings.Repeat("─", width))
}
