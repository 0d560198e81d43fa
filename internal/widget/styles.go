package widget

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette

const (
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorAccent  = colorMauve
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	labelStyle        = lipgloss.NewStyle().Foreground(colorSubtext0)
	labelFocusedStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	choiceStyle = lipgloss.NewStyle().Foreground(colorText)
	choiceSelectedStyle = lipgloss.NewStyle().
				Foreground(colorBase).
				Background(colorAccent).
				Padding(0, 1)
	choiceDimStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorTeal).
			Padding(0, 1)

	thumbStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)
	thumbSelectedStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(colorFocus).
				Padding(0, 1)

	emptyStateStyle = lipgloss.NewStyle().Foreground(colorOverlay1).Italic(true)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)

	submitStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorGreen).
			Padding(0, 1)
	submitDisabledStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Background(colorSurface0).
				Padding(0, 1)
)
