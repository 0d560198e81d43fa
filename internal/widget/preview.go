package widget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderPreview is a pure render of the screenshot sequence: a count badge,
// one thumbnail cell per entry in insertion order, and an explicit empty
// state when there is nothing to show. Selection and removal are the
// widget's concern.
func renderPreview(shots []string, selected int, focused bool) string {
	var b strings.Builder

	label := labelStyle
	if focused {
		label = labelFocusedStyle
	}
	b.WriteString(label.Render("Screenshots"))
	b.WriteString(" ")
	b.WriteString(badgeStyle.Render(fmt.Sprintf("%d", len(shots))))
	b.WriteString("\n")

	if len(shots) == 0 {
		b.WriteString(emptyStateStyle.Render("No screenshots attached — ctrl+p to capture, ctrl+u to attach a file"))
		return b.String()
	}

	cells := make([]string, 0, len(shots))
	for i, shot := range shots {
		style := thumbStyle
		if focused && i == selected {
			style = thumbSelectedStyle
		}
		cells = append(cells, style.Render(fmt.Sprintf("#%d %s", i+1, approxSize(shot))))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))

	if focused {
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("←/→ select · x remove"))
	}
	return b.String()
}

// approxSize reports the decoded size of a base64 payload in human units.
func approxSize(b64 string) string {
	bytes := len(b64) * 3 / 4
	if bytes < 1024 {
		return fmt.Sprintf("%dB", bytes)
	}
	return fmt.Sprintf("%dKB", bytes/1024)
}
