package widget

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlayAt stamps overlay onto base at character position (x, y). Both
// strings are treated as line grids; ANSI styling on either side of the
// stamped region survives.
func overlayAt(base, overlay string, x, y, width, height int) string {
	rows := strings.Split(base, "\n")
	stamp := strings.Split(overlay, "\n")

	stampWidth := 0
	for _, line := range stamp {
		stampWidth = max(stampWidth, ansi.StringWidth(line))
	}

	for i, line := range stamp {
		row := y + i
		if row < 0 || row >= len(rows) || (height > 0 && row >= height) {
			continue
		}
		rows[row] = stampRow(pad(rows[row], width), pad(line, stampWidth), x, width)
	}
	return strings.Join(rows, "\n")
}

// stampRow rebuilds one base row as left margin, stamped line, right margin.
func stampRow(target, line string, x, width int) string {
	left := ansi.Truncate(target, x, "")
	if lw := ansi.StringWidth(left); lw < x {
		left += strings.Repeat(" ", x-lw)
	}

	pos := x + ansi.StringWidth(line)
	right := ""
	if width > 0 {
		right = ansi.TruncateLeft(target, pos, "")
		if gap := width - pos - ansi.StringWidth(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
	}
	return left + line + right
}

// pad right-pads s with spaces to the given visual width.
func pad(s string, width int) string {
	if gap := width - ansi.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
