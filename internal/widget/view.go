package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// View renders the widget panel, or nothing when closed. Hosts place the
// result themselves or call Overlay to composite it over their own view.
func (m Model) View() string {
	if m.state == StateClosed {
		return ""
	}

	title := titleStyle.Render("Send feedback")
	if m.cfg.AppName != "" {
		title += hintStyle.Render("  ·  " + m.cfg.AppName)
	}

	var body string
	switch m.state {
	case StateSuccess:
		body = successStyle.Render("✓ Thanks for your feedback!")
	case StateSubmitting:
		body = strings.Join([]string{
			m.form.View(true),
			renderPreview(m.shots, m.selectedShot, false),
			m.spin.View() + " Sending your feedback...",
		}, "\n\n")
	case StateError:
		body = strings.Join([]string{
			m.form.View(false),
			renderPreview(m.shots, m.selectedShot, false),
			errorStyle.Render("✗ "+m.errMsg) + "\n" + hintStyle.Render("r to try again · esc to close"),
		}, "\n\n")
	default: // StateOpen
		if m.showPicker {
			body = m.pickerView()
		} else {
			body = strings.Join([]string{
				m.form.View(false),
				renderPreview(m.shots, m.selectedShot, m.shotsFocused),
			}, "\n\n")
		}
	}

	footer := ""
	if m.state == StateOpen && !m.showPicker {
		footer = "\n\n" + m.renderHelp()
	}

	return panelStyle.Render(title + "\n\n" + body + footer)
}

func (m Model) pickerView() string {
	if !m.pickerLoaded {
		return hintStyle.Render("Scanning for images...")
	}
	if len(m.picker.Items()) == 0 {
		return emptyStateStyle.Render("No image files found here") + "\n\n" +
			hintStyle.Render("esc to go back")
	}
	return m.picker.View() + "\n" + hintStyle.Render("enter to attach · esc to go back")
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, 6)
	for _, b := range m.keys.ShortHelp() {
		parts = append(parts, b.Help().Key+" "+b.Help().Desc)
	}
	return hintStyle.Render(strings.Join(parts, " · "))
}

// HelpBindings exposes the widget's active key bindings so hosts can fold
// them into their own help footer.
func (m Model) HelpBindings() []key.Binding {
	if m.state == StateClosed {
		return []key.Binding{m.keys.Open}
	}
	return m.keys.ShortHelp()
}

// Overlay composites the widget view centered over the host's rendered
// frame. When the widget is closed the base is returned untouched.
func (m Model) Overlay(base string) string {
	view := m.View()
	if view == "" {
		return base
	}
	w := lipgloss.Width(view)
	h := lipgloss.Height(view)
	x := (m.width - w) / 2
	y := (m.height - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return overlayAt(base, view, x, y, m.width, m.height)
}
