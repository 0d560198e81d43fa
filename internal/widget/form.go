package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jglaspey/givefeedback/internal/feedback"
)

// Form field focus positions.
const (
	fieldType = iota
	fieldUrgency
	fieldDescription
	fieldCount
)

// Form collects the report type, urgency, and description. It owns its own
// transient field state; its single outward effect is handing a validated,
// trimmed FormData to the widget on submit.
type Form struct {
	typeIdx    int
	urgencyIdx int
	desc       textarea.Model
	focus      int
	focused    bool
}

// NewForm returns a form with the default selections: Bug, Medium, empty
// description.
func NewForm() Form {
	ta := textarea.New()
	ta.Placeholder = "What happened? What did you expect?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(48)
	ta.SetHeight(4)
	// A static cursor keeps Focus from scheduling blink commands, which
	// block outside a running program.
	ta.Cursor.SetMode(cursor.CursorStatic)

	return Form{
		typeIdx:    indexOfType(feedback.TypeBug),
		urgencyIdx: indexOfUrgency(feedback.UrgencyMedium),
		desc:       ta,
	}
}

func indexOfType(t feedback.Type) int {
	for i, v := range feedback.Types() {
		if v == t {
			return i
		}
	}
	return 0
}

func indexOfUrgency(u feedback.Urgency) int {
	for i, v := range feedback.Urgencies() {
		if v == u {
			return i
		}
	}
	return 0
}

// Data returns the current field values as trimmed form data.
func (f Form) Data() feedback.FormData {
	return feedback.NewFormData(
		feedback.Types()[f.typeIdx],
		feedback.Urgencies()[f.urgencyIdx],
		f.desc.Value(),
	)
}

// CanSubmit reports whether the submit action is available: the trimmed
// description must be non-empty and no submission may be in flight.
func (f Form) CanSubmit(submitting bool) bool {
	return !submitting && strings.TrimSpace(f.desc.Value()) != ""
}

// Focused reports whether any form field has focus.
func (f Form) Focused() bool { return f.focused }

// FocusField returns the currently focused field index.
func (f Form) FocusField() int { return f.focus }

// Focus gives focus to the form, entering at the first field for forward
// traversal or the description for backward traversal.
func (f *Form) Focus(fromEnd bool) tea.Cmd {
	f.focused = true
	if fromEnd {
		f.focus = fieldDescription
	} else {
		f.focus = fieldType
	}
	return f.syncDescFocus()
}

// Blur removes focus from all fields.
func (f *Form) Blur() {
	f.focused = false
	f.desc.Blur()
}

// CycleFocus moves focus by dir (+1/-1). It returns false when the move walks
// off either end of the form, leaving the form blurred so the widget can hand
// focus to the next zone.
func (f *Form) CycleFocus(dir int) (tea.Cmd, bool) {
	next := f.focus + dir
	if next < 0 || next >= fieldCount {
		f.Blur()
		return nil, false
	}
	f.focus = next
	return f.syncDescFocus(), true
}

func (f *Form) syncDescFocus() tea.Cmd {
	if f.focused && f.focus == fieldDescription {
		return f.desc.Focus()
	}
	f.desc.Blur()
	return nil
}

// Reset restores the default selections and clears the description.
func (f *Form) Reset() {
	f.typeIdx = indexOfType(feedback.TypeBug)
	f.urgencyIdx = indexOfUrgency(feedback.UrgencyMedium)
	f.desc.Reset()
}

// SetWidth resizes the description area to fit the panel.
func (f *Form) SetWidth(w int) {
	if w < 20 {
		w = 20
	}
	f.desc.SetWidth(w)
}

// Update handles key input for the focused field.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	if !f.focused {
		return f, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && f.focus != fieldDescription {
		switch key.String() {
		case "left", "h":
			f.cycleChoice(-1)
			return f, nil
		case "right", "l":
			f.cycleChoice(1)
			return f, nil
		}
		return f, nil
	}

	var cmd tea.Cmd
	f.desc, cmd = f.desc.Update(msg)
	return f, cmd
}

func (f *Form) cycleChoice(dir int) {
	switch f.focus {
	case fieldType:
		n := len(feedback.Types())
		f.typeIdx = (f.typeIdx + dir + n) % n
	case fieldUrgency:
		n := len(feedback.Urgencies())
		f.urgencyIdx = (f.urgencyIdx + dir + n) % n
	}
}

// View renders the three fields plus the submit affordance.
func (f Form) View(submitting bool) string {
	var b strings.Builder

	b.WriteString(f.renderChoices("Type", typeLabels(), f.typeIdx, f.focused && f.focus == fieldType))
	b.WriteString("\n")
	b.WriteString(f.renderChoices("Urgency", urgencyLabels(), f.urgencyIdx, f.focused && f.focus == fieldUrgency))
	b.WriteString("\n")

	descLabel := labelStyle
	if f.focused && f.focus == fieldDescription {
		descLabel = labelFocusedStyle
	}
	b.WriteString(descLabel.Render("Description"))
	b.WriteString("\n")
	b.WriteString(f.desc.View())
	b.WriteString("\n\n")

	if f.CanSubmit(submitting) {
		b.WriteString(submitStyle.Render("ctrl+s to send"))
	} else if submitting {
		b.WriteString(submitDisabledStyle.Render("sending..."))
	} else {
		b.WriteString(submitDisabledStyle.Render("describe the issue to send"))
	}

	return b.String()
}

func (f Form) renderChoices(label string, options []string, selected int, focused bool) string {
	ls := labelStyle
	if focused {
		ls = labelFocusedStyle
	}
	parts := make([]string, 0, len(options))
	for i, opt := range options {
		switch {
		case i == selected:
			parts = append(parts, choiceSelectedStyle.Render(opt))
		case focused:
			parts = append(parts, choiceStyle.Render(opt))
		default:
			parts = append(parts, choiceDimStyle.Render(opt))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " "))
	return ls.Render(label) + "\n" + row + "\n"
}

func typeLabels() []string {
	types := feedback.Types()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func urgencyLabels() []string {
	urgencies := feedback.Urgencies()
	out := make([]string, len(urgencies))
	for i, u := range urgencies {
		out[i] = string(u)
	}
	return out
}
