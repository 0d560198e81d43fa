package widget

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/jglaspey/givefeedback/internal/airtable"
	"github.com/jglaspey/givefeedback/internal/feedback"
	"github.com/jglaspey/givefeedback/internal/screenshot"
)

// ---------------------------------------------------------------------------
// Test doubles
// ---------------------------------------------------------------------------

type stubSubmitter struct {
	mu     sync.Mutex
	result airtable.Result
	calls  []feedback.Submission
}

func (s *stubSubmitter) Submit(_ context.Context, sub feedback.Submission) airtable.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sub)
	return s.result
}

func (s *stubSubmitter) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func okCapturer(image string) screenshot.Capturer {
	return screenshot.CaptureFunc(func(context.Context) (string, error) {
		return image, nil
	})
}

func failingCapturer(err error) screenshot.Capturer {
	return screenshot.CaptureFunc(func(context.Context) (string, error) {
		return "", err
	})
}

func newTestWidget(t *testing.T, client Submitter, cap screenshot.Capturer) (Model, *logtest.Hook) {
	t.Helper()
	log, hook := logtest.NewNullLogger()
	m := New(Config{
		User:      feedback.User{Name: "Jay", Email: "jay@example.com"},
		AppName:   "demo",
		Page:      "dashboard",
		Client:    client,
		Capturer:  cap,
		Logger:    logrus.NewEntry(log),
		UploadDir: t.TempDir(),
	})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, hook
}

// ---------------------------------------------------------------------------
// Flow helpers (drive Update the way the runtime would)
// ---------------------------------------------------------------------------

func flowKey(k string) tea.KeyMsg {
	switch k {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+f":
		return tea.KeyMsg{Type: tea.KeyCtrlF}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// flowDrain runs a command chain to completion, feeding every produced
// message back into Update. Timer-based commands are never drained here;
// tests synthesize their messages instead.
func flowDrain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	return flowDrainDepth(t, m, cmd, 0)
}

func flowDrainDepth(t *testing.T, m Model, cmd tea.Cmd, depth int) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	if depth > 32 {
		t.Fatal("command chain did not settle after 32 steps")
	}
	msg := cmd()
	if msg == nil {
		return m
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			m = flowDrainDepth(t, m, c, depth+1)
		}
		return m
	}
	next, nextCmd := m.Update(msg)
	switch msg.(type) {
	case submitDoneMsg, spinner.TickMsg:
		// Timer-backed follow-ups (the auto-close tick, spinner frames)
		// would sleep if invoked; tests fire their messages by hand.
		return next
	}
	return flowDrainDepth(t, next, nextCmd, depth+1)
}

func flowPress(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, cmd := m.Update(flowKey(key))
	return flowDrain(t, next, cmd)
}

func flowType(t *testing.T, m Model, input string) Model {
	t.Helper()
	for _, r := range input {
		m = flowPress(t, m, string(r))
	}
	return m
}

// flowOpen opens the widget and resolves the automatic capture attempt.
func flowOpen(t *testing.T, m Model) Model {
	t.Helper()
	return flowPress(t, m, "ctrl+f")
}

// flowFillDescription tabs from the first field to the description and types
// the given text.
func flowFillDescription(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = flowPress(t, m, "tab") // type -> urgency
	m = flowPress(t, m, "tab") // urgency -> description
	return flowType(t, m, text)
}

// ---------------------------------------------------------------------------
// End-to-end scenarios
// ---------------------------------------------------------------------------

func TestFlowSubmitSuccessAutoCloses(t *testing.T) {
	client := &stubSubmitter{result: airtable.Result{Success: true}}
	m, _ := newTestWidget(t, client, okCapturer("YXV0bw=="))

	m = flowOpen(t, m)
	if m.State() != StateOpen {
		t.Fatalf("state = %v, want open", m.State())
	}
	if len(m.Screenshots()) != 1 || m.Screenshots()[0] != "YXV0bw==" {
		t.Fatalf("screenshots = %v, want the auto capture", m.Screenshots())
	}

	m = flowFillDescription(t, m, "Add dark mode")
	m = flowPress(t, m, "ctrl+s")
	if m.State() != StateSuccess {
		t.Fatalf("state = %v, want success", m.State())
	}
	if client.callCount() != 1 {
		t.Fatalf("submissions = %d, want 1", client.callCount())
	}
	if !strings.Contains(m.View(), "Thanks for your feedback") {
		t.Error("success view should thank the user")
	}

	// Further submits during the display window must be ignored.
	m = flowPress(t, m, "ctrl+s")
	if client.callCount() != 1 {
		t.Fatalf("submissions after extra ctrl+s = %d, want 1", client.callCount())
	}

	// The scheduled tick closes the widget and clears its state.
	next, _ := m.Update(autoCloseMsg{session: m.session, submissionID: m.submissionID})
	m = next
	if m.State() != StateClosed {
		t.Fatalf("state after auto-close = %v, want closed", m.State())
	}
	if len(m.Screenshots()) != 0 || m.ErrorMessage() != "" {
		t.Error("closed widget should have no screenshots and no error")
	}
}

func TestFlowSubmissionPayload(t *testing.T) {
	client := &stubSubmitter{result: airtable.Result{Success: true}}
	m, _ := newTestWidget(t, client, okCapturer("c2hvdA=="))

	m = flowOpen(t, m)
	m = flowFillDescription(t, m, "  fix this  ")
	flowPress(t, m, "ctrl+s")

	if client.callCount() != 1 {
		t.Fatalf("submissions = %d, want 1", client.callCount())
	}
	sub := client.calls[0]
	if sub.Form.Description != "fix this" {
		t.Errorf("description = %q, want trimmed %q", sub.Form.Description, "fix this")
	}
	if sub.Form.Type != feedback.TypeBug || sub.Form.Urgency != feedback.UrgencyMedium {
		t.Errorf("defaults = %v/%v, want Bug/Medium", sub.Form.Type, sub.Form.Urgency)
	}
	if sub.AppName != "demo" || sub.Page != "dashboard" {
		t.Errorf("metadata = %q/%q", sub.AppName, sub.Page)
	}
	if sub.User.Name != "Jay" {
		t.Errorf("user = %q", sub.User.Name)
	}
	if len(sub.Screenshots) != 1 || sub.Screenshots[0] != "c2hvdA==" {
		t.Errorf("screenshots = %v", sub.Screenshots)
	}
	if sub.ID == "" || sub.Timestamp.IsZero() {
		t.Error("submission should carry an ID and timestamp")
	}
}

func TestFlowChangeTypeAndUrgency(t *testing.T) {
	client := &stubSubmitter{result: airtable.Result{Success: true}}
	m, _ := newTestWidget(t, client, okCapturer("YQ=="))

	m = flowOpen(t, m)
	m = flowPress(t, m, "right") // Bug -> Feature request
	m = flowPress(t, m, "tab")
	m = flowPress(t, m, "right") // Medium -> Low
	m = flowPress(t, m, "tab")
	m = flowType(t, m, "Add dark mode")
	flowPress(t, m, "ctrl+s")

	sub := client.calls[0]
	if sub.Form.Type != feedback.TypeFeature {
		t.Errorf("type = %v, want Feature request", sub.Form.Type)
	}
	if sub.Form.Urgency != feedback.UrgencyLow {
		t.Errorf("urgency = %v, want Low", sub.Form.Urgency)
	}
	if sub.Form.Description != "Add dark mode" {
		t.Errorf("description = %q", sub.Form.Description)
	}
}

func TestFlowSubmitFailureShowsMessageAndRetries(t *testing.T) {
	client := &stubSubmitter{result: airtable.Result{Success: false, Error: "Network timeout"}}
	m, _ := newTestWidget(t, client, okCapturer("YQ=="))

	m = flowOpen(t, m)
	m = flowFillDescription(t, m, "it broke")
	m = flowPress(t, m, "ctrl+s")

	if m.State() != StateError {
		t.Fatalf("state = %v, want error", m.State())
	}
	if m.ErrorMessage() != "Network timeout" {
		t.Errorf("error = %q, want verbatim %q", m.ErrorMessage(), "Network timeout")
	}
	if !strings.Contains(m.View(), "Network timeout") {
		t.Error("error view should show the collaborator's message")
	}

	// Explicit retry returns to open, keeps screenshots and form values,
	// clears the message.
	shotsBefore := len(m.Screenshots())
	m = flowPress(t, m, "r")
	if m.State() != StateOpen {
		t.Fatalf("state after retry = %v, want open", m.State())
	}
	if m.ErrorMessage() != "" {
		t.Error("retry should clear the error message")
	}
	if len(m.Screenshots()) != shotsBefore {
		t.Error("retry should keep screenshots")
	}
	if m.form.Data().Description != "it broke" {
		t.Error("retry should keep form values")
	}

	// Second attempt succeeds.
	client.result = airtable.Result{Success: true}
	m = flowPress(t, m, "ctrl+s")
	if m.State() != StateSuccess {
		t.Fatalf("state = %v, want success", m.State())
	}
	if client.callCount() != 2 {
		t.Fatalf("submissions = %d, want 2", client.callCount())
	}
}

func TestFlowDefaultErrorMessage(t *testing.T) {
	client := &stubSubmitter{result: airtable.Result{Success: false}}
	m, _ := newTestWidget(t, client, okCapturer("YQ=="))

	m = flowOpen(t, m)
	m = flowFillDescription(t, m, "it broke")
	m = flowPress(t, m, "ctrl+s")

	if m.ErrorMessage() != airtable.DefaultErrorMessage {
		t.Errorf("error = %q, want the generic default", m.ErrorMessage())
	}
}

func TestFlowWhitespaceDescriptionNeverSubmits(t *testing.T) {
	client := &stubSubmitter{result: airtable.Result{Success: true}}
	m, _ := newTestWidget(t, client, okCapturer("YQ=="))

	m = flowOpen(t, m)
	m = flowFillDescription(t, m, "   ")
	m = flowPress(t, m, "ctrl+s")

	if client.callCount() != 0 {
		t.Fatalf("submissions = %d, want 0", client.callCount())
	}
	if m.State() != StateOpen {
		t.Fatalf("state = %v, want open", m.State())
	}
}
