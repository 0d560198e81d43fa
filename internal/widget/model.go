// Package widget implements an embeddable feedback widget for Bubble Tea
// applications. The host forwards messages to Update and composites View
// over its own output; everything else — the open/submit lifecycle,
// screenshot handling, and the submission call — is owned here.
package widget

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jglaspey/givefeedback/internal/airtable"
	"github.com/jglaspey/givefeedback/internal/feedback"
	"github.com/jglaspey/givefeedback/internal/logger"
	"github.com/jglaspey/givefeedback/internal/screenshot"
)

// successDisplayDuration is how long the thank-you note stays up before the
// widget closes itself.
const successDisplayDuration = 2 * time.Second

// Submitter sends one composed submission to the record store.
type Submitter interface {
	Submit(ctx context.Context, sub feedback.Submission) airtable.Result
}

// Config is the mount contract. All fields are treated as immutable for the
// widget's lifetime.
type Config struct {
	User    feedback.User
	AppName string
	Page    string
	Client  Submitter

	// Capturer defaults to the platform screen grabber.
	Capturer screenshot.Capturer
	// Logger receives diagnostics, including swallowed capture failures.
	// Defaults to the package fallback logger.
	Logger *logrus.Entry
	// UploadDir is scanned by the attach-file picker. Defaults to the
	// working directory.
	UploadDir string
}

// Model is the feedback widget. Zero value is not usable; construct with New.
type Model struct {
	cfg  Config
	keys keyMap

	state   State
	session int // bumped on every open and close; stale async results carry the old value

	form         Form
	shots        []string
	selectedShot int
	shotsFocused bool
	errMsg       string

	captureInFlight bool
	submissionID    string

	showPicker   bool
	picker       list.Model
	pickerLoaded bool

	spin spinner.Model

	width  int
	height int
}

// New returns a closed widget ready to be mounted.
func New(cfg Config) Model {
	if cfg.Capturer == nil {
		cfg.Capturer = screenshot.NewCommandCapturer()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.L
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir, _ = os.Getwd()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		cfg:    cfg,
		keys:   newKeyMap(),
		state:  StateClosed,
		form:   NewForm(),
		picker: newPickerList(),
		spin:   sp,
	}
}

// Init implements tea.Model. The widget starts closed and idle.
func (m Model) Init() tea.Cmd { return nil }

// State returns the widget's current lifecycle state.
func (m Model) State() State { return m.state }

// Active reports whether the widget is visible in any form.
func (m Model) Active() bool { return m.state != StateClosed }

// Screenshots returns the current screenshot sequence.
func (m Model) Screenshots() []string { return m.shots }

// ErrorMessage returns the submission error being displayed, if any.
func (m Model) ErrorMessage() string { return m.errMsg }

func (m Model) log() *logrus.Entry { return m.cfg.Logger }

// Update processes one message. Hosts forward every message here; anything
// the widget does not care about is ignored or passed to the focused input.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.form.SetWidth(min(48, max(20, msg.Width-12)))
		return m, nil
	case captureDoneMsg:
		return m.handleCaptureDone(msg)
	case filesLoadedMsg:
		return m.handleFilesLoaded(msg)
	case uploadDoneMsg:
		return m.handleUploadDone(msg)
	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	case autoCloseMsg:
		return m.handleAutoClose(msg)
	case spinner.TickMsg:
		if m.state != StateSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.state == StateClosed {
		if key.Matches(msg, m.keys.Open) {
			return m.open()
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Close) {
		if m.showPicker {
			m.showPicker = false
			return m, nil
		}
		return m.close()
	}

	switch m.state {
	case StateSubmitting, StateSuccess:
		// Only close is honored while a submission is pending or the
		// thank-you note is up.
		return m, nil
	case StateError:
		if key.Matches(msg, m.keys.Retry) {
			return m.retry()
		}
		return m, nil
	case StateOpen:
		return m.handleOpenKey(msg)
	}
	return m, nil
}

func (m Model) handleOpenKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.beginSubmit()
	case key.Matches(msg, m.keys.Capture):
		return m.startCapture(false)
	case key.Matches(msg, m.keys.Upload):
		m.showPicker = true
		m.pickerLoaded = false
		m.picker.Select(0)
		return m, loadImagesCmd(m.session, m.cfg.UploadDir)
	case key.Matches(msg, m.keys.Next):
		return m.cycleFocus(1)
	case key.Matches(msg, m.keys.Prev):
		return m.cycleFocus(-1)
	}

	if m.shotsFocused {
		switch msg.String() {
		case "left", "h":
			if m.selectedShot > 0 {
				m.selectedShot--
			}
			return m, nil
		case "right", "l":
			if m.selectedShot < len(m.shots)-1 {
				m.selectedShot++
			}
			return m, nil
		}
		if key.Matches(msg, m.keys.Remove) {
			return m.removeScreenshot(m.selectedShot)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "enter" {
		item, ok := m.picker.SelectedItem().(imageItem)
		if !ok {
			return m, nil
		}
		m.showPicker = false
		return m, uploadCmd(m.session, item.path)
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

// cycleFocus moves focus between the form fields and the screenshot strip.
func (m Model) cycleFocus(dir int) (Model, tea.Cmd) {
	if m.shotsFocused {
		m.shotsFocused = false
		return m, m.form.Focus(dir < 0)
	}
	cmd, stayed := m.form.CycleFocus(dir)
	if !stayed {
		m.shotsFocused = true
		m.selectedShot = 0
	}
	return m, cmd
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

// open moves closed → open and fires the automatic capture attempt.
func (m Model) open() (Model, tea.Cmd) {
	if m.state != StateClosed {
		return m, nil
	}
	m.state = StateOpen
	m.session++
	m.form = NewForm()
	m.shots = nil
	m.selectedShot = 0
	m.shotsFocused = false
	m.errMsg = ""
	m.showPicker = false
	m.submissionID = ""

	focusCmd := m.form.Focus(false)
	next, captureCmd := m.startCapture(true)
	return next, tea.Batch(focusCmd, captureCmd)
}

// close force-closes from any state, clearing screenshots and error. A
// submission still in flight runs to completion; its result arrives under a
// stale session and is dropped.
func (m Model) close() (Model, tea.Cmd) {
	if m.state == StateClosed {
		return m, nil
	}
	if m.state == StateSubmitting {
		m.log().WithField("submission_id", m.submissionID).
			Info("widget closed with submission in flight; result will be ignored")
	}
	m.state = StateClosed
	m.session++
	m.shots = nil
	m.selectedShot = 0
	m.shotsFocused = false
	m.errMsg = ""
	m.showPicker = false
	m.captureInFlight = false
	m.submissionID = ""
	return m, nil
}

// retry moves error → open on the explicit try-again action, clearing the
// error but keeping form values and screenshots.
func (m Model) retry() (Model, tea.Cmd) {
	if m.state != StateError {
		return m, nil
	}
	m.state = StateOpen
	m.errMsg = ""
	return m, nil
}

// startCapture launches one capture unless one is already in flight.
func (m Model) startCapture(auto bool) (Model, tea.Cmd) {
	if m.captureInFlight {
		return m, nil
	}
	m.captureInFlight = true
	session := m.session
	capturer := m.cfg.Capturer
	log := m.log()
	return m, func() tea.Msg {
		ctx := logger.WithLogger(context.Background(), log)
		img, err := capturer.Capture(ctx)
		return captureDoneMsg{session: session, auto: auto, image: img, err: err}
	}
}

// beginSubmit composes the submission from the current form and screenshot
// state and moves open → submitting. The submitting state itself guarantees
// at most one submission in flight.
func (m Model) beginSubmit() (Model, tea.Cmd) {
	if m.state != StateOpen {
		return m, nil
	}
	data := m.form.Data()
	if !data.Valid() {
		return m, nil
	}

	sub := feedback.NewSubmission(data, m.shots, m.cfg.Page, m.cfg.AppName, m.cfg.User)
	m.state = StateSubmitting
	m.submissionID = sub.ID
	m.showPicker = false

	session := m.session
	client := m.cfg.Client
	log := m.log()
	submit := func() tea.Msg {
		ctx := logger.WithLogger(context.Background(), log)
		return submitDoneMsg{session: session, submissionID: sub.ID, result: client.Submit(ctx, sub)}
	}
	return m, tea.Batch(m.spin.Tick, submit)
}

// ---------------------------------------------------------------------------
// Async result handlers
// ---------------------------------------------------------------------------

func (m Model) handleCaptureDone(msg captureDoneMsg) (Model, tea.Cmd) {
	if msg.session != m.session {
		m.log().Debug("dropping capture result from a closed session")
		return m, nil
	}
	// The flag clears on any result from this session, even one landing
	// outside the open state, or later captures would stay blocked.
	m.captureInFlight = false
	if m.state != StateOpen {
		m.log().Debug("dropping capture result that landed outside the open state")
		return m, nil
	}
	if msg.err != nil {
		// Capture failure is non-fatal and invisible to the user.
		m.log().WithError(msg.err).WithField("auto", msg.auto).Warn("screenshot capture failed")
		return m, nil
	}
	m.shots = append(m.shots, screenshot.StripDataURL(msg.image))
	return m, nil
}

func (m Model) handleFilesLoaded(msg filesLoadedMsg) (Model, tea.Cmd) {
	if msg.session != m.session || m.state != StateOpen {
		return m, nil
	}
	if msg.err != nil {
		m.log().WithError(msg.err).Warn("scanning for attachable images failed")
		m.showPicker = false
		return m, nil
	}
	m.picker.SetItems(msg.items)
	m.pickerLoaded = true
	return m, nil
}

func (m Model) handleUploadDone(msg uploadDoneMsg) (Model, tea.Cmd) {
	if msg.session != m.session || m.state != StateOpen {
		m.log().Debug("dropping upload result from a closed session")
		return m, nil
	}
	if msg.err != nil {
		// Same policy as capture: log it, keep the sequence unchanged.
		m.log().WithError(msg.err).WithField("file", msg.file).Warn("attaching image failed")
		return m, nil
	}
	m.shots = append(m.shots, screenshot.StripDataURL(msg.image))
	return m, nil
}

func (m Model) handleSubmitDone(msg submitDoneMsg) (Model, tea.Cmd) {
	if msg.session != m.session || m.state != StateSubmitting || msg.submissionID != m.submissionID {
		m.log().WithField("submission_id", msg.submissionID).
			Info("ignoring result for a detached submission")
		return m, nil
	}
	if !msg.result.Success {
		m.state = StateError
		m.errMsg = msg.result.Error
		if m.errMsg == "" {
			m.errMsg = airtable.DefaultErrorMessage
		}
		return m, nil
	}
	m.state = StateSuccess
	session := m.session
	id := m.submissionID
	return m, tea.Tick(successDisplayDuration, func(time.Time) tea.Msg {
		return autoCloseMsg{session: session, submissionID: id}
	})
}

func (m Model) handleAutoClose(msg autoCloseMsg) (Model, tea.Cmd) {
	if msg.session != m.session || m.state != StateSuccess || msg.submissionID != m.submissionID {
		return m, nil
	}
	return m.close()
}

// removeScreenshot deletes the entry at index, preserving the order of the
// rest.
func (m Model) removeScreenshot(index int) (Model, tea.Cmd) {
	if index < 0 || index >= len(m.shots) {
		return m, nil
	}
	m.shots = append(m.shots[:index:index], m.shots[index+1:]...)
	if m.selectedShot >= len(m.shots) && m.selectedShot > 0 {
		m.selectedShot = len(m.shots) - 1
	}
	return m, nil
}
