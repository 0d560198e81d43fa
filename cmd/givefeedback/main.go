package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jglaspey/givefeedback/internal/airtable"
	"github.com/jglaspey/givefeedback/internal/config"
	"github.com/jglaspey/givefeedback/internal/feedback"
	"github.com/jglaspey/givefeedback/internal/logger"
	"github.com/jglaspey/givefeedback/internal/widget"
)

var (
	hostTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	hostBodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	hostHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

// hostModel is a stand-in for any application embedding the widget: it owns
// its own view, forwards every message to the widget, and composites the
// widget over its frame.
type hostModel struct {
	appName string
	fb      widget.Model
	width   int
	height  int
}

func (m hostModel) Init() tea.Cmd { return m.fb.Init() }

func (m hostModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
	}

	if key, ok := msg.(tea.KeyMsg); ok && !m.fb.Active() {
		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.fb, cmd = m.fb.Update(msg)
	return m, cmd
}

func (m hostModel) View() string {
	lines := []string{
		hostTitleStyle.Render(m.appName),
		"",
		hostBodyStyle.Render("This is the host application. Anything rendered here sits"),
		hostBodyStyle.Render("behind the feedback widget when it opens."),
		"",
		hostHintStyle.Render("ctrl+f feedback · q quit"),
	}
	base := strings.Join(lines, "\n")
	if m.height > len(lines) {
		base += strings.Repeat("\n", m.height-len(lines)-1)
	}
	return m.fb.Overlay(base)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Diagnostics go to a file so they do not corrupt the alternate screen.
	if f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		logger.SetOutput(f)
		defer f.Close()
	}
	logger.SetLevel(cfg.Log.Level)

	apiKey := cfg.Airtable.ResolveAPIKey()
	if apiKey == "" || cfg.Airtable.BaseID == "" {
		fmt.Fprintln(os.Stderr, "givefeedback: set airtable.base_id and an API key (see airtable.api_key_env) in the config")
		os.Exit(1)
	}

	client := airtable.New(airtable.Config{
		APIKey: apiKey,
		BaseID: cfg.Airtable.BaseID,
		Table:  cfg.Airtable.Table,
	})

	fb := widget.New(widget.Config{
		User:    feedback.User{Name: cfg.User.Name, Email: cfg.User.Email},
		AppName: cfg.App.Name,
		Page:    cfg.App.Page,
		Client:  client,
		Logger:  logger.L.WithField("component", "widget"),
	})

	host := hostModel{appName: cfg.App.Name, fb: fb}
	if _, err := tea.NewProgram(host, tea.WithAltScreen()).Run(); err != nil {
		logger.L.WithError(err).Error("program exited")
		log.Fatalf("run: %v", err)
	}
}
