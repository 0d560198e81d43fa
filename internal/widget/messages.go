package widget

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/jglaspey/givefeedback/internal/airtable"
)

// Async results carry the session they were started under; results from a
// session that has since closed are dropped.

type captureDoneMsg struct {
	session int
	auto    bool
	image   string // base64
	err     error
}

type filesLoadedMsg struct {
	session int
	items   []list.Item
	err     error
}

type uploadDoneMsg struct {
	session int
	file    string
	image   string // base64
	err     error
}

type submitDoneMsg struct {
	session      int
	submissionID string
	result       airtable.Result
}

type autoCloseMsg struct {
	session      int
	submissionID string
}
