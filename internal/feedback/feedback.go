// Package feedback holds the domain types for a feedback report: who is
// reporting, what they typed into the form, and the composed submission that
// goes out to the record store.
package feedback

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type classifies a report.
type Type string

const (
	TypeBug     Type = "Bug"
	TypeFeature Type = "Feature request"
	TypeOther   Type = "Other"
)

// Types returns all feedback types in display order.
func Types() []Type {
	return []Type{TypeBug, TypeFeature, TypeOther}
}

// Urgency ranks how pressing a report is.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Urgencies returns all urgency levels in display order.
func Urgencies() []Urgency {
	return []Urgency{UrgencyHigh, UrgencyMedium, UrgencyLow}
}

// User identifies the reporter. Supplied by the host application at mount
// time and immutable for the widget's lifetime.
type User struct {
	Name  string
	Email string
}

// FormData is the validated output of the feedback form. Created on submit,
// never persisted.
type FormData struct {
	Type        Type
	Urgency     Urgency
	Description string
}

// NewFormData trims the description and returns the resulting form data.
func NewFormData(t Type, u Urgency, description string) FormData {
	return FormData{Type: t, Urgency: u, Description: strings.TrimSpace(description)}
}

// Valid reports whether the form data may be submitted: the trimmed
// description must be non-empty.
func (d FormData) Valid() bool {
	return strings.TrimSpace(d.Description) != ""
}

// Submission is the unit sent to the record store: form data plus the exact
// screenshot sequence at submit time and contextual metadata.
type Submission struct {
	ID          string
	Form        FormData
	Screenshots []string // base64, no data-URI prefix, insertion order
	Timestamp   time.Time
	Page        string
	AppName     string
	User        User
}

// NewSubmission composes a submission from the form data and the widget's
// current screenshot sequence. The slice is copied so later widget mutations
// cannot alter an in-flight submission.
func NewSubmission(form FormData, screenshots []string, page, appName string, user User) Submission {
	shots := make([]string, len(screenshots))
	copy(shots, screenshots)
	return Submission{
		ID:          uuid.NewString(),
		Form:        form,
		Screenshots: shots,
		Timestamp:   time.Now().UTC(),
		Page:        page,
		AppName:     appName,
		User:        user,
	}
}
