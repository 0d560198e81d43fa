// Package airtable submits feedback to an Airtable base. It is the sole
// network egress of the widget.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jglaspey/givefeedback/internal/feedback"
	"github.com/jglaspey/givefeedback/internal/logger"
	"github.com/jglaspey/givefeedback/internal/screenshot"
)

const defaultBaseURL = "https://api.airtable.com/v0"

// DefaultErrorMessage is shown when the service fails without a usable
// message of its own.
const DefaultErrorMessage = "Failed to submit feedback. Please try again."

// Config locates the target table and authenticates against it. Opaque to
// the widget; supplied by the embedding host.
type Config struct {
	APIKey  string
	BaseID  string
	Table   string
	BaseURL string // overridable for tests; defaults to the Airtable API
}

// Result reports the outcome of one submission attempt. Error carries the
// user-facing message when Success is false.
type Result struct {
	Success bool
	Error   string
}

// Client posts feedback records. Safe for reuse across submissions; the
// widget only ever has one in flight.
type Client struct {
	cfg  Config
	http *http.Client
}

// New returns a client for the given target.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

type recordsPayload struct {
	Records []record `json:"records"`
}

type record struct {
	Fields map[string]any `json:"fields"`
}

type attachment struct {
	URL string `json:"url"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Submit posts one record composed from the submission. It never returns an
// error: all failure modes collapse into a Result the widget can display.
func (c *Client) Submit(ctx context.Context, sub feedback.Submission) Result {
	log := logger.G(ctx).WithField("submission_id", sub.ID)

	body, err := json.Marshal(recordsPayload{Records: []record{{Fields: c.fields(sub)}}})
	if err != nil {
		log.WithError(err).Error("encode submission")
		return Result{Success: false, Error: DefaultErrorMessage}
	}

	url := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, c.cfg.Table)
	var lastMessage string
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return errors.Wrap(err, "post record")
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			msg := serviceMessage(resp.Body)
			if msg != "" {
				lastMessage = msg
			}
			err = errors.Errorf("airtable: status %d", resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		log.WithError(err).Warn("submission failed")
		msg := lastMessage
		if msg == "" {
			msg = DefaultErrorMessage
		}
		return Result{Success: false, Error: msg}
	}

	log.Info("feedback submitted")
	return Result{Success: true}
}

func (c *Client) fields(sub feedback.Submission) map[string]any {
	fields := map[string]any{
		"Submission ID": sub.ID,
		"Type":          string(sub.Form.Type),
		"Urgency":       string(sub.Form.Urgency),
		"Description":   sub.Form.Description,
		"Timestamp":     sub.Timestamp.Format(time.RFC3339),
		"Page":          sub.Page,
		"App":           sub.AppName,
		"User Name":     sub.User.Name,
		"User Email":    sub.User.Email,
	}
	if len(sub.Screenshots) > 0 {
		shots := make([]attachment, 0, len(sub.Screenshots))
		for _, b64 := range sub.Screenshots {
			shots = append(shots, attachment{URL: screenshot.DataURL(b64)})
		}
		fields["Screenshots"] = shots
	}
	return fields
}

// serviceMessage extracts the error message from an Airtable error body, if
// one is present.
func serviceMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var apiErr apiError
	if err := json.Unmarshal(data, &apiErr); err != nil {
		return ""
	}
	return apiErr.Error.Message
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
