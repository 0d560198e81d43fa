package airtable

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jglaspey/givefeedback/internal/feedback"
)

func testSubmission() feedback.Submission {
	return feedback.NewSubmission(
		feedback.NewFormData(feedback.TypeBug, feedback.UrgencyHigh, "it broke"),
		[]string{"c2hvdDE=", "c2hvdDI="},
		"dashboard", "demo-app",
		feedback.User{Name: "Jay", Email: "jay@example.com"},
	)
}

func newTestClient(url string) *Client {
	return New(Config{APIKey: "key-test", BaseID: "appBase", Table: "Feedback", BaseURL: url})
}

func TestSubmitSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"records":[{"id":"rec123"}]}`))
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Submit(context.Background(), testSubmission())
	require.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, "/appBase/Feedback", gotPath)
	assert.Equal(t, "Bearer key-test", gotAuth)

	var payload struct {
		Records []struct {
			Fields map[string]any `json:"fields"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	require.Len(t, payload.Records, 1)
	fields := payload.Records[0].Fields
	assert.Equal(t, "Bug", fields["Type"])
	assert.Equal(t, "High", fields["Urgency"])
	assert.Equal(t, "it broke", fields["Description"])
	assert.Equal(t, "demo-app", fields["App"])
	assert.Equal(t, "dashboard", fields["Page"])
	assert.Equal(t, "Jay", fields["User Name"])

	shots, ok := fields["Screenshots"].([]any)
	require.True(t, ok)
	require.Len(t, shots, 2)
	first := shots[0].(map[string]any)
	assert.Equal(t, "data:image/png;base64,c2hvdDE=", first["url"])

	ts, ok := fields["Timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestSubmitServiceErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":{"type":"INVALID_REQUEST","message":"Network timeout"}}`))
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Submit(context.Background(), testSubmission())
	assert.False(t, res.Success)
	assert.Equal(t, "Network timeout", res.Error)
}

func TestSubmitFallbackMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Submit(context.Background(), testSubmission())
	assert.False(t, res.Success)
	assert.Equal(t, DefaultErrorMessage, res.Error)
}

func TestSubmitRetriesTransientFailure(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Submit(context.Background(), testSubmission())
	assert.True(t, res.Success)
	assert.Equal(t, 2, attempts)
}

func TestSubmitDoesNotRetryClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"type":"AUTHENTICATION_REQUIRED","message":"Invalid API key"}}`))
	}))
	defer srv.Close()

	res := newTestClient(srv.URL).Submit(context.Background(), testSubmission())
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid API key", res.Error)
	assert.Equal(t, 1, attempts)
}

func TestSubmitNoScreenshotsOmitsField(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sub := testSubmission()
	sub.Screenshots = nil
	res := newTestClient(srv.URL).Submit(context.Background(), sub)
	require.True(t, res.Success)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	records := payload["records"].([]any)
	fields := records[0].(map[string]any)["fields"].(map[string]any)
	_, present := fields["Screenshots"]
	assert.False(t, present)
}
