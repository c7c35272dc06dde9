package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"brandpulse/internal"
	"brandpulse/internal/util"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func capture(t *testing.T, status int, got *message) *SlackNotifier {
	t.Helper()
	n := NewSlackNotifier("https://hooks.slack.test/services/T/B/X", util.NewLogger())
	n.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if got != nil {
				if err := json.NewDecoder(r.Body).Decode(got); err != nil {
					t.Fatalf("decode webhook payload: %v", err)
				}
			}
			return &http.Response{
				StatusCode: status,
				Body:       io.NopCloser(strings.NewReader("ok")),
				Header:     make(http.Header),
			}, nil
		}),
	}
	return n
}

func TestNotifierDisabledWithoutWebhook(t *testing.T) {
	n := NewSlackNotifier("", util.NewLogger())
	if n.Enabled() {
		t.Fatal("notifier enabled without webhook URL")
	}
	if err := n.NotifyTest(); err == nil {
		t.Fatal("NotifyTest succeeded without webhook URL")
	}
	// Silent no-ops, not panics.
	n.NotifySuccess("a.zip", internal.ArchiveSummary{}, time.Second)
	n.NotifyFailure("a.zip", "boom", internal.SurveyBrandTracker, time.Second)
	n.NotifySkipped("a.zip", "not_zip_file")
}

func TestNotifySuccessPayload(t *testing.T) {
	var got message
	n := capture(t, http.StatusOK, &got)

	summary := internal.ArchiveSummary{
		Status:            internal.StatusSuccess,
		SurveyType:        internal.SurveyBrandTracker,
		CSVFilesProcessed: []string{"a.csv", "b.csv"},
		TablesUpdated:     []string{"brand_responses", "awareness"},
		RecordsAdded:      map[string]int{"brand_responses": 20, "awareness": 7},
	}
	n.NotifySuccess("tracker.zip", summary, 3*time.Second)

	if len(got.Attachments) != 1 {
		t.Fatalf("attachments = %+v", got.Attachments)
	}
	att := got.Attachments[0]
	if att.Color != "good" {
		t.Fatalf("color = %q", att.Color)
	}

	byTitle := map[string]string{}
	for _, f := range att.Fields {
		byTitle[f.Title] = f.Value
	}
	if byTitle["Total Records Added"] != "27" {
		t.Fatalf("total records = %q", byTitle["Total Records Added"])
	}
	if byTitle["CSV Files Processed"] != "2" {
		t.Fatalf("processed = %q", byTitle["CSV Files Processed"])
	}
	if !strings.Contains(byTitle["Files Processed"], "a.csv") {
		t.Fatalf("file list = %q", byTitle["Files Processed"])
	}
}

func TestNotifyFailurePayload(t *testing.T) {
	var got message
	n := capture(t, http.StatusOK, &got)

	n.NotifyFailure("tracker.zip", "no CSV files found", internal.SurveyBrandTracker, time.Second)

	if len(got.Attachments) != 1 || got.Attachments[0].Color != "danger" {
		t.Fatalf("payload = %+v", got)
	}
	found := false
	for _, f := range got.Attachments[0].Fields {
		if f.Title == "Error" && strings.Contains(f.Value, "no CSV files found") {
			found = true
		}
	}
	if !found {
		t.Fatal("error field missing from failure payload")
	}
}

func TestNotifyTestSurfacesWebhookErrors(t *testing.T) {
	n := capture(t, http.StatusBadRequest, nil)
	if err := n.NotifyTest(); err == nil {
		t.Fatal("expected error for non-200 webhook response")
	}
}

func TestFileListCapsAtMax(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g"}
	got := fileList(names, 5)
	if !strings.Contains(got, "... and 2 more") {
		t.Fatalf("fileList = %q", got)
	}
	if strings.Contains(got, "- f") {
		t.Fatalf("fileList shows entries past the cap: %q", got)
	}
}
