// Package notify posts processing outcomes to a Slack incoming webhook.
// Notification is strictly fire-and-forget: a failed post is logged and
// never fails the pipeline.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"brandpulse/internal"
	"brandpulse/internal/util"
)

const footer = "Lemonade Survey Processor"

type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	log        *util.Logger
}

func NewSlackNotifier(webhookURL string, log *util.Logger) *SlackNotifier {
	n := &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
	if !n.Enabled() {
		log.Warn("slack notifications disabled: no webhook URL configured")
	}
	return n
}

func (n *SlackNotifier) Enabled() bool {
	return strings.TrimSpace(n.webhookURL) != ""
}

type field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type attachment struct {
	Color  string  `json:"color"`
	Title  string  `json:"title"`
	Text   string  `json:"text,omitempty"`
	Fields []field `json:"fields,omitempty"`
	Footer string  `json:"footer"`
	TS     int64   `json:"ts"`
}

type message struct {
	Text        string       `json:"text,omitempty"`
	Attachments []attachment `json:"attachments"`
}

// NotifySuccess reports a completed archive run.
func (n *SlackNotifier) NotifySuccess(fileName string, summary internal.ArchiveSummary, processingTime time.Duration) {
	if !n.Enabled() {
		return
	}

	totalRecords := 0
	for _, count := range summary.RecordsAdded {
		totalRecords += count
	}

	fields := []field{
		{Title: "File", Value: fmt.Sprintf("`%s`", fileName), Short: true},
		{Title: "Survey Type", Value: string(summary.SurveyType), Short: true},
		{Title: "CSV Files Processed", Value: fmt.Sprintf("%d", len(summary.CSVFilesProcessed)), Short: true},
		{Title: "CSV Files Skipped", Value: fmt.Sprintf("%d", len(summary.CSVFilesSkipped)), Short: true},
		{Title: "Total Records Added", Value: fmt.Sprintf("%d", totalRecords), Short: true},
		{Title: "Tables Updated", Value: strings.Join(summary.TablesUpdated, ", "), Short: true},
		{Title: "Processing Time", Value: fmt.Sprintf("%.1fs", processingTime.Seconds()), Short: true},
	}

	if len(summary.CSVFilesProcessed) > 0 {
		fields = append(fields, field{
			Title: "Files Processed",
			Value: fmt.Sprintf("```%s```", fileList(summary.CSVFilesProcessed, 5)),
		})
	}

	n.send(message{Attachments: []attachment{{
		Color:  "good",
		Title:  "Survey Processing Completed Successfully",
		Fields: fields,
		Footer: footer,
		TS:     time.Now().Unix(),
	}}})
}

// NotifyFailure reports an archive-level failure.
func (n *SlackNotifier) NotifyFailure(fileName, errMsg string, surveyType internal.SurveyType, processingTime time.Duration) {
	if !n.Enabled() {
		return
	}

	fields := []field{
		{Title: "File", Value: fmt.Sprintf("`%s`", fileName), Short: true},
	}
	if surveyType != "" {
		fields = append(fields, field{Title: "Survey Type", Value: string(surveyType), Short: true})
	}
	fields = append(fields,
		field{Title: "Error", Value: fmt.Sprintf("```%s```", errMsg)},
		field{Title: "Processing Time", Value: fmt.Sprintf("%.1fs", processingTime.Seconds()), Short: true},
	)

	n.send(message{Attachments: []attachment{{
		Color:  "danger",
		Title:  "Survey Processing Failed",
		Fields: fields,
		Footer: footer,
		TS:     time.Now().Unix(),
	}}})
}

// NotifySkipped reports an upload that was skipped without processing.
func (n *SlackNotifier) NotifySkipped(fileName, reason string) {
	if !n.Enabled() {
		return
	}

	n.send(message{Attachments: []attachment{{
		Color: "warning",
		Title: "Survey Processing Skipped",
		Fields: []field{
			{Title: "File", Value: fmt.Sprintf("`%s`", fileName), Short: true},
			{Title: "Reason", Value: reason, Short: true},
		},
		Footer: footer,
		TS:     time.Now().Unix(),
	}}})
}

// NotifyTest verifies the webhook wiring end to end.
func (n *SlackNotifier) NotifyTest() error {
	if !n.Enabled() {
		return fmt.Errorf("slack notifications disabled: no webhook URL configured")
	}

	return n.post(message{
		Text: "Test notification from the survey processor",
		Attachments: []attachment{{
			Color:  "good",
			Title:  "Slack Integration Test",
			Text:   "If you see this message, Slack notifications are working correctly.",
			Footer: footer,
			TS:     time.Now().Unix(),
		}},
	})
}

func (n *SlackNotifier) send(msg message) {
	if err := n.post(msg); err != nil {
		n.log.Error("slack notification failed: %v", err)
	}
}

func (n *SlackNotifier) post(msg message) error {
	blob, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := n.httpClient.Post(n.webhookURL, "application/json", bytes.NewReader(blob))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func fileList(names []string, max int) string {
	shown := names
	more := 0
	if len(shown) > max {
		more = len(shown) - max
		shown = shown[:max]
	}

	lines := make([]string, 0, len(shown)+1)
	for _, name := range shown {
		lines = append(lines, "- "+name)
	}
	if more > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more", more))
	}
	return strings.Join(lines, "\n")
}
