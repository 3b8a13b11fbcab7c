package scheduler

import (
	"strings"
	"testing"

	"compliance_notification_service/internal/app"
)

func TestFormatSummary(t *testing.T) {
	text := formatSummary(&app.Summary{
		Sent30DayReminders:    3,
		Sent7DayReminders:     1,
		TotalAgenciesNotified: 2,
		Errors:                []string{"7-day reminder for agency ag-9 failed: email dispatch failed"},
		DurationMs:            842,
	})

	for _, want := range []string{
		"842ms",
		"30-day reminders: 3",
		"7-day reminders: 1",
		"Agencies notified: 2",
		"Errors (1):",
		"ag-9",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary text missing %q:\n%s", want, text)
		}
	}
}

func TestFormatSummary_NoErrorsSection(t *testing.T) {
	text := formatSummary(&app.Summary{Errors: []string{}})
	if strings.Contains(text, "Errors") {
		t.Fatalf("clean runs should omit the errors section:\n%s", text)
	}
}
