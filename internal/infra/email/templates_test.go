package email

import (
	"strings"
	"testing"

	"compliance_notification_service/internal/domain/compliance"
)

func reminderParams() ReminderParams {
	return ReminderParams{
		OwnerName:    "Pat Jones",
		AgencyName:   "BuildRight Staffing",
		DashboardURL: "https://staffdirectory.test/dashboard/compliance",
		Items: []ReminderItem{
			{Type: "General Liability Insurance", ExpirationDate: "September 25, 2026"},
			{Type: "Workers Comp", ExpirationDate: "September 26, 2026"},
		},
	}
}

func TestComposeReminder_30Day(t *testing.T) {
	subject, htmlBody, textBody, err := ComposeReminder(compliance.Tier30Day, reminderParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(subject, "30 Days") {
		t.Errorf("subject should name the horizon, got %q", subject)
	}
	if !strings.Contains(subject, "BuildRight Staffing") {
		t.Errorf("subject should name the agency, got %q", subject)
	}
	for _, body := range []string{htmlBody, textBody} {
		if !strings.Contains(body, "Pat Jones") {
			t.Error("body should greet the owner by name")
		}
		if !strings.Contains(body, "General Liability Insurance") || !strings.Contains(body, "Workers Comp") {
			t.Error("body should list every expiring item")
		}
		if !strings.Contains(body, "https://staffdirectory.test/dashboard/compliance") {
			t.Error("body should link the dashboard")
		}
	}
}

func TestComposeReminder_7Day(t *testing.T) {
	subject, _, textBody, err := ComposeReminder(compliance.Tier7Day, reminderParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(subject, "7 Days") {
		t.Errorf("subject should name the horizon, got %q", subject)
	}
	if !strings.Contains(textBody, "7 days") {
		t.Errorf("text body should name the horizon, got %q", textBody)
	}
}

func TestComposeReminder_EscapesHTML(t *testing.T) {
	params := reminderParams()
	params.AgencyName = `Build<script>alert(1)</script>Right`

	_, htmlBody, _, err := ComposeReminder(compliance.Tier30Day, params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(htmlBody, "<script>") {
		t.Fatal("agency name must be HTML-escaped")
	}
}
