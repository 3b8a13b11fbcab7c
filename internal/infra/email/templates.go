// internal/infra/email/templates.go
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"compliance_notification_service/internal/domain/compliance"
)

// ReminderParams feeds the tier templates.
type ReminderParams struct {
	OwnerName    string
	AgencyName   string
	Items        []ReminderItem
	DashboardURL string
	Days         int
}

// ReminderItem is one expiring record line in the email body.
type ReminderItem struct {
	Type           string
	ExpirationDate string // Already formatted, e.g. "January 2, 2026".
}

var htmlTmpl = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #1f2937; margin: 0; padding: 24px;">
    <h2 style="color: #b45309;">Compliance Expiration Notice</h2>
    <p>Hi {{.OwnerName}},</p>
    <p>The following compliance {{if gt (len .Items) 1}}items{{else}}item{{end}} for <strong>{{.AgencyName}}</strong> will expire in about {{.Days}} days:</p>
    <ul>
      {{- range .Items}}
      <li><strong>{{.Type}}</strong> &mdash; expires {{.ExpirationDate}}</li>
      {{- end}}
    </ul>
    <p>Keeping these records current keeps your listing active in search results. You can upload renewed documents from your dashboard:</p>
    <p><a href="{{.DashboardURL}}" style="color: #2563eb;">{{.DashboardURL}}</a></p>
    <p style="color: #6b7280; font-size: 13px;">You are receiving this because you own this agency's profile.</p>
  </body>
</html>
`))

// ComposeReminder builds subject, HTML, and plain-text bodies for a tier.
// The subject deliberately names the horizon ("30 Days" / "7 Days") so the
// urgency is visible before opening.
func ComposeReminder(tier compliance.Tier, params ReminderParams) (subject, htmlBody, textBody string, err error) {
	params.Days = tier.Days()
	if tier == compliance.Tier7Day {
		subject = fmt.Sprintf("Urgent: Compliance Items Expiring in 7 Days - %s", params.AgencyName)
	} else {
		subject = fmt.Sprintf("Action Required: Compliance Items Expiring in 30 Days - %s", params.AgencyName)
	}

	var buf bytes.Buffer
	if err = htmlTmpl.Execute(&buf, params); err != nil {
		return "", "", "", fmt.Errorf("failed to render reminder HTML: %w", err)
	}
	htmlBody = buf.String()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", params.OwnerName)
	fmt.Fprintf(&sb, "The following compliance items for %s will expire in about %d days:\n\n", params.AgencyName, params.Days)
	for _, item := range params.Items {
		fmt.Fprintf(&sb, "  - %s (expires %s)\n", item.Type, item.ExpirationDate)
	}
	fmt.Fprintf(&sb, "\nUpload renewed documents from your dashboard: %s\n", params.DashboardURL)
	textBody = sb.String()

	return subject, htmlBody, textBody, nil
}
