// internal/domain/compliance/item.go
package compliance

import (
	"database/sql"
	"time"
)

// Item represents a single compliance record (license, insurance certificate,
// bond, etc.) held by an agency. Corresponds to the 'compliance_items' table.
type Item struct {
	ID                      string
	AgencyID                string
	ComplianceType          string
	ExpirationDate          sql.NullTime
	Last30DayReminderSentAt sql.NullTime
	Last7DayReminderSentAt  sql.NullTime
	IsActive                bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// ReminderSentAt returns the tracking timestamp for the given tier.
func (i *Item) ReminderSentAt(tier Tier) sql.NullTime {
	if tier == Tier7Day {
		return i.Last7DayReminderSentAt
	}
	return i.Last30DayReminderSentAt
}

// DaysUntilExpiration computes the whole-day distance from now to the item's
// expiration date, both truncated to UTC midnight. Time-of-day is deliberately
// ignored so the result does not shift with the job's invocation hour or the
// server timezone.
func (i *Item) DaysUntilExpiration(now time.Time) int {
	if !i.ExpirationDate.Valid {
		return -1
	}
	exp := i.ExpirationDate.Time.UTC()
	expMidnight := time.Date(exp.Year(), exp.Month(), exp.Day(), 0, 0, 0, 0, time.UTC)
	nowUTC := now.UTC()
	nowMidnight := time.Date(nowUTC.Year(), nowUTC.Month(), nowUTC.Day(), 0, 0, 0, 0, time.UTC)
	return int(expMidnight.Sub(nowMidnight) / (24 * time.Hour))
}
