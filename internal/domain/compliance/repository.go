// internal/domain/compliance/repository.go
package compliance

import (
	"context"
	"database/sql"
	"time"
)

// Repository defines the persistence operations the reminder job needs for
// compliance items. The job never creates or deletes items; it only reads
// candidates and mutates the tier tracking timestamps.
type Repository interface {
	// ListExpiring returns all items eligible for reminder consideration:
	// is_active = true and a non-null expiration date.
	ListExpiring(ctx context.Context) ([]*Item, error)

	// MarkReminderSent sets the tier's tracking timestamp to sentAt for every
	// item in ids, in a single batched update.
	MarkReminderSent(ctx context.Context, tier Tier, ids []string, sentAt time.Time) error

	// RestoreReminderSentAt writes each item's tracking timestamp back to the
	// supplied original value. Used to roll back a mark-sent after a failed
	// email dispatch; originals may be null for items never reminded before.
	RestoreReminderSentAt(ctx context.Context, tier Tier, originals map[string]sql.NullTime) error
}
