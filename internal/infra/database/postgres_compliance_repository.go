// internal/infra/database/postgres_compliance_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"compliance_notification_service/internal/domain/compliance"

	"github.com/lib/pq" // For pq.Array and driver registration
)

type PostgresComplianceRepository struct {
	db *sql.DB
}

func NewPostgresComplianceRepository(db *sql.DB) *PostgresComplianceRepository {
	return &PostgresComplianceRepository{db: db}
}

// trackingColumn maps a tier to its column name. The column is interpolated
// into SQL text, so it must come from this fixed mapping and never from input.
func trackingColumn(tier compliance.Tier) string {
	if tier == compliance.Tier7Day {
		return "last_7_day_reminder_sent"
	}
	return "last_30_day_reminder_sent"
}

func (r *PostgresComplianceRepository) ListExpiring(ctx context.Context) ([]*compliance.Item, error) {
	query := `SELECT id, agency_id, compliance_type, expiration_date,
                     last_30_day_reminder_sent, last_7_day_reminder_sent,
                     is_active, created_at, updated_at
              FROM compliance_items
              WHERE is_active = TRUE AND expiration_date IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing expiring compliance items: %w", err)
	}
	defer rows.Close()

	var items []*compliance.Item
	for rows.Next() {
		item := &compliance.Item{}
		if err := rows.Scan(
			&item.ID, &item.AgencyID, &item.ComplianceType, &item.ExpirationDate,
			&item.Last30DayReminderSentAt, &item.Last7DayReminderSentAt,
			&item.IsActive, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning compliance item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating compliance items: %w", err)
	}
	return items, nil
}

func (r *PostgresComplianceRepository) MarkReminderSent(ctx context.Context, tier compliance.Tier, ids []string, sentAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(`UPDATE compliance_items
              SET %s = $1, updated_at = NOW()
              WHERE id = ANY($2)`, trackingColumn(tier))

	if _, err := r.db.ExecContext(ctx, query, sentAt, pq.Array(ids)); err != nil {
		return fmt.Errorf("error marking %s reminder sent for %d items: %w", tier, len(ids), err)
	}
	return nil
}

func (r *PostgresComplianceRepository) RestoreReminderSentAt(ctx context.Context, tier compliance.Tier, originals map[string]sql.NullTime) error {
	if len(originals) == 0 {
		return nil
	}

	txn, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for reminder rollback: %w", err)
	}
	defer txn.Rollback() // Rollback if not committed

	query := fmt.Sprintf(`UPDATE compliance_items
              SET %s = $1, updated_at = NOW()
              WHERE id = $2`, trackingColumn(tier))
	stmt, err := txn.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for reminder rollback: %w", err)
	}
	defer stmt.Close()

	// Each item gets its own captured original back; items reminded in an
	// earlier run keep that earlier timestamp rather than being nulled.
	for id, original := range originals {
		if _, err := stmt.ExecContext(ctx, original, id); err != nil {
			return fmt.Errorf("error restoring %s reminder timestamp for item %s: %w", tier, id, err)
		}
	}

	return txn.Commit()
}
