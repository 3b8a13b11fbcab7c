// internal/infra/database/postgres_agency_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"compliance_notification_service/internal/domain/agency"

	"github.com/lib/pq"
)

type PostgresAgencyRepository struct {
	db *sql.DB
}

func NewPostgresAgencyRepository(db *sql.DB) *PostgresAgencyRepository {
	return &PostgresAgencyRepository{db: db}
}

// ListClaimedByIDs fetches the claimed agencies among ids in one batched
// query. Unclaimed and unknown IDs are filtered out by the WHERE clause, not
// reported as errors.
func (r *PostgresAgencyRepository) ListClaimedByIDs(ctx context.Context, ids []string) ([]*agency.Agency, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, name, slug, claimed_by, created_at
              FROM agencies
              WHERE id = ANY($1) AND claimed_by IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error listing claimed agencies: %w", err)
	}
	defer rows.Close()

	var agencies []*agency.Agency
	for rows.Next() {
		a := &agency.Agency{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Slug, &a.ClaimedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning agency: %w", err)
		}
		agencies = append(agencies, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating agencies: %w", err)
	}
	return agencies, nil
}

type PostgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) ListByIDs(ctx context.Context, ids []string) ([]*agency.OwnerProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, email, full_name FROM profiles WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error listing owner profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*agency.OwnerProfile
	for rows.Next() {
		p := &agency.OwnerProfile{}
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName); err != nil {
			return nil, fmt.Errorf("error scanning owner profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating owner profiles: %w", err)
	}
	return profiles, nil
}
