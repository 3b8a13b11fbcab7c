// internal/domain/agency/repository.go
package agency

import "context"

// Repository defines lookups for agencies. Both methods are batched by ID
// list; the reminder job must never fan out one query per item.
type Repository interface {
	// ListClaimedByIDs returns the agencies among ids that have a non-null
	// claimed_by. Missing or unclaimed IDs are simply absent from the result.
	ListClaimedByIDs(ctx context.Context, ids []string) ([]*Agency, error)
}

// ProfileRepository defines batched lookups for owner profiles.
type ProfileRepository interface {
	// ListByIDs returns the profiles for the given account IDs. Missing IDs
	// are absent from the result, not an error.
	ListByIDs(ctx context.Context, ids []string) ([]*OwnerProfile, error)
}
