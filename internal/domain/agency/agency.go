// internal/domain/agency/agency.go
package agency

import (
	"database/sql"
	"net/mail"
	"time"
)

// Agency represents a staffing agency listed in the directory.
// Corresponds to the 'agencies' table.
type Agency struct {
	ID        string
	Name      string
	Slug      string
	ClaimedBy sql.NullString // Owning account ID; null means unclaimed.
	CreatedAt time.Time
}

// IsClaimed reports whether the agency has an owning account. Unclaimed
// agencies must never be contacted.
func (a *Agency) IsClaimed() bool {
	return a.ClaimedBy.Valid && a.ClaimedBy.String != ""
}

// OwnerProfile is the account profile of an agency owner.
// Corresponds to the 'profiles' table.
type OwnerProfile struct {
	ID       string
	Email    sql.NullString
	FullName sql.NullString
}

// ValidEmail reports whether the profile carries a syntactically plausible
// email address. Profiles failing this check are skipped, not retried.
func (p *OwnerProfile) ValidEmail() bool {
	if !p.Email.Valid || p.Email.String == "" {
		return false
	}
	_, err := mail.ParseAddress(p.Email.String)
	return err == nil
}

// DisplayName returns the owner's name for email salutations, falling back to
// a generic greeting target when the profile has no full name.
func (p *OwnerProfile) DisplayName() string {
	if p.FullName.Valid && p.FullName.String != "" {
		return p.FullName.String
	}
	return "there"
}
