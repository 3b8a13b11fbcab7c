// internal/domain/compliance/tier.go
package compliance

// Tier identifies one of the two reminder horizons. Each tier has its own
// selection window and its own tracking column on the compliance item.
type Tier string

const (
	Tier30Day Tier = "30_DAY"
	Tier7Day  Tier = "7_DAY"
)

// Days returns the nominal horizon of the tier in days.
func (t Tier) Days() int {
	if t == Tier7Day {
		return 7
	}
	return 30
}

// Window returns the inclusive [min, max] days-until-expiration range for the
// tier. The three-day width tolerates the job running at varying times or
// skipping a day entirely.
func (t Tier) Window() (min, max int) {
	if t == Tier7Day {
		return 5, 7
	}
	return 28, 30
}

// Contains reports whether daysUntil falls inside the tier's window.
func (t Tier) Contains(daysUntil int) bool {
	min, max := t.Window()
	return daysUntil >= min && daysUntil <= max
}
