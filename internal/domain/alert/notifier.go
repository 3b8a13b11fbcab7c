// internal/domain/alert/notifier.go
package alert

// Notifier delivers best-effort operational messages (run summaries, failure
// alerts) to whoever is on call. Failures to notify never fail the job.
type Notifier interface {
	Notify(text string) error
}
