// internal/domain/alert/noop.go
package alert

// NoopNotifier discards all messages. Used when no alert channel is
// configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string) error { return nil }
