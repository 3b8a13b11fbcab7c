// internal/domain/email/client.go
package email

import (
	"context"
	"fmt"
	"time"
)

// Message is a fully composed email ready for dispatch. Headers carries
// provider-level extras such as the idempotency key.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
	Headers map[string]string
}

// SendResult is returned on successful dispatch.
type SendResult struct {
	ID string // Provider-assigned message ID.
}

// RateLimitError signals an HTTP 429 from the provider. RetryAfter is zero
// when the provider did not suggest a wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("email provider rate limited (retry after %s)", e.RetryAfter)
	}
	return "email provider rate limited"
}

// Client defines an interface for dispatching email through the provider.
// Implementations classify provider failures exactly once: a 429 becomes a
// *RateLimitError, everything else a plain error. Callers never re-inspect
// provider response shapes.
type Client interface {
	Send(ctx context.Context, msg Message) (*SendResult, error)
}
