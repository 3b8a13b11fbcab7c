// internal/infra/httpapi/auth.go
package httpapi

import (
	"crypto/sha256"
	"crypto/subtle"
	"strings"
)

// ValidBearerToken checks the Authorization header value against the shared
// secret. Both sides are hashed before comparison so the operands are always
// the same fixed length; subtle.ConstantTimeCompare then guarantees that
// neither the content nor the length of the presented token leaks through
// response timing.
func ValidBearerToken(header, secret string) bool {
	if secret == "" {
		return false
	}
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return false
	}
	token := header[len(prefix):]
	if token == "" {
		return false
	}

	tokenDigest := sha256.Sum256([]byte(token))
	secretDigest := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(tokenDigest[:], secretDigest[:]) == 1
}
