// Package session implements server-side sessions keyed by an opaque,
// cookie-delivered identifier. Values are plain strings. Storage is
// pluggable: an in-memory store for a single process and a Redis store for
// deployments that run more than one instance.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when the session does not exist or has
// expired.
var ErrNotFound = errors.New("session not found")

// idBytes is the number of random bytes in a session ID.
// 32 bytes = 256 bits of entropy, hex-encoded to 64 characters.
const idBytes = 32

// Store persists session values by session ID. Implementations must be safe
// for concurrent use.
type Store interface {
	// Load returns the values of a live session and refreshes its idle
	// expiry. Returns ErrNotFound for unknown or expired sessions.
	Load(ctx context.Context, id string) (map[string]string, error)

	// Save replaces the values of a session, creating it if needed. The
	// session expires after ttl without a Load or Save.
	Save(ctx context.Context, id string, values map[string]string, ttl time.Duration) error

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id string) error
}

// generateID creates a cryptographically random hex-encoded session ID.
func generateID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// copyValues returns a shallow copy so stores never share maps with callers.
func copyValues(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		out[k] = v
	}
	return out
}
