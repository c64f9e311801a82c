package auth

import (
	"sync"
	"time"
)

// RevocationRegistry is the process-wide set of tokens invalidated before
// their natural expiry. It is deliberately process-local: a restart empties
// the set and token holders regain validity until expiry. That trade-off is
// accepted for a single-instance deployment; a multi-instance one would back
// this with a shared fast store instead.
//
// Entries are keyed by the full token string and remembered alongside their
// natural expiry so the sweep can drop entries that could no longer pass
// verification anyway.
type RevocationRegistry struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	clock   Clock
}

// NewRevocationRegistry creates an empty registry
func NewRevocationRegistry(clock Clock) *RevocationRegistry {
	if clock == nil {
		clock = systemClock{}
	}
	return &RevocationRegistry{
		entries: make(map[string]time.Time),
		clock:   clock,
	}
}

// Revoke adds a token to the revoked set. Revoking twice is a no-op.
func (r *RevocationRegistry) Revoke(token string, expiry time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[token]; exists {
		return
	}
	r.entries[token] = expiry
}

// RevokeIfActive revokes the token and reports whether this call was the one
// that did it. Two refreshes racing on the same token both leave it revoked,
// but exactly one caller sees true.
func (r *RevocationRegistry) RevokeIfActive(token string, expiry time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[token]; exists {
		return false
	}
	r.entries[token] = expiry
	return true
}

// IsRevoked reports membership. Any verification that starts after a Revoke
// call returns is guaranteed to observe it.
func (r *RevocationRegistry) IsRevoked(token string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, revoked := r.entries[token]
	return revoked
}

// Len returns the number of revoked entries currently held
func (r *RevocationRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// PurgeExpired drops entries whose natural expiry has passed and returns how
// many were removed. An expired token cannot pass verification, so keeping
// its entry is wasted memory, not a correctness concern.
func (r *RevocationRegistry) PurgeExpired() int {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for token, expiry := range r.entries {
		if !expiry.IsZero() && !now.Before(expiry) {
			delete(r.entries, token)
			purged++
		}
	}

	return purged
}
