// Package correlate tracks in-flight location prompts. A quest event
// mints an opaque token; the later button press carries the token back
// so the choice can be merged against the event that triggered it.
package correlate

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Pending links a location prompt to the quest message that caused it.
// SourceText is kept so the flavor text can be re-derived at
// resolution time instead of being stored redundantly.
type Pending struct {
	UserID          int64
	ChatID          int64
	SourceText      string
	SourceTimestamp time.Time
}

// Registry holds pending prompts by correlation token. Entries for
// prompts the user never answers simply linger; they are small and
// bounded by the platform's own message lifetime.
type Registry struct {
	mu      sync.Mutex
	pending map[string]Pending
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{pending: make(map[string]Pending)}
}

// Add records a pending prompt and returns its opaque token.
func (r *Registry) Add(p Pending) string {
	token := uuid.NewString()
	r.mu.Lock()
	r.pending[token] = p
	r.mu.Unlock()
	return token
}

// Lookup returns the pending prompt for a token. The entry stays
// registered; racing duplicate presses may both observe it, which is
// safe because the downstream merge is idempotent.
func (r *Registry) Lookup(token string) (Pending, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[token]
	return p, ok
}

// Release discards a resolved prompt. Releasing an unknown token is a
// no-op.
func (r *Registry) Release(token string) {
	r.mu.Lock()
	delete(r.pending, token)
	r.mu.Unlock()
}

// Len reports the number of prompts still awaiting an answer.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
