// Package aggregate lets one caller treat several authenticated EduPage
// accounts as a single logical source: a registry of live sessions, a
// cross-account name resolver, and a fan-out executor that merges
// per-account results deterministically.
package aggregate

import (
	"sync"
	"time"

	"github.com/mhlavac/edupage-mcp/internal/edupage"
)

// Session is one authenticated connection to one EduPage account. The ID
// is the school subdomain and is unique within a registry. Sessions are
// never mutated after creation; re-login replaces the whole entry.
type Session struct {
	ID        string
	Client    edupage.Client
	CreatedAt time.Time
}

// Registry is the table of live sessions, keyed by account id. Snapshots
// preserve registration order so merged multi-account output stays
// deterministic. Construct one per process (or per test) and pass it by
// reference; there is no package-level instance.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	order    []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register inserts the session for id, replacing any prior one. Replacing
// is legal (re-login) and keeps the id's original position in the
// registration order.
func (r *Registry) Register(id string, client edupage.Client) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := &Session{ID: id, Client: client, CreatedAt: time.Now()}
	if _, exists := r.sessions[id]; !exists {
		r.order = append(r.order, id)
	}
	r.sessions[id] = session
	return session
}

// Get returns the session for id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if session, ok := r.sessions[id]; ok {
		return session, nil
	}
	return nil, errSessionNotFound(id, r.idsLocked())
}

// ResolveDefault returns the session an operation should use when it needs
// exactly one. An explicit id wins; otherwise a sole registered session is
// the default, an empty registry is a NOT_AUTHENTICATED failure, and two
// or more sessions without an explicit id is an AMBIGUOUS_SESSION failure.
func (r *Registry) ResolveDefault(explicitID string) (*Session, error) {
	if explicitID != "" {
		return r.Get(explicitID)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	switch len(r.order) {
	case 0:
		return nil, errNotAuthenticated()
	case 1:
		return r.sessions[r.order[0]], nil
	default:
		return nil, errAmbiguousSession(r.idsLocked())
	}
}

// All returns a snapshot of every session in registration order.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		sessions = append(sessions, r.sessions[id])
	}
	return sessions
}

// IDs returns the registered account ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.idsLocked()
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) idsLocked() []string {
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}
