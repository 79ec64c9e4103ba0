package quiz

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionTimeout is how long an idle session survives a sweep.
const DefaultSessionTimeout = 30 * time.Minute

// Registry is the in-memory store of active sessions. It is passed around
// explicitly so tests and alternative stores never share hidden state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
	log      *zap.Logger
}

type RegistryOption func(*Registry)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create registers an empty session and returns it. Ids combine the type,
// the optional scope, a second-resolution timestamp and a random suffix.
func (r *Registry) Create(typ Type, scope string) *Session {
	id := r.newID(typ, scope)
	s := newSession(id, typ, scope, r.now)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.Info("Created quiz session", zap.String("quiz_id", id), zap.String("quiz_type", string(typ)))
	return s
}

// Get returns the session for id, or nil when it is unknown.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Remove drops the session; unknown ids are ignored.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		r.log.Info("Cleaned up quiz session", zap.String("quiz_id", id))
	}
}

// SweepExpired evicts sessions idle for longer than timeout and returns how
// many were removed. A non-positive timeout uses DefaultSessionTimeout.
func (r *Registry) SweepExpired(timeout time.Duration) int {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	cutoff := r.now().Add(-timeout)

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastAccessed().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.log.Info("Swept expired quiz sessions", zap.Int("removed", removed))
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) newID(typ Type, scope string) string {
	parts := []string{string(typ)}
	if scope != "" {
		parts = append(parts, slug(scope))
	}
	parts = append(parts, r.now().UTC().Format("20060102_150405"), uuid.NewString()[:8])
	return strings.Join(parts, "_")
}

// slug keeps ids URL-safe: category labels contain spaces, '&' and '/'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
