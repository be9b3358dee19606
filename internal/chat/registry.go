package chat

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry maps usernames to the sink of their current session. A single
// mutex guards the whole map.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]Sink
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		sessions: make(map[string]Sink),
		logger:   logger,
	}
}

// Register inserts or replaces the session for username. The last
// registration for a name wins; the displaced session is not notified.
func (r *Registry) Register(username string, sink Sink) error {
	if username == "" || sink == nil {
		return ErrUsernameInvalid
	}

	r.mu.Lock()
	_, replaced := r.sessions[username]
	r.sessions[username] = sink
	n := len(r.sessions)
	r.mu.Unlock()

	ConnectedSessions.Set(float64(n))
	if replaced {
		SessionsReplaced.Inc()
		r.logger.Warn("session replaced", "username", username)
	}
	return nil
}

func (r *Registry) Lookup(username string) (Sink, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sink, ok := r.sessions[username]
	return sink, ok
}

// UnregisterIfOwner removes username only while it still maps to sink, so a
// handler whose name was taken over leaves the newer session alone.
func (r *Registry) UnregisterIfOwner(username string, sink Sink) bool {
	r.mu.Lock()
	current, ok := r.sessions[username]
	owner := ok && current == sink
	if owner {
		delete(r.sessions, username)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	if owner {
		ConnectedSessions.Set(float64(n))
	}
	return owner
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Usernames returns the registered names in sorted order.
func (r *Registry) Usernames() []string {
	r.mu.Lock()
	names := lo.Keys(r.sessions)
	r.mu.Unlock()

	sort.Strings(names)
	return names
}
