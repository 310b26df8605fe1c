package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/metrics"
)

// Factory builds a session for a freshly allocated session ID
type Factory func(sessionID string) (*Session, error)

// Registry holds the sessions of the HTTP API. Sessions are independent; the
// registry only guards the map and forgets sessions left idle longer than the
// retention period once StartCleanup runs.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  Factory
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// Tracking for cleanup
	timesMu  sync.Mutex
	lastUsed map[string]time.Time
	now      func() time.Time
}

func NewRegistry(factory Factory, logger *slog.Logger, m *metrics.Metrics) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		logger:   logger,
		metrics:  m,
		lastUsed: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Create starts a new session on a blank document
func (r *Registry) Create() (*Session, error) {
	id := uuid.NewString()
	s, err := r.factory(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[id] = s
	r.touch(id)
	r.mu.Unlock()

	r.metrics.SessionOpened()
	r.logger.Info("editor session opened", "session_id", id, "document_id", s.DocumentID())
	return s, nil
}

// Get returns a session and marks it as used. Every HTTP operation on a
// session, mutating or not, goes through Get.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.NotFound("session not found")
	}
	// touched under the read lock so eviction never races a live request
	r.touch(id)
	return s, nil
}

// Close drops a session. Unsaved edits are lost.
func (r *Registry) Close(id string) error {
	if !r.remove(id) {
		return domain.NotFound("session not found")
	}
	r.metrics.SessionClosed()
	r.logger.Info("editor session closed", "session_id", id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// StartCleanup evicts sessions idle for longer than retention, checking every
// interval. Blocks until ctx is done.
func (r *Registry) StartCleanup(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.evictIdle(retention)
		}
	}
}

// evictIdle removes sessions not used within retention and returns how many
// were dropped.
func (r *Registry) evictIdle(retention time.Duration) int {
	now := r.now()

	var evicted []string
	r.mu.Lock()
	r.timesMu.Lock()
	for id, used := range r.lastUsed {
		if now.Sub(used) > retention {
			delete(r.lastUsed, id)
			if _, ok := r.sessions[id]; ok {
				delete(r.sessions, id)
				evicted = append(evicted, id)
			}
		}
	}
	r.timesMu.Unlock()
	r.mu.Unlock()

	for _, id := range evicted {
		r.metrics.SessionClosed()
		r.logger.Info("editor session expired", "session_id", id, "idle_for", retention.String())
	}
	return len(evicted)
}

func (r *Registry) touch(id string) {
	r.timesMu.Lock()
	r.lastUsed[id] = r.now()
	r.timesMu.Unlock()
}

func (r *Registry) remove(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	r.timesMu.Lock()
	delete(r.lastUsed, id)
	r.timesMu.Unlock()
	return ok
}
