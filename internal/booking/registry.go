package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minJanitorInterval = time.Second

// SessionFactory builds a new session with the given id.
type SessionFactory func(id string) *Session

// RegistryOptions tunes session eviction. A zero IdleTTL keeps sessions until deleted.
type RegistryOptions struct {
	IdleTTL time.Duration
	Now     func() time.Time
	Logger  *zap.Logger
}

// Registry keeps the live widget sessions in memory.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	factory  SessionFactory

	idleTTL time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewRegistry(factory SessionFactory, opts RegistryOptions) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		idleTTL:  opts.IdleTTL,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Create starts a new session under a fresh uuid.
func (r *Registry) Create() *Session {
	s := r.factory(uuid.NewString())
	s.touch(r.now())

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	s.touch(r.now())
	return s, nil
}

// Delete closes and forgets the session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Expire closes the sessions idle for longer than IdleTTL and returns how many were closed.
func (r *Registry) Expire() int {
	if r.idleTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.idleTTL)

	var expired []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.lastUsedAt().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("expired idle sessions", zap.Int("count", len(expired)), zap.Duration("idle_ttl", r.idleTTL))
	}
	return len(expired)
}

// Run expires idle sessions periodically. It blocks until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	interval := r.idleTTL / 4
	if interval < minJanitorInterval {
		interval = minJanitorInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
