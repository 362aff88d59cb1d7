package session

import (
	"context"
	"sync"
	"time"
)

// Factory builds the Session for a browser session id, wiring its token
// store and auth client.
type Factory func(sid string) *Session

// Manager is the registry of live sessions keyed by browser session id.
// Idle entries are evicted in the background so abandoned browser sessions
// don't accumulate.
type Manager struct {
	factory Factory
	ttl     time.Duration

	mu       sync.Mutex
	sessions map[string]*managed

	stopCh chan struct{}
}

type managed struct {
	session    *Session
	lastAccess time.Time
}

// DefaultTTL bounds how long an untouched session stays registered.
const DefaultTTL = 12 * time.Hour

func NewManager(factory Factory, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		factory:  factory,
		ttl:      ttl,
		sessions: make(map[string]*managed),
		stopCh:   make(chan struct{}),
	}
	go m.cleanupLoop()
	return m
}

// Get returns the session for sid, creating it on first sight.
func (m *Manager) Get(sid string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[sid]
	if !ok {
		entry = &managed{session: m.factory(sid)}
		m.sessions[sid] = entry
	}
	entry.lastAccess = time.Now()
	return entry.session
}

// Drop removes the session for sid, clearing its stored record.
func (m *Manager) Drop(ctx context.Context, sid string) {
	m.mu.Lock()
	entry, ok := m.sessions[sid]
	delete(m.sessions, sid)
	m.mu.Unlock()

	if ok {
		_ = entry.session.Logout(ctx)
	}
}

// Len reports the number of registered sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop terminates the background cleanup goroutine.
func (m *Manager) Stop() {
	close(m.stopCh)
}

func (m *Manager) cleanupLoop() {
	interval := m.ttl / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, entry := range m.sessions {
		if entry.lastAccess.Before(cutoff) {
			delete(m.sessions, sid)
		}
	}
}
