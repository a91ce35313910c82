package session

import (
	"sync"
	"time"
)

// Credentials holds the authenticated state for the current panel session.
type Credentials struct {
	Token           string
	AuthenticatedAt time.Time
}

// Manager owns the process-wide session credential.
//
// It is written exactly twice per session lifecycle: Start on successful
// authentication and Destroy on explicit logout or when the transport observes an
// auth-invalid response. Every outbound request reads the token through Token.
type Manager struct {
	mu        sync.RWMutex
	creds     *Credentials
	onDestroy []func()
}

// Option configures a Manager instance.
type Option func(*Manager)

// WithDestroyHook registers a callback fired when the session is torn down.
// Hooks registered at construction time run in registration order.
func WithDestroyHook(fn func()) Option {
	return func(m *Manager) {
		if fn != nil {
			m.onDestroy = append(m.onDestroy, fn)
		}
	}
}

// New creates a session manager with no active session.
func New(opts ...Option) *Manager {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start activates a session with the given token, replacing any existing session
// without firing destroy hooks. Returns ErrEmptyToken if token is empty.
func (m *Manager) Start(token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.creds = &Credentials{
		Token:           token,
		AuthenticatedAt: time.Now().UTC(),
	}
	return nil
}

// Token returns the current session token and whether a session is active.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.creds == nil {
		return "", false
	}
	return m.creds.Token, true
}

// Active reports whether a session is currently established.
func (m *Manager) Active() bool {
	_, ok := m.Token()
	return ok
}

// OnDestroy registers a callback fired when the session is torn down.
// Safe to call after construction; callbacks registered while no session is
// active still fire on the next teardown.
func (m *Manager) OnDestroy(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDestroy = append(m.onDestroy, fn)
}

// Destroy tears the session down and fires destroy hooks.
//
// Teardown is idempotent: hooks fire exactly once per active session, even when
// several auth-invalid responses race to invalidate the same session. Calling
// Destroy with no active session is a no-op.
func (m *Manager) Destroy() {
	m.mu.Lock()
	if m.creds == nil {
		m.mu.Unlock()
		return
	}
	m.creds = nil
	hooks := make([]func(), len(m.onDestroy))
	copy(hooks, m.onDestroy)
	m.mu.Unlock()

	// Hooks run outside the lock so they may call back into the manager.
	for _, fn := range hooks {
		fn()
	}
}
