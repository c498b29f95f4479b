package session

import "sync"

// Manager is the registry of client sessions, keyed by session id. State
// is process-scoped; nothing here survives a restart, matching the
// tab-scoped lifecycle of the generated sets.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for the id, creating it on first use.
func (m *Manager) Get(sessionID string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if ok {
		return s
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[sessionID]; ok {
		return s
	}
	s = &Session{}
	m.sessions[sessionID] = s
	return s
}
