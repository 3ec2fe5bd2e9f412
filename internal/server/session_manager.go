package server

import "sync"

// ActiveSession serializes message handling for one session: the history
// is single-writer per conversation, so only one chat call may run at a
// time against it.
type ActiveSession struct {
	mu sync.Mutex
}

// SessionManager tracks which sessions are active in memory.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*ActiveSession
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*ActiveSession),
	}
}

// Get returns an active session if it exists.
func (sm *SessionManager) Get(sessionID string) (*ActiveSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	as, ok := sm.sessions[sessionID]
	return as, ok
}

// GetOrCreate returns an existing active session or registers a new one.
func (sm *SessionManager) GetOrCreate(sessionID string) *ActiveSession {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if as, ok := sm.sessions[sessionID]; ok {
		return as
	}
	as := &ActiveSession{}
	sm.sessions[sessionID] = as
	return as
}

// Remove drops an active session.
func (sm *SessionManager) Remove(sessionID string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, sessionID)
}
