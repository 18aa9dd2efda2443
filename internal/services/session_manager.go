package services

import (
	"context"
	"sync"
	"time"

	"propertyagent/internal/metrics"
	"propertyagent/internal/utils"

	"github.com/google/uuid"
)

// SessionManager owns the live sessions and evicts idle ones.
type SessionManager struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
	deps     Dependencies
	idleTTL  time.Duration
}

func NewSessionManager(deps Dependencies, idleTTL time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		deps:     deps,
		idleTTL:  idleTTL,
	}
}

func (sm *SessionManager) Dependencies() Dependencies {
	return sm.deps
}

func (sm *SessionManager) Create() *Session {
	session := NewSession(uuid.NewString(), sm.deps)

	sm.mutex.Lock()
	sm.sessions[session.ID] = session
	count := len(sm.sessions)
	sm.mutex.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	utils.LogInfo("Session %s created for agent %s", session.ID, sm.deps.AgentID)
	return session
}

func (sm *SessionManager) Get(id string) (*Session, error) {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	session, exists := sm.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (sm *SessionManager) Delete(id string) error {
	sm.mutex.Lock()
	session, exists := sm.sessions[id]
	if exists {
		delete(sm.sessions, id)
	}
	count := len(sm.sessions)
	sm.mutex.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	metrics.ActiveSessions.Set(float64(count))
	session.Close()
	utils.LogInfo("Session %s closed", id)
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return len(sm.sessions)
}

// EvictIdle closes sessions not used since before the cutoff and returns how
// many were removed.
func (sm *SessionManager) EvictIdle(cutoff time.Time) int {
	var idle []*Session

	sm.mutex.Lock()
	for id, session := range sm.sessions {
		if session.LastSeen().Before(cutoff) && !session.IsProcessing() {
			idle = append(idle, session)
			delete(sm.sessions, id)
		}
	}
	count := len(sm.sessions)
	sm.mutex.Unlock()

	for _, session := range idle {
		session.Close()
	}
	if len(idle) > 0 {
		metrics.ActiveSessions.Set(float64(count))
		utils.LogInfo("Evicted %d idle sessions", len(idle))
	}
	return len(idle)
}

// Run evicts idle sessions every interval until ctx is done.
func (sm *SessionManager) Run(ctx context.Context, interval time.Duration) {
	if sm.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sm.EvictIdle(now.Add(-sm.idleTTL))
		}
	}
}

// CloseAll closes every session and waits for their background tracking.
func (sm *SessionManager) CloseAll() {
	sm.mutex.Lock()
	sessions := sm.sessions
	sm.sessions = make(map[string]*Session)
	sm.mutex.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	metrics.ActiveSessions.Set(0)
	utils.LogInfo("Closed %d sessions", len(sessions))
}
