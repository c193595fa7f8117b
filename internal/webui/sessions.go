package webui

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	manorbill "github.com/emeraldlabs/manorbill-go"
)

const (
	sessionCookie = "manorbill_session"

	// Idle stores are evicted so the map stays bounded on a long-lived
	// server. Eviction runs when a new session is created.
	sessionTTL  = 4 * time.Hour
	maxSessions = 10_000
)

type sessionEntry struct {
	store    *manorbill.Session
	lastSeen time.Time
}

// sessionManager maps browser cookies to table stores. Each session
// identity owns exactly one store; stores are never shared across
// identities.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

func newSessionManager() *sessionManager {
	return &sessionManager{
		sessions: make(map[string]*sessionEntry),
		now:      time.Now,
	}
}

// session returns the store for the requesting browser, creating it and
// setting the cookie on first contact. Any contact refreshes the idle
// clock.
func (m *sessionManager) session(w http.ResponseWriter, r *http.Request) *manorbill.Session {
	now := m.now()

	if c, err := r.Cookie(sessionCookie); err == nil {
		m.mu.Lock()
		if e, ok := m.sessions[c.Value]; ok {
			e.lastSeen = now
			m.mu.Unlock()
			return e.store
		}
		m.mu.Unlock()
	}

	id := uuid.NewString()
	store := manorbill.NewSession()

	m.mu.Lock()
	m.prune(now)
	m.sessions[id] = &sessionEntry{store: store, lastSeen: now}
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return store
}

// prune drops idle stores and, while still at capacity, the least
// recently seen one. Callers hold mu.
func (m *sessionManager) prune(now time.Time) {
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) > sessionTTL {
			delete(m.sessions, id)
		}
	}
	for len(m.sessions) >= maxSessions {
		var oldestID string
		var oldest time.Time
		for id, e := range m.sessions {
			if oldestID == "" || e.lastSeen.Before(oldest) {
				oldestID, oldest = id, e.lastSeen
			}
		}
		delete(m.sessions, oldestID)
	}
}
