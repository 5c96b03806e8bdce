package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultIdleTimeout = 2 * time.Hour

// Manager is the in-memory registry of live sessions. Runs are
// ephemeral: evicting or restarting the process forgets them.
type Manager struct {
	source Source
	idle   time.Duration
	logger zerolog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewManager(source Source, idleTimeout time.Duration, logger zerolog.Logger) *Manager {
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}
	return &Manager{
		source:   source,
		idle:     idleTimeout,
		logger:   logger.With().Str("component", "session_manager").Logger(),
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create registers a new session on the selection screen.
func (m *Manager) Create(studentName string) *Session {
	s := newSession(m.source, time.Now())
	s.studentName = strings.TrimSpace(studentName)

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Info().Str("session_id", s.ID.String()).Msg("session created")
	return s
}

// Get looks up a live session.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Delete removes a session, reporting whether it existed.
func (m *Manager) Delete(id uuid.UUID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return false
	}
	delete(m.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle past the configured timeout and returns
// the ids of the evicted sessions.
func (m *Manager) Sweep(now time.Time) []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	var evicted []uuid.UUID
	for id, s := range m.sessions {
		if now.Sub(s.LastTouched()) > m.idle {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	if len(evicted) > 0 {
		m.logger.Info().Int("evicted", len(evicted)).Int("remaining", len(m.sessions)).Msg("idle sessions evicted")
	}
	return evicted
}
