package drill

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/izaksullivan/Blackjack-Trainer/server/engine"
)

var ErrNoSession = errors.New("unknown session")

// Manager owns the live sessions of one server process.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	seed     int64
	created  int64
	log      *log.Logger
}

// NewManager returns an empty manager. A non-zero seed makes every session
// shoe deterministic, offset by creation order.
func NewManager(logger *log.Logger, seed int64) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{sessions: map[string]*Session{}, seed: seed, log: logger}
}

func (m *Manager) nextSeed() int64 {
	m.created++
	if m.seed == 0 {
		return 0
	}
	return m.seed + m.created
}

// Create starts a session under a fresh id.
func (m *Manager) Create(r engine.Rules) (*Session, error) {
	return m.Restore(uuid.NewString(), r, Progress{})
}

// Restore registers a session under a known id. A session already live
// under that id wins and is returned unchanged, so concurrent restores of
// the same id share one session.
func (m *Manager) Restore(id string, r engine.Rules, p Progress) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s, err := NewSession(id, r, m.nextSeed())
	if err != nil {
		return nil, err
	}
	s.RestoreProgress(p)
	m.sessions[id] = s
	m.log.Debug("session ready", "id", id, "decks", r.Decks, "dealer", r.Dealer, "hands", p.Hands)
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
