package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTTL           = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

type managed struct {
	sess     *Session
	lastSeen time.Time
}

// Manager creates and tracks sessions by id, evicting sessions idle longer
// than the TTL.
type Manager struct {
	cfg ManagerConfig
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*managed
}

// ManagerConfig tunes the Manager.
type ManagerConfig struct {
	// Session is the per-session configuration handed to New.
	Session Config
	// TTL is how long an idle session survives before eviction.
	TTL time.Duration
	// SweepInterval is how often the janitor scans for expired sessions.
	SweepInterval time.Duration
}

// NewManager creates a Manager. Zero durations fall back to defaults.
func NewManager(cfg ManagerConfig) *Manager {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	return &Manager{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*managed),
	}
}

// Create makes a fresh session with a generated id.
func (m *Manager) Create() *Session {
	s := New(uuid.New().String(), m.cfg.Session)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = &managed{sess: s, lastSeen: m.now()}
	return s
}

// Get returns the session with the given id, refreshing its idle timer.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.sess, true
}

// GetOrCreate returns the session with the given id, or a new one when the
// id is unknown or empty.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s
		}
	}
	return m.Create()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Run sweeps expired sessions until ctx is cancelled. Evicted sessions are
// closed so pending settlements are cancelled with them.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			m.sweep(now)
		}
	}
}

func (m *Manager) sweep(now time.Time) {
	m.mu.Lock()
	var expired []*Session
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) >= m.cfg.TTL {
			expired = append(expired, e.sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	// Close outside the manager lock; Close takes the session lock.
	for _, s := range expired {
		s.Close()
	}
}
