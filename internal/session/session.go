package session

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slok/tasklist/internal/log"
	"github.com/slok/tasklist/internal/model"
)

// Session is the state of a single browser session: the cached collection
// and the pending due today alerts.
//
// Callers must hold the session lock while reading or mutating it.
type Session struct {
	ID string

	mu       sync.Mutex
	tasks    []model.Task
	loaded   bool
	alerts   []model.Alert
	lastSeen time.Time
}

// Lock locks the session for the duration of a request.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock unlocks the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Loaded returns true when the collection has already been hydrated.
func (s *Session) Loaded() bool { return s.loaded }

// Tasks returns the cached collection.
func (s *Session) Tasks() []model.Task { return s.tasks }

// SetTasks replaces the cached collection and marks it as loaded.
func (s *Session) SetTasks(tasks []model.Task) {
	s.tasks = tasks
	s.loaded = true
}

// ArmAlerts sets the alerts that the next render will show.
func (s *Session) ArmAlerts(alerts []model.Alert) {
	s.alerts = slices.Clone(alerts)
}

// TakeAlerts returns the pending alerts and disarms them, a second call
// returns nothing until alerts are armed again.
func (s *Session) TakeAlerts() []model.Alert {
	alerts := s.alerts
	s.alerts = nil
	return alerts
}

// PendingAlerts returns the pending alerts without disarming them.
func (s *Session) PendingAlerts() []model.Alert {
	return slices.Clone(s.alerts)
}

// ManagerConfig is the configuration for the session manager.
type ManagerConfig struct {
	// TTL is how long an idle session is kept.
	TTL time.Duration
	// SweepInterval is how often expired sessions are removed when running.
	SweepInterval time.Duration
	Now           func() time.Time
	// IDGenerator returns new session IDs, defaults to random UUIDs.
	IDGenerator func() string
	Logger      log.Logger
}

func (c *ManagerConfig) defaults() error {
	if c.TTL == 0 {
		c.TTL = 24 * time.Hour
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.IDGenerator == nil {
		c.IDGenerator = uuid.NewString
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "session.Manager"})
	return nil
}

// Manager keeps the sessions in memory. Sessions are lost on restart, the
// durable repository is the source of truth across sessions.
type Manager struct {
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	newID         func() string
	logger        log.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a new session manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Manager{
		ttl:           cfg.TTL,
		sweepInterval: cfg.SweepInterval,
		now:           cfg.Now,
		newID:         cfg.IDGenerator,
		logger:        cfg.Logger,
		sessions:      map[string]*Session{},
	}, nil
}

// Get returns the session for id, creating a new one when id is unknown or
// expired. The returned bool is true when the session was created.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if s, ok := m.sessions[id]; ok && id != "" {
		if now.Sub(s.lastSeen) <= m.ttl {
			s.lastSeen = now
			return s, false
		}
		delete(m.sessions, id)
	}

	s := &Session{ID: m.newID(), lastSeen: now}
	m.sessions[s.ID] = s
	m.logger.Debugf("New session %s", s.ID)

	return s, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.ttl {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Debugf("Removed %d expired sessions", removed)
	}
	return removed
}

// Run sweeps expired sessions periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}
