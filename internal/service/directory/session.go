// internal/service/directory/session.go

package directory

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/robfig/cron/v3"

	geosvc "hackdir/internal/service/geo"
)

// SessionManagerConfig controls session lifetime handling.
type SessionManagerConfig struct {
	// IdleExpiry is how long a session may go untouched before the
	// sweeper drops it.
	IdleExpiry time.Duration

	// SweepSchedule is a cron expression for the expiry sweep.
	SweepSchedule string
}

// SessionManager hands out per-visitor Directory aggregators over one
// shared snapshot and expires them when idle.
type SessionManager struct {
	snapshot *Snapshot
	resolver *geosvc.Resolver
	nc       *nats.Conn
	config   SessionManagerConfig

	mu       sync.RWMutex
	sessions map[string]*Directory

	cron *cron.Cron
}

// NewSessionManager creates a session registry over the shared snapshot.
func NewSessionManager(snapshot *Snapshot, resolver *geosvc.Resolver, nc *nats.Conn, config SessionManagerConfig) *SessionManager {
	return &SessionManager{
		snapshot: snapshot,
		resolver: resolver,
		nc:       nc,
		config:   config,
		sessions: make(map[string]*Directory),
	}
}

// Create registers a new session and returns its ID and aggregator.
func (m *SessionManager) Create() (string, *Directory) {
	id := uuid.NewString()
	d := NewDirectory(m.snapshot, m.resolver, m.nc, id)

	m.mu.Lock()
	m.sessions[id] = d
	m.mu.Unlock()

	return id, d
}

// Get returns the session's aggregator and marks it active.
func (m *SessionManager) Get(id string) (*Directory, bool) {
	m.mu.RLock()
	d, ok := m.sessions[id]
	m.mu.RUnlock()

	if ok {
		d.touch()
	}
	return d, ok
}

// Snapshot exposes the shared immutable snapshot.
func (m *SessionManager) Snapshot() *Snapshot {
	return m.snapshot
}

// StartSweeper schedules the idle-session sweep.
func (m *SessionManager) StartSweeper() error {
	c := cron.New()
	if _, err := c.AddFunc(m.config.SweepSchedule, m.sweep); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	c.Start()
	m.cron = c
	return nil
}

// Stop halts the sweeper.
func (m *SessionManager) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

func (m *SessionManager) sweep() {
	cutoff := time.Now().Add(-m.config.IdleExpiry)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, d := range m.sessions {
		if d.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		log.Printf("Expired %d idle sessions, %d remaining", removed, len(m.sessions))
	}
}
