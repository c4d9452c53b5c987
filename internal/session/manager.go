package session

import (
	"context"
	"sync"
	"time"

	"tech-selector/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a message shown once on the next page render
type Flash struct {
	Kind    string
	Message string
}

// Draft is one user's unsubmitted form state
type Draft struct {
	EvaluatorName string
	Comment       string
	Selections    models.SelectionMatrix
	Flash         *Flash

	lastSeen time.Time
}

// ClearForm resets the grid and comment after a successful submission.
// The evaluator name is kept so the same person can submit again.
func (d *Draft) ClearForm() {
	d.Selections.Reset()
	d.Comment = ""
}

// Manager owns every session draft. Drafts are only touched under the
// manager lock.
type Manager struct {
	mu          sync.Mutex
	drafts      map[string]*Draft
	idleTimeout time.Duration
	now         func() time.Time
	logger      *zap.Logger
}

// NewManager creates a manager that forgets drafts idle for longer than
// idleTimeout. A zero timeout keeps drafts forever.
func NewManager(idleTimeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		drafts:      make(map[string]*Draft),
		idleTimeout: idleTimeout,
		now:         time.Now,
		logger:      logger,
	}
}

// NewID returns a fresh session identifier.
func (m *Manager) NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id could have come from NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (m *Manager) draftLocked(id string) *Draft {
	d, ok := m.drafts[id]
	if !ok {
		d = &Draft{}
		m.drafts[id] = d
		m.logger.Debug("Session started", zap.String("session_id", id))
	}
	d.lastSeen = m.now()
	return d
}

// View returns a copy of the draft, creating an empty one if needed.
func (m *Manager) View(id string) Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.draftLocked(id)
}

// Update runs fn on the draft while holding the lock and returns a copy of
// the result.
func (m *Manager) Update(id string, fn func(d *Draft)) Draft {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.draftLocked(id)
	fn(d)
	return *d
}

// PopFlash returns the pending flash message, if any, and clears it.
func (m *Manager) PopFlash(id string) *Flash {
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.draftLocked(id)
	f := d.Flash
	d.Flash = nil
	return f
}

// Len returns the number of live drafts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.drafts)
}

// Sweep removes idle drafts and returns how many were removed.
func (m *Manager) Sweep() int {
	if m.idleTimeout <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTimeout)
	removed := 0
	for id, d := range m.drafts {
		if d.lastSeen.Before(cutoff) {
			delete(m.drafts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps idle drafts every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || m.idleTimeout <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Session janitor stopped")
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("Expired idle sessions", zap.Int("count", n))
			}
		}
	}
}
