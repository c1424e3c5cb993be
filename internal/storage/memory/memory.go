// Package memory keeps a session in memory and writes it as JSON when the
// session ends.
package memory

import (
	"errors"
	"sync"

	"github.com/astrolab/envsim/internal/config"
	"github.com/astrolab/envsim/pkg/core"
)

// ErrNoSession is returned when recording before StartSession.
var ErrNoSession = errors.New("no active session")

// Backend stores session data in memory and exports to JSON
type Backend struct {
	cfg     config.MemoryConfig
	session *core.SessionInfo

	snapshots []core.StatusSnapshot
	thrusts   []core.ThrustCommand

	idCounter      uint
	lastExportPath string
	mu             sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{cfg: cfg}
}

func (b *Backend) Init() error {
	return nil
}

func (b *Backend) Close() error {
	return nil
}

// StartSession begins recording a new session and discards any previous one.
func (b *Backend) StartSession(s *core.SessionInfo) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	s.ID = b.idCounter

	info := *s
	b.session = &info
	b.snapshots = nil
	b.thrusts = nil
	return nil
}

// EndSession exports the recorded session.
func (b *Backend) EndSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoSession
	}
	return b.exportJSON()
}

func (b *Backend) RecordSnapshot(s *core.StatusSnapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoSession
	}
	snap := *s
	snap.Warnings = append([]string(nil), s.Warnings...)
	snap.Alerts = append([]core.Alert(nil), s.Alerts...)
	b.snapshots = append(b.snapshots, snap)
	return nil
}

func (b *Backend) RecordThrust(c *core.ThrustCommand) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		return ErrNoSession
	}
	b.thrusts = append(b.thrusts, *c)
	return nil
}

// Snapshots returns a copy of the recorded snapshots.
func (b *Backend) Snapshots() []core.StatusSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.StatusSnapshot(nil), b.snapshots...)
}

// Thrusts returns a copy of the recorded thrust commands.
func (b *Backend) Thrusts() []core.ThrustCommand {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.ThrustCommand(nil), b.thrusts...)
}

// ExportedFilePath returns the path of the last export, empty before the
// first EndSession.
func (b *Backend) ExportedFilePath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}
