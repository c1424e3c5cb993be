package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/astrolab/envsim/internal/dispatcher"
	"github.com/astrolab/envsim/internal/influx"
	"github.com/astrolab/envsim/internal/session"
	"github.com/astrolab/envsim/internal/storage"
	"github.com/astrolab/envsim/pkg/core"
)

// ErrUnexpectedPayload is returned when an event carries the wrong payload type.
var ErrUnexpectedPayload = errors.New("unexpected event payload")

// Dependencies holds all dependencies for the worker manager
type Dependencies struct {
	Logger *slog.Logger
	// Influx is optional; nil disables time series writes.
	Influx *influx.Manager
}

// Manager moves session output into storage and metrics sinks.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	info    atomic.Pointer[core.SessionInfo]
	events  atomic.Pointer[dispatcher.Dispatcher]
}

// NewManager creates a new worker manager
func NewManager(deps Dependencies, backend storage.Backend) *Manager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Manager{
		deps:    deps,
		backend: backend,
	}
}

// StartSession opens the session in the backend. Events handled before
// StartSession are ignored.
func (m *Manager) StartSession(info core.SessionInfo) error {
	if err := m.backend.StartSession(&info); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	m.info.Store(&info)
	m.deps.Logger.Info("Recording session",
		"session", info.UUID,
		"environment", info.Environment.Name,
		"vehicle", info.Vehicle.Name)
	return nil
}

// EndSession closes the session in the backend. Call it after the
// dispatcher has been closed so queued events are recorded first.
func (m *Manager) EndSession() error {
	if m.info.Swap(nil) == nil {
		return nil
	}
	if err := m.backend.EndSession(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	if e, ok := m.backend.(storage.Exporter); ok && e.ExportedFilePath() != "" {
		m.deps.Logger.Info("Session exported", "path", e.ExportedFilePath())
	}
	return nil
}

// DropCounter is an optional interface for backends that drop records
// under pressure.
type DropCounter interface {
	Dropped() uint64
}

// Dropped returns the number of records lost on the way to storage: events
// rejected by the dispatcher plus records the backend dropped itself.
func (m *Manager) Dropped() uint64 {
	var n uint64
	if d := m.events.Load(); d != nil {
		n += d.Dropped()
	}
	if d, ok := m.backend.(DropCounter); ok {
		n += d.Dropped()
	}
	return n
}

// Observers returns the session options that feed snapshots and thrust
// commands into d.
func Observers(d *dispatcher.Dispatcher, log *slog.Logger) []session.Option {
	if log == nil {
		log = slog.Default()
	}
	dispatch := func(typ string, payload any) {
		if _, err := d.Dispatch(dispatcher.Event{Type: typ, Payload: payload}); err != nil {
			log.Warn("Failed to dispatch event", "event", typ, "error", err)
		}
	}
	return []session.Option{
		session.WithObserver(func(s core.StatusSnapshot) {
			dispatch(EventSnapshot, s)
		}),
		session.WithThrustObserver(func(c core.ThrustCommand) {
			dispatch(EventThrust, c)
		}),
	}
}
