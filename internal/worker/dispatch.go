package worker

import (
	"errors"
	"fmt"

	"github.com/astrolab/envsim/internal/dispatcher"
	"github.com/astrolab/envsim/internal/influx"
	"github.com/astrolab/envsim/pkg/core"
)

// Event types produced by a session.
const (
	EventSnapshot = "snapshot"
	EventThrust   = "thrust"
)

// RegisterHandlers registers all event handlers with the dispatcher.
func (m *Manager) RegisterHandlers(d *dispatcher.Dispatcher) {
	m.events.Store(d)
	// one per tick, dropped when storage falls behind
	d.Register(EventSnapshot, m.handleSnapshot, dispatcher.Buffered(10000), dispatcher.Logged())
	// rare, never dropped
	d.Register(EventThrust, m.handleThrust, dispatcher.Buffered(1000), dispatcher.Blocking(), dispatcher.Logged())
}

func (m *Manager) handleSnapshot(e dispatcher.Event) (any, error) {
	info := m.info.Load()
	if info == nil {
		return nil, nil
	}

	snap, ok := e.Payload.(core.StatusSnapshot)
	if !ok {
		return nil, fmt.Errorf("%w: %T for %s", ErrUnexpectedPayload, e.Payload, e.Type)
	}
	snap.SessionID = info.UUID

	var errs []error
	if err := m.backend.RecordSnapshot(&snap); err != nil {
		errs = append(errs, fmt.Errorf("failed to record snapshot: %w", err))
	}
	if m.deps.Influx != nil {
		if err := m.deps.Influx.WritePoint(influx.BucketVehicleStatus, influx.SnapshotPoint(info, &snap)); err != nil {
			errs = append(errs, fmt.Errorf("failed to write snapshot point: %w", err))
		}
	}
	return nil, errors.Join(errs...)
}

func (m *Manager) handleThrust(e dispatcher.Event) (any, error) {
	info := m.info.Load()
	if info == nil {
		return nil, nil
	}

	cmd, ok := e.Payload.(core.ThrustCommand)
	if !ok {
		return nil, fmt.Errorf("%w: %T for %s", ErrUnexpectedPayload, e.Payload, e.Type)
	}
	cmd.SessionID = info.UUID

	var errs []error
	if err := m.backend.RecordThrust(&cmd); err != nil {
		errs = append(errs, fmt.Errorf("failed to record thrust: %w", err))
	}
	if m.deps.Influx != nil {
		if err := m.deps.Influx.WritePoint(influx.BucketVehicleStatus, influx.ThrustPoint(info, &cmd)); err != nil {
			errs = append(errs, fmt.Errorf("failed to write thrust point: %w", err))
		}
	}
	return nil, errors.Join(errs...)
}
