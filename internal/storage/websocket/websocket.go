// Package websocket streams session data live to a telemetry server.
package websocket

import (
	"fmt"
	"log/slog"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/astrolab/envsim/pkg/streaming"
)

// Config holds WebSocket backend configuration.
type Config struct {
	URL    string
	Secret string
}

// Backend implements storage.Backend by streaming envelopes. Session
// boundaries wait for a server ack; snapshots and thrusts are fire-and-forget.
type Backend struct {
	conn *connection
	cfg  Config
}

// New creates a new WebSocket storage backend.
func New(cfg Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn: newConnection(logger.With("component", "websocket")),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

func (b *Backend) send(msgType string, payload any) error {
	data, err := streaming.Marshal(msgType, payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", msgType, err)
	}
	b.conn.send(data)
	return nil
}

// StartSession announces the session and waits for the server ack. The
// message is cached and replayed after a reconnect.
func (b *Backend) StartSession(s *core.SessionInfo) error {
	data, err := streaming.Marshal(streaming.TypeStartSession, streaming.StartSessionPayload{Session: s})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", streaming.TypeStartSession, err)
	}

	b.conn.mu.Lock()
	b.conn.startMsg = data
	b.conn.mu.Unlock()

	return b.conn.sendAndWait(data, streaming.TypeStartSession, ackTimeout)
}

// EndSession sends end_session and waits for the server ack.
func (b *Backend) EndSession() error {
	data, err := streaming.Marshal(streaming.TypeEndSession, nil)
	if err != nil {
		return err
	}
	err = b.conn.sendAndWait(data, streaming.TypeEndSession, ackTimeout)

	b.conn.mu.Lock()
	b.conn.startMsg = nil
	b.conn.mu.Unlock()

	return err
}

func (b *Backend) RecordSnapshot(s *core.StatusSnapshot) error {
	return b.send(streaming.TypeSnapshot, s)
}

func (b *Backend) RecordThrust(c *core.ThrustCommand) error {
	return b.send(streaming.TypeThrust, c)
}

// Dropped returns how many messages were discarded because the send queue was full.
func (b *Backend) Dropped() uint64 {
	b.conn.mu.Lock()
	defer b.conn.mu.Unlock()
	return b.conn.dropped
}
