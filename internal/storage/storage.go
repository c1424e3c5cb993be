package storage

import "github.com/astrolab/envsim/pkg/core"

// Backend is the interface all storage implementations must satisfy.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Session management. StartSession assigns the storage ID to s.
	StartSession(s *core.SessionInfo) error
	EndSession() error

	// Recording
	RecordSnapshot(s *core.StatusSnapshot) error
	RecordThrust(c *core.ThrustCommand) error
}

// Exporter is implemented by backends that write a file at the end of a
// session.
type Exporter interface {
	ExportedFilePath() string
}
