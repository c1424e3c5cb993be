// Package postgres records sessions into PostgreSQL/PostGIS through the
// shared GORM writer.
package postgres

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/astrolab/envsim/internal/database"
	gormstorage "github.com/astrolab/envsim/internal/storage/gorm"
	"github.com/astrolab/envsim/pkg/core"
	"gorm.io/gorm"
)

// DefaultQueueCapacity bounds each write queue while the database is slow
// or unreachable.
const DefaultQueueCapacity = 100_000

// ErrNotInitialized is returned when the backend is used before Init.
var ErrNotInitialized = errors.New("postgres backend not initialized")

// Dependencies holds all dependencies for the Postgres storage backend.
type Dependencies struct {
	// DB is optional; Init connects with the db.* config keys when nil.
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
	QueueCapacity int
}

// Backend implements storage.Backend for PostgreSQL.
type Backend struct {
	deps  Dependencies
	inner *gormstorage.Backend
}

// New creates a new Postgres storage backend.
func New(deps Dependencies) *Backend {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.QueueCapacity == 0 {
		deps.QueueCapacity = DefaultQueueCapacity
	}
	return &Backend{deps: deps}
}

// Init connects (if needed), migrates the schema and starts the writer.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		db, err := database.GetPostgresDB()
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return fmt.Errorf("failed to access sql interface: %w", err)
		}
		if err = sqlDB.Ping(); err != nil {
			return fmt.Errorf("failed to validate connection: %w", err)
		}
		sqlDB.SetMaxOpenConns(10)
		b.deps.DB = db
	}

	inner := gormstorage.New(gormstorage.Dependencies{
		DB:            b.deps.DB,
		Logger:        b.deps.Logger,
		FlushInterval: b.deps.FlushInterval,
		QueueCapacity: b.deps.QueueCapacity,
	})
	if err := inner.Init(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.inner = inner
	return nil
}

// Close flushes pending rows and stops the writer.
func (b *Backend) Close() error {
	if b.inner == nil {
		return nil
	}
	return b.inner.Close()
}

func (b *Backend) StartSession(s *core.SessionInfo) error {
	if b.inner == nil {
		return ErrNotInitialized
	}
	return b.inner.StartSession(s)
}

func (b *Backend) EndSession() error {
	if b.inner == nil {
		return ErrNotInitialized
	}
	return b.inner.EndSession()
}

func (b *Backend) RecordSnapshot(s *core.StatusSnapshot) error {
	if b.inner == nil {
		return ErrNotInitialized
	}
	return b.inner.RecordSnapshot(s)
}

func (b *Backend) RecordThrust(c *core.ThrustCommand) error {
	if b.inner == nil {
		return ErrNotInitialized
	}
	return b.inner.RecordThrust(c)
}
