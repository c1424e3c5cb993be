// Package gormstorage implements storage.Backend on top of any GORM
// dialect. Session rows are written synchronously; snapshots and thrust
// events are queued and written in batches by a background goroutine.
package gormstorage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/astrolab/envsim/internal/database"
	"github.com/astrolab/envsim/internal/model"
	"github.com/astrolab/envsim/internal/model/convert"
	"github.com/astrolab/envsim/internal/queue"
	"github.com/astrolab/envsim/pkg/core"
	"gorm.io/gorm"
)

// DefaultFlushInterval is how often queued rows are written.
const DefaultFlushInterval = 500 * time.Millisecond

// InsertBatchSize caps rows per INSERT statement so a large backlog stays
// under the driver's bind-parameter limit.
const InsertBatchSize = 1000

// ErrNoSession is returned when recording before StartSession.
var ErrNoSession = errors.New("no active session")

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB            *gorm.DB
	Logger        *slog.Logger
	FlushInterval time.Duration
	// QueueCapacity bounds each write queue; 0 means unbounded.
	QueueCapacity int
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps Dependencies
	log  *slog.Logger

	snapshots *queue.Queue[model.Snapshot]
	thrusts   *queue.Queue[model.ThrustEvent]

	sessionID atomic.Uint64
	last      atomic.Pointer[core.StatusSnapshot]

	stopChan chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	flushMu  sync.Mutex
}

// New creates a new GORM storage backend. deps.DB must be set before Init.
func New(deps Dependencies) *Backend {
	if deps.FlushInterval <= 0 {
		deps.FlushInterval = DefaultFlushInterval
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Backend{
		deps:      deps,
		log:       log.With("component", "storage", "dialect", dialect(deps.DB)),
		snapshots: queue.NewBounded[model.Snapshot](deps.QueueCapacity),
		thrusts:   queue.NewBounded[model.ThrustEvent](deps.QueueCapacity),
	}
}

func dialect(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "none"
	}
	return db.Dialector.Name()
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// Init migrates the schema and starts the writer goroutine.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errors.New("gorm backend: no database")
	}
	b.log.Info("Migrating schema")
	if err := database.Migrate(b.deps.DB); err != nil {
		return err
	}
	b.log.Info("Database setup complete")

	b.stopChan = make(chan struct{})
	b.done = make(chan struct{})
	go b.writerLoop()
	return nil
}

// Close stops the writer after a final flush. It is safe to call more than once.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() {
		if b.stopChan != nil {
			close(b.stopChan)
			<-b.done
		}
	})
	return nil
}

// StartSession inserts the session row and stores its ID on s.
func (b *Backend) StartSession(s *core.SessionInfo) error {
	row := convert.CoreToSession(*s)
	if err := b.deps.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	s.ID = row.ID
	b.sessionID.Store(uint64(row.ID))
	b.log.Info("Session started", "id", row.ID, "uuid", row.UUID, "environment", row.Environment)
	return nil
}

// EndSession flushes pending rows and stores the session summary.
func (b *Backend) EndSession() error {
	id := uint(b.sessionID.Load())
	if id == 0 {
		return ErrNoSession
	}
	if err := b.Flush(); err != nil {
		return err
	}

	updates := map[string]any{"end_time": time.Now()}
	if last := b.last.Load(); last != nil {
		updates["ticks"] = last.Tick
		updates["final_damage"] = last.Damage
		updates["final_fuel"] = last.Fuel
	}
	if err := b.deps.DB.Model(&model.SimSession{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update session summary: %w", err)
	}
	b.log.Info("Session ended", "id", id)
	return nil
}

// RecordSnapshot queues a snapshot for the writer.
func (b *Backend) RecordSnapshot(s *core.StatusSnapshot) error {
	if b.sessionID.Load() == 0 {
		return ErrNoSession
	}
	snap := *s
	b.last.Store(&snap)
	b.snapshots.Push(convert.CoreToSnapshot(snap))
	return nil
}

// RecordThrust queues a thrust event for the writer.
func (b *Backend) RecordThrust(c *core.ThrustCommand) error {
	if b.sessionID.Load() == 0 {
		return ErrNoSession
	}
	b.thrusts.Push(convert.CoreToThrustEvent(*c))
	return nil
}

// Flush writes every queued row now.
func (b *Backend) Flush() error {
	b.flushMu.Lock()
	defer b.flushMu.Unlock()

	id := uint(b.sessionID.Load())

	errS := writeQueue(b.deps.DB, b.snapshots, func(items []model.Snapshot) {
		for i := range items {
			items[i].SessionID = id
		}
	})
	errT := writeQueue(b.deps.DB, b.thrusts, func(items []model.ThrustEvent) {
		for i := range items {
			items[i].SessionID = id
		}
	})
	return errors.Join(errS, errT)
}

// Snapshots returns the stored snapshots of a session ordered by tick.
func (b *Backend) Snapshots(sessionID uint) ([]core.StatusSnapshot, error) {
	var rows []model.Snapshot
	if err := b.deps.DB.Where("session_id = ?", sessionID).Order("tick").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]core.StatusSnapshot, len(rows))
	for i, r := range rows {
		out[i] = convert.SnapshotToCore(r)
	}
	return out, nil
}

// Thrusts returns the stored thrust events of a session ordered by tick.
func (b *Backend) Thrusts(sessionID uint) ([]core.ThrustCommand, error) {
	var rows []model.ThrustEvent
	if err := b.deps.DB.Where("session_id = ?", sessionID).Order("tick, id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]core.ThrustCommand, len(rows))
	for i, r := range rows {
		out[i] = convert.ThrustEventToCore(r)
	}
	return out, nil
}

// Dropped returns how many queued rows were evicted by the queue bound.
func (b *Backend) Dropped() uint64 {
	return b.snapshots.Dropped() + b.thrusts.Dropped()
}

// writeQueue drains q in one transaction, inserting InsertBatchSize rows per
// statement. On failure the rows are pushed back for the next attempt.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], prepare func([]T)) error {
	if q.Empty() {
		return nil
	}

	items := q.Drain(0)
	if prepare != nil {
		prepare(items)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&items, InsertBatchSize).Error
	})
	if err != nil {
		q.Push(items...)
		return fmt.Errorf("batch insert of %d rows: %w", len(items), err)
	}
	return nil
}

func (b *Backend) writerLoop() {
	defer close(b.done)
	ticker := time.NewTicker(b.deps.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			if err := b.Flush(); err != nil {
				b.log.Error("Final flush failed", "error", err)
			}
			return
		case <-ticker.C:
			if err := b.Flush(); err != nil {
				b.log.Error("Flush failed", "error", err)
			}
		}
	}
}
