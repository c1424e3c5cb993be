package gormstorage

import (
	"testing"
	"time"

	"github.com/astrolab/envsim/internal/database"
	"github.com/astrolab/envsim/internal/model"
	"github.com/astrolab/envsim/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)

	b := New(Dependencies{DB: db, FlushInterval: time.Hour})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func testSession() *core.SessionInfo {
	return &core.SessionInfo{
		UUID:        "2f0c7f0e-8d5b-4c57-9d5e-1b0f8f4c1a11",
		StartTime:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Environment: core.Environment{Name: "Mars", Gravity: 3.71, Atmosphere: 0.02, Radiation: 0.6},
		Vehicle:     core.Vehicle{Name: "Mini CubeSat", Mass: 1.3, Thrust: 0.1, Material: core.MaterialAluminum},
		Spec:        core.VehicleSpec{Type: core.SpecPreset, Model: "Mini CubeSat"},
	}
}

func TestInit_RequiresDB(t *testing.T) {
	b := New(Dependencies{})
	assert.Error(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestStartSession_AssignsID(t *testing.T) {
	b := newTestBackend(t)
	info := testSession()

	require.NoError(t, b.StartSession(info))
	assert.NotZero(t, info.ID)

	var row model.SimSession
	require.NoError(t, b.DB().First(&row, info.ID).Error)
	assert.Equal(t, "Mars", row.Environment)
	assert.Equal(t, "Mini CubeSat", row.VehicleName)
}

func TestRecord_BeforeSession(t *testing.T) {
	b := newTestBackend(t)

	assert.ErrorIs(t, b.RecordSnapshot(&core.StatusSnapshot{}), ErrNoSession)
	assert.ErrorIs(t, b.RecordThrust(&core.ThrustCommand{}), ErrNoSession)
	assert.ErrorIs(t, b.EndSession(), ErrNoSession)
}

func TestRecordAndFlush(t *testing.T) {
	b := newTestBackend(t)
	info := testSession()
	require.NoError(t, b.StartSession(info))

	for i := uint(1); i <= 3; i++ {
		require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{
			Tick:        i,
			Progress:    float64(i) / 10,
			Position:    core.Vec2{X: 400, Y: 300 - float64(i)},
			Temperature: -67,
			Fuel:        100 - float64(i),
			Warnings:    []string{},
		}))
	}
	require.NoError(t, b.RecordThrust(&core.ThrustCommand{
		Tick: 1, Direction: core.Vec2{Y: -1}, Intensity: 1, Force: core.Vec2{Y: -0.1}, FuelConsumed: 0.12, FuelLeft: 99.88,
	}))

	require.NoError(t, b.Flush())

	snaps, err := b.Snapshots(info.ID)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, uint(1), snaps[0].Tick)
	assert.Equal(t, core.Vec2{X: 400, Y: 297}, snaps[2].Position)
	assert.Equal(t, 97.0, snaps[2].Fuel)

	thrusts, err := b.Thrusts(info.ID)
	require.NoError(t, err)
	require.Len(t, thrusts, 1)
	assert.Equal(t, core.Vec2{Y: -1}, thrusts[0].Direction)
	assert.Equal(t, 99.88, thrusts[0].FuelLeft)
}

func TestFlush_LargeBacklogIsBatched(t *testing.T) {
	b := newTestBackend(t)
	info := testSession()
	require.NoError(t, b.StartSession(info))

	n := uint(3*InsertBatchSize + 17)
	for i := uint(1); i <= n; i++ {
		require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: i, Fuel: 100, Warnings: []string{}}))
	}

	require.NoError(t, b.Flush())

	snaps, err := b.Snapshots(info.ID)
	require.NoError(t, err)
	require.Len(t, snaps, int(n))
	assert.Equal(t, n, snaps[len(snaps)-1].Tick)
	assert.Zero(t, b.snapshots.Len())
}

func TestEndSession_WritesSummary(t *testing.T) {
	b := newTestBackend(t)
	info := testSession()
	require.NoError(t, b.StartSession(info))

	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1, Fuel: 99, Damage: 0.5}))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 2, Fuel: 98, Damage: 1.5}))
	require.NoError(t, b.EndSession())

	var row model.SimSession
	require.NoError(t, b.DB().First(&row, info.ID).Error)
	assert.Equal(t, uint(2), row.Ticks)
	assert.Equal(t, 1.5, row.FinalDamage)
	assert.Equal(t, 98.0, row.FinalFuel)
	assert.False(t, row.EndTime.IsZero())

	// EndSession flushed the queue
	snaps, err := b.Snapshots(info.ID)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestClose_FlushesPending(t *testing.T) {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: time.Hour})
	require.NoError(t, b.Init())

	info := testSession()
	require.NoError(t, b.StartSession(info))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1}))

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	var count int64
	require.NoError(t, db.Model(&model.Snapshot{}).Where("session_id = ?", info.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBoundedQueue_CountsDrops(t *testing.T) {
	db, err := database.GetSqliteDB("")
	require.NoError(t, err)
	b := New(Dependencies{DB: db, FlushInterval: time.Hour, QueueCapacity: 2})
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, b.StartSession(testSession()))
	for i := uint(1); i <= 5; i++ {
		require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: i}))
	}

	assert.Equal(t, uint64(3), b.Dropped())
}
