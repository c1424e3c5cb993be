package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/astrolab/envsim/internal/config"
	"github.com/astrolab/envsim/internal/storage"
	"github.com/astrolab/envsim/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.Backend  = (*Backend)(nil)
	_ storage.Exporter = (*Backend)(nil)
)

func testInfo() *core.SessionInfo {
	return &core.SessionInfo{
		UUID:        "e1",
		StartTime:   time.Date(2026, 2, 12, 21, 38, 36, 0, time.UTC),
		Environment: core.Environment{Name: "Deep Space", CosmicRadiation: true, Radiation: 1},
		Vehicle:     core.Vehicle{Name: "Experimental Rocket", Mass: 25, Thrust: 1000, CurrentFuel: 100},
	}
}

func TestRecordBeforeStart(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})

	assert.ErrorIs(t, b.RecordSnapshot(&core.StatusSnapshot{}), ErrNoSession)
	assert.ErrorIs(t, b.RecordThrust(&core.ThrustCommand{}), ErrNoSession)
	assert.ErrorIs(t, b.EndSession(), ErrNoSession)
}

func TestStartSession_AssignsIDAndResets(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.Init())

	first := testInfo()
	require.NoError(t, b.StartSession(first))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1}))
	assert.Equal(t, uint(1), first.ID)

	second := testInfo()
	require.NoError(t, b.StartSession(second))
	assert.Equal(t, uint(2), second.ID)
	assert.Empty(t, b.Snapshots())
	assert.NoError(t, b.Close())
}

func TestRecordSnapshot_CopiesSlices(t *testing.T) {
	b := New(config.MemoryConfig{OutputDir: t.TempDir()})
	require.NoError(t, b.StartSession(testInfo()))

	snap := &core.StatusSnapshot{Tick: 1, Warnings: []string{"a"}}
	require.NoError(t, b.RecordSnapshot(snap))
	snap.Warnings[0] = "mutated"

	assert.Equal(t, []string{"a"}, b.Snapshots()[0].Warnings)
}

func TestEndSession_ExportsPlainJSON(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})
	require.NoError(t, b.StartSession(testInfo()))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1, Temperature: -200, Fuel: 100, Damage: 0.1,
		Alerts: []core.Alert{{Category: core.CategoryCosmic, Severity: core.SeverityWarning, Message: "WARNING: Cosmic radiation detected"}}}))
	require.NoError(t, b.RecordThrust(&core.ThrustCommand{Tick: 1, Intensity: 1, FuelLeft: 99}))
	require.NoError(t, b.EndSession())

	want := filepath.Join(dir, "Deep_Space_Experimental_Rocket_e1_20260212_213836.json")
	assert.Equal(t, want, b.ExportedFilePath())

	e, err := LoadExport(want)
	require.NoError(t, err)
	assert.Equal(t, "e1", e.SessionUUID)
	assert.Len(t, e.Frames, 1)
	assert.Len(t, e.Thrusts, 1)
	assert.Equal(t, 1, e.Summary.WarningAlerts)
	assert.True(t, e.Environment.CosmicFlux)
}

func TestEndSession_SameSecondSessionsDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	b := New(config.MemoryConfig{OutputDir: dir})

	var paths []string
	for _, id := range []string{"run-a", "run-b"} {
		info := testInfo()
		info.UUID = id
		require.NoError(t, b.StartSession(info))
		require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1}))
		require.NoError(t, b.EndSession())
		paths = append(paths, b.ExportedFilePath())
	}

	assert.NotEqual(t, paths[0], paths[1])
	for i, id := range []string{"run-a", "run-b"} {
		e, err := LoadExport(paths[i])
		require.NoError(t, err)
		assert.Equal(t, id, e.SessionUUID)
	}
}

func TestEndSession_ExportsGzip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "recordings")
	b := New(config.MemoryConfig{OutputDir: dir, CompressOutput: true})
	require.NoError(t, b.StartSession(testInfo()))
	for i := uint(1); i <= 10; i++ {
		require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: i, Fuel: 100 - float64(i)}))
	}
	require.NoError(t, b.EndSession())

	path := b.ExportedFilePath()
	assert.Equal(t, ".gz", filepath.Ext(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	e, err := LoadExport(path)
	require.NoError(t, err)
	assert.Equal(t, uint(10), e.EndTick)
	assert.Equal(t, 90.0, e.Summary.FinalFuel)
}

func TestLoadExport_Errors(t *testing.T) {
	_, err := LoadExport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json.gz")
	require.NoError(t, os.WriteFile(bad, []byte("not gzip"), 0644))
	_, err = LoadExport(bad)
	assert.Error(t, err)
}
