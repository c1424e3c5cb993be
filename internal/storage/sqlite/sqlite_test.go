package sqlitestorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/astrolab/envsim/internal/database"
	"github.com/astrolab/envsim/internal/model"
	"github.com/astrolab/envsim/internal/storage"
	"github.com/astrolab/envsim/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ storage.Backend  = (*Backend)(nil)
	_ storage.Exporter = (*Backend)(nil)
)

func TestEndSession_DumpsToDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "envsim_test.db")
	b, err := New(Config{DumpPath: path}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	info := &core.SessionInfo{UUID: "u-1", Environment: core.Environment{Name: "Moon"}}
	require.NoError(t, b.StartSession(info))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1, Temperature: -173, Fuel: 100}))
	require.NoError(t, b.RecordThrust(&core.ThrustCommand{Tick: 1, Intensity: 0.5}))
	require.NoError(t, b.EndSession())

	assert.Equal(t, path, b.ExportedFilePath())

	disk, err := database.GetSqliteDB(path)
	require.NoError(t, err)

	var snaps []model.Snapshot
	require.NoError(t, disk.Find(&snaps).Error)
	require.Len(t, snaps, 1)
	assert.Equal(t, -173.0, snaps[0].Temperature)

	var thrusts int64
	require.NoError(t, disk.Model(&model.ThrustEvent{}).Count(&thrusts).Error)
	assert.Equal(t, int64(1), thrusts)
}

func TestDumpLoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "periodic.db")
	b, err := New(Config{DumpPath: path, DumpInterval: 20 * time.Millisecond}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())

	require.NoError(t, b.StartSession(&core.SessionInfo{UUID: "u-2"}))
	require.NoError(t, b.RecordSnapshot(&core.StatusSnapshot{Tick: 1}))

	assert.Eventually(t, func() bool {
		disk, err := database.GetSqliteDB(path)
		if err != nil {
			return false
		}
		var count int64
		if disk.Model(&model.Snapshot{}).Count(&count).Error != nil {
			return false
		}
		return count == 1
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, b.Close())
}

func TestDump_NoPath(t *testing.T) {
	b, err := New(Config{}, nil)
	require.NoError(t, err)
	require.NoError(t, b.Init())
	t.Cleanup(func() { _ = b.Close() })

	assert.NoError(t, b.Dump())
	assert.Empty(t, b.ExportedFilePath())
}
