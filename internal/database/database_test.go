package database

import (
	"path/filepath"
	"testing"

	"github.com/astrolab/envsim/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDSN(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("db.host", "db.local")
	viper.Set("db.port", "6543")
	viper.Set("db.username", "sim")
	viper.Set("db.password", "secret")
	viper.Set("db.database", "envsim")

	assert.Equal(t,
		"host=db.local port=6543 user=sim password=secret dbname=envsim sslmode=disable",
		PostgresDSN())
}

func TestGetSqliteDB_InMemoryIsPrivate(t *testing.T) {
	a, err := GetSqliteDB("")
	require.NoError(t, err)
	b, err := GetSqliteDB("")
	require.NoError(t, err)

	require.NoError(t, Migrate(a))
	require.NoError(t, a.Create(&model.SimSession{UUID: "a"}).Error)

	assert.True(t, a.Migrator().HasTable(&model.Snapshot{}))
	assert.False(t, b.Migrator().HasTable(&model.SimSession{}))
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, db.Create(&model.SimSession{UUID: "dumped", Environment: "Moon"}).Error)

	path := filepath.Join(t.TempDir(), "envsim.db")
	require.NoError(t, DumpMemoryDBToDisk(db, path))
	// a second dump replaces the first
	require.NoError(t, DumpMemoryDBToDisk(db, path))

	disk, err := GetSqliteDB(path)
	require.NoError(t, err)

	var got model.SimSession
	require.NoError(t, disk.First(&got).Error)
	assert.Equal(t, "dumped", got.UUID)
	assert.Equal(t, "Moon", got.Environment)
}

func TestDumpMemoryDBToDisk_NoPath(t *testing.T) {
	db, err := GetSqliteDB("")
	require.NoError(t, err)
	assert.ErrorIs(t, DumpMemoryDBToDisk(db, ""), ErrNoDumpPath)
}
