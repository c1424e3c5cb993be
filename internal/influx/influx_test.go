package influx

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astrolab/envsim/pkg/core"
)

func testInfo() *core.SessionInfo {
	return &core.SessionInfo{
		UUID:        "abc",
		Environment: core.Environment{Name: "LEO"},
		Vehicle:     core.Vehicle{Name: "Mini CubeSat"},
	}
}

func TestConnect_Disabled(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.enabled", false)

	m := NewManager(zerolog.Nop(), filepath.Join(t.TempDir(), "backup.gz"))
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
}

func TestWritePoint_NotInitialized(t *testing.T) {
	m := NewManager(zerolog.Nop(), "")
	err := m.WritePoint(BucketVehicleStatus, influxdb2_write.NewPointWithMeasurement("x"))
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestConnect_UnreachableUsesBackup(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.enabled", true)
	viper.Set("influx.protocol", "http")
	viper.Set("influx.host", "127.0.0.1")
	viper.Set("influx.port", "1")

	backup := filepath.Join(t.TempDir(), "influx_backup.log.gz")
	m := NewManager(zerolog.Nop(), backup)
	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.IsValid)

	snap := &core.StatusSnapshot{Tick: 3, Speed: 150, Fuel: 97, Phase: "launch",
		Time: time.Unix(1700000000, 0), Warnings: []string{"w"}}
	require.NoError(t, m.WritePoint(BucketVehicleStatus, SnapshotPoint(testInfo(), snap)))
	require.NoError(t, m.Close())

	f, err := os.Open(backup)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	raw, err := io.ReadAll(gz)
	require.NoError(t, err)

	line := string(raw)
	assert.True(t, strings.HasPrefix(line, "vehicle_status,"))
	assert.Contains(t, line, "session=abc")
	assert.Contains(t, line, "phase=launch")
	assert.Contains(t, line, "speed=150")
	assert.Contains(t, line, "warnings=1i")
}

func TestURL(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("influx.protocol", "https")
	viper.Set("influx.host", "metrics.local")
	viper.Set("influx.port", "8086")
	assert.Equal(t, "https://metrics.local:8086", URL())
}

func TestThrustPoint(t *testing.T) {
	c := &core.ThrustCommand{Tick: 5, Intensity: 0.5, Direction: core.Vec2{Y: -1}, FuelConsumed: 0.5, FuelLeft: 99.5}
	line := influxdb2_write.PointToLineProtocol(ThrustPoint(testInfo(), c), time.Nanosecond)

	assert.True(t, strings.HasPrefix(line, "thrust,"))
	assert.Contains(t, line, "intensity=0.5")
	assert.Contains(t, line, "dir_y=-1")
	assert.Contains(t, line, "tick=5i")
}
