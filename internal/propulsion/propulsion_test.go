package propulsion

import (
	"math"
	"testing"
	"time"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var (
	vacuum = core.Environment{Name: "vacuum"}
	mars   = core.Environment{Name: "Mars", Atmosphere: 0.02}
	up     = mgl64.Vec2{0, -1}
)

func newVehicle(thrust float64) *core.Vehicle {
	return &core.Vehicle{Mass: 25, Thrust: thrust, FuelCapacity: 100, CurrentFuel: 100}
}

func TestForce(t *testing.T) {
	f := Force(*newVehicle(1000), up, 0.5)
	assert.InDelta(t, 0, f.X(), 1e-12)
	assert.InDelta(t, -0.5, f.Y(), 1e-12)
}

func TestConsumptionRate(t *testing.T) {
	assert.InDelta(t, 0.1, ConsumptionRate(vacuum, 1), 1e-12)
	assert.InDelta(t, 0.05, ConsumptionRate(vacuum, 0.5), 1e-12)
	// 0.1 * (1 + 0.02*10)
	assert.InDelta(t, 0.12, ConsumptionRate(mars, 1), 1e-12)
	assert.Zero(t, ConsumptionRate(mars, 0))
}

func TestApply_BurnsFuel(t *testing.T) {
	v := newVehicle(1000)

	res := Apply(v, mars, up, 1, 10*time.Second)

	require.True(t, res.Applied)
	assert.InDelta(t, 1.2, res.FuelConsumed, 1e-9)
	assert.InDelta(t, 98.8, v.CurrentFuel, 1e-9)
	assert.InDelta(t, -1.0, res.Force.Y(), 1e-12)
}

func TestApply_NoFuel(t *testing.T) {
	v := newVehicle(1000)
	v.CurrentFuel = 0

	res := Apply(v, vacuum, up, 1, time.Second)

	assert.False(t, res.Applied)
	assert.Zero(t, res.Force.Len())
	assert.Zero(t, v.CurrentFuel)
}

func TestApply_NilVehicle(t *testing.T) {
	res := Apply(nil, vacuum, up, 1, time.Second)
	assert.False(t, res.Applied)
}

func TestApply_ClampsAtZero(t *testing.T) {
	v := newVehicle(1000)
	v.CurrentFuel = 0.05

	res := Apply(v, vacuum, up, 1, time.Second)

	assert.True(t, res.Applied)
	assert.Zero(t, v.CurrentFuel)
	assert.InDelta(t, 0.05, res.FuelConsumed, 1e-12)
}

func TestClampIntensity(t *testing.T) {
	assert.Zero(t, ClampIntensity(-0.5))
	assert.Zero(t, ClampIntensity(math.NaN()))
	assert.Equal(t, 1.0, ClampIntensity(3))
	assert.Equal(t, 0.25, ClampIntensity(0.25))
}

func TestApply_FuelBoundedAndNonIncreasing(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newVehicle(rapid.Float64Range(0.1, 5000).Draw(t, "thrust"))
		env := core.Environment{Atmosphere: rapid.Float64Range(0, 1).Draw(t, "atmosphere")}
		steps := rapid.IntRange(1, 200).Draw(t, "steps")

		for i := 0; i < steps; i++ {
			intensity := rapid.Float64Range(0, 1).Draw(t, "intensity")
			elapsed := time.Duration(rapid.IntRange(0, 60_000).Draw(t, "ms")) * time.Millisecond
			before := v.CurrentFuel

			Apply(v, env, up, intensity, elapsed)

			if v.CurrentFuel > before {
				t.Fatalf("fuel increased: %v -> %v", before, v.CurrentFuel)
			}
			if v.CurrentFuel < 0 || v.CurrentFuel > 100 {
				t.Fatalf("fuel out of range: %v", v.CurrentFuel)
			}
		}
	})
}
