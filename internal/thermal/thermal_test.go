package thermal

import (
	"math"
	"testing"

	"github.com/astrolab/envsim/internal/environment"
	"github.com/astrolab/envsim/pkg/core"
	"github.com/stretchr/testify/assert"
)

func lookup(t *testing.T, name string) core.Environment {
	t.Helper()
	env, err := environment.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return env
}

func fueled() *core.Vehicle {
	return &core.Vehicle{Mass: 1.3, Thrust: 0.1, FuelCapacity: 100, CurrentFuel: 100}
}

func TestTemperature_RangeEndpoints(t *testing.T) {
	moon := lookup(t, environment.Moon)

	assert.InDelta(t, moon.Temperature.Min, Temperature(0, false, moon, fueled()), 1e-9)
	assert.InDelta(t, moon.Temperature.Max, Temperature(1, false, moon, fueled()), 1e-9)
}

func TestTemperature_LowOrbitWithoutSolarTerm(t *testing.T) {
	leo := lookup(t, environment.LEO)
	leo.OrbitalVelocity = 0
	leo.Atmosphere = 0

	assert.InDelta(t, leo.Temperature.Min, Temperature(0, false, leo, fueled()), 1e-9)
	assert.InDelta(t, leo.Temperature.Max, Temperature(1, false, leo, fueled()), 1e-9)
}

func TestTemperature_MoonEngineScenario(t *testing.T) {
	moon := lookup(t, environment.Moon)

	// -173 + 300*0.5 + 50 + 0.5*100
	assert.InDelta(t, 77.0, Temperature(0.5, true, moon, fueled()), 1e-9)
}

func TestTemperature_EngineNeedsFuel(t *testing.T) {
	moon := lookup(t, environment.Moon)
	empty := fueled()
	empty.CurrentFuel = 0

	assert.InDelta(t, -23.0, Temperature(0.5, true, moon, empty), 1e-9)
	assert.InDelta(t, -23.0, Temperature(0.5, true, moon, nil), 1e-9)
}

func TestTemperature_SolarCycle(t *testing.T) {
	leo := lookup(t, environment.LEO)
	progress := 0.125 // sin(pi/2) = 1

	want := Base(leo, progress) + SolarAmplitude + leo.Atmosphere*AtmosphereHeatFactor
	assert.InDelta(t, want, Temperature(progress, false, leo, fueled()), 1e-9)
}

func TestTemperature_Atmosphere(t *testing.T) {
	mars := lookup(t, environment.Mars)

	// -87 + 0 + 0.02*1000
	assert.InDelta(t, -67.0, Temperature(0, false, mars, fueled()), 1e-9)
}

func TestTemperature_NoClamp(t *testing.T) {
	hot := core.Environment{Temperature: core.TemperatureRange{Min: 100, Max: 400}, Atmosphere: 1}
	got := Temperature(1, true, hot, fueled())
	assert.InDelta(t, 400+150+1000, got, 1e-9)
	assert.False(t, math.IsInf(got, 0))
}
