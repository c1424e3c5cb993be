// Package thermal computes the vehicle temperature from mission progress,
// engine state and environment.
package thermal

import (
	"math"

	"github.com/astrolab/envsim/pkg/core"
)

const (
	// EngineBaseHeat is added whenever the engine runs with fuel left.
	EngineBaseHeat = 50.0
	// EngineProgressHeat is the additional engine heat at full progress.
	EngineProgressHeat = 100.0

	// SolarAmplitude is the peak of the periodic solar term in low orbit.
	SolarAmplitude = 30.0
	// SolarCycles is the number of half-orbits per mission.
	SolarCycles = 4.0

	// AtmosphereHeatFactor scales atmosphere density into °C.
	AtmosphereHeatFactor = 1000.0
)

// Base returns the ambient temperature interpolated across the environment
// range.
func Base(env core.Environment, progress float64) float64 {
	r := env.Temperature
	return r.Min + (r.Max-r.Min)*progress
}

// Temperature returns the vehicle temperature in °C. The result is not
// clamped.
func Temperature(progress float64, engineRunning bool, env core.Environment, v *core.Vehicle) float64 {
	temp := Base(env, progress)

	if engineRunning && v.HasFuel() {
		temp += EngineBaseHeat + progress*EngineProgressHeat
	}

	if env.IsLowOrbit() {
		temp += math.Sin(progress*math.Pi*SolarCycles) * SolarAmplitude
	}

	if env.HasAtmosphere() {
		temp += env.Atmosphere * AtmosphereHeatFactor
	}

	return temp
}
