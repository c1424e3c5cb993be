// Package propulsion converts thrust commands into force vectors and fuel burn.
package propulsion

import (
	"math"
	"time"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// ForceScale converts the thrust rating into integrator force units.
	ForceScale = 0.001

	// BaseConsumption is the fuel burn in percent per second at full intensity.
	BaseConsumption = 0.1

	// AtmosphereBurnFactor scales the extra burn in an atmosphere.
	AtmosphereBurnFactor = 10.0
)

// Result describes the outcome of one thrust application.
type Result struct {
	Applied      bool
	Force        mgl64.Vec2
	FuelConsumed float64
}

// ClampIntensity limits intensity to [0, 1]. NaN maps to 0.
func ClampIntensity(intensity float64) float64 {
	if math.IsNaN(intensity) || intensity < 0 {
		return 0
	}
	if intensity > 1 {
		return 1
	}
	return intensity
}

// Force returns the force vector produced by v at the given intensity.
func Force(v core.Vehicle, direction mgl64.Vec2, intensity float64) mgl64.Vec2 {
	magnitude := v.Thrust * ClampIntensity(intensity) * ForceScale
	return direction.Mul(magnitude)
}

// ConsumptionRate returns the fuel burn rate in percent per second.
// Denser atmospheres burn more fuel for the same thrust.
func ConsumptionRate(env core.Environment, intensity float64) float64 {
	rate := BaseConsumption * ClampIntensity(intensity)
	if env.HasAtmosphere() {
		rate *= 1 + env.Atmosphere*AtmosphereBurnFactor
	}
	return rate
}

// Apply computes the force for a thrust command and burns fuel from v for
// the elapsed duration. It does nothing when v is nil or has no fuel left.
// Fuel never drops below zero.
func Apply(v *core.Vehicle, env core.Environment, direction mgl64.Vec2, intensity float64, elapsed time.Duration) Result {
	if !v.HasFuel() {
		return Result{}
	}

	burn := ConsumptionRate(env, intensity) * elapsed.Seconds()
	if burn < 0 {
		burn = 0
	}
	before := v.CurrentFuel
	v.CurrentFuel = math.Max(0, v.CurrentFuel-burn)

	return Result{
		Applied:      true,
		Force:        Force(*v, direction, intensity),
		FuelConsumed: before - v.CurrentFuel,
	}
}
