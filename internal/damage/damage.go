// Package damage integrates structural damage over time.
package damage

import (
	"math"
	"time"

	"github.com/astrolab/envsim/pkg/core"
)

// Limits of the cumulative damage scale.
const (
	Min = 0.0
	Max = 100.0
)

// Heat, cold, radiation and overspeed parameters. Speeds are in m/s.
const (
	HeatThreshold = 150.0
	HeatRate      = 0.01

	ColdThreshold = -200.0
	ColdRate      = 0.005

	RadiationRate = 0.1

	OverspeedThreshold = 10000.0
	OverspeedRate      = 0.00001
)

// Protection multipliers.
const (
	CarbonFiberFactor   = 0.6
	CompositeFactor     = 0.8
	ControlSystemFactor = 0.7
)

// Conditions are the inputs that drive the damage rate for one tick.
type Conditions struct {
	Temperature float64 // °C
	Progress    float64
	Speed       float64 // m/s
}

// MaterialFactor returns the damage multiplier for m.
func MaterialFactor(m core.Material) float64 {
	switch m {
	case core.MaterialCarbonFiber:
		return CarbonFiberFactor
	case core.MaterialComposite:
		return CompositeFactor
	default:
		return 1
	}
}

// Protection returns the combined material and equipment multiplier.
func Protection(v *core.Vehicle) float64 {
	if v == nil {
		return 1
	}
	f := MaterialFactor(v.Material)
	if v.HasControlSystem {
		f *= ControlSystemFactor
	}
	return f
}

// Rate returns the scaled damage rate in percent per second.
func Rate(c Conditions, env core.Environment, v *core.Vehicle) float64 {
	rate := 0.0

	if c.Temperature > HeatThreshold {
		rate += (c.Temperature - HeatThreshold) * HeatRate
	}
	if c.Temperature < ColdThreshold {
		rate += (ColdThreshold - c.Temperature) * ColdRate
	}

	rate += env.Radiation * RadiationRate * c.Progress

	if c.Speed > OverspeedThreshold {
		rate += (c.Speed - OverspeedThreshold) * OverspeedRate
	}

	return rate * Protection(v)
}

// Accumulate adds the damage taken over elapsed to prior. The result never
// falls below prior and is clamped to [Min, Max].
func Accumulate(prior float64, c Conditions, elapsed time.Duration, env core.Environment, v *core.Vehicle) float64 {
	increment := Rate(c, env, v) * elapsed.Seconds()
	if increment < 0 || math.IsNaN(increment) {
		increment = 0
	}
	next := prior + increment
	if next > Max {
		next = Max
	}
	if next < Min {
		next = Min
	}
	return next
}
