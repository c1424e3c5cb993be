// Package vehicle derives vehicle parameters from a manual spec or a preset.
package vehicle

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/astrolab/envsim/pkg/core"
)

// Preset is a named vehicle configuration.
type Preset struct {
	Name   string
	Mass   float64
	Thrust float64
}

// Preset names.
const (
	MiniCubeSat        = "Mini CubeSat"
	ExperimentalRocket = "Experimental Rocket"
	CommSatellite      = "Comm Satellite"
)

var presets = map[string]Preset{
	MiniCubeSat:        {Name: MiniCubeSat, Mass: 1.3, Thrust: 0.1},
	ExperimentalRocket: {Name: ExperimentalRocket, Mass: 25, Thrust: 1000},
	CommSatellite:      {Name: CommSatellite, Mass: 150, Thrust: 500},
}

var presetAliases = map[string]string{
	"mini cubesat":        MiniCubeSat,
	"mini-cubesat":        MiniCubeSat,
	"experimental rocket": ExperimentalRocket,
	"experimental-rocket": ExperimentalRocket,
	"deneysel roket":      ExperimentalRocket,
	"comm satellite":      CommSatellite,
	"comm-satellite":      CommSatellite,
	"iletişim uydusu":     CommSatellite,
}

var materialAliases = map[string]core.Material{
	"":             core.MaterialAluminum,
	"aluminum":     core.MaterialAluminum,
	"aluminium":    core.MaterialAluminum,
	"alüminyum":    core.MaterialAluminum,
	"carbon-fiber": core.MaterialCarbonFiber,
	"carbon fiber": core.MaterialCarbonFiber,
	"carbonfiber":  core.MaterialCarbonFiber,
	"karbonfiber":  core.MaterialCarbonFiber,
	"composite":    core.MaterialComposite,
	"kompozit":     core.MaterialComposite,
}

// LookupPreset returns the preset registered under name or one of its aliases.
func LookupPreset(name string) (Preset, error) {
	if p, ok := presets[name]; ok {
		return p, nil
	}
	if canonical, ok := presetAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return presets[canonical], nil
	}
	return Preset{}, fmt.Errorf("%w: %q", core.ErrUnknownPreset, name)
}

// Presets returns all presets ordered by mass.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mass < out[j].Mass })
	return out
}

// ParseMaterial maps a material name to a Material. Unrecognized names fall
// back to the baseline material.
func ParseMaterial(name string) core.Material {
	if m, ok := materialAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return m
	}
	return core.MaterialAluminum
}

// positiveFinite rejects NaN and infinities along with non-positive values.
func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Build creates a fully fueled vehicle from spec.
func Build(spec core.VehicleSpec) (core.Vehicle, error) {
	v := core.Vehicle{
		Material:         ParseMaterial(spec.Material),
		HasControlSystem: spec.HasControlSystem,
		FuelCapacity:     core.FuelCapacity,
		CurrentFuel:      core.FuelCapacity,
	}

	switch strings.ToLower(spec.Type) {
	case core.SpecManual:
		if !positiveFinite(spec.Weight) {
			return core.Vehicle{}, fmt.Errorf("%w: weight must be positive, got %v", core.ErrInvalidSpec, spec.Weight)
		}
		if !positiveFinite(spec.MotorPower) {
			return core.Vehicle{}, fmt.Errorf("%w: motorPower must be positive, got %v", core.ErrInvalidSpec, spec.MotorPower)
		}
		v.Name = "manual"
		v.Mass = spec.Weight
		v.Thrust = spec.MotorPower
	case core.SpecPreset, "":
		p, err := LookupPreset(spec.Model)
		if err != nil {
			return core.Vehicle{}, err
		}
		v.Name = p.Name
		v.Mass = p.Mass
		v.Thrust = p.Thrust
	default:
		return core.Vehicle{}, fmt.Errorf("%w: unknown spec type %q", core.ErrInvalidSpec, spec.Type)
	}

	return v, nil
}
