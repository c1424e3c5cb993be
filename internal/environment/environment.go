// Package environment holds the fixed catalog of environments a vehicle can
// be simulated in.
package environment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/astrolab/envsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Catalog names.
const (
	LEO       = "LEO"
	Moon      = "Moon"
	Mars      = "Mars"
	DeepSpace = "DeepSpace"
)

// Surface gravities in m/s².
const (
	EarthGravity = 9.81
	MoonGravity  = 1.62
	MarsGravity  = 3.71
	SpaceGravity = 0.0
)

// GravityScale converts m/s² into the integrator's force units.
const GravityScale = 0.01

var catalog = map[string]core.Environment{
	LEO: {
		Name:            LEO,
		Gravity:         EarthGravity * 0.9,
		Atmosphere:      1e-12,
		Temperature:     core.TemperatureRange{Min: -157, Max: 121},
		Radiation:       0.3,
		OrbitalVelocity: 7800,
	},
	Moon: {
		Name:           Moon,
		Gravity:        MoonGravity,
		Atmosphere:     0,
		Temperature:    core.TemperatureRange{Min: -173, Max: 127},
		Radiation:      0.8,
		EscapeVelocity: 2380,
	},
	Mars: {
		Name:           Mars,
		Gravity:        MarsGravity,
		Atmosphere:     0.02,
		Temperature:    core.TemperatureRange{Min: -87, Max: -5},
		Radiation:      0.6,
		EscapeVelocity: 5030,
	},
	DeepSpace: {
		Name:            DeepSpace,
		Gravity:         SpaceGravity,
		Atmosphere:      0,
		Temperature:     core.TemperatureRange{Min: -270, Max: -200},
		Radiation:       1.0,
		CosmicRadiation: true,
	},
}

// aliases maps alternative display names (case-insensitive) to catalog names.
var aliases = map[string]string{
	"leo":        LEO,
	"moon":       Moon,
	"ay":         Moon,
	"mars":       Mars,
	"deepspace":  DeepSpace,
	"deep space": DeepSpace,
	"boşluk":     DeepSpace,
	"bosluk":     DeepSpace,
}

// Lookup returns the environment registered under name or one of its aliases.
func Lookup(name string) (core.Environment, error) {
	if env, ok := catalog[name]; ok {
		return env, nil
	}
	if canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return catalog[canonical], nil
	}
	return core.Environment{}, fmt.Errorf("%w: %q", core.ErrUnknownEnvironment, name)
}

// Names returns the canonical catalog names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GravityVector returns the integrator gravity for env. The horizontal
// component is always zero; positive Y points down.
func GravityVector(env core.Environment) mgl64.Vec2 {
	return mgl64.Vec2{0, env.Gravity * GravityScale}
}
