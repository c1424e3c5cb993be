package core

// TemperatureRange is the ambient temperature span of an environment in °C.
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Environment is the immutable physical profile of a location the vehicle
// operates in. Optional traits are zero when the environment does not define them.
type Environment struct {
	Name        string           `json:"name"`
	Gravity     float64          `json:"gravity"`    // m/s²
	Atmosphere  float64          `json:"atmosphere"` // density index, 0 = vacuum
	Temperature TemperatureRange `json:"temperature"`
	Radiation   float64          `json:"radiation"` // 0..1

	OrbitalVelocity float64 `json:"orbitalVelocity,omitempty"` // m/s
	EscapeVelocity  float64 `json:"escapeVelocity,omitempty"`  // m/s
	CosmicRadiation bool    `json:"cosmicRadiation,omitempty"`
}

// IsLowOrbit reports whether the environment has an orbital velocity trait.
func (e Environment) IsLowOrbit() bool {
	return e.OrbitalVelocity > 0
}

// HasAtmosphere reports whether any atmosphere is present.
func (e Environment) HasAtmosphere() bool {
	return e.Atmosphere > 0
}
