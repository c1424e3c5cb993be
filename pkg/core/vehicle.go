package core

// Material is the structural material of a vehicle hull.
type Material string

const (
	MaterialAluminum    Material = "Aluminum"
	MaterialCarbonFiber Material = "Carbon-fiber"
	MaterialComposite   Material = "Composite"
)

// Spec types accepted by the vehicle profile.
const (
	SpecManual = "manual"
	SpecPreset = "preset"
)

// FuelCapacity is the fixed tank capacity in percent.
const FuelCapacity = 100.0

// VehicleSpec describes a vehicle either by explicit parameters (manual) or by
// a named preset.
type VehicleSpec struct {
	Type             string  `json:"type" mapstructure:"type"`
	Model            string  `json:"model,omitempty" mapstructure:"model"`
	Weight           float64 `json:"weight,omitempty" mapstructure:"weight"`
	MotorPower       float64 `json:"motorPower,omitempty" mapstructure:"motorPower"`
	Material         string  `json:"material,omitempty" mapstructure:"material"`
	HasControlSystem bool    `json:"hasControlSystem" mapstructure:"hasControlSystem"`
}

// Vehicle is the simulated body. CurrentFuel only decreases during a session.
type Vehicle struct {
	Name             string   `json:"name"`
	Mass             float64  `json:"mass"`   // kg
	Thrust           float64  `json:"thrust"` // N, abstracted
	Material         Material `json:"material"`
	HasControlSystem bool     `json:"hasControlSystem"`
	FuelCapacity     float64  `json:"fuelCapacity"`
	CurrentFuel      float64  `json:"currentFuel"`
}

// HasFuel reports whether any fuel remains.
func (v *Vehicle) HasFuel() bool {
	return v != nil && v.CurrentFuel > 0
}
