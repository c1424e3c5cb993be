// Package v1 contains the v1 recording format of a simulation session.
package v1

import "time"

// FormatVersion identifies this layout in the exported file.
const FormatVersion = 1

// Export is the root JSON structure for v1 format.
type Export struct {
	FormatVersion int       `json:"formatVersion"`
	SessionUUID   string    `json:"sessionUuid"`
	StartTime     time.Time `json:"startTime"`
	EndTick       uint      `json:"endTick"`
	Environment   Env       `json:"environment"`
	Vehicle       Vehicle   `json:"vehicle"`
	Summary       Summary   `json:"summary"`

	// Frames holds one compact row per tick, see FrameColumns.
	Frames [][]float64 `json:"frames"`
	// Alerts holds [tick, category, severity, message] rows.
	Alerts [][]any `json:"alerts"`
	// Thrusts holds [tick, dirX, dirY, intensity, fuelConsumed, fuelLeft] rows.
	Thrusts [][]float64 `json:"thrusts"`
}

// FrameColumns names the columns of Export.Frames.
var FrameColumns = []string{
	"tick", "progress", "x", "y", "vx", "vy", "speed", "temperature", "fuel", "damage", "engineOn",
}

// Env is the environment profile of the session.
type Env struct {
	Name       string  `json:"name"`
	Gravity    float64 `json:"gravity"`
	Atmosphere float64 `json:"atmosphere"`
	Radiation  float64 `json:"radiation"`
	TempMin    float64 `json:"tempMin"`
	TempMax    float64 `json:"tempMax"`
	CosmicFlux bool    `json:"cosmicRadiation,omitempty"`
	LowOrbit   bool    `json:"lowOrbit,omitempty"`
}

// Vehicle is the vehicle profile of the session.
type Vehicle struct {
	Name             string  `json:"name"`
	Mass             float64 `json:"mass"`
	Thrust           float64 `json:"thrust"`
	Material         string  `json:"material"`
	HasControlSystem bool    `json:"hasControlSystem"`
}

// Summary aggregates the whole run.
type Summary struct {
	MaxSpeed       float64 `json:"maxSpeed"`
	MinTemperature float64 `json:"minTemperature"`
	MaxTemperature float64 `json:"maxTemperature"`
	FinalFuel      float64 `json:"finalFuel"`
	FinalDamage    float64 `json:"finalDamage"`
	CriticalAlerts int     `json:"criticalAlerts"`
	WarningAlerts  int     `json:"warningAlerts"`
}
