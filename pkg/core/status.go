package core

import "time"

// Severity of an alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Alert categories, in emission order.
const (
	CategoryOverheat  = "overheat"
	CategoryFreeze    = "freeze"
	CategoryFuel      = "fuel"
	CategoryDamage    = "damage"
	CategorySpeed     = "speed"
	CategoryRadiation = "radiation"
	CategoryCosmic    = "cosmic"
)

// Alert is a structured warning produced for one tick.
type Alert struct {
	Category string   `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Vec2 is a plain 2D vector used on the wire and in storage.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// StatusSnapshot is the per-tick status published to consumers.
// It is rebuilt every tick; Warnings are never carried over.
type StatusSnapshot struct {
	SessionID   string    `json:"sessionId,omitempty"`
	Tick        uint      `json:"tick"`
	Time        time.Time `json:"time"`
	Progress    float64   `json:"progress"`
	Phase       string    `json:"phase,omitempty"`
	EngineOn    bool      `json:"engineOn"`
	Position    Vec2      `json:"position"`
	Velocity    Vec2      `json:"velocity"`
	Speed       float64   `json:"speed"`       // m/s
	Temperature float64   `json:"temperature"` // °C
	Fuel        float64   `json:"fuel"`        // 0..100
	Damage      float64   `json:"damage"`      // 0..100
	Warnings    []string  `json:"warnings"`
	Alerts      []Alert   `json:"alerts,omitempty"`
}

// CriticalCount returns the number of critical alerts in the snapshot.
func (s StatusSnapshot) CriticalCount() int {
	n := 0
	for _, a := range s.Alerts {
		if a.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
