package core

import "time"

// SessionInfo describes a configured simulation session for recording.
type SessionInfo struct {
	ID          uint        `json:"id"`
	UUID        string      `json:"uuid"`
	StartTime   time.Time   `json:"startTime"`
	Environment Environment `json:"environment"`
	Vehicle     Vehicle     `json:"vehicle"`
	Spec        VehicleSpec `json:"spec"`
}

// ThrustCommand records one thrust application.
type ThrustCommand struct {
	SessionID    string    `json:"sessionId,omitempty"`
	Tick         uint      `json:"tick"`
	Time         time.Time `json:"time"`
	Direction    Vec2      `json:"direction"`
	Intensity    float64   `json:"intensity"`
	Force        Vec2      `json:"force"`
	FuelConsumed float64   `json:"fuelConsumed"`
	FuelLeft     float64   `json:"fuelLeft"`
}

// UploadMetadata accompanies an exported recording sent to the web server.
type UploadMetadata struct {
	SessionUUID string
	Environment string
	Vehicle     string
	Duration    float64 // seconds
	Tag         string
}
