package model

import (
	"time"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels lists every struct here that maps to a table.
var DatabaseModels = []interface{}{
	&SimSession{},
	&Snapshot{},
	&ThrustEvent{},
}

// SimSession is one simulation run: an environment plus a vehicle.
type SimSession struct {
	gorm.Model
	UUID        string    `json:"uuid" gorm:"size:36;uniqueIndex"`
	StartTime   time.Time `json:"startTime" gorm:"type:timestamptz;index:idx_session_start"`
	EndTime     time.Time `json:"endTime" gorm:"type:timestamptz"`
	Environment string    `json:"environment" gorm:"size:32;index:idx_session_environment"`
	Gravity     float64   `json:"gravity"`
	Atmosphere  float64   `json:"atmosphere"`
	Radiation   float64   `json:"radiation"`

	VehicleName      string  `json:"vehicleName" gorm:"size:64"`
	VehicleMass      float64 `json:"vehicleMass"`
	VehicleThrust    float64 `json:"vehicleThrust"`
	Material         string  `json:"material" gorm:"size:32"`
	HasControlSystem bool    `json:"hasControlSystem" gorm:"default:false"`
	SpecType         string  `json:"specType" gorm:"size:16"`

	Ticks       uint    `json:"ticks"`
	FinalDamage float64 `json:"finalDamage"`
	FinalFuel   float64 `json:"finalFuel"`
}

func (*SimSession) TableName() string {
	return "sim_sessions"
}

// Snapshot is the vehicle status at one tick.
type Snapshot struct {
	ID          uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	Time        time.Time  `json:"time" gorm:"type:timestamptz;"`
	SessionID   uint       `json:"sessionId" gorm:"index:idx_snapshot_session_id"`
	Session     SimSession `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick        uint       `json:"tick" gorm:"index:idx_snapshot_tick"`
	Progress    float64    `json:"progress"`
	Phase       string     `json:"phase" gorm:"size:32"`
	EngineOn    bool       `json:"engineOn" gorm:"default:false"`
	Position    geom.Point `json:"position" gorm:"type:geometry"` // body position in simulation units
	VelocityX   float64    `json:"velocityX"`
	VelocityY   float64    `json:"velocityY"`
	Speed       float64    `json:"speed"`       // m/s
	Temperature float64    `json:"temperature"` // °C
	Fuel        float64    `json:"fuel"`
	Damage      float64    `json:"damage"`

	Warnings      datatypes.JSON `json:"warnings"`
	Alerts        datatypes.JSON `json:"alerts"`
	CriticalCount uint8          `json:"criticalCount"`
}

func (*Snapshot) TableName() string {
	return "snapshots"
}

// ThrustEvent is one applied thrust command.
type ThrustEvent struct {
	ID           uint       `json:"id" gorm:"primarykey;autoIncrement;"`
	Time         time.Time  `json:"time" gorm:"type:timestamptz;"`
	SessionID    uint       `json:"sessionId" gorm:"index:idx_thrust_session_id"`
	Session      SimSession `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick         uint       `json:"tick"`
	Direction    geom.Point `json:"direction" gorm:"type:geometry"`
	Intensity    float64    `json:"intensity"`
	Force        geom.Point `json:"force" gorm:"type:geometry"`
	FuelConsumed float64    `json:"fuelConsumed"`
	FuelLeft     float64    `json:"fuelLeft"`
}

func (*ThrustEvent) TableName() string {
	return "thrust_events"
}
