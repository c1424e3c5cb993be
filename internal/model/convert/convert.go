// Package convert provides functions to convert between GORM models and core models
package convert

import (
	"encoding/json"

	"github.com/astrolab/envsim/internal/geo"
	"github.com/astrolab/envsim/internal/model"
	"github.com/astrolab/envsim/pkg/core"
	"gorm.io/datatypes"
)

// toJSON marshals v for a JSON column. Nil slices become "[]".
func toJSON[T any](items []T) datatypes.JSON {
	if len(items) == 0 {
		return datatypes.JSON("[]")
	}
	data, err := json.Marshal(items)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(data)
}

// fromJSON decodes a JSON column into a slice. Invalid data yields an empty slice.
func fromJSON[T any](data datatypes.JSON) []T {
	out := []T{}
	if len(data) == 0 {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return []T{}
	}
	return out
}

// CoreToSession converts session metadata to a GORM model.SimSession.
func CoreToSession(s core.SessionInfo) model.SimSession {
	return model.SimSession{
		UUID:             s.UUID,
		StartTime:        s.StartTime,
		Environment:      s.Environment.Name,
		Gravity:          s.Environment.Gravity,
		Atmosphere:       s.Environment.Atmosphere,
		Radiation:        s.Environment.Radiation,
		VehicleName:      s.Vehicle.Name,
		VehicleMass:      s.Vehicle.Mass,
		VehicleThrust:    s.Vehicle.Thrust,
		Material:         string(s.Vehicle.Material),
		HasControlSystem: s.Vehicle.HasControlSystem,
		SpecType:         s.Spec.Type,
	}
}

// SessionToCore converts a stored session back to session metadata.
// Environment fields not persisted on the row are left zero.
func SessionToCore(s model.SimSession) core.SessionInfo {
	return core.SessionInfo{
		ID:        s.ID,
		UUID:      s.UUID,
		StartTime: s.StartTime,
		Environment: core.Environment{
			Name:       s.Environment,
			Gravity:    s.Gravity,
			Atmosphere: s.Atmosphere,
			Radiation:  s.Radiation,
		},
		Vehicle: core.Vehicle{
			Name:             s.VehicleName,
			Mass:             s.VehicleMass,
			Thrust:           s.VehicleThrust,
			Material:         core.Material(s.Material),
			HasControlSystem: s.HasControlSystem,
			FuelCapacity:     core.FuelCapacity,
			CurrentFuel:      s.FinalFuel,
		},
		Spec: core.VehicleSpec{Type: s.SpecType},
	}
}

// CoreToSnapshot converts a status snapshot to a GORM model.Snapshot.
// SessionID is left for the writer to stamp.
func CoreToSnapshot(s core.StatusSnapshot) model.Snapshot {
	return model.Snapshot{
		Time:          s.Time,
		Tick:          s.Tick,
		Progress:      s.Progress,
		Phase:         s.Phase,
		EngineOn:      s.EngineOn,
		Position:      geo.PointFromVec2(s.Position),
		VelocityX:     s.Velocity.X,
		VelocityY:     s.Velocity.Y,
		Speed:         s.Speed,
		Temperature:   s.Temperature,
		Fuel:          s.Fuel,
		Damage:        s.Damage,
		Warnings:      toJSON(s.Warnings),
		Alerts:        toJSON(s.Alerts),
		CriticalCount: uint8(s.CriticalCount()),
	}
}

// SnapshotToCore converts a stored snapshot back to a core.StatusSnapshot.
func SnapshotToCore(s model.Snapshot) core.StatusSnapshot {
	return core.StatusSnapshot{
		Tick:        s.Tick,
		Time:        s.Time,
		Progress:    s.Progress,
		Phase:       s.Phase,
		EngineOn:    s.EngineOn,
		Position:    geo.Vec2FromPoint(s.Position),
		Velocity:    core.Vec2{X: s.VelocityX, Y: s.VelocityY},
		Speed:       s.Speed,
		Temperature: s.Temperature,
		Fuel:        s.Fuel,
		Damage:      s.Damage,
		Warnings:    fromJSON[string](s.Warnings),
		Alerts:      fromJSON[core.Alert](s.Alerts),
	}
}

// CoreToThrustEvent converts a thrust command to a GORM model.ThrustEvent.
func CoreToThrustEvent(c core.ThrustCommand) model.ThrustEvent {
	return model.ThrustEvent{
		Time:         c.Time,
		Tick:         c.Tick,
		Direction:    geo.PointFromVec2(c.Direction),
		Intensity:    c.Intensity,
		Force:        geo.PointFromVec2(c.Force),
		FuelConsumed: c.FuelConsumed,
		FuelLeft:     c.FuelLeft,
	}
}

// ThrustEventToCore converts a stored thrust event back to a core.ThrustCommand.
func ThrustEventToCore(e model.ThrustEvent) core.ThrustCommand {
	return core.ThrustCommand{
		Tick:         e.Tick,
		Time:         e.Time,
		Direction:    geo.Vec2FromPoint(e.Direction),
		Intensity:    e.Intensity,
		Force:        geo.Vec2FromPoint(e.Force),
		FuelConsumed: e.FuelConsumed,
		FuelLeft:     e.FuelLeft,
	}
}
