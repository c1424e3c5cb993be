package v1

import (
	"math"

	"github.com/astrolab/envsim/pkg/core"
)

// Build converts a recorded session into the v1 export layout. Snapshots
// must be in tick order.
func Build(info core.SessionInfo, snapshots []core.StatusSnapshot, thrusts []core.ThrustCommand) Export {
	out := Export{
		FormatVersion: FormatVersion,
		SessionUUID:   info.UUID,
		StartTime:     info.StartTime,
		Environment: Env{
			Name:       info.Environment.Name,
			Gravity:    info.Environment.Gravity,
			Atmosphere: info.Environment.Atmosphere,
			Radiation:  info.Environment.Radiation,
			TempMin:    info.Environment.Temperature.Min,
			TempMax:    info.Environment.Temperature.Max,
			CosmicFlux: info.Environment.CosmicRadiation,
			LowOrbit:   info.Environment.IsLowOrbit(),
		},
		Vehicle: Vehicle{
			Name:             info.Vehicle.Name,
			Mass:             info.Vehicle.Mass,
			Thrust:           info.Vehicle.Thrust,
			Material:         string(info.Vehicle.Material),
			HasControlSystem: info.Vehicle.HasControlSystem,
		},
		Frames:  make([][]float64, 0, len(snapshots)),
		Alerts:  make([][]any, 0),
		Thrusts: make([][]float64, 0, len(thrusts)),
	}

	sum := Summary{
		MinTemperature: math.Inf(1),
		MaxTemperature: math.Inf(-1),
		FinalFuel:      info.Vehicle.CurrentFuel,
	}

	for _, s := range snapshots {
		engine := 0.0
		if s.EngineOn {
			engine = 1
		}
		out.Frames = append(out.Frames, []float64{
			float64(s.Tick), s.Progress,
			s.Position.X, s.Position.Y,
			s.Velocity.X, s.Velocity.Y,
			s.Speed, s.Temperature, s.Fuel, s.Damage, engine,
		})

		for _, a := range s.Alerts {
			out.Alerts = append(out.Alerts, []any{s.Tick, a.Category, string(a.Severity), a.Message})
			if a.Severity == core.SeverityCritical {
				sum.CriticalAlerts++
			} else {
				sum.WarningAlerts++
			}
		}

		sum.MaxSpeed = math.Max(sum.MaxSpeed, s.Speed)
		sum.MinTemperature = math.Min(sum.MinTemperature, s.Temperature)
		sum.MaxTemperature = math.Max(sum.MaxTemperature, s.Temperature)
		sum.FinalFuel = s.Fuel
		sum.FinalDamage = s.Damage
		out.EndTick = s.Tick
	}

	if len(snapshots) == 0 {
		sum.MinTemperature, sum.MaxTemperature = 0, 0
	}

	for _, c := range thrusts {
		out.Thrusts = append(out.Thrusts, []float64{
			float64(c.Tick), c.Direction.X, c.Direction.Y, c.Intensity, c.FuelConsumed, c.FuelLeft,
		})
	}

	out.Summary = sum
	return out
}
