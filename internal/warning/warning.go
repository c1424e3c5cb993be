// Package warning maps the current vehicle status to an ordered list of alerts.
package warning

import (
	"fmt"
	"math"

	"github.com/astrolab/envsim/pkg/core"
)

// Thresholds. Temperatures in °C, fuel and damage in percent, speed in m/s.
const (
	OverheatCritical = 200.0
	OverheatWarning  = 100.0

	FreezeCritical = -250.0
	FreezeWarning  = -200.0

	FuelCritical = 10.0
	FuelWarning  = 25.0

	DamageCritical = 80.0
	DamageWarning  = 50.0

	SpeedWarning     = 200.0
	RadiationWarning = 0.7
)

// Status is the input to alert evaluation.
type Status struct {
	Temperature float64
	Fuel        float64
	Damage      float64
	Speed       float64
}

// round rounds v to the nearest integer for display.
func round(v float64) int {
	return int(math.Round(v))
}

// Evaluate returns the alerts for s in fixed category order: temperature,
// fuel, damage, speed, radiation, cosmic radiation. Each category yields at
// most one alert and a critical alert replaces the warning of its category.
func Evaluate(s Status, env core.Environment) []core.Alert {
	alerts := make([]core.Alert, 0, 4)
	add := func(category string, severity core.Severity, format string, args ...any) {
		alerts = append(alerts, core.Alert{
			Category: category,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	switch {
	case s.Temperature > OverheatCritical:
		add(core.CategoryOverheat, core.SeverityCritical, "CRITICAL: System overheated (%d°C)", round(s.Temperature))
	case s.Temperature > OverheatWarning:
		add(core.CategoryOverheat, core.SeverityWarning, "WARNING: High engine temperature (%d°C)", round(s.Temperature))
	}

	switch {
	case s.Temperature < FreezeCritical:
		add(core.CategoryFreeze, core.SeverityCritical, "CRITICAL: System freezing risk (%d°C)", round(s.Temperature))
	case s.Temperature < FreezeWarning:
		add(core.CategoryFreeze, core.SeverityWarning, "WARNING: Low temperature risk (%d°C)", round(s.Temperature))
	}

	switch {
	case s.Fuel < FuelCritical:
		add(core.CategoryFuel, core.SeverityCritical, "CRITICAL: Fuel critically low (%d%%)", round(s.Fuel))
	case s.Fuel < FuelWarning:
		add(core.CategoryFuel, core.SeverityWarning, "WARNING: Fuel level low (%d%%)", round(s.Fuel))
	}

	switch {
	case s.Damage > DamageCritical:
		add(core.CategoryDamage, core.SeverityCritical, "CRITICAL: System failure risk (%d%% damage)", round(s.Damage))
	case s.Damage > DamageWarning:
		add(core.CategoryDamage, core.SeverityWarning, "WARNING: High damage level (%d%%)", round(s.Damage))
	}

	if s.Speed > SpeedWarning {
		add(core.CategorySpeed, core.SeverityWarning, "WARNING: High speed, loss of control risk (%d m/s)", round(s.Speed))
	}

	if env.Radiation > RadiationWarning {
		add(core.CategoryRadiation, core.SeverityWarning, "WARNING: High radiation level (%.1f)", env.Radiation)
	}

	if env.CosmicRadiation {
		add(core.CategoryCosmic, core.SeverityWarning, "WARNING: Cosmic radiation detected")
	}

	return alerts
}

// Generate returns the alert messages for the given status.
func Generate(temperature, fuel, damage, speed float64, env core.Environment) []string {
	return Messages(Evaluate(Status{
		Temperature: temperature,
		Fuel:        fuel,
		Damage:      damage,
		Speed:       speed,
	}, env))
}

// Messages extracts the message text of each alert, preserving order.
func Messages(alerts []core.Alert) []string {
	out := make([]string, len(alerts))
	for i, a := range alerts {
		out[i] = a.Message
	}
	return out
}
