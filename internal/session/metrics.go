package session

import (
	"context"
	"log/slog"

	"github.com/astrolab/envsim/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/astrolab/envsim/internal/session"

type sessionMetrics struct {
	ticks  metric.Int64Counter
	alerts metric.Int64Counter
	fuel   metric.Float64Counter
	damage metric.Float64Gauge
}

// newSessionMetrics creates instruments on the global meter. Instrument
// errors are logged and leave the instrument nil.
func newSessionMetrics(log *slog.Logger) *sessionMetrics {
	m := otel.Meter(instrumentationName)
	sm := &sessionMetrics{}

	var err error
	if sm.ticks, err = m.Int64Counter("session.ticks",
		metric.WithDescription("Simulation ticks processed")); err != nil {
		log.Warn("Failed to create tick counter", "error", err)
	}
	if sm.alerts, err = m.Int64Counter("session.alerts",
		metric.WithDescription("Alerts raised, by category and severity")); err != nil {
		log.Warn("Failed to create alert counter", "error", err)
	}
	if sm.fuel, err = m.Float64Counter("session.fuel.burned",
		metric.WithDescription("Fuel burned in percent of capacity")); err != nil {
		log.Warn("Failed to create fuel counter", "error", err)
	}
	if sm.damage, err = m.Float64Gauge("session.damage",
		metric.WithDescription("Cumulative structural damage in percent")); err != nil {
		log.Warn("Failed to create damage gauge", "error", err)
	}
	return sm
}

func (m *sessionMetrics) recordTick(ctx context.Context, snap core.StatusSnapshot) {
	if m.ticks != nil {
		m.ticks.Add(ctx, 1)
	}
	if m.damage != nil {
		m.damage.Record(ctx, snap.Damage)
	}
	if m.alerts == nil {
		return
	}
	for _, a := range snap.Alerts {
		m.alerts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", a.Category),
			attribute.String("severity", string(a.Severity)),
		))
	}
}

func (m *sessionMetrics) fuelBurned(amount float64) {
	if m.fuel != nil && amount > 0 {
		m.fuel.Add(context.Background(), amount)
	}
}
