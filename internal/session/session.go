// Package session owns the per-simulation state: the selected environment,
// the vehicle and its body in the physics engine, and the cumulative damage.
//
// A session is driven from one goroutine:
//
//	s := session.New(physics.NewWorld())
//	s.InitializeEnvironment("Mars")
//	s.CreateVehicle(spec)
//	for ... { s.ApplyThrust(dir, 1); snap := s.Tick(progress, dt, true) }
//	s.Teardown()
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/astrolab/envsim/internal/damage"
	"github.com/astrolab/envsim/internal/environment"
	"github.com/astrolab/envsim/internal/flight"
	"github.com/astrolab/envsim/internal/physics"
	"github.com/astrolab/envsim/internal/propulsion"
	"github.com/astrolab/envsim/internal/thermal"
	"github.com/astrolab/envsim/internal/vehicle"
	"github.com/astrolab/envsim/internal/warning"
	"github.com/astrolab/envsim/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

const (
	// SpeedScale converts engine velocity units into m/s.
	SpeedScale = 100.0

	// FrictionScale converts atmosphere density into body air friction.
	FrictionScale = 0.001

	// InitialTemperature is reported before a vehicle exists.
	InitialTemperature = 20.0

	// DefaultThrustInterval is the burn duration of one ApplyThrust call.
	DefaultThrustInterval = time.Second
)

// Body placement in engine coordinates.
var (
	BodyOrigin = mgl64.Vec2{400, 300}
	BodySize   = mgl64.Vec2{20, 60}
)

// Observer receives every published snapshot.
type Observer func(core.StatusSnapshot)

// ThrustObserver receives every applied thrust command.
type ThrustObserver func(core.ThrustCommand)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithThrustInterval sets how long one ApplyThrust call burns fuel for.
func WithThrustInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.thrustInterval = d
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithObserver registers a snapshot observer.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithThrustObserver registers a thrust observer.
func WithThrustObserver(o ThrustObserver) Option {
	return func(s *Session) {
		if o != nil {
			s.thrustObservers = append(s.thrustObservers, o)
		}
	}
}

// Session is a single simulation run. It is not safe for concurrent use.
type Session struct {
	id        string
	startTime time.Time
	engine    physics.Engine

	env     *core.Environment
	vehicle *core.Vehicle
	spec    core.VehicleSpec
	body    *physics.Body

	damage   float64
	tick     uint
	snapshot core.StatusSnapshot
	tornDown bool

	thrustInterval  time.Duration
	now             func() time.Time
	log             *slog.Logger
	metrics         *sessionMetrics
	observers       []Observer
	thrustObservers []ThrustObserver
}

// New creates a session on top of engine.
func New(engine physics.Engine, opts ...Option) *Session {
	s := &Session{
		id:             uuid.NewString(),
		engine:         engine,
		thrustInterval: DefaultThrustInterval,
		now:            time.Now,
		log:            slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startTime = s.now()
	s.log = s.log.With("session", s.id)
	s.metrics = newSessionMetrics(s.log)
	s.snapshot = s.initialSnapshot()
	return s
}

// ID returns the session UUID.
func (s *Session) ID() string {
	return s.id
}

// InitializeEnvironment selects the session environment and configures the
// engine gravity. It may only be called once.
func (s *Session) InitializeEnvironment(name string) error {
	if s.tornDown {
		return core.ErrTornDown
	}
	if s.env != nil {
		return fmt.Errorf("%w: %s", core.ErrEnvironmentLocked, s.env.Name)
	}

	env, err := environment.Lookup(name)
	if err != nil {
		return err
	}
	s.env = &env

	g := environment.GravityVector(env)
	s.engine.SetGravity(g.X(), g.Y())

	s.log.Info("Environment initialized", "environment", env.Name, "gravity", env.Gravity)
	return nil
}

// CreateVehicle builds the vehicle from spec and registers its body with
// the engine.
func (s *Session) CreateVehicle(spec core.VehicleSpec) (core.Vehicle, error) {
	if s.tornDown {
		return core.Vehicle{}, core.ErrTornDown
	}
	if s.env == nil {
		return core.Vehicle{}, core.ErrNoEnvironment
	}
	if s.vehicle != nil {
		return core.Vehicle{}, core.ErrVehicleExists
	}

	v, err := vehicle.Build(spec)
	if err != nil {
		return core.Vehicle{}, err
	}

	s.vehicle = &v
	s.spec = spec
	s.body = s.engine.CreateBody(BodyOrigin, BodySize, physics.BodyOptions{
		Mass:        v.Mass,
		FrictionAir: s.env.Atmosphere * FrictionScale,
	})
	s.snapshot = s.initialSnapshot()

	s.log.Info("Vehicle created",
		"vehicle", v.Name,
		"mass", v.Mass,
		"thrust", v.Thrust,
		"material", v.Material,
		"controlSystem", v.HasControlSystem,
	)
	return v, nil
}

// ApplyThrust pushes the vehicle along direction at intensity (clamped to
// [0, 1]) and burns fuel for one thrust interval. It returns false when no
// vehicle exists or the tank is empty.
func (s *Session) ApplyThrust(direction mgl64.Vec2, intensity float64) bool {
	if s.tornDown || s.vehicle == nil || s.env == nil {
		return false
	}

	res := propulsion.Apply(s.vehicle, *s.env, direction, intensity, s.thrustInterval)
	if !res.Applied {
		return false
	}
	s.engine.ApplyForce(s.body, s.body.Position, res.Force)

	cmd := core.ThrustCommand{
		SessionID:    s.id,
		Tick:         s.tick,
		Time:         s.now(),
		Direction:    toVec(direction),
		Intensity:    propulsion.ClampIntensity(intensity),
		Force:        toVec(res.Force),
		FuelConsumed: res.FuelConsumed,
		FuelLeft:     s.vehicle.CurrentFuel,
	}
	for _, o := range s.thrustObservers {
		o(cmd)
	}
	s.metrics.fuelBurned(res.FuelConsumed)
	return true
}

// Tick advances the engine by dt, then derives and publishes the status
// snapshot. Tick never fails; before a vehicle exists it returns the
// initial snapshot.
func (s *Session) Tick(progress float64, dt time.Duration, engineRunning bool) core.StatusSnapshot {
	if s.tornDown {
		return s.Snapshot()
	}

	s.engine.Step(dt)
	s.tick++

	if s.vehicle == nil || s.env == nil {
		s.snapshot.Tick = s.tick
		s.snapshot.Time = s.now()
		return s.Snapshot()
	}

	// Kinematics are converted to m/s once, here.
	velocity := s.body.Velocity
	speed := velocity.Len() * SpeedScale

	temperature := thermal.Temperature(progress, engineRunning, *s.env, s.vehicle)
	s.damage = damage.Accumulate(s.damage, damage.Conditions{
		Temperature: temperature,
		Progress:    progress,
		Speed:       speed,
	}, dt, *s.env, s.vehicle)

	alerts := warning.Evaluate(warning.Status{
		Temperature: temperature,
		Fuel:        s.vehicle.CurrentFuel,
		Damage:      s.damage,
		Speed:       speed,
	}, *s.env)

	s.snapshot = core.StatusSnapshot{
		SessionID:   s.id,
		Tick:        s.tick,
		Time:        s.now(),
		Progress:    progress,
		Phase:       flight.PhaseAt(progress),
		EngineOn:    engineRunning && s.vehicle.HasFuel(),
		Position:    toVec(s.body.Position),
		Velocity:    toVec(velocity.Mul(SpeedScale)),
		Speed:       speed,
		Temperature: temperature,
		Fuel:        s.vehicle.CurrentFuel,
		Damage:      s.damage,
		Warnings:    warning.Messages(alerts),
		Alerts:      alerts,
	}

	s.metrics.recordTick(context.Background(), s.snapshot)
	if n := s.snapshot.CriticalCount(); n > 0 {
		s.log.Debug("Critical alerts", "tick", s.tick, "count", n, "warnings", s.snapshot.Warnings)
	}

	snap := s.Snapshot()
	for _, o := range s.observers {
		o(snap)
	}
	return snap
}

// Snapshot returns a copy of the last published snapshot.
func (s *Session) Snapshot() core.StatusSnapshot {
	snap := s.snapshot
	snap.Warnings = append([]string(nil), s.snapshot.Warnings...)
	snap.Alerts = append([]core.Alert(nil), s.snapshot.Alerts...)
	if snap.Warnings == nil {
		snap.Warnings = []string{}
	}
	return snap
}

// Vehicle returns a copy of the vehicle and whether one exists.
func (s *Session) Vehicle() (core.Vehicle, bool) {
	if s.vehicle == nil {
		return core.Vehicle{}, false
	}
	return *s.vehicle, true
}

// Environment returns the selected environment and whether one is set.
func (s *Session) Environment() (core.Environment, bool) {
	if s.env == nil {
		return core.Environment{}, false
	}
	return *s.env, true
}

// Info describes the configured session for recording.
func (s *Session) Info() (core.SessionInfo, error) {
	if s.env == nil {
		return core.SessionInfo{}, core.ErrNoEnvironment
	}
	if s.vehicle == nil {
		return core.SessionInfo{}, core.ErrNoVehicle
	}
	return core.SessionInfo{
		UUID:        s.id,
		StartTime:   s.startTime,
		Environment: *s.env,
		Vehicle:     *s.vehicle,
		Spec:        s.spec,
	}, nil
}

// Teardown releases engine resources. The session cannot be reused.
func (s *Session) Teardown() {
	if s.tornDown {
		return
	}
	s.tornDown = true
	s.engine.Clear()
	s.body = nil
	s.log.Info("Session torn down", "ticks", s.tick, "damage", math.Round(s.damage*100)/100)
}

func (s *Session) initialSnapshot() core.StatusSnapshot {
	fuel := core.FuelCapacity
	if s.vehicle != nil {
		fuel = s.vehicle.CurrentFuel
	}
	return core.StatusSnapshot{
		SessionID:   s.id,
		Tick:        s.tick,
		Time:        s.now(),
		Temperature: InitialTemperature,
		Fuel:        fuel,
		Damage:      s.damage,
		Warnings:    []string{},
	}
}

func toVec(v mgl64.Vec2) core.Vec2 {
	return core.Vec2{X: v.X(), Y: v.Y()}
}
