package physics

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// GravityScale converts world gravity into per-ms² acceleration.
	GravityScale = 0.001

	// BaseDelta is the reference step in milliseconds that velocities are
	// expressed against.
	BaseDelta = 1000.0 / 60.0
)

// World is a deterministic semi-implicit Euler integrator. Forces applied
// between steps are consumed by the next Step.
type World struct {
	gravity mgl64.Vec2
	bodies  []*Body
	nextID  int
}

// NewWorld creates an empty world with zero gravity.
func NewWorld() *World {
	return &World{}
}

// SetGravity sets the world gravity.
func (w *World) SetGravity(x, y float64) {
	w.gravity = mgl64.Vec2{x, y}
}

// Gravity returns the current world gravity.
func (w *World) Gravity() mgl64.Vec2 {
	return w.gravity
}

// CreateBody adds a body at position. A non-positive or non-finite mass is
// treated as 1.
func (w *World) CreateBody(position, size mgl64.Vec2, opts BodyOptions) *Body {
	mass := opts.Mass
	if !(mass > 0) || math.IsInf(mass, 0) {
		mass = 1
	}
	w.nextID++
	b := &Body{
		ID:          w.nextID,
		Position:    position,
		Size:        size,
		Mass:        mass,
		FrictionAir: opts.FrictionAir,
	}
	w.bodies = append(w.bodies, b)
	return b
}

// ApplyForce accumulates force on body for the next step. Forces are applied
// at the center of mass; position is accepted for interface parity.
func (w *World) ApplyForce(body *Body, position, force mgl64.Vec2) {
	if body == nil {
		return
	}
	body.force = body.force.Add(force)
}

// Step advances all bodies by dt and clears accumulated forces.
func (w *World) Step(dt time.Duration) {
	ms := float64(dt) / float64(time.Millisecond)
	if ms <= 0 {
		return
	}
	ratio := ms / BaseDelta

	for _, b := range w.bodies {
		accel := b.force.Mul(1 / b.Mass).Add(w.gravity.Mul(GravityScale))

		damping := 1 - b.FrictionAir*ratio
		if damping < 0 {
			damping = 0
		}

		b.Velocity = b.Velocity.Mul(damping).Add(accel.Mul(ms * ms / BaseDelta))
		b.Position = b.Position.Add(b.Velocity.Mul(ratio))
		b.force = mgl64.Vec2{}
	}
}

// Bodies returns the bodies currently in the world.
func (w *World) Bodies() []*Body {
	return w.bodies
}

// Clear removes all bodies.
func (w *World) Clear() {
	w.bodies = nil
}

var _ Engine = (*World)(nil)
