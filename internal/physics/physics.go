// Package physics defines the rigid-body capabilities the simulation core
// depends on and provides a small deterministic 2D integrator.
package physics

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyOptions configures a body at creation.
type BodyOptions struct {
	Mass        float64
	FrictionAir float64
}

// Body is a rigid body owned by an Engine. Position and Velocity are in
// engine units and are only valid after a Step.
type Body struct {
	ID          int
	Position    mgl64.Vec2
	Velocity    mgl64.Vec2
	Size        mgl64.Vec2
	Mass        float64
	FrictionAir float64

	force mgl64.Vec2
}

// Speed returns the velocity magnitude in engine units.
func (b *Body) Speed() float64 {
	if b == nil {
		return 0
	}
	return b.Velocity.Len()
}

// Engine is the subset of a physics engine the simulation core uses.
// Implementations are driven from a single goroutine.
type Engine interface {
	SetGravity(x, y float64)
	CreateBody(position, size mgl64.Vec2, opts BodyOptions) *Body
	ApplyForce(body *Body, position, force mgl64.Vec2)
	Step(dt time.Duration)
	Clear()
}
