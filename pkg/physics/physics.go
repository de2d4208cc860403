// Package physics is the rigid-body collaborator used for debris. The World
// interface is what the rest of the core depends on; Basic is a small
// in-process implementation with gravity, damping and a ground plane.
package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/IrdiZ/kaiju/pkg/config"
)

// Handle identifies a body. The zero Handle is never issued.
type Handle uint64

// BodyDesc describes a box-shaped body to create.
type BodyDesc struct {
	HalfExtents     mgl64.Vec3
	Mass            float64
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	LinearDamping   float64
	AngularDamping  float64
}

// BodyState is the resolved transform of a body after a step.
type BodyState struct {
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Grounded        bool
}

// World owns rigid bodies. It holds no reference back to whoever created them.
type World interface {
	Add(desc BodyDesc) Handle
	Remove(h Handle) bool
	Step(dt float64)
	State(h Handle) (BodyState, bool)
	Len() int
}

type body struct {
	desc  BodyDesc
	state BodyState
}

// Basic integrates independent boxes against a ground plane at y = 0.
// Bodies do not collide with each other.
type Basic struct {
	cfg    config.PhysicsConfig
	bodies map[Handle]*body
	next   Handle
}

// NewBasic creates an empty world.
func NewBasic(cfg config.PhysicsConfig) *Basic {
	return &Basic{cfg: cfg, bodies: make(map[Handle]*body)}
}

// Add creates a body and returns its handle. A zero orientation is treated as
// the identity.
func (w *Basic) Add(desc BodyDesc) Handle {
	if desc.Orientation.Len() == 0 {
		desc.Orientation = mgl64.QuatIdent()
	}
	w.next++
	w.bodies[w.next] = &body{
		desc: desc,
		state: BodyState{
			Position:        desc.Position,
			Orientation:     desc.Orientation.Normalize(),
			Velocity:        desc.Velocity,
			AngularVelocity: desc.AngularVelocity,
		},
	}
	return w.next
}

// Remove deletes a body. It reports whether the handle was live.
func (w *Basic) Remove(h Handle) bool {
	if _, ok := w.bodies[h]; !ok {
		return false
	}
	delete(w.bodies, h)
	return true
}

// State returns the current state of a live body.
func (w *Basic) State(h Handle) (BodyState, bool) {
	b, ok := w.bodies[h]
	if !ok {
		return BodyState{}, false
	}
	return b.state, true
}

// Len returns the number of live bodies.
func (w *Basic) Len() int { return len(w.bodies) }

// Step advances every body by dt seconds.
func (w *Basic) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for _, b := range w.bodies {
		w.integrate(b, dt)
	}
}

func (w *Basic) integrate(b *body, dt float64) {
	s := &b.state
	s.Velocity[1] += w.cfg.Gravity * dt
	s.Velocity = s.Velocity.Mul(dampFactor(b.desc.LinearDamping, dt))
	s.AngularVelocity = s.AngularVelocity.Mul(dampFactor(b.desc.AngularDamping, dt))

	s.Position = s.Position.Add(s.Velocity.Mul(dt))
	s.Orientation = integrateOrientation(s.Orientation, s.AngularVelocity, dt)

	s.Grounded = false
	depth := -(s.Position.Y() - lowestExtent(s.Orientation, b.desc.HalfExtents))
	if depth < 0 {
		return
	}
	s.Grounded = true
	s.Position[1] += depth
	if s.Velocity.Y() < 0 {
		s.Velocity[1] = -s.Velocity.Y() * w.cfg.Restitution
	}

	// Coulomb friction against the ground: decelerate horizontally by mu*g.
	horiz := mgl64.Vec2{s.Velocity.X(), s.Velocity.Z()}
	speed := horiz.Len()
	if speed > 0 {
		drop := math.Min(speed, w.cfg.Friction*math.Abs(w.cfg.Gravity)*dt)
		horiz = horiz.Mul((speed - drop) / speed)
		s.Velocity[0], s.Velocity[2] = horiz.X(), horiz.Y()
	}
	s.AngularVelocity = s.AngularVelocity.Mul(math.Max(0, 1-w.cfg.Friction*dt))
}

// dampFactor returns the per-step velocity multiplier (1-d)^dt.
func dampFactor(d, dt float64) float64 {
	if d <= 0 {
		return 1
	}
	if d >= 1 {
		return 0
	}
	return math.Pow(1-d, dt)
}

// integrateOrientation applies q' = q + dt/2 * (0, w) * q and renormalizes.
func integrateOrientation(q mgl64.Quat, omega mgl64.Vec3, dt float64) mgl64.Quat {
	if omega.Len() == 0 {
		return q
	}
	spin := mgl64.Quat{W: 0, V: omega}.Mul(q).Scale(dt / 2)
	return q.Add(spin).Normalize()
}

// lowestExtent is the vertical distance from a box center to its lowest
// corner for the given orientation.
func lowestExtent(q mgl64.Quat, half mgl64.Vec3) float64 {
	axes := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	var e float64
	for i, a := range axes {
		e += math.Abs(q.Rotate(a).Y()) * half[i]
	}
	return e
}
