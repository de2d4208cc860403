// Package game wires the rampage core together and runs it one frame at a
// time.
package game

import (
	"math"

	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/destruction"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/interaction"
	"github.com/IrdiZ/kaiju/pkg/sim"
)

// Input is the character controller state sampled for one frame.
type Input struct {
	Position geo.Point2D `json:"position"`
	Yaw      float64     `json:"yaw"`
	Melee    bool        `json:"melee,omitempty"`
	Stomp    bool        `json:"stomp,omitempty"`
}

// Hit is one destruction caused during a frame.
type Hit struct {
	Action interaction.Action `json:"action"`
	Event  destruction.Event  `json:"event"`
}

// Frame reports what happened during one tick.
type Frame struct {
	Tick         uint64      `json:"tick"`
	Time         float64     `json:"time"`
	Dt           float64     `json:"dt"`
	Character    geo.Point2D `json:"character"`
	Yaw          float64     `json:"yaw"`
	Hits         []Hit       `json:"hits,omitempty"`
	MeleeBlocked bool        `json:"melee_blocked,omitempty"`
	StompBlocked bool        `json:"stomp_blocked,omitempty"`
	Camera       Camera      `json:"camera"`
	Chunks       int         `json:"chunks"`
	Particles    int         `json:"particles"`
}

// Driver runs ticks in a fixed order: clamp dt, advance the clock, move the
// character, walk-through collisions, melee, stomp, simulation, camera.
type Driver struct {
	maxStep  float64
	detector *interaction.Detector
	engine   *destruction.Engine
	sim      *sim.Simulator
	camera   *ChaseCamera
	melee    interaction.Cooldown
	stomp    interaction.Cooldown

	tick  uint64
	clock float64
	pos   geo.Point2D
	yaw   float64
}

// NewDriver creates a driver over the given collaborators.
func NewDriver(cfg config.Config, detector *interaction.Detector, engine *destruction.Engine, s *sim.Simulator, camera *ChaseCamera) *Driver {
	return &Driver{
		maxStep:  cfg.Simulation.MaxStep,
		detector: detector,
		engine:   engine,
		sim:      s,
		camera:   camera,
		melee:    interaction.Cooldown{Interval: cfg.Interaction.MeleeCooldown},
		stomp:    interaction.Cooldown{Interval: cfg.Interaction.StompCooldown},
	}
}

// Tick advances one frame.
func (d *Driver) Tick(in Input, dt float64) Frame {
	if !(dt > 0) {
		dt = 0
	}
	dt = math.Min(dt, d.maxStep)
	d.clock += dt
	d.tick++

	if in.Position.IsFinite() {
		d.pos = in.Position
	}
	if !math.IsNaN(in.Yaw) && !math.IsInf(in.Yaw, 0) {
		d.yaw = in.Yaw
	}

	f := Frame{Tick: d.tick, Time: d.clock, Dt: dt, Character: d.pos, Yaw: d.yaw}

	d.destroyAll(&f, interaction.ActionAmbient, d.detector.Ambient(d.pos))

	if in.Melee {
		if d.melee.Try(d.clock) {
			d.destroyAll(&f, interaction.ActionMelee, d.detector.Melee(d.pos, d.yaw))
		} else {
			f.MeleeBlocked = true
		}
	}
	if in.Stomp {
		if d.stomp.Try(d.clock) {
			d.destroyAll(&f, interaction.ActionStomp, d.detector.Stomp(d.pos))
		} else {
			f.StompBlocked = true
		}
	}

	d.sim.Step(dt)
	f.Camera = d.camera.Follow(d.pos, d.yaw, dt)
	f.Chunks = d.sim.ChunkCount()
	f.Particles = len(d.sim.Particles())
	return f
}

// Destroy demolishes one building from the character's position outside the
// normal input path, for API callers.
func (d *Driver) Destroy(index int) (destruction.Event, bool) {
	ev, ok := d.engine.Destroy(index, d.pos.X, d.pos.Z)
	if ok {
		d.camera.Shake(ev.Shake)
	}
	return ev, ok
}

func (d *Driver) destroyAll(f *Frame, action interaction.Action, targets []int) {
	for _, idx := range targets {
		ev, ok := d.engine.Destroy(idx, d.pos.X, d.pos.Z)
		if !ok {
			continue
		}
		d.camera.Shake(ev.Shake)
		f.Hits = append(f.Hits, Hit{Action: action, Event: ev})
	}
}

// Clock returns the simulated time in seconds.
func (d *Driver) Clock() float64 { return d.clock }

// Ticks returns the number of ticks run.
func (d *Driver) Ticks() uint64 { return d.tick }

// Character returns the current character position and yaw.
func (d *Driver) Character() (geo.Point2D, float64) { return d.pos, d.yaw }
