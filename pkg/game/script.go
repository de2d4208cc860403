package game

import (
	"github.com/IrdiZ/kaiju/pkg/geo"
)

// arriveDistance is how close the character must get to a waypoint before
// heading for the next one.
const arriveDistance = 0.5

// Script describes a scripted rampage for headless runs.
type Script struct {
	Waypoints   []geo.Point2D `yaml:"waypoints" json:"waypoints"`
	Speed       float64       `yaml:"speed" json:"speed"`               // units per second
	StrikeEvery float64       `yaml:"strike_every" json:"strike_every"` // seconds between melee attempts, 0 = never
	StompEvery  float64       `yaml:"stomp_every" json:"stomp_every"`   // seconds between stomps, 0 = never
	Loop        bool          `yaml:"loop" json:"loop"`
}

// ScriptRunner turns a Script into per-tick inputs.
type ScriptRunner struct {
	s          Script
	next       int
	pos        geo.Point2D
	yaw        float64
	sinceMelee float64
	sinceStomp float64
	done       bool
}

// Runner starts the script at its first waypoint.
func (s Script) Runner() *ScriptRunner {
	r := &ScriptRunner{s: s}
	if len(s.Waypoints) == 0 {
		r.done = true
		return r
	}
	r.pos = s.Waypoints[0]
	r.next = 1
	if len(s.Waypoints) > 1 {
		r.yaw = s.Waypoints[1].Sub(r.pos).Yaw()
	}
	return r
}

// Next advances the walker by dt and returns the input for this tick. It
// returns false once the last waypoint is reached on a non-looping script.
func (r *ScriptRunner) Next(dt float64) (Input, bool) {
	if r.done {
		return Input{Position: r.pos, Yaw: r.yaw}, false
	}
	r.walk(r.s.Speed * dt)
	if r.done {
		return Input{Position: r.pos, Yaw: r.yaw}, false
	}

	in := Input{Position: r.pos, Yaw: r.yaw}
	r.sinceMelee += dt
	r.sinceStomp += dt
	if r.s.StrikeEvery > 0 && r.sinceMelee >= r.s.StrikeEvery {
		in.Melee = true
		r.sinceMelee = 0
	}
	if r.s.StompEvery > 0 && r.sinceStomp >= r.s.StompEvery {
		in.Stomp = true
		r.sinceStomp = 0
	}
	return in, true
}

func (r *ScriptRunner) walk(step float64) {
	wps := r.s.Waypoints
	// Bounded so a loop of coincident waypoints cannot spin forever.
	for hops := 0; step > 0 && !r.done && hops <= 2*len(wps); hops++ {
		if r.next >= len(wps) {
			if !r.s.Loop || len(wps) < 2 {
				r.done = true
				return
			}
			r.next = 0
		}
		to := wps[r.next].Sub(r.pos)
		dist := to.Length()
		if dist > 0 {
			r.yaw = to.Yaw()
		}
		if dist <= step || dist < arriveDistance {
			r.pos = wps[r.next]
			step -= dist
			r.next++
			continue
		}
		r.pos = r.pos.Add(to.Scale(step / dist))
		step = 0
	}
}

// Done reports whether the script has finished.
func (r *ScriptRunner) Done() bool { return r.done }
