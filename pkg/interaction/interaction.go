// Package interaction decides which buildings a character action reaches.
// Every query is read-only; destroying the hits is the caller's job.
package interaction

import (
	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geo"
)

// Action names the path that selected a building.
type Action string

const (
	ActionMelee   Action = "melee"
	ActionStomp   Action = "stomp"
	ActionAmbient Action = "ambient"
)

// Locator is the registry view used for reach queries.
type Locator interface {
	FindNear(p geo.Point2D, maxDistance float64) []int
	Get(index int) (*building.Record, error)
	MaxBoundingRadius() float64
}

// Detector answers melee, stomp and walk-through queries.
type Detector struct {
	cfg config.InteractionConfig
	loc Locator
}

// NewDetector creates a detector over loc.
func NewDetector(cfg config.InteractionConfig, loc Locator) *Detector {
	return &Detector{cfg: cfg, loc: loc}
}

// MeleeEligible is the melee rule for one building: within bounding radius
// plus melee range, and either in front of the character or very close.
// facing is the dot product of the forward vector with the vector to the
// centroid.
func MeleeEligible(dist, radius, facing float64, cfg config.InteractionConfig) bool {
	return dist < radius+cfg.MeleeRange && (facing > 0 || dist < cfg.CloseRange)
}

// Melee returns the standing buildings a strike from pos facing yaw hits.
func (d *Detector) Melee(pos geo.Point2D, yaw float64) []int {
	fwd := geo.Forward(yaw)
	return d.filter(pos, d.loc.MaxBoundingRadius()+d.cfg.MeleeRange, func(rec *building.Record, to geo.Point2D, dist float64) bool {
		return MeleeEligible(dist, rec.BoundingRadius, fwd.Dot(to), d.cfg)
	})
}

// Stomp returns every standing building whose centroid is within the stomp
// radius of pos, regardless of facing.
func (d *Detector) Stomp(pos geo.Point2D) []int {
	return d.loc.FindNear(pos, d.cfg.StompRadius)
}

// Ambient returns the standing buildings the character body overlaps.
func (d *Detector) Ambient(pos geo.Point2D) []int {
	return d.filter(pos, d.loc.MaxBoundingRadius()+d.cfg.CharacterRadius, func(rec *building.Record, _ geo.Point2D, dist float64) bool {
		return dist < rec.BoundingRadius+d.cfg.CharacterRadius
	})
}

// filter narrows a coarse radius query with a per-building test.
func (d *Detector) filter(pos geo.Point2D, coarse float64, keep func(*building.Record, geo.Point2D, float64) bool) []int {
	var out []int
	for _, idx := range d.loc.FindNear(pos, coarse) {
		rec, err := d.loc.Get(idx)
		if err != nil {
			continue
		}
		to := rec.Centroid.Sub(pos)
		if keep(rec, to, to.Length()) {
			out = append(out, idx)
		}
	}
	return out
}

// Cooldown rate-limits an action. The zero value with an Interval is ready.
type Cooldown struct {
	Interval float64
	last     float64
	used     bool
}

// Ready reports whether an attempt at time now would succeed.
func (c *Cooldown) Ready(now float64) bool {
	return !c.used || now-c.last >= c.Interval
}

// Try consumes the cooldown if it is ready. A blocked attempt changes nothing.
func (c *Cooldown) Try(now float64) bool {
	if !c.Ready(now) {
		return false
	}
	c.last = now
	c.used = true
	return true
}

// Remaining returns the seconds until the next attempt can succeed.
func (c *Cooldown) Remaining(now float64) float64 {
	if c.Ready(now) {
		return 0
	}
	return c.Interval - (now - c.last)
}
