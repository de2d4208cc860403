// Package sim advances debris chunks and dust particles and owns their
// lifetimes once the destruction engine hands them over.
package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/physics"
)

// Chunk is one debris piece paired with its physics body.
type Chunk struct {
	ID          uint64         `json:"id"`
	Building    int            `json:"building"`
	Body        physics.Handle `json:"-"`
	HalfExtents mgl64.Vec3     `json:"half_extents"`
	Position    mgl64.Vec3     `json:"position"`
	Rotation    mgl64.Quat     `json:"-"`
	Remaining   float64        `json:"remaining"`
	Opacity     float64        `json:"opacity"`
	Material    string         `json:"material"`
}

// Particle is a visual-only dust puff.
type Particle struct {
	Position  mgl64.Vec3 `json:"position"`
	Velocity  mgl64.Vec3 `json:"-"`
	Life      float64    `json:"life"`
	MaxLife   float64    `json:"max_life"`
	BaseScale float64    `json:"-"`
	Scale     float64    `json:"scale"`
	Opacity   float64    `json:"opacity"`
}

// Stats counts chunk and particle traffic since creation.
type Stats struct {
	Chunks           int     `json:"chunks"`
	Particles        int     `json:"particles"`
	ChunksCreated    uint64  `json:"chunks_created"`
	ChunksExpired    uint64  `json:"chunks_expired"`
	ChunksEvicted    uint64  `json:"chunks_evicted"`
	PeakChunks       int     `json:"peak_chunks"`
	ParticlesCreated uint64  `json:"particles_created"`
	ParticlesExpired uint64  `json:"particles_expired"`
	Elapsed          float64 `json:"elapsed"`
}

// Simulator steps the physics world and does lifetime bookkeeping. Chunks are
// kept in creation order so the oldest is always at the front.
type Simulator struct {
	cfg       config.SimulationConfig
	world     physics.World
	log       logrus.FieldLogger
	chunks    []*Chunk
	particles []*Particle
	nextID    uint64
	stats     Stats
}

// New creates a simulator over world.
func New(cfg config.SimulationConfig, world physics.World, log logrus.FieldLogger) *Simulator {
	return &Simulator{cfg: cfg, world: world, log: logging.OrDiscard(log)}
}

// AddChunks takes ownership of chunks and their bodies. IDs are assigned in
// order and the chunk cap is enforced immediately.
func (s *Simulator) AddChunks(chunks []Chunk) {
	for i := range chunks {
		c := chunks[i]
		s.nextID++
		c.ID = s.nextID
		if c.Opacity == 0 {
			c.Opacity = 1
		}
		s.chunks = append(s.chunks, &c)
		s.stats.ChunksCreated++
	}
	s.enforceCap()
	if len(s.chunks) > s.stats.PeakChunks {
		s.stats.PeakChunks = len(s.chunks)
	}
}

// AddParticles takes ownership of a dust burst.
func (s *Simulator) AddParticles(ps []Particle) {
	for i := range ps {
		p := ps[i]
		if p.MaxLife <= 0 {
			p.MaxLife = p.Life
		}
		p.Scale = p.BaseScale
		p.Opacity = s.cfg.DustMaxOpacity
		s.particles = append(s.particles, &p)
		s.stats.ParticlesCreated++
	}
}

// Step advances the simulation. dt is clamped to MaxStep; the clamped value
// is returned.
func (s *Simulator) Step(dt float64) float64 {
	dt = math.Min(dt, s.cfg.MaxStep)
	if !(dt > 0) {
		return 0
	}
	s.stats.Elapsed += dt
	s.world.Step(dt)
	s.stepChunks(dt)
	s.enforceCap()
	s.stepParticles(dt)
	return dt
}

func (s *Simulator) stepChunks(dt float64) {
	live := s.chunks[:0]
	for _, c := range s.chunks {
		c.Remaining -= dt
		if c.Remaining <= 0 {
			s.world.Remove(c.Body)
			s.stats.ChunksExpired++
			continue
		}
		if st, ok := s.world.State(c.Body); ok {
			c.Position = st.Position
			c.Rotation = st.Orientation
		}
		c.Opacity = FadeOpacity(c.Remaining, s.cfg.FadeStart)
		live = append(live, c)
	}
	clear(s.chunks[len(live):])
	s.chunks = live
}

// FadeOpacity is the chunk fade law: fully opaque until fadeStart seconds
// remain, then linear to zero.
func FadeOpacity(remaining, fadeStart float64) float64 {
	if remaining >= fadeStart {
		return 1
	}
	if remaining <= 0 {
		return 0
	}
	return remaining / fadeStart
}

// enforceCap evicts the oldest chunks while over MaxChunks.
func (s *Simulator) enforceCap() {
	over := len(s.chunks) - s.cfg.MaxChunks
	if over <= 0 {
		return
	}
	for _, c := range s.chunks[:over] {
		s.world.Remove(c.Body)
	}
	s.log.WithFields(logrus.Fields{
		"evicted": over,
		"oldest":  s.chunks[0].ID,
	}).Trace("chunk cap reached")
	s.stats.ChunksEvicted += uint64(over)
	clear(s.chunks[:over])
	s.chunks = s.chunks[over:]
}

func (s *Simulator) stepParticles(dt float64) {
	live := s.particles[:0]
	for _, p := range s.particles {
		p.Life -= dt
		if p.Life <= 0 {
			s.stats.ParticlesExpired++
			continue
		}
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Velocity[1] -= s.cfg.DustGravity * dt
		p.Velocity[0] *= s.cfg.DustDrag
		p.Velocity[2] *= s.cfg.DustDrag
		frac := p.Life / p.MaxLife
		p.Scale = p.BaseScale * (1 + s.cfg.DustGrowth*(1-frac))
		p.Opacity = s.cfg.DustMaxOpacity * frac
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
}

// Chunks returns the live chunks, oldest first. The slice must not be
// modified.
func (s *Simulator) Chunks() []*Chunk { return s.chunks }

// Particles returns the live dust particles.
func (s *Simulator) Particles() []*Particle { return s.particles }

// ChunkCount returns the number of live chunks.
func (s *Simulator) ChunkCount() int { return len(s.chunks) }

// Stats returns a copy of the counters with current live totals.
func (s *Simulator) Stats() Stats {
	st := s.stats
	st.Chunks = len(s.chunks)
	st.Particles = len(s.particles)
	return st
}

// Reset removes every chunk body and particle.
func (s *Simulator) Reset() {
	for _, c := range s.chunks {
		s.world.Remove(c.Body)
	}
	s.chunks = nil
	s.particles = nil
}
