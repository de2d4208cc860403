// Package destruction turns a building into debris: it retires the standing
// geometry, decomposes the bounding volume into a grid of rigid chunks and
// releases a dust burst.
package destruction

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/physics"
	"github.com/IrdiZ/kaiju/pkg/random"
	"github.com/IrdiZ/kaiju/pkg/sim"
)

// minSpan keeps the debris grid of a degenerate footprint non-empty.
const minSpan = 1.0

// Notifier receives game-state side effects. Calls are synchronous and must
// not block.
type Notifier interface {
	OnBuildingDestroyed(index int, name string)
	OnShakeRequested(intensity float64)
	OnFlash(d time.Duration)
}

// NopNotifier ignores every notification.
type NopNotifier struct{}

func (NopNotifier) OnBuildingDestroyed(int, string) {}
func (NopNotifier) OnShakeRequested(float64)        {}
func (NopNotifier) OnFlash(time.Duration)           {}

// Multi fans notifications out to several notifiers in order.
type Multi []Notifier

func (m Multi) OnBuildingDestroyed(index int, name string) {
	for _, n := range m {
		n.OnBuildingDestroyed(index, name)
	}
}

func (m Multi) OnShakeRequested(intensity float64) {
	for _, n := range m {
		n.OnShakeRequested(intensity)
	}
}

func (m Multi) OnFlash(d time.Duration) {
	for _, n := range m {
		n.OnFlash(d)
	}
}

// Buildings is the registry view the engine needs.
type Buildings interface {
	Get(index int) (*building.Record, error)
	MarkDestroyed(index int) bool
}

// Remover drops a building's standing geometry.
type Remover interface {
	RemoveBuilding(index int) bool
}

// Spawner takes ownership of new debris.
type Spawner interface {
	AddChunks(chunks []sim.Chunk)
	AddParticles(ps []sim.Particle)
}

// Deps are the collaborators injected into an Engine. Scene and Notifier may
// be nil.
type Deps struct {
	Buildings Buildings
	Scene     Remover
	World     physics.World
	Spawner   Spawner
	Random    random.Source
	Notifier  Notifier
	Log       logrus.FieldLogger
}

// Event describes one completed destruction.
type Event struct {
	Building int         `json:"building"`
	Name     string      `json:"name,omitempty"`
	Origin   geo.Point2D `json:"origin"`
	Grid     [3]int      `json:"grid"`
	Chunks   int         `json:"chunks"`
	Dust     int         `json:"dust"`
	Shake    float64     `json:"shake"`
}

// Engine executes destroy requests. A building is destroyed at most once.
type Engine struct {
	cfg       config.DestructionConfig
	deps      Deps
	log       logrus.FieldLogger
	destroyed map[int]struct{}
}

// New creates an engine.
func New(cfg config.DestructionConfig, deps Deps) *Engine {
	if deps.Notifier == nil {
		deps.Notifier = NopNotifier{}
	}
	return &Engine{
		cfg:       cfg,
		deps:      deps,
		log:       logging.OrDiscard(deps.Log),
		destroyed: make(map[int]struct{}),
	}
}

// Destroy demolishes building index with the impact coming from origin.
// It returns false, having changed nothing, when the building was already
// destroyed or does not exist.
func (e *Engine) Destroy(index int, originX, originZ float64) (Event, bool) {
	if _, done := e.destroyed[index]; done {
		return Event{}, false
	}
	rec, err := e.deps.Buildings.Get(index)
	if err != nil {
		e.log.WithError(err).WithField("building", index).Debug("destroy ignored")
		return Event{}, false
	}
	e.destroyed[index] = struct{}{}
	e.deps.Buildings.MarkDestroyed(index)

	ev := Event{
		Building: index,
		Name:     rec.Name,
		Origin:   geo.Pt(originX, originZ),
		Shake:    ShakeIntensity(rec.Height),
	}
	e.deps.Notifier.OnBuildingDestroyed(index, rec.Name)
	e.deps.Notifier.OnShakeRequested(ev.Shake)

	if e.deps.Scene != nil {
		e.deps.Scene.RemoveBuilding(index)
	}

	chunks, grid := e.chunks(rec, ev.Origin)
	e.deps.Spawner.AddChunks(chunks)
	dust := e.dust(rec)
	e.deps.Spawner.AddParticles(dust)
	ev.Grid, ev.Chunks, ev.Dust = grid, len(chunks), len(dust)

	e.deps.Notifier.OnFlash(e.cfg.Flash)

	e.log.WithFields(logrus.Fields{
		"building": index,
		"name":     rec.Name,
		"chunks":   ev.Chunks,
		"dust":     ev.Dust,
	}).Debug("building destroyed")
	return ev, true
}

// IsDestroyed reports whether the engine has destroyed index.
func (e *Engine) IsDestroyed(index int) bool {
	_, ok := e.destroyed[index]
	return ok
}

// Destroyed returns how many buildings the engine has destroyed.
func (e *Engine) Destroyed() int { return len(e.destroyed) }

// ShakeIntensity scales camera shake with building height, capped at 1.
func ShakeIntensity(height float64) float64 {
	return math.Min(1, 0.3+height/60)
}

// ChunkGrid returns the number of divisions along x, y and z for a volume of
// the given width, depth and height. Every axis gets at least two.
func ChunkGrid(w, d, h float64, cfg config.DestructionConfig) [3]int {
	div := func(span, size float64) int {
		return max(2, int(math.Round(span/size)))
	}
	return [3]int{div(w, cfg.ChunkWidth), div(h, cfg.ChunkHeight), div(d, cfg.ChunkWidth)}
}

// DustCount is the size of the dust burst for a volume.
func DustCount(w, d, h float64, cfg config.DestructionConfig) int {
	return cfg.DustBase + int(math.Floor(cfg.DustPerUnit*math.Max(w, math.Max(d, h))))
}

func (e *Engine) chunks(rec *building.Record, origin geo.Point2D) ([]sim.Chunk, [3]int) {
	cfg := e.cfg
	src := e.deps.Random
	lo := rec.BoundMin()
	w, d, h := math.Max(rec.Width(), minSpan), math.Max(rec.Depth(), minSpan), rec.Height
	grid := ChunkGrid(w, d, h, cfg)
	cell := mgl64.Vec3{w / float64(grid[0]), h / float64(grid[1]), d / float64(grid[2])}

	dir := rec.Centroid.Sub(origin)
	if dir.Length() < 1e-9 {
		dir = geo.Forward(random.Range(src, 0, 2*math.Pi))
	} else {
		dir = dir.Normalize()
	}

	material := rec.Style.WallMaterial()
	out := make([]sim.Chunk, 0, grid[0]*grid[1]*grid[2])
	for ix := 0; ix < grid[0]; ix++ {
		for iy := 0; iy < grid[1]; iy++ {
			for iz := 0; iz < grid[2]; iz++ {
				center := mgl64.Vec3{
					lo.X + (float64(ix)+0.5)*cell.X(),
					(float64(iy) + 0.5) * cell.Y(),
					lo.Z + (float64(iz)+0.5)*cell.Z(),
				}
				half := mgl64.Vec3{
					cell.X() / 2 * random.Range(src, cfg.SizeJitter.Min, cfg.SizeJitter.Max),
					cell.Y() / 2 * random.Range(src, cfg.SizeJitter.Min, cfg.SizeJitter.Max),
					cell.Z() / 2 * random.Range(src, cfg.SizeJitter.Min, cfg.SizeJitter.Max),
				}
				body := e.deps.World.Add(e.body(center, half, dir))
				out = append(out, sim.Chunk{
					Building:    rec.Index,
					Body:        body,
					HalfExtents: half,
					Position:    center,
					Rotation:    mgl64.QuatIdent(),
					Remaining:   random.Range(src, cfg.Lifetime.Min, cfg.Lifetime.Max),
					Opacity:     1,
					Material:    material,
				})
			}
		}
	}
	return out, grid
}

// body draws the mass and launch impulse of one chunk.
func (e *Engine) body(center, half mgl64.Vec3, dir geo.Point2D) physics.BodyDesc {
	cfg := e.cfg
	src := e.deps.Random
	mass := random.Range(src, cfg.Mass.Min, cfg.Mass.Max)
	heading := mgl64.Vec3{
		dir.X + random.Symmetric(src, cfg.DirectionJitter),
		random.Symmetric(src, cfg.DirectionJitter),
		dir.Z + random.Symmetric(src, cfg.DirectionJitter),
	}
	force := random.Range(src, cfg.Force.Min, cfg.Force.Max)
	lift := random.Range(src, cfg.Lift.Min, cfg.Lift.Max)
	vel := heading.Mul(force).Add(mgl64.Vec3{0, lift, 0})
	spin := mgl64.Vec3{
		random.Symmetric(src, cfg.Spin),
		random.Symmetric(src, cfg.Spin),
		random.Symmetric(src, cfg.Spin),
	}
	return physics.BodyDesc{
		HalfExtents:     half,
		Mass:            mass,
		Position:        center,
		Orientation:     mgl64.QuatIdent(),
		Velocity:        vel,
		AngularVelocity: spin,
		LinearDamping:   cfg.LinearDamping,
		AngularDamping:  cfg.AngularDamping,
	}
}

func (e *Engine) dust(rec *building.Record) []sim.Particle {
	cfg := e.cfg
	src := e.deps.Random
	lo, hi := rec.BoundMin(), rec.BoundMax()
	n := DustCount(rec.Width(), rec.Depth(), rec.Height, cfg)
	out := make([]sim.Particle, n)
	for i := range out {
		life := random.Range(src, cfg.DustLife.Min, cfg.DustLife.Max)
		out[i] = sim.Particle{
			Position: mgl64.Vec3{
				random.Range(src, lo.X, hi.X),
				random.Range(src, 0, 1) * rec.Height,
				random.Range(src, lo.Z, hi.Z),
			},
			Velocity: mgl64.Vec3{
				random.Symmetric(src, cfg.DustSpread),
				random.Range(src, cfg.DustLift.Min, cfg.DustLift.Max),
				random.Symmetric(src, cfg.DustSpread),
			},
			Life:      life,
			MaxLife:   life,
			BaseScale: random.Range(src, cfg.DustScale.Min, cfg.DustScale.Max),
		}
	}
	return out
}
