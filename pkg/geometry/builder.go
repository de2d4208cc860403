package geometry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/random"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// minBoxSize keeps box extrusions of degenerate footprints visible.
const minBoxSize = 1.0

var up = mgl64.Vec3{0, 1, 0}

// Builder produces world-space surfaces for building records. One builder
// serves every detail level; Detail selects the path.
type Builder struct {
	cfg  config.GeometryConfig
	rng  random.Source
	log  logrus.FieldLogger
	roof RoofMode
}

// Option configures a Builder.
type Option func(*Builder)

// WithRoofMode overrides the probabilistic roof choice.
func WithRoofMode(m RoofMode) Option {
	return func(b *Builder) { b.roof = m }
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Builder) { b.log = l }
}

// NewBuilder creates a builder. rng drives window lighting, gable choice
// and the detail policy.
func NewBuilder(cfg config.GeometryConfig, rng random.Source, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, rng: rng, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// DetailFor applies the detail policy: landmarks are always full detail,
// ordinary buildings only occasionally.
func (b *Builder) DetailFor(rec *building.Record) Detail {
	if rec.Landmark || random.Chance(b.rng, b.cfg.OrdinaryDetailChance) {
		return DetailFull
	}
	return DetailSimplified
}

// Build produces the surfaces for rec at the requested detail. Footprints
// that cannot be extruded fall back to a bounding-box box with a warning in
// the result report.
func (b *Builder) Build(rec *building.Record, detail Detail) Result {
	res := Result{
		Building: rec.Index,
		Detail:   detail,
		Report:   validation.NewReport(),
	}
	if detail == DetailSimplified {
		res.Surfaces = b.box(rec)
		res.Roof = RoofBox
		return res
	}

	if err := rec.Footprint.Validate(); err != nil {
		return b.fallback(rec, res, err)
	}
	tris, err := geo.Triangulate(rec.Footprint)
	if err != nil {
		return b.fallback(rec, res, err)
	}

	res.Surfaces = append(res.Surfaces, b.walls(rec))

	lit, dark, n := b.windows(rec)
	res.Windows = n
	if !lit.Empty() {
		res.Surfaces = append(res.Surfaces, Surface{KindWindow, "window_lit", lit})
	}
	if !dark.Empty() {
		res.Surfaces = append(res.Surfaces, Surface{KindWindow, "window_dark", dark})
	}
	if c := b.cornices(rec); c != nil {
		res.Surfaces = append(res.Surfaces, *c)
	}

	roofs, kind := b.roofFor(rec, tris)
	res.Surfaces = append(res.Surfaces, roofs...)
	res.Roof = kind
	return res
}

func (b *Builder) fallback(rec *building.Record, res Result, cause error) Result {
	b.log.WithFields(logrus.Fields{
		"building": rec.Index,
		"reason":   cause,
	}).Warn("footprint not extrudable, using bounding box")

	res.Report.AddWarning(validation.Result{
		Level:       validation.LevelGeometry,
		Message:     fmt.Sprintf("building %d rendered as bounding box: %v", rec.Index, cause),
		Path:        fmt.Sprintf("buildings[%d].polygon", rec.Index),
		ActualValue: rec.Footprint.Len(),
	})
	res.Surfaces = b.box(rec)
	res.Roof = RoofBox
	res.Fallback = true
	return res
}

// box extrudes the footprint bounding box to full height with a flat top.
func (b *Builder) box(rec *building.Record) []Surface {
	lo, hi := rec.BoundMin(), rec.BoundMax()
	center := geo.MidPoint(lo, hi)
	halfW := math.Max(hi.X-lo.X, minBoxSize) / 2
	halfD := math.Max(hi.Z-lo.Z, minBoxSize) / 2
	h := rec.Height
	td := b.cfg.TexelDensity

	corners := []geo.Point2D{
		{X: center.X - halfW, Z: center.Z - halfD},
		{X: center.X + halfW, Z: center.Z - halfD},
		{X: center.X + halfW, Z: center.Z + halfD},
		{X: center.X - halfW, Z: center.Z + halfD},
	}

	sides := &Mesh{}
	for i := range corners {
		p, q := corners[i], corners[(i+1)%len(corners)]
		l := p.Distance(q)
		sides.AddQuad(at(p, 0), at(q, 0), at(q, h), at(p, h), outward(p, q),
			[4][2]float64{{0, 0}, {l * td, 0}, {l * td, h * td}, {0, h * td}})
	}

	top := &Mesh{}
	top.AddQuad(at(corners[0], h), at(corners[1], h), at(corners[2], h), at(corners[3], h), up,
		planarUV(corners, td))

	return []Surface{
		{KindBox, rec.Style.WallMaterial(), sides},
		{KindCap, rec.Style.RoofMaterial(), top},
	}
}

// walls emits one quad per footprint edge from the ground to the roof line.
func (b *Builder) walls(rec *building.Record) Surface {
	m := &Mesh{}
	h := rec.Height
	td := b.cfg.TexelDensity
	fp := rec.Footprint
	for i := range fp.Vertices {
		p, q := fp.Edge(i)
		l := p.Distance(q)
		if l < b.cfg.MinEdgeLength {
			continue
		}
		m.AddQuad(at(p, 0), at(q, 0), at(q, h), at(p, h), outward(p, q),
			[4][2]float64{{0, 0}, {l * td, 0}, {l * td, h * td}, {0, h * td}})
	}
	return Surface{KindWall, rec.Style.WallMaterial(), m}
}

// at lifts a footprint point to height y.
func at(p geo.Point2D, y float64) mgl64.Vec3 {
	return mgl64.Vec3{p.X, y, p.Z}
}

// outward is the horizontal normal of edge p→q on a CCW footprint.
func outward(p, q geo.Point2D) mgl64.Vec3 {
	o := q.Sub(p).Normalize().Perp().Scale(-1)
	return mgl64.Vec3{o.X, 0, o.Z}
}

func planarUV(pts []geo.Point2D, td float64) [4][2]float64 {
	var uv [4][2]float64
	for i := 0; i < 4 && i < len(pts); i++ {
		uv[i] = [2]float64{pts[i].X * td, pts[i].Z * td}
	}
	return uv
}
