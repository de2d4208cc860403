package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/random"
)

const (
	gableRatio      = 0.35 // ridge height per unit of the shorter footprint side
	spireRadius     = 0.25 // spire base radius per unit of the shorter side
	spireMinHeight  = 8.0
	spireHeightFrac = 0.6
	spireSegments   = 12
	crossHeight     = 3.0
	roseSegments    = 16
	roseMaxRadius   = 3.0
)

// roofFor applies the roof decision tree: spire for churches, a gabled roof
// for most low residential and commercial buildings, a flat cap otherwise.
func (b *Builder) roofFor(rec *building.Record, tris [][3]int) ([]Surface, RoofKind) {
	flat := b.cap(rec, tris)
	switch {
	case rec.Style.Ecclesiastical():
		out := []Surface{flat}
		out = append(out, b.spire(rec)...)
		if rose := b.rose(rec); rose != nil {
			out = append(out, *rose)
		}
		return out, RoofSpire
	case b.wantsGable(rec):
		return b.gable(rec), RoofGabled
	default:
		return []Surface{flat}, RoofFlat
	}
}

func (b *Builder) wantsGable(rec *building.Record) bool {
	switch b.roof {
	case RoofForceFlat:
		return false
	case RoofForceGabled:
		return true
	}
	if rec.Style != building.Residential && rec.Style != building.Commercial {
		return false
	}
	if rec.Height >= b.cfg.GableMaxHeight {
		return false
	}
	return random.Chance(b.rng, b.cfg.GableChance)
}

// cap covers the footprint at exactly the building height.
func (b *Builder) cap(rec *building.Record, tris [][3]int) Surface {
	m := &Mesh{}
	h := rec.Height
	td := b.cfg.TexelDensity
	v := rec.Footprint.Vertices
	for _, t := range tris {
		a, bb, c := v[t[0]], v[t[1]], v[t[2]]
		m.AddFacing(at(a, h), at(bb, h), at(c, h), up, [3][2]float64{
			{a.X * td, a.Z * td}, {bb.X * td, bb.Z * td}, {c.X * td, c.Z * td},
		})
	}
	return Surface{KindCap, rec.Style.RoofMaterial(), m}
}

// gable builds a ridge roof over the bounding box. The ridge follows the
// longer axis; gable ends use the wall material.
func (b *Builder) gable(rec *building.Record) []Surface {
	lo, hi := rec.BoundMin(), rec.BoundMax()
	h := rec.Height
	w, d := hi.X-lo.X, hi.Z-lo.Z
	alongX := w >= d
	shorter := math.Min(w, d)
	rise := gableRatio * shorter
	half := shorter / 2
	td := b.cfg.TexelDensity

	// Work in a frame where the ridge runs along +s and the slopes fall along t.
	s0, s1, t0, t1 := lo.X, hi.X, lo.Z, hi.Z
	pt := func(s, y, t float64) mgl64.Vec3 { return mgl64.Vec3{s, y, t} }
	if !alongX {
		s0, s1, t0, t1 = lo.Z, hi.Z, lo.X, hi.X
		pt = func(s, y, t float64) mgl64.Vec3 { return mgl64.Vec3{t, y, s} }
	}
	tm := (t0 + t1) / 2
	slopeLen := math.Hypot(half, rise) * td
	runLen := (s1 - s0) * td
	uv := [4][2]float64{{0, 0}, {runLen, 0}, {runLen, slopeLen}, {0, slopeLen}}

	nLow := pt(0, half, -rise).Normalize()
	nHigh := pt(0, half, rise).Normalize()

	slopes := &Mesh{}
	slopes.AddQuad(pt(s0, h, t0), pt(s1, h, t0), pt(s1, h+rise, tm), pt(s0, h+rise, tm), nLow, uv)
	slopes.AddQuad(pt(s0, h, t1), pt(s1, h, t1), pt(s1, h+rise, tm), pt(s0, h+rise, tm), nHigh, uv)

	ends := &Mesh{}
	endUV := [3][2]float64{{0, 0}, {shorter * td, 0}, {half * td, rise * td}}
	ends.AddFacing(pt(s0, h, t0), pt(s0, h, t1), pt(s0, h+rise, tm), pt(-1, 0, 0), endUV)
	ends.AddFacing(pt(s1, h, t0), pt(s1, h, t1), pt(s1, h+rise, tm), pt(1, 0, 0), endUV)

	return []Surface{
		{KindRoof, rec.Style.RoofMaterial(), slopes},
		{KindGable, rec.Style.WallMaterial(), ends},
	}
}

// spire raises a cone over the centroid with a cross on top.
func (b *Builder) spire(rec *building.Record) []Surface {
	h := rec.Height
	r := spireRadius * math.Min(rec.Width(), rec.Depth())
	height := math.Max(spireHeightFrac*h, spireMinHeight)
	c := rec.Centroid
	apex := at(c, h+height)

	cone := &Mesh{}
	for i := 0; i < spireSegments; i++ {
		a0 := 2 * math.Pi * float64(i) / spireSegments
		a1 := 2 * math.Pi * float64(i+1) / spireSegments
		am := (a0 + a1) / 2
		p0 := c.Add(geo.Pt(math.Cos(a0), math.Sin(a0)).Scale(r))
		p1 := c.Add(geo.Pt(math.Cos(a1), math.Sin(a1)).Scale(r))
		n := mgl64.Vec3{math.Cos(am) * height, r, math.Sin(am) * height}.Normalize()
		cone.AddFacing(at(p0, h), at(p1, h), apex, n, [3][2]float64{
			{float64(i) / spireSegments, 0}, {float64(i+1) / spireSegments, 0}, {(float64(i) + 0.5) / spireSegments, 1},
		})
	}

	cross := &Mesh{}
	axis := geo.Pt(1, 0)
	top := h + height
	addBox(cross, c, axis, 0.15, 0.15, top, top+crossHeight, b.cfg.TexelDensity)
	addBox(cross, c, axis, 1.0, 0.15, top+crossHeight*0.6, top+crossHeight*0.6+0.3, b.cfg.TexelDensity)

	return []Surface{
		{KindSpire, rec.Style.RoofMaterial(), cone},
		{KindCross, rec.Style.TrimMaterial(), cross},
	}
}

// rose centers a round window on the longest wall.
func (b *Builder) rose(rec *building.Record) *Surface {
	fp := rec.Footprint
	p, q := fp.Edge(fp.LongestEdge())
	l := p.Distance(q)
	h := rec.Height
	r := math.Min(math.Min(0.2*l, 0.25*h), roseMaxRadius)
	cy := math.Min(0.7*h, h-r-b.cfg.TopMargin)
	if r <= 0 || cy-r < 0 {
		return nil
	}
	dir := q.Sub(p).Normalize()
	n := outward(p, q)
	base := geo.MidPoint(p, q).Add(geo.Pt(n.X(), n.Z()).Scale(windowInset + 0.01))

	m := &Mesh{}
	center := at(base, cy)
	for i := 0; i < roseSegments; i++ {
		a0 := 2 * math.Pi * float64(i) / roseSegments
		a1 := 2 * math.Pi * float64(i+1) / roseSegments
		e0 := at(base.Add(dir.Scale(r*math.Cos(a0))), cy+r*math.Sin(a0))
		e1 := at(base.Add(dir.Scale(r*math.Cos(a1))), cy+r*math.Sin(a1))
		m.AddFacing(center, e0, e1, n, [3][2]float64{
			{0.5, 0.5},
			{0.5 + 0.5*math.Cos(a0), 0.5 + 0.5*math.Sin(a0)},
			{0.5 + 0.5*math.Cos(a1), 0.5 + 0.5*math.Sin(a1)},
		})
	}
	return &Surface{KindRose, "glass_rose", m}
}
