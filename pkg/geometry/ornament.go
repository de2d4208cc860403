package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/random"
)

const (
	windowInset    = 0.05 // windows sit just proud of the wall
	corniceDepth   = 0.4
	corniceHeight  = 0.3
	corniceOverrun = 0.2
	corniceTier    = 16.0 // one mid-height cornice per this much height
)

// facade describes the window grid of a style.
type facade struct {
	minEdge float64
	spacing float64
	width   float64
	height  float64
}

func facadeFor(s building.Style) (facade, bool) {
	switch s {
	case building.Industrial:
		return facade{}, false
	case building.Modern:
		return facade{minEdge: 3, spacing: 2.5, width: 1.8, height: 2.2}, true
	default:
		return facade{minEdge: 4, spacing: 4, width: 1.2, height: 1.6}, true
	}
}

// windows places a grid of window quads on every long enough wall, one row
// per floor. Each window is lit or dark at random.
func (b *Builder) windows(rec *building.Record) (lit, dark *Mesh, count int) {
	lit, dark = &Mesh{}, &Mesh{}
	f, ok := facadeFor(rec.Style)
	if !ok {
		return lit, dark, 0
	}

	h := rec.Height
	floors := int(math.Floor(h / b.cfg.FloorHeight))
	if floors < 1 {
		floors = 1
	}
	unit := [4][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	fp := rec.Footprint
	for i := range fp.Vertices {
		p, q := fp.Edge(i)
		l := p.Distance(q)
		if l < f.minEdge {
			continue
		}
		dir := q.Sub(p).Normalize()
		n := outward(p, q)
		off := geo.Pt(n.X(), n.Z()).Scale(windowInset)

		per := int(math.Floor(l / f.spacing))
		start := (l - float64(per)*f.spacing) / 2
		for k := 0; k < per; k++ {
			c := p.Add(dir.Scale(start + f.spacing*(float64(k)+0.5))).Add(off)
			left := c.Sub(dir.Scale(f.width / 2))
			right := c.Add(dir.Scale(f.width / 2))
			for fl := 0; fl < floors; fl++ {
				y0 := float64(fl)*b.cfg.FloorHeight + b.cfg.SillHeight
				y1 := y0 + f.height
				if y1 > h-b.cfg.TopMargin {
					continue
				}
				target := dark
				if random.Chance(b.rng, b.cfg.WindowLitChance) {
					target = lit
				}
				target.AddQuad(at(left, y0), at(right, y0), at(right, y1), at(left, y1), n, unit)
				count++
			}
		}
	}
	return lit, dark, count
}

// corniceLevels returns the top y of every cornice band.
func (b *Builder) corniceLevels(h float64) []float64 {
	levels := []float64{h}
	if h > b.cfg.CorniceMidThreshold {
		m := int(h / corniceTier)
		if m < 1 {
			m = 1
		}
		for k := 1; k <= m; k++ {
			levels = append(levels, h*float64(k)/float64(m+1)+corniceHeight/2)
		}
	}
	return levels
}

// cornices runs a thin box along every edge at the roof line, plus mid-height
// bands on taller buildings. Modern and industrial buildings have none.
func (b *Builder) cornices(rec *building.Record) *Surface {
	if rec.Style == building.Modern || rec.Style == building.Industrial {
		return nil
	}
	m := &Mesh{}
	fp := rec.Footprint
	for _, top := range b.corniceLevels(rec.Height) {
		for i := range fp.Vertices {
			p, q := fp.Edge(i)
			l := p.Distance(q)
			if l < b.cfg.MinEdgeLength {
				continue
			}
			dir := q.Sub(p).Normalize()
			n := outward(p, q)
			center := geo.MidPoint(p, q).Add(geo.Pt(n.X(), n.Z()).Scale(corniceDepth/2 - windowInset))
			addBox(m, center, dir, l/2+corniceOverrun, corniceDepth/2, top-corniceHeight, top, b.cfg.TexelDensity)
		}
	}
	return &Surface{KindCornice, rec.Style.TrimMaterial(), m}
}

// addBox appends a closed box whose horizontal axes are axis and its
// perpendicular, spanning y0..y1.
func addBox(m *Mesh, center, axis geo.Point2D, halfU, halfV, y0, y1, td float64) {
	u := axis.Normalize()
	v := u.Perp()
	c := [4]geo.Point2D{
		center.Sub(u.Scale(halfU)).Sub(v.Scale(halfV)),
		center.Add(u.Scale(halfU)).Sub(v.Scale(halfV)),
		center.Add(u.Scale(halfU)).Add(v.Scale(halfV)),
		center.Sub(u.Scale(halfU)).Add(v.Scale(halfV)),
	}
	h := (y1 - y0) * td
	for i := 0; i < 4; i++ {
		p, q := c[i], c[(i+1)%4]
		side := p.Add(q).Scale(0.5).Sub(center).Normalize()
		l := p.Distance(q) * td
		m.AddQuad(at(p, y0), at(q, y0), at(q, y1), at(p, y1), mgl64.Vec3{side.X, 0, side.Z},
			[4][2]float64{{0, 0}, {l, 0}, {l, h}, {0, h}})
	}
	uv := planarUV(c[:], td)
	m.AddQuad(at(c[0], y1), at(c[1], y1), at(c[2], y1), at(c[3], y1), up, uv)
	m.AddQuad(at(c[0], y0), at(c[1], y0), at(c[2], y0), at(c[3], y0), up.Mul(-1), uv)
}
