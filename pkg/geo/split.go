package geo

import "math"

// Disc approximates a circle with an n-gon, CCW. Fewer than 3 sides is
// raised to 3.
func Disc(center Point2D, radius float64, n int) Polygon {
	n = max(n, 3)
	pts := make([]Point2D, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = center.Add(Pt(math.Cos(a), math.Sin(a)).Scale(radius))
	}
	return Polygon{Vertices: pts}
}

// ClipHalfPlane keeps the part of poly on or left of the directed line a->b.
// A result with fewer than three vertices is returned empty.
func ClipHalfPlane(poly Polygon, a, b Point2D) Polygon {
	n := poly.Len()
	if n == 0 {
		return Polygon{}
	}
	side := func(p Point2D) float64 { return orientation(a, b, p) }

	out := make([]Point2D, 0, n+1)
	for i := range n {
		cur, next := poly.Edge(i)
		sc, sn := side(cur), side(next)
		if sc >= 0 {
			out = append(out, cur)
		}
		if (sc >= 0) != (sn >= 0) {
			t := sc / (sc - sn)
			out = append(out, cur.Lerp(next, t))
		}
	}
	if len(out) < 3 {
		return Polygon{}
	}
	return Polygon{Vertices: out}
}

// Intersect clips subject to a convex CCW window.
func Intersect(subject, window Polygon) Polygon {
	out := subject
	for i := range window.Len() {
		if out.IsEmpty() {
			break
		}
		a, b := window.Edge(i)
		out = ClipHalfPlane(out, a, b)
	}
	return out
}

// VoronoiCells splits a convex region into one cell per seed, each holding
// the points nearer its seed than any other. Cells are returned in seed
// order; a cell is empty when its seed is shadowed, for example by a
// duplicate.
func VoronoiCells(seeds []Point2D, region Polygon) []Polygon {
	cells := make([]Polygon, len(seeds))
	for i, s := range seeds {
		cell := region
		for j, o := range seeds {
			if i == j || cell.IsEmpty() {
				continue
			}
			if s == o {
				if j < i {
					cell = Polygon{}
				}
				continue
			}
			// The bisector, directed so s lies on its left.
			mid := MidPoint(s, o)
			cell = ClipHalfPlane(cell, mid, mid.Add(o.Sub(s).Perp()))
		}
		cells[i] = cell
	}
	return cells
}
