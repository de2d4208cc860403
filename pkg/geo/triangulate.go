package geo

import "errors"

// ErrTriangulation is returned when ear clipping cannot make progress,
// which happens for self-intersecting or degenerate input.
var ErrTriangulation = errors.New("polygon could not be triangulated")

// Triangulate splits a simple polygon into triangles by ear clipping.
// The returned index triples refer to p.Vertices and wind counterclockwise.
func Triangulate(p Polygon) ([][3]int, error) {
	n := len(p.Vertices)
	if n < 3 {
		return nil, ErrTooFewVertices
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if p.SignedArea() < 0 {
		for i := range idx {
			idx[i] = n - 1 - i
		}
	}

	tris := make([][3]int, 0, n-2)
	for len(idx) > 3 {
		m := len(idx)
		clipped := false
		for i := 0; i < m; i++ {
			prev, cur, next := idx[(i+m-1)%m], idx[i], idx[(i+1)%m]
			if !isEar(p.Vertices, idx, prev, cur, next) {
				continue
			}
			tris = append(tris, [3]int{prev, cur, next})
			idx = append(idx[:i], idx[i+1:]...)
			clipped = true
			break
		}
		if !clipped {
			return nil, ErrTriangulation
		}
	}
	tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	return tris, nil
}

func isEar(v []Point2D, idx []int, prev, cur, next int) bool {
	a, b, c := v[prev], v[cur], v[next]
	if orientation(a, b, c) <= 1e-12 {
		return false
	}
	for _, k := range idx {
		if k == prev || k == cur || k == next {
			continue
		}
		if pointInTriangle(v[k], a, b, c) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c Point2D) bool {
	d1 := orientation(a, b, p)
	d2 := orientation(b, c, p)
	d3 := orientation(c, a, p)
	return d1 >= 0 && d2 >= 0 && d3 >= 0
}
