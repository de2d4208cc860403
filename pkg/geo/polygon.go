package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Footprint validation failures.
var (
	ErrTooFewVertices = errors.New("polygon has fewer than 3 distinct vertices")
	ErrNonFinite      = errors.New("polygon has a non-finite coordinate")
	ErrZeroArea       = errors.New("polygon has zero area")
	ErrSelfIntersect  = errors.New("polygon is self-intersecting")
)

// Polygon is a closed polygon defined by its vertices in order.
// The last vertex connects back to the first.
type Polygon struct {
	Vertices []Point2D `json:"vertices"`
}

// NewPolygon creates a polygon from a list of vertices.
func NewPolygon(pts ...Point2D) Polygon {
	return Polygon{Vertices: pts}
}

// FromPairs builds a polygon from raw [x, z] pairs.
func FromPairs(pairs [][2]float64) Polygon {
	pts := make([]Point2D, len(pairs))
	for i, p := range pairs {
		pts[i] = Point2D{p[0], p[1]}
	}
	return Polygon{Vertices: pts}
}

// Pairs returns the vertices as raw [x, z] pairs.
func (p Polygon) Pairs() [][2]float64 {
	out := make([][2]float64, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = [2]float64{v.X, v.Z}
	}
	return out
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.Vertices)
}

// IsEmpty returns true if the polygon has fewer than 3 vertices.
func (p Polygon) IsEmpty() bool {
	return len(p.Vertices) < 3
}

// Edge returns the i-th edge as (start, end). Wraps around.
func (p Polygon) Edge(i int) (Point2D, Point2D) {
	n := len(p.Vertices)
	return p.Vertices[i%n], p.Vertices[(i+1)%n]
}

// SignedArea returns the signed area using the shoelace formula.
// Positive for counterclockwise winding, negative for clockwise.
func (p Polygon) SignedArea() float64 {
	n := len(p.Vertices)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Vertices[i].X * p.Vertices[j].Z
		area -= p.Vertices[j].X * p.Vertices[i].Z
	}
	return area / 2
}

// Area returns the unsigned area of the polygon.
func (p Polygon) Area() float64 {
	return math.Abs(p.SignedArea())
}

// IsCounterClockwise returns true if vertices are in CCW order.
func (p Polygon) IsCounterClockwise() bool {
	return p.SignedArea() > 0
}

// EnsureCCW returns the polygon with vertices in counterclockwise order.
func (p Polygon) EnsureCCW() Polygon {
	if p.SignedArea() < 0 {
		return p.Reverse()
	}
	return p
}

// Reverse returns the polygon with reversed vertex order.
func (p Polygon) Reverse() Polygon {
	n := len(p.Vertices)
	rev := make([]Point2D, n)
	for i, v := range p.Vertices {
		rev[n-1-i] = v
	}
	return Polygon{Vertices: rev}
}

// Centroid returns the centroid of the polygon.
func (p Polygon) Centroid() Point2D {
	n := len(p.Vertices)
	if n == 0 {
		return Point2D{}
	}
	if n < 3 {
		// Average for degenerate case.
		sum := Point2D{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	cx, cz := 0.0, 0.0
	a := p.SignedArea()
	if math.Abs(a) < 1e-12 {
		// Degenerate: return average.
		sum := Point2D{}
		for _, v := range p.Vertices {
			sum = sum.Add(v)
		}
		return sum.Scale(1.0 / float64(n))
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Z - p.Vertices[j].X*p.Vertices[i].Z
		cx += (p.Vertices[i].X + p.Vertices[j].X) * cross
		cz += (p.Vertices[i].Z + p.Vertices[j].Z) * cross
	}
	f := 1.0 / (6.0 * a)
	return Point2D{cx * f, cz * f}
}

// BoundingBox returns the axis-aligned bounding box as (min, max).
func (p Polygon) BoundingBox() (Point2D, Point2D) {
	if len(p.Vertices) == 0 {
		return Point2D{}, Point2D{}
	}
	minP := p.Vertices[0]
	maxP := p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		if v.X < minP.X {
			minP.X = v.X
		}
		if v.Z < minP.Z {
			minP.Z = v.Z
		}
		if v.X > maxP.X {
			maxP.X = v.X
		}
		if v.Z > maxP.Z {
			maxP.Z = v.Z
		}
	}
	return minP, maxP
}

// Contains returns true if the point is inside the polygon using ray casting.
func (p Polygon) Contains(pt Point2D) bool {
	n := len(p.Vertices)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi := p.Vertices[i]
		vj := p.Vertices[j]
		if (vi.Z > pt.Z) != (vj.Z > pt.Z) &&
			pt.X < (vj.X-vi.X)*(pt.Z-vi.Z)/(vj.Z-vi.Z)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Perimeter returns the total perimeter length.
func (p Polygon) Perimeter() float64 {
	n := len(p.Vertices)
	if n < 2 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		total += p.Vertices[i].Distance(p.Vertices[j])
	}
	return total
}

// MaxDistanceTo returns the maximum distance from any vertex to the given point.
func (p Polygon) MaxDistanceTo(pt Point2D) float64 {
	maxDist := 0.0
	for _, v := range p.Vertices {
		d := v.Distance(pt)
		if d > maxDist {
			maxDist = d
		}
	}
	return maxDist
}

// Mean returns the arithmetic mean of the vertices.
func (p Polygon) Mean() Point2D {
	if len(p.Vertices) == 0 {
		return Point2D{}
	}
	sum := Point2D{}
	for _, v := range p.Vertices {
		sum = sum.Add(v)
	}
	return sum.Scale(1.0 / float64(len(p.Vertices)))
}

// Dedupe drops consecutive duplicate vertices, including a closing vertex
// equal to the first.
func (p Polygon) Dedupe() Polygon {
	const eps = 1e-9
	out := make([]Point2D, 0, len(p.Vertices))
	for _, v := range p.Vertices {
		if len(out) > 0 && out[len(out)-1].Distance(v) < eps {
			continue
		}
		out = append(out, v)
	}
	for len(out) > 1 && out[0].Distance(out[len(out)-1]) < eps {
		out = out[:len(out)-1]
	}
	return Polygon{Vertices: out}
}

// LongestEdge returns the index of the longest edge.
func (p Polygon) LongestEdge() int {
	best, bestLen := 0, -1.0
	for i := range p.Vertices {
		a, b := p.Edge(i)
		if l := a.Distance(b); l > bestLen {
			best, bestLen = i, l
		}
	}
	return best
}

// ScaleAbout returns the polygon scaled by f around center.
func (p Polygon) ScaleAbout(center Point2D, f float64) Polygon {
	out := make([]Point2D, len(p.Vertices))
	for i, v := range p.Vertices {
		out[i] = center.Add(v.Sub(center).Scale(f))
	}
	return Polygon{Vertices: out}
}

// Validate reports whether the polygon is a simple, finite ring with area.
func (p Polygon) Validate() error {
	for i, v := range p.Vertices {
		if !v.IsFinite() {
			return fmt.Errorf("vertex %d: %w", i, ErrNonFinite)
		}
	}
	d := p.Dedupe()
	if len(d.Vertices) < 3 {
		return ErrTooFewVertices
	}
	if d.Area() < 1e-6 {
		return ErrZeroArea
	}
	n := len(d.Vertices)
	for i := 0; i < n; i++ {
		a1, a2 := d.Edge(i)
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			b1, b2 := d.Edge(j)
			if segmentsIntersect(a1, a2, b1, b2) {
				return fmt.Errorf("edges %d and %d: %w", i, j, ErrSelfIntersect)
			}
		}
	}
	return nil
}

// Ring converts to a closed orb ring.
func (p Polygon) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(p.Vertices)+1)
	for _, v := range p.Vertices {
		ring = append(ring, v.Orb())
	}
	if len(ring) > 0 {
		ring = append(ring, ring[0])
	}
	return ring
}

// Orb converts to a single-ring orb polygon.
func (p Polygon) Orb() orb.Polygon {
	return orb.Polygon{p.Ring()}
}

// FromRing converts an orb ring, dropping the closing vertex.
func FromRing(r orb.Ring) Polygon {
	pts := make([]Point2D, 0, len(r))
	for _, pt := range r {
		pts = append(pts, FromOrb(pt))
	}
	return Polygon{Vertices: pts}.Dedupe()
}

func orientation(a, b, c Point2D) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

func onSegment(a, b, p Point2D) bool {
	return p.X >= math.Min(a.X, b.X)-1e-12 && p.X <= math.Max(a.X, b.X)+1e-12 &&
		p.Z >= math.Min(a.Z, b.Z)-1e-12 && p.Z <= math.Max(a.Z, b.Z)+1e-12
}

// segmentsIntersect reports whether closed segments p1p2 and p3p4 touch.
func segmentsIntersect(p1, p2, p3, p4 Point2D) bool {
	const eps = 1e-12
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)
	if ((d1 > eps && d2 < -eps) || (d1 < -eps && d2 > eps)) &&
		((d3 > eps && d4 < -eps) || (d3 < -eps && d4 > eps)) {
		return true
	}
	switch {
	case math.Abs(d1) <= eps && onSegment(p3, p4, p1):
		return true
	case math.Abs(d2) <= eps && onSegment(p3, p4, p2):
		return true
	case math.Abs(d3) <= eps && onSegment(p1, p2, p3):
		return true
	case math.Abs(d4) <= eps && onSegment(p1, p2, p4):
		return true
	}
	return false
}
