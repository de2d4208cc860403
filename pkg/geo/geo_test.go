package geo

import (
	"errors"
	"math"
	"testing"
)

const tolerance = 0.01

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// --- Point2D tests ---

func TestPointDistance(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(3, 4)
	if !approxEqual(a.Distance(b), 5.0, tolerance) {
		t.Errorf("expected distance 5.0, got %f", a.Distance(b))
	}
}

func TestForwardYaw(t *testing.T) {
	f := Forward(0)
	if !approxEqual(f.X, 0, tolerance) || !approxEqual(f.Z, 1, tolerance) {
		t.Errorf("yaw 0: expected (0,1), got (%f,%f)", f.X, f.Z)
	}
	f = Forward(math.Pi / 2)
	if !approxEqual(f.X, 1, tolerance) || !approxEqual(f.Z, 0, tolerance) {
		t.Errorf("yaw pi/2: expected (1,0), got (%f,%f)", f.X, f.Z)
	}
	if !approxEqual(Pt(1, 0).Yaw(), math.Pi/2, tolerance) {
		t.Errorf("expected yaw pi/2, got %f", Pt(1, 0).Yaw())
	}
}

func TestPointRotate(t *testing.T) {
	p := Pt(1, 0)
	r := p.Rotate(math.Pi / 2)
	if !approxEqual(r.X, 0, tolerance) || !approxEqual(r.Z, 1, tolerance) {
		t.Errorf("expected (0,1), got (%f,%f)", r.X, r.Z)
	}
}

func TestPointNormalize(t *testing.T) {
	p := Pt(3, 4)
	n := p.Normalize()
	if !approxEqual(n.Length(), 1.0, tolerance) {
		t.Errorf("expected unit length, got %f", n.Length())
	}
}

func TestPointLerp(t *testing.T) {
	a := Pt(0, 0)
	b := Pt(10, 10)
	mid := a.Lerp(b, 0.5)
	if !approxEqual(mid.X, 5, tolerance) || !approxEqual(mid.Z, 5, tolerance) {
		t.Errorf("expected (5,5), got (%f,%f)", mid.X, mid.Z)
	}
}

// --- Polygon tests ---

func TestPolygonAreaSquare(t *testing.T) {
	// 10x10 square
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	area := sq.Area()
	if !approxEqual(area, 100, tolerance) {
		t.Errorf("expected area 100, got %f", area)
	}
}

func TestPolygonAreaTriangle(t *testing.T) {
	tri := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(0, 10))
	area := tri.Area()
	if !approxEqual(area, 50, tolerance) {
		t.Errorf("expected area 50, got %f", area)
	}
}

func TestPolygonCentroid(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	c := sq.Centroid()
	if !approxEqual(c.X, 5, tolerance) || !approxEqual(c.Z, 5, tolerance) {
		t.Errorf("expected centroid (5,5), got (%f,%f)", c.X, c.Z)
	}
}

func TestPolygonContains(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	if !sq.Contains(Pt(5, 5)) {
		t.Error("expected (5,5) inside square")
	}
	if sq.Contains(Pt(15, 5)) {
		t.Error("expected (15,5) outside square")
	}
	if sq.Contains(Pt(-1, 5)) {
		t.Error("expected (-1,5) outside square")
	}
}

func TestPolygonBoundingBox(t *testing.T) {
	sq := NewPolygon(Pt(-5, -3), Pt(10, 0), Pt(7, 12))
	mn, mx := sq.BoundingBox()
	if !approxEqual(mn.X, -5, tolerance) || !approxEqual(mn.Z, -3, tolerance) {
		t.Errorf("expected min (-5,-3), got (%f,%f)", mn.X, mn.Z)
	}
	if !approxEqual(mx.X, 10, tolerance) || !approxEqual(mx.Z, 12, tolerance) {
		t.Errorf("expected max (10,12), got (%f,%f)", mx.X, mx.Z)
	}
}

func TestPolygonPerimeter(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	if !approxEqual(sq.Perimeter(), 40, tolerance) {
		t.Errorf("expected perimeter 40, got %f", sq.Perimeter())
	}
}

// --- Clipping tests ---

func TestDiscArea(t *testing.T) {
	disc := Disc(Origin, 100, 128)
	expectedArea := math.Pi * 100 * 100
	if !approxEqual(disc.Area(), expectedArea, expectedArea*0.001) {
		t.Errorf("expected disc area ~%f, got %f", expectedArea, disc.Area())
	}
	if !disc.IsCounterClockwise() {
		t.Error("disc should be CCW")
	}
	if got := Disc(Origin, 1, 1).Len(); got != 3 {
		t.Errorf("degenerate disc has %d sides, want 3", got)
	}
}

func TestClipHalfPlane(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	tests := []struct {
		name string
		a, b Point2D
		want float64
	}{
		{"keep left half", Pt(4, 0), Pt(4, 10), 40},
		{"keep right half", Pt(4, 10), Pt(4, 0), 60},
		{"square right of line", Pt(-1, 0), Pt(-1, 10), 0},
		{"square left of line", Pt(-1, 10), Pt(-1, 0), 100},
		{"diagonal", Pt(0, 0), Pt(10, 10), 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipHalfPlane(sq, tt.a, tt.b).Area()
			if !approxEqual(got, tt.want, tolerance) {
				t.Errorf("area = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestIntersectSquareInsideSquare(t *testing.T) {
	outer := NewPolygon(Pt(0, 0), Pt(20, 0), Pt(20, 20), Pt(0, 20))
	inner := NewPolygon(Pt(5, 5), Pt(15, 5), Pt(15, 15), Pt(5, 15))
	if got := Intersect(inner, outer).Area(); !approxEqual(got, 100, tolerance) {
		t.Errorf("expected area 100, got %f", got)
	}
}

func TestIntersectPartialOverlap(t *testing.T) {
	sq1 := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	sq2 := NewPolygon(Pt(5, 5), Pt(15, 5), Pt(15, 15), Pt(5, 15))
	if got := Intersect(sq1, sq2).Area(); !approxEqual(got, 25, tolerance) {
		t.Errorf("expected area 25, got %f", got)
	}
}

func TestIntersectNoOverlap(t *testing.T) {
	sq1 := NewPolygon(Pt(0, 0), Pt(5, 0), Pt(5, 5), Pt(0, 5))
	sq2 := NewPolygon(Pt(10, 10), Pt(20, 10), Pt(20, 20), Pt(10, 20))
	if !Intersect(sq1, sq2).IsEmpty() {
		t.Error("expected empty polygon for non-overlapping squares")
	}
}

func TestIntersectBlockWithCityEdge(t *testing.T) {
	block := NewPolygon(Pt(190, -30), Pt(250, -30), Pt(250, 30), Pt(190, 30))
	trimmed := Intersect(block, Disc(Origin, 240, 64))
	if trimmed.IsEmpty() || trimmed.Area() >= block.Area() {
		t.Fatalf("edge block area %f, want in (0, %f)", trimmed.Area(), block.Area())
	}
	if d := trimmed.MaxDistanceTo(Origin); d > 240+tolerance {
		t.Errorf("trimmed block reaches %f past the edge", d)
	}
}

// --- Voronoi tests ---

func TestVoronoiTwoPoints(t *testing.T) {
	seeds := []Point2D{Pt(-5, 0), Pt(5, 0)}
	bounds := NewPolygon(Pt(-20, -20), Pt(20, -20), Pt(20, 20), Pt(-20, 20))
	cells := VoronoiCells(seeds, bounds)

	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	for i, c := range cells {
		if !approxEqual(c.Area(), bounds.Area()/2, tolerance) {
			t.Errorf("cell %d area %f, expected %f", i, c.Area(), bounds.Area()/2)
		}
		if !c.Contains(seeds[i]) {
			t.Errorf("cell %d does not contain its seed", i)
		}
	}
}

func TestVoronoiFourPointsSquare(t *testing.T) {
	seeds := []Point2D{Pt(-5, -5), Pt(5, -5), Pt(5, 5), Pt(-5, 5)}
	bounds := NewPolygon(Pt(-20, -20), Pt(20, -20), Pt(20, 20), Pt(-20, 20))
	cells := VoronoiCells(seeds, bounds)

	for i, c := range cells {
		if !approxEqual(c.Area(), 400, tolerance) {
			t.Errorf("cell %d area %f, expected 400", i, c.Area())
		}
	}
}

func TestVoronoiSinglePoint(t *testing.T) {
	bounds := Disc(Origin, 100, 64)
	cells := VoronoiCells([]Point2D{Pt(0, 0)}, bounds)

	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if !approxEqual(cells[0].Area(), bounds.Area(), tolerance) {
		t.Errorf("single cell area %f, expected %f", cells[0].Area(), bounds.Area())
	}
}

func TestVoronoiDuplicateSeed(t *testing.T) {
	seeds := []Point2D{Pt(-5, 0), Pt(5, 0), Pt(-5, 0)}
	bounds := NewPolygon(Pt(-20, -20), Pt(20, -20), Pt(20, 20), Pt(-20, 20))
	cells := VoronoiCells(seeds, bounds)

	if !cells[2].IsEmpty() {
		t.Error("a repeated seed should get an empty cell")
	}
	if !approxEqual(cells[0].Area()+cells[1].Area(), bounds.Area(), tolerance) {
		t.Errorf("cells do not cover the region: %f + %f", cells[0].Area(), cells[1].Area())
	}
}

func TestVoronoiCellsTileBlock(t *testing.T) {
	seeds := []Point2D{Pt(3, 4), Pt(27, 9), Pt(12, 25), Pt(22, 21), Pt(8, 14)}
	block := NewPolygon(Pt(0, 0), Pt(30, 0), Pt(30, 30), Pt(0, 30))
	total := 0.0
	for i, c := range VoronoiCells(seeds, block) {
		if c.IsEmpty() {
			t.Errorf("cell %d is empty", i)
			continue
		}
		total += c.Area()
	}
	if !approxEqual(total, block.Area(), 1e-6) {
		t.Errorf("total cell area %f, expected %f", total, block.Area())
	}
}

// --- Footprint helpers ---

func TestPolygonMean(t *testing.T) {
	// Mean differs from the area centroid for uneven vertex spacing.
	p := NewPolygon(Pt(0, 0), Pt(5, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	m := p.Mean()
	if !approxEqual(m.X, 5, tolerance) || !approxEqual(m.Z, 4, tolerance) {
		t.Errorf("expected mean (5,4), got (%f,%f)", m.X, m.Z)
	}
}

func TestPolygonDedupe(t *testing.T) {
	p := NewPolygon(Pt(0, 0), Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10), Pt(0, 0))
	d := p.Dedupe()
	if d.Len() != 4 {
		t.Errorf("expected 4 vertices, got %d", d.Len())
	}
}

func TestPolygonValidate(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want error
	}{
		{"square", NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10)), nil},
		{"two points", NewPolygon(Pt(0, 0), Pt(1, 0)), ErrTooFewVertices},
		{"collinear", NewPolygon(Pt(0, 0), Pt(1, 0), Pt(2, 0)), ErrZeroArea},
		{"crossing", NewPolygon(Pt(0, 0), Pt(10, 0), Pt(0, 10), Pt(4, 12)), ErrSelfIntersect},
		{"nan", NewPolygon(Pt(0, 0), Pt(math.NaN(), 0), Pt(1, 1)), ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.poly.Validate()
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected valid, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTriangulateConcave(t *testing.T) {
	// L-shaped footprint, area 75.
	l := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(5, 5), Pt(5, 10), Pt(0, 10))
	tris, err := Triangulate(l)
	if err != nil {
		t.Fatalf("triangulate: %v", err)
	}
	if len(tris) != 4 {
		t.Errorf("expected 4 triangles, got %d", len(tris))
	}
	total := 0.0
	for _, tri := range tris {
		a := NewPolygon(l.Vertices[tri[0]], l.Vertices[tri[1]], l.Vertices[tri[2]])
		if a.SignedArea() <= 0 {
			t.Errorf("triangle %v is not counterclockwise", tri)
		}
		total += a.Area()
	}
	if !approxEqual(total, 75, tolerance) {
		t.Errorf("expected total area 75, got %f", total)
	}
}

func TestTriangulateClockwiseInput(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(0, 10), Pt(10, 10), Pt(10, 0))
	tris, err := Triangulate(sq)
	if err != nil {
		t.Fatalf("triangulate: %v", err)
	}
	if len(tris) != 2 {
		t.Errorf("expected 2 triangles, got %d", len(tris))
	}
}

func TestRingRoundTrip(t *testing.T) {
	sq := NewPolygon(Pt(0, 0), Pt(10, 0), Pt(10, 10), Pt(0, 10))
	ring := sq.Ring()
	if len(ring) != 5 || ring[0] != ring[4] {
		t.Fatalf("expected closed ring of 5 points, got %v", ring)
	}
	back := FromRing(ring)
	if back.Len() != 4 {
		t.Errorf("expected 4 vertices after round trip, got %d", back.Len())
	}
}
