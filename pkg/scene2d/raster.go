package scene2d

import (
	"math"

	"github.com/IrdiZ/kaiju/pkg/geo"
)

// CellKind tells a viewer how to color a raster cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellBuilding
	CellLandmark
	CellRubble
	CellDust
	CellChunk
	CellCharacter
)

var cellRunes = map[CellKind]rune{
	CellEmpty:     ' ',
	CellBuilding:  '#',
	CellLandmark:  '%',
	CellRubble:    '.',
	CellDust:      ':',
	CellChunk:     '*',
	CellCharacter: '@',
}

// Rune returns the glyph drawn for a cell kind.
func (k CellKind) Rune() rune { return cellRunes[k] }

// Viewport maps the ground plane onto a character grid centered on Center.
// Terminal cells are about twice as tall as they are wide, so one row covers
// twice the distance of one column. +Z points up the screen.
type Viewport struct {
	Center       geo.Point2D
	MetersPerCol float64
	Cols, Rows   int
}

// Cell returns the grid cell containing p.
func (v Viewport) Cell(p geo.Point2D) (col, row int, ok bool) {
	if v.MetersPerCol <= 0 {
		return 0, 0, false
	}
	col = int(math.Floor((p.X-v.Center.X)/v.MetersPerCol)) + v.Cols/2
	row = v.Rows/2 - 1 - int(math.Floor((p.Z-v.Center.Z)/(2*v.MetersPerCol)))
	ok = col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
	return col, row, ok
}

// Point returns the ground position at the center of a grid cell.
func (v Viewport) Point(col, row int) geo.Point2D {
	return geo.Point2D{
		X: v.Center.X + (float64(col-v.Cols/2)+0.5)*v.MetersPerCol,
		Z: v.Center.Z + (float64(v.Rows/2-1-row)+0.5)*2*v.MetersPerCol,
	}
}

// Rasterize draws the scene into a Rows x Cols grid. Later layers overwrite
// earlier ones: footprints, dust, chunks, then the character.
func (v Viewport) Rasterize(s *Scene2D) [][]CellKind {
	grid := make([][]CellKind, v.Rows)
	for r := range grid {
		grid[r] = make([]CellKind, v.Cols)
	}
	if s == nil {
		return grid
	}

	for _, b := range s.Buildings {
		kind := CellBuilding
		switch {
		case b.Destroyed:
			kind = CellRubble
		case b.Landmark:
			kind = CellLandmark
		}
		v.fillPolygon(grid, geo.FromPairs(b.Footprint), kind)
	}
	for _, p := range s.Particles {
		v.plot(grid, p.Position, CellDust)
	}
	for _, c := range s.Chunks {
		v.plot(grid, c.Position, CellChunk)
	}
	v.plot(grid, s.Character.Position, CellCharacter)
	return grid
}

func (v Viewport) plot(grid [][]CellKind, p [2]float64, kind CellKind) {
	if col, row, ok := v.Cell(geo.Pt(p[0], p[1])); ok {
		grid[row][col] = kind
	}
}

func (v Viewport) fillPolygon(grid [][]CellKind, poly geo.Polygon, kind CellKind) {
	if poly.Len() < 3 {
		return
	}
	lo, hi := poly.BoundingBox()
	c0, r1, _ := v.Cell(lo)
	c1, r0, _ := v.Cell(hi)
	for row := max(r0, 0); row <= min(r1, v.Rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, v.Cols-1); col++ {
			if poly.Contains(v.Point(col, row)) {
				grid[row][col] = kind
			}
		}
	}
}

// Lines renders a raster as text, one string per row.
func Lines(grid [][]CellKind) []string {
	out := make([]string, len(grid))
	for r, row := range grid {
		rs := make([]rune, len(row))
		for c, k := range row {
			rs[c] = k.Rune()
		}
		out[r] = string(rs)
	}
	return out
}
