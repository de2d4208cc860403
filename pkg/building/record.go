// Package building owns the authoritative list of building records and the
// spatial index used for proximity queries.
package building

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/IrdiZ/kaiju/pkg/geo"
)

// Input is a raw footprint record as supplied by a city data source.
type Input struct {
	Polygon  [][2]float64 `yaml:"polygon" json:"polygon"`
	Height   float64      `yaml:"height" json:"height"`
	Style    string       `yaml:"style" json:"style"`
	Landmark bool         `yaml:"landmark,omitempty" json:"landmark,omitempty"`
	Name     string       `yaml:"name,omitempty" json:"name,omitempty"`
}

// Record is a registered building. Everything except the destroyed flag is
// fixed at registration.
type Record struct {
	Index          int         `json:"index"`
	Footprint      geo.Polygon `json:"footprint"`
	Height         float64     `json:"height"`
	Style          Style       `json:"style"`
	Landmark       bool        `json:"landmark"`
	Name           string      `json:"name,omitempty"`
	Centroid       geo.Point2D `json:"centroid"`
	BoundingRadius float64     `json:"bounding_radius"`
	Bound          orb.Bound   `json:"bound"`
	FootprintArea  float64     `json:"footprint_area"`

	destroyed bool
}

// minHeight replaces non-positive heights so every record stays extrudable.
const minHeight = 1.0

func newRecord(index int, in Input, margin float64) *Record {
	poly := geo.FromPairs(in.Polygon)
	finite := make([]geo.Point2D, 0, len(poly.Vertices))
	for _, v := range poly.Vertices {
		if v.IsFinite() {
			finite = append(finite, v)
		}
	}
	footprint := geo.Polygon{Vertices: finite}.Dedupe().EnsureCCW()

	style, _ := ParseStyle(in.Style)
	height := in.Height
	if !(height > 0) || math.IsInf(height, 0) {
		height = minHeight
	}

	rec := &Record{
		Index:     index,
		Footprint: footprint,
		Height:    height,
		Style:     style,
		Landmark:  in.Landmark,
		Name:      in.Name,
		Centroid:  footprint.Mean(),
	}
	rec.BoundingRadius = footprint.MaxDistanceTo(rec.Centroid) + margin

	if len(footprint.Vertices) > 0 {
		ring := footprint.Ring()
		rec.Bound = ring.Bound()
		rec.FootprintArea = math.Abs(planar.Area(ring))
	} else {
		rec.Bound = orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0, 0}}
	}
	return rec
}

// Destroyed reports whether the building has been destroyed.
func (r *Record) Destroyed() bool { return r.destroyed }

// Width is the bounding-box extent along X.
func (r *Record) Width() float64 { return r.Bound.Max[0] - r.Bound.Min[0] }

// Depth is the bounding-box extent along Z.
func (r *Record) Depth() float64 { return r.Bound.Max[1] - r.Bound.Min[1] }

// MaxDimension is the largest of width, depth and height.
func (r *Record) MaxDimension() float64 {
	return math.Max(r.Height, math.Max(r.Width(), r.Depth()))
}

// BoundMin returns the bounding-box minimum corner.
func (r *Record) BoundMin() geo.Point2D { return geo.FromOrb(r.Bound.Min) }

// BoundMax returns the bounding-box maximum corner.
func (r *Record) BoundMax() geo.Point2D { return geo.FromOrb(r.Bound.Max) }

// Label returns the display name, or a generic label for unnamed buildings.
func (r *Record) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("building #%d", r.Index)
}
