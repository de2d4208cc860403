// Package geometry turns building records into renderable surface meshes and
// merges ordinary buildings into per-material draw batches.
package geometry

import "github.com/IrdiZ/kaiju/pkg/validation"

// Kind classifies a surface.
type Kind string

const (
	KindWall    Kind = "wall"
	KindWindow  Kind = "window"
	KindCornice Kind = "cornice"
	KindRoof    Kind = "roof"
	KindGable   Kind = "gable"
	KindCap     Kind = "cap"
	KindSpire   Kind = "spire"
	KindCross   Kind = "cross"
	KindRose    Kind = "rose"
	KindBox     Kind = "box"
)

// Surface is one renderable mesh with a single material.
type Surface struct {
	Kind     Kind   `json:"kind"`
	Material string `json:"material"`
	Mesh     *Mesh  `json:"mesh"`
}

// Detail selects how much of a building is modelled.
type Detail int

const (
	// DetailSimplified is a bounding-box extrusion.
	DetailSimplified Detail = iota
	// DetailFull has walls, windows, cornices and a styled roof.
	DetailFull
)

func (d Detail) String() string {
	if d == DetailFull {
		return "full"
	}
	return "simplified"
}

// RoofKind records which roof variant was built.
type RoofKind string

const (
	RoofFlat   RoofKind = "flat"
	RoofGabled RoofKind = "gabled"
	RoofSpire  RoofKind = "spire"
	RoofBox    RoofKind = "box"
)

// RoofMode overrides the probabilistic roof policy.
type RoofMode int

const (
	RoofAuto RoofMode = iota
	RoofForceFlat
	RoofForceGabled
)

// Result is the output of one Build call.
type Result struct {
	Building int                `json:"building"`
	Detail   Detail             `json:"detail"`
	Surfaces []Surface          `json:"surfaces"`
	Windows  int                `json:"windows"`
	Roof     RoofKind           `json:"roof"`
	Fallback bool               `json:"fallback"`
	Report   *validation.Report `json:"-"`
}

// Count returns the number of surfaces of the given kind.
func (r *Result) Count(k Kind) int {
	n := 0
	for _, s := range r.Surfaces {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Triangles returns the total triangle count across all surfaces.
func (r *Result) Triangles() int {
	n := 0
	for _, s := range r.Surfaces {
		n += s.Mesh.TriangleCount()
	}
	return n
}
