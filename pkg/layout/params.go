// Package layout generates procedural cities: a street grid of blocks,
// Voronoi lots inset into footprints, heights under a radial envelope and
// styles chosen by ring.
package layout

import (
	"fmt"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// Ring is a concentric band of the city with its own height cap and styles.
type Ring struct {
	Name       string           `yaml:"name" json:"name"`
	RadiusFrom float64          `yaml:"radius_from" json:"radius_from"`
	RadiusTo   float64          `yaml:"radius_to" json:"radius_to"`
	MaxHeight  float64          `yaml:"max_height" json:"max_height"`
	Styles     []building.Style `yaml:"styles" json:"styles"`
}

// Params control city generation. Distances are meters.
type Params struct {
	Radius       float64 `yaml:"radius" json:"radius"`
	BlockSize    float64 `yaml:"block_size" json:"block_size"`
	StreetWidth  float64 `yaml:"street_width" json:"street_width"`
	LotsPerBlock int     `yaml:"lots_per_block" json:"lots_per_block"`
	// Inset scales each lot about its centroid to leave alleys between
	// neighbors.
	Inset      float64 `yaml:"inset" json:"inset"`
	MinLotArea float64 `yaml:"min_lot_area" json:"min_lot_area"`
	MinHeight  float64 `yaml:"min_height" json:"min_height"`
	Landmarks  int     `yaml:"landmarks" json:"landmarks"`
	Rings      []Ring  `yaml:"rings" json:"rings"`
}

// DefaultParams returns a city of about a hundred buildings.
func DefaultParams() Params {
	return Params{
		Radius:       240,
		BlockSize:    60,
		StreetWidth:  14,
		LotsPerBlock: 4,
		Inset:        0.8,
		MinLotArea:   40,
		MinHeight:    4,
		Landmarks:    4,
		Rings: []Ring{
			{Name: "center", RadiusFrom: 0, RadiusTo: 80, MaxHeight: 60,
				Styles: []building.Style{building.Commercial, building.Modern, building.Civic}},
			{Name: "middle", RadiusFrom: 100, RadiusTo: 170, MaxHeight: 28,
				Styles: []building.Style{building.Residential, building.Commercial, building.Modern}},
			{Name: "edge", RadiusFrom: 190, RadiusTo: 240, MaxHeight: 12,
				Styles: []building.Style{building.Residential, building.Residential, building.Industrial}},
		},
	}
}

// Validate checks params before generation.
func (p Params) Validate() *validation.Report {
	r := validation.NewReport()
	positive := func(path string, v float64) {
		if v > 0 {
			return
		}
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("%s must be positive", path),
			Path:        path,
			ActualValue: v,
			Expected:    "> 0",
		})
	}
	positive("layout.radius", p.Radius)
	positive("layout.block_size", p.BlockSize)
	positive("layout.min_height", p.MinHeight)
	if p.LotsPerBlock < 1 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "layout.lots_per_block must be at least 1",
			Path:        "layout.lots_per_block",
			ActualValue: p.LotsPerBlock,
			Expected:    ">= 1",
		})
	}
	if p.Inset <= 0 || p.Inset > 1 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     "layout.inset must be in (0, 1]",
			Path:        "layout.inset",
			ActualValue: p.Inset,
			Expected:    "0 < inset <= 1",
		})
	}
	if len(p.Rings) == 0 {
		r.AddError(validation.Result{
			Level:   validation.LevelSchema,
			Message: "layout.rings must define at least one ring",
			Path:    "layout.rings",
		})
	}
	for i, ring := range p.Rings {
		if ring.RadiusTo < ring.RadiusFrom {
			r.AddError(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("ring %q ends before it starts", ring.Name),
				Path:    fmt.Sprintf("layout.rings[%d]", i),
			})
		}
		if i > 0 && ring.RadiusFrom < p.Rings[i-1].RadiusTo {
			r.AddError(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("ring %q overlaps ring %q", ring.Name, p.Rings[i-1].Name),
				Path:    fmt.Sprintf("layout.rings[%d].radius_from", i),
			})
		}
		if len(ring.Styles) == 0 {
			r.AddError(validation.Result{
				Level:   validation.LevelSchema,
				Message: fmt.Sprintf("ring %q has no styles", ring.Name),
				Path:    fmt.Sprintf("layout.rings[%d].styles", i),
			})
		}
	}
	return r
}
