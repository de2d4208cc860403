package layout

import (
	"fmt"
	"sort"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/random"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// Lot is a footprint carved out of a block.
type Lot struct {
	Block     string      `json:"block"`
	Footprint geo.Polygon `json:"footprint"`
	Distance  float64     `json:"distance"`
	Ring      int         `json:"ring"`
}

// City is a generated city.
type City struct {
	Blocks    []Block          `json:"blocks"`
	Lots      []Lot            `json:"lots"`
	Buildings []building.Input `json:"buildings"`
}

type landmarkDef struct {
	style building.Style
	name  string
}

var landmarkDefs = []landmarkDef{
	{building.Church, "St. Brigid's"},
	{building.Civic, "City Hall"},
	{building.Theatre, "Orpheum Theatre"},
	{building.Museum, "Museum of Natural History"},
	{building.Basilica, "Basilica of the Assumption"},
	{building.Church, "First Congregational"},
	{building.Theatre, "Palace Theatre"},
	{building.Museum, "Art Institute"},
}

// Generate builds a city from params. Every draw comes from rng, so the same
// seed always yields the same city.
func Generate(p Params, rng random.Source) (*City, *validation.Report) {
	report := p.Validate()
	if !report.Valid {
		return nil, report
	}

	city := &City{Blocks: SubdivideIntoBlocks(p)}
	for _, b := range city.Blocks {
		city.Lots = append(city.Lots, subdivideBlock(b, p, rng)...)
	}

	landmarks := pickLandmarks(city.Lots, p.Landmarks)
	if len(landmarks) < p.Landmarks {
		report.AddWarning(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("only %d lots can hold a landmark; %d requested", len(landmarks), p.Landmarks),
			Path:        "layout.landmarks",
			ActualValue: p.Landmarks,
		})
	}

	city.Buildings = make([]building.Input, 0, len(city.Lots))
	for i, lot := range city.Lots {
		ring := p.Rings[lot.Ring]
		envelope := MaxHeightAt(lot.Distance, p.Rings)
		in := building.Input{
			Polygon: lot.Footprint.Pairs(),
			Height:  max(p.MinHeight, random.Range(rng, 0.35, 1)*envelope),
			Style:   string(ring.Styles[int(rng.Float64()*float64(len(ring.Styles)))%len(ring.Styles)]),
		}
		if k, ok := landmarks[i]; ok {
			def := landmarkDefs[k%len(landmarkDefs)]
			in.Landmark = true
			in.Name = def.name
			in.Style = string(def.style)
			in.Height = max(p.MinHeight, 0.8*envelope, 16)
		}
		city.Buildings = append(city.Buildings, in)
	}

	report.AddInfo(validation.Result{
		Level: validation.LevelSchema,
		Message: fmt.Sprintf("generated %d buildings (%d landmarks) on %d blocks",
			len(city.Buildings), len(landmarks), len(city.Blocks)),
	})
	return city, report
}

// subdivideBlock scatters seeds inside the block, splits it into Voronoi
// cells and insets each cell into a footprint.
func subdivideBlock(b Block, p Params, rng random.Source) []Lot {
	lo, hi := b.Polygon.BoundingBox()
	seeds := make([]geo.Point2D, p.LotsPerBlock)
	for i := range seeds {
		seeds[i] = geo.Pt(random.Range(rng, lo.X, hi.X), random.Range(rng, lo.Z, hi.Z))
	}

	var lots []Lot
	for _, cell := range geo.VoronoiCells(seeds, b.Polygon) {
		if cell.IsEmpty() {
			continue
		}
		c := cell.Centroid()
		fp := cell.ScaleAbout(c, p.Inset).Dedupe()
		if fp.Validate() != nil || fp.Area() < p.MinLotArea {
			continue
		}
		d := c.Length()
		lots = append(lots, Lot{
			Block:     b.ID,
			Footprint: fp.EnsureCCW(),
			Distance:  d,
			Ring:      RingAt(d, p.Rings),
		})
	}
	return lots
}

// pickLandmarks returns lot index -> landmark slot. Landmarks go to the
// largest lots, at most one per block.
func pickLandmarks(lots []Lot, n int) map[int]int {
	order := make([]int, len(lots))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lots[order[a]].Footprint.Area() > lots[order[b]].Footprint.Area()
	})

	out := make(map[int]int, n)
	used := make(map[string]bool)
	for _, i := range order {
		if len(out) == n {
			break
		}
		if used[lots[i].Block] {
			continue
		}
		used[lots[i].Block] = true
		out[i] = len(out)
	}
	return out
}
