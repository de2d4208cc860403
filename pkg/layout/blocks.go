package layout

import (
	"fmt"
	"math"

	"github.com/IrdiZ/kaiju/pkg/geo"
)

// discSides is the resolution of the city edge.
const discSides = 64

// Block is one buildable city block between streets.
type Block struct {
	ID      string      `json:"id"`
	Ring    string      `json:"ring"`
	Polygon geo.Polygon `json:"polygon"`
	AreaM2  float64     `json:"area_m2"`
}

// SubdivideIntoBlocks lays an axis-aligned street grid over the city disc.
// Blocks are BlockSize meters square with StreetWidth corridors between
// them; a block is kept when its center lies inside the city radius and is
// trimmed to the city edge. The grid is anchored so block_0_0 is centered on
// the origin.
func SubdivideIntoBlocks(p Params) []Block {
	step := p.BlockSize + p.StreetWidth
	n := int(math.Ceil(p.Radius / step))
	edge := geo.Disc(geo.Origin, p.Radius, discSides)

	var blocks []Block
	for i := -n; i <= n; i++ {
		for j := -n; j <= n; j++ {
			cx := float64(i) * step
			cz := float64(j) * step
			center := geo.Pt(cx, cz)
			if center.Length() > p.Radius {
				continue
			}
			h := p.BlockSize / 2
			poly := geo.Intersect(geo.NewPolygon(
				geo.Pt(cx-h, cz-h),
				geo.Pt(cx+h, cz-h),
				geo.Pt(cx+h, cz+h),
				geo.Pt(cx-h, cz+h),
			), edge)
			if poly.IsEmpty() {
				continue
			}
			ring := ""
			if len(p.Rings) > 0 {
				ring = p.Rings[RingAt(center.Length(), p.Rings)].Name
			}
			blocks = append(blocks, Block{
				ID:      fmt.Sprintf("block_%d_%d", i, j),
				Ring:    ring,
				Polygon: poly,
				AreaM2:  poly.Area(),
			})
		}
	}
	return blocks
}
