package scene

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/geometry"
	"github.com/IrdiZ/kaiju/pkg/sim"
)

// characterHeight is the nominal standing height used for the character box.
const characterHeight = 30.0

// Assemble converts the current draw list and live debris into a scene graph.
// Either of batches or simulator may be nil.
func Assemble(reg *building.Registry, batches *geometry.Batches, simulator *sim.Simulator) *Graph {
	g := NewGraph()

	if batches != nil {
		assembleDrawItems(reg, batches.Items(), g)
		g.Metadata.DrawCalls = batches.DrawCalls()
		g.Metadata.Triangles = batches.Triangles()
		g.Metadata.Standing = batches.StandingCount()
	}
	if simulator != nil {
		assembleChunks(reg, simulator.Chunks(), g)
	}
	if reg != nil {
		g.Metadata.Destroyed = reg.DestroyedCount()
	}

	g.Metadata.GeneratedAt = time.Now().UTC().Format(time.RFC3339)
	g.Metadata.CityBounds = computeBounds(g.Entities)
	return g
}

// AddCharacter places the character as an upright box of the given radius.
func AddCharacter(g *Graph, pos mgl64.Vec3, yaw, radius float64) {
	addEntity(g, nil, Entity{
		ID:         "character",
		Type:       EntityCharacter,
		Position:   Vec3{X: pos.X(), Y: pos.Y(), Z: pos.Z()},
		Dimensions: Vec3{X: 2 * radius, Y: characterHeight, Z: 2 * radius},
		Rotation:   yawQuat(yaw),
		Opacity:    1,
		Metadata:   map[string]any{"yaw": yaw},
	})
	g.Metadata.CityBounds = computeBounds(g.Entities)
}

func assembleDrawItems(reg *building.Registry, items []geometry.DrawItem, g *Graph) {
	for _, it := range items {
		e := Entity{
			ID:       it.ID,
			Material: it.Material,
			Rotation: identityQuat(),
			Opacity:  1,
			Version:  it.Version,
			Metadata: map[string]any{"triangles": it.Triangles},
		}
		if it.Building < 0 {
			e.Type = EntityBatch
			e.Buildings = make([]int, 0, len(it.Ranges))
			for idx := range it.Ranges {
				e.Buildings = append(e.Buildings, idx)
			}
			sort.Ints(e.Buildings)
		} else {
			e.Type = EntitySurface
			e.Buildings = []int{it.Building}
			e.Metadata["kind"] = string(it.Kind)
		}
		if it.Mesh != nil {
			lo, hi := it.Mesh.Bounds()
			e.Position, e.Dimensions = boxFrom(lo, hi)
		}
		addEntity(g, reg, e)
	}
}

func assembleChunks(reg *building.Registry, chunks []*sim.Chunk, g *Graph) {
	for _, c := range chunks {
		h := c.HalfExtents
		addEntity(g, reg, Entity{
			ID:         fmt.Sprintf("chunk_%d", c.ID),
			Type:       EntityChunk,
			Position:   Vec3{X: c.Position.X(), Y: c.Position.Y() - h.Y(), Z: c.Position.Z()},
			Dimensions: Vec3{X: 2 * h.X(), Y: 2 * h.Y(), Z: 2 * h.Z()},
			Rotation:   [4]float64{c.Rotation.V[0], c.Rotation.V[1], c.Rotation.V[2], c.Rotation.W},
			Material:   c.Material,
			Buildings:  []int{c.Building},
			Opacity:    c.Opacity,
			Metadata:   map[string]any{"remaining": c.Remaining},
		})
	}
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, reg *building.Registry, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
	if e.Material != "" {
		g.Groups.Materials[e.Material] = append(g.Groups.Materials[e.Material], id)
	}

	styles := make(map[building.Style]bool)
	for _, idx := range e.Buildings {
		g.Groups.Buildings[idx] = append(g.Groups.Buildings[idx], id)
		if reg == nil {
			continue
		}
		if rec, err := reg.Get(idx); err == nil {
			styles[rec.Style] = true
		}
	}
	for s := range styles {
		g.Groups.Styles[string(s)] = append(g.Groups.Styles[string(s)], id)
	}
}

func boxFrom(lo, hi mgl64.Vec3) (Vec3, Vec3) {
	pos := Vec3{X: (lo.X() + hi.X()) / 2, Y: lo.Y(), Z: (lo.Z() + hi.Z()) / 2}
	dim := Vec3{X: hi.X() - lo.X(), Y: hi.Y() - lo.Y(), Z: hi.Z() - lo.Z()}
	return pos, dim
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	minV := Vec3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	maxV := Vec3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}

	for _, e := range entities {
		halfX := e.Dimensions.X / 2
		halfZ := e.Dimensions.Z / 2

		minV.X = math.Min(minV.X, e.Position.X-halfX)
		maxV.X = math.Max(maxV.X, e.Position.X+halfX)
		minV.Y = math.Min(minV.Y, e.Position.Y)
		maxV.Y = math.Max(maxV.Y, e.Position.Y+e.Dimensions.Y)
		minV.Z = math.Min(minV.Z, e.Position.Z-halfZ)
		maxV.Z = math.Max(maxV.Z, e.Position.Z+halfZ)
	}
	return BoundingBox{Min: minV, Max: maxV}
}

func identityQuat() [4]float64 {
	return [4]float64{0, 0, 0, 1}
}

func yawQuat(angle float64) [4]float64 {
	half := angle / 2
	return [4]float64{0, math.Sin(half), 0, math.Cos(half)}
}
