package scene2d

import (
	"math"
	"time"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/sim"
)

// View is the driver state a snapshot is taken at.
type View struct {
	Tick      uint64
	Time      float64
	Character geo.Point2D
	Yaw       float64
	Radius    float64
}

// Snapshot projects the registry and live debris onto the ground plane.
// Either reg or simulator may be nil.
func Snapshot(reg *building.Registry, simulator *sim.Simulator, v View) *Scene2D {
	s := &Scene2D{
		Metadata: Metadata{
			Tick:        v.Tick,
			Time:        v.Time,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Buildings: []Building2D{},
		Character: Character2D{
			Position: [2]float64{v.Character.X, v.Character.Z},
			Yaw:      v.Yaw,
			Radius:   v.Radius,
		},
		Chunks:    []Chunk2D{},
		Particles: []Particle2D{},
	}
	if reg != nil {
		s.Buildings = assembleBuildings(reg.All())
		s.Metadata.Bounds = footprintBounds(s.Buildings)
	}
	if simulator != nil {
		s.Chunks = assembleChunks(simulator.Chunks())
		s.Particles = assembleParticles(simulator.Particles())
	}

	for _, b := range s.Buildings {
		if b.Destroyed {
			s.Summary.Destroyed++
		} else {
			s.Summary.Standing++
		}
		if b.Landmark {
			s.Summary.Landmarks++
		}
	}
	s.Summary.Chunks = len(s.Chunks)
	s.Summary.Particles = len(s.Particles)
	return s
}

func assembleBuildings(recs []*building.Record) []Building2D {
	result := make([]Building2D, 0, len(recs))
	for _, r := range recs {
		result = append(result, Building2D{
			Index:     r.Index,
			Footprint: r.Footprint.Pairs(),
			Centroid:  [2]float64{r.Centroid.X, r.Centroid.Z},
			Height:    r.Height,
			Style:     string(r.Style),
			Landmark:  r.Landmark,
			Name:      r.Name,
			Destroyed: r.Destroyed(),
		})
	}
	return result
}

func assembleChunks(chunks []*sim.Chunk) []Chunk2D {
	result := make([]Chunk2D, 0, len(chunks))
	for _, c := range chunks {
		result = append(result, Chunk2D{
			ID:        c.ID,
			Position:  [2]float64{c.Position.X(), c.Position.Z()},
			Elevation: c.Position.Y(),
			Size:      2 * math.Max(c.HalfExtents.X(), c.HalfExtents.Z()),
			Opacity:   c.Opacity,
		})
	}
	return result
}

func assembleParticles(ps []*sim.Particle) []Particle2D {
	result := make([]Particle2D, 0, len(ps))
	for _, p := range ps {
		result = append(result, Particle2D{
			Position:  [2]float64{p.Position.X(), p.Position.Z()},
			Elevation: p.Position.Y(),
			Scale:     p.Scale,
			Opacity:   p.Opacity,
		})
	}
	return result
}

func footprintBounds(bs []Building2D) [2][2]float64 {
	if len(bs) == 0 {
		return [2][2]float64{}
	}
	lo := [2]float64{math.MaxFloat64, math.MaxFloat64}
	hi := [2]float64{-math.MaxFloat64, -math.MaxFloat64}
	for _, b := range bs {
		for _, p := range b.Footprint {
			for k := 0; k < 2; k++ {
				lo[k] = math.Min(lo[k], p[k])
				hi[k] = math.Max(hi[k], p[k])
			}
		}
	}
	return [2][2]float64{lo, hi}
}
