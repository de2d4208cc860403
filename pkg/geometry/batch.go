package geometry

import (
	"fmt"
	"sort"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// IndexRange locates one building's triangles inside a merged batch mesh.
type IndexRange struct {
	Start int `json:"start"`
	Count int `json:"count"`
}

// DrawItem is one draw call handed to the renderer.
type DrawItem struct {
	ID        string             `json:"id"`
	Material  string             `json:"material"`
	Kind      Kind               `json:"kind,omitempty"`
	Building  int                `json:"building"`
	Ranges    map[int]IndexRange `json:"ranges,omitempty"`
	Mesh      *Mesh              `json:"-"`
	Triangles int                `json:"triangles"`
	Version   int                `json:"version"`
}

type batch struct {
	material string
	parts    map[int]*Mesh
	order    []int
	merged   *Mesh
	ranges   map[int]IndexRange
	dirty    bool
	version  int
}

func (b *batch) rebuild() {
	if !b.dirty && b.merged != nil {
		return
	}
	m := &Mesh{}
	ranges := make(map[int]IndexRange, len(b.order))
	for _, idx := range b.order {
		part := b.parts[idx]
		start := len(m.Indices)
		m.Append(part)
		ranges[idx] = IndexRange{Start: start, Count: len(part.Indices)}
	}
	b.merged = m
	b.ranges = ranges
	b.dirty = false
}

// Batches holds the standing geometry of the whole city. Ordinary buildings
// are merged into one mesh per material; landmark surfaces stay individual
// so they keep full detail without growing the merged meshes.
type Batches struct {
	batches   map[string]*batch
	landmarks map[int][]Surface
	standing  map[int]bool
}

// NewBatches returns an empty set.
func NewBatches() *Batches {
	return &Batches{
		batches:   make(map[string]*batch),
		landmarks: make(map[int][]Surface),
		standing:  make(map[int]bool),
	}
}

// Add registers the surfaces built for one building.
func (s *Batches) Add(res Result, landmark bool) {
	idx := res.Building
	s.standing[idx] = true
	if landmark {
		s.landmarks[idx] = append(s.landmarks[idx], res.Surfaces...)
		return
	}
	for _, surf := range res.Surfaces {
		b, ok := s.batches[surf.Material]
		if !ok {
			b = &batch{material: surf.Material, parts: make(map[int]*Mesh)}
			s.batches[surf.Material] = b
		}
		part, ok := b.parts[idx]
		if !ok {
			part = &Mesh{}
			b.parts[idx] = part
			b.order = append(b.order, idx)
		}
		part.Append(surf.Mesh)
		b.dirty = true
		b.version++
	}
}

// RemoveBuilding drops every triangle contributed by building idx. It
// reports whether the building had standing geometry.
func (s *Batches) RemoveBuilding(idx int) bool {
	if !s.standing[idx] {
		return false
	}
	delete(s.standing, idx)
	delete(s.landmarks, idx)
	for mat, b := range s.batches {
		if _, ok := b.parts[idx]; !ok {
			continue
		}
		delete(b.parts, idx)
		for i, o := range b.order {
			if o == idx {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
		b.dirty = true
		b.version++
		if len(b.parts) == 0 {
			delete(s.batches, mat)
		}
	}
	return true
}

// Standing reports whether building idx still has geometry.
func (s *Batches) Standing(idx int) bool { return s.standing[idx] }

// StandingCount returns the number of buildings with geometry.
func (s *Batches) StandingCount() int { return len(s.standing) }

// DrawCalls is the number of merged batches plus individual landmark surfaces.
func (s *Batches) DrawCalls() int {
	n := len(s.batches)
	for _, surfs := range s.landmarks {
		n += len(surfs)
	}
	return n
}

// Triangles is the total triangle count of standing geometry.
func (s *Batches) Triangles() int {
	n := 0
	for _, b := range s.batches {
		for _, p := range b.parts {
			n += p.TriangleCount()
		}
	}
	for _, surfs := range s.landmarks {
		for _, surf := range surfs {
			n += surf.Mesh.TriangleCount()
		}
	}
	return n
}

// Items returns the current draw list: merged batches by material name,
// then landmark surfaces by building index.
func (s *Batches) Items() []DrawItem {
	mats := make([]string, 0, len(s.batches))
	for m := range s.batches {
		mats = append(mats, m)
	}
	sort.Strings(mats)

	items := make([]DrawItem, 0, s.DrawCalls())
	for _, mat := range mats {
		b := s.batches[mat]
		b.rebuild()
		items = append(items, DrawItem{
			ID:        "batch_" + mat,
			Material:  mat,
			Building:  -1,
			Ranges:    b.ranges,
			Mesh:      b.merged,
			Triangles: b.merged.TriangleCount(),
			Version:   b.version,
		})
	}

	idxs := make([]int, 0, len(s.landmarks))
	for idx := range s.landmarks {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	for _, idx := range idxs {
		for i, surf := range s.landmarks[idx] {
			items = append(items, DrawItem{
				ID:        fmt.Sprintf("landmark_%d_%d", idx, i),
				Material:  surf.Material,
				Kind:      surf.Kind,
				Building:  idx,
				Mesh:      surf.Mesh,
				Triangles: surf.Mesh.TriangleCount(),
			})
		}
	}
	return items
}

// CityStats summarizes a BuildCity run.
type CityStats struct {
	Buildings  int `json:"buildings"`
	Landmarks  int `json:"landmarks"`
	Full       int `json:"full_detail"`
	Simplified int `json:"simplified"`
	Fallbacks  int `json:"fallbacks"`
	Windows    int `json:"windows"`
}

// BuildCity builds every record with the detail policy and batches the result.
// A building that falls back to a box never stops the others.
func BuildCity(b *Builder, records []*building.Record) (*Batches, CityStats, *validation.Report) {
	out := NewBatches()
	report := validation.NewReport()
	var stats CityStats
	for _, rec := range records {
		res := b.Build(rec, b.DetailFor(rec))
		out.Add(res, rec.Landmark)
		report.Merge(res.Report)

		stats.Buildings++
		stats.Windows += res.Windows
		if rec.Landmark {
			stats.Landmarks++
		}
		if res.Detail == DetailFull {
			stats.Full++
		} else {
			stats.Simplified++
		}
		if res.Fallback {
			stats.Fallbacks++
		}
	}
	report.AddInfo(validation.Result{
		Level: validation.LevelRender,
		Message: fmt.Sprintf("built %d buildings (%d full, %d simplified, %d fallback) in %d draw calls",
			stats.Buildings, stats.Full, stats.Simplified, stats.Fallbacks, out.DrawCalls()),
	})
	return out, stats, report
}
