// Package analytics measures standing geometry against the render budget.
package analytics

import (
	"sort"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geometry"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// Analyze computes the render budget of batches for the given records.
// Returns the budget and a validation report.
func Analyze(batches *geometry.Batches, records []*building.Record, cfg config.RenderConfig) (*Budget, *validation.Report) {
	report := validation.NewReport()
	b := &Budget{
		MaxDrawCalls: cfg.MaxDrawCalls,
		MaxTriangles: cfg.MaxTriangles,
	}

	// 1. Draw list
	mats := make(map[string]*MaterialLoad)
	for _, it := range batches.Items() {
		m, ok := mats[it.Material]
		if !ok {
			m = &MaterialLoad{Material: it.Material}
			mats[it.Material] = m
		}
		m.DrawCalls++
		m.Triangles += it.Triangles
		m.Vertices += it.Mesh.VertexCount()
		if it.Building < 0 {
			m.Merged = true
			m.Buildings += len(it.Ranges)
			b.Batches++
			b.UnbatchedCalls += len(it.Ranges)
		} else {
			m.Buildings++
			b.LandmarkSurfaces++
			b.UnbatchedCalls++
		}
		b.DrawCalls++
		b.Triangles += it.Triangles
		b.Vertices += it.Mesh.VertexCount()
	}
	for _, m := range mats {
		b.Materials = append(b.Materials, *m)
	}
	sort.Slice(b.Materials, func(i, j int) bool {
		if b.Materials[i].Triangles != b.Materials[j].Triangles {
			return b.Materials[i].Triangles > b.Materials[j].Triangles
		}
		return b.Materials[i].Material < b.Materials[j].Material
	})

	// 2. Buildings by style
	b.Styles = resolveStyles(records)
	for _, s := range b.Styles {
		b.Buildings += s.Buildings
		b.Standing += s.Standing
		b.Destroyed += s.Destroyed
	}
	if b.Standing > 0 {
		b.CallsPerBuilding = float64(b.DrawCalls) / float64(b.Standing)
	}

	// 3. Budget validation
	validateBudget(b, report)

	return b, report
}

func resolveStyles(records []*building.Record) []StyleLoad {
	byStyle := make(map[building.Style]*StyleLoad, len(building.Styles))
	for _, s := range building.Styles {
		byStyle[s] = &StyleLoad{Style: string(s)}
	}
	for _, rec := range records {
		sl := byStyle[rec.Style]
		sl.Buildings++
		if rec.Destroyed() {
			sl.Destroyed++
		} else {
			sl.Standing++
		}
		if rec.Landmark {
			sl.Landmarks++
		}
	}
	out := make([]StyleLoad, 0, len(byStyle))
	for _, s := range building.Styles {
		if sl := byStyle[s]; sl.Buildings > 0 {
			out = append(out, *sl)
		}
	}
	return out
}
