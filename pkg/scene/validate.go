package scene

import (
	"fmt"
	"math"

	"github.com/IrdiZ/kaiju/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph.
// It checks entity integrity, group index consistency, and bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Level:   validation.LevelScene,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)
	validateOpacity(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Path:        fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	entityIDs := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		entityIDs[e.ID] = true
	}

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !entityIDs[id] {
				r.AddError(validation.Result{
					Level:       validation.LevelScene,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					Path:        fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
	for name, ids := range g.Groups.Materials {
		checkGroup("materials", name, ids)
	}
	for name, ids := range g.Groups.Styles {
		checkGroup("styles", name, ids)
	}
	for idx, ids := range g.Groups.Buildings {
		checkGroup("buildings", fmt.Sprint(idx), ids)
	}
}

func memberSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	typeMembers := make(map[EntityType]map[string]bool, len(g.Groups.EntityTypes))
	for et, ids := range g.Groups.EntityTypes {
		typeMembers[et] = memberSet(ids)
	}
	materialMembers := make(map[string]map[string]bool, len(g.Groups.Materials))
	for mat, ids := range g.Groups.Materials {
		materialMembers[mat] = memberSet(ids)
	}
	buildingMembers := make(map[int]map[string]bool, len(g.Groups.Buildings))
	for idx, ids := range g.Groups.Buildings {
		buildingMembers[idx] = memberSet(ids)
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}

		if !typeMembers[e.Type][e.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q has type %q but is not in entity_types group", e.ID, e.Type),
				Path:        fmt.Sprintf("groups.entity_types.%s", e.Type),
				ActualValue: e.ID,
			})
		}

		if e.Material != "" && !materialMembers[e.Material][e.ID] {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q has material %q but is not in materials group", e.ID, e.Material),
				Path:        fmt.Sprintf("groups.materials.%s", e.Material),
				ActualValue: e.ID,
			})
		}

		for _, idx := range e.Buildings {
			if !buildingMembers[idx][e.ID] {
				r.AddError(validation.Result{
					Level:       validation.LevelScene,
					Message:     fmt.Sprintf("entity %q belongs to building %d but is not in buildings group", e.ID, idx),
					Path:        fmt.Sprintf("groups.buildings.%d", idx),
					ActualValue: e.ID,
				})
			}
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.CityBounds
	tolerance := 1.0

	for _, e := range g.Entities {
		halfX := e.Dimensions.X / 2
		halfZ := e.Dimensions.Z / 2

		if e.Position.X-halfX < bounds.Min.X-tolerance || e.Position.X+halfX > bounds.Max.X+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q X extent [%.1f, %.1f] outside city bounds [%.1f, %.1f]", e.ID, e.Position.X-halfX, e.Position.X+halfX, bounds.Min.X, bounds.Max.X),
				Path:        "metadata.city_bounds",
				ActualValue: e.Position.X,
			})
			break
		}
		if e.Position.Z-halfZ < bounds.Min.Z-tolerance || e.Position.Z+halfZ > bounds.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q Z extent [%.1f, %.1f] outside city bounds [%.1f, %.1f]", e.ID, e.Position.Z-halfZ, e.Position.Z+halfZ, bounds.Min.Z, bounds.Max.Z),
				Path:        "metadata.city_bounds",
				ActualValue: e.Position.Z,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		// Flat surfaces such as rose windows may be zero-thick on one axis.
		zero := 0
		for _, d := range []float64{e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z} {
			if d < 0 || math.IsNaN(d) {
				zero = 3
				break
			}
			if d == 0 {
				zero++
			}
		}
		if zero >= 2 {
			r.AddWarning(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q has degenerate dimensions (%.2f, %.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Path:        fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Expected:    "at most one zero dimension",
			})
		}
	}
}

func validateOpacity(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Opacity < 0 || e.Opacity > 1 {
			r.AddError(validation.Result{
				Level:       validation.LevelScene,
				Message:     fmt.Sprintf("entity %q opacity %.3f outside [0, 1]", e.ID, e.Opacity),
				Path:        fmt.Sprintf("entities.%s.opacity", e.ID),
				ActualValue: e.Opacity,
				Expected:    "0 <= opacity <= 1",
			})
		}
	}
}
