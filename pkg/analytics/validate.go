package analytics

import (
	"fmt"

	"github.com/IrdiZ/kaiju/pkg/validation"
)

// warnFraction is the share of a budget at which a warning is raised.
const warnFraction = 0.8

// validateBudget runs the render budget checks.
func validateBudget(b *Budget, report *validation.Report) {
	validateDrawCalls(b, report)
	validateTriangles(b, report)
	validateBatching(b, report)
}

func validateDrawCalls(b *Budget, report *validation.Report) {
	if b.MaxDrawCalls <= 0 {
		return
	}
	switch {
	case b.DrawCalls > b.MaxDrawCalls:
		report.AddError(validation.Result{
			Level:       validation.LevelRender,
			Message:     fmt.Sprintf("%d draw calls exceed the budget of %d (%d merged batches, %d landmark surfaces)", b.DrawCalls, b.MaxDrawCalls, b.Batches, b.LandmarkSurfaces),
			Path:        "render.max_draw_calls",
			ActualValue: b.DrawCalls,
			Expected:    fmt.Sprintf("<= %d", b.MaxDrawCalls),
			Suggestions: []string{
				"Mark fewer buildings as landmarks",
				"Raise render.max_draw_calls if the target hardware allows it",
			},
		})
	case float64(b.DrawCalls) > warnFraction*float64(b.MaxDrawCalls):
		report.AddWarning(validation.Result{
			Level:       validation.LevelRender,
			Message:     fmt.Sprintf("%d draw calls use %.0f%% of the budget", b.DrawCalls, 100*float64(b.DrawCalls)/float64(b.MaxDrawCalls)),
			Path:        "render.max_draw_calls",
			ActualValue: b.DrawCalls,
			Expected:    fmt.Sprintf("<= %.0f", warnFraction*float64(b.MaxDrawCalls)),
		})
	}
}

func validateTriangles(b *Budget, report *validation.Report) {
	if b.MaxTriangles <= 0 {
		return
	}
	switch {
	case b.Triangles > b.MaxTriangles:
		report.AddError(validation.Result{
			Level:       validation.LevelRender,
			Message:     fmt.Sprintf("%d triangles exceed the budget of %d", b.Triangles, b.MaxTriangles),
			Path:        "render.max_triangles",
			ActualValue: b.Triangles,
			Expected:    fmt.Sprintf("<= %d", b.MaxTriangles),
			Suggestions: []string{
				"Lower geometry.ordinary_detail_chance so more buildings are simplified",
			},
		})
	case float64(b.Triangles) > warnFraction*float64(b.MaxTriangles):
		report.AddWarning(validation.Result{
			Level:       validation.LevelRender,
			Message:     fmt.Sprintf("%d triangles use %.0f%% of the budget", b.Triangles, 100*float64(b.Triangles)/float64(b.MaxTriangles)),
			Path:        "render.max_triangles",
			ActualValue: b.Triangles,
		})
	}
}

func validateBatching(b *Budget, report *validation.Report) {
	if b.UnbatchedCalls <= b.DrawCalls {
		return
	}
	report.AddInfo(validation.Result{
		Level:       validation.LevelRender,
		Message:     fmt.Sprintf("batching merges %d per-building draws into %d draw calls", b.UnbatchedCalls, b.DrawCalls),
		ActualValue: b.DrawCalls,
	})
}
