package analytics

// MaterialLoad holds the draw cost of one material across the city.
type MaterialLoad struct {
	Material  string `json:"material"`
	DrawCalls int    `json:"draw_calls"`
	Triangles int    `json:"triangles"`
	Vertices  int    `json:"vertices"`
	Buildings int    `json:"buildings"`
	Merged    bool   `json:"merged"`
}

// StyleLoad holds per-style building counts.
type StyleLoad struct {
	Style     string `json:"style"`
	Buildings int    `json:"buildings"`
	Standing  int    `json:"standing"`
	Destroyed int    `json:"destroyed"`
	Landmarks int    `json:"landmarks"`
}

// Budget is the render cost of the current standing geometry.
type Budget struct {
	DrawCalls        int     `json:"draw_calls"`
	MaxDrawCalls     int     `json:"max_draw_calls"`
	Triangles        int     `json:"triangles"`
	MaxTriangles     int     `json:"max_triangles"`
	Vertices         int     `json:"vertices"`
	Batches          int     `json:"batches"`
	LandmarkSurfaces int     `json:"landmark_surfaces"`
	UnbatchedCalls   int     `json:"unbatched_draw_calls"`
	CallsPerBuilding float64 `json:"draw_calls_per_building"`

	Buildings int `json:"buildings"`
	Standing  int `json:"standing"`
	Destroyed int `json:"destroyed"`

	Materials []MaterialLoad `json:"materials"`
	Styles    []StyleLoad    `json:"styles"`
}

// Utilization returns draw-call and triangle use as fractions of the budget.
func (b *Budget) Utilization() (drawCalls, triangles float64) {
	if b.MaxDrawCalls > 0 {
		drawCalls = float64(b.DrawCalls) / float64(b.MaxDrawCalls)
	}
	if b.MaxTriangles > 0 {
		triangles = float64(b.Triangles) / float64(b.MaxTriangles)
	}
	return drawCalls, triangles
}
