// Package scene2d produces a top-down snapshot of the rampage for the
// terminal viewer and the websocket stream.
package scene2d

// Scene2D is one top-down frame.
type Scene2D struct {
	Metadata  Metadata     `json:"metadata"`
	Buildings []Building2D `json:"buildings"`
	Character Character2D  `json:"character"`
	Chunks    []Chunk2D    `json:"chunks"`
	Particles []Particle2D `json:"particles"`
	Summary   Summary      `json:"summary"`
}

// Metadata holds frame-level data. Bounds is [min, max] over all footprints.
type Metadata struct {
	Tick        uint64        `json:"tick"`
	Time        float64       `json:"time"`
	GeneratedAt string        `json:"generated_at"`
	Bounds      [2][2]float64 `json:"bounds"`
}

// Building2D is one footprint.
type Building2D struct {
	Index     int          `json:"index"`
	Footprint [][2]float64 `json:"footprint"`
	Centroid  [2]float64   `json:"centroid"`
	Height    float64      `json:"height"`
	Style     string       `json:"style"`
	Landmark  bool         `json:"landmark,omitempty"`
	Name      string       `json:"name,omitempty"`
	Destroyed bool         `json:"destroyed,omitempty"`
}

// Character2D is the character's ground position and facing.
type Character2D struct {
	Position [2]float64 `json:"position"`
	Yaw      float64    `json:"yaw"`
	Radius   float64    `json:"radius"`
}

// Chunk2D is a debris chunk projected to the ground plane.
type Chunk2D struct {
	ID        uint64     `json:"id"`
	Position  [2]float64 `json:"position"`
	Elevation float64    `json:"elevation"`
	Size      float64    `json:"size"`
	Opacity   float64    `json:"opacity"`
}

// Particle2D is a dust puff projected to the ground plane.
type Particle2D struct {
	Position  [2]float64 `json:"position"`
	Elevation float64    `json:"elevation"`
	Scale     float64    `json:"scale"`
	Opacity   float64    `json:"opacity"`
}

// Summary holds aggregate counts.
type Summary struct {
	Standing  int `json:"standing"`
	Destroyed int `json:"destroyed"`
	Landmarks int `json:"landmarks"`
	Chunks    int `json:"chunks"`
	Particles int `json:"particles"`
}
