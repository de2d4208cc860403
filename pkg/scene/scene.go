// Package scene assembles the renderer-facing scene graph: one entity per
// draw call plus one per live debris chunk, with group indices for filtering.
package scene

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityBatch     EntityType = "batch"
	EntitySurface   EntityType = "landmark_surface"
	EntityChunk     EntityType = "chunk"
	EntityCharacter EntityType = "character"
)

// Vec3 is a 3D vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Entity is a single element in the scene graph. Position is the center of
// the footprint at the entity's lowest point; Dimensions are full extents.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Rotation   [4]float64     `json:"rotation"` // quaternion [x, y, z, w]
	Material   string         `json:"material,omitempty"`
	Buildings  []int          `json:"buildings,omitempty"`
	Opacity    float64        `json:"opacity"`
	Version    int            `json:"version,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Graph is the complete scene at one instant.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	SceneID     string      `json:"scene_id,omitempty"`
	GeneratedAt string      `json:"generated_at"`
	Tick        uint64      `json:"tick"`
	Standing    int         `json:"standing"`
	Destroyed   int         `json:"destroyed"`
	DrawCalls   int         `json:"draw_calls"`
	Triangles   int         `json:"triangles"`
	CityBounds  BoundingBox `json:"city_bounds"`
}

// Groups organizes entity IDs by various axes for fast filtering.
type Groups struct {
	EntityTypes map[EntityType][]string `json:"entity_types"`
	Materials   map[string][]string     `json:"materials"`
	Styles      map[string][]string     `json:"styles"`
	Buildings   map[int][]string        `json:"buildings"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			EntityTypes: make(map[EntityType][]string),
			Materials:   make(map[string][]string),
			Styles:      make(map[string][]string),
			Buildings:   make(map[int][]string),
		},
	}
}

// Find returns the entity with the given ID.
func (g *Graph) Find(id string) (Entity, bool) {
	for _, e := range g.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}
