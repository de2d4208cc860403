// Package config holds every tunable of the rampage core. Defaults match the
// shipped gameplay; a YAML file may override any subset.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Range is a half-open interval [Min, Max).
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Config is the complete configuration.
type Config struct {
	Seed        uint64            `yaml:"seed"`
	Geometry    GeometryConfig    `yaml:"geometry"`
	Interaction InteractionConfig `yaml:"interaction"`
	Destruction DestructionConfig `yaml:"destruction"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Camera      CameraConfig      `yaml:"camera"`
	Render      RenderConfig      `yaml:"render"`
	Server      ServerConfig      `yaml:"server"`
}

// GeometryConfig controls footprint extrusion and ornament.
type GeometryConfig struct {
	MinEdgeLength        float64 `yaml:"min_edge_length"`
	TexelDensity         float64 `yaml:"texel_density"`
	FloorHeight          float64 `yaml:"floor_height"`
	SillHeight           float64 `yaml:"sill_height"`
	TopMargin            float64 `yaml:"top_margin"`
	WindowLitChance      float64 `yaml:"window_lit_chance"`
	GableChance          float64 `yaml:"gable_chance"`
	GableMaxHeight       float64 `yaml:"gable_max_height"`
	CorniceMidThreshold  float64 `yaml:"cornice_mid_threshold"`
	OrdinaryDetailChance float64 `yaml:"ordinary_detail_chance"`
	BoundingMargin       float64 `yaml:"bounding_margin"`
}

// InteractionConfig controls melee, stomp, and walk-through reach.
type InteractionConfig struct {
	MeleeRange      float64 `yaml:"melee_range"`
	CloseRange      float64 `yaml:"close_range"`
	MeleeCooldown   float64 `yaml:"melee_cooldown"`
	StompRadius     float64 `yaml:"stomp_radius"`
	StompCooldown   float64 `yaml:"stomp_cooldown"`
	CharacterRadius float64 `yaml:"character_radius"`
}

// DestructionConfig controls chunk decomposition and the dust burst.
type DestructionConfig struct {
	ChunkWidth      float64       `yaml:"chunk_width"`
	ChunkHeight     float64       `yaml:"chunk_height"`
	SizeJitter      Range         `yaml:"size_jitter"`
	Mass            Range         `yaml:"mass"`
	Force           Range         `yaml:"force"`
	Lift            Range         `yaml:"lift"`
	DirectionJitter float64       `yaml:"direction_jitter"`
	Spin            float64       `yaml:"spin"`
	LinearDamping   float64       `yaml:"linear_damping"`
	AngularDamping  float64       `yaml:"angular_damping"`
	Lifetime        Range         `yaml:"lifetime"`
	DustBase        int           `yaml:"dust_base"`
	DustPerUnit     float64       `yaml:"dust_per_unit"`
	DustScale       Range         `yaml:"dust_scale"`
	DustSpread      float64       `yaml:"dust_spread"`
	DustLift        Range         `yaml:"dust_lift"`
	DustLife        Range         `yaml:"dust_life"`
	Flash           time.Duration `yaml:"flash"`
}

// SimulationConfig controls the per-tick lifetime bookkeeping.
type SimulationConfig struct {
	MaxStep        float64 `yaml:"max_step"`
	MaxChunks      int     `yaml:"max_chunks"`
	FadeStart      float64 `yaml:"fade_start"`
	DustGravity    float64 `yaml:"dust_gravity"`
	DustDrag       float64 `yaml:"dust_drag"`
	DustGrowth     float64 `yaml:"dust_growth"`
	DustMaxOpacity float64 `yaml:"dust_max_opacity"`
}

// PhysicsConfig configures the built-in rigid-body world.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	Restitution float64 `yaml:"restitution"`
	Friction    float64 `yaml:"friction"`
}

// CameraConfig places the chase camera.
type CameraConfig struct {
	Distance  float64 `yaml:"distance"`
	Height    float64 `yaml:"height"`
	Smoothing float64 `yaml:"smoothing"`
}

// RenderConfig sets the draw budget reported by analytics.
type RenderConfig struct {
	MaxDrawCalls int `yaml:"max_draw_calls"`
	MaxTriangles int `yaml:"max_triangles"`
}

// ServerConfig configures the HTTP frame server.
type ServerConfig struct {
	Port     int           `yaml:"port"`
	TickRate time.Duration `yaml:"tick_rate"`
}

// Default returns the shipped configuration.
func Default() Config {
	return Config{
		Seed: 1,
		Geometry: GeometryConfig{
			MinEdgeLength:        0.01,
			TexelDensity:         0.25,
			FloorHeight:          3.2,
			SillHeight:           1.0,
			TopMargin:            0.5,
			WindowLitChance:      0.38,
			GableChance:          0.7,
			GableMaxHeight:       20,
			CorniceMidThreshold:  8,
			OrdinaryDetailChance: 0.15,
			BoundingMargin:       1.0,
		},
		Interaction: InteractionConfig{
			MeleeRange:      12,
			CloseRange:      8,
			MeleeCooldown:   0.3,
			StompRadius:     25,
			StompCooldown:   0.8,
			CharacterRadius: 4,
		},
		Destruction: DestructionConfig{
			ChunkWidth:      3,
			ChunkHeight:     4,
			SizeJitter:      Range{0.65, 1.0},
			Mass:            Range{5, 15},
			Force:           Range{40, 100},
			Lift:            Range{15, 60},
			DirectionJitter: 0.4,
			Spin:            5,
			LinearDamping:   0.3,
			AngularDamping:  0.4,
			Lifetime:        Range{5, 8},
			DustBase:        25,
			DustPerUnit:     1.5,
			DustScale:       Range{1.5, 5},
			DustSpread:      6,
			DustLift:        Range{2, 10},
			DustLife:        Range{2, 4.5},
			Flash:           80 * time.Millisecond,
		},
		Simulation: SimulationConfig{
			MaxStep:        0.05,
			MaxChunks:      400,
			FadeStart:      1.5,
			DustGravity:    1.5,
			DustDrag:       0.97,
			DustGrowth:     1.5,
			DustMaxOpacity: 0.4,
		},
		Physics: PhysicsConfig{
			Gravity:     -9.82,
			Restitution: 0.2,
			Friction:    0.6,
		},
		Camera: CameraConfig{
			Distance:  40,
			Height:    30,
			Smoothing: 0,
		},
		Render: RenderConfig{
			MaxDrawCalls: 64,
			MaxTriangles: 2_000_000,
		},
		Server: ServerConfig{
			Port:     3000,
			TickRate: 16 * time.Millisecond,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate returns the first invalid field, identified by its YAML path.
func (c Config) Validate() error {
	positive := []struct {
		path  string
		value float64
	}{
		{"geometry.min_edge_length", c.Geometry.MinEdgeLength},
		{"geometry.texel_density", c.Geometry.TexelDensity},
		{"geometry.floor_height", c.Geometry.FloorHeight},
		{"interaction.melee_range", c.Interaction.MeleeRange},
		{"interaction.stomp_radius", c.Interaction.StompRadius},
		{"interaction.character_radius", c.Interaction.CharacterRadius},
		{"destruction.chunk_width", c.Destruction.ChunkWidth},
		{"destruction.chunk_height", c.Destruction.ChunkHeight},
		{"simulation.max_step", c.Simulation.MaxStep},
		{"simulation.fade_start", c.Simulation.FadeStart},
		{"simulation.max_chunks", float64(c.Simulation.MaxChunks)},
		{"render.max_draw_calls", float64(c.Render.MaxDrawCalls)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be > 0 (got %v)", ErrInvalid, p.path, p.value)
		}
	}

	probabilities := []struct {
		path  string
		value float64
	}{
		{"geometry.window_lit_chance", c.Geometry.WindowLitChance},
		{"geometry.gable_chance", c.Geometry.GableChance},
		{"geometry.ordinary_detail_chance", c.Geometry.OrdinaryDetailChance},
		{"simulation.dust_drag", c.Simulation.DustDrag},
		{"simulation.dust_max_opacity", c.Simulation.DustMaxOpacity},
	}
	for _, p := range probabilities {
		if p.value < 0 || p.value > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1] (got %v)", ErrInvalid, p.path, p.value)
		}
	}

	ranges := []struct {
		path string
		r    Range
	}{
		{"destruction.size_jitter", c.Destruction.SizeJitter},
		{"destruction.mass", c.Destruction.Mass},
		{"destruction.force", c.Destruction.Force},
		{"destruction.lift", c.Destruction.Lift},
		{"destruction.lifetime", c.Destruction.Lifetime},
		{"destruction.dust_scale", c.Destruction.DustScale},
		{"destruction.dust_lift", c.Destruction.DustLift},
		{"destruction.dust_life", c.Destruction.DustLife},
	}
	for _, r := range ranges {
		if r.r.Min > r.r.Max {
			return fmt.Errorf("%w: %s min %v exceeds max %v", ErrInvalid, r.path, r.r.Min, r.r.Max)
		}
	}
	if c.Destruction.Mass.Min <= 0 {
		return fmt.Errorf("%w: destruction.mass.min must be > 0", ErrInvalid)
	}
	if c.Destruction.DustLife.Min <= 0 {
		return fmt.Errorf("%w: destruction.dust_life.min must be > 0", ErrInvalid)
	}
	return nil
}
