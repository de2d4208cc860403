package destruction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geometry"
	"github.com/IrdiZ/kaiju/pkg/physics"
	"github.com/IrdiZ/kaiju/pkg/random"
	"github.com/IrdiZ/kaiju/pkg/sim"
)

type recorder struct {
	destroyed []int
	names     []string
	shakes    []float64
	flashes   []time.Duration
}

func (r *recorder) OnBuildingDestroyed(i int, name string) {
	r.destroyed = append(r.destroyed, i)
	r.names = append(r.names, name)
}
func (r *recorder) OnShakeRequested(v float64) { r.shakes = append(r.shakes, v) }
func (r *recorder) OnFlash(d time.Duration)    { r.flashes = append(r.flashes, d) }

type fixture struct {
	reg     *building.Registry
	batches *geometry.Batches
	world   *physics.Basic
	sim     *sim.Simulator
	notes   *recorder
	engine  *Engine
}

func setup(t *testing.T, inputs ...building.Input) *fixture {
	t.Helper()
	cfg := config.Default()
	reg := building.NewRegistry(cfg.Geometry.BoundingMargin)
	recs, _ := reg.Register(inputs)
	b := geometry.NewBuilder(cfg.Geometry, random.Constant(0.5), geometry.WithLogger(logging.Discard()))
	batches, _, _ := geometry.BuildCity(b, recs)
	world := physics.NewBasic(cfg.Physics)
	s := sim.New(cfg.Simulation, world, nil)
	notes := &recorder{}
	engine := New(cfg.Destruction, Deps{
		Buildings: reg,
		Scene:     batches,
		World:     world,
		Spawner:   s,
		Random:    random.New(7),
		Notifier:  notes,
	})
	return &fixture{reg, batches, world, s, notes, engine}
}

func TestChunkGrid(t *testing.T) {
	cfg := config.Default().Destruction
	tests := []struct {
		name    string
		w, d, h float64
		want    [3]int
	}{
		{"nine by nine by eight", 9, 9, 8, [3]int{3, 2, 3}},
		{"tiny", 1, 1, 1, [3]int{2, 2, 2}},
		{"long", 30, 6, 40, [3]int{10, 10, 2}},
		{"rounding", 7.4, 7.6, 9.9, [3]int{2, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChunkGrid(tt.w, tt.d, tt.h, cfg))
		})
	}
}

func TestDustCount(t *testing.T) {
	cfg := config.Default().Destruction
	assert.Equal(t, 38, DustCount(9, 9, 8, cfg))
	assert.Equal(t, 25+60, DustCount(10, 20, 40, cfg))
}

func TestShakeIntensity(t *testing.T) {
	assert.InDelta(t, 0.3+8.0/60, ShakeIntensity(8), 1e-12)
	assert.Equal(t, 1.0, ShakeIntensity(120))
}

func TestDestroySpawnsGrid(t *testing.T) {
	f := setup(t, building.Input{
		Polygon: [][2]float64{{0, 0}, {9, 0}, {9, 9}, {0, 9}},
		Height:  8,
		Style:   "commercial",
		Name:    "Arcade",
	})
	require.True(t, f.batches.Standing(0))

	ev, ok := f.engine.Destroy(0, -20, 4.5)
	require.True(t, ok)
	assert.Equal(t, 18, ev.Chunks)
	assert.Equal(t, 38, ev.Dust)
	assert.Equal(t, "Arcade", ev.Name)

	rec, _ := f.reg.Get(0)
	assert.True(t, rec.Destroyed())
	assert.False(t, f.batches.Standing(0))
	assert.Equal(t, 18, f.sim.ChunkCount())
	assert.Equal(t, 18, f.world.Len())
	assert.Len(t, f.sim.Particles(), 38)

	assert.Equal(t, []int{0}, f.notes.destroyed)
	assert.Equal(t, []string{"Arcade"}, f.notes.names)
	assert.Equal(t, []time.Duration{80 * time.Millisecond}, f.notes.flashes)
	require.Len(t, f.notes.shakes, 1)
	assert.InDelta(t, ev.Shake, f.notes.shakes[0], 1e-12)

	for _, c := range f.sim.Chunks() {
		assert.Equal(t, "wall_commercial", c.Material)
		assert.GreaterOrEqual(t, c.Remaining, 5.0)
		assert.Less(t, c.Remaining, 8.0)
		assert.GreaterOrEqual(t, c.HalfExtents.X(), 1.5*0.65-1e-12)
		assert.Less(t, c.HalfExtents.X(), 1.5)
		assert.GreaterOrEqual(t, c.HalfExtents.Y(), 2*0.65-1e-12)
		assert.Less(t, c.HalfExtents.Y(), 2.0)
		assert.True(t, c.Position.X() > 0 && c.Position.X() < 9)
		assert.True(t, c.Position.Y() > 0 && c.Position.Y() < 8)

		st, ok := f.world.State(c.Body)
		require.True(t, ok)
		assert.Greater(t, st.Velocity.X(), 0.0, "impulse points away from the origin")
		assert.GreaterOrEqual(t, st.Velocity.Y(), 15-0.4*100)
		for k := 0; k < 3; k++ {
			assert.LessOrEqual(t, math.Abs(st.AngularVelocity[k]), 5.0)
		}
	}

	for _, p := range f.sim.Particles() {
		assert.True(t, p.Position.X() >= 0 && p.Position.X() < 9)
		assert.True(t, p.Position.Y() >= 0 && p.Position.Y() < 8)
		assert.True(t, p.Life >= 2 && p.Life < 4.5)
		assert.True(t, p.Velocity.Y() >= 2 && p.Velocity.Y() < 10)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	f := setup(t, building.Input{Polygon: [][2]float64{{0, 0}, {9, 0}, {9, 9}, {0, 9}}, Height: 8})

	_, ok := f.engine.Destroy(0, 0, 0)
	require.True(t, ok)
	chunks, dust := f.sim.ChunkCount(), len(f.sim.Particles())

	_, ok = f.engine.Destroy(0, 0, 0)
	assert.False(t, ok)
	assert.Equal(t, chunks, f.sim.ChunkCount())
	assert.Equal(t, dust, len(f.sim.Particles()))
	assert.Len(t, f.notes.destroyed, 1)
	assert.Len(t, f.notes.flashes, 1)
	assert.Equal(t, 1, f.engine.Destroyed())
	assert.True(t, f.engine.IsDestroyed(0))
}

func TestDestroyUnknownIndex(t *testing.T) {
	f := setup(t, building.Input{Polygon: [][2]float64{{0, 0}, {9, 0}, {9, 9}, {0, 9}}, Height: 8})
	_, ok := f.engine.Destroy(5, 0, 0)
	assert.False(t, ok)
	assert.Zero(t, f.engine.Destroyed())
	assert.Empty(t, f.notes.destroyed)
}

func TestOriginAtCentroid(t *testing.T) {
	f := setup(t, building.Input{Polygon: [][2]float64{{0, 0}, {6, 0}, {6, 6}, {0, 6}}, Height: 4})
	_, ok := f.engine.Destroy(0, 3, 3)
	require.True(t, ok)
	for _, c := range f.sim.Chunks() {
		st, _ := f.world.State(c.Body)
		for k := 0; k < 3; k++ {
			assert.False(t, math.IsNaN(st.Velocity[k]))
		}
	}
}

func TestFallbackBuildingStillDestructible(t *testing.T) {
	f := setup(t, building.Input{Polygon: [][2]float64{{0, 0}, {10, 0}, {0, 10}, {4, 12}}, Height: 8, Style: "civic", Landmark: true, Name: "Odd Hall"})
	ev, ok := f.engine.Destroy(0, -5, 0)
	require.True(t, ok)
	assert.Equal(t, 3*2*4, ev.Chunks)
	assert.False(t, f.batches.Standing(0))
}

func TestSameSeedSameDebris(t *testing.T) {
	in := building.Input{Polygon: [][2]float64{{0, 0}, {12, 0}, {12, 9}, {0, 9}}, Height: 16}
	a, b := setup(t, in), setup(t, in)
	a.engine.Destroy(0, -10, -10)
	b.engine.Destroy(0, -10, -10)
	require.Equal(t, a.sim.ChunkCount(), b.sim.ChunkCount())
	for i, c := range a.sim.Chunks() {
		assert.Equal(t, c.HalfExtents, b.sim.Chunks()[i].HalfExtents)
		assert.Equal(t, c.Remaining, b.sim.Chunks()[i].Remaining)
	}
}

func BenchmarkDestroy(b *testing.B) {
	cfg := config.Default()
	inputs := make([]building.Input, 0, 1000)
	for i := 0; i < 1000; i++ {
		x := float64(i%40) * 30
		z := float64(i/40) * 30
		inputs = append(inputs, building.Input{Polygon: [][2]float64{{x, z}, {x + 20, z}, {x + 20, z + 15}, {x, z + 15}}, Height: 24})
	}
	reg := building.NewRegistry(1)
	reg.Register(inputs)
	world := physics.NewBasic(cfg.Physics)
	e := New(cfg.Destruction, Deps{
		Buildings: reg,
		World:     world,
		Spawner:   sim.New(cfg.Simulation, world, nil),
		Random:    random.New(1),
	})
	i := 0
	for b.Loop() {
		e.Destroy(i%1000, 0, 0)
		i++
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	var n Notifier = Multi{a, NopNotifier{}, b}
	n.OnBuildingDestroyed(3, "Depot")
	n.OnShakeRequested(0.5)
	n.OnFlash(time.Second)
	for _, r := range []*recorder{a, b} {
		assert.Equal(t, []int{3}, r.destroyed)
		assert.Equal(t, []float64{0.5}, r.shakes)
		assert.Equal(t, []time.Duration{time.Second}, r.flashes)
	}
}
