package game

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/interaction"
)

// block is a 2x2 footprint centered on (x, z).
func block(x, z float64, style string) building.Input {
	return building.Input{
		Polygon: [][2]float64{{x - 1, z - 1}, {x + 1, z - 1}, {x + 1, z + 1}, {x - 1, z + 1}},
		Height:  10,
		Style:   style,
	}
}

func newWorld(t *testing.T, inputs ...building.Input) *World {
	t.Helper()
	quiet, _ := test.NewNullLogger()
	w, err := NewWorld(config.Default(), inputs, Options{Log: quiet})
	require.NoError(t, err)
	return w
}

const frame = 1.0 / 60

func TestMeleeCooldown(t *testing.T) {
	w := newWorld(t, block(0, 10, ""), block(0, -10, ""))
	d := w.Driver

	f := d.Tick(Input{Yaw: 0, Melee: true}, frame)
	require.Len(t, f.Hits, 1)
	assert.Equal(t, interaction.ActionMelee, f.Hits[0].Action)
	assert.Equal(t, 0, f.Hits[0].Event.Building)

	// Turn around and strike again inside the cooldown window.
	for i := 0; i < 6; i++ {
		f = d.Tick(Input{Yaw: math.Pi, Melee: true}, frame)
		assert.True(t, f.MeleeBlocked)
		assert.Empty(t, f.Hits)
	}
	flashes, _ := w.Tally.Flashes()
	assert.Equal(t, 1, flashes, "a blocked strike must not flash")
	assert.Equal(t, 1, w.Registry.DestroyedCount())

	// Past the cooldown the strike lands.
	for i := 0; i < 20; i++ {
		d.Tick(Input{Yaw: math.Pi}, frame)
	}
	f = d.Tick(Input{Yaw: math.Pi, Melee: true}, frame)
	require.Len(t, f.Hits, 1)
	assert.Equal(t, 1, f.Hits[0].Event.Building)
}

func TestAmbientWalkThrough(t *testing.T) {
	w := newWorld(t, block(10, 0, ""), block(40, 0, ""))
	d := w.Driver

	f := d.Tick(Input{Position: geo.Pt(0, 0)}, frame)
	assert.Empty(t, f.Hits)

	f = d.Tick(Input{Position: geo.Pt(5, 0)}, frame)
	require.Len(t, f.Hits, 1)
	assert.Equal(t, interaction.ActionAmbient, f.Hits[0].Action)
	assert.True(t, w.Registry.IsDestroyed(0))
	assert.False(t, w.Batches.Standing(0), "standing geometry and destroyed flag are exclusive")
	assert.Equal(t, f.Hits[0].Event.Chunks, f.Chunks)

	f = d.Tick(Input{Position: geo.Pt(5, 0)}, frame)
	assert.Empty(t, f.Hits, "a destroyed building is never hit twice")
}

func TestStomp(t *testing.T) {
	w := newWorld(t, block(20, 0, ""), block(0, -24, ""), block(0, 30, ""))
	d := w.Driver

	f := d.Tick(Input{Stomp: true}, frame)
	require.Len(t, f.Hits, 2)
	for _, h := range f.Hits {
		assert.Equal(t, interaction.ActionStomp, h.Action)
	}
	assert.False(t, w.Registry.IsDestroyed(2))

	f = d.Tick(Input{Position: geo.Pt(0, 6), Stomp: true}, frame)
	assert.True(t, f.StompBlocked)
	assert.False(t, w.Registry.IsDestroyed(2))
}

func TestTickClampsDelta(t *testing.T) {
	w := newWorld(t, block(100, 100, ""))
	f := w.Driver.Tick(Input{}, 2)
	assert.Equal(t, 0.05, f.Dt)
	assert.Equal(t, 0.05, f.Time)

	f = w.Driver.Tick(Input{}, math.NaN())
	assert.Equal(t, 0.0, f.Dt)
	assert.Equal(t, uint64(2), f.Tick)
}

func TestChaseCamera(t *testing.T) {
	c := NewChaseCamera(config.Default().Camera)
	cam := c.Follow(geo.Pt(0, 0), 0, frame)
	assert.InDelta(t, 0, cam.Eye.X(), 1e-9)
	assert.InDelta(t, 30, cam.Eye.Y(), 1e-9)
	assert.InDelta(t, -40, cam.Eye.Z(), 1e-9)
	assert.Equal(t, 0.0, cam.Target.Y())

	cam = c.Follow(geo.Pt(10, 10), math.Pi/2, frame)
	assert.InDelta(t, -30, cam.Eye.X(), 1e-9)
	assert.InDelta(t, 10, cam.Eye.Z(), 1e-9)

	c.Shake(0.8)
	c.Shake(0.5)
	cam = c.Follow(geo.Pt(10, 10), math.Pi/2, 0.1)
	assert.InDelta(t, 0.6, cam.Shake, 1e-9)

	v := cam.View()
	eyeInView := v.Mul4x1(cam.Eye.Vec4(1))
	assert.InDelta(t, 0, eyeInView.Vec3().Len(), 1e-9)
}

func TestChaseCameraSmoothing(t *testing.T) {
	cfg := config.Default().Camera
	cfg.Smoothing = 0.5
	c := NewChaseCamera(cfg)
	c.Follow(geo.Pt(0, 0), 0, frame)
	cam := c.Follow(geo.Pt(100, 0), 0, frame)
	assert.Greater(t, cam.Eye.X(), 0.0)
	assert.Less(t, cam.Eye.X(), 100.0)
}

func TestScriptRunner(t *testing.T) {
	r := Script{
		Waypoints:   []geo.Point2D{geo.Pt(0, 0), geo.Pt(10, 0)},
		Speed:       5,
		StrikeEvery: 2,
	}.Runner()

	in, ok := r.Next(1)
	require.True(t, ok)
	assert.InDelta(t, 5, in.Position.X, 1e-9)
	assert.InDelta(t, math.Pi/2, in.Yaw, 1e-9)
	assert.False(t, in.Melee)

	in, ok = r.Next(1)
	require.True(t, ok)
	assert.InDelta(t, 10, in.Position.X, 1e-9)
	assert.True(t, in.Melee)

	_, ok = r.Next(1)
	assert.False(t, ok)
	assert.True(t, r.Done())
}

func TestScriptLoops(t *testing.T) {
	r := Script{
		Waypoints: []geo.Point2D{geo.Pt(0, 0), geo.Pt(4, 0)},
		Speed:     2,
		Loop:      true,
	}.Runner()
	var in Input
	for i := 0; i < 3; i++ {
		in, _ = r.Next(1)
	}
	// 6 units walked: out 4 and 2 back.
	assert.InDelta(t, 2, in.Position.X, 1e-9)
	assert.False(t, r.Done())
}

func TestEmptyScript(t *testing.T) {
	_, ok := Script{}.Runner().Next(1)
	assert.False(t, ok)
}

func TestTallyDamage(t *testing.T) {
	in := block(0, 10, "church")
	in.Landmark = true
	in.Name = "Old Chapel"
	w := newWorld(t, in, block(0, -3, ""))

	w.Driver.Tick(Input{Position: geo.Pt(0, 0), Melee: true}, frame)
	assert.Equal(t, 2, w.Tally.Destroyed())
	assert.Equal(t, []string{"Old Chapel"}, w.Tally.Landmarks())
	assert.Greater(t, w.Tally.Score(), int64(0))
	assert.Greater(t, w.Tally.LastShake(), 0.3)
	assert.Len(t, w.Tally.Damage().Items, 2)
}

func TestNewWorldRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.MaxChunks = 0
	_, err := NewWorld(cfg, nil, Options{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunScriptIsReproducible(t *testing.T) {
	var inputs []building.Input
	for i := 0; i < 10; i++ {
		inputs = append(inputs, block(float64(i)*12, 6, "commercial"))
	}
	script := Script{
		Waypoints:   []geo.Point2D{geo.Pt(-10, 0), geo.Pt(130, 0)},
		Speed:       20,
		StrikeEvery: 0.5,
		StompEvery:  2,
	}
	run := func() Summary {
		w := newWorld(t, inputs...)
		_, err := w.RunScript(script, frame, 2000)
		require.NoError(t, err)
		return w.Summary()
	}
	a, b := run(), run()
	assert.Equal(t, 10, a.Destroyed)
	assert.Zero(t, a.Standing)
	assert.Equal(t, a.Destroyed, b.Destroyed)
	assert.Equal(t, a.Simulation, b.Simulation)
	assert.Equal(t, a.Damage.Total, b.Damage.Total)
	assert.NotEqual(t, a.Session, b.Session)
}

func BenchmarkTick(b *testing.B) {
	var inputs []building.Input
	for i := 0; i < 40; i++ {
		for j := 0; j < 40; j++ {
			inputs = append(inputs, block(float64(i)*15, float64(j)*15, "residential"))
		}
	}
	w, err := NewWorld(config.Default(), inputs, Options{})
	if err != nil {
		b.Fatal(err)
	}
	for b.Loop() {
		w.Driver.Tick(Input{Position: geo.Pt(300, 300), Yaw: 1}, frame)
	}
}
