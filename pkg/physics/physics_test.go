package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrdiZ/kaiju/pkg/config"
)

func newWorld() *Basic {
	return NewBasic(config.Default().Physics)
}

func unitBox(pos mgl64.Vec3) BodyDesc {
	return BodyDesc{HalfExtents: mgl64.Vec3{1, 1, 1}, Mass: 10, Position: pos}
}

func TestHandlesAreUniqueAndRemovable(t *testing.T) {
	w := newWorld()
	a := w.Add(unitBox(mgl64.Vec3{0, 5, 0}))
	b := w.Add(unitBox(mgl64.Vec3{3, 5, 0}))
	assert.NotZero(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, w.Len())

	assert.True(t, w.Remove(a))
	assert.False(t, w.Remove(a))
	_, ok := w.State(a)
	assert.False(t, ok)
	assert.Equal(t, 1, w.Len())

	c := w.Add(unitBox(mgl64.Vec3{}))
	assert.Greater(t, uint64(c), uint64(b), "handles are never reused")
}

func TestFreeFall(t *testing.T) {
	w := newWorld()
	h := w.Add(unitBox(mgl64.Vec3{0, 100, 0}))
	w.Step(0.1)
	s, ok := w.State(h)
	require.True(t, ok)
	assert.InDelta(t, -0.982, s.Velocity.Y(), 1e-9)
	assert.InDelta(t, 100-0.0982, s.Position.Y(), 1e-9)
	assert.False(t, s.Grounded)
}

func TestComesToRestOnGround(t *testing.T) {
	w := newWorld()
	desc := unitBox(mgl64.Vec3{0, 10, 0})
	desc.Velocity = mgl64.Vec3{20, 0, 0}
	h := w.Add(desc)
	for i := 0; i < 600; i++ {
		w.Step(1.0 / 60)
	}
	s, _ := w.State(h)
	assert.True(t, s.Grounded)
	assert.InDelta(t, 1, s.Position.Y(), 1e-6)
	assert.Less(t, math.Abs(s.Velocity.X()), 1e-6)
}

func TestDampingLaw(t *testing.T) {
	assert.Equal(t, 1.0, dampFactor(0, 0.5))
	assert.Equal(t, 0.0, dampFactor(1, 0.5))
	assert.InDelta(t, math.Sqrt(0.7), dampFactor(0.3, 0.5), 1e-12)

	w := NewBasic(config.PhysicsConfig{})
	desc := unitBox(mgl64.Vec3{0, 50, 0})
	desc.Velocity = mgl64.Vec3{10, 0, 0}
	desc.LinearDamping = 0.3
	h := w.Add(desc)
	w.Step(1)
	s, _ := w.State(h)
	assert.InDelta(t, 7, s.Velocity.X(), 1e-9)
}

func TestOrientationStaysUnit(t *testing.T) {
	w := newWorld()
	desc := unitBox(mgl64.Vec3{0, 1000, 0})
	desc.AngularVelocity = mgl64.Vec3{5, -3, 4}
	h := w.Add(desc)
	for i := 0; i < 100; i++ {
		w.Step(0.05)
	}
	s, _ := w.State(h)
	assert.InDelta(t, 1, s.Orientation.Len(), 1e-9)
}

func TestLowestExtent(t *testing.T) {
	half := mgl64.Vec3{2, 1, 3}
	assert.InDelta(t, 1, lowestExtent(mgl64.QuatIdent(), half), 1e-12)
	tilted := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, 2, lowestExtent(tilted, half), 1e-9)
}

func BenchmarkStep(b *testing.B) {
	w := newWorld()
	for i := 0; i < 400; i++ {
		desc := unitBox(mgl64.Vec3{float64(i), 20, 0})
		desc.AngularVelocity = mgl64.Vec3{1, 2, 3}
		w.Add(desc)
	}
	for b.Loop() {
		w.Step(1.0 / 60)
	}
}
