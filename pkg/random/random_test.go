package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsReproducible(t *testing.T) {
	a, b := New(42), New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestRangeBounds(t *testing.T) {
	src := New(7)
	for i := 0; i < 1000; i++ {
		v := Range(src, 5, 15)
		assert.GreaterOrEqual(t, v, 5.0)
		assert.Less(t, v, 15.0)
	}
}

func TestScriptedCycles(t *testing.T) {
	s := &Scripted{Values: []float64{0.1, 0.9}}
	assert.Equal(t, 0.1, s.Float64())
	assert.Equal(t, 0.9, s.Float64())
	assert.Equal(t, 0.1, s.Float64())

	empty := &Scripted{}
	assert.Equal(t, 0.0, empty.Float64())
}

func TestChance(t *testing.T) {
	assert.True(t, Chance(Constant(0.2), 0.38))
	assert.False(t, Chance(Constant(0.5), 0.38))
	assert.InDelta(t, -1.0, Symmetric(Constant(0), 1), 1e-12)
}
