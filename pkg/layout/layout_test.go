package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/random"
)

func TestMaxHeightAt(t *testing.T) {
	rings := DefaultParams().Rings
	tests := []struct {
		dist float64
		want float64
	}{
		{0, 60},
		{80, 60},
		{90, 44},
		{120, 28},
		{180, 20},
		{240, 12},
		{500, 12},
	}
	for _, tt := range tests {
		if got := MaxHeightAt(tt.dist, rings); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("MaxHeightAt(%v) = %v, want %v", tt.dist, got, tt.want)
		}
	}
	if got := MaxHeightAt(10, nil); got != 0 {
		t.Errorf("no rings = %v, want 0", got)
	}
}

func TestRingAt(t *testing.T) {
	rings := DefaultParams().Rings
	tests := []struct {
		dist float64
		want int
	}{
		{0, 0},
		{90, 0},
		{95, 1},
		{150, 1},
		{185, 2},
		{1000, 2},
	}
	for _, tt := range tests {
		if got := RingAt(tt.dist, rings); got != tt.want {
			t.Errorf("RingAt(%v) = %d, want %d", tt.dist, got, tt.want)
		}
	}
}

func TestSubdivideIntoBlocks(t *testing.T) {
	p := DefaultParams()
	blocks := SubdivideIntoBlocks(p)
	assert.Len(t, blocks, 37)

	ids := map[string]bool{}
	for _, b := range blocks {
		assert.False(t, ids[b.ID], "duplicate block %s", b.ID)
		ids[b.ID] = true
		assert.LessOrEqual(t, b.AreaM2, p.BlockSize*p.BlockSize+1e-6)
		assert.Positive(t, b.AreaM2)
		assert.LessOrEqual(t, b.Polygon.MaxDistanceTo(geo.Origin), p.Radius+1e-6)
	}
	assert.True(t, ids["block_0_0"])

	byID := map[string]Block{}
	for _, b := range blocks {
		byID[b.ID] = b
	}
	assert.InDelta(t, p.BlockSize*p.BlockSize, byID["block_0_0"].AreaM2, 1e-6)
	assert.Less(t, byID["block_3_0"].AreaM2, p.BlockSize*p.BlockSize, "edge block should be trimmed")
}

func TestGenerate(t *testing.T) {
	p := DefaultParams()
	city, report := Generate(p, random.New(7))
	require.True(t, report.Valid, "errors: %v", report.Errors)
	require.NotNil(t, city)
	require.NotEmpty(t, city.Buildings)
	assert.Len(t, city.Buildings, len(city.Lots))

	inputs := building.ValidateInputs(city.Buildings, 0)
	assert.Empty(t, inputs.Warnings, "generated footprints must register cleanly")

	landmarkBlocks := map[string]bool{}
	for i, in := range city.Buildings {
		lot := city.Lots[i]
		assert.GreaterOrEqual(t, in.Height, p.MinHeight)
		if in.Landmark {
			assert.NotEmpty(t, in.Name)
			assert.False(t, landmarkBlocks[lot.Block], "two landmarks on %s", lot.Block)
			landmarkBlocks[lot.Block] = true
			continue
		}
		envelope := MaxHeightAt(lot.Distance, p.Rings)
		assert.LessOrEqual(t, in.Height, math.Max(p.MinHeight, envelope)+1e-9)
		assert.Contains(t, p.Rings[lot.Ring].Styles, building.Style(in.Style))
	}
	assert.Len(t, landmarkBlocks, p.Landmarks)
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := Generate(DefaultParams(), random.New(42))
	b, _ := Generate(DefaultParams(), random.New(42))
	c, _ := Generate(DefaultParams(), random.New(43))
	assert.Equal(t, a.Buildings, b.Buildings)
	assert.NotEqual(t, a.Buildings, c.Buildings)
}

func TestGenerateTooManyLandmarks(t *testing.T) {
	p := DefaultParams()
	p.Radius = 10
	p.Landmarks = 3
	city, report := Generate(p, random.New(1))
	require.NotNil(t, city)
	assert.True(t, report.Valid)
	require.Len(t, report.Warnings, 1)
	assert.Equal(t, "layout.landmarks", report.Warnings[0].Path)
}

func TestGenerateInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		path   string
	}{
		{"radius", func(p *Params) { p.Radius = 0 }, "layout.radius"},
		{"lots", func(p *Params) { p.LotsPerBlock = 0 }, "layout.lots_per_block"},
		{"inset", func(p *Params) { p.Inset = 1.5 }, "layout.inset"},
		{"no rings", func(p *Params) { p.Rings = nil }, "layout.rings"},
		{"overlap", func(p *Params) { p.Rings[1].RadiusFrom = 50 }, "layout.rings[1].radius_from"},
		{"no styles", func(p *Params) { p.Rings[2].Styles = nil }, "layout.rings[2].styles"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			city, report := Generate(p, random.New(1))
			assert.Nil(t, city)
			require.False(t, report.Valid)
			assert.Equal(t, tt.path, report.Errors[0].Path)
		})
	}
}

func BenchmarkGenerate(b *testing.B) {
	p := DefaultParams()
	for b.Loop() {
		Generate(p, random.New(1))
	}
}
