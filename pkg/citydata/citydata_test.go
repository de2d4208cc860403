package citydata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IrdiZ/kaiju/pkg/building"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := &File{
		Name: "harbor",
		Buildings: []building.Input{
			{Polygon: [][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}}, Height: 12, Style: "residential"},
			{Polygon: [][2]float64{{20, 0}, {40, 0}, {30, 15}}, Height: 30, Style: "church", Landmark: true, Name: "St. Mary"},
		},
	}
	require.NoError(t, Save(filepath.Join(dir, DefaultFile), want))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseYAML(t *testing.T) {
	f, err := ParseYAML([]byte(`
name: tiny
buildings:
  - polygon: [[0, 0], [4, 0], [4, 4]]
    height: 6
    style: industrial
`))
	require.NoError(t, err)
	require.Len(t, f.Buildings, 1)
	assert.Equal(t, "industrial", f.Buildings[0].Style)
	assert.False(t, f.Buildings[0].Landmark)

	_, err = ParseYAML([]byte("buildings: {"))
	assert.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	csv := filepath.Join(dir, "city.csv")
	require.NoError(t, os.WriteFile(csv, []byte("x,z\n"), 0o644))
	_, err = Load(csv)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

const planarCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"height": 18, "style": "commercial"},
      "geometry": {"type": "Polygon", "coordinates": [[[0,0],[20,0],[20,10],[0,10],[0,0]]]}
    },
    {
      "type": "Feature",
      "properties": {"building:levels": 5, "landmark": true, "name": "Twin Halls", "style": "civic"},
      "geometry": {"type": "MultiPolygon", "coordinates": [
        [[[40,0],[50,0],[50,10],[40,10],[40,0]]],
        [[[60,0],[70,0],[70,10],[60,10],[60,0]]]
      ]}
    },
    {
      "type": "Feature",
      "properties": {"name": "fountain"},
      "geometry": {"type": "Point", "coordinates": [5, 5]}
    }
  ]
}`

func TestParseGeoJSONPlanar(t *testing.T) {
	f, err := ParseGeoJSON([]byte(planarCollection))
	require.NoError(t, err)
	require.Len(t, f.Buildings, 3)
	assert.Equal(t, 1, f.Skipped)

	first := f.Buildings[0]
	assert.Equal(t, [][2]float64{{0, 0}, {20, 0}, {20, 10}, {0, 10}}, first.Polygon)
	assert.Equal(t, 18.0, first.Height)
	assert.Equal(t, "commercial", first.Style)

	for _, in := range f.Buildings[1:] {
		assert.True(t, in.Landmark)
		assert.Equal(t, "Twin Halls", in.Name)
		assert.InDelta(t, 16, in.Height, 1e-9)
		assert.Len(t, in.Polygon, 4)
	}
	assert.Equal(t, [2]float64{60, 0}, f.Buildings[2].Polygon[0])
}

func TestParseGeoJSONGeographic(t *testing.T) {
	f, err := ParseGeoJSON([]byte(`{
  "type": "FeatureCollection",
  "features": [{
    "type": "Feature",
    "properties": {"height": 10},
    "geometry": {"type": "Polygon", "coordinates": [[[0,0],[0.001,0],[0.001,0.001],[0,0.001],[0,0]]]}
  }]
}`))
	require.NoError(t, err)
	require.Len(t, f.Buildings, 1)

	poly := f.Buildings[0].Polygon
	width := poly[1][0] - poly[0][0]
	depth := poly[2][1] - poly[1][1]
	// 0.001 degrees is about 111 m near the equator.
	assert.InDelta(t, 111.2, width, 0.5)
	assert.InDelta(t, 111.2, depth, 0.5)
	assert.InDelta(t, -55.6, poly[0][0], 0.5, "centered on the collection")
}

func TestLoadGeoJSONByExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.geojson")
	require.NoError(t, os.WriteFile(path, []byte(planarCollection), 0o644))
	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Buildings, 3)

	_, err = ParseGeoJSON([]byte(`{"type": "Feature"`))
	assert.Error(t, err)
}
