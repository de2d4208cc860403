package citydata

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/IrdiZ/kaiju/pkg/building"
)

// levelHeight converts an OSM-style building:levels count to meters.
const levelHeight = 3.2

// earthRadius is the mean radius used for the local tangent-plane projection.
const earthRadius = 6_371_008.8

// ParseGeoJSON converts a feature collection. Polygon features become one
// building each; a MultiPolygon becomes one building per member sharing the
// feature's properties. Only the outer ring is used.
//
// Recognized properties: height (meters), building:levels, style, landmark,
// name. Coordinates that all fall inside longitude/latitude range are
// projected to meters around the collection's center; anything else is taken
// as planar meters.
func ParseGeoJSON(data []byte) (*File, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing city GeoJSON: %w", err)
	}

	project := planar
	if bound, ok := collectionBound(fc); ok && geographic(bound) {
		project = tangentPlane(bound.Center())
	}

	f := &File{}
	for _, feat := range fc.Features {
		var polys []orb.Polygon
		switch g := feat.Geometry.(type) {
		case orb.Polygon:
			polys = append(polys, g)
		case orb.MultiPolygon:
			polys = append(polys, g...)
		default:
			f.Skipped++
			continue
		}
		for _, p := range polys {
			if len(p) == 0 {
				f.Skipped++
				continue
			}
			in := inputFromProperties(feat.Properties)
			in.Polygon = ringPairs(p[0], project)
			f.Buildings = append(f.Buildings, in)
		}
	}
	return f, nil
}

func inputFromProperties(props geojson.Properties) building.Input {
	height := props.MustFloat64("height", 0)
	if height <= 0 {
		height = props.MustFloat64("building:levels", 0) * levelHeight
	}
	return building.Input{
		Height:   height,
		Style:    props.MustString("style", ""),
		Landmark: props.MustBool("landmark", false),
		Name:     props.MustString("name", ""),
	}
}

// ringPairs drops the closing vertex GeoJSON repeats.
func ringPairs(r orb.Ring, project func(orb.Point) [2]float64) [][2]float64 {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	out := make([][2]float64, n)
	for i := 0; i < n; i++ {
		out[i] = project(r[i])
	}
	return out
}

func collectionBound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var b orb.Bound
	found := false
	for _, feat := range fc.Features {
		if feat.Geometry == nil {
			continue
		}
		if !found {
			b, found = feat.Geometry.Bound(), true
			continue
		}
		b = b.Union(feat.Geometry.Bound())
	}
	return b, found
}

func geographic(b orb.Bound) bool {
	return b.Min.Lon() >= -180 && b.Max.Lon() <= 180 &&
		b.Min.Lat() >= -90 && b.Max.Lat() <= 90 &&
		b.Max.Lon()-b.Min.Lon() < 1 && b.Max.Lat()-b.Min.Lat() < 1
}

func planar(p orb.Point) [2]float64 { return [2]float64{p.X(), p.Y()} }

// tangentPlane maps lon/lat to east/north meters around origin.
func tangentPlane(origin orb.Point) func(orb.Point) [2]float64 {
	rad := math.Pi / 180
	cosLat := math.Cos(origin.Lat() * rad)
	return func(p orb.Point) [2]float64 {
		return [2]float64{
			(p.Lon() - origin.Lon()) * rad * earthRadius * cosLat,
			(p.Lat() - origin.Lat()) * rad * earthRadius,
		}
	}
}
