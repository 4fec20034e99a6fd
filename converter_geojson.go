package osm2streets

import (
	"fmt"
	"math/rand"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

func lineToCoordinates(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].Lon(), line[i].Lat()}
	}
	return pts2d
}

func ringToCoordinates(ring orb.Ring) [][]float64 {
	return lineToCoordinates(orb.LineString(ring))
}

// randomColor returns random color in `#RRGGBB` format. It is used for `stroke` property only
func randomColor() string {
	return fmt.Sprintf("#%02X%02X%02X", rand.Intn(256), rand.Intn(256), rand.Intn(256))
}

// PrepareGeoJSONStreet returns GeoJSON MultiLineString feature for given street.
// Returns nil if street has no segments with two or more points
func PrepareGeoJSONStreet(street *Street) *geojson.Feature {
	lines := street.MultiLineString()
	if len(lines) == 0 {
		return nil
	}
	coordinates := make([][][]float64, len(lines))
	for i, line := range lines {
		coordinates[i] = lineToCoordinates(line)
	}
	feature := geojson.NewMultiLineStringFeature(coordinates...)
	feature.SetProperty("name", street.Name)
	feature.SetProperty("stroke", randomColor())
	if street.Boundary != nil {
		feature.SetProperty("boundary", street.Boundary.Name)
	}
	return feature
}

// StreetsToGeoJSON returns GeoJSON FeatureCollection for given streets
func StreetsToGeoJSON(streets []*Street) ([]byte, error) {
	collection := geojson.NewFeatureCollection()
	for _, street := range streets {
		feature := PrepareGeoJSONStreet(street)
		if feature == nil {
			continue
		}
		collection.AddFeature(feature)
	}
	b, err := collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal streets")
	}
	return b, nil
}

// PrepareGeoJSONBoundary returns GeoJSON MultiPolygon feature for given boundary
func PrepareGeoJSONBoundary(boundary *Boundary) *geojson.Feature {
	polygons := make([][][][]float64, len(boundary.Geometry))
	for i, polygon := range boundary.Geometry {
		rings := make([][][]float64, len(polygon))
		for j, ring := range polygon {
			rings[j] = ringToCoordinates(ring)
		}
		polygons[i] = rings
	}
	feature := geojson.NewMultiPolygonFeature(polygons...)
	feature.SetProperty("name", boundary.Name)
	feature.SetProperty("admin_level", boundary.AdminLevel)
	return feature
}

// BoundariesToGeoJSON returns GeoJSON FeatureCollection for given boundaries
func BoundariesToGeoJSON(boundaries []*Boundary) ([]byte, error) {
	collection := geojson.NewFeatureCollection()
	for _, boundary := range boundaries {
		collection.AddFeature(PrepareGeoJSONBoundary(boundary))
	}
	b, err := collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal boundaries")
	}
	return b, nil
}
