package osm2streets

import (
	"github.com/paulmach/orb/encoding/wkt"
)

// PrepareWKTStreet returns WKT MultiLineString of street. Empty string for street with nothing to draw
func PrepareWKTStreet(street *Street) string {
	lines := street.MultiLineString()
	if len(lines) == 0 {
		return ""
	}
	return wkt.MarshalString(lines)
}

// PrepareWKTBoundary returns WKT MultiPolygon of boundary
func PrepareWKTBoundary(boundary *Boundary) string {
	return wkt.MarshalString(boundary.Geometry)
}
