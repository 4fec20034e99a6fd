package osm2streets

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/peterstace/simplefeatures/geom"
	"github.com/pkg/errors"
)

var errEmptyGeometry = errors.New("cannot get bounding box for empty set of coordinates")

// Segment is a geometry of single way. Segments are equal if they are built from the same way
type Segment struct {
	WayID osm.WayID
	Line  orb.LineString
	Bound orb.Bound

	// geometry is Line for exact intersection tests. Empty for single-point segments
	geometry geom.Geometry
}

// newSegment builds polyline for given way in order of way's nodes.
// Unresolved node references are skipped; the way with no resolved nodes at all is an error
func newSegment(way *Way, objects ObjectStore) (*Segment, error) {
	line := make(orb.LineString, 0, len(way.Nodes))
	for _, nodeID := range way.Nodes {
		node, ok := objects.Node(nodeID)
		if !ok {
			continue
		}
		line = append(line, node.Point)
	}
	segment, err := segmentFromLine(way.ID, line)
	if err != nil {
		return nil, errors.Wrapf(err, "Way ID: '%d'", way.ID)
	}
	return segment, nil
}

func segmentFromLine(wayID osm.WayID, line orb.LineString) (*Segment, error) {
	bound, err := lineBound(line)
	if err != nil {
		return nil, err
	}
	return &Segment{
		WayID:    wayID,
		Line:     line,
		Bound:    bound,
		geometry: lineGeometry(line),
	}, nil
}

// lineGeometry converts line for geom predicates. Line of repeated single position collapses to a point
func lineGeometry(line orb.LineString) geom.Geometry {
	if len(line) < 2 {
		return geom.Geometry{}
	}
	coordinates := make([]float64, 0, 2*len(line))
	for _, pt := range line {
		coordinates = append(coordinates, pt.X(), pt.Y())
	}
	ls, err := geom.NewLineString(geom.NewSequence(coordinates, geom.DimXY))
	if err != nil {
		return geom.NewPointFromXY(geom.XY{X: line[0].X(), Y: line[0].Y()}).AsGeometry()
	}
	return ls.AsGeometry()
}

// lineBound returns minimal axis-aligned rectangle covering all points of line
func lineBound(line orb.LineString) (orb.Bound, error) {
	if len(line) == 0 {
		return orb.Bound{}, errEmptyGeometry
	}
	return line.Bound(), nil
}

// Len returns number of points in segment
func (segment *Segment) Len() int {
	return len(segment.Line)
}

// Exportable checks if segment has enough points to be drawn as a line
func (segment *Segment) Exportable() bool {
	return len(segment.Line) >= 2
}

// Intersects checks if polylines of segments share at least one point (crossing or touching).
// Segments with less than two points never intersect anything
func (segment *Segment) Intersects(other *Segment) bool {
	if !segment.Exportable() || !other.Exportable() {
		return false
	}
	return geom.Intersects(segment.geometry, other.geometry)
}
