package osm2streets

// intersectionPair is an unordered pair of intersecting segments.
// Both values are indices in segments arena; first always refers to segment with lesser way ID
type intersectionPair struct {
	first  int
	second int
}

func newIntersectionPair(segments []*Segment, i, j int) intersectionPair {
	if segments[i].WayID < segments[j].WayID {
		return intersectionPair{first: i, second: j}
	}
	return intersectionPair{first: j, second: i}
}

// findIntersections returns every pair of segments which polylines share at least one point.
// Index must be built from the same segments slice
func findIntersections(segments []*Segment, index *spatialIndex) map[intersectionPair]struct{} {
	pairs := make(map[intersectionPair]struct{})
	for i, segment := range segments {
		index.search(segment.Bound, func(j int) {
			if i == j || segments[i].WayID == segments[j].WayID {
				return
			}
			pair := newIntersectionPair(segments, i, j)
			if _, ok := pairs[pair]; ok {
				return
			}
			if !segment.Intersects(segments[j]) {
				return
			}
			pairs[pair] = struct{}{}
		})
	}
	return pairs
}
