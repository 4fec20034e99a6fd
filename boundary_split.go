package osm2streets

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// SplitStreetsByBoundaries partitions segments of every street by boundary which contains segment's middle point.
// If several boundaries contain the point, the one with the least relation ID wins.
// Segments outside of all boundaries stay together in a street without boundary
func SplitStreetsByBoundaries(streets []*Street, boundaries []*Boundary) []*Street {
	if len(boundaries) == 0 {
		return streets
	}
	sorted := make([]*Boundary, len(boundaries))
	copy(sorted, boundaries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	bounds := make([]orb.Bound, len(sorted))
	for i, boundary := range sorted {
		bounds[i] = boundary.Geometry.Bound()
	}
	index := newSpatialIndex(bounds)

	result := make([]*Street, 0, len(streets))
	for _, street := range streets {
		groups := make(map[int][]*Segment)
		for _, segment := range street.Segments {
			_, middle := findMiddlePoint(segment.Line)
			found := -1
			index.search(orb.Bound{Min: middle, Max: middle}, func(i int) {
				if found != -1 && found < i {
					return
				}
				if planar.MultiPolygonContains(sorted[i].Geometry, middle) {
					found = i
				}
			})
			groups[found] = append(groups[found], segment)
		}
		keys := make([]int, 0, len(groups))
		for key := range groups {
			keys = append(keys, key)
		}
		sort.Ints(keys)
		for _, key := range keys {
			part := &Street{
				Name:     street.Name,
				Segments: groups[key],
			}
			if key != -1 {
				part.Boundary = sorted[key]
			}
			result = append(result, part)
		}
	}
	sortStreets(result)
	return result
}
