package osm2streets

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestFindIntersections(t *testing.T) {
	// Arena order differs from way IDs order on purpose
	segments := []*Segment{
		createSegment(t, 50, orb.Point{2, 0}, orb.Point{2, 3}),
		createSegment(t, 42, orb.Point{0, 1}, orb.Point{3, 1}),
		createSegment(t, 43, orb.Point{3, 1}, orb.Point{4, 4}),
		createSegment(t, 44, orb.Point{10, 10}, orb.Point{11, 11}),
		createSegment(t, 45, orb.Point{2, 2}),
	}
	pairs := findIntersections(segments, newSegmentsIndex(segments))

	expected := map[intersectionPair]struct{}{
		{first: 1, second: 0}: {},
		{first: 1, second: 2}: {},
	}
	assert.Equal(t, expected, pairs)

	for pair := range pairs {
		assert.NotEqual(t, pair.first, pair.second)
		assert.Less(t, int64(segments[pair.first].WayID), int64(segments[pair.second].WayID))
	}
}

func TestFindIntersectionsOverlappingBoxes(t *testing.T) {
	segments := []*Segment{
		createSegment(t, 42, orb.Point{1, 1}, orb.Point{3, 3}),
		createSegment(t, 43, orb.Point{2, 0}, orb.Point{3, 2}),
	}
	pairs := findIntersections(segments, newSegmentsIndex(segments))
	assert.Empty(t, pairs)
}

func TestNewIntersectionPair(t *testing.T) {
	segments := []*Segment{
		createSegment(t, 43, orb.Point{0, 0}, orb.Point{1, 1}),
		createSegment(t, 42, orb.Point{1, 1}, orb.Point{2, 2}),
	}
	assert.Equal(t, newIntersectionPair(segments, 0, 1), newIntersectionPair(segments, 1, 0))
	assert.Equal(t, intersectionPair{first: 1, second: 0}, newIntersectionPair(segments, 0, 1))
}
