package osm2streets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reconstruct(t *testing.T, data ObjectStore, options ...func(*StreetsOptions)) []*Street {
	t.Helper()
	streets, err := ReconstructStreets(data, options...)
	require.NoError(t, err)
	return streets
}

func TestStreetsChain(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 13, 52)
	addNode(data, 2, 14, 52)
	addNode(data, 3, 14, 53)
	addNode(data, 4, 15, 53)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 41, "street a", 2, 3)
	addWay(data, 43, "street a", 3, 4)

	streets := reconstruct(t, data)
	require.Len(t, streets, 1)
	assert.Equal(t, "street a", streets[0].Name)
	assert.Equal(t, []osm.WayID{41, 42, 43}, streets[0].WayIDs())
	assert.EqualValues(t, 41, streets[0].ID())
}

func TestStreetsNotTouching(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 13, 52)
	addNode(data, 2, 14, 52)
	addNode(data, 3, 20, 50)
	addNode(data, 4, 21, 50)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 43, "street a", 3, 4)

	streets := reconstruct(t, data)
	want := map[string][][]osm.WayID{
		"street a": {{42}, {43}},
	}
	if diff := cmp.Diff(want, streetsAsSets(streets)); diff != "" {
		t.Errorf("streets mismatch (-want +got):\n%s", diff)
	}
}

func TestStreetsCrossing(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 0, 1)
	addNode(data, 2, 3, 1)
	addNode(data, 3, 2, 0)
	addNode(data, 4, 2, 3)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 43, "street a", 3, 4)

	streets := reconstruct(t, data)
	require.Len(t, streets, 1)
	assert.Equal(t, []osm.WayID{42, 43}, streets[0].WayIDs())
}

func TestStreetsTouching(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 0, 1)
	addNode(data, 2, 3, 1)
	addNode(data, 3, 2, 3)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 43, "street a", 2, 3)

	streets := reconstruct(t, data)
	require.Len(t, streets, 1)
	assert.Equal(t, []osm.WayID{42, 43}, streets[0].WayIDs())
}

func TestStreetsDistinctNamesOverlapping(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 13, 52)
	addNode(data, 2, 14, 52)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 43, "street b", 1, 2)

	streets := reconstruct(t, data)
	want := map[string][][]osm.WayID{
		"street a": {{42}},
		"street b": {{43}},
	}
	if diff := cmp.Diff(want, streetsAsSets(streets)); diff != "" {
		t.Errorf("streets mismatch (-want +got):\n%s", diff)
	}
}

func TestStreetsConnectedDistinctNames(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 13, 52)
	addNode(data, 2, 14, 52)
	addNode(data, 3, 14, 53)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 41, "street b", 2, 3)

	streets := reconstruct(t, data)
	require.Len(t, streets, 2)
	assert.Equal(t, "street a", streets[0].Name)
	assert.Equal(t, "street b", streets[1].Name)
}

func TestStreetsSkippedWays(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 13, 52)
	addNode(data, 2, 14, 52)
	addWay(data, 42, "street a", 1, 2)
	// Unnamed
	addWay(data, 43, "", 1, 2)
	// No resolvable nodes at all
	addWay(data, 44, "street b", 998, 999)
	// Single resolvable node
	addWay(data, 45, "street c", 999, 2)

	streets := reconstruct(t, data)
	want := map[string][][]osm.WayID{
		"street a": {{42}},
		"street c": {{45}},
	}
	if diff := cmp.Diff(want, streetsAsSets(streets)); diff != "" {
		t.Errorf("streets mismatch (-want +got):\n%s", diff)
	}
	// Single point segment has nothing to draw
	assert.Empty(t, streets[1].MultiLineString())
}

func TestStreetsWithName(t *testing.T) {
	data := NewOSMData()
	addNode(data, 1, 13, 52)
	addNode(data, 2, 14, 52)
	addWay(data, 42, "street a", 1, 2)
	addWay(data, 43, "street b", 1, 2)

	streets := reconstruct(t, data, WithStreetName("street b"), WithWorkers(1))
	require.Len(t, streets, 1)
	assert.Equal(t, "street b", streets[0].Name)

	streets = reconstruct(t, data, WithStreetName("street z"))
	assert.Empty(t, streets)
}

func TestStreetsEmpty(t *testing.T) {
	streets := reconstruct(t, NewOSMData())
	assert.NotNil(t, streets)
	assert.Empty(t, streets)
}

func TestStreetsSample(t *testing.T) {
	data := loadSample(t)

	first := reconstruct(t, data)
	want := map[string][][]osm.WayID{
		"street a": {{41, 42, 43}, {44}},
		"street b": {{45}},
		"street c": {{47}},
	}
	if diff := cmp.Diff(want, streetsAsSets(first)); diff != "" {
		t.Errorf("streets mismatch (-want +got):\n%s", diff)
	}

	// Every surviving segment belongs to exactly one street of its name
	seen := make(map[osm.WayID]string)
	for _, street := range first {
		for _, segment := range street.Segments {
			_, ok := seen[segment.WayID]
			assert.False(t, ok, "way %d appears twice", segment.WayID)
			seen[segment.WayID] = street.Name
			way, ok := data.Way(segment.WayID)
			require.True(t, ok)
			assert.Equal(t, street.Name, way.Name())
		}
	}

	second := reconstruct(t, data, WithWorkers(1))
	if diff := cmp.Diff(streetsAsSets(first), streetsAsSets(second)); diff != "" {
		t.Errorf("repeated reconstruction differs (-first +second):\n%s", diff)
	}
}

func TestStreetGeometry(t *testing.T) {
	street := &Street{
		Name: "street a",
		Segments: []*Segment{
			createSegment(t, 43, orb.Point{0, 0}, orb.Point{0, 1}),
			createSegment(t, 42, orb.Point{0, 1}, orb.Point{0, 2}),
			createSegment(t, 44, orb.Point{0, 2}),
		},
	}
	assert.EqualValues(t, 42, street.ID())
	assert.Equal(t, []osm.WayID{42, 43, 44}, street.WayIDs())
	assert.Equal(t, orb.MultiLineString{
		{{0, 0}, {0, 1}},
		{{0, 1}, {0, 2}},
	}, street.MultiLineString())
	// One degree of latitude
	assert.InDelta(t, 222.39, street.LengthKilometers(), 0.01)
	centroid := street.Centroid()
	assert.InDelta(t, 0.0, centroid.Lon(), 1e-9)
	assert.InDelta(t, 1.2, centroid.Lat(), 1e-2)
}

func TestStreetsWorkers(t *testing.T) {
	data := loadSample(t)
	want := streetsAsSets(reconstruct(t, data, WithWorkers(1)))
	// Non-positive number of workers falls back to a single one
	for _, workers := range []int{-1, 0, 2, 16} {
		got := streetsAsSets(reconstruct(t, data, WithWorkers(workers)))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers %d: streets mismatch (-want +got):\n%s", workers, diff)
		}
	}
}
