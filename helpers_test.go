package osm2streets

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func addNode(data *OSMData, id osm.NodeID, lng, lat float64, tags ...osm.Tag) {
	data.AddNode(&Node{
		ID:     id,
		Point:  orb.Point{lng, lat},
		TagMap: osm.Tags(tags),
	})
}

func addWay(data *OSMData, id osm.WayID, name string, nodes ...osm.NodeID) {
	tags := osm.Tags{}
	if name != "" {
		tags = append(tags, osm.Tag{Key: "name", Value: name})
	}
	data.AddWay(&Way{
		ID:     id,
		Nodes:  nodes,
		TagMap: tags,
	})
}

func createSegment(t *testing.T, id osm.WayID, coordinates ...orb.Point) *Segment {
	t.Helper()
	segment, err := segmentFromLine(id, orb.LineString(coordinates))
	require.NoError(t, err)
	return segment
}

// streetsAsSets converts streets to comparable form: name -> list of way IDs sets
func streetsAsSets(streets []*Street) map[string][][]osm.WayID {
	result := make(map[string][][]osm.WayID)
	for _, street := range streets {
		result[street.Name] = append(result[street.Name], street.WayIDs())
	}
	return result
}

func loadSample(t *testing.T) *OSMData {
	t.Helper()
	data := NewOSMData()
	err := readOSM("./testdata/sample.osm", data, false)
	require.NoError(t, err)
	return data
}
