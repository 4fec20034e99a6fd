package osm2streets

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
)

// Node is a tagged point of the source data
type Node struct {
	ID     osm.NodeID
	Point  orb.Point
	TagMap osm.Tags
}

func nodeFromOSM(node *osm.Node) *Node {
	prepared := &Node{
		ID:     node.ID,
		Point:  node.Point(),
		TagMap: make(osm.Tags, len(node.Tags)),
	}
	copy(prepared.TagMap, node.Tags)
	return prepared
}
