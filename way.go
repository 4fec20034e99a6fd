package osm2streets

import (
	"github.com/paulmach/osm"
)

// Way is an ordered list of node references plus tags
type Way struct {
	ID     osm.WayID
	Nodes  []osm.NodeID
	TagMap osm.Tags
}

func wayFromOSM(way *osm.Way) *Way {
	prepared := &Way{
		ID:     way.ID,
		Nodes:  make([]osm.NodeID, 0, len(way.Nodes)),
		TagMap: make(osm.Tags, len(way.Tags)),
	}
	copy(prepared.TagMap, way.Tags)
	for _, node := range way.Nodes {
		prepared.Nodes = append(prepared.Nodes, node.ID)
	}
	return prepared
}

// Name returns value of `name` tag (empty string if there is no such tag)
func (way *Way) Name() string {
	return way.TagMap.Find("name")
}

// Member is a reference from relation to another object
type Member struct {
	Type osm.Type
	Ref  int64
	Role string
}

// Relation is a tagged group of members
type Relation struct {
	ID      osm.RelationID
	Members []Member
	TagMap  osm.Tags
}

func relationFromOSM(relation *osm.Relation) *Relation {
	prepared := &Relation{
		ID:      relation.ID,
		Members: make([]Member, 0, len(relation.Members)),
		TagMap:  make(osm.Tags, len(relation.Tags)),
	}
	copy(prepared.TagMap, relation.Tags)
	for _, member := range relation.Members {
		prepared.Members = append(prepared.Members, Member{
			Type: member.Type,
			Ref:  member.Ref,
			Role: member.Role,
		})
	}
	return prepared
}
