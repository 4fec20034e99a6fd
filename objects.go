package osm2streets

import (
	"github.com/paulmach/osm"
)

// ObjectStore is read-only access to nodes, ways and relations.
//
// Implementations must be safe for concurrent readers: street reconstruction
// borrows the store from several workers at once.
type ObjectStore interface {
	Node(id osm.NodeID) (*Node, bool)
	Way(id osm.WayID) (*Way, bool)
	// ForEach* iterate over stored objects. Iteration stops on the first
	// error returned by callback and that error is returned.
	ForEachNode(callback func(node *Node) error) error
	ForEachWay(callback func(way *Way) error) error
	ForEachRelation(callback func(relation *Relation) error) error
}

// objectWriter is the loader side of a store
type objectWriter interface {
	putNode(node *Node) error
	putWay(way *Way) error
	putRelation(relation *Relation) error
	flush() error
}

// OSMData is in-memory ObjectStore
type OSMData struct {
	nodes     map[osm.NodeID]*Node
	ways      map[osm.WayID]*Way
	relations map[osm.RelationID]*Relation

	// Insertion order to keep iteration reproducible
	nodesOrder     []osm.NodeID
	waysOrder      []osm.WayID
	relationsOrder []osm.RelationID
}

// NewOSMData returns empty in-memory store
func NewOSMData() *OSMData {
	return &OSMData{
		nodes:     make(map[osm.NodeID]*Node),
		ways:      make(map[osm.WayID]*Way),
		relations: make(map[osm.RelationID]*Relation),
	}
}

// AddNode puts node into the store. Node with the same ID is replaced
func (data *OSMData) AddNode(node *Node) {
	if _, ok := data.nodes[node.ID]; !ok {
		data.nodesOrder = append(data.nodesOrder, node.ID)
	}
	data.nodes[node.ID] = node
}

// AddWay puts way into the store. Way with the same ID is replaced
func (data *OSMData) AddWay(way *Way) {
	if _, ok := data.ways[way.ID]; !ok {
		data.waysOrder = append(data.waysOrder, way.ID)
	}
	data.ways[way.ID] = way
}

// AddRelation puts relation into the store. Relation with the same ID is replaced
func (data *OSMData) AddRelation(relation *Relation) {
	if _, ok := data.relations[relation.ID]; !ok {
		data.relationsOrder = append(data.relationsOrder, relation.ID)
	}
	data.relations[relation.ID] = relation
}

func (data *OSMData) Node(id osm.NodeID) (*Node, bool) {
	node, ok := data.nodes[id]
	return node, ok
}

func (data *OSMData) Way(id osm.WayID) (*Way, bool) {
	way, ok := data.ways[id]
	return way, ok
}

func (data *OSMData) ForEachNode(callback func(node *Node) error) error {
	for _, id := range data.nodesOrder {
		if err := callback(data.nodes[id]); err != nil {
			return err
		}
	}
	return nil
}

func (data *OSMData) ForEachWay(callback func(way *Way) error) error {
	for _, id := range data.waysOrder {
		if err := callback(data.ways[id]); err != nil {
			return err
		}
	}
	return nil
}

func (data *OSMData) ForEachRelation(callback func(relation *Relation) error) error {
	for _, id := range data.relationsOrder {
		if err := callback(data.relations[id]); err != nil {
			return err
		}
	}
	return nil
}

// NodesNum returns number of stored nodes
func (data *OSMData) NodesNum() int {
	return len(data.nodes)
}

// WaysNum returns number of stored ways
func (data *OSMData) WaysNum() int {
	return len(data.ways)
}

// RelationsNum returns number of stored relations
func (data *OSMData) RelationsNum() int {
	return len(data.relations)
}

func (data *OSMData) putNode(node *Node) error {
	data.AddNode(node)
	return nil
}

func (data *OSMData) putWay(way *Way) error {
	data.AddWay(way)
	return nil
}

func (data *OSMData) putRelation(relation *Relation) error {
	data.AddRelation(relation)
	return nil
}

func (data *OSMData) flush() error {
	return nil
}
