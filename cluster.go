package osm2streets

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// clusterSegments splits segments into connected components of intersection graph.
// Vertex of the graph is the index of segment in arena
func clusterSegments(segments []*Segment, pairs map[intersectionPair]struct{}) [][]*Segment {
	graph := simple.NewUndirectedGraph()
	for i := range segments {
		graph.AddNode(simple.Node(i))
	}
	for pair := range pairs {
		graph.SetEdge(simple.Edge{F: simple.Node(pair.first), T: simple.Node(pair.second)})
	}

	components := topo.ConnectedComponents(graph)
	clusters := make([][]*Segment, 0, len(components))
	for _, component := range components {
		cluster := make([]*Segment, 0, len(component))
		for _, node := range component {
			cluster = append(cluster, segments[node.ID()])
		}
		sort.Slice(cluster, func(i, j int) bool {
			return cluster[i].WayID < cluster[j].WayID
		})
		clusters = append(clusters, cluster)
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i][0].WayID < clusters[j][0].WayID
	})
	return clusters
}
