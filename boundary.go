package osm2streets

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// Boundary is an administrative area built from boundary relation
type Boundary struct {
	ID         osm.RelationID
	Name       string
	AdminLevel int
	Geometry   orb.MultiPolygon
}

// ExtractBoundaries returns administrative boundaries of given levels (every level if levels is empty).
// Relations which outer rings can't be closed are skipped
func ExtractBoundaries(objects ObjectStore, levels []int, verbose bool) ([]*Boundary, error) {
	if verbose {
		fmt.Printf("Extracting boundaries...")
	}
	st := time.Now()
	levelsAllowed := make(map[int]struct{}, len(levels))
	for _, level := range levels {
		levelsAllowed[level] = struct{}{}
	}
	boundaries := []*Boundary{}
	err := objects.ForEachRelation(func(relation *Relation) error {
		if relation.TagMap.Find("boundary") != "administrative" {
			return nil
		}
		levelText := relation.TagMap.Find("admin_level")
		level, err := strconv.Atoi(levelText)
		if err != nil {
			if verbose {
				fmt.Printf("\n\t[WARNING]: Provided `admin_level` tag value should be an integer. Got '%s'. Relation ID: '%d'\n", levelText, relation.ID)
			}
			return nil
		}
		if len(levelsAllowed) != 0 {
			if _, ok := levelsAllowed[level]; !ok {
				return nil
			}
		}
		geometry := relationMultiPolygon(relation, objects)
		if len(geometry) == 0 {
			if verbose {
				fmt.Printf("\n\t[WARNING]: Can't assemble outer ring. Relation ID: '%d'\n", relation.ID)
			}
			return nil
		}
		boundaries = append(boundaries, &Boundary{
			ID:         relation.ID,
			Name:       relation.TagMap.Find("name"),
			AdminLevel: level,
			Geometry:   geometry,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't iterate over relations")
	}
	sort.Slice(boundaries, func(i, j int) bool {
		return boundaries[i].ID < boundaries[j].ID
	})
	if verbose {
		fmt.Printf("Done in %v\n\tBoundaries: %d\n", time.Since(st), len(boundaries))
	}
	return boundaries, nil
}

// relationMultiPolygon builds polygons from way members of relation.
// Members with role `outer` (or without role) form outer rings, `inner` ones are holes
func relationMultiPolygon(relation *Relation, objects ObjectStore) orb.MultiPolygon {
	outerChains := [][]osm.NodeID{}
	innerChains := [][]osm.NodeID{}
	for _, member := range relation.Members {
		if member.Type != osm.TypeWay {
			continue
		}
		way, ok := objects.Way(osm.WayID(member.Ref))
		if !ok || len(way.Nodes) < 2 {
			continue
		}
		switch member.Role {
		case "outer", "":
			outerChains = append(outerChains, way.Nodes)
		case "inner":
			innerChains = append(innerChains, way.Nodes)
		}
	}

	polygons := orb.MultiPolygon{}
	for _, chain := range assembleRings(outerChains) {
		ring, ok := chainToRing(chain, objects)
		if !ok {
			continue
		}
		polygons = append(polygons, orb.Polygon{ring})
	}
	for _, chain := range assembleRings(innerChains) {
		ring, ok := chainToRing(chain, objects)
		if !ok {
			continue
		}
		for i := range polygons {
			if planar.RingContains(polygons[i][0], ring[0]) {
				polygons[i] = append(polygons[i], ring)
				break
			}
		}
	}
	return polygons
}

// assembleRings joins chains of nodes by shared end nodes until they are closed.
// Chains which can't be closed are dropped
func assembleRings(chains [][]osm.NodeID) [][]osm.NodeID {
	remaining := make([][]osm.NodeID, len(chains))
	copy(remaining, chains)
	rings := [][]osm.NodeID{}
	for len(remaining) > 0 {
		current := append([]osm.NodeID{}, remaining[0]...)
		remaining = remaining[1:]
		for current[0] != current[len(current)-1] {
			found := false
			for i, chain := range remaining {
				last := current[len(current)-1]
				switch {
				case chain[0] == last:
					current = append(current, chain[1:]...)
				case chain[len(chain)-1] == last:
					current = append(current, reverseNodes(chain)[1:]...)
				default:
					continue
				}
				remaining = append(remaining[:i], remaining[i+1:]...)
				found = true
				break
			}
			if !found {
				break
			}
		}
		// Ring needs at least three distinct nodes
		if current[0] == current[len(current)-1] && len(current) >= 4 {
			rings = append(rings, current)
		}
	}
	return rings
}

// reverseNodes reverses order of nodes. Returns new slice
func reverseNodes(nodes []osm.NodeID) []osm.NodeID {
	output := make([]osm.NodeID, len(nodes))
	for i, n := range nodes {
		output[len(nodes)-i-1] = n
	}
	return output
}

// chainToRing resolves nodes of closed chain. Any missing node breaks the ring
func chainToRing(chain []osm.NodeID, objects ObjectStore) (orb.Ring, bool) {
	ring := make(orb.Ring, 0, len(chain))
	for _, nodeID := range chain {
		node, ok := objects.Node(nodeID)
		if !ok {
			return nil, false
		}
		ring = append(ring, node.Point)
	}
	return ring, true
}
