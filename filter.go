package osm2streets

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// condition is a single `key` or `key~value` requirement
type condition struct {
	key      string
	value    string
	hasValue bool
}

// Filter is a set of alternative groups of conditions. Object matches filter if it satisfies every
// condition of at least one group
type Filter [][]condition

// ParseFilter parses filter expression. Groups are separated by commas, conditions inside group are
// joined by plus sign. E.g.: `amenity~fountain+tourism,amenity~townhall`
func ParseFilter(expression string) Filter {
	filter := Filter{}
	for _, groupText := range strings.Split(expression, ",") {
		group := []condition{}
		for _, conditionText := range strings.Split(groupText, "+") {
			conditionText = strings.TrimSpace(conditionText)
			if conditionText == "" {
				continue
			}
			parts := strings.SplitN(conditionText, "~", 2)
			cond := condition{key: parts[0]}
			if len(parts) > 1 {
				cond.value = parts[1]
				cond.hasValue = true
			}
			group = append(group, cond)
		}
		if len(group) == 0 {
			continue
		}
		filter = append(filter, group)
	}
	return filter
}

// Match checks tags against filter. Empty filter matches nothing
func (filter Filter) Match(tags osm.Tags) bool {
	for _, group := range filter {
		if matchGroup(tags, group) {
			return true
		}
	}
	return false
}

// findTag returns tag with given key. Nil means there is no such key, which differs from an empty value
func findTag(tags osm.Tags, key string) *osm.Tag {
	for i := range tags {
		if tags[i].Key == key {
			return &tags[i]
		}
	}
	return nil
}

func matchGroup(tags osm.Tags, group []condition) bool {
	for _, cond := range group {
		tag := findTag(tags, cond.key)
		if tag == nil {
			return false
		}
		if cond.hasValue && tag.Value != cond.value {
			return false
		}
	}
	return true
}

// Object is a node or way matched by filter
type Object struct {
	ID          int64             `json:"id"`
	Type        osm.Type          `json:"type"`
	Tags        map[string]string `json:"tags"`
	Centroid    *[2]float64       `json:"centroid,omitempty"`
	Coordinates [][2]float64      `json:"coordinates,omitempty"`
}

// FindObjects returns nodes and ways matched by filter. Coordinates of ways are kept only if retainCoordinates is set
func FindObjects(objects ObjectStore, filter Filter, retainCoordinates bool) ([]*Object, error) {
	found := []*Object{}
	err := objects.ForEachNode(func(node *Node) error {
		if !filter.Match(node.TagMap) {
			return nil
		}
		centroid := [2]float64{node.Point.Lon(), node.Point.Lat()}
		found = append(found, &Object{
			ID:       int64(node.ID),
			Type:     osm.TypeNode,
			Tags:     node.TagMap.Map(),
			Centroid: &centroid,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't iterate over nodes")
	}
	err = objects.ForEachWay(func(way *Way) error {
		if !filter.Match(way.TagMap) {
			return nil
		}
		object := &Object{
			ID:   int64(way.ID),
			Type: osm.TypeWay,
			Tags: way.TagMap.Map(),
		}
		pts := make([]orb.Point, 0, len(way.Nodes))
		for _, nodeID := range way.Nodes {
			if node, ok := objects.Node(nodeID); ok {
				pts = append(pts, node.Point)
			}
		}
		if len(pts) != 0 {
			center := findCentroid(pts)
			object.Centroid = &[2]float64{center.Lon(), center.Lat()}
			if retainCoordinates {
				object.Coordinates = make([][2]float64, len(pts))
				for i, pt := range pts {
					object.Coordinates[i] = [2]float64{pt.Lon(), pt.Lat()}
				}
			}
		}
		found = append(found, object)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "Can't iterate over ways")
	}
	return found, nil
}

// WriteObjectsJSONLines writes one JSON object per line
func WriteObjectsJSONLines(w io.Writer, objects []*Object) error {
	encoder := json.NewEncoder(w)
	for _, object := range objects {
		if err := encoder.Encode(object); err != nil {
			return errors.Wrapf(err, "Can't write %s %d", object.Type, object.ID)
		}
	}
	return nil
}
