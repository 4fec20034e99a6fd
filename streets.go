package osm2streets

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Street is a set of same-named segments connected to each other
type Street struct {
	Name     string
	Segments []*Segment
	// Boundary is set only for streets which have been split by administrative boundaries
	Boundary *Boundary
}

// ID returns the least way ID among street's segments
func (street *Street) ID() osm.WayID {
	id := street.Segments[0].WayID
	for _, segment := range street.Segments[1:] {
		if segment.WayID < id {
			id = segment.WayID
		}
	}
	return id
}

// WayIDs returns sorted way IDs of street's segments
func (street *Street) WayIDs() []osm.WayID {
	ids := make([]osm.WayID, len(street.Segments))
	for i, segment := range street.Segments {
		ids[i] = segment.WayID
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

// MultiLineString returns geometry of street. Segments with less than two points are omitted
func (street *Street) MultiLineString() orb.MultiLineString {
	lines := make(orb.MultiLineString, 0, len(street.Segments))
	for _, segment := range street.Segments {
		if !segment.Exportable() {
			continue
		}
		lines = append(lines, segment.Line)
	}
	return lines
}

// Centroid returns center point of all street's points
func (street *Street) Centroid() orb.Point {
	pts := []orb.Point{}
	for _, segment := range street.Segments {
		pts = append(pts, segment.Line...)
	}
	return findCentroid(pts)
}

// LengthKilometers returns total great-circle length of street's segments
func (street *Street) LengthKilometers() float64 {
	total := 0.0
	for _, segment := range street.Segments {
		total += getSphericalLength(segment.Line)
	}
	return total
}

// StreetsOptions are parameters of streets reconstruction
type StreetsOptions struct {
	name    string
	workers int
	verbose bool
}

// WithStreetName restricts reconstruction to ways with given name
func WithStreetName(name string) func(*StreetsOptions) {
	return func(opts *StreetsOptions) {
		opts.name = name
	}
}

// WithWorkers sets number of name groups processed concurrently
func WithWorkers(workers int) func(*StreetsOptions) {
	return func(opts *StreetsOptions) {
		opts.workers = workers
	}
}

// WithStreetsVerbose enables progress output
func WithStreetsVerbose(verbose bool) func(*StreetsOptions) {
	return func(opts *StreetsOptions) {
		opts.verbose = verbose
	}
}

// ReconstructStreets groups named ways by exact name and returns connected networks of every group.
//
// Broken ways (no resolvable nodes) and ways without name never cause an error: they just do not
// contribute to output. Error is returned only if store fails to iterate over ways
func ReconstructStreets(objects ObjectStore, options ...func(*StreetsOptions)) ([]*Street, error) {
	opts := &StreetsOptions{
		workers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(opts)
	}
	if opts.workers <= 0 {
		opts.workers = 1
	}

	if opts.verbose {
		fmt.Printf("Grouping ways by name...")
	}
	st := time.Now()
	groups, names, err := getNameGroups(objects, opts.name)
	if err != nil {
		return nil, errors.Wrap(err, "Can't group ways by name")
	}
	if opts.verbose {
		fmt.Printf("Done in %v\n\tName groups: %d\n", time.Since(st), len(names))
	}

	if opts.verbose {
		fmt.Printf("Clustering segments...")
	}
	st = time.Now()
	var (
		mu      sync.Mutex
		streets = []*Street{}
	)
	var eg errgroup.Group
	eg.SetLimit(opts.workers)
	for _, name := range names {
		name := name
		ways := groups[name]
		eg.Go(func() error {
			groupStreets := getGroupStreets(name, ways, objects, opts.verbose)
			mu.Lock()
			streets = append(streets, groupStreets...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	sortStreets(streets)
	if opts.verbose {
		fmt.Printf("Done in %v\n\tStreets: %d\n", time.Since(st), len(streets))
	}
	return streets, nil
}

// getNameGroups returns ways grouped by `name` tag and sorted list of names
func getNameGroups(objects ObjectStore, onlyName string) (map[string][]*Way, []string, error) {
	groups := make(map[string][]*Way)
	names := []string{}
	err := objects.ForEachWay(func(way *Way) error {
		name := way.Name()
		if name == "" {
			return nil
		}
		if onlyName != "" && name != onlyName {
			return nil
		}
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], way)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(names)
	return groups, names, nil
}

// getSegments builds segments for ways. Ways which geometry can't be built are dropped
func getSegments(ways []*Way, objects ObjectStore, verbose bool) []*Segment {
	segments := make([]*Segment, 0, len(ways))
	for _, way := range ways {
		segment, err := newSegment(way, objects)
		if err != nil {
			if verbose {
				fmt.Printf("\n\t[WARNING]: Way has been skipped: %s\n", err.Error())
			}
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}

// getGroupStreets runs extraction, indexing, intersection detection and clustering for single name group
func getGroupStreets(name string, ways []*Way, objects ObjectStore, verbose bool) []*Street {
	segments := getSegments(ways, objects, verbose)
	if len(segments) == 0 {
		return nil
	}
	index := newSegmentsIndex(segments)
	pairs := findIntersections(segments, index)
	clusters := clusterSegments(segments, pairs)
	streets := make([]*Street, 0, len(clusters))
	for _, cluster := range clusters {
		streets = append(streets, &Street{
			Name:     name,
			Segments: cluster,
		})
	}
	return streets
}

func sortStreets(streets []*Street) {
	sort.SliceStable(streets, func(i, j int) bool {
		if streets[i].Name != streets[j].Name {
			return streets[i].Name < streets[j].Name
		}
		return streets[i].ID() < streets[j].ID()
	})
}
