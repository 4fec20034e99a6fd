package osm2streets

import (
	"github.com/paulmach/orb"
	"github.com/peterstace/simplefeatures/rtree"
)

// spatialIndex is bulk-loaded R-tree over bounding boxes.
// Record IDs are positions of boxes in the slice the index has been built from
type spatialIndex struct {
	tree *rtree.RTree
	size int
}

func boundToBox(bound orb.Bound) rtree.Box {
	return rtree.Box{
		MinX: bound.Min.X(),
		MinY: bound.Min.Y(),
		MaxX: bound.Max.X(),
		MaxY: bound.Max.Y(),
	}
}

func newSpatialIndex(bounds []orb.Bound) *spatialIndex {
	items := make([]rtree.BulkItem, len(bounds))
	for i, bound := range bounds {
		items[i] = rtree.BulkItem{
			Box:      boundToBox(bound),
			RecordID: i,
		}
	}
	return &spatialIndex{
		tree: rtree.BulkLoad(items),
		size: len(bounds),
	}
}

func newSegmentsIndex(segments []*Segment) *spatialIndex {
	bounds := make([]orb.Bound, len(segments))
	for i, segment := range segments {
		bounds[i] = segment.Bound
	}
	return newSpatialIndex(bounds)
}

// search calls callback for every record which box overlaps (or touches) given bound
func (index *spatialIndex) search(bound orb.Bound, callback func(recordID int)) {
	if index.size == 0 {
		return
	}
	// Callback never fails, so error is always nil
	_ = index.tree.RangeSearch(boundToBox(bound), func(recordID int) error {
		callback(recordID)
		return nil
	})
}
