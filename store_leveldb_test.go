package osm2streets

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

func memLevelDBStore(t *testing.T, batchSize int) *LevelDBStore {
	t.Helper()
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	store := NewLevelDBStore(db, batchSize)
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, []byte{'w', 0, 0, 0, 0, 0, 0, 1, 2}, objectKey(prefixWay, 258))
}

func TestLevelDBStoreRoundTrip(t *testing.T) {
	// Small batch to force several flushes
	store := memLevelDBStore(t, 2)
	require.NoError(t, store.putNode(&Node{ID: 1, Point: orb.Point{13, 52}, TagMap: osm.Tags{{Key: "amenity", Value: "fountain"}}}))
	require.NoError(t, store.putNode(&Node{ID: 2, Point: orb.Point{14, 52}}))
	require.NoError(t, store.putNode(&Node{ID: 3, Point: orb.Point{14, 53}}))
	require.NoError(t, store.putWay(&Way{ID: 42, Nodes: []osm.NodeID{1, 2, 3}, TagMap: osm.Tags{{Key: "name", Value: "street a"}}}))
	require.NoError(t, store.putRelation(&Relation{
		ID:      500,
		Members: []Member{{Type: osm.TypeWay, Ref: 42, Role: "outer"}},
		TagMap:  osm.Tags{{Key: "boundary", Value: "administrative"}},
	}))
	require.NoError(t, store.flush())

	node, ok := store.Node(1)
	require.True(t, ok)
	assert.Equal(t, orb.Point{13, 52}, node.Point)
	assert.Equal(t, "fountain", node.TagMap.Find("amenity"))

	way, ok := store.Way(42)
	require.True(t, ok)
	assert.Equal(t, []osm.NodeID{1, 2, 3}, way.Nodes)
	assert.Equal(t, "street a", way.Name())

	_, ok = store.Node(999)
	assert.False(t, ok)
	_, ok = store.Way(999)
	assert.False(t, ok)

	ids := []osm.NodeID{}
	require.NoError(t, store.ForEachNode(func(node *Node) error {
		ids = append(ids, node.ID)
		return nil
	}))
	assert.Equal(t, []osm.NodeID{1, 2, 3}, ids)

	relations := []*Relation{}
	require.NoError(t, store.ForEachRelation(func(relation *Relation) error {
		relations = append(relations, relation)
		return nil
	}))
	require.Len(t, relations, 1)
	assert.Equal(t, []Member{{Type: osm.TypeWay, Ref: 42, Role: "outer"}}, relations[0].Members)
}

func TestLevelDBStoreCallbackError(t *testing.T) {
	store := memLevelDBStore(t, 10)
	require.NoError(t, store.putWay(&Way{ID: 1, Nodes: []osm.NodeID{1, 2}}))
	require.NoError(t, store.putWay(&Way{ID: 2, Nodes: []osm.NodeID{2, 3}}))
	require.NoError(t, store.flush())

	stop := errors.New("stop")
	calls := 0
	err := store.ForEachWay(func(way *Way) error {
		calls++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, calls)
}

func TestLevelDBStoreSampleParity(t *testing.T) {
	memory := loadSample(t)
	store := memLevelDBStore(t, 5)
	require.NoError(t, readOSM("./testdata/sample.osm", store, false))

	memoryStreets, err := ReconstructStreets(memory)
	require.NoError(t, err)
	storeStreets, err := ReconstructStreets(store)
	require.NoError(t, err)
	if diff := cmp.Diff(streetsAsSets(memoryStreets), streetsAsSets(storeStreets)); diff != "" {
		t.Errorf("streets differ (-memory +leveldb):\n%s", diff)
	}

	memoryBoundaries, err := ExtractBoundaries(memory, nil, false)
	require.NoError(t, err)
	storeBoundaries, err := ExtractBoundaries(store, nil, false)
	require.NoError(t, err)
	require.Len(t, storeBoundaries, len(memoryBoundaries))
	for i := range memoryBoundaries {
		assert.Equal(t, memoryBoundaries[i].ID, storeBoundaries[i].ID)
		assert.Equal(t, memoryBoundaries[i].Geometry, storeBoundaries[i].Geometry)
	}

	nodesNum := 0
	require.NoError(t, store.ForEachNode(func(node *Node) error {
		nodesNum++
		return nil
	}))
	assert.Equal(t, memory.NodesNum(), nodesNum)
}
