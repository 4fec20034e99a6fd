package osm2streets

import (
	"encoding/binary"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/vmihailenco/msgpack"
)

const (
	DEFAULT_BATCH_SIZE = 50000
)

const (
	prefixNode     = byte('n')
	prefixWay      = byte('w')
	prefixRelation = byte('r')
)

// LevelDBStore is ObjectStore kept on disk. Useful for extracts which do not fit into memory
type LevelDBStore struct {
	db        *leveldb.DB
	batch     *leveldb.Batch
	batchSize int
}

// OpenLevelDBStore opens (or creates) LevelDB database in given directory
func OpenLevelDBStore(path string, batchSize int) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open leveldb")
	}
	return NewLevelDBStore(db, batchSize), nil
}

// NewLevelDBStore wraps already opened database
func NewLevelDBStore(db *leveldb.DB, batchSize int) *LevelDBStore {
	if batchSize <= 0 {
		batchSize = DEFAULT_BATCH_SIZE
	}
	return &LevelDBStore{
		db:        db,
		batch:     new(leveldb.Batch),
		batchSize: batchSize,
	}
}

// Close flushes pending writes and closes database
func (store *LevelDBStore) Close() error {
	if err := store.flush(); err != nil {
		store.db.Close()
		return err
	}
	return store.db.Close()
}

func objectKey(prefix byte, id int64) []byte {
	key := make([]byte, 9)
	key[0] = prefix
	binary.BigEndian.PutUint64(key[1:], uint64(id))
	return key
}

func (store *LevelDBStore) queue(key []byte, value interface{}) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "Can't encode record")
	}
	store.batch.Put(key, data)
	if store.batch.Len() >= store.batchSize {
		return store.flush()
	}
	return nil
}

func (store *LevelDBStore) flush() error {
	if store.batch.Len() == 0 {
		return nil
	}
	err := store.db.Write(store.batch, nil)
	if err != nil {
		return errors.Wrap(err, "Can't write batch")
	}
	store.batch.Reset()
	return nil
}

func (store *LevelDBStore) putNode(node *Node) error {
	return store.queue(objectKey(prefixNode, int64(node.ID)), node)
}

func (store *LevelDBStore) putWay(way *Way) error {
	return store.queue(objectKey(prefixWay, int64(way.ID)), way)
}

func (store *LevelDBStore) putRelation(relation *Relation) error {
	return store.queue(objectKey(prefixRelation, int64(relation.ID)), relation)
}

// fetch decodes record into target. Missing or broken records are reported as misses
func (store *LevelDBStore) fetch(key []byte, target interface{}) bool {
	data, err := store.db.Get(key, nil)
	if err != nil {
		return false
	}
	return msgpack.Unmarshal(data, target) == nil
}

func (store *LevelDBStore) Node(id osm.NodeID) (*Node, bool) {
	node := &Node{}
	if !store.fetch(objectKey(prefixNode, int64(id)), node) {
		return nil, false
	}
	return node, true
}

func (store *LevelDBStore) Way(id osm.WayID) (*Way, bool) {
	way := &Way{}
	if !store.fetch(objectKey(prefixWay, int64(id)), way) {
		return nil, false
	}
	return way, true
}

func (store *LevelDBStore) iterate(prefix byte, decode func(data []byte) error) error {
	iter := store.db.NewIterator(util.BytesPrefix([]byte{prefix}), nil)
	defer iter.Release()
	for iter.Next() {
		if err := decode(iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func (store *LevelDBStore) ForEachNode(callback func(node *Node) error) error {
	return store.iterate(prefixNode, func(data []byte) error {
		node := &Node{}
		if err := msgpack.Unmarshal(data, node); err != nil {
			return errors.Wrap(err, "Can't decode node")
		}
		return callback(node)
	})
}

func (store *LevelDBStore) ForEachWay(callback func(way *Way) error) error {
	return store.iterate(prefixWay, func(data []byte) error {
		way := &Way{}
		if err := msgpack.Unmarshal(data, way); err != nil {
			return errors.Wrap(err, "Can't decode way")
		}
		return callback(way)
	})
}

func (store *LevelDBStore) ForEachRelation(callback func(relation *Relation) error) error {
	return store.iterate(prefixRelation, func(data []byte) error {
		relation := &Relation{}
		if err := msgpack.Unmarshal(data, relation); err != nil {
			return errors.Wrap(err, "Can't decode relation")
		}
		return callback(relation)
	})
}
