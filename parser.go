package osm2streets

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

type Parser struct {
	filename          string
	streetName        string
	levelDBPath       string
	adminLevels       []int
	adminLevel        int
	workers           int
	batchSize         int
	verbose           bool
	retainCoordinates bool
}

func (parser *Parser) String() string {
	levels := make([]string, len(parser.adminLevels))
	for i, level := range parser.adminLevels {
		levels[i] = fmt.Sprintf("%d", level)
	}
	return fmt.Sprintf(`
Streets parser parameters:
	filename: '%s'
	street_name: '%s'
	admin_level (split): %d
	admin_levels (boundaries): '%s'
	workers: %d
	leveldb: '%s'
	batch_size: %d
	retain coordinates?: %t
	`,
		parser.filename,
		parser.streetName,
		parser.adminLevel,
		strings.Join(levels, ","),
		parser.workers,
		parser.levelDBPath,
		parser.batchSize,
		parser.retainCoordinates,
	)
}

func NewParser(fileName string, options ...func(*Parser)) *Parser {
	parser := &Parser{
		filename:  fileName,
		workers:   runtime.NumCPU(),
		batchSize: DEFAULT_BATCH_SIZE,
	}
	for _, option := range options {
		option(parser)
	}
	return parser
}

func WithVerbose(verbose bool) func(*Parser) {
	return func(parser *Parser) {
		parser.verbose = verbose
	}
}

// WithName restricts streets to the given name
func WithName(name string) func(*Parser) {
	return func(parser *Parser) {
		parser.streetName = name
	}
}

// WithAdminLevel enables splitting of streets by boundaries of given level. Zero disables splitting
func WithAdminLevel(level int) func(*Parser) {
	return func(parser *Parser) {
		parser.adminLevel = level
	}
}

// WithAdminLevels sets levels of extracted boundaries. Empty means every level
func WithAdminLevels(levels []int) func(*Parser) {
	return func(parser *Parser) {
		parser.adminLevels = levels
	}
}

func WithParserWorkers(workers int) func(*Parser) {
	return func(parser *Parser) {
		parser.workers = workers
	}
}

// WithLevelDB makes parser keep objects in LevelDB database at given path instead of memory
func WithLevelDB(path string) func(*Parser) {
	return func(parser *Parser) {
		parser.levelDBPath = path
	}
}

func WithBatchSize(batchSize int) func(*Parser) {
	return func(parser *Parser) {
		parser.batchSize = batchSize
	}
}

func WithRetainCoordinates(retain bool) func(*Parser) {
	return func(parser *Parser) {
		parser.retainCoordinates = retain
	}
}

// withObjects loads file into the configured store and calls fn with it
func (parser *Parser) withObjects(fn func(objects ObjectStore) error) error {
	if parser.levelDBPath == "" {
		data := NewOSMData()
		if err := readOSM(parser.filename, data, parser.verbose); err != nil {
			return errors.Wrap(err, "Can't parse OSM data")
		}
		return fn(data)
	}
	store, err := OpenLevelDBStore(parser.levelDBPath, parser.batchSize)
	if err != nil {
		return err
	}
	return parser.withLevelDB(store, fn)
}

// withLevelDB loads file into store, calls fn and closes store. Failed close is reported as well
func (parser *Parser) withLevelDB(store *LevelDBStore, fn func(objects ObjectStore) error) (err error) {
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "Can't close leveldb")
		}
	}()
	if err := readOSM(parser.filename, store, parser.verbose); err != nil {
		return errors.Wrap(err, "Can't parse OSM data")
	}
	return fn(store)
}

// Streets reads file and reconstructs streets. Streets are split by boundaries if admin level has been provided
func (parser *Parser) Streets() ([]*Street, error) {
	var streets []*Street
	err := parser.withObjects(func(objects ObjectStore) error {
		var err error
		streets, err = ReconstructStreets(
			objects,
			WithStreetName(parser.streetName),
			WithWorkers(parser.workers),
			WithStreetsVerbose(parser.verbose),
		)
		if err != nil {
			return errors.Wrap(err, "Can't reconstruct streets")
		}
		if parser.adminLevel == 0 {
			return nil
		}
		boundaries, err := ExtractBoundaries(objects, []int{parser.adminLevel}, parser.verbose)
		if err != nil {
			return errors.Wrap(err, "Can't extract boundaries")
		}
		streets = SplitStreetsByBoundaries(streets, boundaries)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return streets, nil
}

// Boundaries reads file and extracts administrative boundaries
func (parser *Parser) Boundaries() ([]*Boundary, error) {
	var boundaries []*Boundary
	err := parser.withObjects(func(objects ObjectStore) error {
		var err error
		boundaries, err = ExtractBoundaries(objects, parser.adminLevels, parser.verbose)
		return err
	})
	if err != nil {
		return nil, err
	}
	return boundaries, nil
}

// Objects reads file and returns nodes and ways matched by filter
func (parser *Parser) Objects(filter Filter) ([]*Object, error) {
	var found []*Object
	err := parser.withObjects(func(objects ObjectStore) error {
		var err error
		found, err = FindObjects(objects, filter, parser.retainCoordinates)
		return err
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
