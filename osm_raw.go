package osm2streets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// newScanner guesses file format by its extension
func newScanner(filename string, file io.Reader) (OSMScanner, error) {
	ext := filepath.Ext(filename)
	switch strings.ToLower(ext) {
	case ".osm", ".xml":
		return osmxml.New(context.Background(), file), nil
	case ".pbf":
		return osmpbf.New(context.Background(), file, 4), nil
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
}

// readOSM loads objects from file into store.
//
// Ways and relations are read first. Nodes are read on the second pass and
// only those referenced by ways or carrying tags are kept.
func readOSM(filename string, store objectWriter, verbose bool) error {
	if verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "File open")
	}
	defer file.Close()

	/* Process ways and relations */
	if verbose {
		fmt.Printf("\tProcessing ways and relations... ")
	}
	st := time.Now()
	nodesSeen := make(map[osm.NodeID]struct{})
	waysNum, relationsNum := 0, 0
	{
		scanner, err := newScanner(filename, file)
		if err != nil {
			return err
		}
		defer scanner.Close()

		for scanner.Scan() {
			switch obj := scanner.Object().(type) {
			case *osm.Way:
				// Mark way's nodes as seen to skip isolated untagged nodes further
				for _, node := range obj.Nodes {
					nodesSeen[node.ID] = struct{}{}
				}
				if err := store.putWay(wayFromOSM(obj)); err != nil {
					return errors.Wrap(err, "Can't store way")
				}
				waysNum++
			case *osm.Relation:
				if err := store.putRelation(relationFromOSM(obj)); err != nil {
					return errors.Wrap(err, "Can't store relation")
				}
				relationsNum++
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "Scanner error on ways")
		}
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
	}

	// Seek file to start
	_, err = file.Seek(0, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "Can't repeat seeking after ways scanning")
	}

	/* Process nodes */
	if verbose {
		fmt.Printf("\tProcessing nodes... ")
	}
	st = time.Now()
	nodesNum := 0
	{
		scanner, err := newScanner(filename, file)
		if err != nil {
			return err
		}
		defer scanner.Close()

		for scanner.Scan() {
			node, ok := scanner.Object().(*osm.Node)
			if !ok {
				continue
			}
			if _, seen := nodesSeen[node.ID]; !seen && len(node.Tags) == 0 {
				continue
			}
			if err := store.putNode(nodeFromOSM(node)); err != nil {
				return errors.Wrap(err, "Can't store node")
			}
			nodesNum++
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrap(err, "Scanner error on nodes")
		}
	}
	if err := store.flush(); err != nil {
		return errors.Wrap(err, "Can't flush store")
	}
	if verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("Number of ways: %d\n", waysNum)
		fmt.Printf("Number of nodes: %d\n", nodesNum)
		fmt.Printf("Number of relations: %d\n", relationsNum)
	}
	return nil
}
