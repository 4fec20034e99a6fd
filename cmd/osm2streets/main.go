package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/LdDl/osm2streets"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "osm2streets"
	app.Usage = "Reconstruct streets, administrative boundaries and tagged objects from OSM files (*.osm.pbf, *.osm)"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose", Usage: "Print progress to stdout"},
		cli.StringFlag{Name: "leveldb", Usage: "Directory for temporary LevelDB storage. Objects are kept in memory if not provided"},
		cli.IntFlag{Name: "batch", Value: osm2streets.DEFAULT_BATCH_SIZE, Usage: "Batch size of LevelDB writes"},
	}
	app.Commands = []cli.Command{
		{
			Name:      "streets",
			Usage:     "Merge connected ways with the same name into streets",
			ArgsUsage: "{file}",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "name", Usage: "Process streets with this name only"},
				cli.IntFlag{Name: "admin-level", Usage: "Split streets by administrative boundaries of this level"},
				cli.StringFlag{Name: "format", Value: "geojson", Usage: "Output format. Expected values: geojson / jsonl / wkt"},
				cli.IntFlag{Name: "workers", Usage: "Number of name groups processed concurrently (defaults to number of CPUs)"},
			},
			Action: streetsAction,
		},
		{
			Name:      "boundaries",
			Usage:     "Extract administrative boundaries",
			ArgsUsage: "{file}",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "levels", Usage: "Comma-separated admin levels, e.g. 8,10. Every level if empty"},
				cli.StringFlag{Name: "format", Value: "geojson", Usage: "Output format. Expected values: geojson / jsonl / wkt"},
			},
			Action: boundariesAction,
		},
		{
			Name:      "objects",
			Usage:     "Print nodes and ways matched by tag filter as JSON lines",
			ArgsUsage: "{file}",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "filter", Usage: "Tag filter, e.g. 'amenity~fountain+tourism,amenity~townhall'"},
				cli.BoolFlag{Name: "coordinates", Usage: "Keep coordinates of ways"},
			},
			Action: objectsAction,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

// parserOptions collects options shared by all commands. Returned cleanup removes temporary storage
func parserOptions(c *cli.Context) ([]func(*osm2streets.Parser), func(), error) {
	options := []func(*osm2streets.Parser){
		osm2streets.WithVerbose(c.GlobalBool("verbose")),
		osm2streets.WithBatchSize(c.GlobalInt("batch")),
	}
	cleanup := func() {}
	if dir := c.GlobalString("leveldb"); dir != "" {
		path, err := os.MkdirTemp(dir, "osm2streets_")
		if err != nil {
			return nil, nil, errors.Wrap(err, "Can't prepare leveldb directory")
		}
		options = append(options, osm2streets.WithLevelDB(path))
		cleanup = func() {
			os.RemoveAll(path)
		}
	}
	return options, cleanup, nil
}

func inputFile(c *cli.Context) (string, error) {
	filename := c.Args().First()
	if filename == "" {
		return "", fmt.Errorf("invalid arguments, expected: {file}")
	}
	return filename, nil
}

func streetsAction(c *cli.Context) error {
	filename, err := inputFile(c)
	if err != nil {
		return err
	}
	options, cleanup, err := parserOptions(c)
	if err != nil {
		return err
	}
	defer cleanup()
	options = append(options,
		osm2streets.WithName(c.String("name")),
		osm2streets.WithAdminLevel(c.Int("admin-level")),
	)
	if workers := c.Int("workers"); workers > 0 {
		options = append(options, osm2streets.WithParserWorkers(workers))
	}
	streets, err := osm2streets.NewParser(filename, options...).Streets()
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, func(writer io.Writer) error {
		switch strings.ToLower(c.String("format")) {
		case "jsonl":
			return osm2streets.WriteStreetsJSONLines(writer, streets)
		case "wkt":
			return writeStreetsWKT(writer, streets)
		default:
			b, err := osm2streets.StreetsToGeoJSON(streets)
			if err != nil {
				return err
			}
			_, err = writer.Write(b)
			return err
		}
	})
}

// writeOutput buffers everything fn writes to w. Error of the final flush is returned too
func writeOutput(w io.Writer, fn func(writer io.Writer) error) error {
	writer := bufio.NewWriter(w)
	if err := fn(writer); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "Can't flush output")
	}
	return nil
}

// writeStreetsWKT writes `id;name;geometry` rows. Streets with nothing to draw are skipped
func writeStreetsWKT(w io.Writer, streets []*osm2streets.Street) error {
	for _, street := range streets {
		geom := osm2streets.PrepareWKTStreet(street)
		if geom == "" {
			continue
		}
		if _, err := fmt.Fprintf(w, "%d;%s;%s\n", street.ID(), street.Name, geom); err != nil {
			return errors.Wrapf(err, "Can't write street '%s'", street.Name)
		}
	}
	return nil
}

// writeBoundariesWKT writes `id;name;admin_level;geometry` rows
func writeBoundariesWKT(w io.Writer, boundaries []*osm2streets.Boundary) error {
	for _, boundary := range boundaries {
		_, err := fmt.Fprintf(w, "%d;%s;%d;%s\n", boundary.ID, boundary.Name, boundary.AdminLevel, osm2streets.PrepareWKTBoundary(boundary))
		if err != nil {
			return errors.Wrapf(err, "Can't write boundary %d", boundary.ID)
		}
	}
	return nil
}

func parseLevels(text string) ([]int, error) {
	levels := []int{}
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		level, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(err, "Bad admin level '%s'", part)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func boundariesAction(c *cli.Context) error {
	filename, err := inputFile(c)
	if err != nil {
		return err
	}
	levels, err := parseLevels(c.String("levels"))
	if err != nil {
		return err
	}
	options, cleanup, err := parserOptions(c)
	if err != nil {
		return err
	}
	defer cleanup()
	options = append(options, osm2streets.WithAdminLevels(levels))
	boundaries, err := osm2streets.NewParser(filename, options...).Boundaries()
	if err != nil {
		return err
	}

	return writeOutput(os.Stdout, func(writer io.Writer) error {
		switch strings.ToLower(c.String("format")) {
		case "jsonl":
			return osm2streets.WriteBoundariesJSONLines(writer, boundaries)
		case "wkt":
			return writeBoundariesWKT(writer, boundaries)
		default:
			b, err := osm2streets.BoundariesToGeoJSON(boundaries)
			if err != nil {
				return err
			}
			_, err = writer.Write(b)
			return err
		}
	})
}

func objectsAction(c *cli.Context) error {
	filename, err := inputFile(c)
	if err != nil {
		return err
	}
	filter := osm2streets.ParseFilter(c.String("filter"))
	if len(filter) == 0 {
		return fmt.Errorf("Nothing to do, you must specify tags to match against")
	}
	options, cleanup, err := parserOptions(c)
	if err != nil {
		return err
	}
	defer cleanup()
	options = append(options, osm2streets.WithRetainCoordinates(c.Bool("coordinates")))
	objects, err := osm2streets.NewParser(filename, options...).Objects(filter)
	if err != nil {
		return err
	}
	return writeOutput(os.Stdout, func(writer io.Writer) error {
		return osm2streets.WriteObjectsJSONLines(writer, objects)
	})
}
