// Copyright 2023 The tiles3d (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// tiles3d - 3D Tiles metadata and implicit tiling CLI tool
//
// Usage:
//
//	tiles3d derive -volume JSON -scheme S -level L -x X -y Y [-z Z]
//	tiles3d subtree -file F -scheme S -levels N [-schema FILE] [-v]
//	tiles3d table -schema FILE -table FILE [-buffer FILE] [-index I] [-v]
//
// derive prints the bounding volume of an implicit tile as JSON.
// subtree prints the availability recorded in a subtree file and, given
// a schema, the tile metadata of each available tile. table prints
// every row of a property table as one JSON object per line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gogama/tiles3d"
	"github.com/gogama/tiles3d/buffers"
	"github.com/gogama/tiles3d/implicit"
	"github.com/gogama/tiles3d/subtree"
)

// errUsage is returned when the command line is malformed. The flag
// package has already reported the problem.
var errUsage = errors.New("usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintln(os.Stderr, err)
			}
			os.Exit(2)
		}
		fatal("%v", err)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "tiles3d: "+format+"\n", args...)
	os.Exit(1)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errUsage
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "derive":
		return cmdDerive(args, stdout, stderr)
	case "subtree":
		return cmdSubtree(ctx, args, stdout, stderr)
	case "table":
		return cmdTable(ctx, args, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		printUsage(stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `tiles3d - 3D Tiles metadata and implicit tiling tool

Usage:
  tiles3d derive -volume JSON -scheme S -level L -x X -y Y [-z Z]
  tiles3d subtree -file F -scheme S -levels N [-schema FILE] [-v]
  tiles3d table -schema FILE -table FILE [-buffer FILE] [-index I] [-v]

Run "tiles3d <command> -h" for the flags of a command.
`)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errUsage
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return errUsage
	}
	return nil
}

func newLogger(verbose bool, stderr io.Writer) *buffers.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return buffers.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func parseScheme(s string) (implicit.SubdivisionScheme, error) {
	scheme := implicit.SubdivisionScheme(strings.ToUpper(s))
	if !scheme.Valid() {
		return "", fmt.Errorf("%w: scheme must be quadtree or octree, got %q", errUsage, s)
	}
	return scheme, nil
}

func cmdDerive(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("derive", stderr)
	volume := fs.String("volume", "", "root bounding volume JSON, or @file to read it from a file")
	scheme := fs.String("scheme", "quadtree", "subdivision scheme: quadtree or octree")
	level := fs.Int("level", 0, "tile level")
	x := fs.Uint("x", 0, "tile X-coordinate")
	y := fs.Uint("y", 0, "tile Y-coordinate")
	z := fs.Uint("z", 0, "tile Z-coordinate (octree only)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	s, err := parseScheme(*scheme)
	if err != nil {
		return err
	}
	for _, v := range []struct {
		name  string
		value uint
	}{{"x", *x}, {"y", *y}, {"z", *z}} {
		if uint64(v.value) > math.MaxUint32 {
			return fmt.Errorf("%w: -%s must be at most %d, got %d", errUsage, v.name, uint32(math.MaxUint32), v.value)
		}
	}

	data := []byte(*volume)
	if strings.HasPrefix(*volume, "@") {
		if data, err = os.ReadFile((*volume)[1:]); err != nil {
			return err
		}
	}
	root, err := implicit.ParseBoundingVolume(data)
	if err != nil {
		return err
	}

	c := implicit.Coordinates{Scheme: s, Level: *level, X: uint32(*x), Y: uint32(*y), Z: uint32(*z)}
	v, ok, err := implicit.Derive(root, c)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(stdout, "not derivable")
		return nil
	}
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, string(out))
	return nil
}

func cmdSubtree(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("subtree", stderr)
	file := fs.String("file", "", "subtree file (.subtree or .json)")
	scheme := fs.String("scheme", "quadtree", "subdivision scheme: quadtree or octree")
	levels := fs.Int("levels", 0, "number of levels in each subtree")
	schemaFile := fs.String("schema", "", "metadata schema JSON file")
	verbose := fs.Bool("v", false, "log debug output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("%w: -file is required", errUsage)
	}
	s, err := parseScheme(*scheme)
	if err != nil {
		return err
	}

	logger := newLogger(*verbose, stderr)
	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	defer f.Close()
	st, err := subtree.Read(ctx, f, subtree.Tiling{SubdivisionScheme: s, SubtreeLevels: *levels},
		subtree.WithResolver(buffers.NewDirResolver(filepath.Dir(*file), buffers.WithLogger(logger))),
		subtree.WithLogger(logger))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "tiles: %d/%d\n", st.TileAvailability.AvailableCount(), st.TileAvailability.Len())
	for i, a := range st.ContentAvailability {
		fmt.Fprintf(stdout, "content %d: %d/%d\n", i, a.AvailableCount(), a.Len())
	}
	fmt.Fprintf(stdout, "child subtrees: %d/%d\n", st.ChildSubtreeAvailability.AvailableCount(), st.ChildSubtreeAvailability.Len())

	var tm *tiles3d.TableModel
	if *schemaFile != "" {
		schema, err := readSchema(*schemaFile)
		if err != nil {
			return err
		}
		if tm, _, err = st.TileMetadata(schema); err != nil {
			return err
		}
	}
	for _, c := range st.AvailableTiles() {
		if tm == nil {
			fmt.Fprintln(stdout, c)
			continue
		}
		e, _, err := st.TileEntity(tm, c)
		if err != nil {
			return err
		}
		if err = printEntity(stdout, c.String(), e); err != nil {
			return err
		}
	}
	return nil
}

// tableFile is the JSON layout read by the table command: the buffer
// structure and property tables of a glTF EXT_structural_metadata or
// similar container.
type tableFile struct {
	tiles3d.BinaryBufferStructure
	PropertyTables []*tiles3d.PropertyTable `json:"propertyTables"`
}

func cmdTable(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("table", stderr)
	schemaFile := fs.String("schema", "", "metadata schema JSON file")
	tableJSON := fs.String("table", "", "JSON file holding buffers, bufferViews, and propertyTables")
	bufferFile := fs.String("buffer", "", "binary file for buffers without a URI")
	index := fs.Int("index", -1, "index of the property table to print, or -1 for all")
	verbose := fs.Bool("v", false, "log debug output")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *schemaFile == "" || *tableJSON == "" {
		return fmt.Errorf("%w: -schema and -table are required", errUsage)
	}

	schema, err := readSchema(*schemaFile)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(*tableJSON)
	if err != nil {
		return err
	}
	var tf tableFile
	if err = json.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("%s: %w", *tableJSON, err)
	}

	logger := newLogger(*verbose, stderr)
	bufs, err := loadBuffers(ctx, tf.Buffers, *bufferFile, filepath.Dir(*tableJSON), logger)
	if err != nil {
		return err
	}

	for i, pt := range tf.PropertyTables {
		if *index >= 0 && i != *index {
			continue
		}
		bpt, err := tiles3d.NewBinaryPropertyTable(schema, pt, tf.BinaryBufferStructure, bufs)
		if err != nil {
			return fmt.Errorf("property table %d: %w", i, err)
		}
		tm, err := tiles3d.NewTableModel(bpt)
		if err != nil {
			return fmt.Errorf("property table %d: %w", i, err)
		}
		logger.Debug("printing table", "index", i, "table", bpt.String())
		for row := 0; row < tm.Count(); row++ {
			e, err := tm.Entity(row)
			if err != nil {
				return err
			}
			if err = printEntity(stdout, fmt.Sprintf("%d/%d", i, row), e); err != nil {
				return err
			}
		}
	}
	return nil
}

func readSchema(path string) (*tiles3d.Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return tiles3d.ParseSchema(data)
}

// loadBuffers reads buffers without a URI from bufferFile and resolves
// the rest relative to dir.
func loadBuffers(ctx context.Context, descs []tiles3d.Buffer, bufferFile, dir string, logger *buffers.Logger) ([][]byte, error) {
	out := make([][]byte, len(descs))
	var uris []string
	var external []int
	for i, desc := range descs {
		if desc.URI != "" {
			uris = append(uris, desc.URI)
			external = append(external, i)
			continue
		}
		if bufferFile == "" {
			return nil, fmt.Errorf("buffer %d has no URI and no -buffer was given", i)
		}
		data, err := os.ReadFile(bufferFile)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	fetched, err := buffers.ResolveAll(ctx, buffers.NewDirResolver(dir, buffers.WithLogger(logger)), uris, buffers.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	for j, i := range external {
		out[i] = fetched[j]
	}
	return out, nil
}

func printEntity(w io.Writer, key string, e *tiles3d.EntityModel) error {
	values, err := e.Values()
	if err != nil {
		return err
	}
	out, err := json.Marshal(struct {
		Key    string                 `json:"key"`
		Values map[string]interface{} `json:"values"`
	}{key, values})
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}
