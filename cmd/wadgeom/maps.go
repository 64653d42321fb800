package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/google/subcommands"

	"github.com/stuarthighley/wadgeom"
)

type mapsCmd struct {
	inputPath string
}

func (c *mapsCmd) Name() string     { return "maps" }
func (c *mapsCmd) Synopsis() string { return "list the maps of an archive" }
func (c *mapsCmd) Usage() string {
	return "wadgeom maps -i <path>\n"
}
func (c *mapsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input WAD file path")
}

func (c *mapsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	w, err := wad.NewWAD(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%v with %v lumps\n", w.Kind(), w.NumLumps())
	for _, name := range w.LevelNames() {
		fmt.Println(name)
	}
	return subcommands.ExitSuccess
}

type mapCmd struct {
	inputPath string
	mapName   string
	sky       string
	workers   int
}

func (c *mapCmd) Name() string     { return "map" }
func (c *mapCmd) Synopsis() string { return "build the geometry of a map and print statistics" }
func (c *mapCmd) Usage() string {
	return "wadgeom map -i <path> -m <name> [-sky <texture> -j <workers>]\n"
}
func (c *mapCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input WAD file path")
	f.StringVar(&c.mapName, "m", "", "Map name, e.g. E1M1 or MAP01")
	f.StringVar(&c.sky, "sky", wad.DefaultSkyTexture, "Texture for upper walls next to an open sky")
	f.IntVar(&c.workers, "j", 1, "Number of goroutines")
}

func (c *mapCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	w, err := wad.NewWAD(c.inputPath)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	ctx, err := wad.NewContext(w, wad.WithWorkers(c.workers), wad.WithSkyTexture(c.sky))
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	g, err := ctx.LoadMap(c.mapName)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	triangles, holes := 0, 0
	for _, s := range g.Sectors {
		triangles += s.Polygon.Triangles()
		holes += len(s.Polygon.Holes)
	}
	fmt.Printf("map:          %v\n", g.Name)
	fmt.Printf("lines:        %v\n", len(g.Level.Lines))
	fmt.Printf("wall batches: %v\n", len(g.Walls))
	fmt.Printf("wall quads:   %v\n", g.Quads())
	fmt.Printf("sectors:      %v\n", len(g.Sectors))
	fmt.Printf("holes:        %v\n", holes)
	fmt.Printf("triangles:    %v\n", triangles)
	fmt.Printf("textures:     %v in %v buckets\n", ctx.Textures().Len(), len(ctx.Textures().Buckets()))

	if err := g.Err(); err != nil {
		for _, e := range unwrapAll(err) {
			fmt.Printf("warning: %v\n", e)
		}
	}
	return subcommands.ExitSuccess
}

// unwrapAll flattens an error built with errors.Join.
func unwrapAll(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
