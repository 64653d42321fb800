package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"

	"github.com/stuarthighley/wadgeom/bake"
)

type bakeCmd struct {
	inputPath  string
	outputPath string
	maps       string
	workers    int
}

func (c *bakeCmd) Name() string     { return "bake" }
func (c *bakeCmd) Synopsis() string { return "store textures and map geometry in an SQLite file" }
func (c *bakeCmd) Usage() string {
	return "wadgeom bake -i <path> -o <path> [-m <name> -j <workers>]\n"
}
func (c *bakeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input WAD file path")
	f.StringVar(&c.outputPath, "o", "", "Output bake file path")
	f.StringVar(&c.maps, "m", "", "Bake only this map (default all)")
	f.IntVar(&c.workers, "j", 1, "Number of goroutines")
}

func (c *bakeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if err := c.bake(); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *bakeCmd) bake() error {
	ctx, err := openContext(c.inputPath, c.workers)
	if err != nil {
		return err
	}

	names := ctx.WAD().LevelNames()
	if c.maps != "" {
		names = []string{c.maps}
	}

	opts := []bake.WriterOption{
		bake.WithMetadata(map[string]string{
			"source": filepath.Base(c.inputPath),
			"kind":   ctx.WAD().Kind().String(),
		}),
	}
	if *verbose {
		opts = append(opts, bake.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	writer, err := bake.NewWriter(c.outputPath, opts...)
	if err != nil {
		return err
	}
	defer writer.Close()

	// maps come first so that their flats are in the registry when textures are written
	bar := progressbar.NewOptions(len(names), progressbar.OptionShowIts(), progressbar.OptionShowCount())
	for _, name := range names {
		g, err := ctx.LoadMap(name)
		if err != nil {
			return err
		}
		if err := g.Err(); err != nil {
			log.Printf("%v: %v", name, err)
		}
		if err := writer.WriteMap(g); err != nil {
			return err
		}
		bar.Add(1)
	}
	bar.Finish()
	fmt.Println()

	if err := writer.WriteTextures(ctx.Textures()); err != nil {
		return err
	}
	if err := writer.Finalize(); err != nil {
		return err
	}
	return writer.Close()
}
