package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/google/subcommands"
	_ "github.com/mattn/go-sqlite3"

	"github.com/stuarthighley/wadgeom"
)

var verbose = flag.Bool("v", false, "Log progress to stderr")

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&mapsCmd{}, "")
	subcommands.Register(&mapCmd{}, "")
	subcommands.Register(&texturesCmd{}, "")
	subcommands.Register(&bakeCmd{}, "")

	flag.Parse()
	if *verbose {
		wad.SetLogger(log.New(os.Stderr, "", log.LstdFlags))
	}
	os.Exit(int(subcommands.Execute(context.Background())))
}

// openContext opens the archive at path and loads its textures.
func openContext(path string, workers int) (*wad.Context, error) {
	w, err := wad.NewWAD(path)
	if err != nil {
		return nil, err
	}
	return wad.NewContext(w, wad.WithWorkers(workers))
}
