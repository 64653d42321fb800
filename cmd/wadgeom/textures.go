package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/image/bmp"

	"github.com/stuarthighley/wadgeom"
)

type texturesCmd struct {
	inputPath string
	outputDir string
	format    string
	flats     bool
	sheets    bool
	workers   int
}

func (c *texturesCmd) Name() string     { return "textures" }
func (c *texturesCmd) Synopsis() string { return "export every texture of an archive as images" }
func (c *texturesCmd) Usage() string {
	return "wadgeom textures -i <path> -o <dir> [-f png|bmp -flats -sheets -j <workers>]\n"
}
func (c *texturesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.inputPath, "i", "", "Input WAD file path")
	f.StringVar(&c.outputDir, "o", ".", "Output directory")
	f.StringVar(&c.format, "f", "png", "Image format (png, bmp)")
	f.BoolVar(&c.flats, "flats", false, "Also export every flat between F_START and F_END")
	f.BoolVar(&c.sheets, "sheets", false, "Write one image per atlas bucket with its layers stacked")
	f.IntVar(&c.workers, "j", 1, "Number of goroutines")
}

func (c *texturesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.format != "png" && c.format != "bmp" {
		log.Printf("invalid image format: %q", c.format)
		return subcommands.ExitFailure
	}
	ctx, err := openContext(c.inputPath, c.workers)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	if c.flats {
		loadFlats(ctx)
	}
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	if c.sheets {
		err = c.exportSheets(ctx.Textures())
	} else {
		err = c.exportTextures(ctx.Textures())
	}
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *texturesCmd) exportTextures(r *wad.Registry) error {
	bar := progressbar.NewOptions(r.Len(), progressbar.OptionShowIts(), progressbar.OptionShowCount())
	defer func() {
		bar.Finish()
		fmt.Println()
	}()

	for _, t := range r.Textures() {
		if err := c.write(t.Name, r.Image(t.Key)); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

func (c *texturesCmd) exportSheets(r *wad.Registry) error {
	buckets := r.Buckets()
	bar := progressbar.NewOptions(len(buckets), progressbar.OptionShowIts(), progressbar.OptionShowCount())
	defer func() {
		bar.Finish()
		fmt.Println()
	}()

	for _, key := range buckets {
		layers := r.Layers(key)
		sheet := image.NewRGBA(image.Rect(0, 0, key.Width, key.Height*len(layers)))
		for i, layer := range layers {
			dst := image.Rect(0, i*key.Height, key.Width, (i+1)*key.Height)
			draw.Draw(sheet, dst, layer, image.Point{}, draw.Src)
		}
		if err := c.write(fmt.Sprintf("bucket_%vx%v", key.Width, key.Height), sheet); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

func (c *texturesCmd) write(name string, img image.Image) error {
	f, err := os.Create(filepath.Join(c.outputDir, name+"."+c.format))
	if err != nil {
		return err
	}
	defer f.Close()

	if c.format == "bmp" {
		err = bmp.Encode(f, img)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("%v: %w", name, err)
	}
	return f.Close()
}

// loadFlats registers every flat lump found between the flat markers.
func loadFlats(ctx *wad.Context) {
	w := ctx.WAD()
	inside := false
	for _, l := range w.Lumps() {
		switch l.Name {
		case "F_START", "FF_START":
			inside = true
			continue
		case "F_END", "FF_END":
			inside = false
			continue
		}
		if !inside || l.Size != wad.FlatWidth*wad.FlatHeight {
			continue
		}
		if _, err := ctx.Textures().Flat(l.Name); err != nil {
			log.Printf("flat %v: %v", l.Name, err)
		}
	}
}
