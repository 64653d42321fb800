package wad_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadgeom"
	"github.com/stuarthighley/wadgeom/internal/wadtest"
)

const (
	wallIndex  = 7
	smallIndex = 9
	skyIndex   = 11
	floorIndex = 3
)

// fixture is a small archive with a palette, three composite textures, a sky, two flats and a
// square room called E1M1.
func fixture() *wadtest.Builder {
	return wadtest.New().
		Add("PLAYPAL", wadtest.Palette()).
		Add("PNAMES", wadtest.PatchNames("WALLP", "SMALLP")).
		Add("TEXTURE1", wadtest.TextureLump(
			wadtest.Texture{Name: "WALL", Width: 64, Height: 128, Patches: []wadtest.Patch{{Index: 0}}},
			wadtest.Texture{Name: "SMALL", Width: 16, Height: 16, Patches: []wadtest.Patch{{Index: 1}}},
			wadtest.Texture{Name: "SMALL2", Width: 16, Height: 16, Patches: []wadtest.Patch{{Index: 1}}},
		)).
		Add("WALLP", wadtest.Picture(wadtest.Solid(64, 128, wallIndex))).
		Add("SMALLP", wadtest.Picture(wadtest.Solid(16, 16, smallIndex))).
		Add("SKY1", wadtest.Picture(wadtest.Solid(32, 16, skyIndex))).
		Add("F_START", nil).
		Add("FLOOR1", wadtest.Flat(floorIndex)).
		Add("F_SKY1", wadtest.Flat(1)).
		Add("F_END", nil).
		AddLevel("E1M1", wadtest.Room(256, 0, 128, "WALL", "FLOOR1"))
}

func open(t *testing.T, b *wadtest.Builder) *wad.WAD {
	t.Helper()
	w, err := wad.Open(b.Bytes())
	require.NoError(t, err)
	return w
}

func palette(t *testing.T, w *wad.WAD) *wad.Palette {
	t.Helper()
	pal, err := wad.ReadPalette(w)
	require.NoError(t, err)
	return pal
}

// rgba returns the color of palette index i as the four bytes of an opaque pixel.
func rgba(i int) []uint8 {
	r, g, b := wadtest.Color(i)
	return []uint8{r, g, b, 0xff}
}

func pixel(img *image.RGBA, x, y int) []uint8 {
	o := img.PixOffset(x, y)
	return img.Pix[o : o+4]
}

// recorder is an Uploader that keeps every call.
type recorder struct {
	uploads []upload
}

type upload struct {
	bucket wad.BucketKey
	layers int
}

func (r *recorder) UploadLayers(bucket wad.BucketKey, layers []*image.RGBA) error {
	r.uploads = append(r.uploads, upload{bucket, len(layers)})
	return nil
}
