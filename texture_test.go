package wad_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stuarthighley/wadgeom"
	"github.com/stuarthighley/wadgeom/internal/wadtest"
)

func testPalette(t *testing.T) *wad.Palette {
	t.Helper()
	pal, err := wad.DecodePalette(wadtest.Palette())
	require.NoError(t, err)
	return pal
}

func TestDecodePalette(t *testing.T) {
	pal := testPalette(t)
	r, g, b := wadtest.Color(200)
	require.Equal(t, wad.RGB{Red: r, Green: g, Blue: b}, pal[200])

	_, err := wad.DecodePalette(make([]byte, 767))
	require.Truef(t, errors.Is(err, wad.ErrSectionSizeMismatch), "%v", err)
}

func TestDecodePicture(t *testing.T) {
	pal := testPalette(t)
	pic, err := wad.DecodePicture("P", wadtest.Picture([][]int{
		{1, -1, 4},
		{2, -1, -1},
		{3, 5, 6},
	}), pal)
	require.NoError(t, err)
	require.Equal(t, 3, pic.Width)
	require.Equal(t, 3, pic.Height)

	require.Equal(t, rgba(1), pixel(pic.Image, 0, 0))
	require.Equal(t, rgba(3), pixel(pic.Image, 0, 2))
	require.Equal(t, rgba(5), pixel(pic.Image, 1, 2))
	require.Equal(t, []uint8{0, 0, 0, 0}, pixel(pic.Image, 1, 0))
	require.Equal(t, []uint8{0, 0, 0, 0}, pixel(pic.Image, 2, 1))
}

func TestDecodePictureErrors(t *testing.T) {
	pal := testPalette(t)
	lump := wadtest.Picture(wadtest.Solid(4, 4, 1))

	for _, tc := range []struct {
		name string
		lump []byte
	}{
		{"header", lump[:6]},
		{"column table", lump[:12]},
		{"posts", lump[:len(lump)-3]},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := wad.DecodePicture("P", tc.lump, pal)
			require.Truef(t, errors.Is(err, wad.ErrInvalidFormat), "%v", err)
		})
	}
}

func TestDecodeTextureDefs(t *testing.T) {
	defs, err := wad.DecodeTextureDefs(wadtest.TextureLump(
		wadtest.Texture{Name: "door", Width: 64, Height: 72, Patches: []wadtest.Patch{{X: 0, Y: 0, Index: 2}, {X: 32, Y: -8, Index: 0}}},
		wadtest.Texture{Name: "EMPTY", Width: 8, Height: 8},
	))
	require.NoError(t, err)

	want := []wad.TextureDef{
		{Name: "DOOR", Width: 64, Height: 72, Patches: []wad.PatchPlacement{{XOffset: 0, YOffset: 0, PatchIndex: 2}, {XOffset: 32, YOffset: -8, PatchIndex: 0}}},
		{Name: "EMPTY", Width: 8, Height: 8, Patches: []wad.PatchPlacement{}},
	}
	if diff := cmp.Diff(want, defs); diff != "" {
		t.Errorf("DecodeTextureDefs mismatch (-want +got):\n%s", diff)
	}

	_, err = wad.DecodeTextureDefs([]byte{1, 0})
	require.Truef(t, errors.Is(err, wad.ErrSectionSizeMismatch), "%v", err)
}

func TestCompositeSinglePatch(t *testing.T) {
	pal := testPalette(t)
	pixels := [][]int{
		{1, 2, 3},
		{4, 5, 6},
	}
	pic, err := wad.DecodePicture("P", wadtest.Picture(pixels), pal)
	require.NoError(t, err)

	def := wad.TextureDef{Name: "T", Width: 3, Height: 2, Patches: []wad.PatchPlacement{{PatchIndex: 0}}}
	img, err := wad.Composite(def, []*wad.Picture{pic})
	require.NoError(t, err)

	// rows are stored bottom first
	for y, row := range pixels {
		for x, index := range row {
			require.Equalf(t, rgba(index), pixel(img, x, def.Height-y-1), "pixel %v,%v", x, y)
		}
	}
}

func TestCompositeTransparency(t *testing.T) {
	pal := testPalette(t)
	opaque, err := wad.DecodePicture("A", wadtest.Picture(wadtest.Solid(2, 2, 5)), pal)
	require.NoError(t, err)
	empty, err := wad.DecodePicture("B", wadtest.Picture(wadtest.Solid(2, 2, -1)), pal)
	require.NoError(t, err)

	def := wad.TextureDef{Name: "T", Width: 6, Height: 2, Patches: []wad.PatchPlacement{
		{XOffset: 0, PatchIndex: 0},
		{XOffset: 0, PatchIndex: 1},
		{XOffset: 2, PatchIndex: 1},
	}}
	img, err := wad.Composite(def, []*wad.Picture{opaque, empty})
	require.NoError(t, err)

	for y := range 2 {
		// an opaque pixel survives a later transparent one
		require.Equal(t, rgba(5), pixel(img, 0, y))
		require.Equal(t, rgba(5), pixel(img, 1, y))
		// a transparent patch clears untouched pixels
		require.Equal(t, uint8(0), pixel(img, 2, y)[3])
		require.Equal(t, uint8(0), pixel(img, 3, y)[3])
		// nothing drew here
		require.Equal(t, uint8(1), pixel(img, 4, y)[3])
		require.Equal(t, uint8(1), pixel(img, 5, y)[3])
	}
}

func TestCompositeTransparentFirst(t *testing.T) {
	pal := testPalette(t)
	opaque, err := wad.DecodePicture("A", wadtest.Picture(wadtest.Solid(2, 2, 5)), pal)
	require.NoError(t, err)
	empty, err := wad.DecodePicture("B", wadtest.Picture(wadtest.Solid(2, 2, -1)), pal)
	require.NoError(t, err)

	def := wad.TextureDef{Name: "T", Width: 2, Height: 2, Patches: []wad.PatchPlacement{
		{PatchIndex: 1},
		{PatchIndex: 0},
	}}
	img, err := wad.Composite(def, []*wad.Picture{opaque, empty})
	require.NoError(t, err)

	for y := range 2 {
		for x := range 2 {
			require.Equal(t, rgba(5), pixel(img, x, y))
		}
	}
}

func TestCompositeClipping(t *testing.T) {
	pal := testPalette(t)
	pic, err := wad.DecodePicture("P", wadtest.Picture(wadtest.Solid(4, 4, 2)), pal)
	require.NoError(t, err)

	def := wad.TextureDef{Name: "T", Width: 4, Height: 4, Patches: []wad.PatchPlacement{{XOffset: -2, YOffset: 3, PatchIndex: 0}}}
	img, err := wad.Composite(def, []*wad.Picture{pic})
	require.NoError(t, err)

	// patch row 0 lands on canvas row 0, the bottom
	require.Equal(t, rgba(2), pixel(img, 0, 0))
	require.Equal(t, rgba(2), pixel(img, 1, 0))
	require.Equal(t, uint8(1), pixel(img, 2, 0)[3])
	require.Equal(t, uint8(1), pixel(img, 0, 1)[3])
}

func TestCompositeErrors(t *testing.T) {
	def := wad.TextureDef{Name: "T", Width: 4, Height: 4, Patches: []wad.PatchPlacement{{PatchIndex: 3}}}
	_, err := wad.Composite(def, make([]*wad.Picture, 2))
	require.Truef(t, errors.Is(err, wad.ErrPatchIndexOutOfRange), "%v", err)

	def.Patches[0].PatchIndex = 1
	_, err = wad.Composite(def, make([]*wad.Picture, 2))
	require.Truef(t, errors.Is(err, wad.ErrLumpNotFound), "%v", err)
}

func TestIsSkyFlat(t *testing.T) {
	require.True(t, wad.IsSkyFlat("F_SKY1"))
	require.True(t, wad.IsSkyFlat("f_sky"))
	require.False(t, wad.IsSkyFlat("FLOOR4_8"))
}

func TestDecodeFlat(t *testing.T) {
	pal := testPalette(t)
	img, err := wad.DecodeFlat("F", wadtest.Flat(floorIndex), pal)
	require.NoError(t, err)
	require.Equal(t, 64, img.Bounds().Dx())
	require.Equal(t, rgba(floorIndex), pixel(img, 63, 63))

	_, err = wad.DecodeFlat("F", make([]byte, 100), pal)
	require.Truef(t, errors.Is(err, wad.ErrSectionSizeMismatch), "%v", err)
}
