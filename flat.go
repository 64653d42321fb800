package wad

import (
	"fmt"
	"image"
)

// A flat is an image that is drawn on the floors and ceilings of sectors.
// Flats are a raw collection of pixel values with no offset or other dimension information; each
// flat is a named lump of 4096 bytes representing a 64×64 square.
const FlatWidth, FlatHeight = 64, 64

// DecodeFlat converts a raw flat lump into an opaque RGBA raster, top row first.
func DecodeFlat(name string, lump []byte, pal *Palette) (*image.RGBA, error) {
	if len(lump) < FlatWidth*FlatHeight {
		return nil, fmt.Errorf("%w: flat %v is %v bytes", ErrSectionSizeMismatch, name, len(lump))
	}
	img := image.NewRGBA(image.Rect(0, 0, FlatWidth, FlatHeight))
	for i, b := range lump[:FlatWidth*FlatHeight] {
		c := pal[b]
		img.Pix[i*4+0] = c.Red
		img.Pix[i*4+1] = c.Green
		img.Pix[i*4+2] = c.Blue
		img.Pix[i*4+3] = 0xff
	}
	return img, nil
}
