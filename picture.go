package wad

import (
	"fmt"
	"image"
)

// The doom picture (image) format. Sometimes called a patch, but this code considers a patch to
// be a placement of a picture inside a texture.
type Picture struct {
	Name                  string // Useful for debugging
	Width, Height         int
	LeftOffset, TopOffset int // Allows soulspheres, weapons and keys to float
	Image                 *image.RGBA
}

const pictureHeaderSize = 8

// DecodePicture expands a picture lump into an RGBA raster. Pixels not covered by any post stay
// fully transparent; drawn pixels are opaque palette colors. Overlapping posts overwrite each other
// in order.
func DecodePicture(name string, lump []byte, pal *Palette) (*Picture, error) {
	if len(lump) < pictureHeaderSize {
		return nil, fmt.Errorf("%w: picture %v truncated", ErrInvalidFormat, name)
	}
	width, height := int(i16(lump[0:])), int(i16(lump[2:]))
	if width < 0 || height < 0 || pictureHeaderSize+width*4 > len(lump) {
		return nil, fmt.Errorf("%w: picture %v has bad size %vx%v", ErrInvalidFormat, name, width, height)
	}

	pic := &Picture{
		Name:       name,
		Width:      width,
		Height:     height,
		LeftOffset: int(i16(lump[4:])),
		TopOffset:  int(i16(lump[6:])),
		Image:      image.NewRGBA(image.Rect(0, 0, width, height)),
	}

	// For each column offset, expand out the posts into columns
	for x := range width {
		offset := int(i32(lump[pictureHeaderSize+x*4:]))
		for {
			if offset < 0 || offset >= len(lump) {
				return nil, fmt.Errorf("%w: picture %v column %v runs past lump", ErrInvalidFormat, name, x)
			}
			topDelta := int(lump[offset])
			if topDelta == 255 {
				break
			}
			if offset+3 > len(lump) {
				return nil, fmt.Errorf("%w: picture %v column %v runs past lump", ErrInvalidFormat, name, x)
			}
			numPixels := int(lump[offset+1])
			offset += 3 // Row start, count and padding
			if offset+numPixels+1 > len(lump) {
				return nil, fmt.Errorf("%w: picture %v column %v runs past lump", ErrInvalidFormat, name, x)
			}
			for i := range numPixels {
				y := topDelta + i
				if y >= height {
					break
				}
				c := pal[lump[offset+i]]
				p := pic.Image.PixOffset(x, y)
				pic.Image.Pix[p+0] = c.Red
				pic.Image.Pix[p+1] = c.Green
				pic.Image.Pix[p+2] = c.Blue
				pic.Image.Pix[p+3] = 0xff
			}
			offset += numPixels + 1 // Padding
		}
	}

	return pic, nil
}

// Picture reads and decodes the picture lump called name.
func (w *WAD) Picture(name string, pal *Palette) (*Picture, error) {
	lump, err := w.Lump(name)
	if err != nil {
		return nil, err
	}
	return DecodePicture(name, lump, pal)
}
