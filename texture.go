package wad

import (
	"fmt"
	"image"
	"strings"
)

// TextureDef describes a composite wall texture as stored in TEXTURE1 and TEXTURE2.
type TextureDef struct {
	Name          string
	IsMasked      bool
	Width, Height int
	Patches       []PatchPlacement
}

// PatchPlacement places a picture, by PNAMES index, at an offset relative to the upper-left
// of the texture.
type PatchPlacement struct {
	XOffset    int
	YOffset    int
	PatchIndex int
}

const (
	textureHeaderSize  = 22
	patchPlacementSize = 10
)

// Alpha of a canvas pixel no patch has drawn to yet. It lets a transparent patch pixel tell an
// untouched pixel apart from one an earlier patch made opaque.
const untouchedAlpha = 1

// DecodeTextureDefs decodes a TEXTURE1/TEXTURE2 lump.
func DecodeTextureDefs(lump []byte) ([]TextureDef, error) {
	if len(lump) < 4 {
		return nil, fmt.Errorf("%w: texture lump is %v bytes", ErrSectionSizeMismatch, len(lump))
	}
	count := int(i32(lump))
	if count < 0 || 4+count*4 > len(lump) {
		return nil, fmt.Errorf("%w: texture lump declares %v textures in %v bytes", ErrSectionSizeMismatch, count, len(lump))
	}

	defs := make([]TextureDef, count)
	for i := range defs {
		offset := int(i32(lump[4+i*4:]))
		if offset < 0 || offset+textureHeaderSize > len(lump) {
			return nil, fmt.Errorf("%w: texture %v header at %v out of lump", ErrInvalidFormat, i, offset)
		}
		h := lump[offset:]
		def := TextureDef{
			Name:     readString8(h[0:8]).Upper(),
			IsMasked: i32(h[8:]) != 0,
			Width:    int(i16(h[12:])),
			Height:   int(i16(h[14:])),
			// h[16:20] is the unused column directory
		}
		numPatches := int(i16(h[20:]))
		start := offset + textureHeaderSize
		if numPatches < 0 || start+numPatches*patchPlacementSize > len(lump) {
			return nil, fmt.Errorf("%w: texture %v patches out of lump", ErrInvalidFormat, def.Name)
		}
		def.Patches = make([]PatchPlacement, numPatches)
		for pi := range def.Patches {
			p := lump[start+pi*patchPlacementSize:]
			def.Patches[pi] = PatchPlacement{
				XOffset:    int(i16(p[0:])),
				YOffset:    int(i16(p[2:])),
				PatchIndex: int(i16(p[4:])),
				// StepDir and ColorMap are unused
			}
		}
		defs[i] = def
	}
	return defs, nil
}

// Composite draws the patches of def onto a new canvas, back to front. The canvas is stored
// bottom row first: texture row y of a patch lands on canvas row Height-(YOffset+y)-1.
//
// A transparent patch pixel only reaches the canvas where nothing has been drawn yet, so a later
// patch never erases an earlier opaque pixel. Opaque patch pixels always overwrite.
func Composite(def TextureDef, patches []*Picture) (*image.RGBA, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, def.Width, def.Height))
	for i := 3; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = untouchedAlpha
	}

	for _, p := range def.Patches {
		if p.PatchIndex < 0 || p.PatchIndex >= len(patches) {
			return nil, fmt.Errorf("%w: texture %v uses patch %v of %v", ErrPatchIndexOutOfRange, def.Name, p.PatchIndex, len(patches))
		}
		pic := patches[p.PatchIndex]
		if pic == nil {
			return nil, fmt.Errorf("%w: texture %v patch %v", ErrLumpNotFound, def.Name, p.PatchIndex)
		}

		for y := range pic.Height {
			dy := def.Height - (p.YOffset + y) - 1
			if dy < 0 || dy >= def.Height {
				continue
			}
			for x := range pic.Width {
				dx := p.XOffset + x
				if dx < 0 || dx >= def.Width {
					continue
				}
				src := pic.Image.Pix[pic.Image.PixOffset(x, y):]
				dst := canvas.Pix[canvas.PixOffset(dx, dy):]
				if src[3] == 0 {
					if dst[3] <= untouchedAlpha {
						dst[3] = 0
					}
					continue
				}
				dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xff
			}
		}
	}
	return canvas, nil
}

// SkyPrefix is the name prefix of sky pictures, probed as SKY1, SKY2 and so on.
const SkyPrefix = "SKY"

// SkyFlatPrefix starts the name of the ceiling flat that marks an open sky.
const SkyFlatPrefix = "F_SKY"

// IsSkyFlat reports whether a flat name marks an open sky.
func IsSkyFlat(name string) bool {
	return strings.HasPrefix(strings.ToUpper(name), SkyFlatPrefix)
}

// readSkies probes SKY1, SKY2, ... until one is missing and returns each as an opaque raster.
func readSkies(w *WAD, pal *Palette) ([]*Picture, error) {
	skies := make([]*Picture, 0)
	for n := 1; ; n++ {
		name := fmt.Sprintf("%v%v", SkyPrefix, n)
		i, ok := w.Find(name, 0)
		if !ok {
			break
		}
		pic, err := DecodePicture(name, w.LumpBytes(i), pal)
		if err != nil {
			return nil, err
		}
		for a := 3; a < len(pic.Image.Pix); a += 4 {
			pic.Image.Pix[a] = 0xff
		}
		skies = append(skies, pic)
	}
	logger.Printf("Loaded %v skies", len(skies))
	return skies, nil
}
