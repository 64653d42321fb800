package wad

import (
	"fmt"
	"strings"
)

type RGB struct {
	Red, Green, Blue uint8
}

// Each palette in PLAYPAL contains 256 three-ubyte colors totaling 768 bytes (RGB). PLAYPAL holds
// fourteen of them for palette swap effects; only the first one is used here.
type Palette [256]RGB

const paletteSize = 256 * 3

// ReadPalette decodes the first palette of the PLAYPAL lump.
func ReadPalette(w *WAD) (*Palette, error) {
	logger.Println("Loading PLAYPAL ...")
	lump, err := w.Lump("PLAYPAL")
	if err != nil {
		return nil, err
	}
	return DecodePalette(lump)
}

// DecodePalette decodes a palette from the first 768 bytes of b.
func DecodePalette(b []byte) (*Palette, error) {
	if len(b) < paletteSize {
		return nil, fmt.Errorf("%w: palette is %v bytes", ErrSectionSizeMismatch, len(b))
	}
	var pal Palette
	for i := range pal {
		pal[i] = RGB{b[i*3], b[i*3+1], b[i*3+2]}
	}
	return &pal, nil
}

// ReadPatchNames reads the PNAMES lump to populate a slice of patch names
func ReadPatchNames(w *WAD) ([]string, error) {
	logger.Printf("Loading patch names ...\n")
	lump, err := w.Lump("PNAMES")
	if err != nil {
		return nil, err
	}
	if len(lump) < 4 {
		return nil, fmt.Errorf("%w: PNAMES is %v bytes", ErrSectionSizeMismatch, len(lump))
	}

	count := int(i32(lump))
	if count < 0 || 4+count*8 > len(lump) {
		return nil, fmt.Errorf("%w: PNAMES declares %v names in %v bytes", ErrSectionSizeMismatch, count, len(lump))
	}
	patchNames := make([]string, count)
	for i := range patchNames {
		patchNames[i] = strings.ToUpper(readString8(lump[4+i*8:]).String()) // ToUpper required for "w94_1" patch
	}
	return patchNames, nil
}
