// Package wadtest assembles small archives in memory for tests.
package wadtest

import "encoding/binary"

var le = binary.LittleEndian

type lump struct {
	name string
	data []byte
}

// Builder collects lumps and lays them out as an archive.
type Builder struct {
	magic string
	lumps []lump
}

// New returns a builder for an IWAD.
func New() *Builder {
	return &Builder{magic: "IWAD"}
}

// PWAD switches the archive kind to a patch archive.
func (b *Builder) PWAD() *Builder {
	b.magic = "PWAD"
	return b
}

// Add appends a lump. Names longer than eight bytes are cut.
func (b *Builder) Add(name string, data []byte) *Builder {
	b.lumps = append(b.lumps, lump{name: name, data: data})
	return b
}

// Bytes returns the archive: header, lump data, then the directory.
func (b *Builder) Bytes() []byte {
	out := make([]byte, 12)
	offsets := make([]int, len(b.lumps))
	for i, l := range b.lumps {
		offsets[i] = len(out)
		out = append(out, l.data...)
	}
	dir := len(out)
	for i, l := range b.lumps {
		out = le.AppendUint32(out, uint32(offsets[i]))
		out = le.AppendUint32(out, uint32(len(l.data)))
		out = append(out, Name8(l.name)...)
	}
	copy(out[0:4], b.magic)
	le.PutUint32(out[4:], uint32(len(b.lumps)))
	le.PutUint32(out[8:], uint32(dir))
	return out
}

// Name8 pads or cuts name to an eight byte field.
func Name8(name string) []byte {
	f := make([]byte, 8)
	copy(f, name)
	return f
}

// Color is the palette entry used at index i by Palette.
func Color(i int) (r, g, b uint8) {
	return uint8(i), uint8(255 - i), uint8(i / 2)
}

// Palette returns a PLAYPAL lump holding one palette of distinct colors.
func Palette() []byte {
	out := make([]byte, 0, 768)
	for i := range 256 {
		r, g, b := Color(i)
		out = append(out, r, g, b)
	}
	return out
}

// Picture encodes a picture lump. pixels is indexed [y][x]; a negative value is transparent.
func Picture(pixels [][]int) []byte {
	height := len(pixels)
	width := 0
	if height > 0 {
		width = len(pixels[0])
	}

	out := make([]byte, 0)
	out = le.AppendUint16(out, uint16(width))
	out = le.AppendUint16(out, uint16(height))
	out = le.AppendUint16(out, 0)
	out = le.AppendUint16(out, 0)
	table := len(out)
	out = append(out, make([]byte, width*4)...)

	for x := range width {
		le.PutUint32(out[table+x*4:], uint32(len(out)))
		for y := 0; y < height; {
			if pixels[y][x] < 0 {
				y++
				continue
			}
			start := y
			for y < height && pixels[y][x] >= 0 {
				y++
			}
			out = append(out, byte(start), byte(y-start), 0)
			for _, row := range pixels[start:y] {
				out = append(out, byte(row[x]))
			}
			out = append(out, 0)
		}
		out = append(out, 0xff)
	}
	return out
}

// Solid returns pixels of one palette index, for Picture.
func Solid(width, height, index int) [][]int {
	pixels := make([][]int, height)
	for y := range pixels {
		pixels[y] = make([]int, width)
		for x := range pixels[y] {
			pixels[y][x] = index
		}
	}
	return pixels
}

// PatchNames encodes a PNAMES lump.
func PatchNames(names ...string) []byte {
	out := le.AppendUint32(nil, uint32(len(names)))
	for _, n := range names {
		out = append(out, Name8(n)...)
	}
	return out
}

// Patch places patch Index at X, Y inside a Texture.
type Patch struct {
	X, Y  int
	Index int
}

// Texture is a composite texture definition for TextureLump.
type Texture struct {
	Name          string
	Width, Height int
	Patches       []Patch
}

// TextureLump encodes a TEXTURE1 or TEXTURE2 lump.
func TextureLump(textures ...Texture) []byte {
	out := le.AppendUint32(nil, uint32(len(textures)))
	table := len(out)
	out = append(out, make([]byte, len(textures)*4)...)
	for i, t := range textures {
		le.PutUint32(out[table+i*4:], uint32(len(out)))
		out = append(out, Name8(t.Name)...)
		out = le.AppendUint32(out, 0) // masked
		out = le.AppendUint16(out, uint16(t.Width))
		out = le.AppendUint16(out, uint16(t.Height))
		out = le.AppendUint32(out, 0) // column directory
		out = le.AppendUint16(out, uint16(len(t.Patches)))
		for _, p := range t.Patches {
			out = le.AppendUint16(out, uint16(p.X))
			out = le.AppendUint16(out, uint16(p.Y))
			out = le.AppendUint16(out, uint16(p.Index))
			out = le.AppendUint16(out, 1) // step dir
			out = le.AppendUint16(out, 0) // color map
		}
	}
	return out
}

// Flat returns a 64x64 flat lump of one palette index.
func Flat(index byte) []byte {
	out := make([]byte, 64*64)
	for i := range out {
		out[i] = index
	}
	return out
}
