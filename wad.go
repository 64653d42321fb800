// Package wad provides access to Doom's data archives also known as WAD files, and turns their
// contents into texture atlases and level geometry ready for a renderer.
// The file format is documented in The Unofficial DOOM Specs:
// http://www.gamers.org/dhs/helpdocs/dmsp1666.html

package wad

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
	"strings"
)

// WAD is a struct that represents Doom's data archive that contains graphics, sounds, and level
// data. The data is organized as named lumps. A WAD is read-only once opened.
type WAD struct {
	header Header
	data   []byte
	lumps  []Lump
}

// Kind distinguishes a full game archive from an incremental patch archive.
type Kind int

const (
	KindIWAD Kind = iota
	KindPWAD
)

func (k Kind) String() string {
	if k == KindPWAD {
		return "PWAD"
	}
	return "IWAD"
}

type Header struct {
	Kind         Kind
	NumLumps     int
	InfoTableOfs int
}

// Lump is a directory entry. Filepos and Size address the lump inside the archive buffer.
type Lump struct {
	Name    string
	Filepos int
	Size    int

	rawName String8
}

const (
	headerSize   = 12
	lumpInfoSize = 16
)

// WAD eight-character string type. Null-terminated for short strings.
type String8 [8]byte

// String converts String8 to string
func (s String8) String() string {
	i := bytes.IndexByte(s[:], 0)
	if i == -1 {
		i = len(s)
	}
	return strings.TrimRight(string(s[0:i]), " ")
}

// Upper returns the upper-cased name, which is how names are looked up.
func (s String8) Upper() string {
	return strings.ToUpper(s.String())
}

func readString8(b []byte) String8 {
	var s String8
	copy(s[:], b)
	return s
}

// NewWAD reads a WAD file into memory and opens it.
func NewWAD(filename string) (*WAD, error) {
	logger.Printf("Start reading WAD %v", filename)
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Open(data)
}

// Open parses the header and directory of an in-memory archive. The returned WAD keeps data and
// hands out sub-slices of it, so the caller must not modify data afterwards.
func Open(data []byte) (*WAD, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header (%v bytes)", ErrInvalidFormat, len(data))
	}

	var kind Kind
	switch string(data[0:4]) {
	case "IWAD":
		kind = KindIWAD
	case "PWAD":
		kind = KindPWAD
	default:
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidFormat, data[0:4])
	}

	le := binary.LittleEndian
	numLumps := int(int32(le.Uint32(data[4:8])))
	infoTableOfs := int(int32(le.Uint32(data[8:12])))
	if numLumps < 0 || infoTableOfs < 0 || infoTableOfs+numLumps*lumpInfoSize > len(data) {
		return nil, fmt.Errorf("%w: directory of %v lumps at %v exceeds %v bytes",
			ErrInvalidFormat, numLumps, infoTableOfs, len(data))
	}

	w := &WAD{
		header: Header{Kind: kind, NumLumps: numLumps, InfoTableOfs: infoTableOfs},
		data:   data,
		lumps:  make([]Lump, numLumps),
	}
	for i := range numLumps {
		rec := data[infoTableOfs+i*lumpInfoSize:]
		lump := Lump{
			Filepos: int(int32(le.Uint32(rec[0:4]))),
			Size:    int(int32(le.Uint32(rec[4:8]))),
			rawName: readString8(rec[8:16]),
		}
		lump.Name = lump.rawName.Upper()
		if lump.Filepos < 0 || lump.Size < 0 || lump.Filepos+lump.Size > len(data) {
			return nil, fmt.Errorf("%w: lump %v (%v) out of bounds", ErrInvalidFormat, i, lump.Name)
		}
		w.lumps[i] = lump
	}
	logger.Printf("Opened %v with %v lumps", kind, numLumps)

	return w, nil
}

// Header returns the decoded archive header.
func (w *WAD) Header() Header {
	return w.header
}

// Kind reports whether the archive is a full or a patch archive.
func (w *WAD) Kind() Kind {
	return w.header.Kind
}

// NumLumps returns the number of directory entries.
func (w *WAD) NumLumps() int {
	return len(w.lumps)
}

// Lumps returns a copy of the directory.
func (w *WAD) Lumps() []Lump {
	return append([]Lump(nil), w.lumps...)
}

// LumpInfo returns the directory entry at index i.
func (w *WAD) LumpInfo(i int) Lump {
	return w.lumps[i]
}

// Find returns the index of the first lump at or after from whose name starts with name.
// Names are compared upper-cased, and only up to the length of the query, so "E1M" matches
// "E1M1". Queries longer than eight characters never match.
func (w *WAD) Find(name string, from int) (int, bool) {
	query := []byte(strings.ToUpper(name))
	if len(query) == 0 || len(query) > len(String8{}) {
		return 0, false
	}
	for i := max(from, 0); i < len(w.lumps); i++ {
		raw := w.lumps[i].rawName
		if bytes.Equal(bytes.ToUpper(raw[:len(query)]), query) {
			return i, true
		}
	}
	return 0, false
}

// LumpBytes returns the contents of lump i. The slice aliases the archive buffer.
func (w *WAD) LumpBytes(i int) []byte {
	l := w.lumps[i]
	return w.data[l.Filepos : l.Filepos+l.Size : l.Filepos+l.Size]
}

// Lump returns the contents of the first lump matching name.
func (w *WAD) Lump(name string) ([]byte, error) {
	i, ok := w.Find(name, 0)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrLumpNotFound, name)
	}
	return w.LumpBytes(i), nil
}

// LevelNames returns a slice of level names found in the WAD archive. A level is a marker lump
// directly followed by a THINGS lump.
func (w *WAD) LevelNames() []string {
	result := make([]string, 0)
	for i := 1; i < len(w.lumps); i++ {
		if w.lumps[i].Name == "THINGS" {
			result = append(result, w.lumps[i-1].Name)
		}
	}
	sort.Strings(result)
	return result
}
