package wad

import (
	"encoding/binary"
	"fmt"
)

var le = binary.LittleEndian

// ReadRecords finds the lump called name at or after index from and decodes it as a sequence of
// fixed-size records. Bytes past the last whole record are ignored.
func ReadRecords[T any](w *WAD, from int, name string, size int, decode func([]byte) T) ([]T, error) {
	i, ok := w.Find(name, from)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrLumpNotFound, name)
	}
	lump := w.LumpBytes(i)
	if len(lump) > 0 && len(lump) < size {
		return nil, fmt.Errorf("%w: %v is %v bytes, record size %v", ErrSectionSizeMismatch, name, len(lump), size)
	}
	count := len(lump) / size
	if rest := len(lump) % size; rest != 0 {
		logger.Printf("Ignoring %v trailing bytes in %v", rest, name)
	}

	records := make([]T, count)
	for j := range records {
		records[j] = decode(lump[j*size : (j+1)*size])
	}
	return records, nil
}

func i16(b []byte) int16 {
	return int16(le.Uint16(b))
}

func i32(b []byte) int32 {
	return int32(le.Uint32(b))
}
