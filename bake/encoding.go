package bake

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// encode packs a slice of fixed-size values little-endian.
func encode(data any) []byte {
	b, err := binary.Append(nil, binary.LittleEndian, data)
	if err != nil {
		// only reachable with a type that has no fixed size
		panic(err)
	}
	return b
}

// decode unpacks a blob written by encode into a slice of T.
func decode[T any](blob []byte) ([]T, error) {
	var zero T
	size := binary.Size(zero)
	if size <= 0 || len(blob)%size != 0 {
		return nil, fmt.Errorf("bake: blob of %v bytes is not a multiple of %v", len(blob), size)
	}
	out := make([]T, len(blob)/size)
	if err := binary.Read(bytes.NewReader(blob), binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}

func toInt32(v []int) []int32 {
	out := make([]int32, len(v))
	for i, x := range v {
		out[i] = int32(x)
	}
	return out
}

func toInt(v []int32) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}
