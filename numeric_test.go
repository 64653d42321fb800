package wad

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPegOffset(t *testing.T) {
	for _, tc := range []struct {
		extent, height float32
		want           float32
	}{
		{128, 128, 0},
		{256, 128, 0},
		{0, 128, 0},
		{64, 128, 64},
		{32, 128, 96},
		{160, 128, 96},
		{72, 0, 0},
	} {
		require.Equalf(t, tc.want, pegOffset(tc.extent, tc.height), "pegOffset(%v, %v)", tc.extent, tc.height)
	}
}

func TestFract(t *testing.T) {
	require.Equal(t, 0.25, fract(2.25))
	require.Equal(t, 0.75, fract(-0.25))
	require.Equal(t, float32(0), fract(float32(3)))
}

func TestClamp(t *testing.T) {
	require.Equal(t, 0, clamp(-5, 0, 10))
	require.Equal(t, 10, clamp(15, 0, 10))
	require.Equal(t, float32(0.5), clamp(float32(0.5), 0, 1))
}
