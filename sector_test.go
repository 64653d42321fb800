package wad

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float32) []segment {
	p := []mgl32.Vec2{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}}
	return []segment{{p[0], p[1]}, {p[1], p[2]}, {p[2], p[3]}, {p[3], p[0]}}
}

func TestAssembleChainsClosed(t *testing.T) {
	segs := square(0, 0, 64)
	// any order and direction
	segs[0], segs[2] = segs[2], segs[0]
	segs[1] = segment{segs[1].b, segs[1].a}

	chains, err := assembleChains(segs)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0], 4)

	poly, err := triangulate(chains)
	require.NoError(t, err)
	require.Empty(t, poly.Holes)
	require.Equal(t, 2, poly.Triangles())
}

func TestAssembleChainsTolerance(t *testing.T) {
	segs := square(0, 0, 64)
	segs[2].a = segs[2].a.Add(mgl32.Vec2{1e-4, -1e-4})

	chains, err := assembleChains(segs)
	require.NoError(t, err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0], 4)
}

func TestAssembleChainsWithHole(t *testing.T) {
	segs := append(square(0, 0, 256), square(64, 64, 64)...)

	chains, err := assembleChains(segs)
	require.NoError(t, err)
	require.Len(t, chains, 2)

	poly, err := triangulate(chains)
	require.NoError(t, err)
	require.Equal(t, []int{4}, poly.Holes)
	require.Len(t, poly.Points, 8)
	// n + 2h - 2
	require.Equal(t, 8, poly.Triangles())
}

func TestAssembleChainsOpen(t *testing.T) {
	segs := square(0, 0, 64)[:3]

	chains, err := assembleChains(segs)
	require.Truef(t, errors.Is(err, ErrMalformedGeometry), "%v", err)
	require.Len(t, chains, 1)
	require.Len(t, chains[0], 4)
}

func TestAssembleChainsEmpty(t *testing.T) {
	chains, err := assembleChains(nil)
	require.NoError(t, err)
	require.Empty(t, chains)

	poly, err := triangulate(chains)
	require.NoError(t, err)
	require.Equal(t, 0, poly.Triangles())
}

func TestSectorSegments(t *testing.T) {
	level := &Level{
		Vertexes: []Vertex{{0, 0}, {64, 0}, {0, 64}},
		Lines: []Line{
			{V1Num: 0, V2Num: 1, SideRNum: 0, SideLNum: 1},
			{V1Num: 1, V2Num: 2, SideRNum: 2, SideLNum: 3},
			{V1Num: 2, V2Num: 0, SideRNum: 0, SideLNum: -1},
		},
		Sides:   []Side{{SectorNum: 0}, {SectorNum: 1}, {SectorNum: 0}, {SectorNum: 0}},
		Sectors: []Sector{{Index: 0}, {Index: 1}},
	}

	segs := sectorSegments(level)
	require.Len(t, segs[0], 3)
	require.Len(t, segs[1], 1)
}

func ring(coords ...float32) []mgl32.Vec2 {
	points := make([]mgl32.Vec2, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, mgl32.Vec2{coords[i], coords[i+1]})
	}
	return points
}

func TestTriangulate(t *testing.T) {
	for _, tc := range []struct {
		name      string
		chains    [][]mgl32.Vec2
		holes     []int
		triangles int
	}{
		{
			name:      "clockwise square",
			chains:    [][]mgl32.Vec2{ring(0, 0, 0, 64, 64, 64, 64, 0)},
			triangles: 2,
		},
		{
			name:      "hexagon",
			chains:    [][]mgl32.Vec2{ring(0, 0, 2, -1, 4, 0, 4, 2, 2, 3, 0, 2)},
			triangles: 4,
		},
		{
			name:      "l shape",
			chains:    [][]mgl32.Vec2{ring(0, 0, 128, 0, 128, 64, 64, 64, 64, 128, 0, 128)},
			triangles: 4,
		},
		{
			name: "two holes",
			chains: [][]mgl32.Vec2{
				ring(0, 0, 256, 0, 256, 256, 0, 256),
				ring(32, 32, 64, 32, 64, 64, 32, 64),
				ring(128, 128, 192, 128, 192, 192, 128, 192),
			},
			holes:     []int{4, 8},
			triangles: 14,
		},
		{
			name:   "two points",
			chains: [][]mgl32.Vec2{ring(0, 0, 64, 0)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			poly, err := triangulate(tc.chains)
			require.NoError(t, err)
			require.Equal(t, tc.holes, poly.Holes)
			require.Equal(t, tc.triangles, poly.Triangles())
			for _, i := range poly.Indices {
				require.Less(t, int(i), len(poly.Points))
			}
		})
	}
}
