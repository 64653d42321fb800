package wad

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rclancey/earcut"
)

// Endpoints closer than this are the same point when chaining boundary lines.
const chainTolerance = 1e-3

// SectorPolygon is the outline of a sector in map coordinates. The first ring is the outer
// boundary; Holes holds the index in Points where each further ring starts. Indices triangulate
// the polygon and serve both floor and ceiling.
type SectorPolygon struct {
	Points  []mgl32.Vec2
	Holes   []int
	Indices []uint32
}

// Triangles returns the number of triangles.
func (p SectorPolygon) Triangles() int {
	return len(p.Indices) / 3
}

// SectorMesh is the floor and ceiling geometry of one sector.
type SectorMesh struct {
	Sector         int
	FloorHeight    float32
	CeilingHeight  float32
	FloorTexture   int
	CeilingTexture int
	FloorLayer     int
	CeilingLayer   int
	Light          float32
	Polygon        SectorPolygon
}

// Plane returns the vertices of the floor, or of the ceiling if ceiling is set, in render space.
// Flats repeat every 64 map units.
func (m *SectorMesh) Plane(ceiling bool) []MeshVertex {
	height, layer := m.FloorHeight, m.FloorLayer
	if ceiling {
		height, layer = m.CeilingHeight, m.CeilingLayer
	}
	verts := make([]MeshVertex, len(m.Polygon.Points))
	for i, p := range m.Polygon.Points {
		verts[i] = MeshVertex{
			Pos:   mgl32.Vec3{-p.X(), height, p.Y()},
			UV:    mgl32.Vec3{p.X() / FlatWidth, p.Y() / FlatHeight, float32(layer)},
			Light: m.Light,
		}
	}
	return verts
}

type segment struct {
	a, b mgl32.Vec2
}

func near(p, q mgl32.Vec2) bool {
	return p.Sub(q).Len() <= chainTolerance
}

func (s segment) touches(p mgl32.Vec2) bool {
	return near(s.a, p) || near(s.b, p)
}

// sectorSegments returns, per sector, the lines that border it. A line with the same sector on
// both sides is listed once.
func sectorSegments(l *Level) [][]segment {
	segs := make([][]segment, len(l.Sectors))
	for i, li := range l.Lines {
		v1, v2 := l.Vertexes[li.V1Num], l.Vertexes[li.V2Num]
		s := segment{
			a: mgl32.Vec2{float32(v1.X), float32(v1.Y)},
			b: mgl32.Vec2{float32(v2.X), float32(v2.Y)},
		}
		_, front := l.FrontSide(i)
		segs[front.Index] = append(segs[front.Index], s)
		if _, back := l.BackSide(i); back != nil && back.Index != front.Index {
			segs[back.Index] = append(segs[back.Index], s)
		}
	}
	return segs
}

// assembleChains links segments end to end into rings. Each ring starts from the first unused
// segment and grows at whichever end the next matching segment touches, until it closes or no
// segment fits. A ring that does not close is kept as it is and reported.
func assembleChains(segs []segment) ([][]mgl32.Vec2, error) {
	pool := slices.Clone(segs)
	chains := make([][]mgl32.Vec2, 0)
	var errs []error

	for len(pool) > 0 {
		chain := []mgl32.Vec2{pool[0].a, pool[0].b}
		pool = pool[1:]

		closed := false
		for !closed {
			first, last := chain[0], chain[len(chain)-1]
			j := slices.IndexFunc(pool, func(s segment) bool {
				return s.touches(first) || s.touches(last)
			})
			if j < 0 {
				break
			}
			chain = extendChain(chain, pool[j])
			pool = slices.Delete(pool, j, j+1)
			closed = len(chain) > 2 && near(chain[0], chain[len(chain)-1])
		}

		if closed {
			chain = chain[:len(chain)-1]
		} else {
			errs = append(errs, fmt.Errorf("%w: open boundary of %v points from %v", ErrMalformedGeometry, len(chain), chain[0]))
		}
		chains = append(chains, chain)
	}
	return chains, errors.Join(errs...)
}

func extendChain(chain []mgl32.Vec2, s segment) []mgl32.Vec2 {
	first, last := chain[0], chain[len(chain)-1]
	switch {
	case near(s.a, last):
		return append(chain, s.b)
	case near(s.b, last):
		return append(chain, s.a)
	case near(s.b, first):
		return slices.Insert(chain, 0, s.a)
	default:
		return slices.Insert(chain, 0, s.b)
	}
}

// triangulate flattens chains into a polygon with holes and triangulates it. A polygon with
// fewer than three points has no triangles.
func triangulate(chains [][]mgl32.Vec2) (SectorPolygon, error) {
	var poly SectorPolygon
	data := make([]float64, 0)
	for i, c := range chains {
		if i > 0 {
			poly.Holes = append(poly.Holes, len(poly.Points))
		}
		for _, p := range c {
			poly.Points = append(poly.Points, p)
			data = append(data, float64(p.X()), float64(p.Y()))
		}
	}
	if len(poly.Points) < 3 {
		return poly, nil
	}

	tris, err := earcut.Earcut(data, poly.Holes, 2)
	if err != nil {
		return poly, fmt.Errorf("%w: triangulate %v points: %v", ErrMalformedGeometry, len(poly.Points), err)
	}
	poly.Indices = make([]uint32, len(tris))
	for i, t := range tris {
		poly.Indices[i] = uint32(t)
	}
	return poly, nil
}
