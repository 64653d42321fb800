package wad

import "github.com/go-gl/mathgl/mgl32"

// MeshVertex is a vertex of wall and sector geometry. Pos is in render space: map x is negated,
// heights run along y and map y becomes z. UV holds the texture coordinates and, third, the
// layer of the texture in its atlas bucket.
type MeshVertex struct {
	Pos   mgl32.Vec3
	UV    mgl32.Vec3
	Light float32
}

// WallBatch holds every wall quad drawn with one texture. Indices refer to Vertices.
type WallBatch struct {
	Texture  int
	Vertices []MeshVertex
	Indices  []uint32
}

// Quads returns the number of quads in the batch.
func (b WallBatch) Quads() int {
	return len(b.Vertices) / 4
}

// wallPiece is one strip of a side between two heights.
type wallPiece struct {
	texture     string
	bottom, top float32
	pegged      bool
	pegExtent   float32
}

type wallBuilder struct {
	level    *Level
	textures TextureLookup
	sky      string
	batches  []WallBatch
	byKey    map[int]int
}

func newWallBuilder(level *Level, textures TextureLookup, sky string) *wallBuilder {
	return &wallBuilder{
		level:    level,
		textures: textures,
		sky:      sky,
		byKey:    make(map[int]int),
	}
}

// line emits the pieces of both sides of line i. The back side runs from the end vertex to the
// start vertex so that it faces the other way.
func (b *wallBuilder) line(i int) {
	li := &b.level.Lines[i]
	v1, v2 := b.level.Vertexes[li.V1Num], b.level.Vertexes[li.V2Num]

	front, frontSector := b.level.FrontSide(i)
	back, backSector := b.level.BackSide(i)
	b.side(li, v1, v2, front, frontSector, backSector)
	if back != nil {
		b.side(li, v2, v1, back, backSector, frontSector)
	}
}

func (b *wallBuilder) side(li *Line, start, end Vertex, s *Side, own, other *Sector) {
	floor, ceil := float32(own.FloorHeight), float32(own.CeilingHeight)

	if other == nil {
		b.piece(start, end, s, own.LightLevel, wallPiece{
			texture:   s.MiddleTextureName,
			bottom:    floor,
			top:       ceil,
			pegged:    !li.LowerTextureUnpegged,
			pegExtent: ceil - floor,
		})
		return
	}

	otherFloor, otherCeil := float32(other.FloorHeight), float32(other.CeilingHeight)
	openBottom, openTop := max(floor, otherFloor), min(ceil, otherCeil)

	b.piece(start, end, s, own.LightLevel, wallPiece{
		texture:   s.LowerTextureName,
		bottom:    floor,
		top:       otherFloor,
		pegged:    li.LowerTextureUnpegged,
		pegExtent: max(ceil, otherCeil) - min(floor, otherFloor),
	})
	b.piece(start, end, s, own.LightLevel, wallPiece{
		texture:   s.MiddleTextureName,
		bottom:    openBottom,
		top:       openTop,
		pegged:    !li.LowerTextureUnpegged,
		pegExtent: openTop - openBottom,
	})

	upper := s.UpperTextureName
	if IsSkyFlat(other.CeilingTextureName) {
		upper = b.sky
	}
	b.piece(start, end, s, own.LightLevel, wallPiece{
		texture:   upper,
		bottom:    otherCeil,
		top:       ceil,
		pegged:    li.UpperTextureUnpegged,
		pegExtent: ceil - otherCeil,
	})
}

// piece appends one quad for p to the batch of its texture.
func (b *wallBuilder) piece(start, end Vertex, s *Side, light float32, p wallPiece) {
	if !hasSurface(p.texture) || p.top <= p.bottom {
		return
	}
	t, ok := b.textures.Texture(p.texture)
	if !ok {
		logger.Printf("Err: wall texture %v not found", p.texture)
		return
	}

	w, h := float32(t.Width), float32(t.Height)
	yOffset := -float32(s.YOffset)
	if p.pegged {
		yOffset += pegOffset(p.pegExtent, h)
	}

	p0 := mgl32.Vec2{float32(start.X), float32(start.Y)}
	p1 := mgl32.Vec2{float32(end.X), float32(end.Y)}
	length := p1.Sub(p0).Len()

	u0 := float32(s.XOffset) / w
	u1 := length/w + u0
	v0 := yOffset / h
	v1 := (p.top-p.bottom)/h + v0
	layer := float32(t.Layer)

	batch := b.batch(t.Key)
	base := uint32(len(batch.Vertices))
	batch.Vertices = append(batch.Vertices,
		MeshVertex{Pos: mgl32.Vec3{-p0.X(), p.bottom, p0.Y()}, UV: mgl32.Vec3{u0, v0, layer}, Light: light},
		MeshVertex{Pos: mgl32.Vec3{-p1.X(), p.bottom, p1.Y()}, UV: mgl32.Vec3{u1, v0, layer}, Light: light},
		MeshVertex{Pos: mgl32.Vec3{-p0.X(), p.top, p0.Y()}, UV: mgl32.Vec3{u0, v1, layer}, Light: light},
		MeshVertex{Pos: mgl32.Vec3{-p1.X(), p.top, p1.Y()}, UV: mgl32.Vec3{u1, v1, layer}, Light: light},
	)
	batch.Indices = append(batch.Indices, base, base+1, base+2, base+2, base+1, base+3)
}

// batch returns the batch of texture key, creating it on first use.
func (b *wallBuilder) batch(key int) *WallBatch {
	i, ok := b.byKey[key]
	if !ok {
		i = len(b.batches)
		b.byKey[key] = i
		b.batches = append(b.batches, WallBatch{Texture: key})
	}
	return &b.batches[i]
}
