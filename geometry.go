package wad

import (
	"errors"
	"fmt"
)

// DefaultSkyTexture replaces the upper wall texture next to an open sky.
const DefaultSkyTexture = "SKY1"

// TextureLookup resolves the texture names used by a map. Registry implements it.
type TextureLookup interface {
	Texture(name string) (Texture, bool)
	Flat(name string) (Texture, error)
}

// BuildOptions tune BuildMap. The zero value uses DefaultSkyTexture and a single goroutine.
type BuildOptions struct {
	SkyTexture string
	Workers    int
}

// MapGeometry is the renderable geometry of one map.
type MapGeometry struct {
	Name    string
	Level   *Level
	Walls   []WallBatch
	Sectors []SectorMesh

	problems []error
}

// Err returns the non-fatal problems met while building, joined, or nil.
func (g *MapGeometry) Err() error {
	return errors.Join(g.problems...)
}

// Quads returns the number of wall quads over all batches.
func (g *MapGeometry) Quads() int {
	n := 0
	for i := range g.Walls {
		n += g.Walls[i].Quads()
	}
	return n
}

// BuildMap reads the map called name and builds its wall batches and sector meshes.
func BuildMap(w *WAD, name string, textures TextureLookup, opts BuildOptions) (*MapGeometry, error) {
	level, err := w.ReadLevel(name)
	if err != nil {
		return nil, err
	}
	return BuildLevel(level, textures, opts)
}

// BuildLevel builds the geometry of an already read level. Sector outlines are assembled on up to
// opts.Workers goroutines; textures are resolved in sector order.
func BuildLevel(level *Level, textures TextureLookup, opts BuildOptions) (*MapGeometry, error) {
	sky := opts.SkyTexture
	if sky == "" {
		sky = DefaultSkyTexture
	}
	logger.Printf("Building %v ...", level.Name)

	walls := newWallBuilder(level, textures, sky)
	for i := range level.Lines {
		walls.line(i)
	}

	segs := sectorSegments(level)
	polygons := make([]SectorPolygon, len(level.Sectors))
	problems := make([]error, len(level.Sectors))
	err := forEach(opts.Workers, len(level.Sectors), func(i int) error {
		chains, err := assembleChains(segs[i])
		poly, terr := triangulate(chains)
		if err = errors.Join(err, terr); err != nil {
			problems[i] = fmt.Errorf("sector %v: %w", i, err)
		}
		polygons[i] = poly
		return nil
	})
	if err != nil {
		return nil, err
	}

	g := &MapGeometry{
		Name:    level.Name,
		Level:   level,
		Walls:   walls.batches,
		Sectors: make([]SectorMesh, len(level.Sectors)),
	}
	for i, s := range level.Sectors {
		if problems[i] != nil {
			logger.Printf("Err: %v", problems[i])
			g.problems = append(g.problems, problems[i])
		}
		floor, ceiling := flatTexture(textures, s.FloorTextureName), flatTexture(textures, s.CeilingTextureName)
		g.Sectors[i] = SectorMesh{
			Sector:         i,
			FloorHeight:    float32(s.FloorHeight),
			CeilingHeight:  float32(s.CeilingHeight),
			FloorTexture:   floor.Key,
			CeilingTexture: ceiling.Key,
			FloorLayer:     floor.Layer,
			CeilingLayer:   ceiling.Layer,
			Light:          s.LightLevel,
			Polygon:        polygons[i],
		}
	}

	logger.Printf("Built %v: %v wall batches, %v quads, %v sectors", level.Name, len(g.Walls), g.Quads(), len(g.Sectors))
	return g, nil
}

// flatTexture resolves a floor or ceiling name. A flat that cannot be loaded gets NoTexture.
func flatTexture(textures TextureLookup, name string) Texture {
	if !hasSurface(name) {
		return Texture{Key: NoTexture}
	}
	t, err := textures.Flat(name)
	if err != nil {
		logger.Printf("Err: flat %v: %v", name, err)
		return Texture{Key: NoTexture}
	}
	return t
}
