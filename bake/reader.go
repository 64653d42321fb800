package bake

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/stuarthighley/wadgeom"
)

// Reader reads a bake file.
type Reader struct {
	db *sql.DB
}

// NewReader opens the bake file at filePath read-only.
//
// The returned Reader must be closed after use to release database resources.
func NewReader(filePath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", filePath))
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

func (r *Reader) ReadMetadata() (map[string]string, error) {
	metadata := make(map[string]string)

	rows, err := r.db.Query("SELECT name, value FROM metadata")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		metadata[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return metadata, nil
}

// ReadTextureIndex lists the stored textures in key order, without pixels.
func (r *Reader) ReadTextureIndex() ([]wad.Texture, error) {
	rows, err := r.db.Query(`SELECT texture_key, name, width, height, bucket_width, bucket_height, layer, sky, flat
		FROM textures ORDER BY texture_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	textures := make([]wad.Texture, 0)
	for rows.Next() {
		var t wad.Texture
		err := rows.Scan(&t.Key, &t.Name, &t.Width, &t.Height, &t.Bucket.Width, &t.Bucket.Height, &t.Layer, &t.Sky, &t.Flat)
		if err != nil {
			return nil, err
		}
		textures = append(textures, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return textures, nil
}

// ReadTextureImage decodes the pixels of the texture with the given key.
func (r *Reader) ReadTextureImage(key int) (image.Image, error) {
	var data []byte
	if err := r.db.QueryRow("SELECT image FROM textures WHERE texture_key = ?", key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: texture key %v", wad.ErrLumpNotFound, key)
		}
		return nil, err
	}
	return png.Decode(bytes.NewReader(data))
}

// ReadMaps lists the names of the stored maps.
func (r *Reader) ReadMaps() ([]string, error) {
	rows, err := r.db.Query("SELECT DISTINCT map FROM sectors ORDER BY map")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadMap loads the wall batches and sector meshes stored for the map called name.
func (r *Reader) ReadMap(name string) (*wad.MapGeometry, error) {
	g := &wad.MapGeometry{Name: name}

	walls, err := r.db.Query("SELECT texture_key, vertices, indices FROM walls WHERE map = ? ORDER BY batch", name)
	if err != nil {
		return nil, err
	}
	defer walls.Close()

	for walls.Next() {
		var (
			b                 wad.WallBatch
			vertices, indices []byte
		)
		if err := walls.Scan(&b.Texture, &vertices, &indices); err != nil {
			return nil, err
		}
		if b.Vertices, err = decode[wad.MeshVertex](vertices); err != nil {
			return nil, err
		}
		if b.Indices, err = decode[uint32](indices); err != nil {
			return nil, err
		}
		g.Walls = append(g.Walls, b)
	}
	if err := walls.Err(); err != nil {
		return nil, err
	}

	sectors, err := r.db.Query(`SELECT sector, floor_height, ceiling_height, floor_texture, ceiling_texture,
		floor_layer, ceiling_layer, light, points, holes, indices
		FROM sectors WHERE map = ? ORDER BY sector`, name)
	if err != nil {
		return nil, err
	}
	defer sectors.Close()

	for sectors.Next() {
		var (
			s                      wad.SectorMesh
			points, holes, indices []byte
		)
		err := sectors.Scan(&s.Sector, &s.FloorHeight, &s.CeilingHeight, &s.FloorTexture, &s.CeilingTexture,
			&s.FloorLayer, &s.CeilingLayer, &s.Light, &points, &holes, &indices)
		if err != nil {
			return nil, err
		}
		if s.Polygon.Points, err = decode[mgl32.Vec2](points); err != nil {
			return nil, err
		}
		h, err := decode[int32](holes)
		if err != nil {
			return nil, err
		}
		s.Polygon.Holes = toInt(h)
		if s.Polygon.Indices, err = decode[uint32](indices); err != nil {
			return nil, err
		}
		g.Sectors = append(g.Sectors, s)
	}
	if err := sectors.Err(); err != nil {
		return nil, err
	}

	if len(g.Sectors) == 0 {
		return nil, fmt.Errorf("%w: %v", wad.ErrMapNotFound, name)
	}
	return g, nil
}
