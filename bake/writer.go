// Package bake stores decoded textures and map geometry in an SQLite file so a renderer can load
// them without decoding the archive again.
//
// Note: User must properly initialize the sqlite3 library generic driver
// (e.g. import _ "github.com/mattn/go-sqlite3") before using this package.
package bake

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image/png"
	"log/slog"

	"github.com/stuarthighley/wadgeom"
)

const schema = `
	CREATE TABLE metadata (name TEXT, value TEXT);
	CREATE TABLE textures (
		texture_key INTEGER PRIMARY KEY,
		name TEXT,
		width INTEGER,
		height INTEGER,
		bucket_width INTEGER,
		bucket_height INTEGER,
		layer INTEGER,
		sky INTEGER,
		flat INTEGER,
		image BLOB
	);
	CREATE TABLE walls (
		map TEXT,
		batch INTEGER,
		texture_key INTEGER,
		vertices BLOB,
		indices BLOB
	);
	CREATE TABLE sectors (
		map TEXT,
		sector INTEGER,
		floor_height REAL,
		ceiling_height REAL,
		floor_texture INTEGER,
		ceiling_texture INTEGER,
		floor_layer INTEGER,
		ceiling_layer INTEGER,
		light REAL,
		points BLOB,
		holes BLOB,
		indices BLOB
	);
`

// Writer writes a bake file.
type Writer struct {
	db     *sql.DB
	logger *slog.Logger
}

type writerConfig struct {
	Metadata map[string]string
	Logger   *slog.Logger
}

type WriterOption func(*writerConfig)

func WithMetadata(metadata map[string]string) WriterOption {
	return func(c *writerConfig) { c.Metadata = metadata }
}

func WithLogger(logger *slog.Logger) WriterOption {
	return func(c *writerConfig) { c.Logger = logger }
}

// NewWriter creates a new bake file at filePath.
// It applies given options and initializes the database schema.
func NewWriter(filePath string, opts ...WriterOption) (*Writer, error) {
	config := writerConfig{
		Logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&config)
	}

	var err error
	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	for k, v := range config.Metadata {
		_, err = db.Exec("INSERT INTO metadata (name, value) VALUES (?, ?)", k, v)
		if err != nil {
			return nil, err
		}
	}

	return &Writer{db, config.Logger}, nil
}

func (w *Writer) Close() error {
	return w.db.Close()
}

// WriteTextures stores every registry entry with its pixels encoded as PNG.
func (w *Writer) WriteTextures(r *wad.Registry) error {
	return w.inTx(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`INSERT INTO textures
			(texture_key, name, width, height, bucket_width, bucket_height, layer, sky, flat, image)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		var buf bytes.Buffer
		for _, t := range r.Textures() {
			buf.Reset()
			if err := png.Encode(&buf, r.Image(t.Key)); err != nil {
				return fmt.Errorf("encode %v: %w", t.Name, err)
			}
			_, err := stmt.Exec(t.Key, t.Name, t.Width, t.Height, t.Bucket.Width, t.Bucket.Height,
				t.Layer, t.Sky, t.Flat, buf.Bytes())
			if err != nil {
				return err
			}
		}
		w.logger.Debug("bake: textures written", "count", r.Len())
		return nil
	})
}

// WriteMap stores the wall batches and sector meshes of g under the map name.
func (w *Writer) WriteMap(g *wad.MapGeometry) error {
	return w.inTx(func(tx *sql.Tx) error {
		walls, err := tx.Prepare("INSERT INTO walls (map, batch, texture_key, vertices, indices) VALUES (?, ?, ?, ?, ?)")
		if err != nil {
			return err
		}
		defer walls.Close()

		for i, b := range g.Walls {
			if _, err := walls.Exec(g.Name, i, b.Texture, encode(b.Vertices), encode(b.Indices)); err != nil {
				return err
			}
		}

		sectors, err := tx.Prepare(`INSERT INTO sectors
			(map, sector, floor_height, ceiling_height, floor_texture, ceiling_texture,
			 floor_layer, ceiling_layer, light, points, holes, indices)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer sectors.Close()

		for _, s := range g.Sectors {
			_, err := sectors.Exec(g.Name, s.Sector, s.FloorHeight, s.CeilingHeight,
				s.FloorTexture, s.CeilingTexture, s.FloorLayer, s.CeilingLayer, s.Light,
				encode(s.Polygon.Points), encode(toInt32(s.Polygon.Holes)), encode(s.Polygon.Indices))
			if err != nil {
				return err
			}
		}
		w.logger.Debug("bake: map written", "map", g.Name, "walls", len(g.Walls), "sectors", len(g.Sectors))
		return nil
	})
}

func (w *Writer) Finalize() error {
	w.logger.Debug("bake: creating index")
	_, err := w.db.Exec(`
		CREATE UNIQUE INDEX wall_index ON walls (map, batch);
		CREATE UNIQUE INDEX sector_index ON sectors (map, sector);
	`)
	w.logger.Debug("bake: done!")
	return err
}

func (w *Writer) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}
