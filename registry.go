package wad

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"slices"
	"strings"
)

// NoTexture is the key of a surface that has no texture.
const NoTexture = -1

// BucketKey identifies an atlas bucket: every texture in a bucket has exactly this size, so a
// bucket maps onto one 2D array texture.
type BucketKey struct {
	Width, Height int
}

// Texture is a registry entry. Key indexes the registry; Layer is the position inside the bucket.
type Texture struct {
	Key           int
	Name          string
	Width, Height int
	Bucket        BucketKey
	Layer         int
	Sky           bool
	Flat          bool
}

// Uploader receives the pixels of an atlas bucket. It stands for the graphics backend, which
// allocates one 2D array texture per bucket with one layer per image.
type Uploader interface {
	UploadLayers(bucket BucketKey, layers []*image.RGBA) error
}

type bucket struct {
	layers   []*image.RGBA
	uploaded int
}

// Registry owns every decoded texture and flat. Entries are referenced by name or key.
// It is not safe for concurrent use.
type Registry struct {
	wad      *WAD
	palette  *Palette
	textures []Texture
	images   []*image.RGBA
	byName   map[string]int
	flats    map[string]int
	buckets  map[BucketKey]*bucket
	order    []BucketKey
}

// NewRegistry returns an empty registry. Flats are decoded from w on demand using pal.
func NewRegistry(w *WAD, pal *Palette) *Registry {
	return &Registry{
		wad:     w,
		palette: pal,
		byName:  make(map[string]int),
		flats:   make(map[string]int),
		buckets: make(map[BucketKey]*bucket),
	}
}

// Add stores img under name and assigns it the next layer of the bucket matching its size.
// Flats and other textures are named separately. A later entry with the same name and kind
// shadows the earlier one.
func (r *Registry) Add(name string, img *image.RGBA, sky, flat bool) Texture {
	name = strings.ToUpper(name)
	size := img.Bounds().Size()
	key := BucketKey{size.X, size.Y}

	b, ok := r.buckets[key]
	if !ok {
		b = &bucket{}
		r.buckets[key] = b
		r.order = append(r.order, key)
	}

	t := Texture{
		Key:    len(r.textures),
		Name:   name,
		Width:  size.X,
		Height: size.Y,
		Bucket: key,
		Layer:  len(b.layers),
		Sky:    sky,
		Flat:   flat,
	}
	names := r.byName
	if flat {
		names = r.flats
	}
	if prev, ok := names[name]; ok {
		logger.Printf("Texture %v replaces key %v", name, prev)
	}
	b.layers = append(b.layers, img)
	r.textures = append(r.textures, t)
	r.images = append(r.images, img)
	names[name] = t.Key
	return t
}

// Texture looks a texture up by name, case-insensitively. Wall textures take precedence over
// flats of the same name.
func (r *Registry) Texture(name string) (Texture, bool) {
	name = strings.ToUpper(name)
	k, ok := r.byName[name]
	if !ok {
		if k, ok = r.flats[name]; !ok {
			return Texture{}, false
		}
	}
	return r.textures[k], true
}

// Get returns the texture with the given key.
func (r *Registry) Get(key int) (Texture, bool) {
	if key < 0 || key >= len(r.textures) {
		return Texture{}, false
	}
	return r.textures[key], true
}

// Image returns the pixels of the texture with the given key.
func (r *Registry) Image(key int) *image.RGBA {
	if key < 0 || key >= len(r.images) {
		return nil
	}
	return r.images[key]
}

// Len returns the number of entries, shadowed ones included.
func (r *Registry) Len() int {
	return len(r.textures)
}

// Textures returns all entries in key order.
func (r *Registry) Textures() []Texture {
	return slices.Clone(r.textures)
}

// Buckets returns the bucket keys in creation order.
func (r *Registry) Buckets() []BucketKey {
	return slices.Clone(r.order)
}

// Layers returns the images of a bucket in layer order.
func (r *Registry) Layers(key BucketKey) []*image.RGBA {
	b, ok := r.buckets[key]
	if !ok {
		return nil
	}
	return slices.Clone(b.layers)
}

// Flat returns the flat called name, decoding and registering it on first use. Wall textures
// sharing the name are never returned.
func (r *Registry) Flat(name string) (Texture, error) {
	if k, ok := r.flats[strings.ToUpper(name)]; ok {
		return r.textures[k], nil
	}
	if r.wad == nil {
		return Texture{}, fmt.Errorf("%w: flat %v", ErrLumpNotFound, name)
	}
	lump, err := r.wad.Lump(name)
	if err != nil {
		return Texture{}, err
	}
	img, err := DecodeFlat(name, lump, r.palette)
	if err != nil {
		return Texture{}, err
	}
	logger.Printf("Loaded flat %v", strings.ToUpper(name))
	return r.Add(name, img, false, true), nil
}

// Flush hands every bucket that gained layers since the last flush to u, whole, in bucket
// creation order.
func (r *Registry) Flush(u Uploader) error {
	if u == nil {
		return nil
	}
	for _, key := range r.order {
		b := r.buckets[key]
		if b.uploaded == len(b.layers) {
			continue
		}
		if err := u.UploadLayers(key, slices.Clone(b.layers)); err != nil {
			return fmt.Errorf("upload bucket %vx%v: %w", key.Width, key.Height, err)
		}
		b.uploaded = len(b.layers)
	}
	return nil
}

type namedImage struct {
	name string
	img  *image.RGBA
	sky  bool
}

// LoadTextures decodes the patches, the composite textures of TEXTURE1 and TEXTURE2 and the sky
// pictures, and registers them sorted by height then width so that bucket and layer assignment
// does not depend on lump order within a size. Up to workers textures are composited at once.
func LoadTextures(w *WAD, pal *Palette, workers int) (*Registry, error) {
	logger.Println("Loading textures ...")

	composites, err := readComposites(w, pal, workers)
	if err != nil {
		return nil, err
	}
	skies, err := readSkies(w, pal)
	if err != nil {
		return nil, err
	}

	entries := make([]namedImage, 0, len(composites)+len(skies))
	seen := make(map[string]int)
	add := func(e namedImage) {
		if i, ok := seen[e.name]; ok {
			entries[i] = e
			return
		}
		seen[e.name] = len(entries)
		entries = append(entries, e)
	}
	for _, c := range composites {
		add(c)
	}
	for _, s := range skies {
		add(namedImage{name: s.Name, img: s.Image, sky: true})
	}

	slices.SortStableFunc(entries, func(a, b namedImage) int {
		sa, sb := a.img.Bounds().Size(), b.img.Bounds().Size()
		return cmp.Or(cmp.Compare(sa.Y, sb.Y), cmp.Compare(sa.X, sb.X))
	})

	r := NewRegistry(w, pal)
	for _, e := range entries {
		r.Add(e.name, e.img, e.sky, false)
	}
	logger.Printf("Loaded %v textures in %v buckets", r.Len(), len(r.order))
	return r, nil
}

// readComposites builds every texture defined in TEXTURE1 and TEXTURE2, in definition order.
func readComposites(w *WAD, pal *Palette, workers int) ([]namedImage, error) {
	defs := make([]TextureDef, 0)
	for _, name := range []string{"TEXTURE1", "TEXTURE2"} {
		lump, err := w.Lump(name)
		if err != nil {
			continue
		}
		logger.Printf("Loading %v ...", name)
		d, err := DecodeTextureDefs(lump)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", name, err)
		}
		defs = append(defs, d...)
	}
	if len(defs) == 0 {
		return nil, nil
	}

	names, err := ReadPatchNames(w)
	if err != nil {
		return nil, err
	}
	patches := make([]*Picture, len(names))
	err = forEach(workers, len(names), func(i int) error {
		pic, err := w.Picture(names[i], pal)
		if err != nil {
			logger.Printf("Err: patch %v: %v", names[i], err)
			return nil
		}
		patches[i] = pic
		return nil
	})
	if err != nil {
		return nil, err
	}

	images := make([]*image.RGBA, len(defs))
	err = forEach(workers, len(defs), func(i int) error {
		img, err := Composite(defs[i], patches)
		switch {
		case err == nil:
			images[i] = img
		case errors.Is(err, ErrPatchIndexOutOfRange):
			return err
		default:
			logger.Printf("Err: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]namedImage, 0, len(defs))
	for i, def := range defs {
		if images[i] != nil {
			result = append(result, namedImage{name: def.Name, img: images[i]})
		}
	}
	return result, nil
}
