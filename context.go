package wad

// Context ties an archive to its palette, its texture registry and the map currently loaded.
// It is not safe for concurrent use.
type Context struct {
	wad      *WAD
	palette  *Palette
	textures *Registry
	uploader Uploader
	sky      string
	workers  int
	current  *MapGeometry
}

// Option configures a Context.
type Option func(*Context)

// WithUploader hands atlas buckets to u whenever textures are added.
func WithUploader(u Uploader) Option {
	return func(c *Context) {
		c.uploader = u
	}
}

// WithSkyTexture sets the texture used for upper walls next to an open sky.
func WithSkyTexture(name string) Option {
	return func(c *Context) {
		c.sky = name
	}
}

// WithWorkers sets how many goroutines decode textures and assemble sectors.
func WithWorkers(n int) Option {
	return func(c *Context) {
		c.workers = n
	}
}

// NewContext reads the palette and every texture of w and uploads the atlas buckets.
func NewContext(w *WAD, opts ...Option) (*Context, error) {
	c := &Context{
		wad:     w,
		sky:     DefaultSkyTexture,
		workers: 1,
	}
	for _, opt := range opts {
		opt(c)
	}

	pal, err := ReadPalette(w)
	if err != nil {
		return nil, err
	}
	c.palette = pal

	if c.textures, err = LoadTextures(w, pal, c.workers); err != nil {
		return nil, err
	}
	if err := c.textures.Flush(c.uploader); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Context) WAD() *WAD {
	return c.wad
}

func (c *Context) Palette() *Palette {
	return c.palette
}

func (c *Context) Textures() *Registry {
	return c.textures
}

// LoadMap builds the map called name, uploads the flats it added and makes it current. On error
// the current map is left as it was.
func (c *Context) LoadMap(name string) (*MapGeometry, error) {
	g, err := BuildMap(c.wad, name, c.textures, BuildOptions{SkyTexture: c.sky, Workers: c.workers})
	if err != nil {
		return nil, err
	}
	if err := c.textures.Flush(c.uploader); err != nil {
		return nil, err
	}
	c.current = g
	return g, nil
}

// Current returns the map installed by the last successful LoadMap, or nil.
func (c *Context) Current() *MapGeometry {
	return c.current
}
