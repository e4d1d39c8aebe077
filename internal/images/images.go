package images

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"sync"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture is a decoded image ready to draw.
type Texture struct {
	Path   string
	Format string
	Image  *image.RGBA
}

func (t *Texture) Width() int  { return t.Image.Bounds().Dx() }
func (t *Texture) Height() int { return t.Image.Bounds().Dy() }

type size struct {
	w, h int
	ok   bool
}

// Manager caches image dimensions and decoded textures by path. Failed
// lookups are cached too, so a missing file is only stat'ed once.
type Manager struct {
	log *slog.Logger

	// MaxTextureWidth scales wider images down on load. 0 disables scaling.
	MaxTextureWidth int

	mu       sync.Mutex
	sizes    map[string]size
	textures map[string]*Texture
	failed   map[string]bool
}

func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		log:      log,
		sizes:    make(map[string]size),
		textures: make(map[string]*Texture),
		failed:   make(map[string]bool),
	}
}

// LoadMetadata returns the natural size of the image at path, reading only
// the file header.
func (m *Manager) LoadMetadata(path string) (width, height int, ok bool) {
	m.mu.Lock()
	if s, hit := m.sizes[path]; hit {
		m.mu.Unlock()
		return s.w, s.h, s.ok
	}
	m.mu.Unlock()

	cfg, err := decodeConfig(path)
	s := size{}
	if err != nil {
		m.log.Debug("image metadata", "path", path, "error", err)
	} else {
		s = size{w: cfg.Width, h: cfg.Height, ok: true}
	}

	m.mu.Lock()
	m.sizes[path] = s
	m.mu.Unlock()
	return s.w, s.h, s.ok
}

// GetOrLoadTexture decodes the image at path on first use and returns the
// cached texture afterwards.
func (m *Manager) GetOrLoadTexture(path string) (*Texture, bool) {
	m.mu.Lock()
	if t, hit := m.textures[path]; hit {
		m.mu.Unlock()
		return t, true
	}
	if m.failed[path] {
		m.mu.Unlock()
		return nil, false
	}
	m.mu.Unlock()

	t, err := m.load(path)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.log.Warn("load image", "path", path, "error", err)
		m.failed[path] = true
		return nil, false
	}
	m.textures[path] = t
	m.sizes[path] = size{w: t.Width(), h: t.Height(), ok: true}
	return t, true
}

// Forget drops cached data for path so the next call reads the file again.
func (m *Manager) Forget(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sizes, path)
	delete(m.textures, path)
	delete(m.failed, path)
}

func (m *Manager) load(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &Texture{Path: path, Format: format, Image: toRGBA(src, m.MaxTextureWidth)}, nil
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}

// toRGBA converts src to RGBA, scaling it down to maxWidth if it is wider.
func toRGBA(src image.Image, maxWidth int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = int(float64(h) * float64(maxWidth) / float64(w))
		if h <= 0 {
			h = 1
		}
		w = maxWidth
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
		return dst
	}
	if rgba, ok := src.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}
