package layout

import (
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/theme"
)

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// RectAt builds a rect from its top-left corner and size.
func RectAt(x, y, width, height float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

func (r Rect) Width() float64  { return r.MaxX - r.MinX }
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Intersects reports whether the two rects overlap. Touching edges count.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Culler decides, chunk by chunk during one frame, whether a chunk must be
// measured or can be replaced by its cached height.
type Culler struct {
	viewport     Rect
	guard        float64
	pastViewport bool
}

// NewCuller starts a frame. guard is how far below the viewport content is
// still measured.
func NewCuller(viewport Rect, guard float64) *Culler {
	return &Culler{viewport: viewport, guard: guard}
}

// ShouldRender is called with the cursor position before each chunk. Until
// the cursor passes the viewport bottom plus the guard every chunk renders;
// the chunk that crosses the line still renders. After that, only chunks
// without a measured height are visited.
func (c *Culler) ShouldRender(cursorY float64, measured bool) bool {
	if !c.pastViewport {
		if cursorY > c.viewport.MaxY+c.guard {
			c.pastViewport = true
		}
		return true
	}
	return !measured
}

// PastViewport reports whether the cursor has crossed the guard line.
func (c *Culler) PastViewport() bool { return c.pastViewport }

// Intersects reports whether r is at least partly visible.
func (c *Culler) Intersects(r Rect) bool {
	return c.viewport.Intersects(r)
}

func (c *Culler) Viewport() Rect { return c.viewport }

// Estimate guesses a chunk's height before it has ever been measured.
func Estimate(c doctree.Chunk, th theme.Theme) float64 {
	line := th.Spacing.MinLineHeight
	switch c.Kind {
	case doctree.KindImage:
		if c.ImageHeight > 0 {
			return c.ImageHeight
		}
		return th.Culling.DefaultImageHeight
	case doctree.KindTable:
		rows := 0
		if c.Table != nil {
			rows = len(c.Table.Body())
		}
		return float64(rows+1) * line
	case doctree.KindCode:
		return float64(textLines(c.Text))*line + 2*th.Spacing.CodeBlockPadding
	default:
		return float64(textLines(c.Text)) * line
	}
}

// EstimateWidth is the width assumed for a chunk's off-screen rect.
func EstimateWidth(c doctree.Chunk, th theme.Theme) float64 {
	if c.IsImage() {
		if c.ImageWidth > 0 {
			return c.ImageWidth
		}
		return th.Culling.DefaultImageWidth
	}
	return th.Culling.DefaultWidth
}

func textLines(s string) int {
	n := strings.Count(s, "\n") + 1
	if s == "\n" {
		n = 1
	}
	return n
}
