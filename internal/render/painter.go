package render

import (
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/highlight"
	"github.com/dgallion1/mirror/internal/images"
	"github.com/dgallion1/mirror/internal/theme"
	"github.com/rivo/uniseg"
)

// Span is the vertical extent of one chunk inside a run, relative to the
// top of the run.
type Span struct {
	YStart float64
	YEnd   float64
}

// Painter lays out chunks and reports how tall they end up.
type Painter interface {
	// MeasureChunk returns the height of a block-level chunk drawn at width.
	MeasureChunk(c doctree.Chunk, width float64) float64
	// MeasureRun flows inline chunks together and returns each chunk's span
	// plus the height of the whole run.
	MeasureRun(run []doctree.Chunk, width float64) (spans []Span, height float64)
}

// glyphAspect is the width of one monospace cell relative to the font size.
const glyphAspect = 0.6

// TextPainter is a headless Painter. It treats text as a grid of monospace
// cells sized from the theme and wraps at Unicode line-break opportunities.
type TextPainter struct {
	theme       theme.Theme
	highlighter *highlight.Highlighter
	images      *images.Manager
}

// NewTextPainter creates a painter. images may be nil, in which case image
// chunks without a known height use the theme fallback.
func NewTextPainter(th theme.Theme, hl *highlight.Highlighter, im *images.Manager) *TextPainter {
	if hl == nil {
		hl = highlight.New(th.Highlight.Style)
	}
	return &TextPainter{theme: th, highlighter: hl, images: im}
}

func (p *TextPainter) MeasureChunk(c doctree.Chunk, width float64) float64 {
	th := p.theme
	switch c.Kind {
	case doctree.KindCode:
		lines := p.highlighter.Highlight(c.Text, c.CodeLang)
		return float64(len(lines))*th.LinePixels(th.Typography.CodeBlockSize) + 2*th.Spacing.CodeBlockPadding
	case doctree.KindTable:
		return p.measureTable(c.Table, width)
	case doctree.KindImage:
		return p.measureImage(c, width)
	}

	size := th.Typography.BodySize
	extra := 0.0
	if c.HeadingLevel > 0 {
		size = th.HeadingSize(c.HeadingLevel)
		extra = th.Spacing.Heading
	}
	f := newFlow(columns(width, size))
	f.write(c.Text)
	return float64(f.lines())*th.LinePixels(size) + extra
}

func (p *TextPainter) MeasureRun(run []doctree.Chunk, width float64) ([]Span, float64) {
	size := p.theme.Typography.BodySize
	lh := p.theme.LinePixels(size)
	f := newFlow(columns(width, size))

	spans := make([]Span, len(run))
	for i, c := range run {
		first := f.line
		f.write(c.Text)
		last := f.line
		if f.x == 0 && last > first {
			// Ended on a break; the chunk does not occupy the new line.
			last--
		}
		spans[i] = Span{YStart: float64(first) * lh, YEnd: float64(last+1) * lh}
	}
	return spans, float64(f.lines()) * lh
}

func (p *TextPainter) measureTable(t *doctree.Table, width float64) float64 {
	th := p.theme
	lh := th.LinePixels(th.Typography.BodySize)
	if t == nil || len(t.Rows) == 0 {
		return lh
	}
	cols := t.Columns()
	if cols == 0 {
		cols = 1
	}
	cellWidth := width/float64(cols) - 2*th.Spacing.TableCellPadding
	total := 0.0
	for _, row := range t.Rows {
		tallest := 1
		for _, cell := range row {
			f := newFlow(columns(cellWidth, th.Typography.BodySize))
			f.write(cell)
			if n := f.lines(); n > tallest {
				tallest = n
			}
		}
		total += float64(tallest)*lh + 2*th.Spacing.TableCellPadding
	}
	return total
}

func (p *TextPainter) measureImage(c doctree.Chunk, width float64) float64 {
	if c.ImageWidth > 0 && c.ImageHeight > 0 {
		return c.ImageHeight
	}
	if p.images != nil && c.ImagePath != "" {
		if tex, ok := p.images.GetOrLoadTexture(c.ImagePath); ok && tex.Width() > 0 {
			w := float64(tex.Width())
			h := float64(tex.Height())
			if w > width && width > 0 {
				return h * width / w
			}
			return h
		}
	}
	if c.ImageHeight > 0 {
		return c.ImageHeight
	}
	return p.theme.Culling.DefaultImageHeight
}

func columns(width, size float64) int {
	cell := size * glyphAspect
	if cell <= 0 {
		return 1
	}
	n := int(width / cell)
	if n < 1 {
		return 1
	}
	return n
}

// flow tracks a cursor over a grid of cols cells per line.
type flow struct {
	cols int
	x    int
	line int
}

func newFlow(cols int) *flow {
	return &flow{cols: cols}
}

func (f *flow) write(text string) {
	state := -1
	for len(text) > 0 {
		var seg string
		seg, text, _, state = uniseg.FirstLineSegmentInString(text, state)
		hardBreak := uniseg.HasTrailingLineBreakInString(seg)
		body := strings.TrimRight(seg, "\r\n")
		word := strings.TrimRight(body, " \t")
		w := uniseg.StringWidth(word)
		space := uniseg.StringWidth(body) - w

		if f.x > 0 && f.x+w > f.cols {
			f.line++
			f.x = 0
		}
		f.x += w
		for f.x > f.cols {
			f.line++
			f.x -= f.cols
		}
		if f.x+space <= f.cols {
			f.x += space
		}
		if hardBreak {
			f.line++
			f.x = 0
		}
	}
}

// lines is the number of grid lines touched so far, at least one.
func (f *flow) lines() int {
	if f.x == 0 && f.line > 0 {
		return f.line
	}
	return f.line + 1
}
