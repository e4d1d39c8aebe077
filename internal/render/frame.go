package render

import (
	"github.com/dgallion1/mirror/internal/chunker"
	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/layout"
	"github.com/dgallion1/mirror/internal/selection"
	"github.com/dgallion1/mirror/internal/theme"
)

// Pass holds everything one frame reads and updates. Chunks are read-only;
// Heights, Layout and Selection persist between frames and are owned by the
// caller.
type Pass struct {
	Chunks    []doctree.Chunk
	Heights   *layout.HeightCache
	Layout    *layout.Map
	Selection *selection.Selection
	Painter   Painter
	Theme     theme.Theme
}

// Result summarizes a frame.
type Result struct {
	TotalHeight float64        `json:"total_height"`
	Measured    int            `json:"measured"`  // chunks measured by the painter
	Estimated   int            `json:"estimated"` // chunks laid out from cache or estimate
	Skipped     int            `json:"skipped"`   // chunks skipped past the viewport
	Clicked     bool           `json:"clicked"`
	Bar         *selection.Bar `json:"bar,omitempty"`
}

// Run lays out the document top to bottom for one frame. Content starts at
// y=0; viewport and pointer positions use the same coordinates.
func (p *Pass) Run(viewport layout.Rect, width float64, in selection.Input) Result {
	in = in.Normalize()
	if p.Heights.Len() != len(p.Chunks) {
		p.Heights.Reset(len(p.Chunks))
	}
	mgr := selection.NewManager(p.Selection, p.Layout)
	mgr.HandleRelease(in)

	needLayout := p.Selection.IsActive() || p.Selection.IsDragging()
	p.Layout.Clear()

	f := frame{
		Pass:       p,
		culler:     layout.NewCuller(viewport, p.Theme.Culling.ViewportGuard),
		mgr:        mgr,
		in:         in,
		width:      width,
		needLayout: needLayout,
	}

	for idx := 0; idx < len(p.Chunks); {
		if _, cached := p.Heights.Get(idx); !f.culler.ShouldRender(f.cursor, cached) {
			f.skip(idx)
			idx++
			continue
		}
		if from, to, ok := chunker.FindInlineBatch(p.Chunks, idx); ok && to-from > 1 {
			f.run(from, to)
			idx = to
			continue
		}
		f.single(idx)
		idx++
	}

	mgr.FinishFrame(f.res.Clicked)
	mgr.UpdateFromHover(in)
	if bar, ok := mgr.Bar(); ok {
		f.res.Bar = &bar
	}
	f.res.TotalHeight = f.cursor
	return f.res
}

type frame struct {
	*Pass
	culler     *layout.Culler
	mgr        *selection.Manager
	in         selection.Input
	width      float64
	needLayout bool

	cursor float64
	res    Result
}

func (f *frame) skip(idx int) {
	c := f.Chunks[idx]
	f.cursor += f.Heights.Height(idx, layout.Estimate(c, f.Theme))
	f.spacing(c)
	f.res.Skipped++
}

func (f *frame) single(idx int) {
	c := f.Chunks[idx]
	before := f.cursor
	estimate := layout.Estimate(c, f.Theme)
	approx := layout.RectAt(0, before, layout.EstimateWidth(c, f.Theme), f.Heights.Height(idx, estimate))

	if f.culler.Intersects(approx) {
		h := f.Painter.MeasureChunk(c, f.width)
		f.Heights.Set(idx, h)
		f.cursor += h
		f.res.Measured++
		f.interact(c, before, f.cursor)
	} else {
		f.cursor += f.Heights.Height(idx, estimate)
		f.res.Estimated++
	}

	if f.needLayout {
		f.Layout.RecordChunk(c.LineStart, c.LineEnd, before, f.cursor)
	}
	f.spacing(c)
}

// run lays out an inline batch as one wrapped block. The whole run's height
// is cached at its first index so skipping chunk by chunk adds up to the
// same total.
func (f *frame) run(from, to int) {
	chunks := f.Chunks[from:to]
	before := f.cursor

	estimate := 0.0
	for _, c := range chunks {
		estimate += layout.Estimate(c, f.Theme)
	}
	approx := layout.RectAt(0, before, f.Theme.Culling.DefaultWidth, f.Heights.Height(from, estimate))

	var spans []Span
	if f.culler.Intersects(approx) {
		var h float64
		spans, h = f.Painter.MeasureRun(chunks, f.width)
		f.Heights.Set(from, h)
		for i := from + 1; i < to; i++ {
			f.Heights.Set(i, 0)
		}
		f.cursor += h
		f.res.Measured += len(chunks)
		for i, c := range chunks {
			f.interact(c, before+spans[i].YStart, before+spans[i].YEnd)
		}
	} else {
		f.cursor += f.Heights.Height(from, estimate)
		for i := from + 1; i < to; i++ {
			f.cursor += f.Heights.Height(i, 0)
		}
		f.res.Estimated += len(chunks)
	}

	if f.needLayout {
		for i, c := range chunks {
			y0, y1 := before, f.cursor
			if spans != nil {
				y0, y1 = before+spans[i].YStart, before+spans[i].YEnd
			}
			f.Layout.RecordChunk(c.LineStart, c.LineEnd, y0, y1)
		}
	}
	f.spacing(chunks[len(chunks)-1])
}

// interact routes pointer input to a measured chunk. Code blocks are not
// selectable; images select their single line on click.
func (f *frame) interact(c doctree.Chunk, y0, y1 float64) {
	switch {
	case !c.Positioned(), c.IsCodeBlock():
		return
	case c.IsImage():
		f.mgr.HandleSingleLine(f.in, c.LineStart, y0, y1)
	default:
		if f.mgr.HandleInteraction(f.in, c.LineStart, c.LineEnd, y0, y1) {
			f.res.Clicked = true
		}
	}
}

func (f *frame) spacing(c doctree.Chunk) {
	if c.NewlineAfter {
		f.cursor += f.Theme.Spacing.Paragraph
	}
}
