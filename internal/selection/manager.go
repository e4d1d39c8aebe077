package selection

import "github.com/dgallion1/mirror/internal/layout"

// Point is a position in document coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Input is one frame's pointer snapshot. Clicked and DragStarted are edge
// events: a press that moves before release is a drag, never a click, so at
// most one of them is set per press.
type Input struct {
	Pointer     Point `json:"pointer"`
	HasPointer  bool  `json:"has_pointer"`
	Down        bool  `json:"down"`
	Clicked     bool  `json:"clicked"`
	DragStarted bool  `json:"drag_started"`
	PressOrigin Point `json:"press_origin"`
}

// Normalize enforces the click/drag exclusivity: when both edges are
// reported, the drag wins.
func (in Input) Normalize() Input {
	if in.DragStarted {
		in.Clicked = false
	}
	return in
}

// Manager drives a Selection from pointer input and the frame's layout map.
type Manager struct {
	sel    *Selection
	layout *layout.Map
}

func NewManager(sel *Selection, m *layout.Map) *Manager {
	return &Manager{sel: sel, layout: m}
}

// HandleRelease ends a drag once no button is held.
func (m *Manager) HandleRelease(in Input) {
	if !in.Down && m.sel.IsDragging() {
		m.sel.EndDrag()
	}
}

// HandleInteraction applies input to a multi-line chunk drawn between yStart
// and yEnd. A drag that starts inside the chunk anchors the selection at the
// line under the press. It reports whether the chunk was clicked.
func (m *Manager) HandleInteraction(in Input, lineStart, lineEnd int, yStart, yEnd float64) bool {
	if in.DragStarted && within(in.PressOrigin.Y, yStart, yEnd) {
		m.sel.StartDrag(layout.LineFromY(lineStart, lineEnd, yStart, yEnd, in.PressOrigin.Y))
	}
	return in.Clicked && in.HasPointer && within(in.Pointer.Y, yStart, yEnd)
}

// HandleSingleLine selects line outright when the element is clicked.
func (m *Manager) HandleSingleLine(in Input, line int, yStart, yEnd float64) {
	if in.Clicked && in.HasPointer && within(in.Pointer.Y, yStart, yEnd) {
		m.sel.StartDrag(line)
		m.sel.EndDrag()
	}
}

// UpdateFromHover extends an in-progress drag to the line under the pointer.
// It runs after every chunk has been laid out so the drag can move both up
// and down from its anchor.
func (m *Manager) UpdateFromHover(in Input) {
	if !m.sel.IsDragging() || !in.HasPointer {
		return
	}
	for _, r := range m.layout.Records() {
		if r.ContainsY(in.Pointer.Y) {
			m.sel.UpdateDrag(r.LineAt(in.Pointer.Y))
			return
		}
	}
}

// FinishFrame clears the selection after a plain click on a chunk.
func (m *Manager) FinishFrame(anyClicked bool) {
	if anyClicked && !m.sel.IsDragging() {
		m.sel.Clear()
	}
}

// Bar is the vertical extent of the selection marker.
type Bar struct {
	YStart float64 `json:"y_start"`
	YEnd   float64 `json:"y_end"`
}

// Bar locates the selection in the current layout. It fails when either end
// of the range was not laid out this frame.
func (m *Manager) Bar() (Bar, bool) {
	lo, hi, ok := m.sel.Bounds()
	if !ok {
		return Bar{}, false
	}
	y0, y1, ok := m.layout.YRange(lo, hi)
	if !ok {
		return Bar{}, false
	}
	return Bar{YStart: y0, YEnd: y1}, true
}

func within(y, lo, hi float64) bool {
	return y >= lo && y <= hi
}
