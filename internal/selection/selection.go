package selection

// Selection is a line range picked by dragging in the document. Start is
// where the drag began and End follows the pointer, so End may be above
// Start. A selection is either fully set or fully clear.
type Selection struct {
	start    int
	end      int
	active   bool
	dragging bool
}

// StartDrag anchors a new selection at line.
func (s *Selection) StartDrag(line int) {
	s.start = line
	s.end = line
	s.active = true
	s.dragging = true
}

// UpdateDrag moves the free end of an in-progress drag.
func (s *Selection) UpdateDrag(line int) {
	if !s.dragging {
		return
	}
	s.end = line
}

// EndDrag commits the selection. The range stays active.
func (s *Selection) EndDrag() {
	s.dragging = false
}

// Select sets a committed range directly.
func (s *Selection) Select(start, end int) {
	s.start = start
	s.end = end
	s.active = true
	s.dragging = false
}

// Clear drops the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

func (s *Selection) IsActive() bool   { return s.active }
func (s *Selection) IsDragging() bool { return s.dragging }

// Lines returns the raw anchor and free end.
func (s *Selection) Lines() (start, end int, ok bool) {
	return s.start, s.end, s.active
}

// Bounds returns the range normalized so lo <= hi.
func (s *Selection) Bounds() (lo, hi int, ok bool) {
	if !s.active {
		return 0, 0, false
	}
	if s.start <= s.end {
		return s.start, s.end, true
	}
	return s.end, s.start, true
}

// ContainsLine reports whether line is inside the normalized range.
func (s *Selection) ContainsLine(line int) bool {
	lo, hi, ok := s.Bounds()
	return ok && line >= lo && line <= hi
}

// State names the selection's position in the drag lifecycle.
type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
	StateHeld     State = "held"
)

func (s *Selection) State() State {
	switch {
	case s.dragging:
		return StateDragging
	case s.active:
		return StateHeld
	default:
		return StateIdle
	}
}

// Snapshot is a JSON-friendly copy of the selection.
type Snapshot struct {
	State     State `json:"state"`
	StartLine int   `json:"start_line,omitempty"`
	EndLine   int   `json:"end_line,omitempty"`
}

func (s *Selection) Snapshot() Snapshot {
	snap := Snapshot{State: s.State()}
	if s.active {
		snap.StartLine = s.start
		snap.EndLine = s.end
	}
	return snap
}
