package selection

import (
	"testing"

	"github.com/dgallion1/mirror/internal/layout"
)

func TestSelection_DragLifecycle(t *testing.T) {
	var s Selection
	if s.IsActive() || s.IsDragging() {
		t.Fatal("expected zero selection to be idle")
	}

	s.StartDrag(5)
	if !s.IsActive() || !s.IsDragging() {
		t.Fatal("expected active dragging selection after StartDrag")
	}

	s.UpdateDrag(10)
	if _, end, _ := s.Lines(); end != 10 {
		t.Errorf("expected end line 10, got %d", end)
	}

	s.EndDrag()
	if s.IsDragging() {
		t.Error("expected dragging to stop")
	}
	if !s.IsActive() {
		t.Error("expected selection to stay active after EndDrag")
	}
	if s.State() != StateHeld {
		t.Errorf("expected held state, got %s", s.State())
	}

	s.Clear()
	if s.IsActive() || s.IsDragging() {
		t.Error("expected clear to reset selection")
	}
	s.Clear()
	if s.State() != StateIdle {
		t.Errorf("expected idle after repeated clear, got %s", s.State())
	}
}

func TestSelection_UpdateIgnoredWhenNotDragging(t *testing.T) {
	var s Selection
	s.UpdateDrag(4)
	if s.IsActive() {
		t.Error("expected update on idle selection to be ignored")
	}
	s.Select(2, 3)
	s.UpdateDrag(9)
	if _, end, _ := s.Lines(); end != 3 {
		t.Errorf("expected held selection to keep end 3, got %d", end)
	}
}

func TestSelection_BoundsNormalize(t *testing.T) {
	var s Selection
	s.StartDrag(10)
	s.UpdateDrag(4)

	lo, hi, ok := s.Bounds()
	if !ok || lo != 4 || hi != 10 {
		t.Errorf("expected (4,10), got (%d,%d) ok=%v", lo, hi, ok)
	}
	for _, line := range []int{4, 7, 10} {
		if !s.ContainsLine(line) {
			t.Errorf("expected line %d to be selected", line)
		}
	}
	for _, line := range []int{3, 11} {
		if s.ContainsLine(line) {
			t.Errorf("expected line %d not to be selected", line)
		}
	}
}

func TestSelection_Snapshot(t *testing.T) {
	var s Selection
	if snap := s.Snapshot(); snap.State != StateIdle || snap.StartLine != 0 {
		t.Errorf("expected idle snapshot, got %+v", snap)
	}
	s.StartDrag(3)
	s.UpdateDrag(6)
	snap := s.Snapshot()
	if snap.State != StateDragging || snap.StartLine != 3 || snap.EndLine != 6 {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func newFixture() (*Selection, *layout.Map, *Manager) {
	sel := &Selection{}
	m := layout.NewMap()
	m.RecordChunk(1, 1, 0, 20)
	m.RecordChunk(3, 8, 40, 160)
	m.RecordChunk(10, 10, 180, 200)
	return sel, m, NewManager(sel, m)
}

func TestManager_DragStartInterpolates(t *testing.T) {
	sel, _, mgr := newFixture()
	in := Input{DragStarted: true, Down: true, HasPointer: true, PressOrigin: Point{Y: 95}, Pointer: Point{Y: 95}}

	clicked := mgr.HandleInteraction(in, 3, 8, 40, 160)
	if clicked {
		t.Error("expected a drag not to count as a click")
	}
	// 6 lines over 120px: y=95 is 55px down, line index 2.
	start, end, ok := sel.Lines()
	if !ok || start != 5 || end != 5 {
		t.Errorf("expected anchor at line 5, got (%d,%d) ok=%v", start, end, ok)
	}
}

func TestManager_DragOutsideChunkIgnored(t *testing.T) {
	sel, _, mgr := newFixture()
	in := Input{DragStarted: true, Down: true, PressOrigin: Point{Y: 300}}
	mgr.HandleInteraction(in, 3, 8, 40, 160)
	if sel.IsActive() {
		t.Error("expected press outside the chunk not to start a drag")
	}
}

func TestManager_HoverExtendsBothWays(t *testing.T) {
	sel, _, mgr := newFixture()
	sel.StartDrag(5)

	mgr.UpdateFromHover(Input{HasPointer: true, Down: true, Pointer: Point{Y: 190}})
	if _, end, _ := sel.Lines(); end != 10 {
		t.Errorf("expected drag down to line 10, got %d", end)
	}

	mgr.UpdateFromHover(Input{HasPointer: true, Down: true, Pointer: Point{Y: 5}})
	if _, end, _ := sel.Lines(); end != 1 {
		t.Errorf("expected drag up to line 1, got %d", end)
	}
	lo, hi, _ := sel.Bounds()
	if lo != 1 || hi != 5 {
		t.Errorf("expected bounds (1,5), got (%d,%d)", lo, hi)
	}

	// Gap between records leaves the end where it was.
	mgr.UpdateFromHover(Input{HasPointer: true, Down: true, Pointer: Point{Y: 30}})
	if _, end, _ := sel.Lines(); end != 1 {
		t.Errorf("expected end to stay at 1 over a gap, got %d", end)
	}
}

func TestManager_HoverIgnoredWhenHeld(t *testing.T) {
	sel, _, mgr := newFixture()
	sel.Select(3, 4)
	mgr.UpdateFromHover(Input{HasPointer: true, Pointer: Point{Y: 190}})
	if _, end, _ := sel.Lines(); end != 4 {
		t.Errorf("expected held selection unchanged, got end %d", end)
	}
}

func TestManager_ReleaseEndsDrag(t *testing.T) {
	sel, _, mgr := newFixture()
	sel.StartDrag(3)
	mgr.HandleRelease(Input{Down: true})
	if !sel.IsDragging() {
		t.Fatal("expected drag to continue while button is down")
	}
	mgr.HandleRelease(Input{Down: false})
	if sel.IsDragging() || !sel.IsActive() {
		t.Error("expected release to move to held")
	}
}

func TestManager_ClickClears(t *testing.T) {
	sel, _, mgr := newFixture()
	sel.Select(3, 6)

	in := Input{Clicked: true, HasPointer: true, Pointer: Point{Y: 50}}
	clicked := mgr.HandleInteraction(in, 3, 8, 40, 160)
	if !clicked {
		t.Fatal("expected click inside the chunk to register")
	}
	mgr.FinishFrame(clicked)
	if sel.IsActive() {
		t.Error("expected plain click to clear the selection")
	}
}

func TestManager_ClickDuringDragKeepsSelection(t *testing.T) {
	sel, _, mgr := newFixture()
	sel.StartDrag(3)
	mgr.FinishFrame(true)
	if !sel.IsActive() {
		t.Error("expected selection to survive while dragging")
	}
}

func TestManager_SingleLineClick(t *testing.T) {
	sel, _, mgr := newFixture()
	mgr.HandleSingleLine(Input{Clicked: true, HasPointer: true, Pointer: Point{Y: 185}}, 10, 180, 200)
	start, end, ok := sel.Lines()
	if !ok || start != 10 || end != 10 || sel.IsDragging() {
		t.Errorf("expected held single line 10, got (%d,%d) ok=%v dragging=%v", start, end, ok, sel.IsDragging())
	}
}

func TestManager_Bar(t *testing.T) {
	sel, _, mgr := newFixture()
	if _, ok := mgr.Bar(); ok {
		t.Error("expected no bar without a selection")
	}
	sel.Select(4, 3)
	bar, ok := mgr.Bar()
	if !ok {
		t.Fatal("expected bar")
	}
	// Lines are 20px each inside the 3-8 record.
	if bar.YStart != 40 || bar.YEnd != 80 {
		t.Errorf("expected bar 40-80, got %v-%v", bar.YStart, bar.YEnd)
	}
}

func TestInput_Normalize(t *testing.T) {
	in := Input{Clicked: true, DragStarted: true}.Normalize()
	if in.Clicked || !in.DragStarted {
		t.Errorf("expected drag to win, got %+v", in)
	}
}
