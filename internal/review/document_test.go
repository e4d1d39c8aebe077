package review

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/mirror/internal/layout"
	"github.com/dgallion1/mirror/internal/selection"
)

const sampleDoc = `# Title

First paragraph
continues here.

- item one
- item two
`

func newTestDoc(t *testing.T, mode Mode) (*Document, string) {
	t.Helper()
	dir := t.TempDir()
	doc := NewDocument("sample.md", sampleDoc, Options{
		Mode:    mode,
		Storage: NewStorage(dir, "sample.md", ""),
	})
	return doc, dir
}

func TestDocument_LazyParse(t *testing.T) {
	doc, _ := newTestDoc(t, ModeImmediate)
	if doc.parsed {
		t.Fatal("expected chunks to be parsed lazily")
	}
	chunks := doc.Chunks()
	if len(chunks) == 0 {
		t.Fatal("expected chunks after first use")
	}
	if chunks[0].HeadingLevel != 1 || chunks[0].Text != "Title" {
		t.Errorf("expected heading chunk first, got %+v", chunks[0])
	}
	snap := doc.Snapshot()
	if snap.Lines != 7 || snap.Chunks != len(chunks) {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestDocument_BatchedCommentsAndSubmit(t *testing.T) {
	doc, dir := newTestDoc(t, ModeBatched)

	if err := doc.Select(4, 3); err != nil {
		t.Fatal(err)
	}
	c, path, err := doc.AttachComment("clarify")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("expected batched comment not to be written, got %s", path)
	}
	if c.LineStart != 3 || c.LineEnd != 4 || c.ColEnd != len("continues here.")+1 {
		t.Errorf("unexpected comment range %+v", c)
	}
	if c.Snippet != "First paragraph\ncontinues here." {
		t.Errorf("unexpected snippet %q", c.Snippet)
	}
	if doc.Selection().State != selection.StateIdle {
		t.Error("expected selection to be cleared after commenting")
	}
	if len(doc.Queued()) != 1 {
		t.Fatalf("expected 1 queued comment, got %d", len(doc.Queued()))
	}

	doc.Select(6, 7)
	doc.AttachComment("list style")

	out, err := doc.Submit()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Dir(out) != dir || filepath.Base(out) != "sample.review.1" {
		t.Errorf("unexpected review path %s", out)
	}
	raw, _ := os.ReadFile(out)
	if n := strings.Count(string(raw), "\n"); n != 2 {
		t.Errorf("expected 2 JSON lines, got %d", n)
	}
	if len(doc.Queued()) != 0 {
		t.Error("expected queue to be empty after submit")
	}
	if _, err := doc.Submit(); !errors.Is(err, ErrNothingToSubmit) {
		t.Errorf("expected ErrNothingToSubmit, got %v", err)
	}
}

func TestDocument_ImmediateCommentWritesFile(t *testing.T) {
	doc, _ := newTestDoc(t, ModeImmediate)
	doc.Select(1, 1)
	_, path, err := doc.AttachComment("rename")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "sample.review.1" {
		t.Errorf("expected sample.review.1, got %q", path)
	}
	if got := doc.Snapshot().ReviewFiles; len(got) != 1 || got[0] != path {
		t.Errorf("expected review file recorded, got %v", got)
	}
}

func TestDocument_CommentErrors(t *testing.T) {
	doc, _ := newTestDoc(t, ModeBatched)
	if _, _, err := doc.AttachComment("nothing selected"); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}
	doc.Select(1, 2)
	if _, _, err := doc.AttachComment(""); !errors.Is(err, ErrEmptyComment) {
		t.Errorf("expected ErrEmptyComment, got %v", err)
	}
	if doc.Selection().State != selection.StateHeld {
		t.Error("expected failed comment to keep the selection")
	}
}

func TestDocument_SelectOutOfRange(t *testing.T) {
	doc, _ := newTestDoc(t, ModeImmediate)
	for _, r := range [][2]int{{0, 1}, {1, 8}, {9, 9}} {
		if err := doc.Select(r[0], r[1]); !errors.Is(err, ErrLineRange) {
			t.Errorf("%v: expected ErrLineRange, got %v", r, err)
		}
	}
}

func TestDocument_Approve(t *testing.T) {
	doc, _ := newTestDoc(t, ModeImmediate)
	path, err := doc.Approve()
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), "LGTM - ") {
		t.Errorf("expected LGTM line, got %q", raw)
	}
	if !doc.Snapshot().Approved {
		t.Error("expected document to be approved")
	}
}

func TestDocument_NoStorage(t *testing.T) {
	doc := NewDocument("x.md", "text", Options{})
	if _, err := doc.Approve(); err == nil {
		t.Error("expected error without storage")
	}
}

func TestDocument_FrameDragSelectsHeading(t *testing.T) {
	doc, _ := newTestDoc(t, ModeImmediate)
	vp := layout.Rect{MaxX: 800, MaxY: 600}

	res := doc.Frame(vp, 800, selection.Input{
		HasPointer: true, Down: true, DragStarted: true,
		Pointer: selection.Point{Y: 5}, PressOrigin: selection.Point{Y: 5},
	})
	if res.Selection.State != selection.StateDragging {
		t.Fatalf("expected dragging, got %+v", res.Selection)
	}
	if res.ContentWidth != 720 {
		t.Errorf("expected content width 720, got %v", res.ContentWidth)
	}
	if res.TotalHeight <= 0 || res.Measured == 0 {
		t.Errorf("expected measured content, got %+v", res.Result)
	}

	res = doc.Frame(vp, 800, selection.Input{HasPointer: true, Pointer: selection.Point{Y: 5}})
	if res.Selection.State != selection.StateHeld || res.Selection.StartLine != 1 || res.Selection.EndLine != 1 {
		t.Errorf("expected held line 1, got %+v", res.Selection)
	}
}

func TestDocument_SetSourceResets(t *testing.T) {
	doc, _ := newTestDoc(t, ModeImmediate)
	doc.Frame(layout.Rect{MaxX: 800, MaxY: 600}, 800, selection.Input{})
	doc.Select(1, 1)

	doc.SetSource("just one line")
	if doc.parsed {
		t.Error("expected chunks to be invalidated")
	}
	if doc.Selection().State != selection.StateIdle {
		t.Error("expected selection cleared")
	}
	if got := doc.Chunks(); len(got) != 1 || got[0].Text != "just one line" {
		t.Errorf("unexpected chunks after SetSource: %+v", got)
	}
	if doc.heights.Len() != 1 {
		t.Errorf("expected height cache sized to new chunks, got %d", doc.heights.Len())
	}
}
