package review

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/highlight"
	"github.com/dgallion1/mirror/internal/images"
	"github.com/dgallion1/mirror/internal/layout"
	"github.com/dgallion1/mirror/internal/parser"
	"github.com/dgallion1/mirror/internal/render"
	"github.com/dgallion1/mirror/internal/selection"
	"github.com/dgallion1/mirror/internal/theme"
)

var (
	ErrNoSelection     = errors.New("no lines selected")
	ErrEmptyComment    = errors.New("comment text is empty")
	ErrNothingToSubmit = errors.New("no queued comments to submit")
	ErrLineRange       = errors.New("line range outside document")
)

// Options configures a Document. Zero values pick defaults.
type Options struct {
	BasePath    string
	Mode        Mode
	Theme       *theme.Theme
	Images      *images.Manager
	Highlighter *highlight.Highlighter
	Storage     *Storage
	Logger      *slog.Logger
}

// Document is one markdown file under review along with its per-frame UI
// state. All methods are safe for concurrent use.
type Document struct {
	mu sync.Mutex

	ID       string
	Filename string
	BasePath string

	source  string
	chunks  []doctree.Chunk
	parsed  bool
	lines   int
	sel     selection.Selection
	layout  *layout.Map
	heights *layout.HeightCache

	mode     Mode
	queued   []Comment
	written  []string
	approved bool

	theme   theme.Theme
	parser  *parser.MarkdownParser
	painter render.Painter
	storage *Storage
	log     *slog.Logger

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDocument wraps source. Parsing is deferred until the chunks are first
// needed.
func NewDocument(filename, source string, opts Options) *Document {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	im := opts.Images
	if im == nil {
		im = images.NewManager(log)
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeImmediate
	}
	now := time.Now()
	id := NewID()
	return &Document{
		ID:        id,
		Filename:  filename,
		BasePath:  opts.BasePath,
		source:    source,
		lines:     len(sourceLines(source)),
		layout:    layout.NewMap(),
		heights:   layout.NewHeightCache(0),
		mode:      mode,
		theme:     th,
		parser:    parser.NewMarkdownParser(im, log),
		painter:   render.NewTextPainter(th, opts.Highlighter, im),
		storage:   opts.Storage,
		log:       log.With("doc_id", id, "file", filename),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (d *Document) ensureParsed() {
	if d.parsed {
		return
	}
	start := time.Now()
	d.chunks = d.parser.Parse(d.source, d.BasePath)
	d.heights.Reset(len(d.chunks))
	d.parsed = true
	d.log.Debug("parsed document", "chunks", len(d.chunks), "duration_ms", time.Since(start).Milliseconds())
}

// Chunks returns the parsed chunks. The slice must not be modified.
func (d *Document) Chunks() []doctree.Chunk {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureParsed()
	return d.chunks
}

func (d *Document) Source() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.source
}

// SetSource replaces the document text. Cached chunks, heights and the
// selection are dropped; queued comments are kept.
func (d *Document) SetSource(source string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source = source
	d.lines = len(sourceLines(source))
	d.chunks = nil
	d.parsed = false
	d.heights.Reset(0)
	d.sel.Clear()
	d.touch()
}

// FrameResult is a frame's layout summary plus the selection it left.
type FrameResult struct {
	render.Result
	ContentWidth float64            `json:"content_width"`
	Selection    selection.Snapshot `json:"selection"`
}

// Frame runs one layout pass over a viewport in document coordinates.
// width is the full viewport width; page margins are applied here.
func (d *Document) Frame(viewport layout.Rect, width float64, in selection.Input) FrameResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureParsed()

	cw := d.theme.ContentWidth(width)
	pass := render.Pass{
		Chunks:    d.chunks,
		Heights:   d.heights,
		Layout:    d.layout,
		Selection: &d.sel,
		Painter:   d.painter,
		Theme:     d.theme,
	}
	res := pass.Run(viewport, cw, in)
	d.touch()
	return FrameResult{Result: res, ContentWidth: cw, Selection: d.sel.Snapshot()}
}

// Select sets the selection directly, bypassing pointer input.
func (d *Document) Select(start, end int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if start < 1 || end < 1 || start > d.lines || end > d.lines {
		return fmt.Errorf("%w: %d-%d of %d", ErrLineRange, start, end, d.lines)
	}
	d.sel.Select(start, end)
	d.touch()
	return nil
}

func (d *Document) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sel.Clear()
}

func (d *Document) Selection() selection.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sel.Snapshot()
}

// AttachComment turns the current selection into a comment and clears the
// selection. In immediate mode the comment is written at once and path is
// the review file; in batched mode it is queued and path is empty.
func (d *Document) AttachComment(text string) (c Comment, path string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if text == "" {
		return Comment{}, "", ErrEmptyComment
	}
	lo, hi, ok := d.sel.Bounds()
	if !ok || d.sel.IsDragging() {
		return Comment{}, "", ErrNoSelection
	}
	c = newComment(d.source, text, lo, hi)

	if d.mode == ModeImmediate {
		path, err = d.writeLocked([]Comment{c})
		if err != nil {
			return Comment{}, "", err
		}
	} else {
		d.queued = append(d.queued, c)
	}
	d.sel.Clear()
	d.touch()
	d.log.Info("comment added", "lines", c.Format(), "mode", d.mode)
	return c, path, nil
}

// Submit writes every queued comment to one review file.
func (d *Document) Submit() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queued) == 0 {
		return "", ErrNothingToSubmit
	}
	path, err := d.writeLocked(d.queued)
	if err != nil {
		return "", err
	}
	d.log.Info("review submitted", "comments", len(d.queued), "path", path)
	d.queued = nil
	d.touch()
	return path, nil
}

// Approve records an LGTM for the document.
func (d *Document) Approve() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.storage == nil {
		return "", fmt.Errorf("document %s has no review storage", d.ID)
	}
	path, err := d.storage.WriteApproval()
	if err != nil {
		return "", fmt.Errorf("approve %s: %w", d.Filename, err)
	}
	d.approved = true
	d.written = append(d.written, path)
	d.touch()
	d.log.Info("document approved", "path", path)
	return path, nil
}

func (d *Document) writeLocked(comments []Comment) (string, error) {
	if d.storage == nil {
		return "", fmt.Errorf("document %s has no review storage", d.ID)
	}
	path, err := d.storage.WriteReview(comments)
	if err != nil {
		return "", fmt.Errorf("write review for %s: %w", d.Filename, err)
	}
	d.written = append(d.written, path)
	return path, nil
}

// Queued returns a copy of the comments waiting for Submit.
func (d *Document) Queued() []Comment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Comment(nil), d.queued...)
}

// Snapshot is a JSON-safe view of a document.
type Snapshot struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	Lines       int                `json:"lines"`
	Chunks      int                `json:"chunks"`
	Mode        Mode               `json:"mode"`
	Queued      int                `json:"queued_comments"`
	ReviewFiles []string           `json:"review_files"`
	Approved    bool               `json:"approved"`
	Selection   selection.Snapshot `json:"selection"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (d *Document) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureParsed()
	files := append([]string{}, d.written...)
	return Snapshot{
		ID:          d.ID,
		Filename:    d.Filename,
		Lines:       d.lines,
		Chunks:      len(d.chunks),
		Mode:        d.mode,
		Queued:      len(d.queued),
		ReviewFiles: files,
		Approved:    d.approved,
		Selection:   d.sel.Snapshot(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *Document) touch() {
	d.UpdatedAt = time.Now()
}

func (d *Document) lastUsed() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.UpdatedAt
}
