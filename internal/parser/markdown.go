package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
)

// ImageMetadata reports the natural pixel size of an image file.
type ImageMetadata interface {
	LoadMetadata(path string) (width, height int, ok bool)
}

// MarkdownParser turns markdown source into positioned chunks.
type MarkdownParser struct {
	images ImageMetadata
	log    *slog.Logger
}

// NewMarkdownParser creates a parser. images may be nil, in which case image
// chunks carry no precomputed height.
func NewMarkdownParser(images ImageMetadata, log *slog.Logger) *MarkdownParser {
	if log == nil {
		log = slog.Default()
	}
	return &MarkdownParser{images: images, log: log}
}

// Parse never fails: anything it cannot make sense of is dropped or kept in
// the closest plain shape.
func (p *MarkdownParser) Parse(source, basePath string) []doctree.Chunk {
	b := &chunkBuilder{
		p:        p,
		source:   source,
		basePath: basePath,
		index:    NewLineIndex(source),
	}
	for _, ev := range Events([]byte(source)) {
		b.step(ev)
	}
	return b.chunks
}

// styleState is the inline formatting in effect at the current event.
type styleState struct {
	bold    bool
	italic  bool
	heading int

	inCode   bool
	codeLang string

	inImage  bool
	imageURL string

	lists      []listState
	itemPrefix string // marker for the first chunk of a list item
}

type listState struct {
	ordered bool
	next    int
}

type tableState struct {
	table *doctree.Table
	r     doctree.ByteRange
	row   []string
	cell  *strings.Builder
	head  bool
}

type htmlState struct {
	buf strings.Builder
	r   doctree.ByteRange
}

type chunkBuilder struct {
	p        *MarkdownParser
	source   string
	basePath string
	index    *LineIndex

	style  styleState
	table  *tableState
	html   *htmlState
	chunks []doctree.Chunk
}

func (b *chunkBuilder) step(ev Event) {
	switch ev.Kind {
	case EventStart:
		b.start(ev)
	case EventEnd:
		b.end(ev)
	case EventText:
		b.text(ev)
	case EventCode:
		if b.table != nil {
			b.cellWrite(ev.Text)
			return
		}
		if b.style.inImage || b.html != nil {
			return
		}
		c := b.styled(ev.Text, ev.Range)
		c.Code = true
		b.push(c)
	case EventSoftBreak:
		if b.suppressed() {
			return
		}
		b.push(doctree.Chunk{Kind: doctree.KindText, Text: " ", Range: ev.Range})
	case EventHardBreak:
		if b.suppressed() {
			return
		}
		b.push(doctree.Chunk{Kind: doctree.KindText, Text: "\n", Range: ev.Range, NewlineAfter: true})
	case EventHTML:
		if b.html != nil {
			b.html.buf.WriteString(ev.Text)
		}
	case EventInlineHTML:
		// Inline tags carry no text of their own.
	}
}

func (b *chunkBuilder) suppressed() bool {
	return b.table != nil || b.style.inImage || b.html != nil
}

// tableTag reports whether t belongs to the table structure itself. Inside a
// table every other tag is ignored so cell content stays in the cell.
func tableTag(t Tag) bool {
	switch t {
	case TagTable, TagTableHead, TagTableRow, TagTableCell:
		return true
	}
	return false
}

func (b *chunkBuilder) start(ev Event) {
	if b.table != nil && !tableTag(ev.Tag) {
		return
	}
	switch ev.Tag {
	case TagHeading:
		b.style.heading = ev.Level
	case TagStrong:
		b.style.bold = true
	case TagEmphasis:
		b.style.italic = true
	case TagCodeBlock:
		b.style.inCode = true
		b.style.codeLang = ev.Lang
	case TagImage:
		b.style.inImage = true
		b.style.imageURL = ev.Dest
	case TagList:
		next := 1
		if ev.Ordered {
			next = ev.ListStart
		}
		b.style.lists = append(b.style.lists, listState{ordered: ev.Ordered, next: next})
	case TagItem:
		if n := len(b.style.lists); n > 0 {
			l := &b.style.lists[n-1]
			if l.ordered {
				b.style.itemPrefix = fmt.Sprintf("%d. ", l.next)
				l.next++
			} else {
				b.style.itemPrefix = "- "
			}
		}
	case TagTable:
		b.table = &tableState{
			table: &doctree.Table{Alignments: ev.Alignments},
			r:     ev.Range,
		}
	case TagTableHead:
		if b.table != nil {
			b.table.head = true
			b.table.row = nil
		}
	case TagTableRow:
		if b.table != nil {
			b.table.row = nil
		}
	case TagTableCell:
		if b.table != nil {
			b.table.cell = &strings.Builder{}
		}
	case TagHTMLBlock:
		b.html = &htmlState{r: ev.Range}
	}
}

func (b *chunkBuilder) end(ev Event) {
	if b.table != nil && !tableTag(ev.Tag) {
		return
	}
	switch ev.Tag {
	case TagParagraph:
		b.markNewline()
	case TagHeading:
		b.markNewline()
		b.style.heading = 0
	case TagStrong:
		b.style.bold = false
	case TagEmphasis:
		b.style.italic = false
	case TagCodeBlock:
		b.markNewline()
		b.style.inCode = false
		b.style.codeLang = ""
	case TagImage:
		b.style.inImage = false
		b.pushImage(b.style.imageURL, ev.Range, doctree.AlignNone, 0)
		b.style.imageURL = ""
	case TagList:
		if n := len(b.style.lists); n > 0 {
			b.style.lists = b.style.lists[:n-1]
		}
	case TagItem:
		b.style.itemPrefix = ""
	case TagTableCell:
		if t := b.table; t != nil && t.cell != nil {
			t.row = append(t.row, strings.TrimSpace(t.cell.String()))
			t.cell = nil
		}
	case TagTableHead, TagTableRow:
		if t := b.table; t != nil {
			if t.head {
				t.table.Header = t.row
				t.head = false
			}
			t.table.Rows = append(t.table.Rows, t.row)
			t.row = nil
		}
	case TagTable:
		if t := b.table; t != nil {
			b.table = nil
			c := b.positioned("[Table]", t.r)
			c.Kind = doctree.KindTable
			c.Table = t.table
			c.NewlineAfter = true
			b.push(c)
		}
	case TagHTMLBlock:
		if h := b.html; h != nil {
			b.html = nil
			src, align, width, ok := ParseHTMLImage(h.buf.String())
			if !ok {
				b.p.log.Debug("dropping html block", "offset", h.r.Start)
				return
			}
			b.pushImage(src, h.r, align, width)
		}
	}
}

func (b *chunkBuilder) text(ev Event) {
	if b.table != nil {
		b.cellWrite(ev.Text)
		return
	}
	if b.style.inImage || b.html != nil {
		return
	}
	if b.style.inCode {
		c := b.positioned(ev.Text, ev.Range)
		c.Kind = doctree.KindCode
		c.CodeLang = b.style.codeLang
		b.push(c)
		return
	}
	b.push(b.styled(ev.Text, ev.Range))
}

func (b *chunkBuilder) cellWrite(s string) {
	if b.table.cell != nil {
		b.table.cell.WriteString(s)
	}
}

// styled builds a text chunk carrying the current inline style.
func (b *chunkBuilder) styled(text string, r doctree.ByteRange) doctree.Chunk {
	if b.style.itemPrefix != "" {
		text = b.style.itemPrefix + text
		b.style.itemPrefix = ""
	}
	c := b.positioned(text, r)
	c.Bold = b.style.bold
	c.Italic = b.style.italic
	c.HeadingLevel = b.style.heading
	return c
}

func (b *chunkBuilder) positioned(text string, r doctree.ByteRange) doctree.Chunk {
	end := r.End
	if end > r.Start && end <= len(b.source) && b.source[end-1] == '\n' {
		end--
	}
	c := doctree.Chunk{Kind: doctree.KindText, Text: text, Range: r}
	c.LineStart, c.ColStart = b.index.LineCol(b.source, r.Start)
	c.LineEnd, c.ColEnd = b.index.LineCol(b.source, end)
	return c
}

func (b *chunkBuilder) pushImage(url string, r doctree.ByteRange, align doctree.Alignment, width float64) {
	c := b.positioned("[Image: "+url+"]", r)
	c.Kind = doctree.KindImage
	c.ImagePath = resolvePath(b.basePath, url)
	c.Alignment = align
	c.ImageWidth = width
	c.ImageHeight = b.imageHeight(c.ImagePath, width)
	c.NewlineAfter = true
	b.push(c)
}

// imageHeight scales the natural height to the width constraint, if any.
// Zero means the size is unknown.
func (b *chunkBuilder) imageHeight(path string, width float64) float64 {
	if b.p.images == nil {
		return 0
	}
	nw, nh, ok := b.p.images.LoadMetadata(path)
	if !ok || nw <= 0 || nh <= 0 {
		b.p.log.Debug("image metadata unavailable", "path", path)
		return 0
	}
	if width > 0 {
		return width * float64(nh) / float64(nw)
	}
	return float64(nh)
}

func (b *chunkBuilder) push(c doctree.Chunk) {
	b.chunks = append(b.chunks, c)
}

func (b *chunkBuilder) markNewline() {
	if n := len(b.chunks); n > 0 {
		b.chunks[n-1].NewlineAfter = true
	}
}

func resolvePath(base, p string) string {
	if p == "" || base == "" || filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(base, p)
}
