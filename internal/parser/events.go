package parser

import (
	"bytes"
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// EventKind classifies one item of the markdown event stream.
type EventKind int

const (
	EventStart EventKind = iota
	EventEnd
	EventText
	EventCode // inline code span
	EventSoftBreak
	EventHardBreak
	EventHTML       // one raw line of an HTML block
	EventInlineHTML // inline raw HTML
)

// Tag names the container a Start/End event opens or closes.
type Tag int

const (
	TagNone Tag = iota
	TagParagraph
	TagHeading
	TagEmphasis
	TagStrong
	TagStrikethrough
	TagCodeBlock
	TagImage
	TagLink
	TagList
	TagItem
	TagBlockQuote
	TagHTMLBlock
	TagTable
	TagTableHead
	TagTableRow
	TagTableCell
)

// Event is a single structural or textual markdown event with the source
// range it covers.
type Event struct {
	Kind  EventKind
	Tag   Tag
	Text  string
	Range doctree.ByteRange

	Level      int    // heading level
	Lang       string // code block info string, first word
	Dest       string // image or link destination
	Ordered    bool   // ordered list
	ListStart  int    // first number of an ordered list
	Alignments []doctree.Alignment
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.Table, extension.Strikethrough),
)

// Events parses src and flattens the syntax tree into an ordered event
// stream.
func Events(src []byte) []Event {
	doc := md.Parser().Parse(text.NewReader(src))
	w := &eventWalker{src: src}
	_ = ast.Walk(doc, w.visit)
	return w.events
}

type eventWalker struct {
	src    []byte
	events []Event
	cursor int // furthest source offset seen so far
}

// emit appends e, merging consecutive text events into one.
func (w *eventWalker) emit(e Event) {
	if e.Range.End > w.cursor {
		w.cursor = e.Range.End
	}
	if e.Kind == EventText && len(w.events) > 0 {
		last := &w.events[len(w.events)-1]
		if last.Kind == EventText {
			last.Text += e.Text
			if e.Range.End > last.Range.End {
				last.Range.End = e.Range.End
			}
			return
		}
	}
	w.events = append(w.events, e)
}

func (w *eventWalker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Document:
		return ast.WalkContinue, nil

	case *ast.Text:
		if !entering {
			return ast.WalkContinue, nil
		}
		r := doctree.ByteRange{Start: node.Segment.Start, End: node.Segment.Stop}
		if v := node.Value(w.src); len(v) > 0 {
			w.emit(Event{Kind: EventText, Text: string(v), Range: r})
		}
		if node.HardLineBreak() {
			w.emit(Event{Kind: EventHardBreak, Range: doctree.ByteRange{Start: r.End, End: r.End}})
		} else if node.SoftLineBreak() {
			w.emit(Event{Kind: EventSoftBreak, Range: doctree.ByteRange{Start: r.End, End: r.End}})
		}
		return ast.WalkContinue, nil

	case *ast.String:
		if entering && len(node.Value) > 0 {
			w.emit(Event{Kind: EventText, Text: string(node.Value), Range: doctree.ByteRange{Start: w.cursor, End: w.cursor}})
		}
		return ast.WalkContinue, nil

	case *ast.CodeSpan:
		if !entering {
			return ast.WalkContinue, nil
		}
		var buf bytes.Buffer
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Value(w.src))
			case *ast.String:
				buf.Write(t.Value)
			}
		}
		r, ok := nodeRange(node)
		if !ok {
			r = doctree.ByteRange{Start: w.cursor, End: w.cursor}
		}
		// Widen to the backtick fences.
		for r.Start > 0 && w.src[r.Start-1] == '`' {
			r.Start--
		}
		for r.End < len(w.src) && w.src[r.End] == '`' {
			r.End++
		}
		w.emit(Event{Kind: EventCode, Text: buf.String(), Range: r})
		return ast.WalkSkipChildren, nil

	case *ast.AutoLink:
		if entering {
			label := string(node.Label(w.src))
			start := w.cursor
			if i := bytes.Index(w.src[start:], []byte(label)); i >= 0 {
				start += i
			}
			w.emit(Event{Kind: EventText, Text: label, Range: doctree.ByteRange{Start: start, End: start + len(label)}})
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			var buf bytes.Buffer
			r := doctree.ByteRange{Start: w.cursor, End: w.cursor}
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				if i == 0 {
					r.Start = seg.Start
				}
				r.End = seg.Stop
				buf.Write(seg.Value(w.src))
			}
			w.emit(Event{Kind: EventInlineHTML, Text: buf.String(), Range: r})
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		r := w.rangeOf(node)
		if !entering {
			w.emit(Event{Kind: EventEnd, Tag: TagHTMLBlock, Range: r})
			return ast.WalkContinue, nil
		}
		w.emit(Event{Kind: EventStart, Tag: TagHTMLBlock, Range: r})
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.emit(Event{Kind: EventHTML, Text: string(seg.Value(w.src)), Range: doctree.ByteRange{Start: seg.Start, End: seg.Stop}})
		}
		if node.HasClosure() {
			seg := node.ClosureLine
			w.emit(Event{Kind: EventHTML, Text: string(seg.Value(w.src)), Range: doctree.ByteRange{Start: seg.Start, End: seg.Stop}})
		}
		return ast.WalkContinue, nil

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		r := w.rangeOf(node)
		if !entering {
			w.emit(Event{Kind: EventEnd, Tag: TagCodeBlock, Range: r})
			return ast.WalkContinue, nil
		}
		start := Event{Kind: EventStart, Tag: TagCodeBlock, Range: r}
		if fc, ok := node.(*ast.FencedCodeBlock); ok {
			start.Lang = string(fc.Language(w.src))
		}
		w.emit(start)
		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(w.src))
		}
		if content := strings.TrimSuffix(buf.String(), "\n"); content != "" {
			cr := r
			if cr.End > cr.Start && w.src[cr.End-1] == '\n' {
				cr.End--
			}
			w.emit(Event{Kind: EventText, Text: content, Range: cr})
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		r := w.imageRange(node)
		kind := EventEnd
		if entering {
			kind = EventStart
		}
		w.emit(Event{Kind: kind, Tag: TagImage, Dest: string(node.Destination), Range: r})
		return ast.WalkContinue, nil
	}

	tag, ok := tagFor(n)
	if !ok {
		return ast.WalkContinue, nil
	}
	e := Event{Kind: EventEnd, Tag: tag, Range: w.rangeOf(n)}
	if entering {
		e.Kind = EventStart
	}
	switch node := n.(type) {
	case *ast.Heading:
		e.Level = node.Level
	case *ast.Link:
		e.Dest = string(node.Destination)
	case *ast.List:
		e.Ordered = node.IsOrdered()
		e.ListStart = node.Start
	case *extast.Table:
		e.Alignments = make([]doctree.Alignment, len(node.Alignments))
		for i, a := range node.Alignments {
			e.Alignments[i] = convertAlignment(a)
		}
	}
	w.emit(e)
	return ast.WalkContinue, nil
}

func tagFor(n ast.Node) (Tag, bool) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		return TagParagraph, true
	case *ast.Heading:
		return TagHeading, true
	case *ast.Emphasis:
		if node.Level >= 2 {
			return TagStrong, true
		}
		return TagEmphasis, true
	case *ast.Link:
		return TagLink, true
	case *ast.List:
		return TagList, true
	case *ast.ListItem:
		return TagItem, true
	case *ast.Blockquote:
		return TagBlockQuote, true
	case *extast.Strikethrough:
		return TagStrikethrough, true
	case *extast.Table:
		return TagTable, true
	case *extast.TableHeader:
		return TagTableHead, true
	case *extast.TableRow:
		return TagTableRow, true
	case *extast.TableCell:
		return TagTableCell, true
	}
	return TagNone, false
}

func convertAlignment(a extast.Alignment) doctree.Alignment {
	switch a {
	case extast.AlignLeft:
		return doctree.AlignLeft
	case extast.AlignCenter:
		return doctree.AlignCenter
	case extast.AlignRight:
		return doctree.AlignRight
	default:
		return doctree.AlignNone
	}
}

func (w *eventWalker) rangeOf(n ast.Node) doctree.ByteRange {
	r, ok := nodeRange(n)
	if !ok {
		return doctree.ByteRange{Start: w.cursor, End: w.cursor}
	}
	if _, table := n.(*extast.Table); table {
		r = w.wholeLines(r)
	}
	return r
}

// wholeLines widens r to the start of its first line and the end of its
// last line, excluding the newline.
func (w *eventWalker) wholeLines(r doctree.ByteRange) doctree.ByteRange {
	for r.Start > 0 && w.src[r.Start-1] != '\n' {
		r.Start--
	}
	for r.End < len(w.src) && w.src[r.End] != '\n' {
		r.End++
	}
	return r
}

// imageRange locates the "![alt](dest)" span. Image nodes carry no segment
// of their own, so it is recovered from the source around the alt text.
func (w *eventWalker) imageRange(n *ast.Image) doctree.ByteRange {
	from := w.cursor
	if r, ok := nodeRange(n); ok {
		from = r.Start
		for from > 0 && !bytes.HasPrefix(w.src[from:], []byte("![")) {
			from--
		}
	} else if i := bytes.Index(w.src[from:], []byte("![")); i >= 0 {
		from += i
	}
	end := from
	if i := bytes.Index(w.src[from:], []byte("](")); i >= 0 {
		end = from + i + 2
		depth := 1
		for end < len(w.src) && depth > 0 {
			switch w.src[end] {
			case '(':
				depth++
			case ')':
				depth--
			case '\n':
				depth = 0
				continue
			}
			end++
		}
	}
	return doctree.ByteRange{Start: from, End: end}
}

// nodeRange is the union of the node's own segments and its descendants'.
func nodeRange(n ast.Node) (doctree.ByteRange, bool) {
	var r doctree.ByteRange
	found := false
	add := func(start, stop int) {
		if !found {
			r = doctree.ByteRange{Start: start, End: stop}
			found = true
			return
		}
		if start < r.Start {
			r.Start = start
		}
		if stop > r.End {
			r.End = stop
		}
	}

	switch node := n.(type) {
	case *ast.Text:
		add(node.Segment.Start, node.Segment.Stop)
	case *ast.RawHTML:
		for i := 0; i < node.Segments.Len(); i++ {
			seg := node.Segments.At(i)
			add(seg.Start, seg.Stop)
		}
	case *ast.HTMLBlock:
		if node.HasClosure() {
			add(node.ClosureLine.Start, node.ClosureLine.Stop)
		}
	}
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		if lines.Len() > 0 {
			add(lines.At(0).Start, lines.At(lines.Len()-1).Stop)
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if cr, ok := nodeRange(c); ok {
			add(cr.Start, cr.End)
		}
	}
	return r, found
}
