package doctree

// Kind tags the closed set of chunk shapes.
type Kind int

const (
	KindText Kind = iota
	KindCode      // fenced or indented code block
	KindImage
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return "text"
	}
}

// Alignment is a horizontal alignment for images and table columns.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "none"
	}
}

// ByteRange is a half-open span [Start, End) into the source.
type ByteRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Chunk is a positioned, styled span of markdown content.
//
// Line and column fields are 1-indexed. A LineStart of 0 marks a chunk that
// has no position of its own (soft and hard breaks).
type Chunk struct {
	Kind  Kind      `json:"kind"`
	Text  string    `json:"text"`
	Range ByteRange `json:"byte_range"`

	LineStart int `json:"line_start"`
	ColStart  int `json:"col_start"`
	LineEnd   int `json:"line_end"`
	ColEnd    int `json:"col_end"`

	Bold         bool `json:"bold,omitempty"`
	Italic       bool `json:"italic,omitempty"`
	Code         bool `json:"code,omitempty"`          // inline code span
	HeadingLevel int  `json:"heading_level,omitempty"` // 1-6, 0 when not a heading
	NewlineAfter bool `json:"newline_after,omitempty"`

	ImagePath   string    `json:"image_path,omitempty"`
	Alignment   Alignment `json:"alignment,omitempty"`
	ImageWidth  float64   `json:"image_width,omitempty"`  // 0 when unconstrained
	ImageHeight float64   `json:"image_height,omitempty"` // 0 when unknown

	CodeLang string `json:"code_lang,omitempty"`
	Table    *Table `json:"table,omitempty"`
}

func (c *Chunk) IsImage() bool     { return c.Kind == KindImage }
func (c *Chunk) IsCodeBlock() bool { return c.Kind == KindCode }
func (c *Chunk) IsTable() bool     { return c.Kind == KindTable }

// Positioned reports whether the chunk maps to real source lines.
func (c *Chunk) Positioned() bool { return c.LineStart > 0 }

// LineCount is the number of source lines the chunk spans, at least 1.
func (c *Chunk) LineCount() int {
	if !c.Positioned() || c.LineEnd < c.LineStart {
		return 1
	}
	return c.LineEnd - c.LineStart + 1
}

// Table is a parsed GFM table. Rows holds the header as its first row.
type Table struct {
	Alignments []Alignment `json:"alignments"`
	Header     []string    `json:"header"`
	Rows       [][]string  `json:"rows"`
}

// Body returns the rows after the header.
func (t *Table) Body() [][]string {
	if len(t.Rows) <= 1 {
		return nil
	}
	return t.Rows[1:]
}

// AlignmentAt returns the alignment of column i. Columns without an entry
// are unaligned.
func (t *Table) AlignmentAt(i int) Alignment {
	if i < 0 || i >= len(t.Alignments) {
		return AlignNone
	}
	return t.Alignments[i]
}

// Columns is the widest row's cell count.
func (t *Table) Columns() int {
	n := len(t.Header)
	for _, row := range t.Rows {
		if len(row) > n {
			n = len(row)
		}
	}
	return n
}
