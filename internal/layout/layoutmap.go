package layout

import "math"

// Record ties a source line range to the vertical span it occupied on screen
// during the current frame.
type Record struct {
	LineStart int     `json:"line_start"`
	LineEnd   int     `json:"line_end"`
	YStart    float64 `json:"y_start"`
	YEnd      float64 `json:"y_end"`
}

// LineHeight is the interpolated height of one source line in the record.
func (r Record) LineHeight() float64 {
	return lineHeight(r.LineStart, r.LineEnd, r.YEnd-r.YStart)
}

// Contains reports whether line falls in the record's line range.
func (r Record) Contains(line int) bool {
	return line >= r.LineStart && line <= r.LineEnd
}

// ContainsY reports whether y falls in the record's vertical span.
func (r Record) ContainsY(y float64) bool {
	return y >= r.YStart && y <= r.YEnd
}

// Map is a per-frame index from source lines to screen positions. It is
// rebuilt every frame: Clear keeps the backing array so steady-state frames
// do not allocate.
type Map struct {
	records []Record
}

func NewMap() *Map {
	return &Map{records: make([]Record, 0, 64)}
}

// Clear drops all records.
func (m *Map) Clear() {
	m.records = m.records[:0]
}

// RecordChunk appends a record. Unpositioned chunks (lineStart 0) are
// ignored.
func (m *Map) RecordChunk(lineStart, lineEnd int, yStart, yEnd float64) {
	if lineStart == 0 {
		return
	}
	m.records = append(m.records, Record{
		LineStart: lineStart,
		LineEnd:   lineEnd,
		YStart:    yStart,
		YEnd:      yEnd,
	})
}

// Records returns the records in render order. The slice is reused by the
// next frame; callers must not keep it.
func (m *Map) Records() []Record {
	return m.records
}

func (m *Map) Len() int { return len(m.records) }

func (m *Map) find(line int) (Record, bool) {
	for _, r := range m.records {
		if r.Contains(line) {
			return r, true
		}
	}
	return Record{}, false
}

// LineY returns the top edge of line, interpolated inside the first record
// that contains it.
func (m *Map) LineY(line int) (float64, bool) {
	r, ok := m.find(line)
	if !ok {
		return 0, false
	}
	return r.YStart + float64(line-r.LineStart)*r.LineHeight(), true
}

// YRange returns the vertical span covering minLine through the bottom of
// maxLine.
func (m *Map) YRange(minLine, maxLine int) (y0, y1 float64, ok bool) {
	y0, ok = m.LineY(minLine)
	if !ok {
		return 0, 0, false
	}
	r, ok := m.find(maxLine)
	if !ok {
		return 0, 0, false
	}
	top := r.YStart + float64(maxLine-r.LineStart)*r.LineHeight()
	return y0, top + r.LineHeight(), true
}

func lineHeight(lineStart, lineEnd int, height float64) float64 {
	count := lineEnd - lineStart + 1
	if count < 1 {
		count = 1
	}
	return height / float64(count)
}

// LineFromY maps a vertical position inside a chunk back to a source line.
// The result is clamped to [lineStart, lineEnd].
func LineFromY(lineStart, lineEnd int, yStart, yEnd, y float64) int {
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	lh := lineHeight(lineStart, lineEnd, yEnd-yStart)
	if lh <= 0 {
		return lineStart
	}
	idx := int(math.Floor((y - yStart) / lh))
	if idx < 0 {
		idx = 0
	}
	if last := lineEnd - lineStart; idx > last {
		idx = last
	}
	return lineStart + idx
}

// LineAt maps y inside r back to a source line.
func (r Record) LineAt(y float64) int {
	return LineFromY(r.LineStart, r.LineEnd, r.YStart, r.YEnd, y)
}
