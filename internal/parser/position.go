package parser

import (
	"sort"
	"unicode/utf8"
)

// LineIndex maps byte offsets to 1-indexed line and column positions.
type LineIndex struct {
	starts []int // byte offset of each line start, starts[0] == 0
}

// NewLineIndex scans source once and records every line start.
func NewLineIndex(source string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Lines returns the number of lines, counting a trailing empty line.
func (li *LineIndex) Lines() int { return len(li.starts) }

// LineCol resolves offset to a (line, column) pair. Columns count runes, not
// bytes. Offsets outside the source are clamped.
func (li *LineIndex) LineCol(source string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	// First start strictly greater than offset, minus one.
	i := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	start := li.starts[i]
	if start > len(source) {
		start = len(source)
	}
	return i + 1, utf8.RuneCountInString(source[start:offset]) + 1
}
