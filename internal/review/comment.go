package review

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Comment is a reviewer note attached to a line range of the source.
// Columns are 1-based; ColEnd is exclusive.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	LineStart int       `json:"line_start"`
	ColStart  int       `json:"col_start"`
	LineEnd   int       `json:"line_end"`
	ColEnd    int       `json:"col_end"`
	Snippet   string    `json:"snippet"`
	CreatedAt time.Time `json:"created_at"`
}

// Format renders the comment for a one-line listing.
func (c Comment) Format() string {
	if c.LineStart == c.LineEnd {
		return fmt.Sprintf("Line %d: %s", c.LineStart, c.Text)
	}
	return fmt.Sprintf("Lines %d-%d: %s", c.LineStart, c.LineEnd, c.Text)
}

// sourceLines splits source the way editors count lines: a trailing newline
// does not start a new line and carriage returns are dropped.
func sourceLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ExtractSnippet returns source lines start through end (1-based,
// inclusive) joined with newlines. Out-of-range bounds are clamped.
func ExtractSnippet(source string, start, end int) string {
	lines := sourceLines(source)
	from := max(start-1, 0)
	to := min(end, len(lines))
	if from >= to {
		return ""
	}
	return strings.Join(lines[from:to], "\n")
}

// newComment builds a comment covering whole lines lo..hi of source.
func newComment(source, text string, lo, hi int) Comment {
	colEnd := 1
	if lines := sourceLines(source); hi >= 1 && hi <= len(lines) {
		colEnd = utf8.RuneCountInString(lines[hi-1]) + 1
	}
	return Comment{
		ID:        NewID(),
		Text:      text,
		LineStart: lo,
		ColStart:  1,
		LineEnd:   hi,
		ColEnd:    colEnd,
		Snippet:   ExtractSnippet(source, lo, hi),
		CreatedAt: time.Now().UTC(),
	}
}
