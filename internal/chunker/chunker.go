package chunker

import (
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
)

var bullets = []string{"- ", "* ", "+ "}

// IsInline reports whether c can share a wrapped line with its neighbours.
// Block-shaped chunks (images, code blocks, tables, headings) and list items
// always start their own line.
func IsInline(c doctree.Chunk) bool {
	if c.IsImage() || c.IsCodeBlock() || c.IsTable() || c.HeadingLevel > 0 {
		return false
	}
	return !startsWithBullet(c.Text)
}

func startsWithBullet(text string) bool {
	trimmed := strings.TrimLeft(text, " \t")
	for _, b := range bullets {
		if strings.HasPrefix(trimmed, b) {
			return true
		}
	}
	return false
}

// FindInlineBatch returns the run [from, to) of inline chunks beginning at
// start. The run ends after the first chunk with NewlineAfter set, or before
// the first chunk that is not inline.
func FindInlineBatch(chunks []doctree.Chunk, start int) (from, to int, ok bool) {
	if start < 0 || start >= len(chunks) || !IsInline(chunks[start]) {
		return 0, 0, false
	}
	end := start
	for end < len(chunks) && IsInline(chunks[end]) {
		end++
		if chunks[end-1].NewlineAfter {
			break
		}
	}
	return start, end, true
}
