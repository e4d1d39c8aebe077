package highlight

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Style is the resolved look of one token.
type Style struct {
	Color     string `json:"color,omitempty"` // #rrggbb, empty for the default colour
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
}

// Span is a run of text sharing one style.
type Span struct {
	Style Style  `json:"style"`
	Text  string `json:"text"`
}

// Highlighter tokenizes code blocks with chroma.
type Highlighter struct {
	style *chroma.Style

	mu         sync.RWMutex
	styleCache map[chroma.TokenType]Style
}

// New creates a highlighter for the named chroma style. Unknown names fall
// back to chroma's default style.
func New(styleName string) *Highlighter {
	return &Highlighter{
		style:      styles.Get(styleName),
		styleCache: make(map[chroma.TokenType]Style),
	}
}

// Highlight splits code into lines of styled spans. Unknown languages and
// lexer failures yield plain unstyled lines; it never fails.
func (h *Highlighter) Highlight(code, lang string) [][]Span {
	lexer := lexerFor(lang)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return Plain(code)
	}

	lines := [][]Span{{}}
	for _, token := range iterator.Tokens() {
		style := h.styleFor(token.Type)
		value := token.Value
		for strings.Contains(value, "\n") {
			before, after, _ := strings.Cut(value, "\n")
			if before != "" {
				lines[len(lines)-1] = append(lines[len(lines)-1], Span{Style: style, Text: before})
			}
			lines = append(lines, []Span{})
			value = after
		}
		if value != "" {
			lines[len(lines)-1] = append(lines[len(lines)-1], Span{Style: style, Text: value})
		}
	}
	// Lexers usually append a final newline; drop the empty line it leaves.
	if n := len(lines); n > 1 && len(lines[n-1]) == 0 && !strings.HasSuffix(code, "\n") {
		lines = lines[:n-1]
	}
	return lines
}

// Plain returns code as unstyled lines.
func Plain(code string) [][]Span {
	raw := strings.Split(code, "\n")
	lines := make([][]Span, len(raw))
	for i, l := range raw {
		if l != "" {
			lines[i] = []Span{{Text: l}}
		}
	}
	return lines
}

func lexerFor(lang string) chroma.Lexer {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

func (h *Highlighter) styleFor(tt chroma.TokenType) Style {
	h.mu.RLock()
	s, ok := h.styleCache[tt]
	h.mu.RUnlock()
	if ok {
		return s
	}

	entry := h.style.Get(tt)
	if entry.Colour.IsSet() {
		s.Color = entry.Colour.String()
	}
	s.Bold = entry.Bold == chroma.Yes
	s.Italic = entry.Italic == chroma.Yes
	s.Underline = entry.Underline == chroma.Yes

	h.mu.Lock()
	h.styleCache[tt] = s
	h.mu.Unlock()
	return s
}
