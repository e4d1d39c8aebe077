package parser

import (
	"testing"

	"github.com/dgallion1/mirror/internal/doctree"
)

func TestParseHTMLImage(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		ok    bool
		src   string
		align doctree.Alignment
		width float64
	}{
		{"centered with width", `<p align="center"><img src="test.png" width="400"></p>`, true, "test.png", doctree.AlignCenter, 400},
		{"no alignment", "<p>\n<img src=\"image.jpg\">\n</p>", true, "image.jpg", doctree.AlignNone, 0},
		{"right aligned", `<p align="right"><img src="r.png"/></p>`, true, "r.png", doctree.AlignRight, 0},
		{"single quotes", `<p align='left'><img src='s.png' width='200'></p>`, true, "s.png", doctree.AlignLeft, 200},
		{"not a paragraph", `<div><img src="d.png"></div>`, false, "", doctree.AlignNone, 0},
		{"no image", `<p align='center'>No image here</p>`, false, "", doctree.AlignNone, 0},
		{"empty src", `<p><img src="" width="10"></p>`, false, "", doctree.AlignNone, 0},
		{"bad width ignored", `<p><img src="w.png" width="wide"></p>`, true, "w.png", doctree.AlignNone, 0},
		{"leading text", `hello <p><img src="x.png"></p>`, false, "", doctree.AlignNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, align, width, ok := ParseHTMLImage(tt.html)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if src != tt.src {
				t.Errorf("expected src %q, got %q", tt.src, src)
			}
			if align != tt.align {
				t.Errorf("expected align %s, got %s", tt.align, align)
			}
			if width != tt.width {
				t.Errorf("expected width %v, got %v", tt.width, width)
			}
		})
	}
}
