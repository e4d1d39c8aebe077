package parser

import (
	"strconv"
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
	"golang.org/x/net/html"
)

// ParseHTMLImage extracts an image from a block of the form
//
//	<p align="center"><img src="diagram.png" width="400"></p>
//
// The block must open with a <p> tag. The first <img> inside it must have a
// src. Alignment and width are optional.
func ParseHTMLImage(fragment string) (src string, align doctree.Alignment, width float64, ok bool) {
	z := html.NewTokenizer(strings.NewReader(strings.TrimSpace(fragment)))

	first := true
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF before an <img> or a malformed tag; either way no image.
			return "", doctree.AlignNone, 0, false

		case html.TextToken:
			if first && strings.TrimSpace(string(z.Text())) != "" {
				return "", doctree.AlignNone, 0, false
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if first {
				first = false
				if tok.Data != "p" {
					return "", doctree.AlignNone, 0, false
				}
				align = parseAlign(attr(tok, "align"))
				continue
			}
			if tok.Data != "img" {
				continue
			}
			src = strings.TrimSpace(attr(tok, "src"))
			if src == "" {
				return "", doctree.AlignNone, 0, false
			}
			if w, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(attr(tok, "width")), "px"), 64); err == nil && w > 0 {
				width = w
			}
			return src, align, width, true

		default:
			if first {
				return "", doctree.AlignNone, 0, false
			}
		}
	}
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func parseAlign(v string) doctree.Alignment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left":
		return doctree.AlignLeft
	case "center":
		return doctree.AlignCenter
	case "right":
		return doctree.AlignRight
	default:
		return doctree.AlignNone
	}
}
