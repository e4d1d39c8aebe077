package parser

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/images"
)

// SupportedExtensions lists the file extensions treated as markdown.
var SupportedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".mdown":    true,
	".txt":      true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// Parse builds chunks for source, resolving relative image paths against
// basePath and reading image dimensions from disk.
func Parse(source, basePath string) []doctree.Chunk {
	p := NewMarkdownParser(images.NewManager(slog.Default()), slog.Default())
	return p.Parse(source, basePath)
}
