package theme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme groups every size the layout pass depends on. Values are in
// logical pixels.
type Theme struct {
	Typography Typography `yaml:"typography" json:"typography"`
	Spacing    Spacing    `yaml:"spacing" json:"spacing"`
	Layout     Layout     `yaml:"layout" json:"layout"`
	Culling    Culling    `yaml:"culling" json:"culling"`
	Highlight  Highlight  `yaml:"highlight" json:"highlight"`
}

type Typography struct {
	BodySize      float64    `yaml:"body_size" json:"body_size"`
	HeadingSizes  [6]float64 `yaml:"heading_sizes" json:"heading_sizes"` // h1..h6
	CodeSize      float64    `yaml:"code_size" json:"code_size"`
	CodeBlockSize float64    `yaml:"code_block_size" json:"code_block_size"`
	LineHeight    float64    `yaml:"line_height" json:"line_height"` // multiplier
}

type Spacing struct {
	Paragraph        float64 `yaml:"paragraph" json:"paragraph"`
	Heading          float64 `yaml:"heading" json:"heading"`
	CodeBlockPadding float64 `yaml:"code_block_padding" json:"code_block_padding"`
	InnerMargin      float64 `yaml:"inner_margin" json:"inner_margin"`
	MinLineHeight    float64 `yaml:"min_line_height" json:"min_line_height"`
	TableCellPadding float64 `yaml:"table_cell_padding" json:"table_cell_padding"`
}

type Layout struct {
	MarginLeft      float64 `yaml:"margin_left" json:"margin_left"`
	MarginRight     float64 `yaml:"margin_right" json:"margin_right"`
	MarginTop       float64 `yaml:"margin_top" json:"margin_top"`
	MarginBottom    float64 `yaml:"margin_bottom" json:"margin_bottom"`
	MaxContentWidth float64 `yaml:"max_content_width" json:"max_content_width"` // 0 means unlimited
}

// Culling controls off-screen estimation.
type Culling struct {
	ViewportGuard      float64 `yaml:"viewport_guard" json:"viewport_guard"`
	DefaultImageHeight float64 `yaml:"default_image_height" json:"default_image_height"`
	DefaultWidth       float64 `yaml:"default_width" json:"default_width"`
	DefaultImageWidth  float64 `yaml:"default_image_width" json:"default_image_width"`
}

// Highlight names the chroma style used for code blocks.
type Highlight struct {
	Style string `yaml:"style" json:"style"`
}

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		Typography: Typography{
			BodySize:      14,
			HeadingSizes:  [6]float64{32, 28, 24, 20, 16, 14},
			CodeSize:      13,
			CodeBlockSize: 13,
			LineHeight:    1.5,
		},
		Spacing: Spacing{
			Paragraph:        4,
			Heading:          8,
			CodeBlockPadding: 10,
			InnerMargin:      10,
			MinLineHeight:    16,
			TableCellPadding: 8,
		},
		Layout: Layout{
			MarginLeft:      40,
			MarginRight:     40,
			MarginTop:       20,
			MarginBottom:    20,
			MaxContentWidth: 900,
		},
		Culling: Culling{
			ViewportGuard:      1000,
			DefaultImageHeight: 300,
			DefaultWidth:       600,
			DefaultImageWidth:  400,
		},
		Highlight: Highlight{Style: "github"},
	}
}

// Load reads a YAML theme file on top of the defaults. Keys missing from the
// file keep their default value.
func Load(path string) (Theme, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}

func (t Theme) Validate() error {
	if t.Spacing.MinLineHeight <= 0 {
		return fmt.Errorf("spacing.min_line_height must be positive")
	}
	if t.Typography.BodySize <= 0 {
		return fmt.Errorf("typography.body_size must be positive")
	}
	if t.Culling.ViewportGuard < 0 {
		return fmt.Errorf("culling.viewport_guard must not be negative")
	}
	return nil
}

// HeadingSize returns the font size for a heading level, or the body size
// when level is out of range.
func (t Theme) HeadingSize(level int) float64 {
	if level < 1 || level > len(t.Typography.HeadingSizes) {
		return t.Typography.BodySize
	}
	return t.Typography.HeadingSizes[level-1]
}

// LinePixels is the height of one body text line.
func (t Theme) LinePixels(size float64) float64 {
	h := size * t.Typography.LineHeight
	if h < t.Spacing.MinLineHeight {
		return t.Spacing.MinLineHeight
	}
	return h
}

// ContentWidth is the text column width inside a viewport of the given
// width, after page margins and the optional max width.
func (t Theme) ContentWidth(available float64) float64 {
	w := available - t.Layout.MarginLeft - t.Layout.MarginRight
	if t.Layout.MaxContentWidth > 0 && w > t.Layout.MaxContentWidth {
		w = t.Layout.MaxContentWidth
	}
	if w < 1 {
		return 1
	}
	return w
}
