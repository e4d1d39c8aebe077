package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/mirror/internal/doctree"
	"github.com/dgallion1/mirror/internal/parser"
	"github.com/dgallion1/mirror/internal/review"
)

// openDocument loads a markdown file with review storage in the output
// directory. Relative image paths resolve against the file's directory.
func (f *Flags) openDocument(path string, mode review.Mode) (*review.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("FILE argument is required")
	}
	if !parser.IsSupportedExtension(path) {
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8", path)
	}
	th := f.theme
	name := filepath.Base(path)
	return review.NewDocument(name, string(data), review.Options{
		BasePath: filepath.Dir(path),
		Mode:     mode,
		Theme:    &th,
		Storage:  review.NewStorage(f.OutDir, name, f.SessionID),
		Logger:   f.log,
	}), nil
}

// parseLines accepts "N" or "A-B" (1-based, either order).
func parseLines(s string) (start, end int, err error) {
	a, b, found := strings.Cut(strings.TrimSpace(s), "-")
	if start, err = strconv.Atoi(strings.TrimSpace(a)); err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	if !found {
		return start, start, nil
	}
	if end, err = strconv.Atoi(strings.TrimSpace(b)); err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	return start, end, nil
}

func writeLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ChunksCmd prints the parsed chunks of a file.
type ChunksCmd struct {
	flags *Flags
}

func NewChunksCmd(flags *Flags) *ChunksCmd {
	return &ChunksCmd{flags: flags}
}

func (cmd *ChunksCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "chunks",
		Usage:     "Show how a file splits into chunks",
		UsageText: "mirror chunks [--json] FILE",
		Action:    cmd.run,
	})
	return app
}

func (cmd *ChunksCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := cmd.flags.openDocument(c.Args().First(), review.ModeImmediate)
	if err != nil {
		return err
	}
	chunks := doc.Chunks()
	out := c.Root().Writer

	if cmd.flags.JSON {
		for _, ch := range chunks {
			if err := writeLine(out, ch); err != nil {
				return fmt.Errorf("encode chunk: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tKIND\tLINES\tSTYLE\tTEXT")
	for i, ch := range chunks {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, ch.Kind, lineSpan(ch), style(ch), preview(ch.Text, 48))
	}
	return w.Flush()
}

func lineSpan(c doctree.Chunk) string {
	if !c.Positioned() {
		return "-"
	}
	if c.LineStart == c.LineEnd {
		return strconv.Itoa(c.LineStart)
	}
	return fmt.Sprintf("%d-%d", c.LineStart, c.LineEnd)
}

func style(c doctree.Chunk) string {
	var parts []string
	if c.HeadingLevel > 0 {
		parts = append(parts, "h"+strconv.Itoa(c.HeadingLevel))
	}
	if c.Bold {
		parts = append(parts, "bold")
	}
	if c.Italic {
		parts = append(parts, "italic")
	}
	if c.Code {
		parts = append(parts, "code")
	}
	if c.CodeLang != "" {
		parts = append(parts, c.CodeLang)
	}
	if c.NewlineAfter {
		parts = append(parts, "nl")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-1]) + "…"
}
