package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/mirror/internal/layout"
	"github.com/dgallion1/mirror/internal/review"
	"github.com/dgallion1/mirror/internal/selection"
)

// CommentCmd writes one comment on a line range.
type CommentCmd struct {
	flags *Flags

	lines string
	text  string
}

func NewCommentCmd(flags *Flags) *CommentCmd {
	return &CommentCmd{flags: flags}
}

func (cmd *CommentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "comment",
		Usage:     "Comment on a range of lines",
		UsageText: "mirror comment --lines A-B --comment TEXT FILE",
		Description: `Writes a new review file holding a single comment. The selected
source lines are copied into the record alongside the comment.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "lines",
				Aliases:     []string{"l"},
				Usage:       "line or line range, e.g. 12 or 12-18",
				Required:    true,
				Destination: &cmd.lines,
			},
			&cli.StringFlag{
				Name:        "comment",
				Aliases:     []string{"m"},
				Usage:       "comment text",
				Required:    true,
				Destination: &cmd.text,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *CommentCmd) run(ctx context.Context, c *cli.Command) error {
	start, end, err := parseLines(cmd.lines)
	if err != nil {
		return err
	}
	doc, err := cmd.flags.openDocument(c.Args().First(), review.ModeImmediate)
	if err != nil {
		return err
	}
	if err := doc.Select(start, end); err != nil {
		return err
	}
	comment, path, err := doc.AttachComment(cmd.text)
	if err != nil {
		return err
	}

	out := c.Root().Writer
	if cmd.flags.JSON {
		return writeLine(out, map[string]any{"review_file": path, "comment": comment})
	}
	_, err = fmt.Fprintf(out, "%s\n%s\n", comment.Format(), path)
	return err
}

// ApproveCmd records an LGTM for a file.
type ApproveCmd struct {
	flags *Flags
}

func NewApproveCmd(flags *Flags) *ApproveCmd {
	return &ApproveCmd{flags: flags}
}

func (cmd *ApproveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "approve",
		Usage:     "Approve a file without comments",
		UsageText: "mirror approve FILE",
		Action:    cmd.run,
	})
	return app
}

func (cmd *ApproveCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := cmd.flags.openDocument(c.Args().First(), review.ModeImmediate)
	if err != nil {
		return err
	}
	path, err := doc.Approve()
	if err != nil {
		return err
	}
	out := c.Root().Writer
	if cmd.flags.JSON {
		return writeLine(out, map[string]any{"review_file": path, "approved": true})
	}
	_, err = fmt.Fprintln(out, path)
	return err
}

// LayoutCmd runs a single layout pass and reports what it measured.
type LayoutCmd struct {
	flags *Flags

	width  int
	height int
	scroll int
	lines  string
}

func NewLayoutCmd(flags *Flags) *LayoutCmd {
	return &LayoutCmd{flags: flags}
}

func (cmd *LayoutCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "layout",
		Usage:     "Lay out a file for a viewport",
		UsageText: "mirror layout [--width W] [--height H] [--scroll Y] [--select A-B] FILE",
		Description: `Runs one frame over the viewport [scroll, scroll+height] and prints the
total document height, how many chunks were measured, estimated or skipped,
and where the selection marker would be drawn.`,
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "width", Value: 1000, Usage: "viewport width in pixels", Destination: &cmd.width},
			&cli.IntFlag{Name: "height", Value: 800, Usage: "viewport height in pixels", Destination: &cmd.height},
			&cli.IntFlag{Name: "scroll", Usage: "vertical scroll offset in pixels", Destination: &cmd.scroll},
			&cli.StringFlag{Name: "select", Usage: "line range to select before laying out", Destination: &cmd.lines},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *LayoutCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.width <= 0 || cmd.height <= 0 {
		return fmt.Errorf("width and height must be positive")
	}
	doc, err := cmd.flags.openDocument(c.Args().First(), review.ModeImmediate)
	if err != nil {
		return err
	}
	if cmd.lines != "" {
		start, end, err := parseLines(cmd.lines)
		if err != nil {
			return err
		}
		if err := doc.Select(start, end); err != nil {
			return err
		}
	}

	vp := layout.RectAt(0, float64(cmd.scroll), float64(cmd.width), float64(cmd.height))
	res := doc.Frame(vp, float64(cmd.width), selection.Input{})

	out := c.Root().Writer
	if cmd.flags.JSON {
		return writeLine(out, res)
	}
	fmt.Fprintf(out, "height:    %.1f\n", res.TotalHeight)
	fmt.Fprintf(out, "width:     %.1f\n", res.ContentWidth)
	fmt.Fprintf(out, "measured:  %d\n", res.Measured)
	fmt.Fprintf(out, "estimated: %d\n", res.Estimated)
	fmt.Fprintf(out, "skipped:   %d\n", res.Skipped)
	if res.Bar != nil {
		fmt.Fprintf(out, "selection: lines %d-%d at y %.1f-%.1f\n",
			res.Selection.StartLine, res.Selection.EndLine, res.Bar.YStart, res.Bar.YEnd)
	}
	return nil
}
