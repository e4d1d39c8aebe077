package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dgallion1/mirror/internal/config"
	"github.com/dgallion1/mirror/internal/theme"
)

// Flags holds the global options shared by every command.
type Flags struct {
	OutDir    string
	SessionID string
	ThemeFile string
	LogLevel  string
	JSON      bool

	log   *slog.Logger
	theme theme.Theme
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mirror: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	flags := &Flags{}

	app := &cli.Command{
		Name:      "mirror",
		Usage:     "Review markdown documents line by line",
		UsageText: "mirror [global options] command [command options] FILE",
		Description: `mirror parses markdown into positioned chunks and writes line-anchored
review comments as JSON lines next to the document's other reviews.

Review files are named <stem>.review.<N> inside the output directory.`,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out-dir",
				Aliases:     []string{"o"},
				Usage:       "directory for review files",
				Sources:     cli.EnvVars("MIRROR_OUT_DIR"),
				Value:       ".ddd",
				Destination: &flags.OutDir,
			},
			&cli.StringFlag{
				Name:        "session",
				Usage:       "session ID recorded in review files",
				Sources:     cli.EnvVars("HEGEL_SESSION_ID"),
				Destination: &flags.SessionID,
			},
			&cli.StringFlag{
				Name:        "theme",
				Usage:       "path to a YAML theme file",
				Sources:     cli.EnvVars("MIRROR_THEME_FILE"),
				Destination: &flags.ThemeFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &flags.JSON,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := config.ParseLevel(flags.LogLevel)
			if err != nil {
				return ctx, err
			}
			flags.log = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

			th, err := theme.Load(flags.ThemeFile)
			if err != nil {
				return ctx, fmt.Errorf("load theme: %w", err)
			}
			flags.theme = th
			return ctx, nil
		},
	}

	app = NewChunksCmd(flags).Register(app)
	app = NewCommentCmd(flags).Register(app)
	app = NewApproveCmd(flags).Register(app)
	app = NewLayoutCmd(flags).Register(app)
	return app
}
