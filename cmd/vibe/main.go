// Command vibe runs the mood search pipeline from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"vibeapi/internal/app"
	"vibeapi/internal/config"
	"vibeapi/internal/logging"
)

func main() {
	if err := newCLI(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCLI(out io.Writer) *cli.App {
	return &cli.App{
		Name:  "vibe",
		Usage: "find songs and playlists for a mood",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"VIBE_LOG_LEVEL"}},
			&cli.BoolFlag{Name: "pretty", Usage: "indent JSON output"},
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "suggest songs for a mood and resolve them on Spotify",
				ArgsUsage: "<query>",
				Action: withApp(out, func(ctx context.Context, a *app.App, arg string) (any, error) {
					return a.Search.Search(ctx, arg)
				}),
			},
			{
				Name:      "describe",
				Usage:     "generate a playlist description for a vibe",
				ArgsUsage: "<vibe>",
				Action: withApp(out, func(ctx context.Context, a *app.App, arg string) (any, error) {
					return a.Playlists.Describe(ctx, arg)
				}),
			},
			{
				Name:      "playlists",
				Usage:     "find existing Spotify playlists for a vibe",
				ArgsUsage: "<vibe>",
				Action: withApp(out, func(ctx context.Context, a *app.App, arg string) (any, error) {
					return a.Playlists.SuggestPlaylists(ctx, arg)
				}),
			},
		},
	}
}

type action func(ctx context.Context, a *app.App, arg string) (any, error)

// withApp builds the application from the environment, runs fn with the
// command's arguments joined into one string and prints the result as JSON.
func withApp(out io.Writer, fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		arg := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
		if arg == "" {
			return cli.Exit(fmt.Sprintf("usage: vibe %s %s", c.Command.Name, c.Command.ArgsUsage), 2)
		}

		config.LoadEnvFiles()
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log, err := logging.New(c.String("log-level"), "console")
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx := c.Context
		if cfg.RequestTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()
		}

		a, err := app.New(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		res, err := fn(ctx, a, arg)
		if err != nil {
			log.Debug("command failed", zap.String("command", c.Command.Name), zap.Error(err))
			return err
		}

		enc := json.NewEncoder(out)
		if c.Bool("pretty") {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(res)
	}
}
