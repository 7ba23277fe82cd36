package main

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"gopkg.in/urfave/cli.v2"

	"github.com/km-arc/go-discovery/discovery"
	"github.com/km-arc/go-discovery/framework/app"
)

const (
	argEnvFile = "env-file"
	argQuiet   = "quiet"
)

func main() {
	cliApp := &cli.App{
		Name:    "discovery",
		Version: "0.1.0",
		Usage:   "Library discovery API on an autowiring service container",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  argEnvFile,
				Value: ".env",
				Usage: "dotenv file with APP_*, CONFIG_* and AUTOWIRE_* settings",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: runServe,
			},
			{
				Name:   "inspect",
				Usage:  "List registered classes, their autowire plan and the routes",
				Action: runInspect,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  argQuiet,
						Usage: "disable colours",
					},
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))
	if err := cliApp.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "discovery:", err)
		os.Exit(1)
	}
}

// newApplication builds and boots the application with the discovery API.
func newApplication(c *cli.Context, opts ...app.Option) (*app.Application, error) {
	a, err := app.New([]string{c.String(argEnvFile)}, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.Register(&discovery.ServiceProvider{}); err != nil {
		return nil, err
	}
	if err := a.Boot(); err != nil {
		return nil, err
	}
	return a, nil
}

func runServe(c *cli.Context) error {
	a, err := newApplication(c)
	if err != nil {
		return err
	}
	defer func() { _ = a.Logger().Sync() }()
	return a.Run(ctxWithSignalHandler(a.Logger()))
}

func runInspect(c *cli.Context) error {
	if c.Bool(argQuiet) {
		color.NoColor = true
	}
	a, err := newApplication(c, app.WithLogger(zap.NewNop()))
	if err != nil {
		return err
	}
	return inspect(color.Output, a)
}

func ctxWithSignalHandler(log *zap.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		s := <-sigChan
		log.Warn("handling signal", zap.Stringer("signal", s))
		cancel()
	}()
	return ctx
}
