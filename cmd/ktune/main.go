package main

import (
	"context"
	"fmt"
	"os"

	"github.com/notargets/ktune/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "ktune",
		Usage: "Exhaustive autotuner for OCCA compute kernels",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := logLevel
			if debug {
				level = "debug"
			}
			log := logger.ForFormat(logFormat, os.Stderr, logger.ParseLevel(level))
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			gemmCmd(),
			addCmd(),
			runCmd(),
			devicesCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
