package main

import (
	"context"
	"fmt"

	"github.com/notargets/ktune/kernels"
	"github.com/urfave/cli/v3"
)

var defaultSizes = kernels.Sizes{M: 1024, N: 1024, K: 1024}

func runCmd() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Tune a kernel described by a YAML session file",
		ArgsUsage: "<session.yaml>",
		Flags:     sessionFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return cli.Exit("error: a session file is required", 1)
			}
			f, err := LoadSessionFile(path)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			applySessionFile(cmd, f)

			family, err := kernels.Lookup(f.Kernel)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			gb, err := f.Grid.Over(family)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return tune(ctx, family, gb, f.SizesOr(defaultSizes), currentSettings())
		},
	}
}
