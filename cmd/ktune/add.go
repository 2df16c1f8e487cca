package main

import (
	"context"

	"github.com/notargets/ktune/kernels"
	"github.com/urfave/cli/v3"
)

func addCmd() *cli.Command {
	var m, n int64 = 1024, 1024

	flags := append(sessionFlags(), sizeFlags(&m, &n, nil, false)...)
	flags = append(flags,
		dimensionFlag("value1", "rows per work group", 8, 16),
		dimensionFlag("value2", "columns per work item", 8, 16, 32),
	)

	return &cli.Command{
		Name:  "add",
		Usage: "Tune the elementwise matrix add kernel",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			family, err := kernels.Lookup("add")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			gb := family.Defaults()
			applyDimensionFlags(cmd, gb, family.Required)
			return tune(ctx, family, gb, kernels.Sizes{M: int(m), N: int(n)}, currentSettings())
		},
	}
}
