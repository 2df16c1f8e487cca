package main

import (
	"context"
	"strings"

	"github.com/notargets/ktune/kernels"
	"github.com/urfave/cli/v3"
)

func flagName(dimension string) string {
	return strings.ToLower(dimension)
}

func gemmCmd() *cli.Command {
	var m, n, k int64 = 2048, 2048, 2048

	flags := append(sessionFlags(), sizeFlags(&m, &n, &k, true)...)
	flags = append(flags,
		dimensionFlag("mwg", "tile size in M", 16, 32, 64, 128),
		dimensionFlag("nwg", "tile size in N", 16, 32, 64, 128),
		dimensionFlag("kwg", "tile size in K", 16, 32),
		dimensionFlag("mdimc", "work group threads in M", 8, 16, 32),
		dimensionFlag("ndimc", "work group threads in N", 8, 16, 32),
		dimensionFlag("mdima", "threads loading A along M", 8, 16, 32),
		dimensionFlag("ndimb", "threads loading B along N", 8, 16, 32),
		dimensionFlag("kwi", "unroll factor of the K loop", 2, 4, 8),
		dimensionFlag("vwm", "vector width in M", 1),
		dimensionFlag("vwn", "vector width in N", 1),
		dimensionFlag("strm", "strided access in M (0, 1)", 1),
		dimensionFlag("strn", "strided access in N (0, 1)", 1),
		dimensionFlag("sa", "stage A in local memory (0, 1)", 1),
		dimensionFlag("sb", "stage B in local memory (0, 1)", 1),
		dimensionFlag("precision", "floating point precision (32, 64)", 32),
	)

	return &cli.Command{
		Name:  "gemm",
		Usage: "Tune the tiled matrix multiplication kernel",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			family, err := kernels.Lookup("gemm")
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			gb := family.Defaults()
			applyDimensionFlags(cmd, gb, family.Required)
			sizes := kernels.Sizes{M: int(m), N: int(n), K: int(k)}
			return tune(ctx, family, gb, sizes, currentSettings())
		},
	}
}
