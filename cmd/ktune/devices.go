package main

import (
	"context"
	"fmt"

	"github.com/notargets/ktune/runner/occa"
	"github.com/urfave/cli/v3"
)

func devicesCmd() *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "Probe which OCCA device modes are usable",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:        "platform",
				Aliases:     []string{"pl"},
				Usage:       "OpenCL platform index",
				Destination: &platformID,
			},
			&cli.Int64Flag{
				Name:        "device",
				Aliases:     []string{"d"},
				Usage:       "device index",
				Destination: &deviceID,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w := cmd.Root().Writer
			found := 0
			for _, info := range occa.Probe(int(platformID), int(deviceID)) {
				status := "available"
				if !info.Available() {
					status = fmt.Sprintf("unavailable (%v)", info.Err)
				} else {
					found++
				}
				_, _ = fmt.Fprintf(w, "%-8s %-48s %s\n", info.Mode, info.Props, status)
			}
			if found == 0 {
				return cli.Exit("error: no usable OCCA device", 1)
			}
			return nil
		},
	}
}
