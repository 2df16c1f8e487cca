package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/notargets/ktune/kernels"
	"github.com/notargets/ktune/logger"
	"github.com/notargets/ktune/report"
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
	"github.com/notargets/ktune/runner/occa"
	"github.com/urfave/cli/v3"
)

// settings are the session parameters shared by every tuning command
type settings struct {
	Device  occa.DeviceConfig
	Runs    int
	Warmup  int
	LogPath string
	Format  string
	Seed    int64
	Policy  string
	Timeout time.Duration
	Top     int
	Source  string
}

func currentSettings() settings {
	return settings{
		Device: occa.DeviceConfig{
			Mode:       mode,
			PlatformID: int(platformID),
			DeviceID:   int(deviceID),
		},
		Runs:    int(runs),
		Warmup:  int(warmup),
		LogPath: logPath,
		Format:  format,
		Seed:    seed,
		Policy:  policy,
		Timeout: timeout,
		Top:     int(top),
		Source:  sourcePath,
	}
}

func (s settings) seed() uint64 {
	if s.Seed < 0 {
		return uint64(time.Now().UnixNano())
	}
	return uint64(s.Seed)
}

func (s settings) options() (runner.Options, error) {
	pol, err := runner.ParseFailurePolicy(s.Policy)
	if err != nil {
		return runner.Options{}, err
	}
	if s.Runs < 1 {
		return runner.Options{}, fmt.Errorf("%w: --runs %d, want at least 1", builder.ErrInvalidValue, s.Runs)
	}
	return runner.Options{
		Runs:            s.Runs,
		Warmup:          s.Warmup,
		Policy:          pol,
		DispatchTimeout: s.Timeout,
		Top:             s.Top,
	}, nil
}

// tune opens the device and sweeps the grid of a kernel family
func tune(ctx context.Context, family kernels.Family, gb *builder.GridBuilder, sizes kernels.Sizes, s settings) error {
	log := logger.FromContext(ctx)

	grid, err := gb.Build()
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	desc, err := family.Descriptor(sizes)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	if s.Source != "" {
		src, err := kernels.LoadSource(s.Source)
		if err != nil {
			return cli.Exit(fmt.Sprintf("error: %v", err), 1)
		}
		desc.Source = src
	}
	opts, err := s.options()
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}

	backend, err := occa.Open(s.Device, log)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	session := runner.NewSession(backend, runner.SessionConfig{Seed: s.seed(), Logger: log})
	defer func() {
		if err := session.Free(); err != nil {
			log.Warn("failed to release session", "err", err)
		}
	}()

	rep, closer, err := report.Open(s.LogPath, s.Format, s.Top)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	log.Info("tuning kernel", "kernel", family.Name, "device", backend.Name(),
		"M", sizes.M, "N", sizes.N, "K", sizes.K, "points", grid.Size())

	res, err := runner.NewRunner(session, rep).Tune(ctx, desc, grid, opts)
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), 1)
	}
	if s.LogPath != "" && len(res.Best) > 0 {
		best := res.Best[0]
		log.Info("fastest configuration", "config", best.Config.String(),
			"time", runner.FormatSeconds(best.Measurement.Mean), "results", s.LogPath)
	}
	return nil
}

// applyDimensionFlags sets every family dimension from its flag, named in
// lower case
func applyDimensionFlags(cmd *cli.Command, gb *builder.GridBuilder, names []string) {
	for _, name := range names {
		values := cmd.Int64Slice(flagName(name))
		if len(values) == 0 {
			continue
		}
		ints := make([]int, len(values))
		for i, v := range values {
			ints[i] = int(v)
		}
		gb.Set(name, ints...)
	}
}
