package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

var (
	platformID int64
	deviceID   int64
	mode       string
	runs       int64
	warmup     int64
	logPath    string
	format     string
	seed       int64
	policy     string
	timeout    time.Duration
	top        int64
	sourcePath string
	logLevel   string
	logFormat  string
	debug      bool
)

func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "platform",
			Aliases:     []string{"pl"},
			Usage:       "OpenCL platform index",
			Value:       0,
			Destination: &platformID,
		},
		&cli.Int64Flag{
			Name:        "device",
			Aliases:     []string{"d"},
			Usage:       "device index",
			Value:       0,
			Destination: &deviceID,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "OCCA device mode (auto, OpenCL, CUDA, HIP, OpenMP, Serial)",
			Value:       "auto",
			Destination: &mode,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Aliases:     []string{"r"},
			Usage:       "timed runs per configuration",
			Value:       10,
			Destination: &runs,
		},
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "untimed runs per configuration",
			Value:       0,
			Destination: &warmup,
		},
		&cli.StringFlag{
			Name:        "log",
			Aliases:     []string{"o"},
			Usage:       "write results to this file instead of the interactive table",
			Destination: &logPath,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "result format (table, log, jsonl); a log file defaults to log",
			Destination: &format,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "input data seed (default -1 = random)",
			Value:       -1,
			Destination: &seed,
		},
		&cli.StringFlag{
			Name:        "on-failure",
			Usage:       "what a build or dispatch failure does (abort, skip)",
			Value:       "abort",
			Destination: &policy,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "skip configurations whose dispatch takes longer (0 = wait)",
			Destination: &timeout,
		},
		&cli.Int64Flag{
			Name:        "top",
			Usage:       "fastest configurations listed in the summary",
			Value:       5,
			Destination: &top,
		},
		&cli.StringFlag{
			Name:        "source",
			Usage:       "override the embedded kernel source with an OKL file",
			Destination: &sourcePath,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// sizeFlags declares the problem size flags of a family with their defaults
func sizeFlags(m, n, k *int64, withK bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "m",
			Usage:       "rows of A and C",
			Value:       *m,
			Destination: m,
		},
		&cli.Int64Flag{
			Name:        "n",
			Usage:       "columns of B and C",
			Value:       *n,
			Destination: n,
		},
	}
	if withK {
		flags = append(flags, &cli.Int64Flag{
			Name:        "k",
			Usage:       "columns of A and rows of B",
			Value:       *k,
			Destination: k,
		})
	}
	return flags
}

// dimensionFlag declares a grid dimension as a comma separated value list
func dimensionFlag(name, usage string, values ...int64) cli.Flag {
	return &cli.Int64SliceFlag{
		Name:  name,
		Usage: usage,
		Value: values,
	}
}
