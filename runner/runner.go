package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/notargets/ktune/logger"
	"github.com/notargets/ktune/runner/builder"
)

// FailurePolicy decides what a backend failure does to a sweep
type FailurePolicy int

const (
	// FailAbort stops the sweep at the first build or dispatch failure
	FailAbort FailurePolicy = iota
	// FailSkip reports the configuration as failed and moves on
	FailSkip
)

// ParseFailurePolicy accepts "abort" or "skip"
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "abort":
		return FailAbort, nil
	case "skip":
		return FailSkip, nil
	default:
		return 0, fmt.Errorf("%w: failure policy %q, want abort or skip", builder.ErrInvalidValue, s)
	}
}

// Options control one sweep
type Options struct {
	Runs            int // Timed dispatches per configuration, default 10
	Warmup          int // Untimed dispatches per configuration
	Policy          FailurePolicy
	DispatchTimeout time.Duration // Zero disables; a timeout always skips
	Top             int           // Rows kept in Summary.Best, default 5
}

// DefaultRuns is the run count used when Options.Runs is zero
const DefaultRuns = 10

// Row is one measured configuration
type Row struct {
	Index       int
	Config      Configuration
	Geometry    builder.Geometry
	Measurement Measurement
}

// Summary closes a sweep
type Summary struct {
	SessionID uuid.UUID
	Kernel    string
	Visited   int
	Measured  int
	Skipped   int
	Failed    int
	Elapsed   time.Duration
	Best      []Row // Fastest first
}

// Reporter receives sweep results in enumeration order. Begin is called once
// with the grid dimensions before the first row, End once after the last.
type Reporter interface {
	Begin(dims []builder.Dimension) error
	Row(row Row) error
	Skip(out Outcome) error
	End(sum Summary) error
}

// Result is everything a completed sweep produced
type Result struct {
	Summary
	Rows []Row
}

// Runner drives sweeps on a session
type Runner struct {
	Session  *Session
	Reporter Reporter
	Measurer *Measurer
	log      logger.Logger
}

// NewRunner creates a Runner reporting to rep
func NewRunner(session *Session, rep Reporter) *Runner {
	return &Runner{
		Session:  session,
		Reporter: rep,
		Measurer: NewMeasurer(session.Backend, session.Logger()),
		log:      session.Logger(),
	}
}

// Tune sweeps every point of grid for the kernel in desc. Constraint
// violations are reported as skipped, legal points are measured and
// reported as rows. Any error returned aborts the sweep; rows already
// reported stay valid.
func (kr *Runner) Tune(ctx context.Context, desc *KernelDescriptor, grid *builder.Grid, opts Options) (*Result, error) {
	if opts.Runs == 0 {
		opts.Runs = DefaultRuns
	}
	if opts.Runs < 0 {
		return nil, fmt.Errorf("%w: run count %d, want at least 1", builder.ErrInvalidValue, opts.Runs)
	}
	if opts.Top <= 0 {
		opts.Top = 5
	}

	// Everything that can be checked without a configuration is checked here
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	rules := grid.Rules()
	if err := rules.Validate(desc.BaseGlobal.Dims()); err != nil {
		return nil, err
	}
	types, err := desc.bufferTypes(grid)
	if err != nil {
		return nil, err
	}
	if err := kr.Session.Populate(desc.BufferShapes, types); err != nil {
		return nil, err
	}

	kr.Measurer.Warmup = opts.Warmup
	kr.Measurer.DispatchTimeout = opts.DispatchTimeout

	log := kr.log.With("kernel", desc.EntryName)
	enum := NewEnumerator(grid)
	log.Info("starting sweep", "backend", kr.Session.Backend.Name(),
		"points", enum.Count(), "runs", opts.Runs)
	log.Debug("kernel arguments", "signature", GetKernelSignature(desc))

	start := time.Now()
	res := &Result{Summary: Summary{SessionID: kr.Session.ID, Kernel: desc.EntryName}}
	if err := kr.Reporter.Begin(grid.Dimensions()); err != nil {
		return nil, fmt.Errorf("report header: %w", err)
	}

	for {
		out, ok := enum.Next()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Visited++

		if out.Status == Skipped {
			res.Skipped++
			log.Debug("constraint violated", "config", out.Config.String(),
				"constraint", builder.Describe(out.Violated))
			if err := kr.Reporter.Skip(out); err != nil {
				return res, fmt.Errorf("report skip: %w", err)
			}
			continue
		}

		row, err := kr.measure(ctx, desc, rules, out, opts)
		if err != nil {
			if !kr.recoverable(err, opts) {
				return res, err
			}
			res.Failed++
			out.Status = Failed
			out.Err = err
			log.Warn("configuration failed", "config", out.Config.String(), "err", err)
			if err := kr.Reporter.Skip(out); err != nil {
				return res, fmt.Errorf("report skip: %w", err)
			}
			continue
		}

		res.Measured++
		res.Rows = append(res.Rows, row)
		if err := kr.Reporter.Row(row); err != nil {
			return res, fmt.Errorf("report row: %w", err)
		}
	}

	res.Elapsed = time.Since(start)
	res.Best = Fastest(res.Rows, opts.Top)
	log.Info("sweep complete", "measured", res.Measured, "skipped", res.Skipped,
		"failed", res.Failed, "elapsed", res.Elapsed)
	if err := kr.Reporter.End(res.Summary); err != nil {
		return res, fmt.Errorf("report summary: %w", err)
	}
	return res, nil
}

func (kr *Runner) measure(ctx context.Context, desc *KernelDescriptor, rules *builder.WorkSizeRule,
	out Outcome, opts Options) (Row, error) {
	geom, err := rules.Apply(desc.BaseGlobal, desc.BaseLocal, out.Config)
	if err != nil {
		return Row{}, fmt.Errorf("geometry for [%s]: %w", out.Config, err)
	}
	dt, err := desc.dataTypeFor(out.Config)
	if err != nil {
		return Row{}, err
	}
	buffers, err := kr.Session.Buffers(dt)
	if err != nil {
		return Row{}, err
	}
	meas, err := kr.Measurer.Measure(ctx, desc, out.Config, geom, buffers, opts.Runs)
	if err != nil {
		return Row{}, err
	}
	return Row{Index: out.Index, Config: out.Config, Geometry: geom, Measurement: meas}, nil
}

// recoverable reports whether err may be turned into a failed row
func (kr *Runner) recoverable(err error, opts Options) bool {
	if errors.Is(err, ErrDispatchTimeout) {
		return true
	}
	return opts.Policy == FailSkip && errors.Is(err, ErrBackend)
}

// Fastest returns up to n rows ordered by mean duration, ties kept in
// enumeration order
func Fastest(rows []Row, n int) []Row {
	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Measurement.Mean < sorted[j].Measurement.Mean
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
