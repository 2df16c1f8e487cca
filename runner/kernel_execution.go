// File: runner/kernel_execution.go
// Build, bind and time one configuration of a kernel

package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notargets/ktune/logger"
	"github.com/notargets/ktune/runner/builder"
)

// Measurer specializes, binds and times a kernel for one configuration
type Measurer struct {
	Backend Backend
	// Warmup dispatches run before timing and are discarded
	Warmup int
	// DispatchTimeout bounds each dispatch; zero waits forever
	DispatchTimeout time.Duration

	log logger.Logger
}

// NewMeasurer creates a Measurer on a backend
func NewMeasurer(backend Backend, log logger.Logger) *Measurer {
	if log == nil {
		log = logger.Discard()
	}
	return &Measurer{Backend: backend, log: log}
}

// Measure builds the kernel with cfg as compile-time defines, binds scalars
// then buffers, dispatches it runs times with geom and returns the mean of
// the device durations
func (m *Measurer) Measure(ctx context.Context, desc *KernelDescriptor, cfg Configuration,
	geom builder.Geometry, buffers []Buffer, runs int) (Measurement, error) {
	if runs < 1 {
		return Measurement{}, fmt.Errorf("%w: run count %d, want at least 1", builder.ErrInvalidValue, runs)
	}

	dt := builder.Float32
	if len(buffers) > 0 {
		dt = buffers[0].DataType()
	}

	defines := cfg.Defines()
	for name, v := range builder.GeometryDefines(geom) {
		defines[name] = v
	}
	kernel, err := m.Backend.Build(BuildRequest{
		Source:    builder.GeneratePreamble(dt) + desc.Source,
		EntryName: desc.EntryName,
		Defines:   defines,
	})
	if err != nil {
		return Measurement{}, fmt.Errorf("%w: build kernel %s [%s]: %w", ErrBackend, desc.EntryName, cfg, err)
	}
	defer kernel.Free()

	args, err := buildKernelArguments(desc, buffers)
	if err != nil {
		return Measurement{}, err
	}
	if err := kernel.Bind(args); err != nil {
		return Measurement{}, fmt.Errorf("%w: bind arguments of %s: %w", ErrBackend, desc.EntryName, err)
	}

	for i := 0; i < m.Warmup; i++ {
		if _, err := m.dispatch(ctx, kernel, geom); err != nil {
			return Measurement{}, err
		}
	}

	times := make([]time.Duration, 0, runs)
	for i := 0; i < runs; i++ {
		ev, err := m.dispatch(ctx, kernel, geom)
		if err != nil {
			return Measurement{}, err
		}
		times = append(times, ev.Elapsed())
	}

	meas := NewMeasurement(times)
	m.log.Debug("measured", "kernel", desc.EntryName, "config", cfg.String(),
		"geometry", geom.String(), "mean", meas.Mean)
	return meas, nil
}

// dispatch runs one dispatch, bounded by DispatchTimeout when set. It never
// returns while the dispatch is still running.
func (m *Measurer) dispatch(ctx context.Context, kernel Kernel, geom builder.Geometry) (Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.DispatchTimeout <= 0 {
		ev, err := kernel.Dispatch(ctx, geom)
		if err != nil {
			return nil, dispatchError(err)
		}
		return ev, nil
	}

	dctx, cancel := context.WithTimeout(ctx, m.DispatchTimeout)
	defer cancel()

	type result struct {
		ev  Event
		err error
	}
	done := make(chan result, 1)
	go func() {
		ev, err := kernel.Dispatch(dctx, geom)
		done <- result{ev, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w after %s", ErrDispatchTimeout, m.DispatchTimeout)
			}
			return nil, dispatchError(r.err)
		}
		return r.ev, nil
	case <-dctx.Done():
		// A backend may not observe dctx once the kernel is running. The
		// kernel stays in use, and the device busy, until Dispatch returns.
		<-done
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w after %s", ErrDispatchTimeout, m.DispatchTimeout)
	}
}

func dispatchError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: dispatch: %w", ErrBackend, err)
}
