package runner

import (
	"context"
	"errors"
	"time"

	"github.com/notargets/ktune/runner/builder"
)

var (
	// ErrBackend wraps every failure reported by a compute backend
	ErrBackend = errors.New("backend failure")
	// ErrDispatchTimeout reports a dispatch that outlived Options.DispatchTimeout
	ErrDispatchTimeout = errors.New("dispatch timed out")
)

// Backend is the compute device a session owns. Implementations are used by
// one goroutine at a time.
type Backend interface {
	Name() string
	// Alloc creates a device buffer and writes host data, given row-major as
	// float64, converted to dt
	Alloc(shape Shape, dt builder.DataType, host []float64) (Buffer, error)
	// Build compiles source with the given compile-time defines and returns
	// the named entry point
	Build(req BuildRequest) (Kernel, error)
	Close() error
}

// BuildRequest is one program specialization
type BuildRequest struct {
	Source    string
	EntryName string
	Defines   map[string]int
}

// Buffer is device memory holding one kernel buffer argument
type Buffer interface {
	Shape() Shape
	DataType() builder.DataType
	// Read copies the device contents back to the host, row-major
	Read() ([]float64, error)
	Free()
}

// Arg is one positional kernel argument: a scalar when Buffer is nil
type Arg struct {
	Name   string
	Scalar int
	Buffer Buffer
}

// Kernel is a built entry point
type Kernel interface {
	Bind(args []Arg) error
	// Dispatch runs the kernel once and blocks until it completes. ctx may
	// only be checked before the kernel starts.
	Dispatch(ctx context.Context, geom builder.Geometry) (Event, error)
	Free()
}

// Event is a completed dispatch
type Event interface {
	// Elapsed is the device-measured duration between start and end
	Elapsed() time.Duration
}

// Timestamps is an Event built from device start and end timestamps
type Timestamps struct {
	Start time.Duration
	End   time.Duration
}

// Elapsed returns End-Start, never negative
func (ts Timestamps) Elapsed() time.Duration {
	if ts.End < ts.Start {
		return 0
	}
	return ts.End - ts.Start
}
