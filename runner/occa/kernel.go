package occa

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/notargets/gocca"
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

// Kernel is a built OCCA kernel with its bound arguments
type Kernel struct {
	kernel  *gocca.OCCAKernel
	backend *Backend
	args    []interface{}
}

// Bind converts the arguments to what OCCA expects: int32 scalars and device
// memory handles
func (k *Kernel) Bind(args []runner.Arg) error {
	bound := make([]interface{}, 0, len(args))
	for _, a := range args {
		if a.Buffer == nil {
			bound = append(bound, int32(a.Scalar))
			continue
		}
		buf, ok := a.Buffer.(*Buffer)
		if !ok {
			return fmt.Errorf("argument %s: buffer %T was not allocated on an OCCA device", a.Name, a.Buffer)
		}
		if buf.mem == nil {
			return fmt.Errorf("argument %s: buffer has been freed", a.Name)
		}
		bound = append(bound, buf.mem)
	}
	k.args = bound
	return nil
}

// Dispatch runs the kernel once. The geometry is compiled into the kernel
// through its defines, so geom only labels the dispatch. The run is timed
// between two stream tags on the device and cannot be interrupted once
// started.
func (k *Kernel) Dispatch(ctx context.Context, geom builder.Geometry) (runner.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	device := k.backend.Device
	device.Finish()
	start := device.TagStream()
	if err := k.kernel.RunWithArgs(k.args...); err != nil {
		device.Finish()
		return nil, fmt.Errorf("kernel execution failed with %s: %w", geom, err)
	}
	end := device.TagStream()
	device.WaitForTag(end)
	return runner.Timestamps{End: tagDuration(device.TimeBetweenTags(start, end))}, nil
}

// tagDuration converts OCCA tag seconds to whole nanoseconds
func tagDuration(seconds float64) time.Duration {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

// Free releases the kernel
func (k *Kernel) Free() {
	if k.kernel != nil {
		k.kernel.Free()
		k.kernel = nil
	}
}
