package occa

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

// Buffer is device memory of one kernel buffer argument
type Buffer struct {
	mem   *gocca.OCCAMemory
	shape runner.Shape
	dt    builder.DataType
}

// Shape returns the buffer shape
func (b *Buffer) Shape() runner.Shape { return b.shape }

// DataType returns the device element type
func (b *Buffer) DataType() builder.DataType { return b.dt }

// Read copies the device contents back and converts them to float64
func (b *Buffer) Read() ([]float64, error) {
	if b.mem == nil {
		return nil, fmt.Errorf("buffer %s has been freed", b.shape.Name)
	}
	n := b.shape.Len()
	bytes := int64(n) * b.dt.Size()
	out := make([]float64, n)

	switch b.dt {
	case builder.Float32:
		deviceData := make([]float32, n)
		b.mem.CopyTo(unsafe.Pointer(&deviceData[0]), bytes)
		for i, v := range deviceData {
			out[i] = float64(v)
		}
	case builder.Float64:
		b.mem.CopyTo(unsafe.Pointer(&out[0]), bytes)
	case builder.INT32:
		deviceData := make([]int32, n)
		b.mem.CopyTo(unsafe.Pointer(&deviceData[0]), bytes)
		for i, v := range deviceData {
			out[i] = float64(v)
		}
	case builder.INT64:
		deviceData := make([]int64, n)
		b.mem.CopyTo(unsafe.Pointer(&deviceData[0]), bytes)
		for i, v := range deviceData {
			out[i] = float64(v)
		}
	default:
		return nil, fmt.Errorf("unsupported device type for conversion: %v", b.dt)
	}
	return out, nil
}

// Free releases the device memory
func (b *Buffer) Free() {
	if b.mem != nil {
		b.mem.Free()
		b.mem = nil
	}
}
