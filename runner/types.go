// runner/types.go
package runner

import (
	"fmt"

	"github.com/notargets/ktune/runner/builder"
)

// Shape describes one 2-D kernel buffer argument
type Shape struct {
	Name   string
	Rows   int
	Cols   int
	Output bool // Written by the kernel; inputs are declared const
}

// Len returns the number of elements
func (s Shape) Len() int {
	return s.Rows * s.Cols
}

// KernelDescriptor describes the kernel under tuning. It is read-only for
// the duration of a sweep.
type KernelDescriptor struct {
	ScalarNames  []string // Optional, used for signatures and logs
	ScalarArgs   []int
	BufferShapes []Shape
	Source       string
	EntryName    string
	BaseGlobal   builder.Extent
	BaseLocal    builder.Extent

	// DataType is the buffer element type when PrecisionDimension is empty
	DataType builder.DataType
	// PrecisionDimension names a grid dimension holding 32 or 64 that selects
	// the buffer element type per configuration
	PrecisionDimension string
}

// Validate checks the descriptor on its own, before any grid is involved
func (d *KernelDescriptor) Validate() error {
	if d.EntryName == "" {
		return fmt.Errorf("%w: kernel entry name cannot be empty", builder.ErrInvalidValue)
	}
	if d.Source == "" {
		return fmt.Errorf("%w: kernel %s has no source", builder.ErrInvalidValue, d.EntryName)
	}
	if d.ScalarNames != nil && len(d.ScalarNames) != len(d.ScalarArgs) {
		return fmt.Errorf("%w: kernel %s has %d scalar names for %d scalar args",
			builder.ErrInvalidValue, d.EntryName, len(d.ScalarNames), len(d.ScalarArgs))
	}
	for i, s := range d.BufferShapes {
		if s.Rows <= 0 || s.Cols <= 0 {
			return fmt.Errorf("%w: buffer %d of kernel %s has shape %dx%d",
				builder.ErrInvalidValue, i, d.EntryName, s.Rows, s.Cols)
		}
	}
	return builder.CheckBase(d.BaseGlobal, d.BaseLocal)
}

// bufferTypes returns the element types the sweep over grid can ask for
func (d *KernelDescriptor) bufferTypes(grid *builder.Grid) ([]builder.DataType, error) {
	if d.PrecisionDimension == "" {
		dt := d.DataType
		if dt == 0 {
			dt = builder.Float32
		}
		return []builder.DataType{dt}, nil
	}
	values, ok := grid.Values(d.PrecisionDimension)
	if !ok {
		return nil, fmt.Errorf("precision dimension: %w: %s",
			builder.ErrMissingDimension, d.PrecisionDimension)
	}
	var types []builder.DataType
	for _, v := range values {
		dt, err := builder.DataTypeFromPrecision(v)
		if err != nil {
			return nil, err
		}
		if !containsType(types, dt) {
			types = append(types, dt)
		}
	}
	return types, nil
}

// dataTypeFor returns the buffer element type for one configuration
func (d *KernelDescriptor) dataTypeFor(cfg Configuration) (builder.DataType, error) {
	if d.PrecisionDimension == "" {
		if d.DataType == 0 {
			return builder.Float32, nil
		}
		return d.DataType, nil
	}
	v, ok := cfg.Lookup(d.PrecisionDimension)
	if !ok {
		return 0, fmt.Errorf("precision dimension: %w: %s",
			builder.ErrMissingDimension, d.PrecisionDimension)
	}
	return builder.DataTypeFromPrecision(v)
}

func containsType(types []builder.DataType, dt builder.DataType) bool {
	for _, t := range types {
		if t == dt {
			return true
		}
	}
	return false
}
