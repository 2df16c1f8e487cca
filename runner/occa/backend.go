package occa

import (
	"fmt"
	"unsafe"

	json "github.com/goccy/go-json"
	"github.com/notargets/gocca"
	"github.com/notargets/ktune/logger"
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

// Backend runs kernels on one OCCA device. It implements runner.Backend.
type Backend struct {
	Device *gocca.OCCADevice

	log logger.Logger
}

var _ runner.Backend = (*Backend)(nil)

// Open opens a device and wraps it as a backend
func Open(cfg DeviceConfig, log logger.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Discard()
	}
	device, err := openDevice(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", runner.ErrBackend, err)
	}
	log.Info("opened device", "mode", device.Mode())
	return &Backend{Device: device, log: log}, nil
}

// Name returns the OCCA mode of the device
func (b *Backend) Name() string {
	return b.Device.Mode()
}

// Alloc creates device memory for shape and copies host into it, converted
// to dt
func (b *Backend) Alloc(shape runner.Shape, dt builder.DataType, host []float64) (runner.Buffer, error) {
	n := shape.Len()
	if len(host) != n {
		return nil, fmt.Errorf("buffer %s is %dx%d, host data has %d values",
			shape.Name, shape.Rows, shape.Cols, len(host))
	}
	if n == 0 {
		return nil, fmt.Errorf("buffer %s is empty", shape.Name)
	}
	bytes := int64(n) * dt.Size()

	var mem *gocca.OCCAMemory
	switch dt {
	case builder.Float32:
		converted := make([]float32, n)
		for i, v := range host {
			converted[i] = float32(v)
		}
		mem = b.Device.Malloc(bytes, unsafe.Pointer(&converted[0]), nil)
	case builder.Float64:
		mem = b.Device.Malloc(bytes, unsafe.Pointer(&host[0]), nil)
	case builder.INT32:
		converted := make([]int32, n)
		for i, v := range host {
			converted[i] = int32(v)
		}
		mem = b.Device.Malloc(bytes, unsafe.Pointer(&converted[0]), nil)
	case builder.INT64:
		converted := make([]int64, n)
		for i, v := range host {
			converted[i] = int64(v)
		}
		mem = b.Device.Malloc(bytes, unsafe.Pointer(&converted[0]), nil)
	default:
		return nil, fmt.Errorf("unsupported buffer type %v", dt)
	}
	if mem == nil {
		return nil, fmt.Errorf("malloc of %d bytes for %s returned nil", bytes, shape.Name)
	}
	return &Buffer{mem: mem, shape: shape, dt: dt}, nil
}

// Build compiles source with the defines as kernel properties. OpenMP does
// not get -O3 by default, so it is added explicitly.
func (b *Backend) Build(req runner.BuildRequest) (runner.Kernel, error) {
	props := map[string]any{"defines": req.Defines}
	if b.Device.Mode() == "OpenMP" {
		props["compiler_flags"] = "-O3"
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshal kernel properties: %w", err)
	}

	kprops := gocca.JsonParse(string(propsJSON))
	defer kprops.Free()

	kernel, err := b.Device.BuildKernelFromString(req.Source, req.EntryName, kprops)
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", req.EntryName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", req.EntryName)
	}
	return &Kernel{kernel: kernel, backend: b}, nil
}

// Close frees the device
func (b *Backend) Close() error {
	if b.Device != nil {
		b.Device.Free()
		b.Device = nil
	}
	return nil
}

