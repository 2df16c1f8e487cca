package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notargets/ktune/runner/builder"
)

// fakeBackend is an in-memory Backend whose dispatch durations are computed
// from the build defines
type fakeBackend struct {
	builds     []BuildRequest
	allocs     []*fakeBuffer
	kernels    []*fakeKernel
	dispatches int
	closed     bool

	// elapsed returns the duration of one dispatch, default 1ms
	elapsed func(defines map[string]int, geom builder.Geometry) time.Duration
	// failBuild makes Build fail when it returns an error
	failBuild func(req BuildRequest) error
	// hang makes Dispatch block until its context is done
	hang func(defines map[string]int) bool
	// busy makes Dispatch sleep without looking at its context, the way a
	// running device kernel does
	busy func(defines map[string]int) time.Duration

	mu          sync.Mutex
	inFlight    int
	maxInFlight int
	freedBusy   int // kernels freed while one of their dispatches ran
}

func (fb *fakeBackend) Name() string { return "fake" }

func (fb *fakeBackend) Alloc(shape Shape, dt builder.DataType, host []float64) (Buffer, error) {
	if len(host) != shape.Len() {
		return nil, fmt.Errorf("host data has %d values for %dx%d", len(host), shape.Rows, shape.Cols)
	}
	buf := &fakeBuffer{shape: shape, dt: dt, data: append([]float64(nil), host...)}
	fb.allocs = append(fb.allocs, buf)
	return buf, nil
}

func (fb *fakeBackend) Build(req BuildRequest) (Kernel, error) {
	fb.builds = append(fb.builds, req)
	if fb.failBuild != nil {
		if err := fb.failBuild(req); err != nil {
			return nil, err
		}
	}
	k := &fakeKernel{backend: fb, defines: req.Defines}
	fb.kernels = append(fb.kernels, k)
	return k, nil
}

func (fb *fakeBackend) Close() error {
	fb.closed = true
	return nil
}

type fakeBuffer struct {
	shape Shape
	dt    builder.DataType
	data  []float64
	freed bool
}

func (b *fakeBuffer) Shape() Shape { return b.shape }
func (b *fakeBuffer) DataType() builder.DataType { return b.dt }
func (b *fakeBuffer) Read() ([]float64, error) { return append([]float64(nil), b.data...), nil }
func (b *fakeBuffer) Free() { b.freed = true }

type fakeKernel struct {
	backend *fakeBackend
	defines map[string]int
	args    []Arg
	freed   bool
	running bool
}

func (k *fakeKernel) Bind(args []Arg) error {
	k.args = args
	return nil
}

func (k *fakeKernel) Dispatch(ctx context.Context, geom builder.Geometry) (Event, error) {
	fb := k.backend
	fb.mu.Lock()
	fb.dispatches++
	fb.inFlight++
	fb.maxInFlight = max(fb.maxInFlight, fb.inFlight)
	k.running = true
	fb.mu.Unlock()
	defer func() {
		fb.mu.Lock()
		fb.inFlight--
		k.running = false
		fb.mu.Unlock()
	}()

	if fb.busy != nil {
		time.Sleep(fb.busy(k.defines))
	}
	if k.backend.hang != nil && k.backend.hang(k.defines) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	d := time.Millisecond
	if k.backend.elapsed != nil {
		d = k.backend.elapsed(k.defines, geom)
	}
	return Timestamps{Start: 5 * time.Second, End: 5*time.Second + d}, nil
}

func (k *fakeKernel) Free() {
	k.backend.mu.Lock()
	defer k.backend.mu.Unlock()
	if k.running {
		k.backend.freedBusy++
	}
	k.freed = true
}

// recordingReporter keeps everything a sweep reports
type recordingReporter struct {
	names   []string
	rows    []Row
	skips   []Outcome
	summary *Summary
	begins  int
}

func (r *recordingReporter) Begin(dims []builder.Dimension) error {
	r.begins++
	r.names = nil
	for _, d := range dims {
		r.names = append(r.names, d.Name)
	}
	return nil
}

func (r *recordingReporter) Row(row Row) error {
	r.rows = append(r.rows, row)
	return nil
}

func (r *recordingReporter) Skip(out Outcome) error {
	r.skips = append(r.skips, out)
	return nil
}

func (r *recordingReporter) End(sum Summary) error {
	r.summary = &sum
	return nil
}

func (r *recordingReporter) rowValues() [][]int {
	out := make([][]int, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.Config.Values()
	}
	return out
}
