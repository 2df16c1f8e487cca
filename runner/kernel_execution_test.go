package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/notargets/ktune/runner/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func measureFirst(t *testing.T, m *Measurer, fb *fakeBackend, runs int) (Measurement, error) {
	t.Helper()
	grid := buildGrid(t, builder.NewGridBuilder("").Set("VALUE1", 8).Set("VALUE2", 16))
	out, ok := NewEnumerator(grid).Next()
	require.True(t, ok)

	desc := addDescriptor()
	buffers := make([]Buffer, len(desc.BufferShapes))
	for i, s := range desc.BufferShapes {
		buffers[i] = &fakeBuffer{shape: s, dt: builder.Float64}
	}
	geom := builder.Geometry{Global: builder.Extent{64, 4}, Local: builder.Extent{8, 1}}
	return m.Measure(context.Background(), desc, out.Config, geom, buffers, runs)
}

func TestMeasurerWarmupNotTimed(t *testing.T) {
	calls := 0
	fb := &fakeBackend{
		elapsed: func(map[string]int, builder.Geometry) time.Duration {
			calls++
			if calls <= 2 {
				return time.Hour
			}
			return 2 * time.Millisecond
		},
	}
	m := NewMeasurer(fb, nil)
	m.Warmup = 2

	meas, err := measureFirst(t, m, fb, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, fb.dispatches)
	assert.Equal(t, 2*time.Millisecond, meas.Mean)
	assert.Len(t, meas.Runs, 4)
}

func TestMeasurerUsesBufferPrecision(t *testing.T) {
	fb := &fakeBackend{}
	_, err := measureFirst(t, NewMeasurer(fb, nil), fb, 1)
	require.NoError(t, err)
	require.Len(t, fb.builds, 1)
	assert.Contains(t, fb.builds[0].Source, "typedef double real_t;")
	assert.Equal(t, 4, fb.builds[0].Defines["KTUNE_GLOBAL_1"])
}

func TestMeasurerRejectsZeroRuns(t *testing.T) {
	fb := &fakeBackend{}
	_, err := measureFirst(t, NewMeasurer(fb, nil), fb, 0)
	assert.ErrorIs(t, err, builder.ErrInvalidValue)
	assert.Empty(t, fb.builds)
}

func TestMeasurerBuildFailure(t *testing.T) {
	fb := &fakeBackend{failBuild: func(BuildRequest) error { return errors.New("syntax error") }}
	_, err := measureFirst(t, NewMeasurer(fb, nil), fb, 1)
	assert.ErrorIs(t, err, ErrBackend)
	assert.Contains(t, err.Error(), "VALUE1=8, VALUE2=16")
	assert.Zero(t, fb.dispatches)
}

func TestMeasurerDispatchTimeout(t *testing.T) {
	fb := &fakeBackend{hang: func(map[string]int) bool { return true }}
	m := NewMeasurer(fb, nil)
	m.DispatchTimeout = 10 * time.Millisecond

	_, err := measureFirst(t, m, fb, 3)
	assert.ErrorIs(t, err, ErrDispatchTimeout)
	assert.NotErrorIs(t, err, ErrBackend)
}

func TestMeasurerTimeoutWaitsForRunningKernel(t *testing.T) {
	fb := &fakeBackend{busy: func(map[string]int) time.Duration { return 50 * time.Millisecond }}
	m := NewMeasurer(fb, nil)
	m.DispatchTimeout = 10 * time.Millisecond

	start := time.Now()
	_, err := measureFirst(t, m, fb, 3)
	assert.ErrorIs(t, err, ErrDispatchTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)

	// The kernel is freed only after its dispatch has returned
	assert.Zero(t, fb.inFlight)
	assert.Zero(t, fb.freedBusy)
	require.Len(t, fb.kernels, 1)
	assert.True(t, fb.kernels[0].freed)
	assert.Equal(t, 1, fb.dispatches)
}

func BenchmarkTuneFakeBackend(b *testing.B) {
	gb := builder.NewGridBuilder("").
		Set("VALUE1", 1, 2, 4, 8, 16, 32).
		Set("VALUE2", 1, 2, 4, 8, 16, 32, 64).
		Constrain(builder.DivisibleBy("VALUE2", "VALUE1"))
	grid, err := gb.Build()
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		kr := NewRunner(NewSession(&fakeBackend{}, SessionConfig{}), &recordingReporter{})
		if _, err := kr.Tune(context.Background(), addDescriptor(), grid, Options{Runs: 1}); err != nil {
			b.Fatal(err)
		}
	}
}
