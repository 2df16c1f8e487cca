package runner

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMeasurementMean(t *testing.T) {
	runs := make([]time.Duration, 10)
	for i := range runs {
		runs[i] = time.Second
	}
	m := NewMeasurement(runs)
	assert.Equal(t, time.Second, m.Mean)
	assert.Equal(t, "1.000000000", FormatSeconds(m.Mean))
	assert.Len(t, m.Runs, 10)

	// The runs slice is copied
	runs[0] = time.Hour
	assert.Equal(t, time.Second, m.Runs[0])
}

func TestMeasurementTruncatesToNanoseconds(t *testing.T) {
	m := NewMeasurement([]time.Duration{1, 2})
	assert.Equal(t, time.Duration(1), m.Mean)

	m = NewMeasurement([]time.Duration{1500 * time.Microsecond, 500 * time.Microsecond, time.Millisecond})
	assert.Equal(t, time.Millisecond, m.Mean)
}

func TestMeasurementSpread(t *testing.T) {
	m := NewMeasurement([]time.Duration{3 * time.Second, time.Second})
	assert.Equal(t, time.Second, m.Min())
	assert.Equal(t, 3*time.Second, m.Max())
	assert.InDelta(t, math.Sqrt2, m.StdDev(), 1e-12)

	single := NewMeasurement([]time.Duration{time.Millisecond})
	assert.Zero(t, single.StdDev())

	empty := NewMeasurement(nil)
	assert.Zero(t, empty.Mean)
	assert.Zero(t, empty.Min())
	assert.Zero(t, empty.Max())
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.000000000"},
		{1, "0.000000001"},
		{1234567 * time.Microsecond, "1.234567000"},
		{65*time.Second + 42, "65.000000042"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.d))
	}
}
