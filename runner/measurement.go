package runner

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Measurement holds the device durations of every run of one configuration
// and their arithmetic mean
type Measurement struct {
	Mean time.Duration
	Runs []time.Duration
}

// NewMeasurement computes the mean over runs. The sum is accumulated in
// integer nanoseconds so identical runs average to exactly their value.
func NewMeasurement(runs []time.Duration) Measurement {
	m := Measurement{Runs: append([]time.Duration(nil), runs...)}
	if len(runs) == 0 {
		return m
	}
	var sum time.Duration
	for _, r := range runs {
		sum += r
	}
	m.Mean = sum / time.Duration(len(runs))
	return m
}

// Min returns the fastest run
func (m Measurement) Min() time.Duration {
	if len(m.Runs) == 0 {
		return 0
	}
	lo := m.Runs[0]
	for _, r := range m.Runs[1:] {
		lo = min(lo, r)
	}
	return lo
}

// Max returns the slowest run
func (m Measurement) Max() time.Duration {
	if len(m.Runs) == 0 {
		return 0
	}
	hi := m.Runs[0]
	for _, r := range m.Runs[1:] {
		hi = max(hi, r)
	}
	return hi
}

// StdDev returns the sample standard deviation of the runs, in seconds
func (m Measurement) StdDev() float64 {
	if len(m.Runs) < 2 {
		return 0
	}
	secs := make([]float64, len(m.Runs))
	for i, r := range m.Runs {
		secs[i] = r.Seconds()
	}
	return stat.StdDev(secs, nil)
}

// FormatSeconds renders d as seconds.nanoseconds, e.g. 1.000000000
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%d.%09d", d/time.Second, d%time.Second)
}
