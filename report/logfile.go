package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

// LogFieldWidth is the width of every field of the log file format
const LogFieldWidth = 10

// LogFile writes the delimited log format: a header of centered names and
// one line per measured configuration with the mean as seconds.nanoseconds
type LogFile struct {
	w *bufio.Writer
}

// NewLogFile creates a log file sink
func NewLogFile(w io.Writer) *LogFile {
	return &LogFile{w: bufio.NewWriter(w)}
}

// Begin writes the header
func (l *LogFile) Begin(dims []builder.Dimension) error {
	for _, d := range dims {
		fmt.Fprintf(l.w, "%s, ", center(d.Name, LogFieldWidth))
	}
	fmt.Fprintln(l.w, "Time(s.ns)")
	return l.w.Flush()
}

// Row writes one line; it is flushed so an aborted sweep keeps every row
func (l *LogFile) Row(row runner.Row) error {
	for _, v := range row.Config.Values() {
		fmt.Fprintf(l.w, "%*d, ", LogFieldWidth, v)
	}
	fmt.Fprintln(l.w, runner.FormatSeconds(row.Measurement.Mean))
	return l.w.Flush()
}

// Skip writes nothing
func (l *LogFile) Skip(runner.Outcome) error { return nil }

// End writes nothing
func (l *LogFile) End(runner.Summary) error { return l.w.Flush() }
