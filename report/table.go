package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

const (
	// DefaultNameWidth caps the width of a parameter column
	DefaultNameWidth = 8
	minNameWidth     = 3
	timeHeader       = "Time(s.ns)"
	timeWidth        = 14
	columnSep        = "  "
)

// Table is the interactive sink: a column-aligned table with names
// truncated to fit, followed by a summary of the fastest configurations.
// A column is never narrower than its widest value.
type Table struct {
	// NameWidth caps the header name of every parameter column
	NameWidth int
	// Top is the number of rows listed in the summary
	Top int

	w      io.Writer
	widths []int
}

// NewTable creates a table sink. When w is a terminal the columns are
// narrowed to fit its width.
func NewTable(w io.Writer) *Table {
	return &Table{NameWidth: DefaultNameWidth, Top: 5, w: w}
}

// Begin computes the column widths and writes the header
func (t *Table) Begin(dims []builder.Dimension) error {
	width := t.NameWidth
	if width <= 0 {
		width = DefaultNameWidth
	}
	if cols, ok := terminalWidth(t.w); ok && len(dims) > 0 {
		fit := (cols-timeWidth)/len(dims) - len(columnSep)
		width = min(width, max(fit, minNameWidth))
	}

	t.widths = make([]int, len(dims))
	var header strings.Builder
	for i, d := range dims {
		name := d.Name[:min(len(d.Name), width)]
		t.widths[i] = max(len(name), 1)
		for _, v := range d.Values {
			t.widths[i] = max(t.widths[i], len(strconv.Itoa(v)))
		}
		fmt.Fprintf(&header, "%*s%s", t.widths[i], name, columnSep)
	}
	fmt.Fprintf(&header, "%*s\n", timeWidth, timeHeader)
	_, err := io.WriteString(t.w, header.String())
	return err
}

// Row writes one aligned row
func (t *Table) Row(row runner.Row) error {
	var line strings.Builder
	for i, v := range row.Config.Values() {
		w := 1
		if i < len(t.widths) {
			w = t.widths[i]
		}
		fmt.Fprintf(&line, "%*d%s", w, v, columnSep)
	}
	fmt.Fprintf(&line, "%*s\n", timeWidth, runner.FormatSeconds(row.Measurement.Mean))
	_, err := io.WriteString(t.w, line.String())
	return err
}

// Skip writes nothing
func (t *Table) Skip(runner.Outcome) error { return nil }

// End writes the sweep counters and the fastest rows
func (t *Table) End(sum runner.Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s: %d configurations, %d measured, %d skipped, %d failed in %s\n",
		sum.Kernel, sum.Visited, sum.Measured, sum.Skipped, sum.Failed, sum.Elapsed.Round(time.Millisecond))

	best := sum.Best
	if t.Top > 0 && len(best) > t.Top {
		best = best[:t.Top]
	}
	if len(best) > 0 {
		fmt.Fprintf(&b, "Fastest %d:\n", len(best))
		for i, row := range best {
			fmt.Fprintf(&b, "%3d. %s  %s\n", i+1,
				runner.FormatSeconds(row.Measurement.Mean), row.Config)
		}
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}
