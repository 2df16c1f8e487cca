package runner

import (
	"github.com/notargets/ktune/runner/builder"
)

// Status classifies an enumerated configuration
type Status int

const (
	// Legal configurations satisfy every constraint and get measured
	Legal Status = iota
	// Skipped configurations violate a constraint and are never measured
	Skipped
	// Failed configurations were legal but the backend could not measure them
	Failed
)

func (s Status) String() string {
	switch s {
	case Legal:
		return "legal"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is one enumerated point of the grid
type Outcome struct {
	Index    int // Position in enumeration order, starting at 0
	Config   Configuration
	Status   Status
	Violated builder.Constraint // First failing constraint when Skipped
	Err      error              // Backend error when Failed
}

// Enumerator walks the cartesian product of a grid as a mixed-radix counter
// with the last dimension varying fastest
type Enumerator struct {
	grid        *builder.Grid
	constraints []builder.Constraint
	indices     []int // nil once the counter cannot advance
	next        int
}

// NewEnumerator starts an enumeration at the all-zero counter
func NewEnumerator(grid *builder.Grid) *Enumerator {
	e := &Enumerator{grid: grid, constraints: grid.Constraints()}
	e.Reset()
	return e
}

// Reset rewinds to the first configuration
func (e *Enumerator) Reset() {
	e.indices = make([]int, e.grid.NumDims())
	e.next = 0
}

// Count returns the number of points the enumeration visits
func (e *Enumerator) Count() int {
	return e.grid.Size()
}

// Next returns the current point, classified against the constraints, and
// advances the counter. ok is false once every point has been returned.
func (e *Enumerator) Next() (out Outcome, ok bool) {
	if e.indices == nil {
		return Outcome{}, false
	}

	values := make([]int, len(e.indices))
	for i, j := range e.indices {
		values[i] = e.grid.Value(i, j)
	}
	out = Outcome{
		Index:  e.next,
		Config: Configuration{grid: e.grid, values: values},
		Status: Legal,
	}
	if c := e.violated(out.Config); c != nil {
		out.Status = Skipped
		out.Violated = c
	}

	e.next++
	if !e.advance() {
		e.indices = nil
	}
	return out, true
}

// violated evaluates constraints in declaration order, stopping at the first failure
func (e *Enumerator) violated(cfg Configuration) builder.Constraint {
	for _, c := range e.constraints {
		args, ok := cfg.args(c.Names())
		if !ok || !c.Check(args) {
			return c
		}
	}
	return nil
}

// advance increments the rightmost digit that is not at its maximum and
// zeroes every digit to its right
func (e *Enumerator) advance() bool {
	last := len(e.indices) - 1
	for last >= 0 && e.indices[last] == e.grid.Radix(last)-1 {
		last--
	}
	if last < 0 {
		return false
	}
	e.indices[last]++
	for i := last + 1; i < len(e.indices); i++ {
		e.indices[i] = 0
	}
	return true
}
