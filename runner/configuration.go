package runner

import (
	"strconv"
	"strings"

	"github.com/notargets/ktune/runner/builder"
)

// Configuration is one concrete assignment of a value to every dimension of
// a grid. It is never modified after the enumerator hands it out.
type Configuration struct {
	grid   *builder.Grid
	values []int
}

// NewConfiguration builds a configuration from values in dimension order
func NewConfiguration(grid *builder.Grid, values []int) Configuration {
	return Configuration{grid: grid, values: append([]int(nil), values...)}
}

// Lookup returns the value of a named dimension
func (c Configuration) Lookup(name string) (int, bool) {
	if c.grid == nil {
		return 0, false
	}
	i, ok := c.grid.Index(name)
	if !ok {
		return 0, false
	}
	return c.values[i], true
}

// Names returns the dimension names in declaration order
func (c Configuration) Names() []string {
	if c.grid == nil {
		return nil
	}
	return c.grid.Names()
}

// Values returns a copy of the values in declaration order
func (c Configuration) Values() []int {
	return append([]int(nil), c.values...)
}

// Len returns the number of dimensions
func (c Configuration) Len() int {
	return len(c.values)
}

// Defines returns the configuration as compile-time constants
func (c Configuration) Defines() map[string]int {
	defs := make(map[string]int, len(c.values))
	for i, name := range c.Names() {
		defs[name] = c.values[i]
	}
	return defs
}

// String renders "NAME=value, NAME=value"
func (c Configuration) String() string {
	var sb strings.Builder
	for i, name := range c.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(name)
		sb.WriteByte('=')
		sb.WriteString(strconv.Itoa(c.values[i]))
	}
	return sb.String()
}

// args returns the values of the named dimensions, in order
func (c Configuration) args(names []string) ([]int, bool) {
	out := make([]int, len(names))
	for i, n := range names {
		v, ok := c.Lookup(n)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
