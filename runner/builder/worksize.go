package builder

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDims is the largest iteration space dimensionality a dispatch supports
const MaxDims = 3

// Extent is an N-dimensional iteration space size, 1 <= N <= MaxDims
type Extent []int

// Dims returns the dimension count
func (e Extent) Dims() int {
	return len(e)
}

// Total returns the number of work items
func (e Extent) Total() int {
	n := 1
	for _, v := range e {
		n *= v
	}
	return n
}

func (e Extent) String() string {
	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Geometry is the global and local extent handed to one dispatch
type Geometry struct {
	Global Extent
	Local  Extent
}

func (g Geometry) String() string {
	return fmt.Sprintf("global=%s local=%s", g.Global, g.Local)
}

// Lookup resolves a dimension name to its value in one configuration
type Lookup interface {
	Lookup(name string) (int, bool)
}

// WorkSizeRule scales a base geometry by configuration values. Each list is
// either nil or holds one entry per axis; an empty entry means factor 1.
type WorkSizeRule struct {
	MulGlobal []string
	MulLocal  []string
	DivGlobal []string
}

// CheckBase validates that global and local extents agree in dimensionality
func CheckBase(global, local Extent) error {
	if global.Dims() != local.Dims() {
		return fmt.Errorf("%w: global size has %d dimensions, local size has %d",
			ErrGeometryMismatch, global.Dims(), local.Dims())
	}
	if global.Dims() == 0 || global.Dims() > MaxDims {
		return fmt.Errorf("%w: %d dimensions, want 1 to %d",
			ErrGeometryMismatch, global.Dims(), MaxDims)
	}
	return nil
}

// Validate checks every present list against the geometry dimensionality
func (r *WorkSizeRule) Validate(dims int) error {
	if r == nil {
		return nil
	}
	for _, l := range []struct {
		name  string
		names []string
	}{
		{"mul_global", r.MulGlobal},
		{"mul_local", r.MulLocal},
		{"div_global", r.DivGlobal},
	} {
		if l.names != nil && len(l.names) != dims {
			return fmt.Errorf("%w: %s has %d entries, geometry has %d dimensions",
				ErrGeometryMismatch, l.name, len(l.names), dims)
		}
	}
	return nil
}

// Apply derives the dispatch geometry for one configuration: multiply the
// global size, multiply the local size, then divide the global size.
// Division truncates toward zero.
func (r *WorkSizeRule) Apply(global, local Extent, values Lookup) (Geometry, error) {
	if err := CheckBase(global, local); err != nil {
		return Geometry{}, err
	}
	if err := r.Validate(global.Dims()); err != nil {
		return Geometry{}, err
	}
	geom := Geometry{
		Global: append(Extent(nil), global...),
		Local:  append(Extent(nil), local...),
	}
	if r == nil {
		return geom, nil
	}
	for i := range geom.Global {
		f, err := factor(r.MulGlobal, i, values)
		if err != nil {
			return Geometry{}, err
		}
		geom.Global[i] *= f
	}
	for i := range geom.Local {
		f, err := factor(r.MulLocal, i, values)
		if err != nil {
			return Geometry{}, err
		}
		geom.Local[i] *= f
	}
	for i := range geom.Global {
		f, err := factor(r.DivGlobal, i, values)
		if err != nil {
			return Geometry{}, err
		}
		if f == 0 {
			return Geometry{}, fmt.Errorf("%w: div_global axis %d: %s is zero",
				ErrInvalidValue, i, r.DivGlobal[i])
		}
		geom.Global[i] /= f
	}
	return geom, nil
}

func factor(names []string, axis int, values Lookup) (int, error) {
	if names == nil || names[axis] == "" {
		return 1, nil
	}
	v, ok := values.Lookup(names[axis])
	if !ok {
		return 0, fmt.Errorf("work size axis %d: %w", axis, missingDimension("", names[axis]))
	}
	return v, nil
}

func (r WorkSizeRule) names() []string {
	var out []string
	for _, l := range [][]string{r.MulGlobal, r.MulLocal, r.DivGlobal} {
		for _, n := range l {
			if n != "" {
				out = append(out, n)
			}
		}
	}
	return out
}

func (r WorkSizeRule) clone() WorkSizeRule {
	cp := func(s []string) []string {
		if s == nil {
			return nil
		}
		return append([]string(nil), s...)
	}
	return WorkSizeRule{
		MulGlobal: cp(r.MulGlobal),
		MulLocal:  cp(r.MulLocal),
		DivGlobal: cp(r.DivGlobal),
	}
}
