package builder

import (
	"fmt"
	"strings"
)

// DataType represents the precision of numerical data
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
)

// String returns the C type name used on the device
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float"
	case Float64:
		return "double"
	case INT32:
		return "int"
	case INT64:
		return "long"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

// Size returns the size in bytes of one element
func (dt DataType) Size() int64 {
	switch dt {
	case Float32, INT32:
		return 4
	default:
		return 8
	}
}

// DataTypeFromPrecision maps a precision value in bits (32 or 64) to a
// floating point DataType
func DataTypeFromPrecision(bits int) (DataType, error) {
	switch bits {
	case 32:
		return Float32, nil
	case 64:
		return Float64, nil
	default:
		return 0, invalidValue("PRECISION", bits, "must be one of {32, 64}")
	}
}

// GridBuilder accumulates dimensions, constraints and work size rules and
// validates them against a required-name checklist on Build
type GridBuilder struct {
	family     string
	required   []string
	dims       []Dimension
	index      map[string]int
	allowed    map[string][]int
	constraint []Constraint
	rules      *WorkSizeRule
	err        error
}

// NewGridBuilder creates a builder for a kernel family. required lists, in
// order, the dimensions Build insists on.
func NewGridBuilder(family string, required ...string) *GridBuilder {
	return &GridBuilder{
		family:   family,
		required: append([]string(nil), required...),
		index:    make(map[string]int),
		allowed:  make(map[string][]int),
	}
}

// Restrict limits a dimension to a closed set of legal values. Values set
// before or after the restriction are checked against it.
func (gb *GridBuilder) Restrict(name string, legal ...int) *GridBuilder {
	gb.allowed[name] = append([]int(nil), legal...)
	if i, ok := gb.index[name]; ok {
		gb.checkAllowed(gb.dims[i])
	}
	return gb
}

// Add declares dimensions. Redeclaring a name replaces its values but keeps
// its position.
func (gb *GridBuilder) Add(params ...*ParamBuilder) *GridBuilder {
	for _, p := range params {
		if p == nil {
			continue
		}
		gb.Set(p.Dim.Name, p.Dim.Values...)
	}
	return gb
}

// Set declares or replaces the candidate values of a dimension
func (gb *GridBuilder) Set(name string, values ...int) *GridBuilder {
	dim := Dimension{Name: name, Values: append([]int(nil), values...)}
	if i, ok := gb.index[name]; ok {
		gb.dims[i] = dim
	} else {
		gb.index[name] = len(gb.dims)
		gb.dims = append(gb.dims, dim)
	}
	gb.checkAllowed(dim)
	return gb
}

// SetBool declares a boolean dimension, encoded as 0/1
func (gb *GridBuilder) SetBool(name string, values ...bool) *GridBuilder {
	return gb.Set(name, boolsToInts(values)...)
}

// Constrain registers constraints, evaluated in registration order
func (gb *GridBuilder) Constrain(cs ...Constraint) *GridBuilder {
	gb.constraint = append(gb.constraint, cs...)
	return gb
}

// WorkSize sets the geometry scaling rule
func (gb *GridBuilder) WorkSize(rule WorkSizeRule) *GridBuilder {
	r := rule.clone()
	gb.rules = &r
	return gb
}

// Build validates the accumulated state and returns an immutable Grid
func (gb *GridBuilder) Build() (*Grid, error) {
	// Value errors are recorded when the value is set and win over everything else
	if gb.err != nil {
		return nil, gb.err
	}
	for _, name := range gb.required {
		if _, ok := gb.index[name]; !ok {
			return nil, missingDimension(gb.family, name)
		}
	}
	for _, d := range gb.dims {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: dimension name cannot be empty", ErrInvalidValue)
		}
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("%w: dimension %s has no candidate values", ErrInvalidValue, d.Name)
		}
	}
	for i, c := range gb.constraint {
		for _, name := range c.Names() {
			if _, ok := gb.index[name]; !ok {
				return nil, fmt.Errorf("constraint %d (%s): %w",
					i, Describe(c), missingDimension("", name))
			}
		}
	}
	if gb.rules != nil {
		for _, name := range gb.rules.names() {
			if _, ok := gb.index[name]; !ok {
				return nil, fmt.Errorf("work size rule: %w", missingDimension("", name))
			}
		}
	}

	g := &Grid{
		dims:        make([]Dimension, len(gb.dims)),
		index:       make(map[string]int, len(gb.dims)),
		constraints: append([]Constraint(nil), gb.constraint...),
	}
	for i, d := range gb.dims {
		g.dims[i] = Dimension{Name: d.Name, Values: append([]int(nil), d.Values...)}
		g.index[d.Name] = i
	}
	if gb.rules != nil {
		r := gb.rules.clone()
		g.rules = &r
	}
	return g, nil
}

func (gb *GridBuilder) checkAllowed(d Dimension) {
	legal, ok := gb.allowed[d.Name]
	if !ok || gb.err != nil {
		return
	}
	for _, v := range d.Values {
		if !containsInt(legal, v) {
			gb.err = invalidValue(d.Name, v, fmt.Sprintf("must be one of %s", formatSet(legal)))
			return
		}
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func formatSet(s []int) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func boolsToInts(values []bool) []int {
	out := make([]int, len(values))
	for i, b := range values {
		if b {
			out[i] = 1
		}
	}
	return out
}
