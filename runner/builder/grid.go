package builder

// Dimension is a named, ordered list of candidate values for one tunable
// parameter. Value order defines enumeration order.
type Dimension struct {
	Name   string
	Values []int
}

// Grid is the immutable parameter space of a sweep
type Grid struct {
	dims        []Dimension
	index       map[string]int
	constraints []Constraint
	rules       *WorkSizeRule
}

// NumDims returns the number of dimensions
func (g *Grid) NumDims() int {
	return len(g.dims)
}

// Dim returns a copy of the i-th dimension
func (g *Grid) Dim(i int) Dimension {
	d := g.dims[i]
	return Dimension{Name: d.Name, Values: append([]int(nil), d.Values...)}
}

// Dimensions returns a copy of every dimension in declaration order
func (g *Grid) Dimensions() []Dimension {
	dims := make([]Dimension, len(g.dims))
	for i := range g.dims {
		dims[i] = g.Dim(i)
	}
	return dims
}

// Names returns the dimension names in declaration order
func (g *Grid) Names() []string {
	names := make([]string, len(g.dims))
	for i, d := range g.dims {
		names[i] = d.Name
	}
	return names
}

// Index returns the position of a named dimension
func (g *Grid) Index(name string) (int, bool) {
	i, ok := g.index[name]
	return i, ok
}

// Radix returns the number of candidates of the i-th dimension
func (g *Grid) Radix(i int) int {
	return len(g.dims[i].Values)
}

// Value returns the j-th candidate of the i-th dimension
func (g *Grid) Value(i, j int) int {
	return g.dims[i].Values[j]
}

// Values returns a copy of the candidates of a named dimension
func (g *Grid) Values(name string) ([]int, bool) {
	i, ok := g.index[name]
	if !ok {
		return nil, false
	}
	return append([]int(nil), g.dims[i].Values...), true
}

// Constraints returns the constraints in declaration order
func (g *Grid) Constraints() []Constraint {
	return append([]Constraint(nil), g.constraints...)
}

// Rules returns the work size rule, or nil when the grid has none
func (g *Grid) Rules() *WorkSizeRule {
	if g.rules == nil {
		return nil
	}
	r := g.rules.clone()
	return &r
}

// Size returns the number of points in the cartesian product. A grid
// without dimensions has exactly one, empty, point.
func (g *Grid) Size() int {
	n := 1
	for _, d := range g.dims {
		n *= len(d.Values)
	}
	return n
}
