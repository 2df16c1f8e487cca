package builder

// ParamBuilder provides a fluent interface for declaring one tunable dimension
type ParamBuilder struct {
	Dim Dimension
}

// Param starts the declaration of a dimension
func Param(name string) *ParamBuilder {
	return &ParamBuilder{
		Dim: Dimension{Name: name},
	}
}

// Values appends explicit candidate values, keeping their order
func (p *ParamBuilder) Values(values ...int) *ParamBuilder {
	p.Dim.Values = append(p.Dim.Values, values...)
	return p
}

// Bools appends boolean candidates encoded as 0/1
func (p *ParamBuilder) Bools(values ...bool) *ParamBuilder {
	p.Dim.Values = append(p.Dim.Values, boolsToInts(values)...)
	return p
}

// Range appends from, from+step, ... up to and including to
func (p *ParamBuilder) Range(from, to, step int) *ParamBuilder {
	if step <= 0 {
		return p
	}
	for v := from; v <= to; v += step {
		p.Dim.Values = append(p.Dim.Values, v)
	}
	return p
}

// PowersOfTwo appends every power of two in [from, to]
func (p *ParamBuilder) PowersOfTwo(from, to int) *ParamBuilder {
	for v := 1; v > 0 && v <= to; v <<= 1 {
		if v >= from {
			p.Dim.Values = append(p.Dim.Values, v)
		}
	}
	return p
}
