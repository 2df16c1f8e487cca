package builder

import (
	"fmt"
	"strings"
)

// Constraint is a predicate over named dimensions. Check receives the values
// of Names(), in that order, for the configuration under test.
type Constraint interface {
	Names() []string
	Check(values []int) bool
}

type divisibleBy struct {
	a, b string
}

// DivisibleBy holds when a % b == 0
func DivisibleBy(a, b string) Constraint {
	return divisibleBy{a: a, b: b}
}

func (c divisibleBy) Names() []string { return []string{c.a, c.b} }

func (c divisibleBy) Check(v []int) bool {
	if len(v) != 2 {
		return false
	}
	return divides(v[0], v[1])
}

func (c divisibleBy) String() string { return fmt.Sprintf("%s %% %s == 0", c.a, c.b) }

type divisibleByProduct struct {
	a, b, c string
}

// DivisibleByProduct holds when a % (b*c) == 0
func DivisibleByProduct(a, b, c string) Constraint {
	return divisibleByProduct{a: a, b: b, c: c}
}

func (c divisibleByProduct) Names() []string { return []string{c.a, c.b, c.c} }

func (c divisibleByProduct) Check(v []int) bool {
	if len(v) != 3 {
		return false
	}
	return divides(v[0], v[1]*v[2])
}

func (c divisibleByProduct) String() string {
	return fmt.Sprintf("%s %% (%s*%s) == 0", c.a, c.b, c.c)
}

type divisibleByProductOverDivisor struct {
	a, b, c, d string
}

// DivisibleByProductOverDivisor holds when a % ((b*c)/d) == 0, with
// truncating integer division
func DivisibleByProductOverDivisor(a, b, c, d string) Constraint {
	return divisibleByProductOverDivisor{a: a, b: b, c: c, d: d}
}

func (c divisibleByProductOverDivisor) Names() []string { return []string{c.a, c.b, c.c, c.d} }

func (c divisibleByProductOverDivisor) Check(v []int) bool {
	if len(v) != 4 || v[3] == 0 {
		return false
	}
	return divides(v[0], (v[1]*v[2])/v[3])
}

func (c divisibleByProductOverDivisor) String() string {
	return fmt.Sprintf("%s %% ((%s*%s)/%s) == 0", c.a, c.b, c.c, c.d)
}

type powerOfTwo struct {
	a string
}

// PowerOfTwo holds when a is a positive power of two
func PowerOfTwo(a string) Constraint {
	return powerOfTwo{a: a}
}

func (c powerOfTwo) Names() []string { return []string{c.a} }

func (c powerOfTwo) Check(v []int) bool {
	return len(v) == 1 && v[0] > 0 && v[0]&(v[0]-1) == 0
}

func (c powerOfTwo) String() string { return fmt.Sprintf("%s is a power of two", c.a) }

type funcConstraint struct {
	fn    func([]int) bool
	names []string
}

// Func wraps an arbitrary predicate over the named dimensions
func Func(fn func(values []int) bool, names ...string) Constraint {
	return funcConstraint{fn: fn, names: append([]string(nil), names...)}
}

func (c funcConstraint) Names() []string { return append([]string(nil), c.names...) }

func (c funcConstraint) Check(v []int) bool {
	if len(v) != len(c.names) {
		return false
	}
	return c.fn(v)
}

func (c funcConstraint) String() string {
	return "func(" + strings.Join(c.names, ", ") + ")"
}

// divides reports whether d is a non-zero divisor of a
func divides(a, d int) bool {
	return d != 0 && a%d == 0
}

// Describe returns a readable form of a constraint for logs and errors
func Describe(c Constraint) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return strings.Join(c.Names(), ", ")
}
