// Package kernels holds the kernel families ktune knows how to tune: their
// parameter checklists, constraints, work size rules, descriptors and OKL
// sources.
package kernels

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

//go:embed okl/*.okl
var sources embed.FS

// Source returns an embedded OKL source by file name, e.g. "gemm.okl"
func Source(name string) (string, error) {
	b, err := sources.ReadFile("okl/" + name)
	if err != nil {
		return "", fmt.Errorf("kernel source %s: %w", name, err)
	}
	return string(b), nil
}

// LoadSource reads an OKL source from disk, replacing an embedded one
func LoadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read kernel source: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("kernel source %s is empty", path)
	}
	return string(b), nil
}

// Sizes are the problem dimensions of a kernel family
type Sizes struct {
	M, N, K int
}

func (s Sizes) check(names ...string) error {
	for _, name := range names {
		var v int
		switch name {
		case "M":
			v = s.M
		case "N":
			v = s.N
		case "K":
			v = s.K
		}
		if v <= 0 {
			return fmt.Errorf("%w: %s=%d, want a positive size", builder.ErrInvalidValue, name, v)
		}
	}
	return nil
}

// Family is a tunable kernel: a grid builder carrying the checklist,
// constraints and work size rule, and the descriptor of the kernel itself
type Family struct {
	Name string
	// Required lists the dimensions a grid must declare, in checklist order
	Required []string
	// Builder returns a grid builder with constraints and rule registered
	// and no values set
	Builder func() *builder.GridBuilder
	// Defaults returns Builder with every dimension set to its default
	Defaults   func() *builder.GridBuilder
	Descriptor func(sizes Sizes) (*runner.KernelDescriptor, error)
}

var families = map[string]Family{
	"gemm": {
		Name:       "gemm",
		Required:   GemmDimensions,
		Builder:    NewGemmBuilder,
		Defaults:   DefaultGemmBuilder,
		Descriptor: func(s Sizes) (*runner.KernelDescriptor, error) { return GemmDescriptor(s.M, s.N, s.K) },
	},
	"add": {
		Name:       "add",
		Required:   AddDimensions,
		Builder:    NewAddBuilder,
		Defaults:   DefaultAddBuilder,
		Descriptor: func(s Sizes) (*runner.KernelDescriptor, error) { return AddDescriptor(s.M, s.N) },
	},
}

// Lookup returns a kernel family by name
func Lookup(name string) (Family, error) {
	f, ok := families[name]
	if !ok {
		return Family{}, fmt.Errorf("unknown kernel family %q, want one of %v", name, Names())
	}
	return f, nil
}

// Names lists the known families
func Names() []string {
	names := make([]string, 0, len(families))
	for name := range families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
