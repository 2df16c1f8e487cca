package runner

import (
	"fmt"
	"strings"
)

// KernelArgument describes one positional kernel argument
type KernelArgument struct {
	Name     string
	Type     string // "int_t", "real_t*"
	IsConst  bool
	Category string // "scalar", "buffer"
	Index    int    // Index into ScalarArgs or BufferShapes
}

// GetKernelArguments returns the ordered argument list of a descriptor.
// This is the single place that fixes argument order: scalars first, in
// ScalarArgs order, then buffers in BufferShapes order.
func GetKernelArguments(desc *KernelDescriptor) []KernelArgument {
	args := make([]KernelArgument, 0, len(desc.ScalarArgs)+len(desc.BufferShapes))

	for i := range desc.ScalarArgs {
		args = append(args, KernelArgument{
			Name:     scalarName(desc, i),
			Type:     "int_t",
			IsConst:  true,
			Category: "scalar",
			Index:    i,
		})
	}

	for i, s := range desc.BufferShapes {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("buf%d", i)
		}
		args = append(args, KernelArgument{
			Name:     name,
			Type:     "real_t*",
			IsConst:  !s.Output,
			Category: "buffer",
			Index:    i,
		})
	}

	return args
}

// GetKernelSignature generates the parameter list matching GetKernelArguments
func GetKernelSignature(desc *KernelDescriptor) string {
	args := GetKernelArguments(desc)
	params := make([]string, 0, len(args))
	for _, karg := range args {
		constStr := ""
		if karg.IsConst {
			constStr = "const "
		}
		params = append(params, fmt.Sprintf("%s%s %s", constStr, karg.Type, karg.Name))
	}
	return strings.Join(params, ",\n\t")
}

// buildKernelArguments binds descriptor scalars and session buffers in
// GetKernelArguments order
func buildKernelArguments(desc *KernelDescriptor, buffers []Buffer) ([]Arg, error) {
	if len(buffers) != len(desc.BufferShapes) {
		return nil, fmt.Errorf("kernel %s expects %d buffers, session holds %d",
			desc.EntryName, len(desc.BufferShapes), len(buffers))
	}

	kernelArgs := GetKernelArguments(desc)
	args := make([]Arg, 0, len(kernelArgs))
	for _, karg := range kernelArgs {
		switch karg.Category {
		case "scalar":
			args = append(args, Arg{Name: karg.Name, Scalar: desc.ScalarArgs[karg.Index]})
		case "buffer":
			args = append(args, Arg{Name: karg.Name, Buffer: buffers[karg.Index]})
		}
	}
	return args, nil
}

func scalarName(desc *KernelDescriptor, i int) string {
	if i < len(desc.ScalarNames) && desc.ScalarNames[i] != "" {
		return desc.ScalarNames[i]
	}
	return fmt.Sprintf("arg%d", i)
}
