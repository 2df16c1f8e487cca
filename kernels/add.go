package kernels

import (
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

// AddEntry is the entry point of add.okl
const AddEntry = "add"

// AddDimensions is the elementwise add checklist
var AddDimensions = []string{"VALUE1", "VALUE2"}

// NewAddBuilder returns an empty add grid builder. VALUE1 rows form a work
// group, every work item covers VALUE2 columns.
func NewAddBuilder() *builder.GridBuilder {
	return builder.NewGridBuilder("Add", AddDimensions...).
		Constrain(builder.DivisibleBy("VALUE2", "VALUE1")).
		WorkSize(builder.WorkSizeRule{
			MulLocal:  []string{"VALUE1", ""},
			DivGlobal: []string{"", "VALUE2"},
		})
}

// DefaultAddBuilder returns an add grid builder with one configuration
func DefaultAddBuilder() *builder.GridBuilder {
	return NewAddBuilder().Set("VALUE1", 2).Set("VALUE2", 2)
}

// AddDescriptor describes C = A + B over m x n matrices
func AddDescriptor(m, n int) (*runner.KernelDescriptor, error) {
	if err := (Sizes{M: m, N: n}).check("M", "N"); err != nil {
		return nil, err
	}
	src, err := Source("add.okl")
	if err != nil {
		return nil, err
	}
	return &runner.KernelDescriptor{
		ScalarNames: []string{"M", "N"},
		ScalarArgs:  []int{m, n},
		BufferShapes: []runner.Shape{
			{Name: "A", Rows: m, Cols: n},
			{Name: "B", Rows: m, Cols: n},
			{Name: "C", Rows: m, Cols: n, Output: true},
		},
		Source:     src,
		EntryName:  AddEntry,
		BaseGlobal: builder.Extent{m, n},
		BaseLocal:  builder.Extent{1, 1},
		DataType:   builder.Float32,
	}, nil
}
