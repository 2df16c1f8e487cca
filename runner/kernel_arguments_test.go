package runner

import (
	"testing"

	"github.com/notargets/ktune/runner/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKernelArgumentsOrder(t *testing.T) {
	desc := &KernelDescriptor{
		ScalarNames: []string{"M", "N", "K"},
		ScalarArgs:  []int{4, 8, 16},
		BufferShapes: []Shape{
			{Name: "A", Rows: 4, Cols: 16},
			{Name: "B", Rows: 16, Cols: 8},
			{Name: "C", Rows: 4, Cols: 8, Output: true},
		},
	}

	args := GetKernelArguments(desc)
	require.Len(t, args, 6)

	want := []struct {
		name     string
		category string
		index    int
		isConst  bool
	}{
		{"M", "scalar", 0, true},
		{"N", "scalar", 1, true},
		{"K", "scalar", 2, true},
		{"A", "buffer", 0, true},
		{"B", "buffer", 1, true},
		{"C", "buffer", 2, false},
	}
	for i, w := range want {
		assert.Equal(t, w.name, args[i].Name)
		assert.Equal(t, w.category, args[i].Category)
		assert.Equal(t, w.index, args[i].Index)
		assert.Equal(t, w.isConst, args[i].IsConst, "argument %s", w.name)
	}
}

func TestGetKernelArgumentsDefaultNames(t *testing.T) {
	desc := &KernelDescriptor{
		ScalarArgs:   []int{1, 2},
		BufferShapes: []Shape{{Rows: 1, Cols: 1}},
	}
	args := GetKernelArguments(desc)
	require.Len(t, args, 3)
	assert.Equal(t, "arg0", args[0].Name)
	assert.Equal(t, "arg1", args[1].Name)
	assert.Equal(t, "buf0", args[2].Name)
}

func TestGetKernelSignature(t *testing.T) {
	desc := &KernelDescriptor{
		ScalarNames: []string{"M", "N"},
		ScalarArgs:  []int{64, 64},
		BufferShapes: []Shape{
			{Name: "A", Rows: 64, Cols: 64},
			{Name: "C", Rows: 64, Cols: 64, Output: true},
		},
	}
	assert.Equal(t,
		"const int_t M,\n\tconst int_t N,\n\tconst real_t* A,\n\treal_t* C",
		GetKernelSignature(desc))
}

func TestBuildKernelArgumentsBufferCount(t *testing.T) {
	desc := addDescriptor()
	_, err := buildKernelArguments(desc, []Buffer{&fakeBuffer{}})
	assert.Error(t, err)

	buffers := []Buffer{
		&fakeBuffer{shape: desc.BufferShapes[0], dt: builder.Float32},
		&fakeBuffer{shape: desc.BufferShapes[1], dt: builder.Float32},
		&fakeBuffer{shape: desc.BufferShapes[2], dt: builder.Float32},
	}
	args, err := buildKernelArguments(desc, buffers)
	require.NoError(t, err)
	require.Len(t, args, 5)
	assert.Same(t, buffers[2], args[4].Buffer)
}
