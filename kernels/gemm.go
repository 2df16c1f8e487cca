package kernels

import (
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

// GemmEntry is the entry point of gemm.okl
const GemmEntry = "fast_gemm"

// GemmDimensions is the GEMM checklist, in the order Build checks it
var GemmDimensions = []string{
	"MWG", "NWG", "KWG",
	"MDIMC", "NDIMC", "MDIMA", "NDIMB",
	"KWI", "VWM", "VWN",
	"STRM", "STRN",
	"SA", "SB", "PRECISION",
}

// GemmConstraints returns the tile constraints of the GEMM kernel
func GemmConstraints() []builder.Constraint {
	return []builder.Constraint{
		builder.DivisibleBy("KWG", "KWI"),
		builder.DivisibleByProduct("MWG", "MDIMC", "VWM"),
		builder.DivisibleByProduct("NWG", "NDIMC", "VWN"),
		builder.DivisibleByProduct("MWG", "MDIMA", "VWM"),
		builder.DivisibleByProduct("NWG", "NDIMB", "VWN"),
		builder.DivisibleByProductOverDivisor("KWG", "MDIMC", "NDIMC", "MDIMA"),
		builder.DivisibleByProductOverDivisor("KWG", "MDIMC", "NDIMC", "NDIMB"),
	}
}

// GemmWorkSize scales the (M, N) base geometry to one work group of
// MDIMC x NDIMC items per MWG x NWG tile of C
func GemmWorkSize() builder.WorkSizeRule {
	return builder.WorkSizeRule{
		MulGlobal: []string{"MDIMC", "NDIMC"},
		MulLocal:  []string{"MDIMC", "NDIMC"},
		DivGlobal: []string{"MWG", "NWG"},
	}
}

// NewGemmBuilder returns an empty GEMM grid builder
func NewGemmBuilder() *builder.GridBuilder {
	return builder.NewGridBuilder("GEMM", GemmDimensions...).
		Restrict("PRECISION", 32, 64).
		Constrain(GemmConstraints()...).
		WorkSize(GemmWorkSize())
}

// DefaultGemmBuilder returns a GEMM grid builder holding a single legal
// configuration; Set calls replace individual dimensions
func DefaultGemmBuilder() *builder.GridBuilder {
	return NewGemmBuilder().
		Set("MWG", 64).
		Set("NWG", 64).
		Set("KWG", 8).
		Set("MDIMC", 8).
		Set("NDIMC", 8).
		Set("MDIMA", 8).
		Set("NDIMB", 8).
		Set("KWI", 8).
		Set("VWM", 1).
		Set("VWN", 1).
		SetBool("STRM", true).
		SetBool("STRN", true).
		SetBool("SA", true).
		SetBool("SB", true).
		Set("PRECISION", 32)
}

// GemmDescriptor describes C = A * B for A (m x k) and B (k x n)
func GemmDescriptor(m, n, k int) (*runner.KernelDescriptor, error) {
	if err := (Sizes{M: m, N: n, K: k}).check("M", "N", "K"); err != nil {
		return nil, err
	}
	src, err := Source("gemm.okl")
	if err != nil {
		return nil, err
	}
	return &runner.KernelDescriptor{
		ScalarNames: []string{"M", "N", "K"},
		ScalarArgs:  []int{m, n, k},
		BufferShapes: []runner.Shape{
			{Name: "A", Rows: m, Cols: k},
			{Name: "B", Rows: k, Cols: n},
			{Name: "C", Rows: m, Cols: n, Output: true},
		},
		Source:             src,
		EntryName:          GemmEntry,
		BaseGlobal:         builder.Extent{m, n},
		BaseLocal:          builder.Extent{1, 1},
		PrecisionDimension: "PRECISION",
	}, nil
}
