package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratePreamble(t *testing.T) {
	single := GeneratePreamble(Float32)
	assert.True(t, strings.HasPrefix(single, "typedef float real_t;\n"))
	assert.Contains(t, single, "typedef int int_t;")
	assert.Contains(t, single, "#define REAL_ZERO 0.0f")
	assert.Contains(t, single, "#define REAL_ONE 1.0f")

	double := GeneratePreamble(Float64)
	assert.True(t, strings.HasPrefix(double, "typedef double real_t;\n"))
	assert.Contains(t, double, "#define REAL_ONE 1.0\n")
}

func TestGeometryDefines(t *testing.T) {
	defs := GeometryDefines(Geometry{Global: Extent{256, 128}, Local: Extent{16, 8}})
	assert.Equal(t, map[string]int{
		"KTUNE_DIMS":     2,
		"KTUNE_GLOBAL_0": 256,
		"KTUNE_GLOBAL_1": 128,
		"KTUNE_LOCAL_0":  16,
		"KTUNE_LOCAL_1":  8,
	}, defs)
}
