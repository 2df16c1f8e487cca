package builder

import (
	"fmt"
	"strings"
)

// Geometry define names injected next to the configuration values
const (
	DefineDims   = "KTUNE_DIMS"
	globalPrefix = "KTUNE_GLOBAL_"
	localPrefix  = "KTUNE_LOCAL_"
)

// GeneratePreamble generates the type definitions prepended to every kernel
// source for a given floating point precision
func GeneratePreamble(floatType DataType) string {
	var sb strings.Builder

	floatTypeStr := "double"
	floatSuffix := ""
	if floatType == Float32 {
		floatTypeStr = "float"
		floatSuffix = "f"
	}

	sb.WriteString(fmt.Sprintf("typedef %s real_t;\n", floatTypeStr))
	sb.WriteString("typedef int int_t;\n")
	sb.WriteString(fmt.Sprintf("#define REAL_ZERO 0.0%s\n", floatSuffix))
	sb.WriteString(fmt.Sprintf("#define REAL_ONE 1.0%s\n", floatSuffix))
	sb.WriteString("\n")

	return sb.String()
}

// GeometryDefines returns the compile-time constants describing a geometry:
// KTUNE_DIMS, KTUNE_GLOBAL_<i> and KTUNE_LOCAL_<i>
func GeometryDefines(g Geometry) map[string]int {
	defs := make(map[string]int, 1+2*len(g.Global))
	defs[DefineDims] = len(g.Global)
	for i, v := range g.Global {
		defs[fmt.Sprintf("%s%d", globalPrefix, i)] = v
	}
	for i, v := range g.Local {
		defs[fmt.Sprintf("%s%d", localPrefix, i)] = v
	}
	return defs
}
