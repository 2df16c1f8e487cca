package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assignment map[string]int

func (v assignment) Lookup(name string) (int, bool) {
	x, ok := v[name]
	return x, ok
}

func TestWorkSizeRuleApply(t *testing.T) {
	base := Extent{256, 256}
	local := Extent{1, 1}

	rule := &WorkSizeRule{MulGlobal: []string{"M", "N"}}
	geom, err := rule.Apply(base, local, assignment{"M": 2, "N": 4})
	require.NoError(t, err)
	assert.Equal(t, Extent{512, 1024}, geom.Global)
	assert.Equal(t, Extent{1, 1}, geom.Local)

	rule.DivGlobal = []string{"D", ""}
	geom, err = rule.Apply(base, local, assignment{"M": 2, "N": 4, "D": 2})
	require.NoError(t, err)
	assert.Equal(t, Extent{256, 1024}, geom.Global)

	// The base extents are never modified
	assert.Equal(t, Extent{256, 256}, base)
}

func TestWorkSizeRuleGemm(t *testing.T) {
	rule := &WorkSizeRule{
		MulGlobal: []string{"MDIMC", "NDIMC"},
		MulLocal:  []string{"MDIMC", "NDIMC"},
		DivGlobal: []string{"MWG", "NWG"},
	}
	geom, err := rule.Apply(Extent{1024, 512}, Extent{1, 1},
		assignment{"MDIMC": 16, "NDIMC": 8, "MWG": 64, "NWG": 32})
	require.NoError(t, err)
	assert.Equal(t, Extent{256, 128}, geom.Global)
	assert.Equal(t, Extent{16, 8}, geom.Local)
	assert.Equal(t, "global=(256, 128) local=(16, 8)", geom.String())
}

func TestWorkSizeRuleTruncates(t *testing.T) {
	rule := &WorkSizeRule{DivGlobal: []string{"D"}}
	geom, err := rule.Apply(Extent{10}, Extent{1}, assignment{"D": 4})
	require.NoError(t, err)
	assert.Equal(t, Extent{2}, geom.Global)
}

func TestWorkSizeRuleErrors(t *testing.T) {
	t.Run("LengthMismatch", func(t *testing.T) {
		rule := &WorkSizeRule{MulLocal: []string{"A"}}
		_, err := rule.Apply(Extent{8, 8}, Extent{1, 1}, assignment{"A": 2})
		assert.ErrorIs(t, err, ErrGeometryMismatch)
		assert.ErrorIs(t, rule.Validate(2), ErrGeometryMismatch)
		assert.NoError(t, rule.Validate(1))
	})

	t.Run("ZeroDivisor", func(t *testing.T) {
		rule := &WorkSizeRule{DivGlobal: []string{"D"}}
		_, err := rule.Apply(Extent{8}, Extent{1}, assignment{"D": 0})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})

	t.Run("UnknownName", func(t *testing.T) {
		rule := &WorkSizeRule{MulGlobal: []string{"X"}}
		_, err := rule.Apply(Extent{8}, Extent{1}, assignment{})
		assert.ErrorIs(t, err, ErrMissingDimension)
	})

	t.Run("BaseMismatch", func(t *testing.T) {
		var rule *WorkSizeRule
		_, err := rule.Apply(Extent{8, 8}, Extent{1}, assignment{})
		assert.ErrorIs(t, err, ErrGeometryMismatch)
	})
}

func TestNilRuleCopiesBase(t *testing.T) {
	var rule *WorkSizeRule
	base := Extent{64, 64}
	geom, err := rule.Apply(base, Extent{1, 1}, assignment{})
	require.NoError(t, err)
	geom.Global[0] = 1
	assert.Equal(t, 64, base[0])
}

func TestCheckBase(t *testing.T) {
	assert.NoError(t, CheckBase(Extent{1}, Extent{1}))
	assert.NoError(t, CheckBase(Extent{1, 2, 3}, Extent{1, 1, 1}))
	assert.ErrorIs(t, CheckBase(Extent{1, 2}, Extent{1}), ErrGeometryMismatch)
	assert.ErrorIs(t, CheckBase(Extent{}, Extent{}), ErrGeometryMismatch)
	assert.ErrorIs(t, CheckBase(Extent{1, 1, 1, 1}, Extent{1, 1, 1, 1}), ErrGeometryMismatch)
}

func TestExtent(t *testing.T) {
	e := Extent{4, 8, 2}
	assert.Equal(t, 3, e.Dims())
	assert.Equal(t, 64, e.Total())
	assert.Equal(t, "(4, 8, 2)", e.String())
}
