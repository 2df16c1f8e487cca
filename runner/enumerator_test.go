package runner

import (
	"fmt"
	"testing"

	"github.com/notargets/ktune/runner/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildGrid(t *testing.T, gb *builder.GridBuilder) *builder.Grid {
	t.Helper()
	grid, err := gb.Build()
	require.NoError(t, err)
	return grid
}

func collect(e *Enumerator) []Outcome {
	var outs []Outcome
	for {
		out, ok := e.Next()
		if !ok {
			return outs
		}
		outs = append(outs, out)
	}
}

func TestEnumeratorVisitsEveryPointOnce(t *testing.T) {
	grids := []struct {
		name   string
		values [][]int
	}{
		{"Single", [][]int{{1, 2, 3}}},
		{"TwoByThree", [][]int{{8, 16}, {8, 16, 32}}},
		{"Mixed", [][]int{{1}, {2, 3}, {4, 5, 6, 7}, {8, 9}}},
		{"Singletons", [][]int{{1}, {2}, {3}}},
	}
	for _, tc := range grids {
		t.Run(tc.name, func(t *testing.T) {
			gb := builder.NewGridBuilder("")
			want := 1
			for i, v := range tc.values {
				gb.Set(fmt.Sprintf("D%d", i), v...)
				want *= len(v)
			}
			e := NewEnumerator(buildGrid(t, gb))
			assert.Equal(t, want, e.Count())

			outs := collect(e)
			require.Len(t, outs, want)

			seen := make(map[string]bool)
			for i, out := range outs {
				assert.Equal(t, i, out.Index)
				key := fmt.Sprint(out.Config.Values())
				assert.False(t, seen[key], "configuration %s visited twice", key)
				seen[key] = true
			}

			// Exhausted enumerators stay exhausted
			_, ok := e.Next()
			assert.False(t, ok)
		})
	}
}

func TestEnumeratorOrderLastDimensionFastest(t *testing.T) {
	grid := buildGrid(t, builder.NewGridBuilder("").
		Set("A", 1, 2).
		Set("B", 10, 20, 30))

	var got [][]int
	for _, out := range collect(NewEnumerator(grid)) {
		got = append(got, out.Config.Values())
	}
	assert.Equal(t, [][]int{
		{1, 10}, {1, 20}, {1, 30},
		{2, 10}, {2, 20}, {2, 30},
	}, got)
}

func TestEnumeratorDeterministicAndResettable(t *testing.T) {
	grid := buildGrid(t, builder.NewGridBuilder("").
		Set("X", 3, 1, 2).
		Set("Y", 7, 5))

	first := collect(NewEnumerator(grid))
	second := collect(NewEnumerator(grid))
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Config.Values(), second[i].Config.Values())
	}

	e := NewEnumerator(grid)
	collect(e)
	e.Reset()
	again := collect(e)
	assert.Equal(t, len(first), len(again))
	assert.Equal(t, []int{3, 7}, again[0].Config.Values())
}

func TestEnumeratorFirstPointNeverRevisited(t *testing.T) {
	grid := buildGrid(t, builder.NewGridBuilder("").
		Set("A", 0, 1).
		Set("B", 0, 1).
		Set("C", 0, 1))

	outs := collect(NewEnumerator(grid))
	require.NotEmpty(t, outs)
	assert.Equal(t, []int{0, 0, 0}, outs[0].Config.Values())
	for _, out := range outs[1:] {
		assert.NotEqual(t, []int{0, 0, 0}, out.Config.Values())
	}
}

func TestEnumeratorEmptyGrid(t *testing.T) {
	grid := buildGrid(t, builder.NewGridBuilder(""))
	outs := collect(NewEnumerator(grid))
	require.Len(t, outs, 1)
	assert.Equal(t, 0, outs[0].Config.Len())
	assert.Equal(t, Legal, outs[0].Status)
}

func TestEnumeratorConstraints(t *testing.T) {
	t.Run("DivisibleBy", func(t *testing.T) {
		grid := buildGrid(t, builder.NewGridBuilder("").
			Set("A", 10, 12).
			Set("B", 3).
			Constrain(builder.DivisibleBy("A", "B")))

		outs := collect(NewEnumerator(grid))
		require.Len(t, outs, 2)
		assert.Equal(t, Skipped, outs[0].Status)
		assert.Equal(t, []int{10, 3}, outs[0].Config.Values())
		assert.NotNil(t, outs[0].Violated)
		assert.Equal(t, Legal, outs[1].Status)
		assert.Equal(t, []int{12, 3}, outs[1].Config.Values())
	})

	t.Run("ShortCircuit", func(t *testing.T) {
		calls := 0
		counting := builder.Func(func(v []int) bool {
			calls++
			return true
		}, "A")
		grid := buildGrid(t, builder.NewGridBuilder("").
			Set("A", 1, 2, 3, 4).
			Constrain(
				builder.Func(func(v []int) bool { return v[0]%2 == 0 }, "A"),
				counting,
			))

		outs := collect(NewEnumerator(grid))
		require.Len(t, outs, 4)
		// Only the two even values reach the second constraint
		assert.Equal(t, 2, calls)
		assert.Equal(t, Skipped, outs[0].Status)
		assert.Equal(t, Legal, outs[1].Status)
	})

	t.Run("ArgumentOrder", func(t *testing.T) {
		var got []int
		grid := buildGrid(t, builder.NewGridBuilder("").
			Set("A", 1).
			Set("B", 2).
			Set("C", 3).
			Constrain(builder.Func(func(v []int) bool {
				got = append([]int(nil), v...)
				return true
			}, "C", "A", "B")))

		collect(NewEnumerator(grid))
		assert.Equal(t, []int{3, 1, 2}, got)
	})
}

func TestConfigurationAccessors(t *testing.T) {
	grid := buildGrid(t, builder.NewGridBuilder("").
		Set("MWG", 64).
		Set("SA", 1))

	out, ok := NewEnumerator(grid).Next()
	require.True(t, ok)
	cfg := out.Config

	v, ok := cfg.Lookup("MWG")
	assert.True(t, ok)
	assert.Equal(t, 64, v)
	_, ok = cfg.Lookup("NWG")
	assert.False(t, ok)

	assert.Equal(t, "MWG=64, SA=1", cfg.String())
	assert.Equal(t, map[string]int{"MWG": 64, "SA": 1}, cfg.Defines())
	assert.Equal(t, []string{"MWG", "SA"}, cfg.Names())
}
