package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationBound(t *testing.T) {
	small, err := newBlank(3, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, MutationBound(small))

	large, err := newBlank(20, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, MutationBound(large))
}

func TestMutateRespectsBoundAndExclusionZone(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		m := annotated(t, 15, 15, DefaultPlacement(), seed)
		player := CellPosition{Row: 7, Col: 7}
		before := m.Clone()

		report := Mutate(m, player, MutateOptions{ExclusionDistance: DefaultExclusionDistance}, rand.New(rand.NewSource(seed)))

		assert.LessOrEqual(t, len(report.Changed), MutationBound(m))
		for row := 0; row < m.Height; row++ {
			for col := 0; col < m.Width; col++ {
				pos := CellPosition{Row: row, Col: col}
				if pos.Chebyshev(player) > DefaultExclusionDistance && pos.Chebyshev(m.Exit) > DefaultExclusionDistance {
					continue
				}
				assert.Equal(t, *before.Cell(pos), *m.Cell(pos), "cell %v inside exclusion zone changed", pos)
			}
		}
		assertSymmetric(t, m)
	}
}

func TestMutateKeepsExitReachable(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		m := annotated(t, 12, 12, DefaultPlacement(), seed)
		player := m.Entry
		rng := rand.New(rand.NewSource(seed))
		for pass := 0; pass < 10; pass++ {
			Mutate(m, player, MutateOptions{ExclusionDistance: DefaultExclusionDistance}, rng)
			require.True(t, m.Reachable(player, m.Exit), "seed %d pass %d", seed, pass)
		}
	}
}

func TestMutateChangesSomething(t *testing.T) {
	m := annotated(t, 20, 20, DefaultPlacement(), 11)
	before := m.String()

	changed := 0
	rng := rand.New(rand.NewSource(11))
	for pass := 0; pass < 5; pass++ {
		changed += len(Mutate(m, m.Entry, MutateOptions{ExclusionDistance: DefaultExclusionDistance}, rng).Changed)
	}
	assert.Positive(t, changed)
	assert.NotEqual(t, before, m.String())
}

func TestMutateZeroOptionsUsesDefaultExclusion(t *testing.T) {
	for seed := int64(0); seed < 40; seed++ {
		m := annotated(t, 15, 15, DefaultPlacement(), seed)
		player := CellPosition{Row: 7, Col: 7}
		before := m.Clone()

		Mutate(m, player, MutateOptions{}, rand.New(rand.NewSource(seed)))

		for row := 0; row < m.Height; row++ {
			for col := 0; col < m.Width; col++ {
				pos := CellPosition{Row: row, Col: col}
				if pos.Chebyshev(player) <= DefaultExclusionDistance || pos.Chebyshev(m.Exit) <= DefaultExclusionDistance {
					assert.Equal(t, *before.Cell(pos), *m.Cell(pos), "cell %v inside exclusion zone changed", pos)
				}
			}
		}
	}
}
