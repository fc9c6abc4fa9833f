package maze

import "math/rand"

const (
	// DefaultExclusionDistance keeps mutations this many cells (Chebyshev) away from the player and the exit.
	DefaultExclusionDistance = 2

	maxMutationsPerPass = 10
)

// MutateOptions tunes a single mutation pass.
type MutateOptions struct {
	// ExclusionDistance is the Chebyshev radius around the player and the exit
	// that no flip touches. Zero or less means DefaultExclusionDistance.
	ExclusionDistance int
}

// MutationReport describes what a mutation pass did.
type MutationReport struct {
	Selected int            // cells drawn
	Changed  []CellPosition // cells whose wall was flipped, in order
	Reverted int            // closing flips undone because they cut the exit off
}

// MutationBound is the number of cells drawn per pass: min(2*size, 10).
func MutationBound(m *Maze) int {
	return min(2*m.Size(), maxMutationsPerPass)
}

// Mutate flips walls of randomly drawn cells away from the player and the exit.
// Each flip is mirrored on the neighbour. Drawn cells that sit inside the
// exclusion zone are skipped, not redrawn. A flip that closes a wall and leaves
// the exit unreachable from the player is reverted.
func Mutate(m *Maze, player CellPosition, opts MutateOptions, rng *rand.Rand) MutationReport {
	exclusion := opts.ExclusionDistance
	if exclusion <= 0 {
		exclusion = DefaultExclusionDistance
	}

	excluded := func(pos CellPosition) bool {
		return pos.Chebyshev(player) <= exclusion || pos.Chebyshev(m.Exit) <= exclusion
	}

	report := MutationReport{Selected: MutationBound(m)}
	for i := 0; i < report.Selected; i++ {
		pos := m.randomCellPosition(rng)
		if excluded(pos) {
			continue
		}

		candidates := make([]Move, 0, 4)
		for _, move := range m.neighbors(pos) {
			if !excluded(move.To) {
				candidates = append(candidates, move)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		move := candidates[rng.Intn(len(candidates))]
		closing := !m.Grid[pos.Row][pos.Col].HasWall(move.Direction)
		m.setWall(pos, move.Direction, closing)

		if closing && !m.Reachable(player, m.Exit) {
			m.setWall(pos, move.Direction, false)
			report.Reverted++
			continue
		}
		report.Changed = append(report.Changed, pos)
	}

	return report
}
