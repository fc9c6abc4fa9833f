package maze

import (
	"fmt"
	"math/rand"
	"strings"
)

// Algorithm selects the carving strategy used by Generate.
type Algorithm string

const (
	// AlgorithmBacktracker is the recursive depth-first carve.
	AlgorithmBacktracker Algorithm = "backtracker"
	// AlgorithmPrim grows from a random frontier. Params.Randomness below 1
	// sometimes takes the newest frontier entry instead, giving a growing-tree
	// carve with longer corridors. LevelParams starts at 0.72 and reaches 1 by
	// level 15.
	AlgorithmPrim Algorithm = "prim"
	// AlgorithmWilson carves with loop-erased random walks.
	AlgorithmWilson Algorithm = "wilson"
)

// ParseAlgorithm maps a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case AlgorithmBacktracker, AlgorithmPrim, AlgorithmWilson:
		return a, nil
	case "":
		return AlgorithmPrim, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Params are generation hints. Only Algorithm and Randomness shape the carve;
// the rest are reported alongside the maze and never enforced.
type Params struct {
	Algorithm     Algorithm
	Randomness    float64 // prim: probability of taking a random frontier entry over the newest one
	Complexity    float64
	MinPathLength int
	DeadEnds      int
}

// LevelParams derives the generation hints for a level.
func LevelParams(level, width, height int, alg Algorithm) Params {
	l := float64(max(level, 1))
	return Params{
		Algorithm:     alg,
		Randomness:    min(0.7+l*0.02, 1),
		Complexity:    0.75 + l*0.05,
		MinPathLength: int(float64(width+height) * (1.5 + l*0.1)),
		DeadEnds:      int(float64(width*height) / max(3-l*0.1, 1)),
	}
}

// Generate carves a perfect maze of the given dimensions. Every cell is
// reachable from every other one through exactly one simple path.
func Generate(width, height int, p Params, rng *rand.Rand) (*Maze, error) {
	m, err := newBlank(width, height)
	if err != nil {
		return nil, err
	}

	switch p.Algorithm {
	case AlgorithmBacktracker:
		m.carveBacktrack(CellPosition{}, rng)
	case AlgorithmPrim, "":
		randomness := p.Randomness
		if randomness <= 0 && p.Algorithm == "" {
			randomness = 1
		}
		m.carvePrim(randomness, rng)
	case AlgorithmWilson:
		m.carveWilson(rng)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, p.Algorithm)
	}

	for _, row := range m.Grid {
		for _, cell := range row {
			cell.visited = false
		}
	}
	return m, nil
}

// shuffledDirections returns a uniform permutation of the four directions (Fisher–Yates).
func shuffledDirections(rng *rand.Rand) [4]Direction {
	dirs := directionOrder
	for i := len(dirs) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}

// carveBacktrack is the recursive backtracker: every carve connects a new cell
// to the visited tree, so no cycle is ever formed.
func (m *Maze) carveBacktrack(pos CellPosition, rng *rand.Rand) {
	m.Grid[pos.Row][pos.Col].visited = true
	for _, dir := range shuffledDirections(rng) {
		next := pos.Step(dir)
		if m.InBound(next) && !m.Grid[next.Row][next.Col].visited {
			m.openWall(Move{From: pos, To: next, Direction: dir})
			m.carveBacktrack(next, rng)
		}
	}
}

// frontier lists the in-bound walls of pos as candidate carves.
func (m *Maze) frontier(pos CellPosition) []Move {
	return m.neighbors(pos)
}

// carvePrim grows the maze from a random seed cell by repeatedly picking a
// frontier wall. The processed entry is always dropped.
func (m *Maze) carvePrim(randomness float64, rng *rand.Rand) {
	start := m.randomCellPosition(rng)
	m.Grid[start.Row][start.Col].visited = true
	walls := m.frontier(start)

	for len(walls) > 0 {
		idx := len(walls) - 1
		if rng.Float64() < randomness {
			idx = rng.Intn(len(walls))
		}
		move := walls[idx]
		walls = append(walls[:idx], walls[idx+1:]...)

		next := m.Grid[move.To.Row][move.To.Col]
		if next.visited {
			continue
		}
		m.openWall(move)
		next.visited = true
		walls = append(walls, m.frontier(move.To)...)
	}
}

// randomCellPosition generates a random position within the maze.
func (m *Maze) randomCellPosition(rng *rand.Rand) CellPosition {
	return CellPosition{Row: rng.Intn(m.Height), Col: rng.Intn(m.Width)}
}

// randomUnvisitedCellPosition selects a random position that has not been visited.
func (m *Maze) randomUnvisitedCellPosition(rng *rand.Rand) CellPosition {
	for {
		pos := m.randomCellPosition(rng)
		if !m.Grid[pos.Row][pos.Col].visited {
			return pos
		}
	}
}

// randomWalk walks from an unvisited cell until it hits the visited tree and
// returns the last exit taken from each cell it passed through. Following the
// last exits erases the loops of the walk.
func (m *Maze) randomWalk(rng *rand.Rand) map[CellPosition]Move {
	cell := m.randomUnvisitedCellPosition(rng)
	visits := make(map[CellPosition]Move)

	for {
		neighbors := m.neighbors(cell)
		randomNeighbor := neighbors[rng.Intn(len(neighbors))]
		visits[cell] = randomNeighbor
		if m.Grid[randomNeighbor.To.Row][randomNeighbor.To.Col].visited {
			break
		}
		cell = randomNeighbor.To
	}

	return visits
}

// carveWilson adds loop-erased random walks to the tree until every cell is in it.
func (m *Maze) carveWilson(rng *rand.Rand) {
	start := m.randomCellPosition(rng)
	m.Grid[start.Row][start.Col].visited = true
	remaining := m.Width*m.Height - 1

	for remaining > 0 {
		for cell, move := range m.randomWalk(rng) {
			m.openWall(move)
			m.Grid[cell.Row][cell.Col].visited = true
			remaining--
		}
	}
}
