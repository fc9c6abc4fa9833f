package maze

import (
	"fmt"
	"math/rand"
)

// ExitPolicy decides where the entry and exit openings go.
type ExitPolicy string

const (
	// ExitOppositeSides picks a random boundary side for the entry and puts the exit on the opposite one.
	ExitOppositeSides ExitPolicy = "opposite"
	// ExitCorner puts the entry top-left and the exit bottom-right.
	ExitCorner ExitPolicy = "corner"
)

const (
	defaultItemDensity = 0.1
	defaultTrapDensity = 0.05

	minPlacementAttempts = 64
)

// Placement configures the annotator.
type Placement struct {
	Exit        ExitPolicy
	ItemDensity float64  // items per cell, floor(W*H*ItemDensity) items are placed
	TrapDensity float64  // traps per cell
	Effects     []Effect // item effect pool, drawn uniformly
}

// DefaultPlacement mirrors the classic layout: one item per ten cells, one trap per twenty.
func DefaultPlacement() Placement {
	return Placement{
		Exit:        ExitOppositeSides,
		ItemDensity: defaultItemDensity,
		TrapDensity: defaultTrapDensity,
		Effects:     DefaultEffects(),
	}
}

// Annotate places the entry, exit, items, traps and the single maze transformer.
// Every marker goes on a distinct cell.
func Annotate(m *Maze, p Placement, rng *rand.Rand) error {
	if p.ItemDensity < 0 || p.ItemDensity > 1 || p.TrapDensity < 0 || p.TrapDensity > 1 {
		return ErrInvalidPlacement
	}
	if len(p.Effects) == 0 {
		p.Effects = DefaultEffects()
	}

	if err := m.placeEntryAndExit(p.Exit, rng); err != nil {
		return err
	}

	cells := m.Width * m.Height
	itemCount := int(float64(cells) * p.ItemDensity)
	trapCount := int(float64(cells) * p.TrapDensity)

	for i := 0; i < itemCount; i++ {
		cell, err := m.sampleFreeCell(rng)
		if err != nil {
			return fmt.Errorf("placing item %d of %d: %w", i+1, itemCount, err)
		}
		cell.Item = p.Effects[rng.Intn(len(p.Effects))]
	}

	for i := 0; i < trapCount; i++ {
		cell, err := m.sampleFreeCell(rng)
		if err != nil {
			return fmt.Errorf("placing trap %d of %d: %w", i+1, trapCount, err)
		}
		cell.Trap = true
	}

	cell, err := m.sampleFreeCell(rng)
	if err != nil {
		return fmt.Errorf("placing transformer: %w", err)
	}
	cell.Transformer = true
	return nil
}

// placementAttempts bounds rejection sampling for a single marker.
func (m *Maze) placementAttempts() int {
	return max(m.Width*m.Height*16, minPlacementAttempts)
}

// sampleFreeCell picks uniformly random cells until one carries no marker.
func (m *Maze) sampleFreeCell(rng *rand.Rand) (*Cell, error) {
	for attempt := 0; attempt < m.placementAttempts(); attempt++ {
		pos := m.randomCellPosition(rng)
		if cell := m.Grid[pos.Row][pos.Col]; cell.Marker() == MarkerNone {
			return cell, nil
		}
	}
	return nil, ErrPlacementExhausted
}

func (m *Maze) placeEntryAndExit(policy ExitPolicy, rng *rand.Rand) error {
	var entry, exit CellPosition
	var entrySide, exitSide Direction

	switch policy {
	case ExitCorner:
		entry, entrySide = CellPosition{}, West
		exit, exitSide = CellPosition{Row: m.Height - 1, Col: m.Width - 1}, East
	case ExitOppositeSides, "":
		placed := false
		for attempt := 0; attempt < m.placementAttempts(); attempt++ {
			entrySide = directionOrder[rng.Intn(len(directionOrder))]
			exitSide = entrySide.Opposite()
			entry = m.randomBoundaryCell(entrySide, rng)
			exit = m.randomBoundaryCell(exitSide, rng)
			if entry != exit {
				placed = true
				break
			}
		}
		if !placed {
			return fmt.Errorf("placing entry and exit: %w", ErrPlacementExhausted)
		}
	default:
		return fmt.Errorf("unknown exit policy %q", policy)
	}

	// The outward side is the only wall that is not mirrored: it opens onto the outside.
	m.Grid[entry.Row][entry.Col].setWall(entrySide, false)
	m.Grid[entry.Row][entry.Col].Entry = true
	m.Grid[exit.Row][exit.Col].setWall(exitSide, false)
	m.Grid[exit.Row][exit.Col].Exit = true
	m.Entry, m.Exit = entry, exit
	return nil
}

// randomBoundaryCell picks a random cell along the given side of the grid.
func (m *Maze) randomBoundaryCell(side Direction, rng *rand.Rand) CellPosition {
	switch side {
	case North:
		return CellPosition{Row: 0, Col: rng.Intn(m.Width)}
	case South:
		return CellPosition{Row: m.Height - 1, Col: rng.Intn(m.Width)}
	case East:
		return CellPosition{Row: rng.Intn(m.Height), Col: m.Width - 1}
	default:
		return CellPosition{Row: rng.Intn(m.Height), Col: 0}
	}
}
