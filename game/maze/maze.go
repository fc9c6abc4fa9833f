/*
Package maze provides tools for creating and managing rectangular mazes.

It defines the `Maze` structure, composed of `Cell` objects that carry wall flags and gameplay
markers (entry, exit, items, traps and a maze transformer).

Mazes are carved as perfect mazes by one of several algorithms, annotated with markers, and
can later be mutated in place while keeping the exit reachable from the player.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"
)

// MaxDimension bounds either side of a generated maze.
const MaxDimension = 128

var (
	ErrInvalidDimensions  = errors.New("invalid maze dimensions")
	ErrPlacementExhausted = errors.New("no free cell left for marker")
	ErrUnknownAlgorithm   = errors.New("unknown maze algorithm")
	ErrInvalidPlacement   = errors.New("invalid placement densities")
)

// Maze represents a rectangular maze of cells addressed [row][col].
type Maze struct {
	Width  int       // Width of the maze (number of columns)
	Height int       // Height of the maze (number of rows)
	Grid   [][]*Cell // 2D grid of cells forming the maze
	Entry  CellPosition
	Exit   CellPosition
}

// newBlank allocates a maze with every wall standing.
func newBlank(width, height int) (*Maze, error) {
	if min(width, height) <= 0 || max(width, height) > MaxDimension || width*height < 2 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	grid := make([][]*Cell, height)
	for row := range grid {
		grid[row] = make([]*Cell, width)
		for col := range grid[row] {
			grid[row][col] = &Cell{
				Row:       row,
				Col:       col,
				NorthWall: true,
				EastWall:  true,
				SouthWall: true,
				WestWall:  true,
			}
		}
	}

	return &Maze{Width: width, Height: height, Grid: grid}, nil
}

// InBound reports whether pos lies inside the grid.
func (m *Maze) InBound(pos CellPosition) bool {
	return pos.Row >= 0 && pos.Row < m.Height && pos.Col >= 0 && pos.Col < m.Width
}

// Cell returns the cell at pos, or nil when pos is out of bounds.
func (m *Maze) Cell(pos CellPosition) *Cell {
	if !m.InBound(pos) {
		return nil
	}
	return m.Grid[pos.Row][pos.Col]
}

// Size is the longer side of the maze.
func (m *Maze) Size() int {
	return max(m.Width, m.Height)
}

// neighbors lists the in-bound moves out of pos in a fixed direction order.
func (m *Maze) neighbors(pos CellPosition) []Move {
	result := make([]Move, 0, 4)
	for _, dir := range directionOrder {
		next := pos.Step(dir)
		if m.InBound(next) {
			result = append(result, Move{From: pos, To: next, Direction: dir})
		}
	}
	return result
}

// setWall sets the wall on side dir of pos and mirrors it on the neighbour.
// Boundary sides have no neighbour and are set alone.
func (m *Maze) setWall(pos CellPosition, dir Direction, wall bool) {
	m.Grid[pos.Row][pos.Col].setWall(dir, wall)
	if next := pos.Step(dir); m.InBound(next) {
		m.Grid[next.Row][next.Col].setWall(dir.Opposite(), wall)
	}
}

// openWall removes the wall between the two cells of move.
func (m *Maze) openWall(move Move) {
	m.setWall(move.From, move.Direction, false)
}

// CanMove reports whether a player standing on pos can step in direction dir.
func (m *Maze) CanMove(pos CellPosition, dir Direction) bool {
	cell := m.Cell(pos)
	if cell == nil {
		return false
	}
	return !cell.HasWall(dir) && m.InBound(pos.Step(dir))
}

// Reachable runs a breadth-first search over open walls from `from` to `to`.
func (m *Maze) Reachable(from, to CellPosition) bool {
	if !m.InBound(from) || !m.InBound(to) {
		return false
	}

	seen := make([]bool, m.Width*m.Height)
	queue := []CellPosition{from}
	seen[from.Row*m.Width+from.Col] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, dir := range directionOrder {
			if !m.CanMove(cur, dir) {
				continue
			}
			next := cur.Step(dir)
			if idx := next.Row*m.Width + next.Col; !seen[idx] {
				seen[idx] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// OpenPassages counts the removed wall pairs between in-bound neighbours.
// A freshly generated perfect maze has exactly Width*Height-1.
func (m *Maze) OpenPassages() int {
	count := 0
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			cell := m.Grid[row][col]
			if col+1 < m.Width && !cell.EastWall {
				count++
			}
			if row+1 < m.Height && !cell.SouthWall {
				count++
			}
		}
	}
	return count
}

// Clone returns a deep copy of the maze.
func (m *Maze) Clone() *Maze {
	clone := &Maze{Width: m.Width, Height: m.Height, Entry: m.Entry, Exit: m.Exit}
	clone.Grid = make([][]*Cell, m.Height)
	for row := range m.Grid {
		clone.Grid[row] = make([]*Cell, m.Width)
		for col, cell := range m.Grid[row] {
			c := *cell
			clone.Grid[row][col] = &c
		}
	}
	return clone
}

// String provides a textual representation of the maze.
func (m *Maze) String() string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+")
	for col := 0; col < m.Width; col++ {
		if m.Grid[0][col].NorthWall {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for row := 0; row < m.Height; row++ {
		if m.Grid[row][0].WestWall {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for col := 0; col < m.Width; col++ {
			cell := m.Grid[row][col]
			b.WriteString(" " + markerGlyph(cell) + " ")
			if cell.EastWall {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n+")

		for col := 0; col < m.Width; col++ {
			if m.Grid[row][col].SouthWall {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

func markerGlyph(c *Cell) string {
	switch c.Marker() {
	case MarkerEntry:
		return "S"
	case MarkerExit:
		return "E"
	case MarkerItem:
		return "*"
	case MarkerTrap:
		return "^"
	case MarkerTransformer:
		return "%"
	}
	return " "
}
