package maze

import (
	"errors"
	"strings"
)

// Direction names one of the four sides of a cell.
type Direction string

const (
	North Direction = "North"
	East  Direction = "East"
	South Direction = "South"
	West  Direction = "West"
)

var (
	// Directions maps each direction to its row/column delta.
	Directions = map[Direction]CellPosition{
		North: {Row: -1, Col: 0},
		South: {Row: 1, Col: 0},
		East:  {Row: 0, Col: 1},
		West:  {Row: 0, Col: -1},
	}

	// directionOrder fixes iteration order so seeded generation is reproducible.
	directionOrder = [4]Direction{North, East, South, West}

	ErrUnknownDirection = errors.New("unknown direction")
)

// Opposite returns the direction facing d.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// ParseDirection accepts compass names as well as up/down/left/right and top/bottom.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "north", "up", "top":
		return North, nil
	case "south", "down", "bottom":
		return South, nil
	case "east", "right":
		return East, nil
	case "west", "left":
		return West, nil
	}
	return "", ErrUnknownDirection
}

// CellPosition represents the position of a cell in the maze grid.
type CellPosition struct {
	Row int `json:"row"` // Row index of the cell (y)
	Col int `json:"col"` // Column index of the cell (x)
}

// Step returns the position one cell away in direction d.
func (p CellPosition) Step(d Direction) CellPosition {
	delta := Directions[d]
	return CellPosition{Row: p.Row + delta.Row, Col: p.Col + delta.Col}
}

// Chebyshev returns the king-move distance between two positions.
func (p CellPosition) Chebyshev(o CellPosition) int {
	return max(abs(p.Row-o.Row), abs(p.Col-o.Col))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Move represents a movement from one cell to an adjacent one.
type Move struct {
	From      CellPosition // Starting cell
	To        CellPosition // Destination cell
	Direction Direction    // Direction of the move
}

// Marker is the gameplay role a cell plays, if any.
type Marker int

const (
	MarkerNone Marker = iota
	MarkerEntry
	MarkerExit
	MarkerItem
	MarkerTrap
	MarkerTransformer
)

func (m Marker) String() string {
	switch m {
	case MarkerEntry:
		return "entry"
	case MarkerExit:
		return "exit"
	case MarkerItem:
		return "item"
	case MarkerTrap:
		return "trap"
	case MarkerTransformer:
		return "transformer"
	default:
		return ""
	}
}

// Cell represents a single cell in a maze grid.
// A wall flag set to true blocks movement through that side.
type Cell struct {
	Row int
	Col int

	NorthWall bool
	EastWall  bool
	SouthWall bool
	WestWall  bool

	Entry       bool
	Exit        bool
	Item        Effect // nil when the cell holds no item
	Trap        bool
	Transformer bool

	visited bool // generation only
}

// Position returns the cell's grid position.
func (c *Cell) Position() CellPosition {
	return CellPosition{Row: c.Row, Col: c.Col}
}

// HasWall reports whether the side facing d is blocked.
func (c *Cell) HasWall(d Direction) bool {
	switch d {
	case North:
		return c.NorthWall
	case East:
		return c.EastWall
	case South:
		return c.SouthWall
	case West:
		return c.WestWall
	}
	return true
}

func (c *Cell) setWall(d Direction, wall bool) {
	switch d {
	case North:
		c.NorthWall = wall
	case East:
		c.EastWall = wall
	case South:
		c.SouthWall = wall
	case West:
		c.WestWall = wall
	}
}

// Marker returns the single gameplay marker carried by the cell.
func (c *Cell) Marker() Marker {
	switch {
	case c.Entry:
		return MarkerEntry
	case c.Exit:
		return MarkerExit
	case c.Item != nil:
		return MarkerItem
	case c.Trap:
		return MarkerTrap
	case c.Transformer:
		return MarkerTransformer
	}
	return MarkerNone
}

// markerCount counts how many markers are set; annotated grids never exceed one.
func (c *Cell) markerCount() int {
	n := 0
	for _, set := range []bool{c.Entry, c.Exit, c.Item != nil, c.Trap, c.Transformer} {
		if set {
			n++
		}
	}
	return n
}
