package game

import "github.com/beka-birhanu/vinom-maze/game/maze"

// Renderer is the presentation collaborator a session draws through.
// Coordinates of wall segments are grid-lattice corners: cell (row, col)
// spans x in [col, col+1] and y in [row, row+1].
type Renderer interface {
	DrawWallSegment(x1, y1, x2, y2 int)
	DrawCellMarker(cell *maze.Cell, kind maze.Marker)
	DrawPlayer(x, y int)
	ShowTransientMessage(text string, durationMs int)
	RevealFullMap(reveal bool)
}

// NopRenderer discards every call.
type NopRenderer struct{}

func (NopRenderer) DrawWallSegment(int, int, int, int)     {}
func (NopRenderer) DrawCellMarker(*maze.Cell, maze.Marker) {}
func (NopRenderer) DrawPlayer(int, int)                    {}
func (NopRenderer) ShowTransientMessage(string, int)       {}
func (NopRenderer) RevealFullMap(bool)                     {}

// Draw sends the visible part of m to r. Each wall segment is drawn once:
// north and west sides for every cell, plus the east and south borders.
func Draw(m *maze.Maze, visible func(maze.CellPosition) bool, r Renderer) {
	for row := 0; row < m.Height; row++ {
		for col := 0; col < m.Width; col++ {
			cell := m.Grid[row][col]
			if !visible(cell.Position()) {
				continue
			}
			if cell.NorthWall {
				r.DrawWallSegment(col, row, col+1, row)
			}
			if cell.WestWall {
				r.DrawWallSegment(col, row, col, row+1)
			}
			if col == m.Width-1 && cell.EastWall {
				r.DrawWallSegment(col+1, row, col+1, row+1)
			}
			if row == m.Height-1 && cell.SouthWall {
				r.DrawWallSegment(col, row+1, col+1, row+1)
			}
			if kind := cell.Marker(); kind != maze.MarkerNone {
				r.DrawCellMarker(cell, kind)
			}
		}
	}
}
