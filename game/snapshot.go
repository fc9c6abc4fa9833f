package game

import (
	"time"

	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/google/uuid"
)

// CellView is a visible cell as clients see it.
type CellView struct {
	Position  maze.CellPosition `json:"position"`
	NorthWall bool              `json:"northWall"`
	EastWall  bool              `json:"eastWall"`
	SouthWall bool              `json:"southWall"`
	WestWall  bool              `json:"westWall"`
	Marker    string            `json:"marker,omitempty"`
}

type EffectView struct {
	Kind             maze.EffectKind `json:"kind"`
	Multiplier       int             `json:"multiplier,omitempty"`
	RemainingSeconds float64         `json:"remainingSeconds"`
}

// Snapshot is a point-in-time copy of a session, limited to what the player can see.
type Snapshot struct {
	ID               uuid.UUID         `json:"id"`
	Level            int               `json:"level"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	Status           Status            `json:"status"`
	Paused           bool              `json:"paused"`
	Player           maze.CellPosition `json:"player"`
	RemainingSeconds float64           `json:"remainingSeconds"`
	ElapsedSeconds   float64           `json:"elapsedSeconds"`
	ItemsCollected   int               `json:"itemsCollected"`
	ItemsTotal       int               `json:"itemsTotal"`
	Effects          []EffectView      `json:"effects"`
	MapRevealed      bool              `json:"mapRevealed"`
	Message          string            `json:"message,omitempty"`
	Cells            []CellView        `json:"cells"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		Level:            s.level,
		Width:            s.maze.Width,
		Height:           s.maze.Height,
		Status:           s.status,
		Paused:           s.paused,
		Player:           s.player,
		RemainingSeconds: s.remaining.Seconds(),
		ElapsedSeconds:   s.elapsedLocked().Seconds(),
		ItemsCollected:   s.itemsCollected,
		ItemsTotal:       s.itemsTotal,
		Effects:          make([]EffectView, 0, len(s.effects)),
		MapRevealed:      s.revealed,
		Message:          s.message,
	}
	for _, e := range s.effects {
		snap.Effects = append(snap.Effects, EffectView{Kind: e.Kind, Multiplier: e.Multiplier, RemainingSeconds: e.Remaining.Seconds()})
	}
	for _, row := range s.maze.Grid {
		for _, cell := range row {
			if !s.visibleLocked(cell.Position()) {
				continue
			}
			snap.Cells = append(snap.Cells, CellView{
				Position:  cell.Position(),
				NorthWall: cell.NorthWall,
				EastWall:  cell.EastWall,
				SouthWall: cell.SouthWall,
				WestWall:  cell.WestWall,
				Marker:    cell.Marker().String(),
			})
		}
	}
	return snap
}

// Maze returns a copy of the current grid.
func (s *Session) Maze() *maze.Maze {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maze.Clone()
}

// Player returns the player's cell.
func (s *Session) Player() maze.CellPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Remaining returns the time left on the level budget.
func (s *Session) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Result returns the session outcome so far.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resultLocked()
}
