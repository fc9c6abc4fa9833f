package game

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/beka-birhanu/vinom-maze/game/maze"
)

// Difficulty scales the time budget of every level.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

const (
	baseMazeSize       = 15
	levelSizeIncrement = 1.5

	DefaultInitialTime = 300 * time.Second
	levelTimeBonus     = 30 * time.Second
)

// ParseDifficulty accepts easy, normal or hard; empty means normal.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Normal, Hard:
		return d, nil
	case "":
		return Normal, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Multiplier is the factor applied to the time budget.
func (d Difficulty) Multiplier() float64 {
	switch d {
	case Easy:
		return 1.2
	case Hard:
		return 0.8
	default:
		return 1
	}
}

// MazeSize is the side of the square maze for a level: 15 at level 1,
// growing by 1.5 cells per level.
func MazeSize(level int) int {
	size := baseMazeSize + int(math.Floor(float64(level-1)*levelSizeIncrement))
	return min(size, maze.MaxDimension)
}

// TimeBudget is the starting time for a level, rounded to whole seconds.
func TimeBudget(level int, initial time.Duration, d Difficulty) time.Duration {
	if initial <= 0 {
		initial = DefaultInitialTime
	}
	base := initial + time.Duration(level-1)*levelTimeBonus
	seconds := math.Round(base.Seconds() * d.Multiplier())
	return time.Duration(seconds) * time.Second
}
