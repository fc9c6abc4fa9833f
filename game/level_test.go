package game

import (
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMazeSize(t *testing.T) {
	assert.Equal(t, 15, MazeSize(1))
	assert.Equal(t, 16, MazeSize(2))
	assert.Equal(t, 18, MazeSize(3))
	assert.Equal(t, 30, MazeSize(11))
	assert.Equal(t, maze.MaxDimension, MazeSize(1000))
}

func TestTimeBudget(t *testing.T) {
	tests := []struct {
		level int
		d     Difficulty
		want  time.Duration
	}{
		{1, Normal, 300 * time.Second},
		{1, Easy, 360 * time.Second},
		{1, Hard, 240 * time.Second},
		{3, Normal, 360 * time.Second},
		{2, Hard, 264 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeBudget(tt.level, DefaultInitialTime, tt.d), "level %d %s", tt.level, tt.d)
	}
	assert.Equal(t, 300*time.Second, TimeBudget(1, 0, Normal))
	assert.Equal(t, 12*time.Second, TimeBudget(1, 10*time.Second, Easy))
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty(" HARD ")
	require.NoError(t, err)
	assert.Equal(t, Hard, d)

	d, err = ParseDifficulty("")
	require.NoError(t, err)
	assert.Equal(t, Normal, d)

	_, err = ParseDifficulty("nightmare")
	assert.Error(t, err)
}
