package i

import (
	"context"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/google/uuid"
)

// GameSessionManager owns the single active level run of each player.
type GameSessionManager interface {
	// StartLevel replaces the player's session with a fresh run of level.
	// On failure the previous session keeps running.
	StartLevel(ctx context.Context, playerID uuid.UUID, level int) (game.Snapshot, error)
	Restart(ctx context.Context, playerID uuid.UUID) (game.Snapshot, error)
	Move(playerID uuid.UUID, dir maze.Direction) (game.MoveResult, error)
	Pause(playerID uuid.UUID) (game.Snapshot, error)
	Resume(playerID uuid.UUID) (game.Snapshot, error)
	Snapshot(playerID uuid.UUID) (game.Snapshot, error)
}

// ProgressStore persists each player's unlocked levels, best times and achievements.
type ProgressStore interface {
	Load(ctx context.Context, playerID uuid.UUID) (*game.Progress, error)
	UnlockLevel(ctx context.Context, playerID uuid.UUID, level int) (*game.Progress, error)
	UpdateBestTime(ctx context.Context, playerID uuid.UUID, level int, seconds float64) (*game.Progress, error)
	Record(ctx context.Context, playerID uuid.UUID, result game.Result) (*game.Progress, []game.Achievement, error)
}
