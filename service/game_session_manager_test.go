package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type managerFixture struct {
	mgr      *GameSessionManager
	sched    *game.ManualScheduler
	progress *ProgressStore
	logger   *testLogger
}

func newManager(t *testing.T, tweak func(*Config)) *managerFixture {
	t.Helper()
	progress, logger := newProgressStore(t)
	sched := game.NewManualScheduler(epoch)
	seed := int64(0)
	placement := maze.Placement{Exit: maze.ExitCorner}
	cfg := Config{
		Progress:  progress,
		Logger:    logger,
		Scheduler: sched,
		Placement: &placement,
		NewRand: func() *rand.Rand {
			seed++
			return rand.New(rand.NewSource(seed))
		},
	}
	if tweak != nil {
		tweak(&cfg)
	}
	mgr, err := NewGameSessionManager(cfg)
	require.NoError(t, err)
	t.Cleanup(mgr.StopAll)
	return &managerFixture{mgr: mgr, sched: sched, progress: progress, logger: logger}
}

// nextStep returns the first move of a shortest path from pos to target.
func nextStep(m *maze.Maze, pos, target maze.CellPosition) maze.Direction {
	dist := map[maze.CellPosition]int{target: 0}
	queue := []maze.CellPosition{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for dir := range maze.Directions {
			if !m.CanMove(cur, dir) {
				continue
			}
			next := cur.Step(dir)
			if _, seen := dist[next]; !seen {
				dist[next] = dist[cur] + 1
				queue = append(queue, next)
			}
		}
	}
	for dir := range maze.Directions {
		if m.CanMove(pos, dir) {
			if d, ok := dist[pos.Step(dir)]; ok && d < dist[pos] {
				return dir
			}
		}
	}
	panic("no path to target")
}

// walkToExit plays the player's current session until it ends.
func walkToExit(t *testing.T, mgr *GameSessionManager, playerID uuid.UUID) game.MoveResult {
	t.Helper()
	s, err := mgr.Session(playerID)
	require.NoError(t, err)
	var res game.MoveResult
	for step := 0; step < 10000 && s.Status() == game.StatusPlaying; step++ {
		m := s.Maze()
		res, err = mgr.Move(playerID, nextStep(m, s.Player(), m.Exit))
		require.NoError(t, err)
	}
	return res
}

func TestStartLevelOne(t *testing.T) {
	f := newManager(t, nil)
	id := uuid.New()

	snap, err := f.mgr.StartLevel(context.Background(), id, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, game.StatusPlaying, snap.Status)
	assert.Equal(t, 15, snap.Width)
	assert.Equal(t, 300.0, snap.RemainingSeconds)
	assert.Equal(t, 1, f.logger.count("INFO", "started level 1"))
}

func TestStartLockedLevel(t *testing.T) {
	f := newManager(t, nil)

	_, err := f.mgr.StartLevel(context.Background(), uuid.New(), 2)
	assert.ErrorIs(t, err, ErrLevelLocked)

	_, err = f.mgr.StartLevel(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestNoSession(t *testing.T) {
	f := newManager(t, nil)
	id := uuid.New()

	_, err := f.mgr.Snapshot(id)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.mgr.Move(id, maze.North)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.mgr.Restart(context.Background(), id)
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.mgr.Pause(id)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestWinRecordsProgress(t *testing.T) {
	f := newManager(t, nil)
	ctx := context.Background()
	id := uuid.New()

	_, err := f.mgr.StartLevel(ctx, id, 1)
	require.NoError(t, err)
	f.sched.Advance(5 * time.Second)

	res := walkToExit(t, f.mgr, id)
	assert.Equal(t, game.StatusWin, res.Status)

	p, err := f.progress.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, p.UnlockedLevels)
	assert.InDelta(t, 5.0, p.BestTimes[1], 1e-9)
	assert.Contains(t, p.Achievements, game.FirstWin)

	// without auto-advance the finished session stays current
	f.sched.Advance(5 * time.Second)
	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, game.StatusWin, snap.Status)

	snap, err = f.mgr.StartLevel(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 16, snap.Width)
}

func TestAutoAdvance(t *testing.T) {
	f := newManager(t, func(c *Config) { c.AutoAdvance = true })
	ctx := context.Background()
	id := uuid.New()

	_, err := f.mgr.StartLevel(ctx, id, 1)
	require.NoError(t, err)
	walkToExit(t, f.mgr, id)

	f.sched.Advance(time.Second)
	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Level)

	f.sched.Advance(time.Second)
	snap, err = f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Level)
	assert.Equal(t, game.StatusPlaying, snap.Status)
}

func TestRestartCancelsAutoAdvance(t *testing.T) {
	f := newManager(t, func(c *Config) { c.AutoAdvance = true })
	ctx := context.Background()
	id := uuid.New()

	_, err := f.mgr.StartLevel(ctx, id, 1)
	require.NoError(t, err)
	walkToExit(t, f.mgr, id)

	snap, err := f.mgr.Restart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Level)

	f.sched.Advance(5 * time.Second)
	snap, err = f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Level)
	assert.Equal(t, game.StatusPlaying, snap.Status)
}

func TestLoseKeepsLevelsLocked(t *testing.T) {
	f := newManager(t, func(c *Config) { c.InitialTime = 3 * time.Second })
	ctx := context.Background()
	id := uuid.New()

	_, err := f.mgr.StartLevel(ctx, id, 1)
	require.NoError(t, err)
	f.sched.Advance(3 * time.Second)

	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, game.StatusLose, snap.Status)
	assert.Equal(t, "Time's up!", snap.Message)

	p, err := f.progress.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, p.UnlockedLevels)

	snap, err = f.mgr.Restart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.StatusPlaying, snap.Status)
}

func TestFailedStartKeepsPreviousSession(t *testing.T) {
	placement := maze.Placement{Exit: maze.ExitCorner}
	f := newManager(t, func(c *Config) { c.Placement = &placement })
	ctx := context.Background()
	id := uuid.New()

	first, err := f.mgr.StartLevel(ctx, id, 1)
	require.NoError(t, err)

	placement.ItemDensity = 1
	_, err = f.mgr.Restart(ctx, id)
	assert.ErrorIs(t, err, maze.ErrPlacementExhausted)
	assert.Equal(t, 1, f.logger.count("ERROR", "starting level 1"))

	snap, err := f.mgr.Snapshot(id)
	require.NoError(t, err)
	assert.Equal(t, first.ID, snap.ID)
	assert.Equal(t, game.StatusPlaying, snap.Status)
}

func TestReplacingSessionClosesOldOne(t *testing.T) {
	f := newManager(t, nil)
	ctx := context.Background()
	id := uuid.New()

	_, err := f.mgr.StartLevel(ctx, id, 1)
	require.NoError(t, err)
	old, err := f.mgr.Session(id)
	require.NoError(t, err)

	_, err = f.mgr.Restart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.StatusTerminated, old.Status())
	assert.Equal(t, 1, f.sched.Pending(), "only the new session ticks")
}

func TestPauseResumeThroughManager(t *testing.T) {
	f := newManager(t, nil)
	id := uuid.New()

	_, err := f.mgr.StartLevel(context.Background(), id, 1)
	require.NoError(t, err)

	snap, err := f.mgr.Pause(id)
	require.NoError(t, err)
	assert.True(t, snap.Paused)
	f.sched.Advance(10 * time.Second)

	snap, err = f.mgr.Resume(id)
	require.NoError(t, err)
	assert.False(t, snap.Paused)
	assert.Equal(t, 300.0, snap.RemainingSeconds)
}

func TestStopAll(t *testing.T) {
	f := newManager(t, nil)
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	for _, id := range ids {
		_, err := f.mgr.StartLevel(context.Background(), id, 1)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, f.sched.Pending())

	f.mgr.StopAll()
	assert.Zero(t, f.sched.Pending())
	_, err := f.mgr.Snapshot(ids[0])
	assert.ErrorIs(t, err, ErrNoSession)
}
