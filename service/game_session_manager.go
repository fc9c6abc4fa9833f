package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/infrastruture/metrics"
	"github.com/beka-birhanu/vinom-maze/infrastruture/telemetry"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultAutoAdvanceDelay = 2 * time.Second

	recordTimeout = 5 * time.Second
)

var (
	ErrLevelLocked  = errors.New("level is locked")
	ErrInvalidLevel = errors.New("invalid level")
	ErrNoSession    = errors.New("no active session")
)

// Config wires a GameSessionManager.
type Config struct {
	Progress         i.ProgressStore
	Logger           i.Logger
	Scheduler        game.Scheduler // nil means a ClockScheduler
	Difficulty       game.Difficulty
	InitialTime      time.Duration
	MutationInterval time.Duration
	Algorithm        maze.Algorithm
	Placement        *maze.Placement
	AutoAdvance      bool
	AutoAdvanceDelay time.Duration
	// NewRand seeds each new session; nil seeds from the clock.
	NewRand func() *rand.Rand
	// NewRenderer gives each session its presentation; nil means none.
	NewRenderer func(playerID uuid.UUID) game.Renderer
}

// run is the active level of one player.
type run struct {
	session *game.Session
	advance game.Task
}

// GameSessionManager owns at most one running level per player and records
// every finished level in the progress store.
type GameSessionManager struct {
	cfg   Config
	sched game.Scheduler

	mu   sync.Mutex
	runs map[uuid.UUID]*run
}

var _ i.GameSessionManager = &GameSessionManager{}

func NewGameSessionManager(c Config) (*GameSessionManager, error) {
	if c.Progress == nil {
		return nil, errors.New("session manager needs a progress store")
	}
	if c.Logger == nil {
		return nil, errors.New("session manager needs a logger")
	}
	if c.AutoAdvanceDelay <= 0 {
		c.AutoAdvanceDelay = DefaultAutoAdvanceDelay
	}
	sched := c.Scheduler
	if sched == nil {
		sched = game.NewClockScheduler()
	}
	return &GameSessionManager{
		cfg:   c,
		sched: sched,
		runs:  make(map[uuid.UUID]*run),
	}, nil
}

// StartLevel generates level for the player and makes it the player's
// session. The previous session is closed only once the new one exists.
func (g *GameSessionManager) StartLevel(ctx context.Context, playerID uuid.UUID, level int) (game.Snapshot, error) {
	ctx, span := telemetry.Tracer("service").Start(ctx, "GameSessionManager.StartLevel")
	defer span.End()
	span.SetAttributes(attribute.String("player.id", playerID.String()), attribute.Int("maze.level", level))

	if level < 1 {
		return game.Snapshot{}, fmt.Errorf("%w: %d", ErrInvalidLevel, level)
	}
	progress, err := g.cfg.Progress.Load(ctx, playerID)
	if err != nil {
		span.RecordError(err)
		return game.Snapshot{}, err
	}
	if !progress.IsUnlocked(level) {
		return game.Snapshot{}, fmt.Errorf("%w: %d", ErrLevelLocked, level)
	}

	cfg := game.SessionConfig{
		Level:            level,
		Difficulty:       g.cfg.Difficulty,
		InitialTime:      g.cfg.InitialTime,
		MutationInterval: g.cfg.MutationInterval,
		Algorithm:        g.cfg.Algorithm,
		Placement:        g.cfg.Placement,
		Scheduler:        g.sched,
	}
	if g.cfg.NewRand != nil {
		cfg.Rand = g.cfg.NewRand()
	}
	if g.cfg.NewRenderer != nil {
		cfg.Renderer = g.cfg.NewRenderer(playerID)
	}

	session, err := game.NewSession(ctx, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "level generation failed")
		g.cfg.Logger.Error(fmt.Sprintf("starting level %d for player %s: %v", level, playerID, err))
		return game.Snapshot{}, err
	}
	session.SetFinishHandler(func(r game.Result) { g.finished(playerID, session, r) })
	session.SetMutationHook(func(r maze.MutationReport) { metrics.Mutation(len(r.Changed), r.Reverted) })

	g.mu.Lock()
	old := g.runs[playerID]
	g.runs[playerID] = &run{session: session}
	active := len(g.runs)
	g.mu.Unlock()

	if old != nil {
		if old.advance != nil {
			old.advance.Cancel()
		}
		old.session.Close()
	}
	if err := session.Start(); err != nil {
		return game.Snapshot{}, err
	}

	metrics.LevelStarted(level)
	metrics.SetActiveSessions(active)
	g.cfg.Logger.Info(fmt.Sprintf("started level %d for player %s", level, playerID))
	return session.Snapshot(), nil
}

// finished runs once per session, outside the session lock.
func (g *GameSessionManager) finished(playerID uuid.UUID, session *game.Session, r game.Result) {
	metrics.LevelFinished(r.Level, string(r.Status), r.Seconds)
	g.cfg.Logger.Info(fmt.Sprintf("player %s finished level %d: %s in %.1fs", playerID, r.Level, r.Status, r.Seconds))

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if _, _, err := g.cfg.Progress.Record(ctx, playerID, r); err != nil {
		g.cfg.Logger.Error(fmt.Sprintf("recording level %d for player %s: %v", r.Level, playerID, err))
	}

	if r.Status != game.StatusWin || !g.cfg.AutoAdvance {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.runs[playerID]
	if !ok || current.session != session {
		return
	}
	next := r.Level + 1
	current.advance = g.sched.After(g.cfg.AutoAdvanceDelay, func() {
		if !g.isCurrent(playerID, session) {
			return
		}
		if _, err := g.StartLevel(context.Background(), playerID, next); err != nil {
			g.cfg.Logger.Error(fmt.Sprintf("auto-advancing player %s to level %d: %v", playerID, next, err))
		}
	})
}

func (g *GameSessionManager) isCurrent(playerID uuid.UUID, session *game.Session) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	current, ok := g.runs[playerID]
	return ok && current.session == session
}

func (g *GameSessionManager) current(playerID uuid.UUID) (*game.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.runs[playerID]
	if !ok {
		return nil, ErrNoSession
	}
	return r.session, nil
}

// Restart replays the player's current level from scratch.
func (g *GameSessionManager) Restart(ctx context.Context, playerID uuid.UUID) (game.Snapshot, error) {
	s, err := g.current(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return g.StartLevel(ctx, playerID, s.Level())
}

func (g *GameSessionManager) Move(playerID uuid.UUID, dir maze.Direction) (game.MoveResult, error) {
	s, err := g.current(playerID)
	if err != nil {
		return game.MoveResult{}, err
	}
	return s.Move(dir), nil
}

func (g *GameSessionManager) Pause(playerID uuid.UUID) (game.Snapshot, error) {
	s, err := g.current(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	s.Pause()
	return s.Snapshot(), nil
}

func (g *GameSessionManager) Resume(playerID uuid.UUID) (game.Snapshot, error) {
	s, err := g.current(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	s.Resume()
	return s.Snapshot(), nil
}

func (g *GameSessionManager) Snapshot(playerID uuid.UUID) (game.Snapshot, error) {
	s, err := g.current(playerID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// Session returns the player's running session, for in-process front ends.
func (g *GameSessionManager) Session(playerID uuid.UUID) (*game.Session, error) {
	return g.current(playerID)
}

// StopAll closes every session. Used on shutdown.
func (g *GameSessionManager) StopAll() {
	g.mu.Lock()
	runs := g.runs
	g.runs = make(map[uuid.UUID]*run)
	g.mu.Unlock()

	for _, r := range runs {
		if r.advance != nil {
			r.advance.Cancel()
		}
		r.session.Close()
	}
	metrics.SetActiveSessions(0)
}
