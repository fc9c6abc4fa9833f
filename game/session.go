package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/infrastruture/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Status is the phase a level session is in.
type Status string

const (
	StatusGenerating Status = "generating"
	StatusPlaying    Status = "playing"
	StatusWin        Status = "win"
	StatusLose       Status = "lose"
	StatusTerminated Status = "terminated"
)

const (
	TickInterval            = time.Second
	DefaultMutationInterval = 60 * time.Second
	TrapPenalty             = 10 * time.Second
	VisibilityRadius        = 3

	mutationMessage     = "Maze is changing!"
	mutationMessageTime = 2 * time.Second
	winMessage          = "Level Complete!"
	loseMessage         = "Time's up!"
	finalMessageTime    = 3 * time.Second
)

var ErrSessionStarted = errors.New("session already started")

// SessionConfig describes one level run.
type SessionConfig struct {
	ID          uuid.UUID // generated when nil
	Level       int
	Difficulty  Difficulty
	InitialTime time.Duration // level 1 budget before the difficulty multiplier
	// MutationInterval is the period of maze mutations from level 2 on.
	// Zero means DefaultMutationInterval, negative disables mutations.
	MutationInterval time.Duration
	Algorithm        maze.Algorithm
	Placement        *maze.Placement // nil means maze.DefaultPlacement
	Width, Height    int             // zero means MazeSize(Level)
	Rand             *rand.Rand      // nil means seeded from the clock
	Scheduler        Scheduler       // nil means a ClockScheduler
	Renderer         Renderer        // nil means NopRenderer
}

// ActiveEffect is a timed modifier currently in force.
type ActiveEffect struct {
	Kind       maze.EffectKind `json:"kind"`
	Multiplier int             `json:"multiplier,omitempty"`
	Remaining  time.Duration   `json:"-"`
}

// Result is what a finished session reports to its finish handler.
type Result struct {
	SessionID      uuid.UUID `json:"sessionId"`
	Level          int       `json:"level"`
	Status         Status    `json:"status"`
	Seconds        float64   `json:"seconds"`
	ItemsCollected int       `json:"itemsCollected"`
	ItemsTotal     int       `json:"itemsTotal"`
}

// MoveResult describes the outcome of a single move command.
type MoveResult struct {
	Steps    int               `json:"steps"`
	Position maze.CellPosition `json:"position"`
	Marker   string            `json:"marker,omitempty"` // marker consumed or reached
	Effect   maze.EffectKind   `json:"effect,omitempty"`
	Status   Status            `json:"status"`
}

// Moved reports whether the player changed cell.
func (r MoveResult) Moved() bool { return r.Steps > 0 }

// Session is a single level run: its maze, its player and its timers.
// All state changes happen under one mutex, so moves and timer callbacks
// never interleave.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	level    int
	maze     *maze.Maze
	rng      *rand.Rand
	sched    Scheduler
	renderer Renderer

	mutationInterval time.Duration

	status    Status
	paused    bool
	player    maze.CellPosition
	remaining time.Duration
	played    time.Duration // play time banked before the current run
	runStart  time.Time
	effects   []ActiveEffect
	revealed  bool
	message   string

	itemsCollected int
	itemsTotal     int

	tick     Task
	mutation Task
	msgTask  Task

	// Last fire of each periodic timer, and how far into its interval a
	// paused session had got.
	tickAt        time.Time
	mutationAt    time.Time
	tickPhase     time.Duration
	mutationPhase time.Duration

	onFinish   func(Result)
	onMutation func(maze.MutationReport)
}

// NewSession generates and annotates the maze for a level. No timer runs until
// Start is called, so a failed generation leaves nothing behind.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	_, span := telemetry.Tracer("game").Start(ctx, "game.NewSession")
	defer span.End()

	if cfg.Level < 1 {
		cfg.Level = 1
	}
	width, height := cfg.Width, cfg.Height
	if width == 0 && height == 0 {
		width = MazeSize(cfg.Level)
		height = width
	}
	span.SetAttributes(
		attribute.Int("maze.level", cfg.Level),
		attribute.Int("maze.width", width),
		attribute.Int("maze.height", height),
		attribute.String("maze.algorithm", string(cfg.Algorithm)),
	)

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m, err := maze.Generate(width, height, maze.LevelParams(cfg.Level, width, height, cfg.Algorithm), rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		return nil, fmt.Errorf("generating level %d: %w", cfg.Level, err)
	}

	placement := maze.DefaultPlacement()
	if cfg.Placement != nil {
		placement = *cfg.Placement
	}
	if err := maze.Annotate(m, placement, rng); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "annotation failed")
		return nil, fmt.Errorf("annotating level %d: %w", cfg.Level, err)
	}

	s := &Session{
		id:               cfg.ID,
		level:            cfg.Level,
		maze:             m,
		rng:              rng,
		sched:            cfg.Scheduler,
		renderer:         cfg.Renderer,
		mutationInterval: cfg.MutationInterval,
		status:           StatusGenerating,
		player:           m.Entry,
		remaining:        TimeBudget(cfg.Level, cfg.InitialTime, cfg.Difficulty),
	}
	if s.id == uuid.Nil {
		s.id = uuid.New()
	}
	if s.sched == nil {
		s.sched = NewClockScheduler()
	}
	if s.renderer == nil {
		s.renderer = NopRenderer{}
	}
	if s.mutationInterval == 0 {
		s.mutationInterval = DefaultMutationInterval
	}
	for _, row := range m.Grid {
		for _, cell := range row {
			if cell.Item != nil {
				s.itemsTotal++
			}
		}
	}
	span.SetAttributes(attribute.Int("maze.items", s.itemsTotal))
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Level() int { return s.level }

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetFinishHandler registers fn to be called once when the session is won or
// lost. It runs outside the session lock and may call back into the session.
func (s *Session) SetFinishHandler(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = fn
}

// SetMutationHook registers fn to observe every mutation pass.
// It runs under the session lock and must not call back into the session.
func (s *Session) SetMutationHook(fn func(maze.MutationReport)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onMutation = fn
}

// Start moves a freshly generated session into play and starts its timers.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusGenerating {
		return ErrSessionStarted
	}
	s.status = StatusPlaying
	s.runStart = s.sched.Now()
	s.startTimersLocked()
	s.renderLocked()
	return nil
}

// Move walks the player in dir. Illegal moves leave the player where it is.
// Under a speed effect one command covers up to Multiplier cells, stopping at
// the first wall or marked cell.
func (s *Session) Move(dir maze.Direction) MoveResult {
	s.mu.Lock()
	res := MoveResult{Position: s.player, Status: s.status}
	if s.status != StatusPlaying || s.paused {
		s.mu.Unlock()
		return res
	}

	steps := 1
	for _, e := range s.effects {
		if e.Kind == maze.EffectSpeed && e.Multiplier > steps {
			steps = e.Multiplier
		}
	}

	var notify func()
	for range steps {
		if !s.maze.CanMove(s.player, dir) {
			break
		}
		s.player = s.player.Step(dir)
		res.Steps++
		cell := s.maze.Cell(s.player)
		if kind := cell.Marker(); kind != maze.MarkerNone {
			res.Marker = kind.String()
			notify = s.arriveLocked(cell, &res)
			break
		}
	}
	if res.Moved() {
		s.renderLocked()
	}
	res.Position = s.player
	res.Status = s.status
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
	return res
}

func (s *Session) arriveLocked(cell *maze.Cell, res *MoveResult) func() {
	switch cell.Marker() {
	case maze.MarkerItem:
		effect := cell.Item
		cell.Item = nil
		s.itemsCollected++
		res.Effect = effect.Kind()
		s.applyEffectLocked(effect)
	case maze.MarkerTrap:
		cell.Trap = false
		s.remaining -= TrapPenalty
		if s.remaining <= 0 {
			s.remaining = 0
			return s.finishLocked(StatusLose)
		}
	case maze.MarkerTransformer:
		cell.Transformer = false
		s.mutateLocked()
	case maze.MarkerExit:
		return s.finishLocked(StatusWin)
	}
	return nil
}

func (s *Session) applyEffectLocked(effect maze.Effect) {
	switch e := effect.(type) {
	case maze.TimeEffect:
		s.remaining += e.Amount
	case maze.SpeedEffect:
		s.setEffectLocked(ActiveEffect{Kind: maze.EffectSpeed, Multiplier: e.Multiplier, Remaining: e.Duration})
	case maze.MapEffect:
		s.setEffectLocked(ActiveEffect{Kind: maze.EffectMap, Remaining: e.Duration})
		if !s.revealed {
			s.revealed = true
			s.renderer.RevealFullMap(true)
		}
	}
}

// setEffectLocked replaces any active effect of the same kind.
func (s *Session) setEffectLocked(e ActiveEffect) {
	for i := range s.effects {
		if s.effects[i].Kind == e.Kind {
			s.effects[i] = e
			return
		}
	}
	s.effects = append(s.effects, e)
}

// Pause stops the clock. Moves are ignored until Resume.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPlaying || s.paused {
		return false
	}
	s.paused = true
	now := s.sched.Now()
	s.played += now.Sub(s.runStart)
	s.tickPhase = now.Sub(s.tickAt)
	if s.mutation != nil {
		s.mutationPhase = now.Sub(s.mutationAt)
	}
	s.stopTimersLocked()
	return true
}

// Resume restarts the clock. Timers pick up where they were paused.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPlaying || !s.paused {
		return false
	}
	s.paused = false
	s.runStart = s.sched.Now()
	s.startTimersLocked()
	return true
}

// Close cancels every timer. A session still in play becomes terminated and
// its finish handler is not called.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimersLocked()
	s.cancel(&s.msgTask)
	if s.status == StatusPlaying || s.status == StatusGenerating {
		if s.status == StatusPlaying && !s.paused {
			s.played += s.sched.Now().Sub(s.runStart)
		}
		s.status = StatusTerminated
	}
	if s.revealed {
		s.revealed = false
		s.renderer.RevealFullMap(false)
	}
}

func (s *Session) startTimersLocked() {
	now := s.sched.Now()

	var tick Task
	s.tickAt = now.Add(-s.tickPhase)
	tick = EveryFrom(s.sched, TickInterval-s.tickPhase, TickInterval, func() { s.onTick(&tick) })
	s.tick = tick

	if s.level >= 2 && s.mutationInterval > 0 {
		var mutation Task
		s.mutationAt = now.Add(-s.mutationPhase)
		mutation = EveryFrom(s.sched, s.mutationInterval-s.mutationPhase, s.mutationInterval, func() { s.onMutationTick(&mutation) })
		s.mutation = mutation
	}
}

func (s *Session) stopTimersLocked() {
	s.cancel(&s.tick)
	s.cancel(&s.mutation)
}

func (s *Session) cancel(t *Task) {
	if *t != nil {
		(*t).Cancel()
		*t = nil
	}
}

// Timer callbacks take the handle by reference and read it under the lock,
// after the starter has stored it.
func (s *Session) onTick(task *Task) {
	s.mu.Lock()
	if s.tick != *task || s.status != StatusPlaying {
		s.mu.Unlock()
		return
	}
	s.tickAt = s.sched.Now()

	s.remaining -= TickInterval
	live := s.effects[:0]
	for _, e := range s.effects {
		e.Remaining -= TickInterval
		if e.Remaining > 0 {
			live = append(live, e)
			continue
		}
		if e.Kind == maze.EffectMap && s.revealed {
			s.revealed = false
			s.renderer.RevealFullMap(false)
		}
	}
	s.effects = live

	var notify func()
	if s.remaining <= 0 {
		s.remaining = 0
		notify = s.finishLocked(StatusLose)
	}
	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

func (s *Session) onMutationTick(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutation != *task || s.status != StatusPlaying {
		return
	}
	s.mutationAt = s.sched.Now()
	s.mutateLocked()
}

// mutateLocked changes the maze without redrawing it. Front ends clear and
// redraw on their own refresh, and a move redraws through Move.
func (s *Session) mutateLocked() {
	_, span := telemetry.Tracer("game").Start(context.Background(), "maze.Mutate")
	report := maze.Mutate(s.maze, s.player, maze.MutateOptions{}, s.rng)
	span.SetAttributes(
		attribute.Int("maze.level", s.level),
		attribute.Int("mutation.changed", len(report.Changed)),
		attribute.Int("mutation.reverted", report.Reverted),
	)
	span.End()

	s.showMessageLocked(mutationMessage, mutationMessageTime)
	if s.onMutation != nil {
		s.onMutation(report)
	}
}

func (s *Session) showMessageLocked(text string, d time.Duration) {
	s.cancel(&s.msgTask)
	s.message = text
	s.renderer.ShowTransientMessage(text, int(d.Milliseconds()))

	var expire Task
	expire = s.sched.After(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.msgTask != expire {
			return
		}
		s.msgTask = nil
		s.message = ""
	})
	s.msgTask = expire
}

// finishLocked is the single terminal transition. It returns the handler call
// to make once the lock is released.
func (s *Session) finishLocked(status Status) func() {
	if s.status != StatusPlaying {
		return nil
	}
	s.stopTimersLocked()
	s.cancel(&s.msgTask)
	if !s.paused {
		s.played += s.sched.Now().Sub(s.runStart)
	}
	s.status = status
	s.effects = nil

	text := winMessage
	if status == StatusLose {
		text = loseMessage
	}
	s.message = text
	s.renderer.ShowTransientMessage(text, int(finalMessageTime.Milliseconds()))
	if s.revealed {
		s.revealed = false
		s.renderer.RevealFullMap(false)
	}

	result := s.resultLocked()
	handler := s.onFinish
	if handler == nil {
		return nil
	}
	return func() { handler(result) }
}

func (s *Session) resultLocked() Result {
	return Result{
		SessionID:      s.id,
		Level:          s.level,
		Status:         s.status,
		Seconds:        s.elapsedLocked().Seconds(),
		ItemsCollected: s.itemsCollected,
		ItemsTotal:     s.itemsTotal,
	}
}

func (s *Session) elapsedLocked() time.Duration {
	if s.status == StatusPlaying && !s.paused {
		return s.played + s.sched.Now().Sub(s.runStart)
	}
	return s.played
}

func (s *Session) visibleLocked(pos maze.CellPosition) bool {
	if s.revealed {
		return true
	}
	dr, dc := pos.Row-s.player.Row, pos.Col-s.player.Col
	return dr*dr+dc*dc <= VisibilityRadius*VisibilityRadius
}

// VisibleCells lists the cells the player can currently see.
func (s *Session) VisibleCells() []maze.CellPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cells []maze.CellPosition
	for _, row := range s.maze.Grid {
		for _, cell := range row {
			if s.visibleLocked(cell.Position()) {
				cells = append(cells, cell.Position())
			}
		}
	}
	return cells
}

// Render redraws the visible maze and the player.
func (s *Session) Render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderLocked()
}

func (s *Session) renderLocked() {
	Draw(s.maze, s.visibleLocked, s.renderer)
	s.renderer.DrawPlayer(s.player.Col, s.player.Row)
}
