package terminal

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
)

const (
	DefaultRefresh = 200 * time.Millisecond

	lockedMessageTime = 2 * time.Second
)

// Manager is the session manager as the terminal sees it. The terminal needs
// the live session to draw through it.
type Manager interface {
	i.GameSessionManager
	Session(playerID uuid.UUID) (*game.Session, error)
}

// Game is the keyboard loop of one local player.
type Game struct {
	screen   tcell.Screen
	renderer *Renderer
	manager  Manager
	playerID uuid.UUID
	refresh  time.Duration
}

type Config struct {
	Screen   tcell.Screen
	Renderer *Renderer
	Manager  Manager
	PlayerID uuid.UUID
	Refresh  time.Duration // 0 means DefaultRefresh
}

func NewGame(c Config) (*Game, error) {
	if c.Screen == nil || c.Renderer == nil || c.Manager == nil {
		return nil, errors.New("terminal game needs a screen, a renderer and a session manager")
	}
	if c.Refresh <= 0 {
		c.Refresh = DefaultRefresh
	}
	return &Game{
		screen:   c.Screen,
		renderer: c.Renderer,
		manager:  c.Manager,
		playerID: c.PlayerID,
		refresh:  c.Refresh,
	}, nil
}

var keyDirections = map[tcell.Key]maze.Direction{
	tcell.KeyUp:    maze.North,
	tcell.KeyDown:  maze.South,
	tcell.KeyLeft:  maze.West,
	tcell.KeyRight: maze.East,
}

var runeDirections = map[rune]maze.Direction{
	'w': maze.North, 'k': maze.North,
	's': maze.South, 'j': maze.South,
	'a': maze.West, 'h': maze.West,
	'd': maze.East, 'l': maze.East,
}

// Run starts level and reads keys until the player quits, ctx ends or the
// screen is finalized.
func (g *Game) Run(ctx context.Context, level int) error {
	if _, err := g.manager.StartLevel(ctx, g.playerID, level); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go g.pump(ctx)

	g.draw()
	for {
		ev := g.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			g.screen.Sync()
		case *tcell.EventKey:
			quit, err := g.handleKey(ctx, ev)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
		g.draw()
	}
}

// pump wakes the loop so the clock and messages redraw without input.
func (g *Game) pump(ctx context.Context) {
	ticker := time.NewTicker(g.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = g.screen.PostEvent(tcell.NewEventInterrupt(nil))
			return
		case <-ticker.C:
			_ = g.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}
}

func (g *Game) handleKey(ctx context.Context, ev *tcell.EventKey) (bool, error) {
	if dir, ok := keyDirections[ev.Key()]; ok {
		_, err := g.manager.Move(g.playerID, dir)
		return false, err
	}
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyRune:
	default:
		return false, nil
	}

	ch := unicode.ToLower(ev.Rune())
	if dir, ok := runeDirections[ch]; ok {
		_, err := g.manager.Move(g.playerID, dir)
		return false, err
	}
	switch ch {
	case 'q':
		return true, nil
	case 'p':
		return false, g.togglePause()
	case 'r':
		_, err := g.manager.Restart(ctx, g.playerID)
		return false, err
	case 'n':
		return false, g.nextLevel(ctx)
	}
	return false, nil
}

func (g *Game) togglePause() error {
	snap, err := g.manager.Snapshot(g.playerID)
	if err != nil {
		return err
	}
	if snap.Paused {
		_, err = g.manager.Resume(g.playerID)
	} else {
		_, err = g.manager.Pause(g.playerID)
	}
	return err
}

func (g *Game) nextLevel(ctx context.Context) error {
	snap, err := g.manager.Snapshot(g.playerID)
	if err != nil {
		return err
	}
	if snap.Status != game.StatusWin {
		return nil
	}
	_, err = g.manager.StartLevel(ctx, g.playerID, snap.Level+1)
	if errors.Is(err, service.ErrLevelLocked) {
		g.renderer.ShowTransientMessage("Level locked", int(lockedMessageTime.Milliseconds()))
		return nil
	}
	return err
}

func (g *Game) draw() {
	g.renderer.Clear()
	if s, err := g.manager.Session(g.playerID); err == nil {
		s.Render()
		g.renderer.DrawStatus(s.Snapshot())
	}
	g.screen.Show()
}
