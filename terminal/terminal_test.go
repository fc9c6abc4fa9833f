package terminal

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/beka-birhanu/vinom-maze/infrastruture/kvstore"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 40)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.Screen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func lineAt(screen tcell.Screen, y, width int) string {
	out := make([]rune, width)
	for x := range out {
		out[x] = runeAt(screen, x, y)
	}
	return string(out)
}

func TestRendererDrawsBorders(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen)

	m, err := maze.Generate(4, 3, maze.Params{Algorithm: maze.AlgorithmBacktracker}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	game.Draw(m, func(maze.CellPosition) bool { return true }, r)
	screen.Show()

	assert.Equal(t, '+', runeAt(screen, 0, hudRows))
	assert.Equal(t, '-', runeAt(screen, 1, hudRows))
	assert.Equal(t, '|', runeAt(screen, 0, hudRows+1))
	assert.Equal(t, '|', runeAt(screen, 8, hudRows+1))
	assert.Equal(t, '-', runeAt(screen, 7, hudRows+6))
	assert.Equal(t, '+', runeAt(screen, 8, hudRows+6))
}

func TestRendererMarkersAndPlayer(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen)

	r.DrawCellMarker(&maze.Cell{Row: 1, Col: 2}, maze.MarkerTrap)
	r.DrawCellMarker(&maze.Cell{Row: 0, Col: 0}, maze.MarkerExit)
	r.DrawCellMarker(&maze.Cell{Row: 0, Col: 1}, maze.MarkerNone)
	r.DrawPlayer(3, 2)
	screen.Show()

	assert.Equal(t, '^', runeAt(screen, 5, hudRows+3))
	assert.Equal(t, 'E', runeAt(screen, 1, hudRows+1))
	assert.Equal(t, ' ', runeAt(screen, 3, hudRows+1))
	assert.Equal(t, '@', runeAt(screen, 7, hudRows+5))
}

func TestRendererTransientMessage(t *testing.T) {
	screen := newScreen(t)
	r := NewRenderer(screen)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	r.ShowTransientMessage("Maze is changing!", 2000)
	r.RevealFullMap(true)
	r.DrawStatus(game.Snapshot{Level: 3, RemainingSeconds: 41.2, ItemsTotal: 4, Paused: true})
	screen.Show()

	assert.Contains(t, lineAt(screen, 0, 80), "Level 3  Time 42s  Items 0/4  MAP  PAUSED")
	assert.Contains(t, lineAt(screen, 1, 80), "Maze is changing!")

	now = now.Add(2 * time.Second)
	assert.Empty(t, r.Message())

	r.Clear()
	r.DrawStatus(game.Snapshot{Level: 3, Status: game.StatusLose})
	screen.Show()
	assert.Contains(t, lineAt(screen, 1, 80), "r: retry")
}

type gameFixture struct {
	screen   tcell.SimulationScreen
	game     *Game
	manager  *service.GameSessionManager
	playerID uuid.UUID
}

func newGame(t *testing.T) *gameFixture {
	t.Helper()
	screen := newScreen(t)
	renderer := NewRenderer(screen)

	store, err := kvstore.NewBadgerStore(kvstore.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	progress, err := service.NewProgressStore(store, logger.Discard())
	require.NoError(t, err)

	manager, err := service.NewGameSessionManager(service.Config{
		Progress:    progress,
		Logger:      logger.Discard(),
		Scheduler:   game.NewManualScheduler(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		NewRand:     func() *rand.Rand { return rand.New(rand.NewSource(11)) },
		NewRenderer: func(uuid.UUID) game.Renderer { return renderer },
	})
	require.NoError(t, err)
	t.Cleanup(manager.StopAll)

	playerID := uuid.New()
	g, err := NewGame(Config{Screen: screen, Renderer: renderer, Manager: manager, PlayerID: playerID, Refresh: 10 * time.Millisecond})
	require.NoError(t, err)
	return &gameFixture{screen: screen, game: g, manager: manager, playerID: playerID}
}

// start runs the game in the background and waits for its session.
func (f *gameFixture) start(t *testing.T) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- f.game.Run(context.Background(), 1) }()
	require.Eventually(t, func() bool {
		_, err := f.manager.Session(f.playerID)
		return err == nil
	}, time.Second, 5*time.Millisecond)
	return done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("game loop did not stop")
	}
}

func TestGameQuits(t *testing.T) {
	f := newGame(t)
	done := f.start(t)
	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	wait(t, done)

	f = newGame(t)
	done = f.start(t)
	f.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	wait(t, done)
}

func TestGameMovesWithArrows(t *testing.T) {
	f := newGame(t)
	done := f.start(t)

	s, err := f.manager.Session(f.playerID)
	require.NoError(t, err)
	from := s.Player()
	keys := map[maze.Direction]tcell.Key{maze.North: tcell.KeyUp, maze.South: tcell.KeyDown, maze.East: tcell.KeyRight, maze.West: tcell.KeyLeft}
	var key tcell.Key
	for _, dir := range []maze.Direction{maze.North, maze.East, maze.South, maze.West} {
		if s.Maze().CanMove(from, dir) {
			key = keys[dir]
			break
		}
	}
	require.NotZero(t, key, "entry cell has an open side")

	f.screen.InjectKey(key, 0, tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	wait(t, done)

	assert.NotEqual(t, from, s.Player())
}

func TestGamePauseToggle(t *testing.T) {
	f := newGame(t)
	done := f.start(t)

	f.screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'P', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	wait(t, done)

	snap, err := f.manager.Snapshot(f.playerID)
	require.NoError(t, err)
	assert.True(t, snap.Paused)
	assert.Equal(t, 1, snap.Level, "n does nothing before a win")
}

func TestGameRestart(t *testing.T) {
	f := newGame(t)
	done := f.start(t)
	first, err := f.manager.Snapshot(f.playerID)
	require.NoError(t, err)

	f.screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	f.screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	wait(t, done)

	snap, err := f.manager.Snapshot(f.playerID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, snap.ID)
	assert.Equal(t, game.StatusPlaying, snap.Status)
}

func TestNewGameValidates(t *testing.T) {
	_, err := NewGame(Config{})
	assert.Error(t, err)
}
