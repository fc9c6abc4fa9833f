// Package terminal plays maze levels in a text terminal through tcell.
package terminal

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/beka-birhanu/vinom-maze/game/maze"
	"github.com/gdamore/tcell/v2"
)

// hudRows is the height of the status area above the maze.
const hudRows = 2

var (
	baseStyle    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	wallStyle    = baseStyle.Foreground(tcell.ColorGray)
	playerStyle  = baseStyle.Foreground(tcell.ColorYellow).Bold(true)
	statusStyle  = baseStyle.Foreground(tcell.ColorAqua)
	messageStyle = baseStyle.Foreground(tcell.ColorFuchsia).Bold(true)
)

type glyph struct {
	r     rune
	style tcell.Style
}

var markerGlyphs = map[maze.Marker]glyph{
	maze.MarkerEntry:       {'S', baseStyle.Foreground(tcell.ColorBlue)},
	maze.MarkerExit:        {'E', baseStyle.Foreground(tcell.ColorGreen).Bold(true)},
	maze.MarkerItem:        {'*', baseStyle.Foreground(tcell.ColorYellow)},
	maze.MarkerTrap:        {'^', baseStyle.Foreground(tcell.ColorRed)},
	maze.MarkerTransformer: {'%', baseStyle.Foreground(tcell.ColorPurple)},
}

// Renderer draws a session onto a tcell screen. Every cell takes two
// columns and two rows so walls sit on the lattice between cells.
type Renderer struct {
	screen tcell.Screen
	now    func() time.Time

	mu           sync.Mutex
	message      string
	messageUntil time.Time
	revealed     bool
}

var _ game.Renderer = &Renderer{}

func NewRenderer(screen tcell.Screen) *Renderer {
	screen.SetStyle(baseStyle)
	return &Renderer{screen: screen, now: time.Now}
}

// corner maps a lattice corner to screen coordinates.
func corner(x, y int) (int, int) {
	return 2 * x, 2*y + hudRows
}

// center maps a cell to the screen coordinates of its middle.
func center(col, row int) (int, int) {
	return 2*col + 1, 2*row + 1 + hudRows
}

func (r *Renderer) DrawWallSegment(x1, y1, x2, y2 int) {
	sx1, sy1 := corner(min(x1, x2), min(y1, y2))
	sx2, sy2 := corner(max(x1, x2), max(y1, y2))

	if sy1 == sy2 {
		for x := sx1; x <= sx2; x++ {
			ch := '-'
			if x%2 == 0 {
				ch = '+'
			}
			r.screen.SetContent(x, sy1, ch, nil, wallStyle)
		}
		return
	}
	for y := sy1; y <= sy2; y++ {
		ch := '|'
		if (y-hudRows)%2 == 0 {
			ch = '+'
		}
		r.screen.SetContent(sx1, y, ch, nil, wallStyle)
	}
}

func (r *Renderer) DrawCellMarker(cell *maze.Cell, kind maze.Marker) {
	g, ok := markerGlyphs[kind]
	if !ok {
		return
	}
	x, y := center(cell.Col, cell.Row)
	r.screen.SetContent(x, y, g.r, nil, g.style)
}

func (r *Renderer) DrawPlayer(x, y int) {
	sx, sy := center(x, y)
	r.screen.SetContent(sx, sy, '@', nil, playerStyle)
}

func (r *Renderer) ShowTransientMessage(text string, durationMs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.message = text
	r.messageUntil = r.now().Add(time.Duration(durationMs) * time.Millisecond)
}

func (r *Renderer) RevealFullMap(reveal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revealed = reveal
}

// Message returns the transient message still on display, if any.
func (r *Renderer) Message() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.message != "" && !r.now().Before(r.messageUntil) {
		r.message = ""
	}
	return r.message
}

func (r *Renderer) Revealed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revealed
}

// Clear blanks the frame before a redraw.
func (r *Renderer) Clear() {
	r.screen.Clear()
}

// DrawStatus writes the HUD lines for snap.
func (r *Renderer) DrawStatus(snap game.Snapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "Level %d  Time %ds  Items %d/%d", snap.Level, ceil(snap.RemainingSeconds), snap.ItemsCollected, snap.ItemsTotal)
	for _, e := range snap.Effects {
		if e.Kind == maze.EffectSpeed {
			fmt.Fprintf(&b, "  Speed x%d %ds", e.Multiplier, ceil(e.RemainingSeconds))
		}
	}
	if r.Revealed() {
		b.WriteString("  MAP")
	}
	if snap.Paused {
		b.WriteString("  PAUSED")
	}
	r.drawText(0, 0, b.String(), statusStyle)

	msg := r.Message()
	if msg == "" {
		switch snap.Status {
		case game.StatusWin:
			msg = "n: next level  r: replay  q: quit"
		case game.StatusLose:
			msg = "r: retry  q: quit"
		}
	}
	r.drawText(0, 1, msg, messageStyle)
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		r.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func ceil(seconds float64) int {
	return int(math.Ceil(seconds))
}
