// Package terminal is a full-screen terminal front-end for a shooting session.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/molkiya/shooting-range/internal/engine"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/service"
	"github.com/molkiya/shooting-range/internal/storage"
	"github.com/molkiya/shooting-range/pkg/logger"
)

const frameInterval = 50 * time.Millisecond

// Options configures a Game.
type Options struct {
	Screen tcell.Screen
	Games  *service.GameService
	Player models.Player
	Level  engine.Level
	Sound  Sound
	Logger *logger.Logger
}

// Game runs one player's sessions on a tcell screen. Each saved round
// ends its session; playing again opens a new one.
type Game struct {
	screen tcell.Screen
	games  *service.GameService
	player models.Player
	sound  Sound
	log    *logger.Logger

	ctrl        *engine.Controller
	events      <-chan engine.Event
	unsubscribe func()

	level     engine.Level
	weapon    int
	mouseDown bool

	saved  *models.CompletedSession
	board  []models.CompletedSession
	status string
}

// New opens the first session in setup. The caller owns the screen.
func New(ctx context.Context, opts Options) (*Game, error) {
	if opts.Screen == nil || opts.Games == nil {
		return nil, fmt.Errorf("terminal: screen and game service are required")
	}
	g := &Game{
		screen: opts.Screen,
		games:  opts.Games,
		player: opts.Player,
		sound:  opts.Sound,
		log:    opts.Logger,
		level:  opts.Level,
	}
	if g.sound == nil {
		g.sound = Silent{}
	}
	if g.log == nil {
		g.log = logger.Discard()
	}
	if _, ok := engine.ParseLevel(string(g.level)); !ok {
		g.level = engine.LevelEasy
	}

	if err := g.openSession(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) openSession(ctx context.Context) error {
	weapon := g.weapon
	ctrl, err := g.games.CreateSession(ctx, g.player, models.CreateSessionRequest{
		Level:  string(g.level),
		Weapon: &weapon,
	})
	if err != nil {
		return err
	}
	events, unsubscribe, err := g.games.Subscribe(ctrl.ID(), g.player.ID)
	if err != nil {
		return err
	}

	if g.unsubscribe != nil {
		g.unsubscribe()
	}
	g.ctrl = ctrl
	g.events = events
	g.unsubscribe = unsubscribe
	g.saved = nil
	g.board = nil
	g.status = ""
	return nil
}

// Run draws and handles input until the player quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	g.screen.EnableMouse(tcell.MouseMotionEvents)
	defer g.screen.DisableMouse()

	input := make(chan tcell.Event, 100)
	go func() {
		defer close(input)
		for {
			// nil once the screen is finalized
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case input <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	g.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-input:
			if !ok || !g.handle(ctx, ev) {
				return nil
			}
			g.draw()
		case ev, ok := <-g.events:
			if !ok {
				g.events = nil
				continue
			}
			g.onEvent(ev)
		case <-ticker.C:
			g.draw()
		}
	}
}

// Close ends the live session without recording it.
func (g *Game) Close() {
	if g.unsubscribe != nil {
		g.unsubscribe()
	}
	if err := g.games.CloseSession(g.ctrl.ID(), g.player.ID); err != nil && !errors.Is(err, service.ErrSessionNotFound) {
		g.log.Warn("Failed to close session", logger.Err(err))
	}
}

func (g *Game) onEvent(ev engine.Event) {
	switch ev.Kind {
	case engine.EventHit:
		g.sound.Hit()
	case engine.EventMiss:
		g.sound.Miss()
	case engine.EventState:
		if ev.State == engine.StateGameOver {
			g.sound.GameOver()
		}
	}
}

// handle applies one input event. It returns false when the player quits.
func (g *Game) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		g.screen.Sync()
	case *tcell.EventKey:
		return g.handleKey(ctx, ev)
	case *tcell.EventMouse:
		g.handleMouse(ev)
	}
	return true
}

func (g *Game) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	g.games.Touch(g.ctrl.ID())
	state := g.ctrl.State()

	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		g.ctrl.TogglePause()
	case tcell.KeyEnter:
		g.confirm(ctx, state)
	case tcell.KeyUp:
		g.nudge(0, -1)
	case tcell.KeyDown:
		g.nudge(0, 1)
	case tcell.KeyLeft:
		g.nudge(-1, 0)
	case tcell.KeyRight:
		g.nudge(1, 0)
	case tcell.KeyRune:
		return g.handleRune(ctx, state, ev.Rune())
	}
	return true
}

func (g *Game) handleRune(ctx context.Context, state engine.State, r rune) bool {
	switch r {
	case 'q':
		return false
	case 'p':
		g.ctrl.TogglePause()
	case ' ':
		g.cycleWeapon(state)
	case 'x':
		p := g.ctrl.Snapshot().Pointer
		g.ctrl.Shoot(p.X, p.Y)
	case '1', '2', '3':
		level := engine.Levels[r-'1']
		if g.ctrl.SelectLevel(level) {
			g.level = level
		}
	case 's':
		if state == engine.StateGameOver && g.saved == nil {
			g.save(ctx)
		}
	case 'r':
		g.restart(ctx, state)
	}
	return true
}

func (g *Game) handleMouse(ev *tcell.EventMouse) {
	pressed := ev.Buttons()&tcell.Button1 != 0
	defer func() { g.mouseDown = pressed }()

	col, row := ev.Position()
	x, y, ok := g.viewport().ToBoard(col, row)
	if !ok {
		return
	}
	g.games.Touch(g.ctrl.ID())
	g.ctrl.MovePointer(x, y)
	if pressed && !g.mouseDown {
		g.ctrl.Shoot(x, y)
	}
}

// nudge moves the crosshair by whole cells for keyboard aiming.
func (g *Game) nudge(dc, dr int) {
	dx, dy := g.viewport().Step()
	p := g.ctrl.Snapshot().Pointer
	g.ctrl.MovePointer(p.X+float64(dc)*dx, p.Y+float64(dr)*dy)
}

func (g *Game) cycleWeapon(state engine.State) {
	switch state {
	case engine.StateSetup:
		next := (g.weapon + 1) % len(engine.Weapons)
		if g.ctrl.SelectWeapon(next) {
			g.weapon = next
		}
	case engine.StatePlaying:
		if weapon, ok := g.ctrl.SwitchWeapon(); ok {
			g.weapon = weapon
		}
	}
}

func (g *Game) confirm(ctx context.Context, state engine.State) {
	switch state {
	case engine.StateSetup:
		g.ctrl.Start(g.level, g.weapon)
	case engine.StateGameOver:
		if g.saved == nil {
			g.save(ctx)
			return
		}
		g.again(ctx)
	}
}

func (g *Game) restart(ctx context.Context, state engine.State) {
	if state != engine.StateGameOver {
		return
	}
	if g.saved != nil {
		g.again(ctx)
		return
	}
	g.ctrl.Restart()
}

func (g *Game) again(ctx context.Context) {
	if err := g.openSession(ctx); err != nil {
		g.log.Error("Failed to open session", logger.Err(err))
		g.status = "could not start a new round: " + err.Error()
	}
}

func (g *Game) save(ctx context.Context) {
	record, saved, err := g.games.Save(ctx, g.ctrl.ID(), g.player.ID)
	if !saved {
		if err != nil {
			g.status = "save failed: " + err.Error()
		}
		return
	}
	g.saved = &record
	if err != nil {
		g.log.Error("Failed to save session", logger.Err(err))
		g.status = "score not stored: " + err.Error()
		return
	}
	g.status = fmt.Sprintf("saved %d points", record.Score)

	board, err := g.games.Leaderboard(ctx, storage.DefaultTopScores)
	if err != nil {
		g.log.Warn("Failed to load leaderboard", logger.Err(err))
		return
	}
	g.board = board
}

func (g *Game) viewport() Viewport {
	w, h := g.screen.Size()
	rules := g.ctrl.Rules()
	return NewViewport(w, h, rules.BoardWidth, rules.BoardHeight)
}
