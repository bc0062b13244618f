package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/molkiya/shooting-range/internal/engine"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/service"
	"github.com/molkiya/shooting-range/internal/storage"
)

type countingSound struct {
	hits, misses, gameOvers int
}

func (s *countingSound) Hit()      { s.hits++ }
func (s *countingSound) Miss()     { s.misses++ }
func (s *countingSound) GameOver() { s.gameOvers++ }
func (s *countingSound) Close()    {}

type testGame struct {
	*Game
	sched  *engine.ManualScheduler
	sound  *countingSound
	screen tcell.SimulationScreen
}

func newTestGame(t *testing.T) *testGame {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(100, 33)
	t.Cleanup(screen.Fini)

	rules := engine.DefaultRules()
	rules.InitialStagger = 0

	sched := engine.NewManualScheduler(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	games := service.NewGameService(service.Options{
		Store:     storage.NewMemoryStorage(),
		Rules:     rules,
		Scheduler: sched,
	})
	t.Cleanup(games.Shutdown)

	sound := &countingSound{}
	g, err := New(context.Background(), Options{
		Screen: screen,
		Games:  games,
		Player: models.Player{ID: "alice", DisplayName: "Alice"},
		Level:  engine.LevelHard,
		Sound:  sound,
	})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	return &testGame{Game: g, sched: sched, sound: sound, screen: screen}
}

func (g *testGame) key(t *testing.T, k tcell.Key, r rune) bool {
	t.Helper()
	return g.handle(context.Background(), tcell.NewEventKey(k, r, tcell.ModNone))
}

func (g *testGame) click(t *testing.T, col, row int) {
	t.Helper()
	g.handle(context.Background(), tcell.NewEventMouse(col, row, tcell.Button1, tcell.ModNone))
	g.handle(context.Background(), tcell.NewEventMouse(col, row, tcell.ButtonNone, tcell.ModNone))
}

// pump delivers queued session events the way Run does.
func (g *testGame) pump() {
	for {
		select {
		case ev, ok := <-g.events:
			if !ok {
				g.events = nil
				return
			}
			g.onEvent(ev)
		default:
			return
		}
	}
}

func (g *testGame) play(t *testing.T) {
	t.Helper()
	g.key(t, tcell.KeyEnter, 0)
	g.sched.Advance(3 * time.Second)
	if state := g.ctrl.State(); state != engine.StatePlaying {
		t.Fatalf("expected playing, got %s", state)
	}
}

func TestGame_SetupKeys(t *testing.T) {
	g := newTestGame(t)

	g.key(t, tcell.KeyRune, '2')
	g.key(t, tcell.KeyRune, ' ')

	snap := g.ctrl.Snapshot()
	if snap.Level != engine.LevelMedium || snap.Weapon != 1 || snap.TimeRemaining != 20 {
		t.Fatalf("unexpected setup %+v", snap)
	}

	g.key(t, tcell.KeyEnter, 0)
	snap = g.ctrl.Snapshot()
	if snap.State != engine.StateCountdown || snap.Level != engine.LevelMedium || snap.Weapon != 1 {
		t.Errorf("expected countdown with chosen options, got %+v", snap)
	}

	// level keys do nothing once the round started
	g.key(t, tcell.KeyRune, '1')
	if g.ctrl.Snapshot().Level != engine.LevelMedium {
		t.Error("level changed outside setup")
	}
}

func TestGame_MouseShooting(t *testing.T) {
	g := newTestGame(t)
	g.play(t)

	target := g.ctrl.Snapshot().Targets[0]
	col, row := g.viewport().ToCell(target.X, target.Y)

	g.handle(context.Background(), tcell.NewEventMouse(col, row, tcell.Button1, tcell.ModNone))
	// a held button does not fire again
	g.handle(context.Background(), tcell.NewEventMouse(col+1, row, tcell.Button1, tcell.ModNone))
	g.handle(context.Background(), tcell.NewEventMouse(col+1, row, tcell.ButtonNone, tcell.ModNone))

	snap := g.ctrl.Snapshot()
	if snap.Score != 10 || snap.Hits != 1 || len(snap.RecentShots) != 1 {
		t.Fatalf("expected exactly one hit, got %+v", snap)
	}

	// board corner cells are never covered by a target
	g.click(t, 0, g.viewport().Top)
	snap = g.ctrl.Snapshot()
	if snap.Misses != 1 || snap.TimeRemaining != 10 {
		t.Errorf("expected a miss costing 5s, got %+v", snap)
	}

	// clicks on the HUD are ignored
	g.click(t, 0, 0)
	if got := len(g.ctrl.Snapshot().RecentShots); got != 2 {
		t.Errorf("expected 2 shots, got %d", got)
	}

	g.pump()
	if g.sound.hits != 1 || g.sound.misses != 1 {
		t.Errorf("expected one hit and one miss tone, got %+v", g.sound)
	}
}

func TestGame_KeyboardAiming(t *testing.T) {
	g := newTestGame(t)
	g.play(t)

	vp := g.viewport()
	x, y, _ := vp.ToBoard(10, vp.Top+5)
	g.ctrl.MovePointer(x, y)

	g.key(t, tcell.KeyRight, 0)
	g.key(t, tcell.KeyDown, 0)

	p := g.ctrl.Snapshot().Pointer
	if col, row := vp.ToCell(p.X, p.Y); col != 11 || row != vp.Top+6 {
		t.Errorf("expected pointer at (11, %d), got (%d, %d)", vp.Top+6, col, row)
	}

	g.key(t, tcell.KeyRune, 'x')
	if got := len(g.ctrl.Snapshot().RecentShots); got != 1 {
		t.Errorf("expected x to fire at the pointer, got %d shots", got)
	}
}

func TestGame_PauseAndWeapon(t *testing.T) {
	g := newTestGame(t)
	g.play(t)

	g.key(t, tcell.KeyRune, ' ')
	if g.ctrl.Snapshot().Weapon != 1 {
		t.Error("expected weapon switch while playing")
	}

	g.key(t, tcell.KeyEscape, 0)
	if g.ctrl.State() != engine.StatePaused {
		t.Fatalf("expected paused, got %s", g.ctrl.State())
	}
	g.sched.Advance(5 * time.Second)
	if g.ctrl.Snapshot().TimeRemaining != 15 {
		t.Error("time must not run while paused")
	}

	g.key(t, tcell.KeyRune, 'p')
	if g.ctrl.State() != engine.StatePlaying {
		t.Errorf("expected playing, got %s", g.ctrl.State())
	}
}

func TestGame_SaveAndPlayAgain(t *testing.T) {
	g := newTestGame(t)
	g.play(t)
	g.sched.Advance(15 * time.Second)
	g.pump()

	if g.ctrl.State() != engine.StateGameOver || g.sound.gameOvers != 1 {
		t.Fatalf("expected gameover tone, state %s", g.ctrl.State())
	}

	first := g.ctrl.ID()
	g.key(t, tcell.KeyEnter, 0)
	if g.saved == nil || len(g.board) != 1 || g.board[0].ID != g.saved.ID {
		t.Fatalf("expected saved record on the board, got %+v / %+v", g.saved, g.board)
	}
	if !strings.Contains(g.status, "saved 0 points") {
		t.Errorf("unexpected status %q", g.status)
	}

	g.key(t, tcell.KeyEnter, 0)
	if g.ctrl.ID() == first || g.ctrl.State() != engine.StateSetup {
		t.Fatalf("expected a fresh session in setup")
	}
	if g.ctrl.Snapshot().Level != engine.LevelHard || g.saved != nil {
		t.Errorf("new round should keep the level and clear the result")
	}
	if n := g.games.Count(); n != 1 {
		t.Errorf("expected one live session, got %d", n)
	}
}

func TestGame_RestartWithoutSaving(t *testing.T) {
	g := newTestGame(t)
	g.play(t)
	g.sched.Advance(15 * time.Second)

	id := g.ctrl.ID()
	g.key(t, tcell.KeyRune, 'r')
	if g.ctrl.ID() != id || g.ctrl.State() != engine.StateSetup {
		t.Errorf("expected the same session back in setup, got %s", g.ctrl.State())
	}
	if board, _ := g.games.Leaderboard(context.Background(), 10); len(board) != 0 {
		t.Errorf("restart must not record, got %+v", board)
	}
}

func TestGame_Quit(t *testing.T) {
	g := newTestGame(t)

	if g.key(t, tcell.KeyRune, 'q') {
		t.Error("q should quit")
	}
	if g.key(t, tcell.KeyCtrlC, 0) {
		t.Error("ctrl-c should quit")
	}

	g.Close()
	if !g.ctrl.Closed() || g.games.Count() != 0 {
		t.Error("close should end the live session")
	}
}

func TestGame_Draw(t *testing.T) {
	g := newTestGame(t)

	g.draw()
	if hud := rowText(g.screen, 0); !strings.HasPrefix(hud, "SHOOTING RANGE  Alice") {
		t.Errorf("unexpected hud %q", hud)
	}
	if !screenContains(g.screen, "score 10 points") {
		t.Error("setup overlay should show the instructions")
	}

	g.play(t)
	g.ctrl.MovePointer(0, 0)
	g.draw()

	target := g.ctrl.Snapshot().Targets[0]
	col, row := g.viewport().ToCell(target.X, target.Y)
	if r, _, _, _ := g.screen.GetContent(col, row); r != '█' {
		t.Errorf("expected target at (%d, %d), got %q", col, row, r)
	}

	footer := rowText(g.screen, 32)
	if !strings.Contains(footer, "Esc pause") {
		t.Errorf("unexpected footer %q", footer)
	}
}

func rowText(screen tcell.Screen, row int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for col := 0; col < w; col++ {
		r, _, _, _ := screen.GetContent(col, row)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func screenContains(screen tcell.Screen, text string) bool {
	_, h := screen.Size()
	for row := 0; row < h; row++ {
		if strings.Contains(rowText(screen, row), text) {
			return true
		}
	}
	return false
}
