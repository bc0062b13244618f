package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/molkiya/shooting-range/internal/engine"
)

var boardColor = tcell.NewRGBColor(15, 23, 42)

var (
	styleHUD      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBoard    = tcell.StyleDefault.Background(boardColor)
	styleBanner   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHit      = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleMiss     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
)

// crosshair runes, one per weapon
var crosshairs = []rune{'+', 'X'}

func (g *Game) draw() {
	snap := g.ctrl.Snapshot()
	vp := g.viewport()

	g.screen.Clear()
	g.drawHUD(snap)
	g.drawBoard(vp, snap)

	switch snap.State {
	case engine.StateSetup:
		g.drawSetup(vp, snap)
	case engine.StateCountdown:
		banner := "GO!"
		if snap.CountdownValue > 0 {
			banner = fmt.Sprintf("%d", snap.CountdownValue)
		}
		g.drawCentered(vp, []string{banner}, styleBanner)
	case engine.StatePaused:
		g.drawCentered(vp, []string{"PAUSED", "", "Esc or p to resume"}, styleBanner)
	case engine.StateGameOver:
		g.drawGameOver(vp, snap)
	}

	g.drawFooter(vp, snap)
	g.screen.Show()
}

func (g *Game) drawHUD(snap engine.Snapshot) {
	weapon := engine.Weapons[snap.Weapon]
	drawText(g.screen, 0, 0, styleHUD, fmt.Sprintf("SHOOTING RANGE  %s  level %s  weapon %s",
		snap.Player.DisplayName, snap.Level.Label(), weapon.Name))
	drawText(g.screen, 0, 1, styleHUD, fmt.Sprintf("score %d  time %ds  hits %d  misses %d  [%s]",
		snap.Score, snap.TimeRemaining, snap.Hits, snap.Misses, snap.State))
}

func (g *Game) drawBoard(vp Viewport, snap engine.Snapshot) {
	for row := vp.Top; row < vp.Top+vp.Rows; row++ {
		for col := 0; col < vp.Cols; col++ {
			g.screen.SetContent(col, row, ' ', nil, styleBoard)
		}
	}

	for _, shot := range snap.RecentShots {
		col, row := vp.ToCell(shot.X, shot.Y)
		style := styleMiss
		if shot.Hit {
			style = styleHit
		}
		g.screen.SetContent(col, row, '·', nil, style.Background(boardColor))
	}

	for _, target := range snap.Targets {
		drawTarget(g.screen, vp, target)
	}

	if snap.State == engine.StatePlaying || snap.State == engine.StatePaused {
		weapon := engine.Weapons[snap.Weapon]
		col, row := vp.ToCell(snap.Pointer.X, snap.Pointer.Y)
		style := styleBoard.Foreground(tcell.GetColor(weapon.Color)).Bold(true)
		if _, _, under, _ := g.screen.GetContent(col, row); under != styleBoard {
			style = style.Reverse(true)
		}
		g.screen.SetContent(col, row, crosshairs[snap.Weapon%len(crosshairs)], nil, style)
	}
}

// drawTarget fills every cell whose center lies inside the target.
func drawTarget(screen tcell.Screen, vp Viewport, t engine.Target) {
	style := tcell.StyleDefault.Foreground(tcell.GetColor(t.Color))
	left, top := vp.ToCell(t.X-t.Radius, t.Y-t.Radius)
	right, bottom := vp.ToCell(t.X+t.Radius, t.Y+t.Radius)

	filled := false
	for row := top; row <= bottom; row++ {
		for col := left; col <= right; col++ {
			x, y, ok := vp.ToBoard(col, row)
			if ok && t.Contains(x, y) {
				screen.SetContent(col, row, '█', nil, style)
				filled = true
			}
		}
	}
	if !filled {
		col, row := vp.ToCell(t.X, t.Y)
		screen.SetContent(col, row, '●', nil, style)
	}
}

func (g *Game) drawSetup(vp Viewport, snap engine.Snapshot) {
	lines := append([]string{"HOW TO PLAY", ""}, g.ctrl.Rules().Instructions()...)
	lines = append(lines, "")
	g.drawCentered(vp, lines, styleHUD)

	row := vp.Top + (vp.Rows-len(lines))/2 + len(lines)
	col := 2
	for i, level := range engine.Levels {
		label := fmt.Sprintf(" [%d] %s %ds ", i+1, level.Label(), level.Budget())
		style := styleHUD
		if level == snap.Level {
			style = styleSelected
		}
		col = drawText(g.screen, col, row, style, label) + 1
	}
	drawText(g.screen, 2, row+1, styleHUD, fmt.Sprintf("weapon %s (space to change)", engine.Weapons[snap.Weapon].Name))
}

func (g *Game) drawGameOver(vp Viewport, snap engine.Snapshot) {
	lines := []string{"GAME OVER", "", fmt.Sprintf("final score %d", snap.Score),
		fmt.Sprintf("hits %d  misses %d  played %ds", snap.Hits, snap.Misses, snap.Elapsed)}

	if g.saved != nil && len(g.board) > 0 {
		lines = append(lines, "", "TOP SCORES")
		for i, record := range g.board {
			marker := " "
			if record.ID == g.saved.ID {
				marker = ">"
			}
			lines = append(lines, fmt.Sprintf("%s%2d. %-12s %5d  %s", marker, i+1,
				truncate(record.PlayerName, 12), record.Score, record.Level))
		}
	}
	g.drawCentered(vp, lines, styleBanner)
}

func (g *Game) drawFooter(vp Viewport, snap engine.Snapshot) {
	var help string
	switch snap.State {
	case engine.StateSetup:
		help = "1-3 level  space weapon  Enter start  q quit"
	case engine.StateCountdown:
		help = "get ready  q quit"
	case engine.StatePlaying:
		help = "click or x shoot  arrows aim  space weapon  Esc pause  q quit"
	case engine.StatePaused:
		help = "Esc resume  q quit"
	case engine.StateGameOver:
		if g.saved == nil {
			help = "Enter save  r restart  q quit"
		} else {
			help = "Enter play again  q quit"
		}
	}
	if g.status != "" {
		help = g.status + "  |  " + help
	}
	drawText(g.screen, 0, vp.Top+vp.Rows, styleDim, help)
}

func (g *Game) drawCentered(vp Viewport, lines []string, style tcell.Style) {
	top := vp.Top + (vp.Rows-len(lines))/2
	for i, line := range lines {
		col := (vp.Cols - len([]rune(line))) / 2
		if col < 0 {
			col = 0
		}
		drawText(g.screen, col, top+i, style, line)
	}
}

// drawText writes s from (col, row) and returns the column after it.
func drawText(screen tcell.Screen, col, row int, style tcell.Style, s string) int {
	for _, r := range s {
		screen.SetContent(col, row, r, nil, style)
		col++
	}
	return col
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
