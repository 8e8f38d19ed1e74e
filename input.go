package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/dungeonshift/game"
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
)

func (g *Game) handleInput() {
	switch g.state.Phase {
	case game.PhaseAwaiting:
		g.handleAwaiting()
	case game.PhasePlacement:
		g.handlePlacement()
	case game.PhaseMoving:
		g.handleMoving()
	case game.PhaseRotating:
		g.handleRotating()
	}
}

func (g *Game) handleAwaiting() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		g.session.EnterPlacement()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.session.StartMoving()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		pos, ok := g.cellUnderCursor()
		if !ok {
			return
		}
		if enemy, ok := g.enemyAt(pos); ok {
			g.session.Attack(enemy)
			return
		}
		g.session.EnterRotation(pos)
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		if pos, ok := g.cellUnderCursor(); ok {
			g.session.DemolishWall(g.state.Player.Pos, pos)
		}
	}
}

func (g *Game) handlePlacement() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		g.session.RotateInHand(false)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.session.RotateInHand(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.session.ConfirmPlacement()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.session.Cancel()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if plot, ok := g.plotUnderCursor(); ok {
			g.session.SelectPlot(plot)
		}
	}
}

func (g *Game) handleMoving() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.session.Cancel()
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if pos, ok := g.cellUnderCursor(); ok {
			g.session.MoveTo(pos)
		}
	}
}

func (g *Game) handleRotating() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		g.session.RotateTile(false)
	case inpututil.IsKeyJustPressed(ebiten.KeyE):
		g.session.RotateTile(true)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.session.ConfirmRotation()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.session.Cancel()
	}
}

// cursorCell maps the cursor to board coordinates, including the one-cell
// ring outside the grid where plots live.
func (g *Game) cursorCell() (row, col int) {
	mx, my := ebiten.CursorPosition()
	row = int(math.Floor(float64(my-boardY) / cellSize))
	col = int(math.Floor(float64(mx-boardX) / cellSize))
	return row, col
}

func (g *Game) cellUnderCursor() (grid.Position, bool) {
	row, col := g.cursorCell()
	pos := grid.Position{Row: row, Col: col}
	if !g.state.Grid.Contains(pos) {
		return grid.Position{}, false
	}
	return pos, true
}

func (g *Game) plotUnderCursor() (grid.Plot, bool) {
	row, col := g.cursorCell()
	for _, p := range g.session.GetPlots() {
		if p.Row == row && p.Col == col {
			return p, true
		}
	}
	return grid.Plot{}, false
}

func (g *Game) enemyAt(pos grid.Position) (object.Handle, bool) {
	for _, o := range g.state.Objects {
		if o.Kind == object.KindEnemy && o.Pos == pos {
			return o.Handle, true
		}
	}
	return 0, false
}
