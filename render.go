package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/dungeonshift/common"
	"github.com/milk9111/dungeonshift/game"
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
	"github.com/milk9111/dungeonshift/tile"
)

// Board geometry. The grid sits one cell in from boardX/boardY so the plot
// ring at row/col -1 still lands on screen.
const (
	cellSize = 88
	boardX   = 360
	boardY   = 96
)

var (
	colorWall      = color.NRGBA{R: 0x1c, G: 0x1a, B: 0x22, A: 0xff}
	colorFloor     = color.NRGBA{R: 0x5a, G: 0x52, B: 0x48, A: 0xff}
	colorPlot      = color.NRGBA{R: 0x3a, G: 0x3a, B: 0x44, A: 0xff}
	colorSelected  = color.NRGBA{R: 0xc8, G: 0xa8, B: 0x3c, A: 0xff}
	colorReachable = color.NRGBA{R: 0x3c, G: 0x6e, B: 0x4f, A: 0x90}
	colorRotating  = color.NRGBA{R: 0x6e, G: 0x5a, B: 0xc8, A: 0x90}
	colorPlayer    = color.NRGBA{R: 0x46, G: 0xb4, B: 0x64, A: 0xff}
	colorEnemy     = color.NRGBA{R: 0xc0, G: 0x3c, B: 0x3c, A: 0xff}
	colorItem      = color.NRGBA{R: 0xd8, G: 0xc8, B: 0x3c, A: 0xff}
	colorExit      = color.NRGBA{R: 0x3c, G: 0x78, B: 0xc8, A: 0xff}
)

func cellOrigin(row, col int) (float32, float32) {
	return float32(boardX + col*cellSize), float32(boardY + row*cellSize)
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	g.state.Grid.Positions(func(p grid.Position, t tile.Tile) {
		x, y := cellOrigin(p.Row, p.Col)
		drawTile(screen, x, y, cellSize, t)
	})

	for _, p := range g.session.GetPlots() {
		x, y := cellOrigin(p.Row, p.Col)
		clr := colorPlot
		if sel := g.state.SelectedPlot; sel != nil && *sel == p {
			clr = colorSelected
		}
		vector.DrawFilledRect(screen, x+cellSize/4, y+cellSize/4, cellSize/2, cellSize/2, clr, false)
	}

	if g.state.Phase == game.PhaseMoving {
		for _, n := range g.session.PlayerReachable() {
			x, y := cellOrigin(n.Pos.Row, n.Pos.Col)
			vector.DrawFilledRect(screen, x+2, y+2, cellSize-4, cellSize-4, colorReachable, false)
		}
	}
	if pos := g.state.RotatingPos; pos != nil {
		x, y := cellOrigin(pos.Row, pos.Col)
		vector.DrawFilledRect(screen, x+2, y+2, cellSize-4, cellSize-4, colorRotating, false)
	}

	for _, o := range g.state.Objects {
		drawObject(screen, o)
	}
}

// drawTile renders one cell: wall background, a floor cross for the open
// edges, and a decay tint that deepens with the level.
func drawTile(screen *ebiten.Image, x, y, size float32, t tile.Tile) {
	vector.DrawFilledRect(screen, x, y, size, size, colorWall, false)

	third := size / 3
	vector.DrawFilledRect(screen, x+third, y+third, third, third, colorFloor, false)
	if t.Open(tile.North) {
		vector.DrawFilledRect(screen, x+third, y, third, third, colorFloor, false)
	}
	if t.Open(tile.South) {
		vector.DrawFilledRect(screen, x+third, y+2*third, third, third, colorFloor, false)
	}
	if t.Open(tile.West) {
		vector.DrawFilledRect(screen, x, y+third, third, third, colorFloor, false)
	}
	if t.Open(tile.East) {
		vector.DrawFilledRect(screen, x+2*third, y+third, third, third, colorFloor, false)
	}

	if t.Decay > 0 {
		alpha := uint8(common.Lerp(0, 200, float64(t.Decay)/float64(tile.MaxDecay)))
		vector.DrawFilledRect(screen, x, y, size, size,
			color.NRGBA{R: 0xc0, G: 0x30, B: 0x20, A: alpha}, false)
	}
}

func drawObject(screen *ebiten.Image, o game.ObjectSnapshot) {
	x, y := cellOrigin(o.Pos.Row, o.Pos.Col)
	var clr color.NRGBA
	var label string
	switch o.Kind {
	case object.KindPlayer:
		clr, label = colorPlayer, "@"
	case object.KindEnemy:
		clr, label = colorEnemy, string(o.Name[0])
	case object.KindItem:
		clr, label = colorItem, "*"
	case object.KindExit:
		clr, label = colorExit, ">"
	}
	vector.DrawFilledCircle(screen, x+cellSize/2, y+cellSize/2, cellSize/4, clr, false)
	ebitenutil.DebugPrintAt(screen, label, int(x)+cellSize/2-3, int(y)+cellSize/2-8)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.state
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Floor %d", st.Floor), 16, 16)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("HP %d/%d", st.Player.HP, st.Player.MaxHP), 16, 32)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Moves %d", st.Player.MovesRemaining), 16, 48)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Turn: %s  Phase: %s", st.Turn, st.Phase), 16, 64)

	if st.InHand != nil {
		ebitenutil.DebugPrintAt(screen, "In hand:", 16, 104)
		drawTile(screen, 16, 120, cellSize, *st.InHand)
	}

	ebitenutil.DebugPrintAt(screen, helpFor(st.Phase), 16, baseHeight-96)
}

func helpFor(p game.PhaseKind) string {
	switch p {
	case game.PhasePlacement:
		return "click plot  Q/E rotate  Enter push  Esc back"
	case game.PhaseMoving:
		return "click a highlighted cell  Esc back"
	case game.PhaseRotating:
		return "Q/E rotate  Enter commit  Esc back"
	}
	return "T place tile  M move  click enemy attack\nclick tile rotate  right-click demolish  Esc pause"
}

func drawGameOver(screen *ebiten.Image, floor int) {
	vector.DrawFilledRect(screen, 0, 0, baseWidth, baseHeight,
		color.NRGBA{A: 0xa0}, false)
	msg := fmt.Sprintf("You died on floor %d.\nPress Enter for a new run.", floor)
	ebitenutil.DebugPrintAt(screen, msg, baseWidth/2-90, baseHeight/2-16)
}
