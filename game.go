package main

import (
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/dungeonshift/game"
	"github.com/milk9111/dungeonshift/prefabs"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	session *game.Session
	cfg     game.Config
	enemies *prefabs.EnemyCatalog
	items   *prefabs.ItemCatalog

	state  game.State
	paused bool
	ui     *ebitenui.UI
}

func NewGame(session *game.Session, cfg game.Config, enemies *prefabs.EnemyCatalog, items *prefabs.ItemCatalog) *Game {
	g := &Game{
		session: session,
		cfg:     cfg,
		enemies: enemies,
		items:   items,
	}
	g.bind(session)
	g.ui = NewPauseUI(g)
	return g
}

func (g *Game) bind(session *game.Session) {
	g.session = session
	session.SetOnChange(func() {
		g.state = session.GetState()
	})
	g.state = session.GetState()
}

// restart abandons the run and starts a fresh one on a new seed.
func (g *Game) restart() error {
	cfg := g.cfg
	cfg.Seed = time.Now().UnixNano()
	session, err := game.NewSession(cfg, g.enemies, g.items)
	if err != nil {
		return err
	}
	g.bind(session)
	g.paused = false
	return nil
}

func (g *Game) Update() error {
	if g.state.GameOver {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			return g.restart()
		}
		return nil
	}

	if g.paused {
		g.ui.Update()
		return nil
	}

	if g.state.Phase == game.PhaseAwaiting && inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = true
		return nil
	}

	g.handleInput()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBoard(screen)
	g.drawHUD(screen)

	if g.paused {
		g.ui.Draw(screen)
	}
	if g.state.GameOver {
		drawGameOver(screen, g.state.Floor)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
