package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/dungeonshift/game"
	"github.com/milk9111/dungeonshift/prefabs"
)

func main() {
	seed := flag.Int64("seed", 0, "run seed (0 picks one from the clock)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	cfg := loadConfig()
	if *seed != 0 {
		cfg.Seed = *seed
	} else {
		cfg.Seed = time.Now().UnixNano()
	}

	enemies, err := prefabs.LoadEnemies()
	if err != nil {
		log.Fatalf("load enemy catalog: %v", err)
	}
	items, err := prefabs.LoadItems()
	if err != nil {
		log.Printf("load item catalog: %v (continuing without drops)", err)
	}

	session, err := game.NewSession(cfg, enemies, items)
	if err != nil {
		log.Fatalf("start session: %v", err)
	}

	// Catalog and script edits apply to the running session without a rebuild.
	if watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts"); err != nil {
		log.Printf("catalog watcher disabled: %v", err)
	} else {
		defer watcher.Close()
		go func() {
			for path := range watcher.Events {
				session.HandleCatalogChange(path)
				log.Printf("reloaded %s", path)
			}
		}()
		go func() {
			for err := range watcher.Errors {
				log.Printf("catalog watcher: %v", err)
			}
		}()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("dungeonshift")

	if err := ebiten.RunGame(NewGame(session, cfg, enemies, items)); err != nil {
		log.Fatal(err)
	}
}

func loadConfig() game.Config {
	spec, err := prefabs.LoadConfig()
	if err != nil {
		log.Printf("load config: %v (using defaults)", err)
		return game.DefaultConfig()
	}
	return game.ConfigFromSpec(spec)
}
