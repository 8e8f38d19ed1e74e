// Command sim plays the game headlessly with a simple greedy policy: walk
// toward the exit, attack anything adjacent, and push a tile when stuck.
// Useful for soak-testing the turn loop and eyeballing difficulty tuning.
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/milk9111/dungeonshift/game"
	"github.com/milk9111/dungeonshift/grid"
	"github.com/milk9111/dungeonshift/object"
	"github.com/milk9111/dungeonshift/prefabs"
)

func main() {
	seed := flag.Int64("seed", 1, "run seed")
	turns := flag.Int("turns", 500, "maximum player turns to simulate")
	flag.Parse()

	cfg := game.DefaultConfig()
	if spec, err := prefabs.LoadConfig(); err == nil {
		cfg = game.ConfigFromSpec(spec)
	} else {
		log.Printf("load config: %v (using defaults)", err)
	}
	cfg.Seed = *seed

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
	session.OnDescend = func(floor int) {
		log.Printf("descended to floor %d", floor)
	}

	rng := rand.New(rand.NewSource(*seed))
	turn := 0
	for ; turn < *turns; turn++ {
		st := session.GetState()
		if st.GameOver {
			break
		}
		playTurn(session, st, rng)
	}

	final := session.GetState()
	if final.GameOver {
		log.Printf("died on floor %d after %d turns", final.Floor, turn)
	} else {
		log.Printf("alive on floor %d with %d/%d hp after %d turns",
			final.Floor, final.Player.HP, final.Player.MaxHP, turn)
	}
}

// playTurn spends exactly one player turn: exit if reachable, otherwise
// fight, otherwise close distance, otherwise reshape the board.
func playTurn(session *game.Session, st game.State, rng *rand.Rand) {
	exit, hasExit := findExit(st)
	reachable := session.PlayerReachable()

	if hasExit {
		for _, n := range reachable {
			if n.Pos == exit {
				session.StartMoving()
				session.MoveTo(exit)
				return
			}
		}
	}

	for _, o := range st.Objects {
		if o.Kind != object.KindEnemy {
			continue
		}
		if st.Player.Pos.Manhattan(o.Pos) == 1 && st.Grid.CanTraverse(st.Player.Pos, o.Pos) {
			session.Attack(o.Handle)
			return
		}
	}

	if hasExit && len(reachable) > 0 {
		best := reachable[0]
		for _, n := range reachable[1:] {
			if n.Pos.Manhattan(exit) < best.Pos.Manhattan(exit) {
				best = n
			}
		}
		if best.Pos.Manhattan(exit) < st.Player.Pos.Manhattan(exit) {
			session.StartMoving()
			session.MoveTo(best.Pos)
			return
		}
	}

	// Boxed in or not gaining ground, so push a random line and reshuffle
	// the maze. Rotate the hand a random amount for variety.
	plots := session.GetPlots()
	plot := plots[rng.Intn(len(plots))]
	session.EnterPlacement()
	for i := rng.Intn(4); i > 0; i-- {
		session.RotateInHand(true)
	}
	session.SelectPlot(plot)
	session.ConfirmPlacement()
}

func findExit(st game.State) (grid.Position, bool) {
	for _, o := range st.Objects {
		if o.Kind == object.KindExit {
			return o.Pos, true
		}
	}
	return grid.Position{}, false
}
