// Package prefabs holds the definition catalogs the core consumes but never
// produces: enemy and item definitions plus gameplay tuning, stored as yaml
// embedded in the binary with on-disk override and hot reload.
package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EnemySpec is one catalog enemy definition.
type EnemySpec struct {
	Name       string  `yaml:"name"`
	HP         int     `yaml:"hp"`
	Atk        int     `yaml:"atk"`
	Def        int     `yaml:"def"`
	Agi        int     `yaml:"agi"`
	Speed      float64 `yaml:"speed"`
	AI         string  `yaml:"ai"`
	Tier       int     `yaml:"tier"`
	DropChance float64 `yaml:"drop_chance"`
	Flying     bool    `yaml:"flying"`
	Script     string  `yaml:"script"`
}

// EnemyCatalog is the full enemy definition set, looked up by name.
type EnemyCatalog struct {
	Enemies []EnemySpec `yaml:"enemies"`
}

// Find returns the definition for name. Missing names are an expected lookup
// failure the caller handles; there is no safe default enemy.
func (c *EnemyCatalog) Find(name string) (EnemySpec, bool) {
	for _, e := range c.Enemies {
		if e.Name == name {
			return e, true
		}
	}
	return EnemySpec{}, false
}

// ByMaxTier returns every enemy at or below tier, in catalog order.
func (c *EnemyCatalog) ByMaxTier(tier int) []EnemySpec {
	var out []EnemySpec
	for _, e := range c.Enemies {
		if e.Tier <= tier {
			out = append(out, e)
		}
	}
	return out
}

// LoadEnemies parses the enemy catalog.
func LoadEnemies() (*EnemyCatalog, error) {
	return loadSpec[EnemyCatalog]("enemies.yaml")
}

// ItemSpec is one catalog item definition. Bonuses apply while equipped;
// Charges > 0 marks a consumable.
type ItemSpec struct {
	Name    string `yaml:"name"`
	Slot    string `yaml:"slot"`
	Atk     int    `yaml:"atk"`
	Def     int    `yaml:"def"`
	Agi     int    `yaml:"agi"`
	HP      int    `yaml:"hp"`
	Charges int    `yaml:"charges"`
}

// ItemCatalog is the full item definition set.
type ItemCatalog struct {
	Items []ItemSpec `yaml:"items"`
}

// Find returns the definition for name.
func (c *ItemCatalog) Find(name string) (ItemSpec, bool) {
	for _, i := range c.Items {
		if i.Name == name {
			return i, true
		}
	}
	return ItemSpec{}, false
}

// LoadItems parses the item catalog.
func LoadItems() (*ItemCatalog, error) {
	return loadSpec[ItemCatalog]("items.yaml")
}

// ConfigSpec is the gameplay tuning block.
type ConfigSpec struct {
	Grid struct {
		Rows        int `yaml:"rows"`
		Cols        int `yaml:"cols"`
		DeckReserve int `yaml:"deck_reserve"`
	} `yaml:"grid"`
	Decay struct {
		Weights         []int     `yaml:"weights"`
		Curve           []float64 `yaml:"curve"`
		AvoidThreshold  float64   `yaml:"avoid_threshold"`
		MaxLineIncrease int       `yaml:"max_line_increase"`
		DemolitionBumps int       `yaml:"demolition_bumps"`
	} `yaml:"decay"`
	DeckWeights map[string]int `yaml:"deck_weights"`
	Floors      struct {
		SafeRooms       int `yaml:"safe_rooms"`
		BaseEnemies     int `yaml:"base_enemies"`
		EnemiesPerFloor int `yaml:"enemies_per_floor"`
	} `yaml:"floors"`
}

// LoadConfig parses the tuning config.
func LoadConfig() (*ConfigSpec, error) {
	return loadSpec[ConfigSpec]("config.yaml")
}

func loadSpec[T any](filename string) (*T, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return &spec, nil
}
