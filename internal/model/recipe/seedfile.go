package recipe

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// seedFile is the on-disk layout of a catalog seed:
//
//	[[recipe]]
//	recipeId = "recipe-1"
//	title = "Soup"
//	ingredients = "water"
//	instructions = "boil"
//	emoji = "🍲"
type seedFile struct {
	Recipes []Record `toml:"recipe"`
}

// LoadSeedFile reads catalog records from a TOML file. Records without an id
// are rejected; a missing emoji becomes DefaultEmoji.
func LoadSeedFile(path string) ([]Record, error) {
	var f seedFile
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", path, err)
	}

	seen := make(map[string]bool, len(f.Recipes))
	for i, r := range f.Recipes {
		if r.ID == "" {
			return nil, fmt.Errorf("seed file %s: recipe %d has no recipeId", path, i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("seed file %s: duplicate recipeId %q", path, r.ID)
		}
		seen[r.ID] = true
		if r.Emoji == "" {
			f.Recipes[i].Emoji = DefaultEmoji
		}
	}
	return f.Recipes, nil
}
