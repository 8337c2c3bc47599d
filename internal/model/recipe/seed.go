package recipe

// Seed provides sample records for the in-memory catalog in local mode.
func Seed() []Record {
	return []Record{
		{
			ID:           "recipe-seed-tomato-soup",
			Title:        "Roasted Tomato Soup",
			Ingredients:  "- 1 kg ripe tomatoes\n- 1 onion\n- 3 cloves garlic\n- 2 tbsp olive oil\n- 500 ml vegetable stock\n- salt, pepper",
			Instructions: "1. Roast tomatoes, onion and garlic with olive oil at 200°C for 35 minutes.\n2. Simmer with the stock for 10 minutes.\n3. Blend until smooth and season.",
			Emoji:        "🍅",
		},
		{
			ID:           "recipe-seed-shakshuka",
			Title:        "Shakshuka",
			Ingredients:  "- 4 eggs\n- 1 can crushed tomatoes\n- 1 red bell pepper\n- 1 onion\n- 1 tsp cumin\n- 1 tsp paprika",
			Instructions: "1. Soften onion and pepper.\n2. Add spices and tomatoes, simmer 10 minutes.\n3. Make wells, crack in the eggs, cover until set.",
			Emoji:        "🍳",
		},
	}
}
