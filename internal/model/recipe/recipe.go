package recipe

// DefaultEmoji decorates a recipe when the assistant did not supply a marker.
const DefaultEmoji = "🥘"

// SaveMode tells a resumed conversation whether its commit replaces the
// original record or creates a new one.
type SaveMode string

const (
	SaveModeUpdate SaveMode = "UPDATE"
	SaveModeNew    SaveMode = "NEW"
)

// ParseSaveMode normalizes client input, defaulting to SaveModeNew.
func ParseSaveMode(raw string) SaveMode {
	switch raw {
	case "UPDATE", "update", "Update":
		return SaveModeUpdate
	default:
		return SaveModeNew
	}
}

// Record is a recipe persisted in the catalog.
type Record struct {
	// ID is the primary key of the record within the catalog.
	ID string `json:"recipeId" firestore:"recipeId" toml:"recipeId"`

	// Title is the display name of the recipe.
	Title string `json:"title" firestore:"title" toml:"title"`

	// Ingredients is the free-form ingredient list.
	Ingredients string `json:"ingredients" firestore:"ingredients" toml:"ingredients"`

	// Instructions is the free-form preparation text.
	Instructions string `json:"instructions" firestore:"instructions" toml:"instructions"`

	// Emoji is the decorative marker shown on recipe cards.
	Emoji string `json:"emoji" firestore:"emoji" toml:"emoji"`
}

// Draft is a not-yet-persisted recipe under review. An empty RecipeID means
// the draft has no identifier yet.
type Draft struct {
	Title        string `json:"title"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	Emoji        string `json:"emoji"`
	RecipeID     string `json:"recipeId,omitempty"`
}

// DraftFromRecord seeds a draft for editing an existing record.
func DraftFromRecord(r Record) Draft {
	return Draft{
		Title:        r.Title,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		Emoji:        r.Emoji,
		RecipeID:     r.ID,
	}
}

// Record converts the draft into a record carrying id. A blank emoji falls
// back to DefaultEmoji.
func (d Draft) Record(id string) Record {
	emoji := d.Emoji
	if emoji == "" {
		emoji = DefaultEmoji
	}
	return Record{
		ID:           id,
		Title:        d.Title,
		Ingredients:  d.Ingredients,
		Instructions: d.Instructions,
		Emoji:        emoji,
	}
}
