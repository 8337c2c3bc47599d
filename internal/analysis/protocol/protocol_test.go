package protocol

import (
	"errors"
	"testing"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
)

func TestParseWellFormedReply(t *testing.T) {
	ext, err := Parse("TITLE: Soup\nINGREDIENTS: water, salt\nINSTRUCTIONS: boil it | 🍲 | Enjoy!")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}

	if ext.Title != "Soup" {
		t.Fatalf("unexpected title: %q", ext.Title)
	}
	if ext.Ingredients != "water, salt" {
		t.Fatalf("unexpected ingredients: %q", ext.Ingredients)
	}
	if ext.Instructions != "boil it" {
		t.Fatalf("unexpected instructions: %q", ext.Instructions)
	}
	if ext.Emoji != "🍲" {
		t.Fatalf("unexpected emoji: %q", ext.Emoji)
	}
	if ext.Remarks != "Enjoy!" {
		t.Fatalf("unexpected remarks: %q", ext.Remarks)
	}
}

func TestParseTitleOnNextLine(t *testing.T) {
	ext, err := Parse("TITLE:\nSoup\nINGREDIENTS:\nwater, salt\nINSTRUCTIONS:\nboil it | 🍲 | Enjoy!")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Title != "Soup" {
		t.Fatalf("unexpected title: %q", ext.Title)
	}
	if ext.Ingredients != "water, salt" || ext.Instructions != "boil it" {
		t.Fatalf("unexpected sections: %+v", ext)
	}
}

func TestParseEmptyTitleDoesNotTakeNextSection(t *testing.T) {
	ext, err := Parse("TITLE:\n\nINGREDIENTS: water\nINSTRUCTIONS: boil")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Title != "" {
		t.Fatalf("expected empty title, got %q", ext.Title)
	}
	if ext.Ingredients != "water" {
		t.Fatalf("unexpected ingredients: %q", ext.Ingredients)
	}
}

func TestParseAlternateSpellingsAnyCase(t *testing.T) {
	reply := "recipe_name: Pancakes\nRecipe_Ingredients:\nflour\neggs\nrecipe_INSTRUCTIONS:\nmix and fry"

	ext, err := Parse(reply)
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Title != "Pancakes" {
		t.Fatalf("unexpected title: %q", ext.Title)
	}
	if ext.Ingredients != "flour\neggs" {
		t.Fatalf("unexpected ingredients: %q", ext.Ingredients)
	}
	if ext.Instructions != "mix and fry" {
		t.Fatalf("unexpected instructions: %q", ext.Instructions)
	}
	if ext.Emoji != recipe.DefaultEmoji {
		t.Fatalf("expected default emoji without separator, got %q", ext.Emoji)
	}
}

func TestParseEmptyMarkerUsesDefault(t *testing.T) {
	ext, err := Parse("TITLE: Toast\nINGREDIENTS: bread\nINSTRUCTIONS: toast it |   | bye")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Emoji != recipe.DefaultEmoji {
		t.Fatalf("expected default emoji, got %q", ext.Emoji)
	}
	if ext.Remarks != "bye" {
		t.Fatalf("unexpected remarks: %q", ext.Remarks)
	}
}

func TestParseIgnoresExtraSegments(t *testing.T) {
	ext, err := Parse("TITLE: A\nINGREDIENTS: b\nINSTRUCTIONS: c | 🥗 | nice | extra | more")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Emoji != "🥗" || ext.Remarks != "nice" {
		t.Fatalf("unexpected suffix: emoji=%q remarks=%q", ext.Emoji, ext.Remarks)
	}
	if ext.Instructions != "c" {
		t.Fatalf("unexpected instructions: %q", ext.Instructions)
	}
}

func TestParseEmptyIngredientsIsValid(t *testing.T) {
	ext, err := Parse("TITLE: Ice\nINGREDIENTS:\nINSTRUCTIONS: freeze water | 🧊")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Ingredients != "" {
		t.Fatalf("expected empty ingredients, got %q", ext.Ingredients)
	}
	if ext.Instructions != "freeze water" {
		t.Fatalf("unexpected instructions: %q", ext.Instructions)
	}
}

func TestParseIngredientsStopAtNextLabel(t *testing.T) {
	ext, err := Parse("TITLE: Omelette\nINGREDIENTS: eggs, butter INSTRUCTIONS: whisk and fry")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Ingredients != "eggs, butter" {
		t.Fatalf("unexpected ingredients: %q", ext.Ingredients)
	}
}

func TestParseToleratesMarkdownEmphasis(t *testing.T) {
	ext, err := Parse("**TITLE:** Salad\n**Ingredients**: greens\n**INSTRUCTIONS:** toss | 🥗 | Enjoy")
	if err != nil {
		t.Fatalf("Parse err: %v", err)
	}
	if ext.Title != "Salad" {
		t.Fatalf("unexpected title: %q", ext.Title)
	}
	if ext.Ingredients != "greens" {
		t.Fatalf("unexpected ingredients: %q", ext.Ingredients)
	}
	if ext.Instructions != "toss" {
		t.Fatalf("unexpected instructions: %q", ext.Instructions)
	}
}

func TestParseMissingLabelFails(t *testing.T) {
	cases := []string{
		"Here is a lovely soup, enjoy!",
		"TITLE: Soup\nINGREDIENTS: water",
		"INGREDIENTS: water\nINSTRUCTIONS: boil | 🍲",
		"",
	}
	for _, reply := range cases {
		if _, err := Parse(reply); !errors.Is(err, ErrExtractionFailed) {
			t.Fatalf("expected ErrExtractionFailed for %q, got %v", reply, err)
		}
	}
}

func TestExtractionDraftCarriesActiveID(t *testing.T) {
	ext := Extraction{Title: "Soup", Ingredients: "water", Instructions: "boil", Emoji: "🍲"}

	draft := ext.Draft("recipe-1")
	if draft.RecipeID != "recipe-1" {
		t.Fatalf("expected active id on draft, got %q", draft.RecipeID)
	}
	if draft.Title != "Soup" || draft.Emoji != "🍲" {
		t.Fatalf("unexpected draft: %+v", draft)
	}
	if ext.Draft("").RecipeID != "" {
		t.Fatal("expected empty id when no active identifier")
	}
}
