// Package protocol parses assistant replies that follow the recipe save
// protocol: a body with TITLE, INGREDIENTS and INSTRUCTIONS sections, then a
// '|' separated emoji and closing remarks.
//
//	TITLE: Soup
//	INGREDIENTS: water, salt
//	INSTRUCTIONS: boil it | 🍲 | Enjoy!
package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
)

// ErrExtractionFailed reports a reply that lacks one of the required labels.
var ErrExtractionFailed = errors.New("reply does not follow the recipe protocol")

// Separator splits the recipe body, the emoji and the remarks.
const Separator = "|"

// Field is a labeled section of the recipe body.
type Field string

const (
	FieldTitle        Field = "title"
	FieldIngredients  Field = "ingredients"
	FieldInstructions Field = "instructions"
)

// Both spellings of every label are accepted, in any case. Markdown emphasis
// around the label ("**TITLE:**", "**TITLE**:") is tolerated.
var labelPattern = regexp.MustCompile(`(?i)\**\b(recipe_name|recipe_ingredients|recipe_instructions|title|ingredients|instructions)[*_]*[ \t]*:[*_]*`)

var labelFields = map[string]Field{
	"title":               FieldTitle,
	"recipe_name":         FieldTitle,
	"ingredients":         FieldIngredients,
	"recipe_ingredients":  FieldIngredients,
	"instructions":        FieldInstructions,
	"recipe_instructions": FieldInstructions,
}

// Extraction is the structured content of a protocol reply.
type Extraction struct {
	Title        string
	Ingredients  string
	Instructions string
	Emoji        string

	// Remarks is the closing commentary after the second separator. It is
	// display-only.
	Remarks string
}

// Draft builds a review draft carrying the conversation's active identifier,
// which may be empty.
func (e Extraction) Draft(activeID string) recipe.Draft {
	return recipe.Draft{
		Title:        e.Title,
		Ingredients:  e.Ingredients,
		Instructions: e.Instructions,
		Emoji:        e.Emoji,
		RecipeID:     activeID,
	}
}

type label struct {
	field      Field
	start, end int
}

// Parse extracts the recipe fields from reply. Segments past the third
// separator are ignored. It returns ErrExtractionFailed when any of the three
// labels is missing; an empty section after a present label is valid.
func Parse(reply string) (Extraction, error) {
	segments := strings.Split(reply, Separator)
	body := segments[0]

	ext := Extraction{Emoji: recipe.DefaultEmoji}
	if len(segments) > 1 {
		if marker := strings.TrimSpace(segments[1]); marker != "" {
			ext.Emoji = marker
		}
	}
	if len(segments) > 2 {
		ext.Remarks = strings.TrimSpace(segments[2])
	}

	labels := findLabels(body)

	title, ok := section(body, labels, FieldTitle)
	if !ok {
		return Extraction{}, missing(FieldTitle)
	}
	ingredients, ok := section(body, labels, FieldIngredients)
	if !ok {
		return Extraction{}, missing(FieldIngredients)
	}
	instructions, ok := section(body, labels, FieldInstructions)
	if !ok {
		return Extraction{}, missing(FieldInstructions)
	}

	ext.Title = title
	ext.Ingredients = ingredients
	ext.Instructions = instructions
	return ext, nil
}

func missing(f Field) error {
	return fmt.Errorf("%w: missing %s label", ErrExtractionFailed, f)
}

func findLabels(body string) []label {
	matches := labelPattern.FindAllStringSubmatchIndex(body, -1)
	labels := make([]label, 0, len(matches))
	for _, m := range matches {
		name := strings.ToLower(body[m[2]:m[3]])
		labels = append(labels, label{field: labelFields[name], start: m[0], end: m[1]})
	}
	return labels
}

// section returns the trimmed text owned by the first label of field f.
func section(body string, labels []label, f Field) (string, bool) {
	for i, l := range labels {
		if l.field != f {
			continue
		}

		rest := body[l.end:]
		if i+1 < len(labels) && f != FieldInstructions {
			rest = body[l.end:labels[i+1].start]
		}
		if f == FieldTitle {
			// The title may sit on the line after its label.
			rest = strings.TrimLeft(rest, " \t\r\n")
			if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
				rest = rest[:idx]
			}
		}
		return strings.TrimSpace(rest), true
	}
	return "", false
}
