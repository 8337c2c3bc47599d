package chat

import (
	"fmt"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
)

// Greeting opens a conversation that starts without a recipe.
const Greeting = "Hello! I am your Culinary Architect. Tell me about a recipe you want to refine or save."

// pendingContext is the recipe handed to a new conversation. It is injected
// into the first user turn and then never again.
type pendingContext struct {
	record   recipe.Record
	consumed bool
}

// wrap prefixes text with the recipe on first use and marks the context
// consumed.
func (p *pendingContext) wrap(text string) string {
	if p == nil || p.consumed {
		return text
	}
	p.consumed = true

	r := p.record
	return fmt.Sprintf("The user is working on this recipe:\nName: %s\nIngredients: %s\nInstructions: %s\n\nUser's Request: %s",
		r.Title, r.Ingredients, r.Instructions, text)
}

func introPrompt(h chat.Handoff) string {
	action := "make a copy of"
	if h.SaveMode == recipe.SaveModeUpdate {
		action = "edit"
	}
	r := h.Recipe
	return fmt.Sprintf("The user wants to %s this recipe:\nTitle: %s\nIngredients: %s\nInstructions: %s\n\n"+
		"Please display this full recipe in Markdown now so the user can review it. Then ask what changes they would like to make.",
		action, r.Title, r.Ingredients, r.Instructions)
}

func introFallback(title string) string {
	if title == "" {
		title = "Recipe"
	}
	return fmt.Sprintf("I've loaded **%s**, but had trouble displaying it. What would you like to change?", title)
}
