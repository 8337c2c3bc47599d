package chat

import (
	"time"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
)

// Session captures a transient conversation; it is never persisted.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Handoff carries a catalog record into a new conversation so the assistant
// can improve it.
type Handoff struct {
	Recipe   recipe.Record   `json:"recipeToImprove"`
	SaveMode recipe.SaveMode `json:"saveMode"`
}
