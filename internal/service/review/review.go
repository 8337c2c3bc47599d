// Package review stages an extracted or existing recipe so the user can edit
// it before it is written to the catalog.
package review

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
)

var (
	// ErrPersistenceFailed wraps a catalog write failure during commit. The
	// draft survives it.
	ErrPersistenceFailed = errors.New("failed to persist recipe")
	// ErrNotReviewing rejects draft operations outside an open review.
	ErrNotReviewing = errors.New("no recipe under review")
)

// State is the review lifecycle position.
type State string

const (
	StateIdle      State = "idle"
	StateReviewing State = "reviewing"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// Mode toggles the read-only and editable presentation of the draft.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// ParseMode validates client input.
func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeView, ModeEdit:
		return Mode(raw), nil
	default:
		return "", fmt.Errorf("unknown review mode %q", raw)
	}
}

// Origin records where the draft came from, which decides the commit rule.
type Origin string

const (
	OriginConversation Origin = "conversation"
	OriginCatalog      Origin = "catalog"
)

// Committer persists a reviewed recipe.
type Committer interface {
	Commit(ctx context.Context, draft recipe.Draft, activeID string) (recipe.Record, error)
	SaveManual(ctx context.Context, record recipe.Record) (recipe.Record, error)
}

// Patch replaces the non-nil fields of the draft.
type Patch struct {
	Title        *string `json:"title,omitempty"`
	Ingredients  *string `json:"ingredients,omitempty"`
	Instructions *string `json:"instructions,omitempty"`
	Emoji        *string `json:"emoji,omitempty"`
}

// View is a read-only snapshot of a controller.
type View struct {
	State   State         `json:"state"`
	Mode    Mode          `json:"mode,omitempty"`
	Origin  Origin        `json:"origin,omitempty"`
	Draft   *recipe.Draft `json:"draft,omitempty"`
	Remarks string        `json:"remarks,omitempty"`
}

// Controller is the staging state machine for one conversation or one
// catalog edit. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	committer Committer

	state    State
	mode     Mode
	origin   Origin
	draft    recipe.Draft
	activeID string
	remarks  string
}

// NewController returns an idle controller writing through committer.
func NewController(committer Committer) *Controller {
	return &Controller{committer: committer, state: StateIdle}
}

// BeginFromExtraction opens a review of an assistant-produced draft in edit
// mode. activeID is the record a commit should replace, if any.
func (c *Controller) BeginFromExtraction(draft recipe.Draft, activeID, remarks string) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.begin(OriginConversation, ModeEdit, draft)
	c.activeID = activeID
	c.remarks = remarks
	return c.viewLocked()
}

// BeginFromRecord opens a review of an existing catalog record in view mode.
func (c *Controller) BeginFromRecord(record recipe.Record) View {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.begin(OriginCatalog, ModeView, recipe.DraftFromRecord(record))
	return c.viewLocked()
}

func (c *Controller) begin(origin Origin, mode Mode, draft recipe.Draft) {
	c.state = StateReviewing
	c.origin = origin
	c.mode = mode
	c.draft = draft
	c.activeID = ""
	c.remarks = ""
}

// Edit applies p to the draft immediately.
func (c *Controller) Edit(p Patch) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReviewing {
		return View{}, ErrNotReviewing
	}
	if p.Title != nil {
		c.draft.Title = *p.Title
	}
	if p.Ingredients != nil {
		c.draft.Ingredients = *p.Ingredients
	}
	if p.Instructions != nil {
		c.draft.Instructions = *p.Instructions
	}
	if p.Emoji != nil {
		c.draft.Emoji = *p.Emoji
	}
	return c.viewLocked(), nil
}

// SetMode switches between view and edit presentation.
func (c *Controller) SetMode(mode Mode) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReviewing {
		return View{}, ErrNotReviewing
	}
	c.mode = mode
	return c.viewLocked(), nil
}

// ToggleMode flips the presentation mode.
func (c *Controller) ToggleMode() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReviewing {
		return View{}, ErrNotReviewing
	}
	if c.mode == ModeEdit {
		c.mode = ModeView
	} else {
		c.mode = ModeEdit
	}
	return c.viewLocked(), nil
}

// Commit writes the draft to the catalog. On failure the review stays open
// with the user's edits.
func (c *Controller) Commit(ctx context.Context) (recipe.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateReviewing {
		return recipe.Record{}, ErrNotReviewing
	}

	var (
		record recipe.Record
		err    error
	)
	switch c.origin {
	case OriginCatalog:
		record, err = c.committer.SaveManual(ctx, c.draft.Record(c.draft.RecipeID))
	default:
		record, err = c.committer.Commit(ctx, c.draft, c.activeID)
	}
	if errors.Is(err, catalog.ErrReplaceIncomplete) && record.ID != "" {
		log.Printf("[review] committed recipe=%s with stale original: %v", record.ID, err)
		err = nil
	}
	if err != nil {
		log.Printf("[review] commit failed, origin=%s: %v", c.origin, err)
		return recipe.Record{}, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	c.state = StateCommitted
	c.draft = recipe.Draft{}
	c.activeID = ""
	c.remarks = ""
	log.Printf("[review] committed recipe=%s, origin=%s", record.ID, c.origin)
	return record, nil
}

// Cancel discards the draft. A new review may begin afterwards.
func (c *Controller) Cancel() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateReviewing {
		c.state = StateCancelled
	}
	c.draft = recipe.Draft{}
	c.activeID = ""
	c.remarks = ""
	return c.viewLocked()
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	v := View{State: c.state}
	if c.state != StateReviewing {
		return v
	}
	draft := c.draft
	v.Mode = c.mode
	v.Origin = c.origin
	v.Draft = &draft
	v.Remarks = c.remarks
	return v
}
