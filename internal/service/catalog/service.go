// Package catalog applies the create-versus-replace rules for recipes written
// to the persistent catalog.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
)

var (
	// ErrRecipeNotFound is returned by Find for an unknown id.
	ErrRecipeNotFound = errors.New("recipe not found")
	// ErrReplaceIncomplete means the new record was written but the record it
	// replaces could not be deleted.
	ErrReplaceIncomplete = errors.New("replaced recipe was not deleted")
	// ErrRecipeIDRequired rejects a manual save without an id.
	ErrRecipeIDRequired = errors.New("recipe id is required")
)

const idPrefix = "recipe-"

// Service wraps a recipe.Store with the catalog lifecycle rules.
type Service struct {
	store recipe.Store
}

// NewService returns a catalog service over store.
func NewService(store recipe.Store) *Service {
	return &Service{store: store}
}

// NewRecipeID mints a fresh catalog identifier.
func NewRecipeID() string {
	return idPrefix + uuid.NewString()
}

// Commit writes a conversation draft. A draft without an id gets a fresh one.
// When activeID names a different record, that record is deleted after the
// write succeeds; a failed delete returns the written record together with
// ErrReplaceIncomplete.
func (s *Service) Commit(ctx context.Context, draft recipe.Draft, activeID string) (recipe.Record, error) {
	id := draft.RecipeID
	if id == "" {
		id = NewRecipeID()
	}
	record := draft.Record(id)

	if err := s.store.Put(ctx, record); err != nil {
		return recipe.Record{}, fmt.Errorf("put recipe %s: %w", record.ID, err)
	}
	log.Printf("[catalog] stored recipe=%s", record.ID)

	if activeID == "" || activeID == record.ID {
		return record, nil
	}
	if err := s.store.Delete(ctx, activeID); err != nil {
		log.Printf("[catalog] failed to delete replaced recipe=%s: %v", activeID, err)
		return record, fmt.Errorf("%w: %s: %v", ErrReplaceIncomplete, activeID, err)
	}
	log.Printf("[catalog] replaced recipe=%s with recipe=%s", activeID, record.ID)
	return record, nil
}

// SaveManual writes a record edited directly from the catalog, keeping its id.
func (s *Service) SaveManual(ctx context.Context, record recipe.Record) (recipe.Record, error) {
	if record.ID == "" {
		return recipe.Record{}, ErrRecipeIDRequired
	}
	if record.Emoji == "" {
		record.Emoji = recipe.DefaultEmoji
	}
	if err := s.store.Put(ctx, record); err != nil {
		return recipe.Record{}, fmt.Errorf("put recipe %s: %w", record.ID, err)
	}
	log.Printf("[catalog] updated recipe=%s", record.ID)
	return record, nil
}

// Delete removes a record. Deleting an absent record succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete recipe %s: %w", id, err)
	}
	log.Printf("[catalog] deleted recipe=%s", id)
	return nil
}

// List returns every record ordered by title, then id.
func (s *Service) List(ctx context.Context) ([]recipe.Record, error) {
	records, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan recipes: %w", err)
	}
	sort.SliceStable(records, func(i, j int) bool {
		a, b := strings.ToLower(records[i].Title), strings.ToLower(records[j].Title)
		if a != b {
			return a < b
		}
		return records[i].ID < records[j].ID
	})
	return records, nil
}

// Find returns the record with id.
func (s *Service) Find(ctx context.Context, id string) (recipe.Record, error) {
	records, err := s.store.ScanAll(ctx)
	if err != nil {
		return recipe.Record{}, fmt.Errorf("scan recipes: %w", err)
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return recipe.Record{}, ErrRecipeNotFound
}
