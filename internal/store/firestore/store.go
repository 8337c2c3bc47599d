// Package firestore keeps the recipe catalog in a Cloud Firestore collection,
// one document per recipe keyed by recipe id.
package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
)

// DefaultCollection holds the catalog when none is configured.
const DefaultCollection = "recipes"

// Store implements recipe.Store on Firestore.
type Store struct {
	client     *firestore.Client
	collection string
}

var _ recipe.Store = (*Store)(nil)

// NewStore creates a Firestore client for projectID.
func NewStore(ctx context.Context, projectID, collection string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore store")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return NewStoreFromClient(client, collection), nil
}

// NewStoreFromClient wraps an existing client, e.g. one pointed at the
// emulator.
func NewStoreFromClient(client *firestore.Client, collection string) *Store {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Store{client: client, collection: collection}
}

func (s *Store) recipesCol() *firestore.CollectionRef {
	return s.client.Collection(s.collection)
}

// Put upserts record under its id.
func (s *Store) Put(ctx context.Context, record recipe.Record) error {
	if record.ID == "" {
		return fmt.Errorf("firestore Put: recipe id is required")
	}
	if _, err := s.recipesCol().Doc(record.ID).Set(ctx, record); err != nil {
		return fmt.Errorf("firestore Put %s: %w", record.ID, err)
	}
	return nil
}

// Delete removes the record; an absent document is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.recipesCol().Doc(id).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return fmt.Errorf("firestore Delete %s: %w", id, err)
	}
	return nil
}

// ScanAll reads the whole collection.
func (s *Store) ScanAll(ctx context.Context) ([]recipe.Record, error) {
	iter := s.recipesCol().Documents(ctx)
	defer iter.Stop()

	var records []recipe.Record
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore ScanAll: %w", err)
		}

		var r recipe.Record
		if err := snap.DataTo(&r); err != nil {
			return nil, fmt.Errorf("firestore ScanAll decode %s: %w", snap.Ref.ID, err)
		}
		if r.ID == "" {
			r.ID = snap.Ref.ID
		}
		records = append(records, r)
	}
	return records, nil
}

// Close releases the client.
func (s *Store) Close() error {
	return s.client.Close()
}
