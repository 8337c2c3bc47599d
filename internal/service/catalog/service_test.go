package catalog_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
)

// recordingStore logs every call so tests can assert the put/delete order.
type recordingStore struct {
	*recipe.MemoryStore
	calls     []string
	putErr    error
	deleteErr error
}

func newRecordingStore(items ...recipe.Record) *recordingStore {
	return &recordingStore{MemoryStore: recipe.NewMemoryStore(items)}
}

func (s *recordingStore) Put(ctx context.Context, r recipe.Record) error {
	s.calls = append(s.calls, "put:"+r.ID)
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.Put(ctx, r)
}

func (s *recordingStore) Delete(ctx context.Context, id string) error {
	s.calls = append(s.calls, "delete:"+id)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, id)
}

func TestCommitMintsIDWhenDraftHasNone(t *testing.T) {
	store := newRecordingStore()
	svc := catalog.NewService(store)

	record, err := svc.Commit(context.Background(), recipe.Draft{Title: "Soup"}, "")
	if err != nil {
		t.Fatalf("Commit err: %v", err)
	}
	if !strings.HasPrefix(record.ID, "recipe-") {
		t.Fatalf("unexpected id: %s", record.ID)
	}
	if record.Emoji != recipe.DefaultEmoji {
		t.Fatalf("expected default emoji, got %q", record.Emoji)
	}
	if len(store.calls) != 1 {
		t.Fatalf("expected a single put, got %v", store.calls)
	}
}

func TestCommitWithSameIDNeverDeletes(t *testing.T) {
	store := newRecordingStore(recipe.Record{ID: "recipe-1", Title: "Old"})
	svc := catalog.NewService(store)

	draft := recipe.Draft{Title: "New", RecipeID: "recipe-1"}
	if _, err := svc.Commit(context.Background(), draft, "recipe-1"); err != nil {
		t.Fatalf("Commit err: %v", err)
	}
	if len(store.calls) != 1 || store.calls[0] != "put:recipe-1" {
		t.Fatalf("unexpected calls: %v", store.calls)
	}
}

func TestCommitReplacesActiveRecordAfterPut(t *testing.T) {
	store := newRecordingStore(recipe.Record{ID: "recipe-old", Title: "Old"})
	svc := catalog.NewService(store)

	record, err := svc.Commit(context.Background(), recipe.Draft{Title: "New"}, "recipe-old")
	if err != nil {
		t.Fatalf("Commit err: %v", err)
	}
	if len(store.calls) != 2 || store.calls[0] != "put:"+record.ID || store.calls[1] != "delete:recipe-old" {
		t.Fatalf("expected put before delete, got %v", store.calls)
	}

	if _, err := svc.Find(context.Background(), "recipe-old"); !errors.Is(err, catalog.ErrRecipeNotFound) {
		t.Fatalf("expected old record gone, got %v", err)
	}
}

func TestCommitPutFailureSkipsDelete(t *testing.T) {
	store := newRecordingStore(recipe.Record{ID: "recipe-old", Title: "Old"})
	store.putErr = errors.New("throttled")
	svc := catalog.NewService(store)

	if _, err := svc.Commit(context.Background(), recipe.Draft{Title: "New"}, "recipe-old"); err == nil {
		t.Fatal("expected put failure")
	}
	for _, c := range store.calls {
		if strings.HasPrefix(c, "delete:") {
			t.Fatalf("delete must not run after failed put: %v", store.calls)
		}
	}
	if _, err := svc.Find(context.Background(), "recipe-old"); err != nil {
		t.Fatalf("old record must survive: %v", err)
	}
}

func TestCommitDeleteFailureKeepsNewRecord(t *testing.T) {
	store := newRecordingStore(recipe.Record{ID: "recipe-old", Title: "Old"})
	store.deleteErr = errors.New("network")
	svc := catalog.NewService(store)

	record, err := svc.Commit(context.Background(), recipe.Draft{Title: "New"}, "recipe-old")
	if !errors.Is(err, catalog.ErrReplaceIncomplete) {
		t.Fatalf("expected ErrReplaceIncomplete, got %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected the written record to be returned")
	}
	if _, err := svc.Find(context.Background(), record.ID); err != nil {
		t.Fatalf("new record must exist: %v", err)
	}
}

func TestSaveManualKeepsID(t *testing.T) {
	store := newRecordingStore(recipe.Record{ID: "recipe-1", Title: "Pie"})
	svc := catalog.NewService(store)

	record, err := svc.SaveManual(context.Background(), recipe.Record{ID: "recipe-1", Title: "Apple Pie"})
	if err != nil {
		t.Fatalf("SaveManual err: %v", err)
	}
	if record.ID != "recipe-1" || len(store.calls) != 1 || store.calls[0] != "put:recipe-1" {
		t.Fatalf("expected exactly one put with the same id, got %v", store.calls)
	}

	if _, err := svc.SaveManual(context.Background(), recipe.Record{Title: "No id"}); !errors.Is(err, catalog.ErrRecipeIDRequired) {
		t.Fatalf("expected ErrRecipeIDRequired, got %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := catalog.NewService(newRecordingStore(recipe.Record{ID: "recipe-1"}))
	ctx := context.Background()

	if err := svc.Delete(ctx, "recipe-1"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	if err := svc.Delete(ctx, "recipe-1"); err != nil {
		t.Fatalf("second Delete err: %v", err)
	}
}

func TestListSortsByTitle(t *testing.T) {
	svc := catalog.NewService(newRecordingStore(
		recipe.Record{ID: "b", Title: "shakshuka"},
		recipe.Record{ID: "a", Title: "Apple Pie"},
		recipe.Record{ID: "c", Title: "Bread"},
	))

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List err: %v", err)
	}
	got := []string{records[0].ID, records[1].ID, records[2].ID}
	if got[0] != "a" || got[1] != "c" || got[2] != "b" {
		t.Fatalf("unexpected order: %v", got)
	}
}
