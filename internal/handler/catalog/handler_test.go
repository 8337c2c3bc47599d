package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	catalogService "github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
)

type countingStore struct {
	*recipe.MemoryStore
	puts    int
	deletes int
	putErr  error
}

func (s *countingStore) Put(ctx context.Context, r recipe.Record) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	return s.MemoryStore.Put(ctx, r)
}

func (s *countingStore) Delete(ctx context.Context, id string) error {
	s.deletes++
	return s.MemoryStore.Delete(ctx, id)
}

func setupRouter() (*chi.Mux, *countingStore) {
	store := &countingStore{MemoryStore: recipe.NewMemoryStore(recipe.Seed())}
	handler := New(catalogService.NewService(store))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func do(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListRecipes(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodGet, "/recipes", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var records []recipe.Record
	if err := json.Unmarshal(resp.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode records: %v", err)
	}
	if len(records) != len(recipe.Seed()) {
		t.Fatalf("expected %d records, got %d", len(recipe.Seed()), len(records))
	}
}

func TestUpdateRecipeIsSinglePutWithSameID(t *testing.T) {
	r, store := setupRouter()

	resp := do(r, http.MethodPut, "/recipes/recipe-seed-shakshuka", []byte(`{"title":"Green Shakshuka"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var record recipe.Record
	_ = json.Unmarshal(resp.Body.Bytes(), &record)
	if record.ID != "recipe-seed-shakshuka" || record.Title != "Green Shakshuka" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Ingredients == "" {
		t.Fatal("unpatched fields must be kept")
	}
	if store.puts != 1 || store.deletes != 0 {
		t.Fatalf("expected one put and no delete, got puts=%d deletes=%d", store.puts, store.deletes)
	}
}

func TestUpdateRecipeFailureReturnsBadGateway(t *testing.T) {
	r, store := setupRouter()
	store.putErr = errors.New("throttled")

	resp := do(r, http.MethodPut, "/recipes/recipe-seed-shakshuka", []byte(`{"title":"x"}`))
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}

func TestUpdateUnknownRecipe(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodPut, "/recipes/missing", []byte(`{"title":"x"}`))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDeleteRecipeIdempotent(t *testing.T) {
	r, _ := setupRouter()

	for i := 0; i < 2; i++ {
		if resp := do(r, http.MethodDelete, "/recipes/recipe-seed-shakshuka", nil); resp.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected 204, got %d", i, resp.Code)
		}
	}
	if resp := do(r, http.MethodGet, "/recipes/recipe-seed-shakshuka", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}
