package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/agent"
	catalogService "github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
	chatService "github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
)

func TestRouterMountsAPI(t *testing.T) {
	catalogSvc := catalogService.NewService(recipe.NewMemoryStore(recipe.Seed()))
	router := NewRouter(chatService.NewService(agent.NewMockGateway(), catalogSvc), catalogSvc)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/recipes", http.StatusOK},
		{http.MethodPost, "/api/session", http.StatusCreated},
		{http.MethodGet, "/api/session/missing", http.StatusNotFound},
		{http.MethodOptions, "/api/recipes", http.StatusNoContent},
	}
	for _, tc := range cases {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(tc.method, tc.path, nil))
		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, resp.Code)
		}
	}
}
