package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/culinary-craft/backend/internal/handler/catalog"
	"github.com/zhouzirui/culinary-craft/backend/internal/handler/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/handler/stream"
	"github.com/zhouzirui/culinary-craft/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/culinary-craft/backend/internal/middleware"
	catalogService "github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
	chatService "github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
	"github.com/zhouzirui/culinary-craft/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, catalogSvc *catalogService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		catalog.New(catalogSvc).RegisterRoutes(api)
		chat.New(chatSvc, catalogSvc).RegisterRoutes(api)
		stream.New(chatSvc).RegisterRoutes(api)
		ws.New(chatSvc).RegisterRoutes(api)
	})

	return r
}
