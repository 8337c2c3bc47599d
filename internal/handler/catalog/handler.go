package catalog

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/culinary-craft/backend/internal/handler/httperr"
	catalogService "github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/review"
	"github.com/zhouzirui/culinary-craft/backend/pkg/utils"
)

// Handler 菜谱目录的HTTP处理器
type Handler struct {
	recipes *catalogService.Service
}

// New 创建目录处理器
func New(recipes *catalogService.Service) *Handler {
	return &Handler{
		recipes: recipes,
	}
}

// RegisterRoutes 注册目录相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/recipes", h.handleListRecipes)
	r.Get("/recipes/{recipeID}", h.handleGetRecipe)
	r.Put("/recipes/{recipeID}", h.handleUpdateRecipe)
	r.Delete("/recipes/{recipeID}", h.handleDeleteRecipe)
}

// handleListRecipes 列出所有菜谱
func (h *Handler) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	records, err := h.recipes.List(r.Context())
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	record, err := h.recipes.Find(r.Context(), chi.URLParam(r, "recipeID"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, record)
}

// handleUpdateRecipe 在目录中直接编辑菜谱，id 不变
func (h *Handler) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var patch review.Patch
	if _, err := utils.DecodeJSON(w, r, &patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := context.WithoutCancel(r.Context())
	existing, err := h.recipes.Find(ctx, chi.URLParam(r, "recipeID"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}

	ctrl := review.NewController(h.recipes)
	ctrl.BeginFromRecord(existing)
	if _, err := ctrl.Edit(patch); err != nil {
		httperr.Respond(w, err)
		return
	}

	record, err := ctrl.Commit(ctx)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, record)
}

// handleDeleteRecipe 删除菜谱，不存在时同样成功
func (h *Handler) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := h.recipes.Delete(context.WithoutCancel(r.Context()), chi.URLParam(r, "recipeID")); err != nil {
		httperr.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
