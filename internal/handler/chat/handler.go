package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/culinary-craft/backend/internal/handler/httperr"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/recipe"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/agent"
	chatService "github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/review"
	"github.com/zhouzirui/culinary-craft/backend/pkg/utils"
)

// maxUploadSize 限制附件大小。
const maxUploadSize = 10 << 20

// RecipeFinder 按 id 查找目录中的菜谱。
type RecipeFinder interface {
	Find(ctx context.Context, id string) (recipe.Record, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
	recipes RecipeFinder
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service, recipes RecipeFinder) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		recipes: recipes,
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Route("/session/{sessionID}", func(r chi.Router) {
		r.Get("/", h.handleGetSession)
		r.Delete("/", h.handleEndSession)
		r.Post("/messages", h.handleSendMessage)
		r.Post("/save", h.handleSave)
		r.Patch("/draft", h.handleEditDraft)
		r.Post("/draft/mode", h.handleDraftMode)
		r.Post("/draft/commit", h.handleCommitDraft)
		r.Post("/draft/cancel", h.handleCancelDraft)
	})
}

type createSessionRequest struct {
	RecipeID string         `json:"recipeId"`
	Recipe   *recipe.Record `json:"recipeToImprove"`
	SaveMode string         `json:"saveMode"`
}

// handleCreateSession 创建会话，可携带需要改进的菜谱
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if _, err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := context.WithoutCancel(r.Context())

	var handoff *chat.Handoff
	switch {
	case payload.Recipe != nil:
		handoff = &chat.Handoff{Recipe: *payload.Recipe, SaveMode: recipe.ParseSaveMode(payload.SaveMode)}
	case payload.RecipeID != "":
		record, err := h.recipes.Find(ctx, payload.RecipeID)
		if err != nil {
			httperr.Respond(w, err)
			return
		}
		handoff = &chat.Handoff{Recipe: record, SaveMode: recipe.ParseSaveMode(payload.SaveMode)}
	}

	session, err := h.chatSvc.StartSession(ctx, handoff)
	if err != nil {
		httperr.Respond(w, err)
		return
	}

	snapshot, err := h.chatSvc.Snapshot(ctx, session.ID)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, snapshot)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.chatSvc.Snapshot(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.EndSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		httperr.Respond(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSendMessage 接收 JSON 或 multipart（text + file）消息
func (h *Handler) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	text, file, err := readMessage(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// 客户端断开后仍然记录回复。
	msg, err := h.chatSvc.SendMessage(context.WithoutCancel(r.Context()), sessionID, text, file)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, msg)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	result, err := h.chatSvc.RequestSave(context.WithoutCancel(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleEditDraft(w http.ResponseWriter, r *http.Request) {
	var patch review.Patch
	if _, err := utils.DecodeJSON(w, r, &patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.chatSvc.EditDraft(r.Context(), chi.URLParam(r, "sessionID"), patch)
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

// handleDraftMode 切换查看/编辑模式；未指定 mode 时取反
func (h *Handler) handleDraftMode(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mode string `json:"mode"`
	}
	if _, err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	var (
		view review.View
		err  error
	)
	if payload.Mode == "" {
		view, err = h.chatSvc.ToggleDraftMode(r.Context(), sessionID)
	} else {
		mode, parseErr := review.ParseMode(payload.Mode)
		if parseErr != nil {
			utils.RespondError(w, http.StatusBadRequest, parseErr.Error())
			return
		}
		view, err = h.chatSvc.SetDraftMode(r.Context(), sessionID, mode)
	}
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCommitDraft(w http.ResponseWriter, r *http.Request) {
	record, err := h.chatSvc.CommitDraft(context.WithoutCancel(r.Context()), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, record)
}

func (h *Handler) handleCancelDraft(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatSvc.CancelDraft(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		httperr.Respond(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, view)
}

func readMessage(w http.ResponseWriter, r *http.Request) (string, *agent.Attachment, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var payload struct {
			Text string `json:"text"`
		}
		if _, err := utils.DecodeJSON(w, r, &payload); err != nil {
			return "", nil, errors.New("invalid request body")
		}
		return payload.Text, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return "", nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	text := r.FormValue("text")

	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return text, nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("invalid file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, fmt.Errorf("read file: %w", err)
	}
	log.Printf("[chat] received attachment %s (%d bytes)", header.Filename, len(data))
	return text, &agent.Attachment{Name: header.Filename, Data: data}, nil
}
