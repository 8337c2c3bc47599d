// Package httperr maps service errors onto HTTP status codes.
package httperr

import (
	"errors"
	"net/http"

	"github.com/zhouzirui/culinary-craft/backend/internal/service/agent"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
	chatservice "github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/review"
	"github.com/zhouzirui/culinary-craft/backend/pkg/utils"
)

// Status returns the response code for err.
func Status(err error) int {
	switch {
	case errors.Is(err, chatservice.ErrSessionNotFound), errors.Is(err, catalog.ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatservice.ErrRequestInFlight), errors.Is(err, review.ErrNotReviewing):
		return http.StatusConflict
	case errors.Is(err, agent.ErrEmptyPrompt), errors.Is(err, catalog.ErrRecipeIDRequired):
		return http.StatusBadRequest
	case errors.Is(err, review.ErrPersistenceFailed), errors.Is(err, agent.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error body.
func Respond(w http.ResponseWriter, err error) {
	utils.RespondError(w, Status(err), err.Error())
}
