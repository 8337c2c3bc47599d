package httperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/zhouzirui/culinary-craft/backend/internal/service/agent"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/catalog"
	chatservice "github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
	"github.com/zhouzirui/culinary-craft/backend/internal/service/review"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{chatservice.ErrSessionNotFound, http.StatusNotFound},
		{fmt.Errorf("commit: %w", review.ErrNotReviewing), http.StatusConflict},
		{chatservice.ErrRequestInFlight, http.StatusConflict},
		{agent.ErrEmptyPrompt, http.StatusBadRequest},
		{fmt.Errorf("commit draft: %w", review.ErrPersistenceFailed), http.StatusBadGateway},
		{catalog.ErrRecipeNotFound, http.StatusNotFound},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := Status(tc.err); got != tc.want {
			t.Fatalf("Status(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
