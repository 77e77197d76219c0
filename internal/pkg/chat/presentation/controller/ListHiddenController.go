package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/application/usecase"
	repository "webochat/internal/pkg/chat/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// ListHiddenController handles the hidden-conversation list endpoint (one
// controller per endpoint). The path carries the provider identity, the
// way the client addresses its own signed-in user.
type ListHiddenController struct {
	UC *usecase.ListHiddenUseCase
}

func NewListHiddenController(repo repository.ChatRepository) *ListHiddenController {
	return &ListHiddenController{UC: usecase.NewListHiddenUseCase(repo)}
}

func (h *ListHiddenController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identityID := c.Param("identityId")
		if identityID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "identityId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		hidden, err := h.UC.Execute(ctx, usecase.ListHiddenInput{IdentityID: identityID})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, chat.ErrUserNotFound):
				status = http.StatusNotFound
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		out := make([]gin.H, 0, len(hidden))
		for _, hc := range hidden {
			out = append(out, hiddenJSON(hc))
		}
		c.JSON(http.StatusOK, out)
	}
}
