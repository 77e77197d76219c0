package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/application/usecase"
	repository "webochat/internal/pkg/chat/persistence/repository/port"

	cport "webochat/internal/infrastructure/cache/port"

	"github.com/gin-gonic/gin"
)

// ListChatsController handles the visible-conversation list endpoint (one
// controller per endpoint).
type ListChatsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListChatsController(repo repository.ChatRepository, cache cport.Cache) *ListChatsController {
	return &ListChatsController{UC: usecase.NewListConversationsUseCase(repo, cache)}
}

func (h *ListChatsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		convs, err := h.UC.Execute(ctx, usecase.ListConversationsInput{Email: email})
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

		out := make([]gin.H, 0, len(convs))
		for _, conv := range convs {
			out = append(out, conversationJSON(conv))
		}
		c.JSON(http.StatusOK, out)
	}
}
