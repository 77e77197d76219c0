package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/application/usecase"
	repository "webochat/internal/pkg/chat/persistence/repository/port"

	qport "webochat/internal/infrastructure/queue/port"

	"github.com/gin-gonic/gin"
)

// UnhideChatController handles the unhide endpoint (one controller per
// endpoint).
type UnhideChatController struct {
	UC *usecase.UnhideConversationUseCase
}

func NewUnhideChatController(repo repository.ChatRepository, queue qport.Client) *UnhideChatController {
	return &UnhideChatController{UC: usecase.NewUnhideConversationUseCase(repo, queue)}
}

// unhideChatRequest is the DTO for the HTTP request body
type unhideChatRequest struct {
	UserEmail  string `json:"user_email" binding:"required,email"`
	OtherEmail string `json:"other_email" binding:"required,email"`
}

func (h *UnhideChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req unhideChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.UnhideConversationInput{UserEmail: req.UserEmail, OtherEmail: req.OtherEmail}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		count, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, chat.ErrNothingToUnhide):
				status = http.StatusNotFound
			case errors.Is(err, chat.ErrUserNotFound):
				status = http.StatusNotFound
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"modified_count": count})
	}
}
