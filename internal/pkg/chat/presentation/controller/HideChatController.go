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

// HideChatController handles the per-user hide endpoint (one controller
// per endpoint). Hiding suppresses the thread for the requesting user
// only; the other participant and the message log are untouched.
type HideChatController struct {
	UC *usecase.HideConversationUseCase
}

func NewHideChatController(repo repository.ChatRepository, queue qport.Client) *HideChatController {
	return &HideChatController{UC: usecase.NewHideConversationUseCase(repo, queue)}
}

// hideChatRequest is the DTO for the HTTP request body
type hideChatRequest struct {
	UserEmail  string `json:"user_email" binding:"required,email"`
	OtherEmail string `json:"other_email" binding:"required,email"`
}

func (h *HideChatController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req hideChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.HideConversationInput{UserEmail: req.UserEmail, OtherEmail: req.OtherEmail}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		count, err := h.UC.Execute(ctx, in)
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

		c.JSON(http.StatusOK, gin.H{"modified_count": count})
	}
}
