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

// SendMessageController handles the HTTP send path (one controller per
// endpoint). Append semantics match the realtime channel: the thread is
// created implicitly on the first message between the pair.
type SendMessageController struct {
	UC *usecase.AppendMessageUseCase
}

func NewSendMessageController(repo repository.ChatRepository, queue qport.Client) *SendMessageController {
	return &SendMessageController{UC: usecase.NewAppendMessageUseCase(repo, queue)}
}

// sendMessageRequest is the DTO for the HTTP request body
type sendMessageRequest struct {
	SenderEmail   string `json:"sender_email" binding:"required,email"`
	ReceiverEmail string `json:"receiver_email" binding:"required,email"`
	Message       string `json:"message" binding:"required"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.AppendMessageInput{
			SenderEmail:   req.SenderEmail,
			ReceiverEmail: req.ReceiverEmail,
			Body:          req.Message,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, in)
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

		c.JSON(http.StatusOK, conversationJSON(*conv))
	}
}
