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

// AddContactController handles the explicit conversation-create endpoint
// (one controller per endpoint).
type AddContactController struct {
	UC *usecase.AddContactUseCase
}

func NewAddContactController(repo repository.ChatRepository) *AddContactController {
	return &AddContactController{UC: usecase.NewAddContactUseCase(repo)}
}

// addContactRequest is the DTO for the HTTP request body
type addContactRequest struct {
	SenderEmail   string `json:"sender_email" binding:"required,email"`
	ReceiverEmail string `json:"receiver_email" binding:"required,email"`
}

func (h *AddContactController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.AddContactInput{SenderEmail: req.SenderEmail, ReceiverEmail: req.ReceiverEmail}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		conv, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, chat.ErrUserNotFound):
				status = http.StatusNotFound
			case errors.Is(err, chat.ErrConversationExists):
				status = http.StatusConflict
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, conversationJSON(*conv))
	}
}
