package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"webochat/internal/pkg/chat/application/usecase"
	repository "webochat/internal/pkg/chat/persistence/repository/port"

	"github.com/gin-gonic/gin"
)

// RegisterUserController handles the user upsert endpoint (one controller
// per endpoint). The client relays the identity provider's sign-in event
// here to create the local record.
type RegisterUserController struct {
	UC *usecase.RegisterUserUseCase
}

func NewRegisterUserController(repo repository.ChatRepository) *RegisterUserController {
	return &RegisterUserController{UC: usecase.NewRegisterUserUseCase(repo)}
}

// registerUserRequest is the DTO for the HTTP request body
type registerUserRequest struct {
	IdentityID  string `json:"identity_id" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url"`
}

func (h *RegisterUserController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.RegisterUserInput{
			IdentityID:  req.IdentityID,
			DisplayName: req.DisplayName,
			Email:       req.Email,
			AvatarURL:   req.AvatarURL,
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		u, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, u)
	}
}
