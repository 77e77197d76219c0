package http

import (
	port "webochat/internal/pkg/chat/persistence/repository/port"
	"webochat/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes registers the user endpoints under the given router
// group.
func RegisterUserRoutes(g *gin.RouterGroup, repo port.ChatRepository) {
	registerCtl := controller.NewRegisterUserController(repo)

	// POST /api/v1/user -> create the local record for a provider identity
	g.POST("/user", registerCtl.Handle())
}
