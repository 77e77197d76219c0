package v1

import (
	"webochat/internal/auth"
	cport "webochat/internal/infrastructure/cache/port"
	qport "webochat/internal/infrastructure/queue/port"
	"webochat/internal/infrastructure/realtime"
	port "webochat/internal/pkg/chat/persistence/repository/port"
	httpHandler "webochat/internal/pkg/chat/presentation/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1. A nil
// authenticator leaves the REST surface open; the websocket endpoint is
// never behind the token check (see RegisterSocketRoutes).
func RegisterRoutes(r *gin.Engine, repo port.ChatRepository, cache cport.Cache, queue qport.Client, rt *realtime.Router, authn *auth.Authenticator) {
	v1 := r.Group("/api/v1")

	rest := v1.Group("")
	if authn != nil {
		rest.Use(authn.Middleware())
	}
	httpHandler.RegisterUserRoutes(rest, repo)
	httpHandler.RegisterChatRoutes(rest, repo, cache, queue)

	httpHandler.RegisterSocketRoutes(v1, repo, queue, rt)
}
