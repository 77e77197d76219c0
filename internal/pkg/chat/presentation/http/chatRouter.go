package http

import (
	cport "webochat/internal/infrastructure/cache/port"
	qport "webochat/internal/infrastructure/queue/port"
	"webochat/internal/infrastructure/realtime"
	port "webochat/internal/pkg/chat/persistence/repository/port"
	"webochat/internal/pkg/chat/presentation/controller"

	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversation endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes.
func RegisterChatRoutes(g *gin.RouterGroup, repo port.ChatRepository, cache cport.Cache, queue qport.Client) {
	addCtl := controller.NewAddContactController(repo)
	listCtl := controller.NewListChatsController(repo, cache)
	sendCtl := controller.NewSendMessageController(repo, queue)
	hideCtl := controller.NewHideChatController(repo, queue)
	unhideCtl := controller.NewUnhideChatController(repo, queue)
	hiddenCtl := controller.NewListHiddenController(repo)

	// POST /api/v1/chat -> open a conversation for a pair explicitly
	g.POST("/chat", addCtl.Handle())

	// GET /api/v1/chat/:email -> visible conversations for a user
	g.GET("/chat/:email", listCtl.Handle())

	// POST /api/v1/chat/send-message -> append over HTTP (implicit create)
	g.POST("/chat/send-message", sendCtl.Handle())

	// DELETE /api/v1/chat -> hide a conversation for the requesting user
	g.DELETE("/chat", hideCtl.Handle())

	// POST /api/v1/chat/unhide -> reverse a hide
	g.POST("/chat/unhide", unhideCtl.Handle())

	// GET /api/v1/hidden/:identityId -> conversations the user has hidden
	g.GET("/hidden/:identityId", hiddenCtl.Handle())
}

// RegisterSocketRoutes registers the realtime websocket endpoint. It stays
// outside the authenticated group: the socket carries its own identity and
// browser websocket clients cannot set an Authorization header.
func RegisterSocketRoutes(g *gin.RouterGroup, repo port.ChatRepository, queue qport.Client, router *realtime.Router) {
	socketCtl := controller.NewChatSocketController(repo, queue, router)

	// GET /api/v1/ws?identity=... -> websocket endpoint for realtime chat
	g.GET("/ws", socketCtl.Handle())
}
