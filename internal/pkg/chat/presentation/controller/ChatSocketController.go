package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"webochat/internal/infrastructure/realtime"
	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/application/usecase"
	repository "webochat/internal/pkg/chat/persistence/repository/port"

	qport "webochat/internal/infrastructure/queue/port"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. Clients join the room derived from the sorted identity pair and
// submit messages over the same socket; the append is durable before any
// fan-out, and fan-out never leaves the room.
type ChatSocketController struct {
	router          *realtime.Router
	appendUC        *usecase.AppendMessageUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(repo repository.ChatRepository, queue qport.Client, router *realtime.Router) *ChatSocketController {
	return &ChatSocketController{
		router:          router,
		appendUC:        usecase.NewAppendMessageUseCase(repo, queue),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

type inboundFrame struct {
	Type             string `json:"type"`
	Room             string `json:"room,omitempty"`
	SenderIdentity   string `json:"sender_identity,omitempty"`
	ReceiverIdentity string `json:"receiver_identity,omitempty"`
	Body             string `json:"body,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

type deliveredFrame struct {
	Type         string       `json:"type"`
	Room         string       `json:"room"`
	Message      chat.Message `json:"message"`
	Conversation gin.H        `json:"conversation"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.Query("identity")
		if identity == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "identity is required"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			return
		}

		conn := realtime.NewConnection(identity, ws)
		ctl.router.Attach(conn)
		conn.Start()
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		handshakeAck := ackFrame{Type: "connected"}
		if payload, err := json.Marshal(handshakeAck); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join-room":
				ctl.handleJoin(conn, frame)
			case "leave-room":
				ctl.handleLeave(conn, frame)
			case "send-message":
				ctl.handleSend(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(conn *realtime.Connection, frame inboundFrame) {
	if frame.Room == "" {
		ctl.replyError(conn, "bad_request", "room is required")
		return
	}
	ctl.router.Join(frame.Room, conn)

	ack := ackFrame{Type: "joined", Room: frame.Room}
	if payload, err := json.Marshal(ack); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.Room == "" {
		ctl.replyError(conn, "bad_request", "room is required")
		return
	}
	ctl.router.Leave(frame.Room, conn)

	ack := ackFrame{Type: "left", Room: frame.Room}
	if payload, err := json.Marshal(ack); err == nil {
		_ = conn.Send(payload)
	}
}

// handleSend persists the message and fans the post-append state out to
// the pair's room. A persistence failure is logged and the event dropped;
// the channel stays up and the sender falls back to the read API.
func (ctl *ChatSocketController) handleSend(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.SenderIdentity == "" || frame.ReceiverIdentity == "" {
		ctl.replyError(conn, "bad_request", "sender_identity and receiver_identity are required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	conv, err := ctl.appendUC.Execute(ctx, usecase.AppendMessageInput{
		SenderIdentity:   frame.SenderIdentity,
		ReceiverIdentity: frame.ReceiverIdentity,
		Body:             frame.Body,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrPersistence) {
			log.Printf("realtime: append for room %s: %v", chat.RoomKey(frame.SenderIdentity, frame.ReceiverIdentity), err)
			return
		}
		ctl.replyError(conn, "bad_request", err.Error())
		return
	}

	room := chat.RoomKey(frame.SenderIdentity, frame.ReceiverIdentity)
	msg, _ := conv.LastMessage()
	out := deliveredFrame{
		Type:         "message-delivered",
		Room:         room,
		Message:      msg,
		Conversation: conversationJSON(*conv),
	}

	payload, err := json.Marshal(out)
	if err != nil {
		ctl.replyError(conn, "internal_error", "failed to encode message")
		return
	}

	ctl.router.Broadcast(room, payload)
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:  "error",
		Code:  code,
		Error: message,
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
