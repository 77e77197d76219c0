package controller

import (
	chat "webochat/internal/pkg/chat/application/domain"

	"github.com/gin-gonic/gin"
)

// conversationJSON shapes a conversation for API responses: both
// participants' profiles, the full message sequence, and the computed
// last_message / last_message_time fields the client sorts and previews by.
func conversationJSON(conv chat.Conversation) gin.H {
	messages := conv.Messages
	if messages == nil {
		messages = []chat.Message{}
	}
	out := gin.H{
		"id":         conv.ID,
		"sender":     conv.Sender,
		"receiver":   conv.Receiver,
		"messages":   messages,
		"created_at": conv.CreatedAt,
		"updated_at": conv.UpdatedAt,
	}
	if last, ok := conv.LastMessage(); ok {
		out["last_message"] = last.Body
		out["last_message_time"] = last.CreatedAt
	}
	return out
}

// hiddenJSON additionally surfaces the other participant's profile and the
// hide timestamp, so the client can offer "unhide conversation with X".
func hiddenJSON(h chat.HiddenConversation) gin.H {
	out := conversationJSON(h.Conversation)
	out["hidden_with"] = h.HiddenWith
	out["hidden_at"] = h.HiddenAt
	return out
}
