package chat

import (
	"errors"
	"strings"
	"time"
)

// Domain-level errors for conversation behaviors
var (
	ErrConversationExists   = errors.New("chat: conversation already exists for this pair")
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrSelfConversation     = errors.New("chat: sender and receiver are the same user")
	ErrEmptyMessage         = errors.New("chat: message body is empty")
	ErrNothingToUnhide      = errors.New("chat: no hidden conversation to unhide")
)

// Message is an immutable log entry in a conversation. The sequence it
// belongs to is append-only; entries are never edited or removed.
type Message struct {
	ID        string    `json:"id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage validates and normalizes a message body before persistence.
func NewMessage(senderID string, body string) (Message, error) {
	if senderID == "" {
		return Message{}, errors.New("chat: sender_id is required")
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return Message{}, ErrEmptyMessage
	}
	return Message{
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Conversation is the single logical thread between exactly two users,
// unique per unordered participant pair. Sender is the participant who
// opened the thread, Receiver the other one. HiddenFor lists the local
// user ids for whom the thread is currently suppressed; hiding is
// per-user and never touches the message log.
type Conversation struct {
	ID        string    `json:"id"`
	Sender    User      `json:"sender"`
	Receiver  User      `json:"receiver"`
	Messages  []Message `json:"messages"`
	HiddenFor []string  `json:"hidden_for,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HiddenConversation is the listHidden projection: the thread plus the
// other participant's profile, so a client can offer "unhide conversation
// with X", and the time the hide was recorded.
type HiddenConversation struct {
	Conversation
	HiddenWith User      `json:"hidden_with"`
	HiddenAt   time.Time `json:"hidden_at"`
}

// HasParticipant tells whether the local user id belongs to this thread.
func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.Sender.ID == userID || c.Receiver.ID == userID)
}

// Other returns the participant that is not userID. Callers must pass one
// of the two participants.
func (c *Conversation) Other(userID string) User {
	if c.Sender.ID == userID {
		return c.Receiver
	}
	return c.Sender
}

// HiddenFrom reports whether the thread is currently hidden for userID.
func (c *Conversation) HiddenFrom(userID string) bool {
	for _, id := range c.HiddenFor {
		if id == userID {
			return true
		}
	}
	return false
}

// LastMessage returns the newest entry of the append-only sequence.
func (c *Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// RoomKey derives the realtime room identifier for a participant pair from
// their provider identities: lexicographically smaller identity first, then
// an underscore, then the other. Both participants compute the same key
// independently, without a lookup round-trip.
func RoomKey(identityA, identityB string) string {
	if identityA > identityB {
		identityA, identityB = identityB, identityA
	}
	return identityA + "_" + identityB
}
