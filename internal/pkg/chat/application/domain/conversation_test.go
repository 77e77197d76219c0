package chat

import (
	"testing"
	"time"
)

func TestRoomKeySortsIdentities(t *testing.T) {
	if got := RoomKey("u2", "u1"); got != "u1_u2" {
		t.Errorf("expected u1_u2, got %s", got)
	}
	if RoomKey("u1", "u2") != RoomKey("u2", "u1") {
		t.Error("room key must be identical regardless of argument order")
	}
}

func TestNewMessageTrimsBody(t *testing.T) {
	m, err := NewMessage("user-1", "  hi  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Body != "hi" {
		t.Errorf("expected trimmed body, got %q", m.Body)
	}
	if m.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestNewMessageRejectsEmptyBody(t *testing.T) {
	if _, err := NewMessage("user-1", "   "); err != ErrEmptyMessage {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestNewMessageRequiresSender(t *testing.T) {
	if _, err := NewMessage("", "hi"); err == nil {
		t.Error("expected error for missing sender")
	}
}

func TestConversationParticipants(t *testing.T) {
	conv := Conversation{
		Sender:   User{ID: "a", DisplayName: "Alice"},
		Receiver: User{ID: "b", DisplayName: "Bob"},
	}

	if !conv.HasParticipant("a") || !conv.HasParticipant("b") {
		t.Error("both participants must be recognized")
	}
	if conv.HasParticipant("c") || conv.HasParticipant("") {
		t.Error("non-participants must not be recognized")
	}
	if got := conv.Other("a"); got.ID != "b" {
		t.Errorf("expected other of a to be b, got %s", got.ID)
	}
	if got := conv.Other("b"); got.ID != "a" {
		t.Errorf("expected other of b to be a, got %s", got.ID)
	}
}

func TestHiddenFrom(t *testing.T) {
	conv := Conversation{HiddenFor: []string{"a"}}
	if !conv.HiddenFrom("a") {
		t.Error("expected hidden for a")
	}
	if conv.HiddenFrom("b") {
		t.Error("expected visible for b")
	}
}

func TestLastMessage(t *testing.T) {
	conv := Conversation{}
	if _, ok := conv.LastMessage(); ok {
		t.Error("empty conversation must have no last message")
	}

	first := Message{Body: "one", CreatedAt: time.Now()}
	second := Message{Body: "two", CreatedAt: time.Now()}
	conv.Messages = []Message{first, second}
	last, ok := conv.LastMessage()
	if !ok || last.Body != "two" {
		t.Errorf("expected last message two, got %+v ok=%v", last, ok)
	}
}
