package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/persistence/repository/adapter"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

func registerUser(t *testing.T, repo repository.ChatRepository, identity, name, email string) chat.User {
	t.Helper()
	uc := NewRegisterUserUseCase(repo)
	u, err := uc.Execute(context.Background(), RegisterUserInput{
		IdentityID:  identity,
		DisplayName: name,
		Email:       email,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return *u
}

func TestRegisterUserDuplicate(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")

	uc := NewRegisterUserUseCase(repo)
	_, err := uc.Execute(context.Background(), RegisterUserInput{
		IdentityID:  "u1",
		DisplayName: "Alice Again",
		Email:       "alice2@x.com",
	})
	if !errors.Is(err, chat.ErrUserExists) {
		t.Errorf("expected ErrUserExists for duplicate identity, got %v", err)
	}

	_, err = uc.Execute(context.Background(), RegisterUserInput{
		IdentityID:  "u99",
		DisplayName: "Alice Again",
		Email:       "alice@x.com",
	})
	if !errors.Is(err, chat.ErrUserExists) {
		t.Errorf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAddContactBidirectionalConflict(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	uc := NewAddContactUseCase(repo)
	conv, err := uc.Execute(context.Background(), AddContactInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "bob@x.com",
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if len(conv.Messages) != 0 {
		t.Errorf("new conversation must start empty, got %d messages", len(conv.Messages))
	}

	_, err = uc.Execute(context.Background(), AddContactInput{
		SenderEmail:   "bob@x.com",
		ReceiverEmail: "alice@x.com",
	})
	if !errors.Is(err, chat.ErrConversationExists) {
		t.Errorf("expected ErrConversationExists on reversed pair, got %v", err)
	}
}

func TestAddContactUnknownEmail(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")

	uc := NewAddContactUseCase(repo)
	_, err := uc.Execute(context.Background(), AddContactInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "nobody@x.com",
	})
	if !errors.Is(err, chat.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAddContactSelfPair(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")

	uc := NewAddContactUseCase(repo)
	_, err := uc.Execute(context.Background(), AddContactInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "alice@x.com",
	})
	if !errors.Is(err, chat.ErrSelfConversation) {
		t.Errorf("expected ErrSelfConversation, got %v", err)
	}
}

func TestAppendMessageImplicitCreate(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	uc := NewAppendMessageUseCase(repo, nil)
	conv, err := uc.Execute(context.Background(), AppendMessageInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "bob@x.com",
		Body:          "hi",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Body != "hi" {
		t.Fatalf("expected one message 'hi', got %+v", conv.Messages)
	}
	if conv.Messages[0].SenderID != conv.Sender.ID && conv.Messages[0].SenderID != conv.Receiver.ID {
		t.Error("message sender must be a participant")
	}
}

func TestAppendMessageByIdentity(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	uc := NewAppendMessageUseCase(repo, nil)
	conv, err := uc.Execute(context.Background(), AppendMessageInput{
		SenderIdentity:   "u1",
		ReceiverIdentity: "u2",
		Body:             "over the socket",
	})
	if err != nil {
		t.Fatalf("append by identity: %v", err)
	}
	if len(conv.Messages) != 1 {
		t.Fatalf("expected one message, got %d", len(conv.Messages))
	}
}

func TestAppendMessagePreservesOrder(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	uc := NewAppendMessageUseCase(repo, nil)
	bodies := []string{"one", "two", "three", "four", "five"}
	var last *chat.Conversation
	for _, body := range bodies {
		conv, err := uc.Execute(context.Background(), AppendMessageInput{
			SenderEmail:   "alice@x.com",
			ReceiverEmail: "bob@x.com",
			Body:          body,
		})
		if err != nil {
			t.Fatalf("append %q: %v", body, err)
		}
		last = conv
	}

	if len(last.Messages) != len(bodies) {
		t.Fatalf("expected %d messages, got %d", len(bodies), len(last.Messages))
	}
	for i, body := range bodies {
		if last.Messages[i].Body != body {
			t.Errorf("position %d: expected %q, got %q", i, body, last.Messages[i].Body)
		}
	}
}

func TestAppendMessageEmptyBody(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	uc := NewAppendMessageUseCase(repo, nil)
	_, err := uc.Execute(context.Background(), AppendMessageInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "bob@x.com",
		Body:          "   ",
	})
	if !errors.Is(err, chat.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestConcurrentAppendSameNewPair(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	uc := NewAppendMessageUseCase(repo, nil)
	var wg sync.WaitGroup
	for _, in := range []AppendMessageInput{
		{SenderEmail: "alice@x.com", ReceiverEmail: "bob@x.com", Body: "from alice"},
		{SenderEmail: "bob@x.com", ReceiverEmail: "alice@x.com", Body: "from bob"},
	} {
		wg.Add(1)
		go func(in AppendMessageInput) {
			defer wg.Done()
			if _, err := uc.Execute(context.Background(), in); err != nil {
				t.Errorf("append %q: %v", in.Body, err)
			}
		}(in)
	}
	wg.Wait()

	listUC := NewListConversationsUseCase(repo, nil)
	convs, err := listUC.Execute(context.Background(), ListConversationsInput{Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 1 {
		t.Fatalf("expected exactly one conversation after concurrent appends, got %d", len(convs))
	}
	if len(convs[0].Messages) != 2 {
		t.Errorf("expected both messages in the single conversation, got %d", len(convs[0].Messages))
	}
}

func TestHideIsPerUserAndReversible(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	appendUC := NewAppendMessageUseCase(repo, nil)
	if _, err := appendUC.Execute(context.Background(), AppendMessageInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "bob@x.com",
		Body:          "hi",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	hideUC := NewHideConversationUseCase(repo, nil)
	count, err := hideUC.Execute(context.Background(), HideConversationInput{
		UserEmail:  "bob@x.com",
		OtherEmail: "alice@x.com",
	})
	if err != nil || count != 1 {
		t.Fatalf("hide: count=%d err=%v", count, err)
	}

	// Hiding again is a no-op.
	count, err = hideUC.Execute(context.Background(), HideConversationInput{
		UserEmail:  "bob@x.com",
		OtherEmail: "alice@x.com",
	})
	if err != nil || count != 0 {
		t.Fatalf("second hide: count=%d err=%v", count, err)
	}

	listUC := NewListConversationsUseCase(repo, nil)
	bobConvs, err := listUC.Execute(context.Background(), ListConversationsInput{Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("list bob: %v", err)
	}
	if len(bobConvs) != 0 {
		t.Errorf("expected hidden conversation excluded for bob, got %d", len(bobConvs))
	}

	aliceConvs, err := listUC.Execute(context.Background(), ListConversationsInput{Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("list alice: %v", err)
	}
	if len(aliceConvs) != 1 {
		t.Errorf("hide must not affect the other participant, got %d for alice", len(aliceConvs))
	}

	hiddenUC := NewListHiddenUseCase(repo)
	hidden, err := hiddenUC.Execute(context.Background(), ListHiddenInput{IdentityID: "u2"})
	if err != nil {
		t.Fatalf("list hidden: %v", err)
	}
	if len(hidden) != 1 {
		t.Fatalf("expected one hidden conversation for bob, got %d", len(hidden))
	}
	if hidden[0].HiddenWith.Email != "alice@x.com" {
		t.Errorf("hidden_with must surface the other participant, got %s", hidden[0].HiddenWith.Email)
	}
	if hidden[0].HiddenAt.IsZero() {
		t.Error("hidden_at must record the hide time")
	}

	unhideUC := NewUnhideConversationUseCase(repo, nil)
	count, err = unhideUC.Execute(context.Background(), UnhideConversationInput{
		UserEmail:  "bob@x.com",
		OtherEmail: "alice@x.com",
	})
	if err != nil || count != 1 {
		t.Fatalf("unhide: count=%d err=%v", count, err)
	}

	bobConvs, err = listUC.Execute(context.Background(), ListConversationsInput{Email: "bob@x.com"})
	if err != nil {
		t.Fatalf("list bob after unhide: %v", err)
	}
	if len(bobConvs) != 1 || len(bobConvs[0].Messages) != 1 {
		t.Error("unhide must restore the conversation with messages intact")
	}
}

func TestUnhideNothingToUnhide(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")

	appendUC := NewAppendMessageUseCase(repo, nil)
	if _, err := appendUC.Execute(context.Background(), AppendMessageInput{
		SenderEmail:   "alice@x.com",
		ReceiverEmail: "bob@x.com",
		Body:          "hi",
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	uc := NewUnhideConversationUseCase(repo, nil)
	_, err := uc.Execute(context.Background(), UnhideConversationInput{
		UserEmail:  "bob@x.com",
		OtherEmail: "alice@x.com",
	})
	if !errors.Is(err, chat.ErrNothingToUnhide) {
		t.Errorf("expected ErrNothingToUnhide, got %v", err)
	}
}

func TestListVisibleSortedByRecency(t *testing.T) {
	repo := adapter.NewMemChatRepository()
	registerUser(t, repo, "u1", "Alice", "alice@x.com")
	registerUser(t, repo, "u2", "Bob", "bob@x.com")
	registerUser(t, repo, "u3", "Cara", "cara@x.com")

	appendUC := NewAppendMessageUseCase(repo, nil)
	for _, in := range []AppendMessageInput{
		{SenderEmail: "alice@x.com", ReceiverEmail: "bob@x.com", Body: "older"},
		{SenderEmail: "alice@x.com", ReceiverEmail: "cara@x.com", Body: "newer"},
	} {
		if _, err := appendUC.Execute(context.Background(), in); err != nil {
			t.Fatalf("append %q: %v", in.Body, err)
		}
	}

	listUC := NewListConversationsUseCase(repo, nil)
	convs, err := listUC.Execute(context.Background(), ListConversationsInput{Email: "alice@x.com"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("expected two conversations, got %d", len(convs))
	}
	if convs[0].UpdatedAt.Before(convs[1].UpdatedAt) {
		t.Error("expected newest activity first")
	}
}
