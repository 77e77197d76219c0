package repository

import (
	"context"

	chat "webochat/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence operations for the chat domain.
//
// The conversation record for a pair is the only shared mutable resource;
// implementations must provide the mutation operations below atomically:
// AppendMessage is a single find-or-create-and-append (no separate
// read/modify/write steps), Hide/Unhide are idempotent set mutations that
// report how many rows they actually changed.
type ChatRepository interface {
	// CreateUser inserts the local record for a provider identity.
	// Returns chat.ErrUserExists when identity_id or email is taken.
	CreateUser(ctx context.Context, u chat.User) (chat.User, error)
	GetUserByEmail(ctx context.Context, email string) (chat.User, error)
	GetUserByIdentity(ctx context.Context, identityID string) (chat.User, error)

	// CreateConversation opens the thread for an unordered pair with an
	// empty message sequence. Returns chat.ErrConversationExists when a
	// thread for the pair exists in either direction; state is untouched
	// in that case.
	CreateConversation(ctx context.Context, senderID, receiverID string) (chat.Conversation, error)

	// AppendMessage appends m to the pair's thread, creating the thread
	// with m as its first entry when absent, and advances the thread's
	// updated_at. The whole operation commits atomically. The returned
	// conversation is the post-append state.
	AppendMessage(ctx context.Context, senderID, receiverID string, m chat.Message) (chat.Conversation, error)

	// ListVisible returns every thread the user participates in and has
	// not hidden, newest activity first.
	ListVisible(ctx context.Context, userID string) ([]chat.Conversation, error)

	// ListHidden returns exactly the threads the user has hidden,
	// newest activity first.
	ListHidden(ctx context.Context, userID string) ([]chat.HiddenConversation, error)

	// Hide suppresses the pair's thread for userID only and returns the
	// number of threads affected (0 when already hidden or absent).
	Hide(ctx context.Context, userID, otherID string) (int64, error)

	// Unhide reverses Hide and returns the number of threads affected.
	Unhide(ctx context.Context, userID, otherID string) (int64, error)
}
