package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	qport "webochat/internal/infrastructure/queue/port"
	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/application/task"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// resolveUser finds the local user record behind either addressing mode:
// a provider identity (realtime channel) or an email (directory API).
func resolveUser(ctx context.Context, repo repository.ChatRepository, identityID, email string) (chat.User, error) {
	var (
		u   chat.User
		err error
	)
	switch {
	case identityID != "":
		u, err = repo.GetUserByIdentity(ctx, identityID)
	case email != "":
		u, err = repo.GetUserByEmail(ctx, email)
	default:
		return chat.User{}, fmt.Errorf("user identity or email is required")
	}
	if err != nil {
		if err == chat.ErrUserNotFound {
			return chat.User{}, err
		}
		return chat.User{}, wrapPersistence(err)
	}
	return u, nil
}

// enqueueEviction drops the users' cached conversation summaries via the
// background queue. Best effort: a missing queue or a failed enqueue only
// delays cache expiry, so failures are logged and swallowed.
func enqueueEviction(ctx context.Context, q qport.Client, userIDs ...string) {
	if q == nil {
		return
	}
	t, err := task.NewEvictSummariesTask(userIDs...)
	if err != nil {
		log.Printf("chat: build eviction task: %v", err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := q.Enqueue(ctx, t, qport.EnqueueOption{Queue: "chat", MaxRetry: 3}); err != nil {
		log.Printf("chat: enqueue summary eviction: %v", err)
	}
}
