package usecase

import (
	"context"
	"encoding/json"
	"time"

	cport "webochat/internal/infrastructure/cache/port"
	chat "webochat/internal/pkg/chat/application/domain"
	"webochat/internal/pkg/chat/application/task"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// ListConversationsInput wraps the requesting user's email.
type ListConversationsInput struct {
	Email string
}

// ListConversationsUseCase returns the user's visible threads, newest
// activity first, with both participants' profiles and the full message
// sequences. Results are served read-through from the cache when one is
// wired; mutations evict via the background queue, and the TTL bounds
// staleness if an eviction is lost.
type ListConversationsUseCase struct {
	Repo  repository.ChatRepository
	Cache cport.Cache   // optional
	TTL   time.Duration // cache TTL; defaults to one minute
}

func NewListConversationsUseCase(repo repository.ChatRepository, cache cport.Cache) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Cache: cache}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.Conversation, error) {
	user, err := resolveUser(ctx, uc.Repo, "", in.Email)
	if err != nil {
		return nil, err
	}

	key := task.SummaryCacheKey(user.ID)
	if uc.Cache != nil {
		if cached, err := uc.Cache.Get(ctx, key); err == nil {
			var convs []chat.Conversation
			if json.Unmarshal([]byte(cached), &convs) == nil {
				return convs, nil
			}
		}
	}

	convs, err := uc.Repo.ListVisible(ctx, user.ID)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	if uc.Cache != nil {
		if encoded, err := json.Marshal(convs); err == nil {
			ttl := uc.TTL
			if ttl <= 0 {
				ttl = time.Minute
			}
			_ = uc.Cache.Set(ctx, key, string(encoded), ttl)
		}
	}
	return convs, nil
}
