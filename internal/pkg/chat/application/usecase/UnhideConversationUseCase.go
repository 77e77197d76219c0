package usecase

import (
	"context"

	qport "webochat/internal/infrastructure/queue/port"
	chat "webochat/internal/pkg/chat/application/domain"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// UnhideConversationInput mirrors HideConversationInput.
type UnhideConversationInput struct {
	UserEmail  string
	OtherEmail string
}

// UnhideConversationUseCase reverses a hide for the requesting user.
type UnhideConversationUseCase struct {
	Repo  repository.ChatRepository
	Queue qport.Client // optional
}

func NewUnhideConversationUseCase(repo repository.ChatRepository, queue qport.Client) *UnhideConversationUseCase {
	return &UnhideConversationUseCase{Repo: repo, Queue: queue}
}

// Execute returns how many threads were affected. When nothing was hidden
// for the pair it returns chat.ErrNothingToUnhide and state is unchanged.
func (uc *UnhideConversationUseCase) Execute(ctx context.Context, in UnhideConversationInput) (int64, error) {
	user, err := resolveUser(ctx, uc.Repo, "", in.UserEmail)
	if err != nil {
		return 0, err
	}
	other, err := resolveUser(ctx, uc.Repo, "", in.OtherEmail)
	if err != nil {
		return 0, err
	}

	count, err := uc.Repo.Unhide(ctx, user.ID, other.ID)
	if err != nil {
		return 0, wrapPersistence(err)
	}
	if count == 0 {
		return 0, chat.ErrNothingToUnhide
	}
	enqueueEviction(ctx, uc.Queue, user.ID)
	return count, nil
}
