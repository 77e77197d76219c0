package usecase

import (
	"context"

	qport "webochat/internal/infrastructure/queue/port"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// HideConversationInput names the requesting user and the other
// participant by email.
type HideConversationInput struct {
	UserEmail  string
	OtherEmail string
}

// HideConversationUseCase suppresses the pair's thread for the requesting
// user only. Idempotent: hiding an already-hidden thread reports zero
// additional mutation; the other participant's view and the message log
// are untouched either way.
type HideConversationUseCase struct {
	Repo  repository.ChatRepository
	Queue qport.Client // optional
}

func NewHideConversationUseCase(repo repository.ChatRepository, queue qport.Client) *HideConversationUseCase {
	return &HideConversationUseCase{Repo: repo, Queue: queue}
}

// Execute returns how many threads were affected (0 or 1).
func (uc *HideConversationUseCase) Execute(ctx context.Context, in HideConversationInput) (int64, error) {
	user, err := resolveUser(ctx, uc.Repo, "", in.UserEmail)
	if err != nil {
		return 0, err
	}
	other, err := resolveUser(ctx, uc.Repo, "", in.OtherEmail)
	if err != nil {
		return 0, err
	}

	count, err := uc.Repo.Hide(ctx, user.ID, other.ID)
	if err != nil {
		return 0, wrapPersistence(err)
	}
	if count > 0 {
		enqueueEviction(ctx, uc.Queue, user.ID)
	}
	return count, nil
}
