package usecase

import (
	"context"

	chat "webochat/internal/pkg/chat/application/domain"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// ListHiddenInput wraps the requesting user's provider identity.
type ListHiddenInput struct {
	IdentityID string
}

// ListHiddenUseCase returns exactly the threads the user has hidden, each
// carrying the other participant's profile and the hide timestamp.
type ListHiddenUseCase struct {
	Repo repository.ChatRepository
}

func NewListHiddenUseCase(repo repository.ChatRepository) *ListHiddenUseCase {
	return &ListHiddenUseCase{Repo: repo}
}

func (uc *ListHiddenUseCase) Execute(ctx context.Context, in ListHiddenInput) ([]chat.HiddenConversation, error) {
	user, err := resolveUser(ctx, uc.Repo, in.IdentityID, "")
	if err != nil {
		return nil, err
	}
	hidden, err := uc.Repo.ListHidden(ctx, user.ID)
	if err != nil {
		return nil, wrapPersistence(err)
	}
	return hidden, nil
}
