package usecase

import (
	"context"

	chat "webochat/internal/pkg/chat/application/domain"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// AddContactInput identifies both parties of a new thread by email, the
// way the client's add-contact dialog submits them.
type AddContactInput struct {
	SenderEmail   string
	ReceiverEmail string
}

// AddContactUseCase opens the conversation for a pair explicitly, with an
// empty message sequence. The duplicate check is bidirectional: a thread
// created as (A,B) blocks (B,A) as well.
type AddContactUseCase struct {
	Repo repository.ChatRepository
}

func NewAddContactUseCase(repo repository.ChatRepository) *AddContactUseCase {
	return &AddContactUseCase{Repo: repo}
}

// Execute resolves both emails and creates the thread. It surfaces
// chat.ErrUserNotFound, chat.ErrSelfConversation and
// chat.ErrConversationExists without mutating state.
func (uc *AddContactUseCase) Execute(ctx context.Context, in AddContactInput) (*chat.Conversation, error) {
	sender, err := resolveUser(ctx, uc.Repo, "", in.SenderEmail)
	if err != nil {
		return nil, err
	}
	receiver, err := resolveUser(ctx, uc.Repo, "", in.ReceiverEmail)
	if err != nil {
		return nil, err
	}
	if sender.ID == receiver.ID {
		return nil, chat.ErrSelfConversation
	}

	conv, err := uc.Repo.CreateConversation(ctx, sender.ID, receiver.ID)
	if err != nil {
		if err == chat.ErrConversationExists {
			return nil, err
		}
		return nil, wrapPersistence(err)
	}
	return &conv, nil
}
