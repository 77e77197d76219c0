package usecase

import (
	"context"

	qport "webochat/internal/infrastructure/queue/port"
	chat "webochat/internal/pkg/chat/application/domain"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// AppendMessageInput addresses each side by exactly one mode: emails on
// the directory API path, provider identities on the realtime channel.
type AppendMessageInput struct {
	SenderEmail      string
	ReceiverEmail    string
	SenderIdentity   string
	ReceiverIdentity string
	Body             string
}

// AppendMessageUseCase appends a message to the pair's thread, creating
// the thread implicitly when this is the first message between the two
// users. The repository performs the find-or-create-and-append atomically,
// so concurrent first messages for the same pair land in one thread.
type AppendMessageUseCase struct {
	Repo  repository.ChatRepository
	Queue qport.Client // optional; evicts cached summaries after the append
}

func NewAppendMessageUseCase(repo repository.ChatRepository, queue qport.Client) *AppendMessageUseCase {
	return &AppendMessageUseCase{Repo: repo, Queue: queue}
}

// Execute returns the post-append conversation state.
func (uc *AppendMessageUseCase) Execute(ctx context.Context, in AppendMessageInput) (*chat.Conversation, error) {
	sender, err := resolveUser(ctx, uc.Repo, in.SenderIdentity, in.SenderEmail)
	if err != nil {
		return nil, err
	}
	receiver, err := resolveUser(ctx, uc.Repo, in.ReceiverIdentity, in.ReceiverEmail)
	if err != nil {
		return nil, err
	}
	if sender.ID == receiver.ID {
		return nil, chat.ErrSelfConversation
	}

	msg, err := chat.NewMessage(sender.ID, in.Body)
	if err != nil {
		return nil, err
	}

	conv, err := uc.Repo.AppendMessage(ctx, sender.ID, receiver.ID, msg)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	enqueueEviction(ctx, uc.Queue, sender.ID, receiver.ID)
	return &conv, nil
}
