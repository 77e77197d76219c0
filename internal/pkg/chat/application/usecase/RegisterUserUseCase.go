package usecase

import (
	"context"
	"fmt"

	chat "webochat/internal/pkg/chat/application/domain"
	repository "webochat/internal/pkg/chat/persistence/repository/port"
)

// RegisterUserInput carries the sign-in event relayed by the client after
// the identity provider authenticated the user.
type RegisterUserInput struct {
	IdentityID  string
	DisplayName string
	Email       string
	AvatarURL   string
}

// RegisterUserUseCase creates the local user record on first sign-in.
// Hexagonal: depends on repository port only
type RegisterUserUseCase struct {
	Repo repository.ChatRepository
}

func NewRegisterUserUseCase(repo repository.ChatRepository) *RegisterUserUseCase {
	return &RegisterUserUseCase{Repo: repo}
}

// Execute persists the user; chat.ErrUserExists surfaces when the identity
// or email is already registered.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, in RegisterUserInput) (*chat.User, error) {
	if in.IdentityID == "" || in.DisplayName == "" || in.Email == "" {
		return nil, fmt.Errorf("identity_id, display_name and email are required")
	}

	u, err := uc.Repo.CreateUser(ctx, chat.User{
		IdentityID:  in.IdentityID,
		DisplayName: in.DisplayName,
		Email:       in.Email,
		AvatarURL:   in.AvatarURL,
	})
	if err != nil {
		if err == chat.ErrUserExists {
			return nil, err
		}
		return nil, wrapPersistence(err)
	}
	return &u, nil
}
