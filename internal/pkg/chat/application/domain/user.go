package chat

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound = errors.New("chat: user not found")
	ErrUserExists   = errors.New("chat: user already exists")
)

// User is the local record for an externally-identified person.
// IdentityID is issued by the identity provider; the storage id is local.
// Users are created on the first sign-in event relayed by the client and
// are read-only to the rest of the chat core.
type User struct {
	ID          string    `json:"id"`
	IdentityID  string    `json:"identity_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
