package adapter

import (
	"context"
	"sort"
	"sync"
	"time"

	chat "webochat/internal/pkg/chat/application/domain"

	"github.com/google/uuid"
)

// MemChatRepository keeps the chat domain in process memory. It backs tests
// and local development without Postgres. A single mutex serializes every
// mutation, so the find-or-create-and-append path is atomic here the same
// way the transactional upsert makes it atomic in the Postgres adapter.
type MemChatRepository struct {
	mu            sync.Mutex
	usersByID     map[string]chat.User
	conversations map[string]*memConversation // keyed by sorted pair
}

type memConversation struct {
	id         string
	senderID   string // participant who opened the thread
	receiverID string
	messages   []chat.Message
	hiddenFor  map[string]time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewMemChatRepository() *MemChatRepository {
	return &MemChatRepository{
		usersByID:     make(map[string]chat.User),
		conversations: make(map[string]*memConversation),
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

func (r *MemChatRepository) CreateUser(_ context.Context, u chat.User) (chat.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.usersByID {
		if existing.IdentityID == u.IdentityID || existing.Email == u.Email {
			return chat.User{}, chat.ErrUserExists
		}
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.usersByID[u.ID] = u
	return u, nil
}

func (r *MemChatRepository) GetUserByEmail(_ context.Context, email string) (chat.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usersByID {
		if u.Email == email {
			return u, nil
		}
	}
	return chat.User{}, chat.ErrUserNotFound
}

func (r *MemChatRepository) GetUserByIdentity(_ context.Context, identityID string) (chat.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.usersByID {
		if u.IdentityID == identityID {
			return u, nil
		}
	}
	return chat.User{}, chat.ErrUserNotFound
}

func (r *MemChatRepository) CreateConversation(_ context.Context, senderID, receiverID string) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := pairKey(senderID, receiverID)
	if _, ok := r.conversations[key]; ok {
		return chat.Conversation{}, chat.ErrConversationExists
	}
	now := time.Now().UTC()
	mc := &memConversation{
		id:         uuid.NewString(),
		senderID:   senderID,
		receiverID: receiverID,
		hiddenFor:  make(map[string]time.Time),
		createdAt:  now,
		updatedAt:  now,
	}
	r.conversations[key] = mc
	return r.toDomainLocked(mc), nil
}

func (r *MemChatRepository) AppendMessage(_ context.Context, senderID, receiverID string, m chat.Message) (chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	key := pairKey(senderID, receiverID)
	mc, ok := r.conversations[key]
	if !ok {
		// Implicit create: the message becomes the first entry.
		mc = &memConversation{
			id:         uuid.NewString(),
			senderID:   senderID,
			receiverID: receiverID,
			hiddenFor:  make(map[string]time.Time),
			createdAt:  m.CreatedAt,
		}
		r.conversations[key] = mc
	}
	m.ID = uuid.NewString()
	mc.messages = append(mc.messages, m)
	mc.updatedAt = m.CreatedAt
	return r.toDomainLocked(mc), nil
}

func (r *MemChatRepository) ListVisible(_ context.Context, userID string) ([]chat.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Conversation
	for _, mc := range r.conversations {
		c := r.toDomainLocked(mc)
		if !c.HasParticipant(userID) {
			continue
		}
		if _, hidden := mc.hiddenFor[userID]; hidden {
			continue
		}
		out = append(out, c)
	}
	sortByRecency(out)
	return out, nil
}

func (r *MemChatRepository) ListHidden(_ context.Context, userID string) ([]chat.HiddenConversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.HiddenConversation
	for _, mc := range r.conversations {
		c := r.toDomainLocked(mc)
		if !c.HasParticipant(userID) {
			continue
		}
		hiddenAt, hidden := mc.hiddenFor[userID]
		if !hidden {
			continue
		}
		out = append(out, chat.HiddenConversation{
			Conversation: c,
			HiddenWith:   c.Other(userID),
			HiddenAt:     hiddenAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *MemChatRepository) Hide(_ context.Context, userID, otherID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mc, ok := r.conversations[pairKey(userID, otherID)]
	if !ok {
		return 0, nil
	}
	if _, already := mc.hiddenFor[userID]; already {
		return 0, nil
	}
	mc.hiddenFor[userID] = time.Now().UTC()
	return 1, nil
}

func (r *MemChatRepository) Unhide(_ context.Context, userID, otherID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mc, ok := r.conversations[pairKey(userID, otherID)]
	if !ok {
		return 0, nil
	}
	if _, hidden := mc.hiddenFor[userID]; !hidden {
		return 0, nil
	}
	delete(mc.hiddenFor, userID)
	return 1, nil
}

func (r *MemChatRepository) toDomainLocked(mc *memConversation) chat.Conversation {
	c := chat.Conversation{
		ID:        mc.id,
		Sender:    r.usersByID[mc.senderID],
		Receiver:  r.usersByID[mc.receiverID],
		Messages:  append([]chat.Message(nil), mc.messages...),
		CreatedAt: mc.createdAt,
		UpdatedAt: mc.updatedAt,
	}
	for uid := range mc.hiddenFor {
		c.HiddenFor = append(c.HiddenFor, uid)
	}
	return c
}

func sortByRecency(convs []chat.Conversation) {
	sort.Slice(convs, func(i, j int) bool { return convs[i].UpdatedAt.After(convs[j].UpdatedAt) })
}
