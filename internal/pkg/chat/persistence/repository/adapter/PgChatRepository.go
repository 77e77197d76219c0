package adapter

import (
	"context"
	"errors"
	"time"

	chat "webochat/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgChatRepository persists the chat domain in Postgres.
//
// A conversation row stores its participant pair sorted (user_lo, user_hi)
// under a unique index, so exactly one row can exist per unordered pair and
// the bidirectional existence check is a single upsert. The append path is
// one transaction: upsert the pair row (bumping updated_at) and insert the
// message, which closes the check-then-act race between concurrent senders.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

const userColumns = "id::text, identity_id, display_name, email, avatar_url, created_at, updated_at"

func (r *PgChatRepository) CreateUser(ctx context.Context, u chat.User) (chat.User, error) {
	if r == nil || r.pool == nil {
		return chat.User{}, errors.New("PgChatRepository: nil pool")
	}
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.users (identity_id, display_name, email, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id::text, created_at, updated_at
	`, u.IdentityID, u.DisplayName, u.Email, u.AvatarURL, now).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return chat.User{}, chat.ErrUserExists
		}
		return chat.User{}, err
	}
	return u, nil
}

func (r *PgChatRepository) GetUserByEmail(ctx context.Context, email string) (chat.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM chat.users WHERE email = $1", email)
}

func (r *PgChatRepository) GetUserByIdentity(ctx context.Context, identityID string) (chat.User, error) {
	return r.getUser(ctx, "SELECT "+userColumns+" FROM chat.users WHERE identity_id = $1", identityID)
}

func (r *PgChatRepository) getUser(ctx context.Context, query string, arg string) (chat.User, error) {
	if r == nil || r.pool == nil {
		return chat.User{}, errors.New("PgChatRepository: nil pool")
	}
	var u chat.User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.IdentityID, &u.DisplayName, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return chat.User{}, chat.ErrUserNotFound
		}
		return chat.User{}, err
	}
	return u, nil
}

func (r *PgChatRepository) CreateConversation(ctx context.Context, senderID, receiverID string) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}
	now := time.Now().UTC()
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.conversation (user_lo, user_hi, created_by, created_at, updated_at)
		VALUES (LEAST($1::uuid, $2::uuid), GREATEST($1::uuid, $2::uuid), $1::uuid, $3, $3)
		ON CONFLICT (user_lo, user_hi) DO NOTHING
		RETURNING id::text
	`, senderID, receiverID, now).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// The pair already has a thread in one direction or the other.
			return chat.Conversation{}, chat.ErrConversationExists
		}
		return chat.Conversation{}, err
	}
	return r.getConversation(ctx, id)
}

func (r *PgChatRepository) AppendMessage(ctx context.Context, senderID, receiverID string, m chat.Message) (chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return chat.Conversation{}, errors.New("PgChatRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return chat.Conversation{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	// Find-or-create and bump recency in one statement.
	var conversationID string
	err = tx.QueryRow(ctx, `
		INSERT INTO chat.conversation (user_lo, user_hi, created_by, created_at, updated_at)
		VALUES (LEAST($1::uuid, $2::uuid), GREATEST($1::uuid, $2::uuid), $1::uuid, $3, $3)
		ON CONFLICT (user_lo, user_hi) DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id::text
	`, senderID, receiverID, m.CreatedAt).Scan(&conversationID)
	if err != nil {
		return chat.Conversation{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, body, created_at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
	`, conversationID, m.SenderID, m.Body, m.CreatedAt)
	if err != nil {
		return chat.Conversation{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return chat.Conversation{}, err
	}

	return r.getConversation(ctx, conversationID)
}

func (r *PgChatRepository) ListVisible(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		JOIN chat.users lo ON lo.id = c.user_lo
		JOIN chat.users hi ON hi.id = c.user_hi
		WHERE (c.user_lo = $1::uuid OR c.user_hi = $1::uuid)
		  AND NOT EXISTS (
			SELECT 1 FROM chat.hidden h
			WHERE h.conversation_id = c.id AND h.user_id = $1::uuid
		  )
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	convs, err := scanConversations(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, convs); err != nil {
		return nil, err
	}
	out := make([]chat.Conversation, 0, len(convs))
	for _, c := range convs {
		out = append(out, *c)
	}
	return out, nil
}

func (r *PgChatRepository) ListHidden(ctx context.Context, userID string) ([]chat.HiddenConversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`, h.hidden_at
		FROM chat.conversation c
		JOIN chat.users lo ON lo.id = c.user_lo
		JOIN chat.users hi ON hi.id = c.user_hi
		JOIN chat.hidden h ON h.conversation_id = c.id AND h.user_id = $1::uuid
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []*chat.Conversation
	var hiddenAts []time.Time
	for rows.Next() {
		c, extra, err := scanConversationRow(rows, 1)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
		hiddenAts = append(hiddenAts, *extra)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	rows.Close()

	if err := r.loadDetails(ctx, convs); err != nil {
		return nil, err
	}

	out := make([]chat.HiddenConversation, 0, len(convs))
	for i, c := range convs {
		out = append(out, chat.HiddenConversation{
			Conversation: *c,
			HiddenWith:   c.Other(userID),
			HiddenAt:     hiddenAts[i],
		})
	}
	return out, nil
}

func (r *PgChatRepository) Hide(ctx context.Context, userID, otherID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO chat.hidden (conversation_id, user_id, hidden_at)
		SELECT c.id, $1::uuid, $3
		FROM chat.conversation c
		WHERE c.user_lo = LEAST($1::uuid, $2::uuid)
		  AND c.user_hi = GREATEST($1::uuid, $2::uuid)
		ON CONFLICT (conversation_id, user_id) DO NOTHING
	`, userID, otherID, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgChatRepository) Unhide(ctx context.Context, userID, otherID string) (int64, error) {
	if r == nil || r.pool == nil {
		return 0, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		DELETE FROM chat.hidden h
		USING chat.conversation c
		WHERE h.conversation_id = c.id
		  AND h.user_id = $1::uuid
		  AND c.user_lo = LEAST($1::uuid, $2::uuid)
		  AND c.user_hi = GREATEST($1::uuid, $2::uuid)
	`, userID, otherID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

const conversationColumns = `
		c.id::text, c.created_by::text, c.created_at, c.updated_at,
		lo.id::text, lo.identity_id, lo.display_name, lo.email, lo.avatar_url, lo.created_at, lo.updated_at,
		hi.id::text, hi.identity_id, hi.display_name, hi.email, hi.avatar_url, hi.created_at, hi.updated_at`

// scanConversationRow reads one joined row. extraTimes reserves trailing
// timestamp columns (ListHidden appends h.hidden_at).
func scanConversationRow(rows pgx.Rows, extraTimes int) (*chat.Conversation, *time.Time, error) {
	var (
		c         chat.Conversation
		createdBy string
		lo, hi    chat.User
		extra     time.Time
	)
	dest := []any{
		&c.ID, &createdBy, &c.CreatedAt, &c.UpdatedAt,
		&lo.ID, &lo.IdentityID, &lo.DisplayName, &lo.Email, &lo.AvatarURL, &lo.CreatedAt, &lo.UpdatedAt,
		&hi.ID, &hi.IdentityID, &hi.DisplayName, &hi.Email, &hi.AvatarURL, &hi.CreatedAt, &hi.UpdatedAt,
	}
	if extraTimes > 0 {
		dest = append(dest, &extra)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, nil, err
	}
	// created_by marks which side of the sorted pair opened the thread.
	if createdBy == lo.ID {
		c.Sender, c.Receiver = lo, hi
	} else {
		c.Sender, c.Receiver = hi, lo
	}
	return &c, &extra, nil
}

func scanConversations(rows pgx.Rows) ([]*chat.Conversation, error) {
	defer rows.Close()
	var convs []*chat.Conversation
	for rows.Next() {
		c, _, err := scanConversationRow(rows, 0)
		if err != nil {
			return nil, err
		}
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// loadDetails batch-loads the message sequences and hidden-for sets for the
// given conversations with two queries.
func (r *PgChatRepository) loadDetails(ctx context.Context, convs []*chat.Conversation) error {
	if len(convs) == 0 {
		return nil
	}
	ids := make([]string, 0, len(convs))
	byID := make(map[string]*chat.Conversation, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
		byID[c.ID] = c
		c.Messages = []chat.Message{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT conversation_id::text, id::text, sender_id::text, body, created_at
		FROM chat.message
		WHERE conversation_id = ANY($1::uuid[])
		ORDER BY seq ASC
	`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var convID string
		var m chat.Message
		if err := rows.Scan(&convID, &m.ID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			rows.Close()
			return err
		}
		if c := byID[convID]; c != nil {
			c.Messages = append(c.Messages, m)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return rows.Err()
	}

	rows, err = r.pool.Query(ctx, `
		SELECT conversation_id::text, user_id::text
		FROM chat.hidden
		WHERE conversation_id = ANY($1::uuid[])
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var convID, uid string
		if err := rows.Scan(&convID, &uid); err != nil {
			return err
		}
		if c := byID[convID]; c != nil {
			c.HiddenFor = append(c.HiddenFor, uid)
		}
	}
	return rows.Err()
}

func (r *PgChatRepository) getConversation(ctx context.Context, id string) (chat.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+`
		FROM chat.conversation c
		JOIN chat.users lo ON lo.id = c.user_lo
		JOIN chat.users hi ON hi.id = c.user_hi
		WHERE c.id = $1::uuid
	`, id)
	if err != nil {
		return chat.Conversation{}, err
	}
	convs, err := scanConversations(rows)
	if err != nil {
		return chat.Conversation{}, err
	}
	if len(convs) == 0 {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	if err := r.loadDetails(ctx, convs); err != nil {
		return chat.Conversation{}, err
	}
	return *convs[0], nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
