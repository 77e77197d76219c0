package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaDDL is idempotent; EnsureSchema runs it on every startup.
// Participant pairs are stored sorted (user_lo < user_hi) under a unique
// index, which is what makes the find-or-create upsert on the append path
// race-free. chat.message carries a seq sequence so readers sort by insert
// order even when two appends share a timestamp. chat.hidden is the
// per-user visibility set.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS chat;

CREATE TABLE IF NOT EXISTS chat.users (
	id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	identity_id  text NOT NULL UNIQUE,
	display_name text NOT NULL,
	email        text NOT NULL UNIQUE,
	avatar_url   text NOT NULL DEFAULT '',
	created_at   timestamptz NOT NULL DEFAULT now(),
	updated_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chat.conversation (
	id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	user_lo    uuid NOT NULL REFERENCES chat.users(id),
	user_hi    uuid NOT NULL REFERENCES chat.users(id),
	created_by uuid NOT NULL REFERENCES chat.users(id),
	created_at timestamptz NOT NULL,
	updated_at timestamptz NOT NULL,
	UNIQUE (user_lo, user_hi),
	CHECK (user_lo < user_hi)
);

CREATE TABLE IF NOT EXISTS chat.message (
	id              uuid PRIMARY KEY DEFAULT gen_random_uuid(),
	seq             bigserial,
	conversation_id uuid NOT NULL REFERENCES chat.conversation(id),
	sender_id       uuid NOT NULL REFERENCES chat.users(id),
	body            text NOT NULL,
	created_at      timestamptz NOT NULL
);

CREATE INDEX IF NOT EXISTS message_conversation_seq_idx
	ON chat.message (conversation_id, seq);

CREATE TABLE IF NOT EXISTS chat.hidden (
	conversation_id uuid NOT NULL REFERENCES chat.conversation(id),
	user_id         uuid NOT NULL REFERENCES chat.users(id),
	hidden_at       timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (conversation_id, user_id)
);
`

// EnsureSchema creates the chat schema objects if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}
