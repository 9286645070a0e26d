package database

import (
	"fmt"
	"log"

	"warbler/internal/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

func Connect(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Connected to database successfully")
	return db, nil
}

// schema declares the four relations and the refresh token store. Uniqueness
// of username/email and of the follow and like pairs is enforced here, at the
// storage level, so concurrent requests cannot both slip past an
// application-side pre-check.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id               BIGSERIAL PRIMARY KEY,
	username         TEXT NOT NULL UNIQUE,
	email            TEXT NOT NULL UNIQUE,
	password_hashed  TEXT NOT NULL,
	image_url        TEXT NOT NULL DEFAULT '/static/images/default-pic.png',
	header_image_url TEXT NOT NULL DEFAULT '/static/images/warbler-hero.jpg',
	bio              TEXT,
	location         TEXT,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS messages (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	text       VARCHAR(140) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_user_created
	ON messages (user_id, created_at DESC, id DESC);

CREATE TABLE IF NOT EXISTS follows (
	follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	followee_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (follower_id, followee_id)
);

CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows (followee_id);

CREATE TABLE IF NOT EXISTS likes (
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	message_id BIGINT NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (user_id, message_id)
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id          TEXT PRIMARY KEY,
	user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token_hash  TEXT NOT NULL UNIQUE,
	expires_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	revoked_at  TIMESTAMPTZ,
	replaced_by TEXT
);

CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user ON refresh_tokens (user_id);
`

// EnsureSchema creates the tables if they do not exist yet. Safe to run on
// every startup.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
