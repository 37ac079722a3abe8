package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
)

// DB is a global variable to hold the database connection pool.
var DB *pgxpool.Pool

// Users is the user store used by the handlers. It is a Postgres store
// when DATABASE_URL is set and an in-memory store otherwise.
var Users UserStore = NewMemoryUserStore()

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	full_name     TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_login    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS users_email_lower_idx ON users (lower(email));
`

// Connect sets up the database connection pool, verifies it and creates the
// schema when missing.
func Connect(ctx context.Context, databaseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("database ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return fmt.Errorf("creating schema: %w", err)
	}

	DB = pool
	Users = NewPostgresUserStore(pool)
	return nil
}

// Close closes the database connection pool.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}
