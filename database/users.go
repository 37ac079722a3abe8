package database

import (
	"context"
	"errors"
	"strings"
	"time"

	"twoknow/models"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrUserNotFound is returned when no user matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// UserStore persists dashboard accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdateFullName(ctx context.Context, id int64, fullName string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// PostgresUserStore is the pgx-backed UserStore.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = `id, email, username, password_hash, full_name, created_at, last_login`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	return s.pool.QueryRow(ctx, query, u.Email, u.Username, u.PasswordHash, u.FullName).Scan(&u.ID, &u.CreatedAt)
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)))
}

func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *PostgresUserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return s.exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
}

func (s *PostgresUserStore) UpdateFullName(ctx context.Context, id int64, fullName string) error {
	return s.exec(ctx, `UPDATE users SET full_name = $2 WHERE id = $1`, id, fullName)
}

func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return s.exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, id, passwordHash)
}

func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *PostgresUserStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresUserStore) exec(ctx context.Context, query string, args ...interface{}) error {
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
