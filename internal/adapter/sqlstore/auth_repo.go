package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"biodash/internal/domain"
)

var (
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// GetByUsername retrieves a user by username. It returns nil when missing.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return d.scanUser(d.sql.QueryRowContext(ctx,
		d.q("SELECT id, username, password_hash, created_at FROM users WHERE username = ?"), username))
}

// GetByID retrieves a user by ID. It returns nil when missing.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.scanUser(d.sql.QueryRowContext(ctx,
		d.q("SELECT id, username, password_hash, created_at FROM users WHERE id = ?"), id))
}

func (d *DB) scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, timeCol{&u.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user.
func (d *DB) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	var u domain.User
	err := d.sql.QueryRowContext(ctx,
		d.q("INSERT INTO users (username, password_hash, created_at) VALUES (?, ?, ?) RETURNING id, username, password_hash, created_at"),
		username, passwordHash, d.ts(time.Now()),
	).Scan(&u.ID, &u.Username, &u.PasswordHash, timeCol{&u.CreatedAt})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Count returns the total number of users.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// SessionRepo implements session repository operations on DB.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo wraps a DB as a SessionRepository.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, s domain.Session) error {
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.sql.ExecContext(ctx,
		r.db.q("INSERT INTO sessions (token, user_id, user_agent, expires_at, created_at) VALUES (?, ?, ?, ?, ?)"),
		s.Token, s.UserID, s.UserAgent, r.db.ts(s.ExpiresAt), r.db.ts(created),
	)
	return err
}

// GetByToken retrieves a session by token. It returns nil when missing.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := r.db.sql.QueryRowContext(ctx,
		r.db.q("SELECT token, user_id, user_agent, expires_at, created_at FROM sessions WHERE token = ?"),
		token,
	).Scan(&s.Token, &s.UserID, &s.UserAgent, timeCol{&s.ExpiresAt}, timeCol{&s.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.sql.ExecContext(ctx, r.db.q("DELETE FROM sessions WHERE token = ?"), token)
	return err
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.db.sql.ExecContext(ctx, r.db.q("DELETE FROM sessions WHERE expires_at < ?"), r.db.ts(time.Now()))
	return err
}
