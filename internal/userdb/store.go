// internal/userdb/store.go
//
// User registry backed by SQLite. One row per Last.fm account that has
// completed the sign-in flow; the session key is sealed by a Keybox before
// storage and unsealed on read.

package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrUnknownUser is returned by lookups when no row exists.
var ErrUnknownUser = errors.New("userdb: unknown user")

// User is a registered Last.fm account.
type User struct {
	ID         string
	Name       string
	SessionKey string
	Subscriber int
	AuthAt     time.Time
}

// Store reads and writes user rows.
type Store struct {
	db  *sql.DB
	box *Keybox
}

// NewStore wraps an opened database and a keybox.
func NewStore(db *sql.DB, box *Keybox) *Store {
	return &Store{db: db, box: box}
}

/**
 * Upsert records a completed sign-in and returns the stored row. A repeated
 * sign-in for the same Last.fm name keeps the row id but replaces the sealed
 * key, subscriber flag and auth timestamp, since Last.fm may have issued a
 * fresh session key.
 */
func (s *Store) Upsert(ctx context.Context, name, sessionKey string, subscriber int) (*User, error) {
	sealed, err := s.box.Seal(sessionKey)
	if err != nil {
		return nil, fmt.Errorf("seal session key: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, lastfm_name, lastfm_key, lastfm_subscriber, auth_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(lastfm_name) DO UPDATE SET
			lastfm_key        = excluded.lastfm_key,
			lastfm_subscriber = excluded.lastfm_subscriber,
			auth_at           = excluded.auth_at
	`, uuid.NewString(), name, sealed, subscriber, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", name, err)
	}
	return s.GetByName(ctx, name)
}

/**
 * GetByName loads a user row by Last.fm name and unseals the session key.
 */
func (s *Store) GetByName(ctx context.Context, name string) (*User, error) {
	return s.get(ctx, `lastfm_name = ?`, name)
}

/**
 * GetByID loads a user row by primary key and unseals the session key.
 */
func (s *Store) GetByID(ctx context.Context, id string) (*User, error) {
	return s.get(ctx, `id = ?`, id)
}

func (s *Store) get(ctx context.Context, where, arg string) (*User, error) {
	var (
		u      User
		sealed []byte
		authAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, lastfm_name, lastfm_key, lastfm_subscriber, auth_at
		FROM users WHERE `+where,
		arg,
	).Scan(&u.ID, &u.Name, &sealed, &u.Subscriber, &authAt)
	if err == sql.ErrNoRows {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("query user %s: %w", arg, err)
	}

	u.SessionKey, err = s.box.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.Name, err)
	}
	u.AuthAt = time.Unix(authAt, 0)
	return &u, nil
}
