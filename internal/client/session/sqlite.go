package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/dbx"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

// Storage keys. These are the only two rows this store ever writes.
const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStore keeps the session in the metadata key/value table of the local
// SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log logging.Logger
}

func NewSQLiteStore(db *sql.DB, log logging.Logger) *SQLiteStore {
	return &SQLiteStore{db: db, log: log}
}

func get(ctx context.Context, db dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func set(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

// Save writes the token first, then the serialized user, inside a single
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to serialize user profile: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyToken, []byte(sess.Token)); err != nil {
			return err
		}
		return set(ctx, tx, keyUser, userJSON)
	})
}

// Read returns the stored session. ok is false when either half is missing
// or the cached profile does not decode; a half-written session is never
// reported as present.
func (s *SQLiteStore) Read(ctx context.Context) (Session, bool, error) {
	token, err := get(ctx, s.db, keyToken)
	if err != nil {
		return Session{}, false, err
	}
	userJSON, err := get(ctx, s.db, keyUser)
	if err != nil {
		return Session{}, false, err
	}
	if len(token) == 0 || len(userJSON) == 0 {
		return Session{}, false, nil
	}

	var user api.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		s.log.Warn(ctx, "cached user profile is corrupt, treating session as absent", "error", err)
		return Session{}, false, nil
	}

	return Session{Token: string(token), User: user}, true, nil
}

// Token reports the stored bearer token, if any. Read failures are logged
// and reported as absent so the caller sees an unauthenticated state rather
// than an error on this cheap probe.
func (s *SQLiteStore) Token(ctx context.Context) (string, bool) {
	token, err := get(ctx, s.db, keyToken)
	if err != nil {
		s.log.Error(ctx, "failed to read token", "error", err)
		return "", false
	}
	if len(token) == 0 {
		return "", false
	}
	return string(token), true
}

// Clear deletes both halves in one transaction.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key IN (?, ?)`, keyToken, keyUser); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		return nil
	})
}
