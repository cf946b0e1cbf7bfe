// Package session persists the authenticated session — the bearer token and
// the cached user profile — in the client's local SQLite database.
//
// Token and user are a single unit: Save writes both in one transaction,
// Clear removes both, and Read reports a session only when both halves are
// present. Callers never observe one without the other.
package session

import (
	"context"

	"github.com/publimatch/publimatch-cli/internal/client/api"
)

// Session is the persisted token+user pair representing an authenticated
// client.
type Session struct {
	Token string
	User  api.User
}

// Store is the durable session storage.
//
// Contract:
//   - Save: persist token and user together; partial writes must not be
//     observable by readers.
//   - Read: return the session and true only when both token and user are
//     present and decodable.
//   - Token: cheap token-presence probe; used for IsAuthenticated and for
//     attaching the bearer header.
//   - Clear: remove both halves; idempotent.
type Store interface {
	Save(ctx context.Context, s Session) error
	Read(ctx context.Context) (Session, bool, error)
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}
