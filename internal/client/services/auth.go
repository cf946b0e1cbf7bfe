// Package services contains the application services of the PubliMatch
// client: authentication and session lifecycle, account signup, and
// availability checks. Services talk to the backend through api.Client and
// to durable local state through session.Store.
package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/session"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

// AuthService defines authentication operations for the client.
//
// Contract:
//   - Login: authenticate, persist the session, verify the persistence, and
//     fail closed (store cleared) on any failure.
//   - Logout: clear the stored session; never fails.
//   - IsAuthenticated: cheap token-presence check.
//   - InitiatePasswordReset / ValidateResetToken / CompletePasswordReset:
//     thin calls to the reset endpoints with user-facing error translation.
//     CompletePasswordReset does not log the user in; composing it with
//     Login is the caller's responsibility.
type AuthService interface {
	Login(ctx context.Context, creds api.Credentials) (session.Session, error)
	Logout(ctx context.Context)
	IsAuthenticated(ctx context.Context) bool
	InitiatePasswordReset(ctx context.Context, email string) (*api.ResetResult, error)
	ValidateResetToken(ctx context.Context, token string) (*api.ResetResult, error)
	CompletePasswordReset(ctx context.Context, req api.PasswordResetRequest) (*api.ResetResult, error)
}

// Operation-specific fallbacks for structured server errors that carry no
// message. Wordings match the product copy.
const (
	msgResetInitiateFailed = "Erro ao solicitar redefinição de senha"
	msgResetTokenInvalid   = "Token inválido ou expirado"
	msgResetCompleteFailed = "Erro ao redefinir senha"
)

type authService struct {
	client api.Client
	store  session.Store
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(client api.Client, store session.Store, log logging.Logger) AuthService {
	return &authService{client: client, store: store, log: log}
}

// Login calls the auth endpoint and saves the returned session. The store is
// then re-read: if either the token or the user did not persist, the attempt
// fails with ErrPersistence and the store is cleared, so a half-authenticated
// state is never observable. Any endpoint failure also clears the store.
func (a *authService) Login(ctx context.Context, creds api.Credentials) (session.Session, error) {
	resp, err := a.client.Login(ctx, creds)
	if err != nil {
		a.Logout(ctx)
		return session.Session{}, translate(err, MsgConnection)
	}

	sess := session.Session{Token: resp.Token, User: resp.User}
	if err := a.store.Save(ctx, sess); err != nil {
		a.Logout(ctx)
		return session.Session{}, &UserError{Message: ErrPersistence.Error(), Err: err}
	}

	// Verify both halves actually landed before declaring success.
	saved, ok, err := a.store.Read(ctx)
	if err != nil || !ok || saved.Token == "" {
		a.log.Error(ctx, "session did not survive save verification", "error", err)
		a.Logout(ctx)
		return session.Session{}, &UserError{Message: ErrPersistence.Error(), Err: ErrPersistence}
	}

	a.log.Info(ctx, "login succeeded", "email", resp.User.Email)
	return saved, nil
}

// Logout unconditionally clears the session store. A clear failure is logged
// and swallowed; logout never fails.
func (a *authService) Logout(ctx context.Context) {
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error(ctx, "failed to clear session", "error", err)
	}
}

// IsAuthenticated reports whether a token is present in the store. The cached
// user is not re-checked here; Read is the pair authority.
func (a *authService) IsAuthenticated(ctx context.Context) bool {
	_, ok := a.store.Token(ctx)
	return ok
}

func (a *authService) InitiatePasswordReset(ctx context.Context, email string) (*api.ResetResult, error) {
	res, err := a.client.InitiatePasswordReset(ctx, email)
	if err != nil {
		return nil, translate(err, msgResetInitiateFailed)
	}
	return res, nil
}

func (a *authService) ValidateResetToken(ctx context.Context, token string) (*api.ResetResult, error) {
	res, err := a.client.ValidateResetToken(ctx, token)
	if err != nil {
		return nil, translate(err, msgResetTokenInvalid)
	}
	return res, nil
}

func (a *authService) CompletePasswordReset(ctx context.Context, req api.PasswordResetRequest) (*api.ResetResult, error) {
	res, err := a.client.CompletePasswordReset(ctx, req)
	if err != nil {
		return nil, translate(err, msgResetCompleteFailed)
	}
	return res, nil
}

// ExtractTokenFromLocation parses the "token" query parameter from the given
// location, which may be a full URL or just a path with a query string.
// Absence is not an error: a missing or unparseable token yields ok=false.
func ExtractTokenFromLocation(location string) (string, bool) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", false
	}

	u, err := url.Parse(location)
	if err != nil {
		return "", false
	}

	token := u.Query().Get("token")
	if token == "" {
		return "", false
	}
	return token, true
}
