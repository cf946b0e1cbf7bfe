package devserver

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

// staticTokens is a TokenSource for tests that don't involve a session store.
type staticTokens struct{ token string }

func (s *staticTokens) Token(ctx context.Context) (string, bool) {
	return s.token, s.token != ""
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestClient spins up the dev server and returns the real HTTP client
// pointed at it, so the full wire contract is exercised end to end.
func newTestClient(t *testing.T) (*Server, api.Client) {
	t.Helper()

	srv := NewServer(testLogger(), []byte("test-secret"))
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	client, err := api.NewHTTPClient(ts.URL, &staticTokens{}, 5*time.Second, testLogger())
	require.NoError(t, err)
	return srv, client
}

func signupBob(t *testing.T, client api.Client) *api.AccountSummary {
	t.Helper()
	acc, err := client.Signup(context.Background(), api.SignupRequest{
		Email:     "bob@b.com",
		FirstName: "Bob",
		LastName:  "Silva",
		Username:  "bobinho",
		Password:  "secret123",
		Profile:   api.AccountInfluencer,
	})
	require.NoError(t, err)
	return acc
}

func TestSignupThenLogin(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	acc := signupBob(t, client)
	require.True(t, acc.Owner)
	require.Equal(t, api.StatusActive, acc.Status)
	require.NotEmpty(t, acc.ID)

	resp, err := client.Login(ctx, api.Credentials{Email: "bob@b.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "bob@b.com", resp.User.Email)
	require.Equal(t, "Bob", resp.User.FirstName)
}

func TestLogin_WrongPassword(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	signupBob(t, client)

	_, err := client.Login(ctx, api.Credentials{Email: "bob@b.com", Password: "wrong"})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.Status)
	require.Equal(t, "invalid credentials", apiErr.Message)
}

func TestAvailabilityChecks(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	signupBob(t, client)

	resp, err := client.CheckUsername(ctx, "bobinho")
	require.NoError(t, err)
	require.True(t, resp.Exists)

	resp, err = client.CheckUsername(ctx, "free-name")
	require.NoError(t, err)
	require.False(t, resp.Exists)

	resp, err = client.CheckEmail(ctx, "BOB@B.COM")
	require.NoError(t, err)
	require.True(t, resp.Exists, "email checks are case-insensitive")
}

func TestSignup_DuplicateEmailConflicts(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	signupBob(t, client)

	_, err := client.Signup(ctx, api.SignupRequest{
		Email:     "bob@b.com",
		FirstName: "Other",
		LastName:  "Person",
		Username:  "different",
		Password:  "secret123",
		Profile:   api.AccountAdvertiser,
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 409, apiErr.Status)
	require.Equal(t, "E-mail já está em uso", apiErr.Message)
}

func TestPasswordResetFlow(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()

	signupBob(t, client)

	res, err := client.InitiatePasswordReset(ctx, "bob@b.com")
	require.NoError(t, err)
	require.True(t, res.Success)

	// The dev server has no outbox; read the token from its state the way
	// a developer would read it from the log line.
	srv.mu.Lock()
	require.Len(t, srv.resets, 1)
	var token string
	for tk := range srv.resets {
		token = tk
	}
	srv.mu.Unlock()

	res, err = client.ValidateResetToken(ctx, token)
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Equal(t, "bob@b.com", res.Email)

	res, err = client.CompletePasswordReset(ctx, api.PasswordResetRequest{
		Token:                token,
		Password:             "newsecret1",
		PasswordConfirmation: "newsecret1",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	// Token is single use.
	_, err = client.ValidateResetToken(ctx, token)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Token inválido ou expirado", apiErr.Message)

	// Old password no longer works, new one does.
	_, err = client.Login(ctx, api.Credentials{Email: "bob@b.com", Password: "secret123"})
	require.Error(t, err)
	_, err = client.Login(ctx, api.Credentials{Email: "bob@b.com", Password: "newsecret1"})
	require.NoError(t, err)
}

func TestPasswordResetFlow_UnknownEmailDoesNotLeak(t *testing.T) {
	srv, client := newTestClient(t)
	ctx := context.Background()

	res, err := client.InitiatePasswordReset(ctx, "ghost@b.com")
	require.NoError(t, err)
	require.True(t, res.Success)

	srv.mu.Lock()
	require.Empty(t, srv.resets)
	srv.mu.Unlock()
}

func TestPasswordReset_MismatchedConfirmation(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	_, err := client.CompletePasswordReset(ctx, api.PasswordResetRequest{
		Token:                "whatever",
		Password:             "newsecret1",
		PasswordConfirmation: "other",
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "Senhas não coincidem", apiErr.Message)
}
