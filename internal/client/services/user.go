package services

import (
	"context"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/logging"
)

// UserService defines account operations: availability probes and signup.
//
// The availability probes propagate failures untranslated — an error means
// "could not verify", never "is available"; the caller decides how to word
// that. Signup applies the standard error translation.
type UserService interface {
	CheckUsername(ctx context.Context, username string) (*api.CheckResponse, error)
	CheckEmail(ctx context.Context, email string) (*api.CheckResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (*api.AccountSummary, error)
}

const msgSignupFailed = "Erro ao realizar cadastro"

type userService struct {
	client api.Client
	log    logging.Logger
}

// NewUserService constructs a UserService bound to the given API client.
func NewUserService(client api.Client, log logging.Logger) UserService {
	return &userService{client: client, log: log}
}

func (u *userService) CheckUsername(ctx context.Context, username string) (*api.CheckResponse, error) {
	res, err := u.client.CheckUsername(ctx, username)
	if err != nil {
		u.log.Warn(ctx, "username check failed", "error", err)
		return nil, err
	}
	return res, nil
}

func (u *userService) CheckEmail(ctx context.Context, email string) (*api.CheckResponse, error) {
	res, err := u.client.CheckEmail(ctx, email)
	if err != nil {
		u.log.Warn(ctx, "email check failed", "error", err)
		return nil, err
	}
	return res, nil
}

// Signup creates the account. The returned summary carries the
// backend-decided ACTIVE/INACTIVE status, which this service does not
// interpret.
func (u *userService) Signup(ctx context.Context, req api.SignupRequest) (*api.AccountSummary, error) {
	res, err := u.client.Signup(ctx, req)
	if err != nil {
		return nil, translate(err, msgSignupFailed)
	}
	return res, nil
}
