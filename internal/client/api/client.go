// Package api contains the HTTP client for the PubliMatch backend: request
// and response models for the REST endpoints, a Client interface consumed by
// the service layer, and a concrete implementation over net/http that
// attaches the bearer token to every outbound request.
package api

import "context"

// AccountType distinguishes the two kinds of platform accounts.
type AccountType string

const (
	AccountInfluencer AccountType = "INFLUENCER"
	AccountAdvertiser AccountType = "ADVERTISER"
)

// AccountStatus is decided by the backend on signup. The client never
// interprets it, only displays it.
type AccountStatus string

const (
	StatusActive   AccountStatus = "ACTIVE"
	StatusInactive AccountStatus = "INACTIVE"
)

// User is the profile snapshot returned on login and cached in the session
// store. It is superseded wholesale on the next login.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar,omitempty"`
}

// Credentials is the login request body. Transient; never persisted.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the body returned by POST /auth.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// ResetResult is the body returned by the password-reset endpoints.
// Message is set by the initiate endpoint, Email by validate/complete.
type ResetResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Email   string `json:"email,omitempty"`
}

// PasswordResetRequest is the body of POST /auth/change-password.
type PasswordResetRequest struct {
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"passwordConfirmation"`
}

// CheckResponse is the body returned by the availability endpoints.
type CheckResponse struct {
	Exists bool `json:"exists"`
}

// SignupRequest is the body of POST /user.
type SignupRequest struct {
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Username  string      `json:"username"`
	Password  string      `json:"password"`
	Profile   AccountType `json:"profile"`
}

// AccountSummary is the body returned by POST /user.
type AccountSummary struct {
	ID        string        `json:"id"`
	Owner     bool          `json:"owner"`
	Status    AccountStatus `json:"status"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Profile   AccountType   `json:"profile"`
	Username  string        `json:"username"`
}

// Client is the outbound surface to the backend, one method per endpoint.
type Client interface {
	Login(ctx context.Context, creds Credentials) (*LoginResponse, error)
	InitiatePasswordReset(ctx context.Context, email string) (*ResetResult, error)
	ValidateResetToken(ctx context.Context, token string) (*ResetResult, error)
	CompletePasswordReset(ctx context.Context, req PasswordResetRequest) (*ResetResult, error)
	CheckUsername(ctx context.Context, username string) (*CheckResponse, error)
	CheckEmail(ctx context.Context, email string) (*CheckResponse, error)
	Signup(ctx context.Context, req SignupRequest) (*AccountSummary, error)
}
