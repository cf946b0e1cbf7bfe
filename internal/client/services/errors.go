package services

import (
	"errors"

	"github.com/publimatch/publimatch-cli/internal/client/api"
)

var (
	// ErrPersistence means login succeeded against the backend but the
	// session did not survive the post-save verification. The attempt is
	// treated as failed and the store is cleared.
	ErrPersistence = errors.New("failed to save authentication data")

	// ErrSuperseded marks an availability check whose result arrived after a
	// newer check was issued; its result must be discarded.
	ErrSuperseded = errors.New("availability check superseded")
)

// MsgConnection is the generic connectivity message shown when a call failed
// without a structured server error body.
const MsgConnection = "Erro de conexão. Tente novamente."

// UserError carries a message safe to show to the user while preserving the
// underlying cause for errors.Is/As.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// translate applies the sole error-translation rule in the system: a
// structured server error surfaces its message verbatim (or the
// operation-specific fallback when the body carried none); anything else is
// a connectivity problem and surfaces the generic retry message.
func translate(err error, fallback string) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		return &UserError{Message: msg, Err: err}
	}
	return &UserError{Message: MsgConnection, Err: err}
}
