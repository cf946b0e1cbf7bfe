// Package signup implements the four-step account-creation wizard as a state
// machine independent of any rendering surface. Each step validates its own
// fields before the wizard advances; steps 2 and 3 additionally gate on a
// username/email availability check. Submission creates the account and then
// logs the new user in.
package signup

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/services"
)

// Wizard steps.
const (
	StepProfile  = 1
	StepUsername = 2
	StepIdentity = 3
	StepPassword = 4
)

// ErrAutoLogin means the account was created but the automatic login after
// signup did not leave the client authenticated. The account exists; the
// recovery is to log in manually, so the wizard redirects to the login page.
var ErrAutoLogin = errors.New("authentication failed after signup")

// Validation messages, by field.
const (
	msgProfileRequired   = "Selecione um tipo de conta"
	msgUsernameRequired  = "Nome de usuário é obrigatório"
	msgUsernameTooShort  = "Nome de usuário deve ter no mínimo 4 caracteres"
	msgUsernameTaken     = "Nome de usuário já está em uso"
	msgUsernameCheckFail = "Erro ao verificar disponibilidade do usuário"
	msgFirstNameRequired = "Primeiro nome é obrigatório"
	msgLastNameRequired  = "Sobrenome é obrigatório"
	msgEmailRequired     = "E-mail é obrigatório"
	msgEmailInvalid      = "E-mail inválido"
	msgEmailTaken        = "E-mail já está em uso"
	msgEmailCheckFail    = "Erro ao verificar disponibilidade do e-mail"
	msgPasswordRequired  = "Senha é obrigatória"
	msgPasswordTooShort  = "Senha deve ter no mínimo 8 caracteres"
	msgPasswordMismatch  = "Senhas não coincidem"
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateNewPassword applies the password policy shared by the signup step
// and the password-reset flow: required, at least 8 characters, confirmation
// must match. The returned map is keyed by field ("password",
// "confirmPassword") and is empty when the pair is acceptable. Violations are
// reported locally; the pair is never sent to the backend.
func ValidateNewPassword(password, confirmation string) map[string]string {
	errs := make(map[string]string)
	switch {
	case password == "":
		errs["password"] = msgPasswordRequired
	case len(password) < 8:
		errs["password"] = msgPasswordTooShort
	}
	if password != confirmation {
		errs["confirmPassword"] = msgPasswordMismatch
	}
	return errs
}

// Authenticator is the slice of the auth state provider the wizard needs for
// the post-signup login.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) error
	Authenticated() bool
}

// Wizard accumulates the signup draft across steps. The draft lives only in
// memory; on success it is superseded by the session created by the
// automatic login, on abandonment it is simply dropped.
type Wizard struct {
	users   services.UserService
	auth    Authenticator
	checker services.Checker

	step     int
	draft    api.SignupRequest
	confirm  string
	errs     map[string]string
	redirect string
}

func NewWizard(users services.UserService, auth Authenticator) *Wizard {
	return &Wizard{users: users, auth: auth, step: StepProfile, errs: make(map[string]string)}
}

func (w *Wizard) Step() int { return w.step }

// Draft returns a copy of the accumulated signup data.
func (w *Wizard) Draft() api.SignupRequest { return w.draft }

// Redirect is the navigation target after Next reported done or failed with
// ErrAutoLogin; empty until then.
func (w *Wizard) Redirect() string { return w.redirect }

// Err returns the validation message recorded for a field, if any.
func (w *Wizard) Err(field string) string { return w.errs[field] }

// Errors returns a copy of all recorded validation messages.
func (w *Wizard) Errors() map[string]string {
	out := make(map[string]string, len(w.errs))
	for k, v := range w.errs {
		out[k] = v
	}
	return out
}

func (w *Wizard) SetProfile(p api.AccountType) { w.draft.Profile = p }
func (w *Wizard) SetUsername(u string)         { w.draft.Username = strings.TrimSpace(u) }
func (w *Wizard) SetEmail(e string)            { w.draft.Email = strings.TrimSpace(e) }

func (w *Wizard) SetName(first, last string) {
	w.draft.FirstName = strings.TrimSpace(first)
	w.draft.LastName = strings.TrimSpace(last)
}

func (w *Wizard) SetPassword(password, confirmation string) {
	w.draft.Password = password
	w.confirm = confirmation
}

// Back moves to the previous step, never below the first. Step errors are
// cleared on every step change.
func (w *Wizard) Back() {
	if w.step > StepProfile {
		w.step--
		w.errs = make(map[string]string)
	}
}

// Next validates the current step. When validation fails, the messages are
// recorded (see Err/Errors), no advancement happens, and Next returns
// (false, nil). On the final step a valid draft is submitted: the account is
// created and the user logged in; done is true only when both succeeded.
func (w *Wizard) Next(ctx context.Context) (done bool, err error) {
	if !w.validate(ctx, w.step) {
		return false, nil
	}

	if w.step < StepPassword {
		w.step++
		w.errs = make(map[string]string)
		return false, nil
	}

	if err := w.submit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (w *Wizard) validate(ctx context.Context, step int) bool {
	errs := make(map[string]string)

	switch step {
	case StepProfile:
		if w.draft.Profile != api.AccountInfluencer && w.draft.Profile != api.AccountAdvertiser {
			errs["accountType"] = msgProfileRequired
		}

	case StepUsername:
		switch {
		case w.draft.Username == "":
			errs["username"] = msgUsernameRequired
		case len(w.draft.Username) < 4:
			errs["username"] = msgUsernameTooShort
		default:
			res, err := w.checker.Check(ctx, w.users.CheckUsername, w.draft.Username)
			switch {
			case errors.Is(err, services.ErrSuperseded):
				// A newer check owns the outcome; do not advance on ours,
				// and do not leave messages from an older validation behind.
				w.errs = errs
				return false
			case err != nil:
				errs["username"] = msgUsernameCheckFail
			case res.Exists:
				errs["username"] = msgUsernameTaken
			}
		}

	case StepIdentity:
		if w.draft.FirstName == "" {
			errs["firstName"] = msgFirstNameRequired
		}
		if w.draft.LastName == "" {
			errs["lastName"] = msgLastNameRequired
		}
		switch {
		case w.draft.Email == "":
			errs["email"] = msgEmailRequired
		case !emailPattern.MatchString(w.draft.Email):
			errs["email"] = msgEmailInvalid
		default:
			res, err := w.checker.Check(ctx, w.users.CheckEmail, w.draft.Email)
			switch {
			case errors.Is(err, services.ErrSuperseded):
				w.errs = errs
				return false
			case err != nil:
				errs["email"] = msgEmailCheckFail
			case res.Exists:
				errs["email"] = msgEmailTaken
			}
		}

	case StepPassword:
		for field, msg := range ValidateNewPassword(w.draft.Password, w.confirm) {
			errs[field] = msg
		}
	}

	w.errs = errs
	return len(errs) == 0
}

// submit creates the account, then performs the automatic login and verifies
// it actually left the client authenticated.
func (w *Wizard) submit(ctx context.Context) error {
	if _, err := w.users.Signup(ctx, w.draft); err != nil {
		w.errs["general"] = err.Error()
		return err
	}

	creds := api.Credentials{Email: w.draft.Email, Password: w.draft.Password}
	if err := w.auth.Login(ctx, creds); err != nil {
		w.redirect = "/login"
		w.errs["general"] = err.Error()
		return fmt.Errorf("%w: %v", ErrAutoLogin, err)
	}
	if !w.auth.Authenticated() {
		w.redirect = "/login"
		w.errs["general"] = ErrAutoLogin.Error()
		return ErrAutoLogin
	}

	w.redirect = "/dashboard"
	return nil
}
