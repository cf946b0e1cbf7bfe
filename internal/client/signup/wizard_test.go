package signup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/publimatch/publimatch-cli/internal/client/api"
)

// fakeUsers implements services.UserService.
type fakeUsers struct {
	UsernameExists bool
	UsernameErr    error
	UsernameHook   func(ctx context.Context)
	EmailExists    bool
	EmailErr       error
	SignupResp     *api.AccountSummary
	SignupErr      error

	LastSignupReq api.SignupRequest
}

func (f *fakeUsers) CheckUsername(ctx context.Context, username string) (*api.CheckResponse, error) {
	if f.UsernameHook != nil {
		f.UsernameHook(ctx)
	}
	if f.UsernameErr != nil {
		return nil, f.UsernameErr
	}
	return &api.CheckResponse{Exists: f.UsernameExists}, nil
}

func (f *fakeUsers) CheckEmail(ctx context.Context, email string) (*api.CheckResponse, error) {
	if f.EmailErr != nil {
		return nil, f.EmailErr
	}
	return &api.CheckResponse{Exists: f.EmailExists}, nil
}

func (f *fakeUsers) Signup(ctx context.Context, req api.SignupRequest) (*api.AccountSummary, error) {
	f.LastSignupReq = req
	if f.SignupErr != nil {
		return nil, f.SignupErr
	}
	if f.SignupResp != nil {
		return f.SignupResp, nil
	}
	return &api.AccountSummary{ID: "acc-1", Status: api.StatusActive}, nil
}

// fakeAuth implements Authenticator.
type fakeAuth struct {
	LoginErr      error
	authenticated bool

	LastCreds api.Credentials
}

func (f *fakeAuth) Login(ctx context.Context, creds api.Credentials) error {
	f.LastCreds = creds
	if f.LoginErr != nil {
		f.authenticated = false
		return f.LoginErr
	}
	f.authenticated = true
	return nil
}

func (f *fakeAuth) Authenticated() bool { return f.authenticated }

func advanceToStep(t *testing.T, w *Wizard, step int) {
	t.Helper()
	ctx := context.Background()

	if step > StepProfile {
		w.SetProfile(api.AccountInfluencer)
		_, err := w.Next(ctx)
		require.NoError(t, err)
	}
	if step > StepUsername {
		w.SetUsername("bobinho")
		_, err := w.Next(ctx)
		require.NoError(t, err)
	}
	if step > StepIdentity {
		w.SetName("Bob", "Silva")
		w.SetEmail("bob@b.com")
		_, err := w.Next(ctx)
		require.NoError(t, err)
	}
	require.Equal(t, step, w.Step())
}

func TestWizard_StartsAtProfileStep(t *testing.T) {
	w := NewWizard(&fakeUsers{}, &fakeAuth{})
	require.Equal(t, StepProfile, w.Step())
}

func TestWizard_Step1_RequiresProfile(t *testing.T) {
	w := NewWizard(&fakeUsers{}, &fakeAuth{})

	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, StepProfile, w.Step())
	require.Equal(t, "Selecione um tipo de conta", w.Err("accountType"))
}

func TestWizard_Step2_UsernameValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"empty", "", "Nome de usuário é obrigatório"},
		{"too short", "bob", "Nome de usuário deve ter no mínimo 4 caracteres"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWizard(&fakeUsers{}, &fakeAuth{})
			advanceToStep(t, w, StepUsername)

			w.SetUsername(tc.username)
			done, err := w.Next(context.Background())
			require.NoError(t, err)
			require.False(t, done)
			require.Equal(t, StepUsername, w.Step())
			require.Equal(t, tc.want, w.Err("username"))
		})
	}
}

func TestWizard_Step2_TakenUsernameBlocksAdvancement(t *testing.T) {
	w := NewWizard(&fakeUsers{UsernameExists: true}, &fakeAuth{})
	advanceToStep(t, w, StepUsername)

	w.SetUsername("bobinho")
	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, StepUsername, w.Step())
	require.Equal(t, "Nome de usuário já está em uso", w.Err("username"))
}

func TestWizard_Step2_CheckFailureMeansCouldNotVerify(t *testing.T) {
	w := NewWizard(&fakeUsers{UsernameErr: api.ErrUnavailable}, &fakeAuth{})
	advanceToStep(t, w, StepUsername)

	w.SetUsername("bobinho")
	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, StepUsername, w.Step())
	require.Equal(t, "Erro ao verificar disponibilidade do usuário", w.Err("username"))
}

func TestWizard_Step2_SupersededCheckClearsStaleErrors(t *testing.T) {
	users := &fakeUsers{}
	w := NewWizard(users, &fakeAuth{})
	advanceToStep(t, w, StepUsername)

	// First attempt fails validation and records a message.
	w.SetUsername("bob")
	_, err := w.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Nome de usuário deve ter no mínimo 4 caracteres", w.Err("username"))

	// The next attempt's availability check is superseded by a newer one
	// racing it. The wizard must not advance, and the stale message from
	// the previous attempt must not linger.
	users.UsernameHook = func(ctx context.Context) {
		users.UsernameHook = nil
		_, _ = w.checker.Check(ctx, func(context.Context, string) (*api.CheckResponse, error) {
			return &api.CheckResponse{}, nil
		}, "bobinho2")
	}
	w.SetUsername("bobinho")
	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, StepUsername, w.Step())
	require.Empty(t, w.Err("username"))
}

func TestWizard_Step3_IdentityValidation(t *testing.T) {
	w := NewWizard(&fakeUsers{}, &fakeAuth{})
	advanceToStep(t, w, StepIdentity)

	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, StepIdentity, w.Step())
	require.Equal(t, "Primeiro nome é obrigatório", w.Err("firstName"))
	require.Equal(t, "Sobrenome é obrigatório", w.Err("lastName"))
	require.Equal(t, "E-mail é obrigatório", w.Err("email"))

	w.SetName("Bob", "Silva")
	w.SetEmail("not-an-email")
	_, err = w.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "E-mail inválido", w.Err("email"))
}

func TestWizard_Step3_TakenEmailBlocksAdvancement(t *testing.T) {
	w := NewWizard(&fakeUsers{EmailExists: true}, &fakeAuth{})
	advanceToStep(t, w, StepIdentity)

	w.SetName("Bob", "Silva")
	w.SetEmail("bob@b.com")
	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, StepIdentity, w.Step())
	require.Equal(t, "E-mail já está em uso", w.Err("email"))
}

func TestWizard_Step4_PasswordValidation(t *testing.T) {
	w := NewWizard(&fakeUsers{}, &fakeAuth{})
	advanceToStep(t, w, StepPassword)

	w.SetPassword("", "")
	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, "Senha é obrigatória", w.Err("password"))

	w.SetPassword("short", "short")
	_, err = w.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Senha deve ter no mínimo 8 caracteres", w.Err("password"))

	w.SetPassword("secret123", "different")
	_, err = w.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Senhas não coincidem", w.Err("confirmPassword"))
}

func TestWizard_Back_NeverBelowFirstStepAndClearsErrors(t *testing.T) {
	w := NewWizard(&fakeUsers{}, &fakeAuth{})
	advanceToStep(t, w, StepUsername)

	_, err := w.Next(context.Background()) // empty username -> error recorded
	require.NoError(t, err)
	require.NotEmpty(t, w.Err("username"))

	w.Back()
	require.Equal(t, StepProfile, w.Step())
	require.Empty(t, w.Err("username"))

	w.Back()
	require.Equal(t, StepProfile, w.Step())
}

func TestWizard_Submit_SignupThenAutoLogin(t *testing.T) {
	users := &fakeUsers{}
	auth := &fakeAuth{}
	w := NewWizard(users, auth)
	advanceToStep(t, w, StepPassword)

	w.SetPassword("secret123", "secret123")
	done, err := w.Next(context.Background())
	require.NoError(t, err)
	require.True(t, done)

	require.Equal(t, "bobinho", users.LastSignupReq.Username)
	require.Equal(t, api.AccountInfluencer, users.LastSignupReq.Profile)
	require.Equal(t, "bob@b.com", auth.LastCreds.Email)
	require.Equal(t, "secret123", auth.LastCreds.Password)
	require.Equal(t, "/dashboard", w.Redirect())
}

func TestWizard_Submit_SignupErrorSurfacesMessage(t *testing.T) {
	users := &fakeUsers{SignupErr: errors.New("Erro ao realizar cadastro")}
	w := NewWizard(users, &fakeAuth{})
	advanceToStep(t, w, StepPassword)

	w.SetPassword("secret123", "secret123")
	done, err := w.Next(context.Background())
	require.Error(t, err)
	require.False(t, done)
	require.Equal(t, "Erro ao realizar cadastro", w.Err("general"))
	require.Empty(t, w.Redirect())
}

func TestWizard_Submit_AutoLoginFailureRedirectsToLogin(t *testing.T) {
	users := &fakeUsers{}
	auth := &fakeAuth{LoginErr: errors.New("invalid credentials")}
	w := NewWizard(users, auth)
	advanceToStep(t, w, StepPassword)

	w.SetPassword("secret123", "secret123")
	done, err := w.Next(context.Background())
	require.False(t, done)
	require.ErrorIs(t, err, ErrAutoLogin)
	require.Equal(t, "/login", w.Redirect())
}
