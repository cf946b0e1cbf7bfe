package cli

import (
	"context"
	"errors"
	"os"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/signup"
	"github.com/publimatch/publimatch-cli/internal/common"
)

// Signup walks the user through the multi-step account creation flow.
// Typing "voltar" on a text prompt returns to the previous step.
//
// Each step is validated before advancing; validation messages are shown and
// the step is repeated until it passes. The final step submits the account
// and logs the new user in.
func (a *App) Signup(ctx context.Context) error {
	w := signup.NewWizard(a.users, a.state)

	for {
		if err := a.promptStep(w); err != nil {
			return err
		}

		done, err := w.Next(ctx)
		if err != nil {
			if errors.Is(err, signup.ErrAutoLogin) {
				printlnFn("Conta criada, mas o login automático falhou. Entre com suas credenciais.")
				return a.Open(ctx, w.Redirect())
			}
			printWizardErrors(w)
			return err
		}
		if done {
			printlnFn("Cadastro realizado com sucesso!")
			return a.Open(ctx, w.Redirect())
		}
		printWizardErrors(w)
	}
}

// promptStep collects the input the wizard's current step needs.
func (a *App) promptStep(w *signup.Wizard) error {
	switch w.Step() {
	case signup.StepProfile:
		choice, err := getSimpleText(a.reader, "Tipo de conta (1 - Influenciador, 2 - Anunciante)", os.Stdout)
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			w.SetProfile(api.AccountInfluencer)
		case "2":
			w.SetProfile(api.AccountAdvertiser)
		}

	case signup.StepUsername:
		username, err := getSimpleText(a.reader, "Nome de usuário", os.Stdout)
		if err != nil {
			return err
		}
		if username == "voltar" {
			w.Back()
			return nil
		}
		w.SetUsername(username)

	case signup.StepIdentity:
		first, err := getSimpleText(a.reader, "Primeiro nome", os.Stdout)
		if err != nil {
			return err
		}
		if first == "voltar" {
			w.Back()
			return nil
		}
		last, err := getSimpleText(a.reader, "Sobrenome", os.Stdout)
		if err != nil {
			return err
		}
		email, err := getSimpleText(a.reader, "E-mail", os.Stdout)
		if err != nil {
			return err
		}
		w.SetName(first, last)
		w.SetEmail(email)

	case signup.StepPassword:
		password, err := getPassword("Senha", os.Stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(password)

		confirmation, err := getPassword("Confirme a senha", os.Stdout)
		if err != nil {
			return err
		}
		defer common.WipeByteArray(confirmation)

		w.SetPassword(string(password), string(confirmation))
	}

	return nil
}

func printWizardErrors(w *signup.Wizard) {
	for _, msg := range w.Errors() {
		printlnFn(msg)
	}
}
