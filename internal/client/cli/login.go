package cli

import (
	"context"
	"errors"
	"os"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/services"
	"github.com/publimatch/publimatch-cli/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for credentials and tries to authenticate.
//
// Service errors are shown with their user-facing message (the server's own
// wording when it sent one). On success the user is taken to the path they
// originally asked for, or to the dashboard.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "E-mail", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword("Senha", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	creds := api.Credentials{Email: email, Password: string(password)}
	if err := a.state.Login(ctx, creds); err != nil {
		var ue *services.UserError
		if errors.As(err, &ue) {
			printlnFn(ue.Message)
		} else {
			printlnFn(services.MsgConnection)
		}
		return err
	}

	printlnFn("Login realizado com sucesso!")

	target := a.intended
	a.intended = ""
	if target == "" {
		target = "/dashboard"
	}
	return a.Open(ctx, target)
}

// Logout clears the stored session and the in-memory auth state.
func (a *App) Logout(ctx context.Context) error {
	a.state.Logout(ctx)
	printlnFn("Sessão encerrada.")
	return nil
}
