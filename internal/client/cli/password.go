package cli

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/services"
	"github.com/publimatch/publimatch-cli/internal/client/signup"
	"github.com/publimatch/publimatch-cli/internal/common"
)

// ForgotPassword asks for the account e-mail and requests a reset link.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "E-mail da conta", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.auth.InitiatePasswordReset(ctx, email)
	if err != nil {
		printUserError(err)
		return err
	}

	if res.Message != "" {
		printlnFn(res.Message)
	} else {
		printlnFn("E-mail de redefinição enviado para", res.Email)
	}
	return nil
}

// ResetPassword redeems a reset link (or bare token), validates it against
// the backend, then asks for the new password and submits the change.
//
// The argument may be the full link from the reset e-mail, in which case the
// token is extracted from its query string. A path without a token (direct
// navigation to the reset page) prompts for the link interactively.
func (a *App) ResetPassword(ctx context.Context, arg string) error {
	token, ok := services.ExtractTokenFromLocation(arg)
	if !ok {
		if strings.ContainsAny(arg, "/?") {
			link, err := getSimpleText(a.reader, "Cole o link de redefinição recebido por e-mail", os.Stdout)
			if err != nil {
				return err
			}
			if token, ok = services.ExtractTokenFromLocation(link); !ok {
				token = link
			}
		} else {
			token = arg
		}
	}

	if _, err := a.auth.ValidateResetToken(ctx, token); err != nil {
		printUserError(err)
		return err
	}

	password, err := getPassword("Nova senha", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirmation, err := getPassword("Confirme a nova senha", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirmation)

	// Same policy as signup; violations never reach the backend.
	if errs := signup.ValidateNewPassword(string(password), string(confirmation)); len(errs) > 0 {
		for _, msg := range errs {
			printlnFn(msg)
		}
		return nil
	}

	req := api.PasswordResetRequest{
		Token:                token,
		Password:             string(password),
		PasswordConfirmation: string(confirmation),
	}

	res, err := a.auth.CompletePasswordReset(ctx, req)
	if err != nil {
		printUserError(err)
		return err
	}

	if res.Message != "" {
		printlnFn(res.Message)
	} else {
		printlnFn("Senha redefinida com sucesso. Faça login com a nova senha.")
	}
	return nil
}

// printUserError shows the user-facing message of a service error, falling
// back to the generic connection message.
func printUserError(err error) {
	var ue *services.UserError
	if errors.As(err, &ue) {
		printlnFn(ue.Message)
		return
	}
	printlnFn(services.MsgConnection)
}
