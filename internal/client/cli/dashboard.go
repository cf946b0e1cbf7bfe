package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Dashboard greets the logged-in user and summarizes the session.
func (a *App) Dashboard(ctx context.Context) error {
	user := a.state.User()
	if user == nil {
		printlnFn("Faça login para continuar.")
		return nil
	}

	name := user.FirstName
	if name == "" {
		name = user.Name
	}
	printlnFn(fmt.Sprintf("Olá, %s!", name))
	printlnFn(a.describeSession(ctx))
	return nil
}

// Profile shows the cached account details.
func (a *App) Profile(ctx context.Context) error {
	user := a.state.User()
	if user == nil {
		printlnFn("Faça login para continuar.")
		return nil
	}

	printlnFn("ID:     ", user.ID)
	printlnFn("Nome:   ", user.FirstName, user.LastName)
	printlnFn("E-mail: ", user.Email)
	return nil
}

// describeSession summarizes the stored bearer token. JWTs are decoded
// without signature verification, purely for display; anything else is
// reported as an opaque session.
func (a *App) describeSession(ctx context.Context) string {
	token, ok := a.store.Token(ctx)
	if !ok {
		return "Sessão: nenhuma"
	}
	return describeToken(token, time.Now())
}

func describeToken(token string, now time.Time) string {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return "Sessão: ativa (token opaco)"
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return "Sessão: ativa"
	}
	if exp.Before(now) {
		return fmt.Sprintf("Sessão: expirada em %s", exp.Format(time.RFC3339))
	}
	return fmt.Sprintf("Sessão: ativa até %s", exp.Format(time.RFC3339))
}
