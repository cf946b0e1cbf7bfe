package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/publimatch/publimatch-cli/internal/client/api"
	"github.com/publimatch/publimatch-cli/internal/client/config"
	"github.com/publimatch/publimatch-cli/internal/client/router"
	"github.com/publimatch/publimatch-cli/internal/client/services"
	"github.com/publimatch/publimatch-cli/internal/client/session"
	"github.com/publimatch/publimatch-cli/internal/client/state"
	"github.com/publimatch/publimatch-cli/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the client together: config, local session store, API client,
// services, auth state and the route guard. It owns the REPL lifecycle.
type App struct {
	config *config.Config
	log    logging.Logger

	db    *sql.DB
	store session.Store
	auth  services.AuthService
	users services.UserService
	state *state.Provider
	pages *router.Router

	reader *bufio.Reader

	// intended remembers the path the user asked for before being sent to
	// the login page, so a successful login can return them there.
	intended string
}

func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := session.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	store := session.NewSQLiteStore(db, log)

	apiClient, err := api.NewHTTPClient(c.BaseURL, store, c.RequestTimeout, log)
	if err != nil {
		return nil, err
	}

	auth := services.NewAuthService(apiClient, store, log)
	users := services.NewUserService(apiClient, log)

	provider, err := state.NewProvider(ctx, auth, store)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		store:  store,
		auth:   auth,
		users:  users,
		state:  provider,
		reader: bufio.NewReader(os.Stdin),
	}

	a.pages = router.NewRouter(router.NewGuard(provider))
	a.registerViews()

	return a, nil
}

// registerViews maps the application paths to their render functions.
func (a *App) registerViews() {
	a.pages.Handle("/login", func(ctx context.Context, path string) error {
		return a.Login(ctx)
	})
	a.pages.Handle("/cadastro", func(ctx context.Context, path string) error {
		return a.Signup(ctx)
	})
	a.pages.Handle("/esqueci-a-senha", func(ctx context.Context, path string) error {
		return a.ForgotPassword(ctx)
	})
	a.pages.Handle("/alterar-senha", func(ctx context.Context, path string) error {
		return a.ResetPassword(ctx, path)
	})
	a.pages.Handle("/dashboard", func(ctx context.Context, path string) error {
		return a.Dashboard(ctx)
	})
	a.pages.Handle("/perfil", func(ctx context.Context, path string) error {
		return a.Profile(ctx)
	})
}

func (a *App) isLoggedIn() bool {
	return a.state.Authenticated()
}

func (a *App) getStatus() string {
	if u := a.state.User(); u != nil {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return "(logged out)"
}

// Open navigates to path through the route guard. A redirect to the login
// page remembers the intended path for replay after a successful login.
func (a *App) Open(ctx context.Context, path string) error {
	res, err := a.pages.Open(ctx, path)
	if err != nil {
		return err
	}
	if res.Decision == router.RedirectToLogin {
		a.intended = res.From
		printlnFn("Faça login para continuar.")
	}
	return nil
}

func (a *App) Run(ctx context.Context) {
	printlnFn("PubliMatch CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() error {
	return a.db.Close()
}
