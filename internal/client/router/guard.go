// Package router decides, per navigation, whether a requested path is
// rendered or redirected to the login page, based on the current auth state
// and a static allow-list of public paths.
package router

import "strings"

// Decision is the outcome of evaluating a navigation request.
type Decision int

const (
	// PublicPage: the path is on the allow-list and renders unconditionally.
	PublicPage Decision = iota
	// AuthenticatedAccess: the user is logged in and the target renders.
	AuthenticatedAccess
	// RedirectToLogin: the user is logged out on a guarded path.
	RedirectToLogin
)

func (d Decision) String() string {
	switch d {
	case PublicPage:
		return "public"
	case AuthenticatedAccess:
		return "authenticated"
	case RedirectToLogin:
		return "redirect-to-login"
	default:
		return "unknown"
	}
}

// LoginPath is where guarded navigations are redirected when logged out.
const LoginPath = "/login"

// DefaultPublicPaths is the allow-list of pages reachable without a session.
var DefaultPublicPaths = []string{
	"/login",
	"/esqueci-a-senha",
	"/alterar-senha",
	"/cadastro",
}

// AuthState is the read surface the guard needs; *state.Provider satisfies it.
type AuthState interface {
	Authenticated() bool
}

// Result carries the decision plus, for redirects, the target and the
// originally requested path so the caller can return the user there after a
// successful login (best effort; not replayed automatically).
type Result struct {
	Decision   Decision
	RedirectTo string
	From       string
}

// Guard evaluates navigation requests. It holds no navigation state of its
// own; every call re-reads the auth state.
type Guard struct {
	auth   AuthState
	public []string
}

// NewGuard builds a guard over the given auth state. With no explicit paths,
// DefaultPublicPaths is used.
func NewGuard(auth AuthState, publicPaths ...string) *Guard {
	if len(publicPaths) == 0 {
		publicPaths = DefaultPublicPaths
	}
	return &Guard{auth: auth, public: publicPaths}
}

// Evaluate runs the transition rule for a navigation to path:
//  1. allow-listed prefix → PublicPage, regardless of auth state;
//  2. authenticated → AuthenticatedAccess;
//  3. otherwise → RedirectToLogin, carrying the intended path.
func (g *Guard) Evaluate(path string) Result {
	for _, p := range g.public {
		if strings.HasPrefix(path, p) {
			return Result{Decision: PublicPage}
		}
	}

	if g.auth.Authenticated() {
		return Result{Decision: AuthenticatedAccess}
	}

	return Result{Decision: RedirectToLogin, RedirectTo: LoginPath, From: path}
}
